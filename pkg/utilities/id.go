package utilities

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// IDGenerator hands out snowflake IDs from a single node. It is safe for
// concurrent use.
type IDGenerator struct {
	node *snowflake.Node
}

// NewIDGenerator builds a generator for the given node. When the node id is
// out of range the generator falls back to KSUIDs.
func NewIDGenerator(nodeID int64) *IDGenerator {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return &IDGenerator{}
	}
	return &IDGenerator{node: node}
}

// NewIDGeneratorFromEnv reads the node id from SNOWFLAKE_NODE, defaulting to 1.
func NewIDGeneratorFromEnv() *IDGenerator {
	nodeID, err := strconv.ParseInt(os.Getenv("SNOWFLAKE_NODE"), 10, 64)
	if err != nil {
		nodeID = 1
	}
	return NewIDGenerator(nodeID)
}

// Next returns a new ID string.
func (g *IDGenerator) Next() string {
	if g == nil || g.node == nil {
		return NewKSUID()
	}
	return g.node.Generate().String()
}
