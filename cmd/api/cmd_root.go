package main

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/pkg/database"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/pkg/utilities"
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "api",
		Short:        "Catalog API service.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	cmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		hashPasswordCmd(),
		userCmd(),
	)

	return cmd
}

// newLogger builds the process logger from LOG_* variables.
func newLogger() (*zap.SugaredLogger, func(), error) {
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return lg.Sugar(), func() { _ = lg.Sync() }, nil
}

// openDB connects with DATABASE_* settings and wraps the pool in sqlx.
func openDB() (*sqlx.DB, error) {
	cfg := database.ConfigFromEnv()
	sqlDB, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	return sqlx.NewDb(sqlDB, cfg.Driver), nil
}

func autoMigrate() bool {
	return os.Getenv("DATABASE_AUTO_MIGRATE") != "0"
}
