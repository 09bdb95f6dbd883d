package entity

import productentity "github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/product/entity"

// Producer is a manufacturer that owns products.
type Producer struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Country string `db:"country" json:"country"`
}

// CoolProducer is a producer together with how many products it has.
type CoolProducer struct {
	Producer
	ProductCount int `db:"product_count" json:"product_count"`
}

// ProducerWithProducts is a producer and its products.
type ProducerWithProducts struct {
	Producer
	Products []productentity.Product `json:"products"`
}
