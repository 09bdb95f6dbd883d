package entity

// Product belongs to exactly one producer.
type Product struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Price       float64 `db:"price" json:"price"`
	Description *string `db:"description" json:"description"`
	ProducerID  int64   `db:"producer_id" json:"producer"`
}
