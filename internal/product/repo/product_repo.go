package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/product/entity"
)

// ProductRepo provides data access for the products table.
type ProductRepo struct {
	db *sqlx.DB
}

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productColumns = `id, name, price, description, producer_id`

// ProductPatch lists the columns to change; nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Price       *float64
	Description *string
	ProducerID  *int64
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	const q = `INSERT INTO products (name, price, description, producer_id) VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.GetContext(ctx, &p.ID, q, p.Name, p.Price, p.Description, p.ProducerID)
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (*entity.Product, bool, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	var p entity.Product
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &p, true, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]entity.Product, error) {
	return r.selectProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

// ListByPriceRange returns products with min <= price <= max.
func (r *ProductRepo) ListByPriceRange(ctx context.Context, min, max float64) ([]entity.Product, error) {
	return r.selectProducts(ctx, `SELECT `+productColumns+` FROM products WHERE price BETWEEN $1 AND $2 ORDER BY id`, min, max)
}

// ListByProducer returns a producer's products, cheapest first.
func (r *ProductRepo) ListByProducer(ctx context.Context, producerID int64) ([]entity.Product, error) {
	return r.selectProducts(ctx, `SELECT `+productColumns+` FROM products WHERE producer_id=$1 ORDER BY price, id`, producerID)
}

func (r *ProductRepo) selectProducts(ctx context.Context, q string, args ...any) ([]entity.Product, error) {
	out := []entity.Product{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies patch and returns the resulting row; ok is false when id
// does not exist.
func (r *ProductRepo) Update(ctx context.Context, id int64, patch ProductPatch) (*entity.Product, bool, error) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.ProducerID != nil {
		add("producer_id", *patch.ProducerID)
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE products SET %s WHERE id=$%d RETURNING %s`, strings.Join(sets, ", "), len(args), productColumns)
	var p entity.Product
	if err := r.db.GetContext(ctx, &p, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &p, true, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
