package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/producer/entity"
)

// ProducerRepo provides data access for the producers table.
type ProducerRepo struct {
	db *sqlx.DB
}

func NewProducerRepo(db *sqlx.DB) *ProducerRepo { return &ProducerRepo{db: db} }

// ProducerPatch lists the columns to change; nil fields are left untouched.
type ProducerPatch struct {
	Name    *string
	Country *string
}

func (r *ProducerRepo) Create(ctx context.Context, p *entity.Producer) error {
	const q = `INSERT INTO producers (name, country) VALUES ($1, $2) RETURNING id`
	return r.db.GetContext(ctx, &p.ID, q, p.Name, p.Country)
}

func (r *ProducerRepo) Get(ctx context.Context, id int64) (*entity.Producer, bool, error) {
	const q = `SELECT id, name, country FROM producers WHERE id=$1`
	var p entity.Producer
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &p, true, nil
}

func (r *ProducerRepo) Exists(ctx context.Context, id int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM producers WHERE id=$1)`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, q, id); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *ProducerRepo) List(ctx context.Context) ([]entity.Producer, error) {
	const q = `SELECT id, name, country FROM producers ORDER BY id`
	out := []entity.Producer{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// ListWithMinProducts returns producers owning at least min products.
func (r *ProducerRepo) ListWithMinProducts(ctx context.Context, min int) ([]entity.CoolProducer, error) {
	const q = `SELECT p.id, p.name, p.country, COUNT(pr.id) AS product_count
		FROM producers p LEFT JOIN products pr ON pr.producer_id = p.id
		GROUP BY p.id, p.name, p.country
		HAVING COUNT(pr.id) >= $1
		ORDER BY p.id`
	out := []entity.CoolProducer{}
	if err := r.db.SelectContext(ctx, &out, q, min); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies patch and returns the resulting row; ok is false when id
// does not exist.
func (r *ProducerRepo) Update(ctx context.Context, id int64, patch ProducerPatch) (*entity.Producer, bool, error) {
	var sets []string
	var args []any
	if patch.Name != nil {
		args = append(args, *patch.Name)
		sets = append(sets, fmt.Sprintf("name=$%d", len(args)))
	}
	if patch.Country != nil {
		args = append(args, *patch.Country)
		sets = append(sets, fmt.Sprintf("country=$%d", len(args)))
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE producers SET %s WHERE id=$%d RETURNING id, name, country`, strings.Join(sets, ", "), len(args))
	var p entity.Producer
	if err := r.db.GetContext(ctx, &p, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &p, true, nil
}

// Delete removes a producer; its products go with it (ON DELETE CASCADE).
func (r *ProducerRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM producers WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
