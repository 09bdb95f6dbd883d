package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/user/entity"
)

// UserRepo provides data access for users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, username, full_name, password_hash, disabled, created_at, updated_at`

// Create inserts a new user row. Returns new ID.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) (int64, error) {
	q := `INSERT INTO users (username, full_name, password_hash, disabled)
		  VALUES (:username, :full_name, :password_hash, :disabled) RETURNING id`
	params := map[string]any{
		"username":      u.Username,
		"full_name":     u.FullName,
		"password_hash": u.PasswordHash,
		"disabled":      u.Disabled,
	}
	rows, err := r.db.NamedQueryContext(ctx, q, params)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&u.ID); err != nil {
			return 0, err
		}
		return u.ID, nil
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return 0, errors.New("no id returned")
}

// FindByUsername fetches by username; ok is false when no row matches.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, bool, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &row, true, nil
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]entity.User, error) {
	q := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	users := []entity.User{}
	if err := r.db.SelectContext(ctx, &users, q); err != nil {
		return nil, err
	}
	return users, nil
}

// SetDisabled marks a user as disabled or active again. Returns false when
// no user has that username.
func (r *UserRepo) SetDisabled(ctx context.Context, username string, disabled bool) (bool, error) {
	const q = `UPDATE users SET disabled=$2, updated_at=NOW() WHERE username=$1`
	res, err := r.db.ExecContext(ctx, q, username, disabled)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
