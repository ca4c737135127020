package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrAdminNotFound = errors.New("admin not found")

// AdminRepo handles database operations for platform admins
type AdminRepo struct {
	db *sqlx.DB
}

// NewAdminRepo creates a new admin repository
func NewAdminRepo(db *sqlx.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

// GetByEmail retrieves an admin by exact email match
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	query := `
        SELECT id, email, password_hash, created_at
        FROM admins
        WHERE email = $1
    `

	var a Admin
	err := r.db.GetContext(ctx, &a, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return &a, nil
}

// Ensure inserts the admin if the email is not taken yet. Used by the
// seed command; admins have no runtime create/update path.
func (r *AdminRepo) Ensure(ctx context.Context, email, passwordHash string) (bool, error) {
	query := `
        INSERT INTO admins (email, password_hash)
        VALUES ($1, $2)
        ON CONFLICT (email) DO NOTHING
    `

	result, err := r.db.ExecContext(ctx, query, email, passwordHash)
	if err != nil {
		return false, fmt.Errorf("failed to seed admin: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
