package auth

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TokenRepo is the revocation ledger: one row per issued session token.
type TokenRepo struct {
	db *sqlx.DB
}

// NewTokenRepo creates a new session token repository
func NewTokenRepo(db *sqlx.DB) *TokenRepo {
	return &TokenRepo{db: db}
}

// Record persists the ledger row for a freshly issued token
func (r *TokenRepo) Record(ctx context.Context, rec *SessionToken) error {
	query := `
        INSERT INTO session_tokens (token, principal_id, principal_type, workspace_id, expires_at)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err := r.db.ExecContext(ctx, query, rec.Token, rec.PrincipalID, rec.PrincipalType, rec.WorkspaceID, rec.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to record session token: %w", err)
	}

	return nil
}

// IsActive reports whether an unrevoked, unexpired ledger row exists
// for the token. A missing, revoked or expired row all read as false;
// callers cannot tell the cases apart.
func (r *TokenRepo) IsActive(ctx context.Context, token string) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM session_tokens
            WHERE token = $1 AND is_revoked = FALSE AND expires_at > NOW()
        )
    `

	var active bool
	if err := r.db.GetContext(ctx, &active, query, token); err != nil {
		return false, fmt.Errorf("failed to check session token: %w", err)
	}

	return active, nil
}

// Revoke flips the revoked flag. Revoking an unknown or already revoked
// token is not an error; the return value reports whether a row
// actually changed.
func (r *TokenRepo) Revoke(ctx context.Context, token string) (bool, error) {
	query := `
        UPDATE session_tokens
        SET is_revoked = TRUE
        WHERE token = $1 AND is_revoked = FALSE
    `

	result, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return false, fmt.Errorf("failed to revoke session token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// DeleteExpired sweeps ledger rows whose expiry has passed. Expired
// rows are already inert; this only reclaims space.
func (r *TokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM session_tokens WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired session tokens: %w", err)
	}

	return result.RowsAffected()
}
