package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250601092000",
		up:      mig_20250601092000_session_tokens_up,
		down:    mig_20250601092000_session_tokens_down,
	})
}

func mig_20250601092000_session_tokens_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS session_tokens (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            token TEXT NOT NULL,
            principal_id UUID NOT NULL,
            principal_type VARCHAR(20) NOT NULL CHECK (principal_type IN ('admin', 'user')),
            workspace_id UUID,
            expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
            is_revoked BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            UNIQUE(token)
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_session_tokens_principal_id ON session_tokens(principal_id);
        CREATE INDEX IF NOT EXISTS idx_session_tokens_expires_at ON session_tokens(expires_at);
        CREATE INDEX IF NOT EXISTS idx_session_tokens_is_revoked ON session_tokens(is_revoked);
    `)
	return err
}

func mig_20250601092000_session_tokens_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS session_tokens;`)
	return err
}
