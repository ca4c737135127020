package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250601091500",
		up:      mig_20250601091500_user_workspaces_up,
		down:    mig_20250601091500_user_workspaces_down,
	})
}

func mig_20250601091500_user_workspaces_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS user_workspaces (
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            workspace_id UUID NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
            role VARCHAR(20) NOT NULL CHECK (role IN ('Editor', 'Viewer')),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            PRIMARY KEY (user_id, workspace_id)
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_user_workspaces_workspace_id ON user_workspaces(workspace_id);
    `)
	return err
}

func mig_20250601091500_user_workspaces_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS user_workspaces;`)
	return err
}
