package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250601092500",
		up:      mig_20250601092500_contacts_up,
		down:    mig_20250601092500_contacts_down,
	})
}

func mig_20250601092500_contacts_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS contacts (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            workspace_id UUID NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
            name VARCHAR(255) NOT NULL,
            phone_number VARCHAR(50) NOT NULL,
            email VARCHAR(255) NOT NULL,
            company VARCHAR(255) NOT NULL,
            tags TEXT[] NOT NULL DEFAULT '{}',
            notes TEXT,
            created_by UUID REFERENCES users(id) ON DELETE SET NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            UNIQUE(workspace_id, phone_number)
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_contacts_workspace_id ON contacts(workspace_id);
        CREATE INDEX IF NOT EXISTS idx_contacts_tags ON contacts USING GIN(tags);
    `)
	return err
}

func mig_20250601092500_contacts_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS contacts;`)
	return err
}
