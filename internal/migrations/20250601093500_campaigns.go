package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250601093500",
		up:      mig_20250601093500_campaigns_up,
		down:    mig_20250601093500_campaigns_down,
	})
}

func mig_20250601093500_campaigns_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS campaigns (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            workspace_id UUID NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
            name VARCHAR(255) NOT NULL,
            target_tags TEXT[] NOT NULL DEFAULT '{}',
            template_id UUID NOT NULL REFERENCES message_templates(id),
            status VARCHAR(20) NOT NULL DEFAULT 'Draft' CHECK (status IN ('Draft', 'Completed')),
            launched_at TIMESTAMP WITH TIME ZONE,
            created_by UUID REFERENCES users(id) ON DELETE SET NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            UNIQUE(workspace_id, name)
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_campaigns_workspace_id ON campaigns(workspace_id);
        CREATE INDEX IF NOT EXISTS idx_campaigns_status ON campaigns(status);
    `)
	return err
}

func mig_20250601093500_campaigns_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS campaigns;`)
	return err
}
