package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250601094000",
		up:      mig_20250601094000_campaign_messages_up,
		down:    mig_20250601094000_campaign_messages_down,
	})
}

func mig_20250601094000_campaign_messages_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS campaign_messages (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            workspace_id UUID NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
            campaign_id UUID NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
            contact_phone_numbers TEXT[] NOT NULL DEFAULT '{}',
            message_body TEXT NOT NULL,
            message_image_url TEXT,
            status VARCHAR(20) NOT NULL CHECK (status IN ('Sent', 'Failed')),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_campaign_messages_workspace_id ON campaign_messages(workspace_id);
        CREATE INDEX IF NOT EXISTS idx_campaign_messages_campaign_id ON campaign_messages(campaign_id);
    `)
	return err
}

func mig_20250601094000_campaign_messages_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS campaign_messages;`)
	return err
}
