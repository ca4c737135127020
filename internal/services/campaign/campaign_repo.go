package campaign

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrCampaignNotFound = errors.New("campaign not found")

const campaignColumns = `
    c.id, c.workspace_id, c.name, c.target_tags, c.template_id, c.status,
    c.launched_at, c.created_at, c.updated_at,
    t.name AS template_name, t.type AS template_type, t.body AS template_body,
    t.image_url AS template_image_url,
    c.created_by, u.name AS created_by_name, u.email AS created_by_email
`

// CampaignRepo handles database operations for campaigns and their
// message records
type CampaignRepo struct {
	db *sqlx.DB
}

// NewCampaignRepo creates a new campaign repository
func NewCampaignRepo(db *sqlx.DB) *CampaignRepo {
	return &CampaignRepo{db: db}
}

// NameExists reports whether the workspace already has a campaign with
// the name
func (r *CampaignRepo) NameExists(ctx context.Context, workspaceID uuid.UUID, name string) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM campaigns WHERE workspace_id = $1 AND name = $2
        )
    `

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, workspaceID, name); err != nil {
		return false, fmt.Errorf("failed to check campaign name: %w", err)
	}

	return exists, nil
}

// Create inserts a new draft campaign
func (r *CampaignRepo) Create(ctx context.Context, c *Campaign) (*Campaign, error) {
	query := `
        INSERT INTO campaigns (workspace_id, name, target_tags, template_id, created_by)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `

	err := r.db.QueryRowxContext(ctx, query,
		c.WorkspaceID, c.Name, c.TargetTags, c.TemplateID, c.CreatedByID,
	).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	return r.GetByID(ctx, c.ID, c.WorkspaceID)
}

// GetByID retrieves a campaign by ID within a workspace, with its
// template and creator resolved
func (r *CampaignRepo) GetByID(ctx context.Context, id, workspaceID uuid.UUID) (*Campaign, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM campaigns c
        JOIN message_templates t ON t.id = c.template_id
        LEFT JOIN users u ON u.id = c.created_by
        WHERE c.id = $1 AND c.workspace_id = $2
    `, campaignColumns)

	var c Campaign
	err := r.db.GetContext(ctx, &c, query, id, workspaceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	c.resolveJoins()
	return &c, nil
}

// List retrieves a page of workspace campaigns with optional search and
// status filter
func (r *CampaignRepo) List(ctx context.Context, workspaceID uuid.UUID, q ListCampaignsQuery) ([]*Campaign, int, error) {
	where := "WHERE c.workspace_id = $1"
	args := []interface{}{workspaceID}

	if q.Search != "" {
		where += fmt.Sprintf(` AND c.name ILIKE $%d`, len(args)+1)
		args = append(args, "%"+q.Search+"%")
	}

	if q.Status != "" {
		where += fmt.Sprintf(` AND c.status = $%d`, len(args)+1)
		args = append(args, q.Status)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM campaigns c %s`, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count campaigns: %w", err)
	}

	query := fmt.Sprintf(`
        SELECT %s
        FROM campaigns c
        JOIN message_templates t ON t.id = c.template_id
        LEFT JOIN users u ON u.id = c.created_by
        %s
        ORDER BY c.created_at DESC
        LIMIT $%d OFFSET $%d
    `, campaignColumns, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	var campaigns []*Campaign
	if err := r.db.SelectContext(ctx, &campaigns, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list campaigns: %w", err)
	}

	for _, c := range campaigns {
		c.resolveJoins()
	}

	return campaigns, total, nil
}

// Update applies the given column updates to a workspace campaign
func (r *CampaignRepo) Update(ctx context.Context, id, workspaceID uuid.UUID, set map[string]interface{}) (*Campaign, error) {
	if len(set) == 0 {
		return r.GetByID(ctx, id, workspaceID)
	}

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{}

	for _, column := range []string{"name", "target_tags", "template_id", "status", "launched_at"} {
		if value, ok := set[column]; ok {
			setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)+1))
			args = append(args, value)
		}
	}

	args = append(args, id, workspaceID)

	query := fmt.Sprintf(`
        UPDATE campaigns
        SET %s
        WHERE id = $%d AND workspace_id = $%d
    `, strings.Join(setParts, ", "), len(args)-1, len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrCampaignNotFound
	}

	return r.GetByID(ctx, id, workspaceID)
}

// MarkCompleted flips the campaign to Completed, stamping the launch
// time when one is given
func (r *CampaignRepo) MarkCompleted(ctx context.Context, id, workspaceID uuid.UUID, launchedAt *time.Time) error {
	set := map[string]interface{}{"status": StatusCompleted}
	if launchedAt != nil {
		set["launched_at"] = *launchedAt
	}

	_, err := r.Update(ctx, id, workspaceID, set)
	return err
}

// Delete removes a workspace campaign
func (r *CampaignRepo) Delete(ctx context.Context, id, workspaceID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM campaigns WHERE id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCampaignNotFound
	}

	return nil
}

// CreateMessage records one simulated send
func (r *CampaignRepo) CreateMessage(ctx context.Context, m *Message) error {
	query := `
        INSERT INTO campaign_messages (workspace_id, campaign_id, contact_phone_numbers, message_body, message_image_url, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `

	err := r.db.QueryRowxContext(ctx, query,
		m.WorkspaceID, m.CampaignID, m.ContactPhoneNumbers, m.MessageBody, m.MessageImageURL, m.Status,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create campaign message: %w", err)
	}

	return nil
}

// ListMessages retrieves the send records of a campaign
func (r *CampaignRepo) ListMessages(ctx context.Context, campaignID uuid.UUID) ([]*Message, error) {
	query := `
        SELECT id, workspace_id, campaign_id, contact_phone_numbers, message_body, message_image_url, status, created_at
        FROM campaign_messages
        WHERE campaign_id = $1
        ORDER BY created_at DESC
    `

	messages := []*Message{}
	if err := r.db.SelectContext(ctx, &messages, query, campaignID); err != nil {
		return nil, fmt.Errorf("failed to list campaign messages: %w", err)
	}

	return messages, nil
}
