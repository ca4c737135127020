package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AnalyticsRepo runs the aggregate queries behind the dashboard
type AnalyticsRepo struct {
	db *sqlx.DB
}

// NewAnalyticsRepo creates a new analytics repository
func NewAnalyticsRepo(db *sqlx.DB) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

// CampaignsPerDay counts campaigns created per day within the range
func (r *AnalyticsRepo) CampaignsPerDay(ctx context.Context, workspaceID uuid.UUID, start, end time.Time) ([]*ChartPoint, error) {
	query := `
        SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS date, COUNT(*) AS count
        FROM campaigns
        WHERE workspace_id = $1 AND created_at BETWEEN $2 AND $3
        GROUP BY 1
        ORDER BY 1 ASC
    `

	points := []*ChartPoint{}
	if err := r.db.SelectContext(ctx, &points, query, workspaceID, start, end); err != nil {
		return nil, fmt.Errorf("failed to aggregate campaigns per day: %w", err)
	}

	return points, nil
}

// MessagesPerTypePerDay counts send records per day, split by whether
// the message carried an image
func (r *AnalyticsRepo) MessagesPerTypePerDay(ctx context.Context, workspaceID uuid.UUID, start, end time.Time) ([]*TypeChartPoint, error) {
	query := `
        SELECT
            to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS date,
            CASE WHEN message_image_url IS NOT NULL THEN 'Text & Image' ELSE 'Text' END AS type,
            COUNT(*) AS count
        FROM campaign_messages
        WHERE workspace_id = $1 AND created_at BETWEEN $2 AND $3
        GROUP BY 1, 2
        ORDER BY 1 ASC, 2 ASC
    `

	points := []*TypeChartPoint{}
	if err := r.db.SelectContext(ctx, &points, query, workspaceID, start, end); err != nil {
		return nil, fmt.Errorf("failed to aggregate messages per type: %w", err)
	}

	return points, nil
}

// ContactsReachedPerDay counts distinct phone numbers targeted per day
func (r *AnalyticsRepo) ContactsReachedPerDay(ctx context.Context, workspaceID uuid.UUID, start, end time.Time) ([]*ChartPoint, error) {
	query := `
        SELECT
            to_char(m.created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS date,
            COUNT(DISTINCT phone) AS count
        FROM campaign_messages m, unnest(m.contact_phone_numbers) AS phone
        WHERE m.workspace_id = $1 AND m.created_at BETWEEN $2 AND $3
        GROUP BY 1
        ORDER BY 1 ASC
    `

	points := []*ChartPoint{}
	if err := r.db.SelectContext(ctx, &points, query, workspaceID, start, end); err != nil {
		return nil, fmt.Errorf("failed to aggregate contacts reached: %w", err)
	}

	return points, nil
}

// RecentCampaigns returns the workspace's latest campaigns, newest
// first
func (r *AnalyticsRepo) RecentCampaigns(ctx context.Context, workspaceID uuid.UUID, limit int) ([]*RecentCampaign, error) {
	query := `
        SELECT id, name, status, target_tags, created_at, launched_at
        FROM campaigns
        WHERE workspace_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `

	campaigns := []*RecentCampaign{}
	if err := r.db.SelectContext(ctx, &campaigns, query, workspaceID, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent campaigns: %w", err)
	}

	return campaigns, nil
}

// TopContactTags returns the workspace's most used contact tags
func (r *AnalyticsRepo) TopContactTags(ctx context.Context, workspaceID uuid.UUID, limit int) ([]*TagCount, error) {
	query := `
        SELECT tag, COUNT(*) AS contact_count
        FROM contacts, unnest(tags) AS tag
        WHERE workspace_id = $1
        GROUP BY tag
        ORDER BY contact_count DESC
        LIMIT $2
    `

	tags := []*TagCount{}
	if err := r.db.SelectContext(ctx, &tags, query, workspaceID, limit); err != nil {
		return nil, fmt.Errorf("failed to aggregate top contact tags: %w", err)
	}

	return tags, nil
}
