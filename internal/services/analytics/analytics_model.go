package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ChartPoint is one day of a count series
type ChartPoint struct {
	Date  string `db:"date" json:"date"`
	Count int    `db:"count" json:"count"`
}

// TypeChartPoint is one day of a count series split by message type
type TypeChartPoint struct {
	Date  string `db:"date" json:"date"`
	Type  string `db:"type" json:"type"`
	Count int    `db:"count" json:"count"`
}

// RecentCampaign is the dashboard row for the latest campaigns table
type RecentCampaign struct {
	ID         uuid.UUID      `db:"id" json:"id"`
	Name       string         `db:"name" json:"name"`
	Status     string         `db:"status" json:"status"`
	TargetTags pq.StringArray `db:"target_tags" json:"targetTags"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
	LaunchedAt *time.Time     `db:"launched_at" json:"launchedAt,omitempty"`
}

// TagCount is one row of the top-tags table
type TagCount struct {
	Tag          string `db:"tag" json:"tag"`
	ContactCount int    `db:"contact_count" json:"contactCount"`
}

// RangeQuery carries the optional date bounds of a chart query, as
// YYYY-MM-DD strings
type RangeQuery struct {
	StartDate string
	EndDate   string
}
