package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// defaultLookbackDays bounds chart queries that come without an
// explicit start date
const defaultLookbackDays = 180

// dashboardRowLimit caps the recent-campaigns and top-tags tables
const dashboardRowLimit = 5

// AnalyticsService resolves date ranges and runs the dashboard
// aggregates for one workspace
type AnalyticsService struct {
	repo *AnalyticsRepo
	now  func() time.Time
}

// NewAnalyticsService constructs a new AnalyticsService
func NewAnalyticsService(repo *AnalyticsRepo) *AnalyticsService {
	return &AnalyticsService{repo: repo, now: time.Now}
}

// WithClock overrides the service's time source
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

// CampaignsPerDay returns the campaigns-created-per-day series
func (s *AnalyticsService) CampaignsPerDay(ctx context.Context, workspaceID uuid.UUID, q RangeQuery) ([]*ChartPoint, error) {
	start, end, err := s.resolveRange(q)
	if err != nil {
		return nil, err
	}

	return s.repo.CampaignsPerDay(ctx, workspaceID, start, end)
}

// MessagesPerType returns the sends-per-message-type-per-day series
func (s *AnalyticsService) MessagesPerType(ctx context.Context, workspaceID uuid.UUID, q RangeQuery) ([]*TypeChartPoint, error) {
	start, end, err := s.resolveRange(q)
	if err != nil {
		return nil, err
	}

	return s.repo.MessagesPerTypePerDay(ctx, workspaceID, start, end)
}

// ContactsReached returns the distinct-contacts-reached-per-day series
func (s *AnalyticsService) ContactsReached(ctx context.Context, workspaceID uuid.UUID, q RangeQuery) ([]*ChartPoint, error) {
	start, end, err := s.resolveRange(q)
	if err != nil {
		return nil, err
	}

	return s.repo.ContactsReachedPerDay(ctx, workspaceID, start, end)
}

// RecentCampaigns returns the workspace's five latest campaigns
func (s *AnalyticsService) RecentCampaigns(ctx context.Context, workspaceID uuid.UUID) ([]*RecentCampaign, error) {
	return s.repo.RecentCampaigns(ctx, workspaceID, dashboardRowLimit)
}

// TopContactTags returns the workspace's five most used contact tags
func (s *AnalyticsService) TopContactTags(ctx context.Context, workspaceID uuid.UUID) ([]*TagCount, error) {
	return s.repo.TopContactTags(ctx, workspaceID, dashboardRowLimit)
}

// resolveRange turns the optional YYYY-MM-DD bounds into a concrete
// UTC window: whole days, defaulting to the trailing 180 days.
func (s *AnalyticsService) resolveRange(q RangeQuery) (time.Time, time.Time, error) {
	end := s.now().UTC()
	if q.EndDate != "" {
		parsed, err := parseDay(q.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed
	}
	end = endOfDay(end)

	var start time.Time
	if q.StartDate != "" {
		parsed, err := parseDay(q.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	} else {
		start = end.AddDate(0, 0, -defaultLookbackDays)
	}
	start = startOfDay(start)

	return start, end, nil
}

func parseDay(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date: %s", value)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}
