package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestResolveRangeDefaults(t *testing.T) {
	now := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	svc := NewAnalyticsService(nil).WithClock(fixedClock(now))

	start, end, err := svc.resolveRange(RangeQuery{})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 8, 15, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), end)
	assert.Equal(t, time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, defaultLookbackDays, int(end.Sub(start).Hours()/24))
}

func TestResolveRangeExplicitBounds(t *testing.T) {
	svc := NewAnalyticsService(nil).WithClock(fixedClock(time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)))

	start, end, err := svc.resolveRange(RangeQuery{StartDate: "2026-07-01", EndDate: "2026-07-31"})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 7, 31, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), end)
}

func TestResolveRangeRFC3339(t *testing.T) {
	svc := NewAnalyticsService(nil).WithClock(fixedClock(time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)))

	start, _, err := svc.resolveRange(RangeQuery{StartDate: "2026-07-01T14:00:00Z"})
	require.NoError(t, err)

	// Explicit timestamps are still widened to the whole day
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), start)
}

func TestResolveRangeInvalidDate(t *testing.T) {
	svc := NewAnalyticsService(nil)

	_, _, err := svc.resolveRange(RangeQuery{StartDate: "July 1st"})
	assert.Error(t, err)

	_, _, err = svc.resolveRange(RangeQuery{EndDate: "2026/07/31"})
	assert.Error(t, err)
}
