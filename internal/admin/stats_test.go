package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicworks/civic-cli/internal/model"
	"github.com/civicworks/civic-cli/internal/store"
)

type fakeStore struct {
	store.Store

	issues     []model.Issue
	lastFilter store.IssueFilter
}

func (f *fakeStore) ListIssues(_ context.Context, filter store.IssueFilter) ([]model.Issue, error) {
	f.lastFilter = filter
	return f.issues, nil
}

func statsFixture(now time.Time) []model.Issue {
	return []model.Issue{
		{ID: "a", Category: model.CategoryRoad, Status: model.StatusReported,
			ReportedBy: "alice", CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "b", Category: model.CategoryRoad, Status: model.StatusInProgress,
			ReportedBy: "alice", CreatedAt: now.AddDate(0, 0, -2)},
		{ID: "c", Category: model.CategorySanitation, Status: model.StatusResolved,
			ReportedBy: "bob", CreatedAt: now.AddDate(0, 0, -10)},
		{ID: "d", Category: model.CategoryRoad, Status: model.StatusReported,
			Flagged: true, CreatedAt: now.AddDate(0, 0, -3)},
	}
}

func TestCompute(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 10, 15, 30, 0, 0, time.UTC)
	stats := Compute(statsFixture(now), now)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[model.StatusReported])
	assert.Equal(t, 1, stats.ByStatus[model.StatusInProgress])
	assert.Equal(t, 1, stats.ByStatus[model.StatusResolved])
	assert.Equal(t, 1, stats.Flagged)
	assert.Equal(t, 1, stats.Today)
	assert.Equal(t, 3, stats.ThisWeek)

	require.Len(t, stats.ByCategory, 2)
	assert.Equal(t, model.CategoryRoad, stats.ByCategory[0].Category)
	assert.Equal(t, 3, stats.ByCategory[0].Count)
	assert.Equal(t, model.CategorySanitation, stats.ByCategory[1].Category)

	assert.Equal(t, 2, stats.ByReporter["alice"])
	assert.Equal(t, 1, stats.ByReporter["bob"])
	// Anonymous reports carry no reporter and are not counted per user.
	assert.NotContains(t, stats.ByReporter, "")
}

func TestCompute_CategoryTieBreak(t *testing.T) {
	t.Parallel()

	now := time.Now()
	stats := Compute([]model.Issue{
		{Category: model.CategoryDrainage, CreatedAt: now},
		{Category: model.CategoryRoad, CreatedAt: now},
	}, now)

	require.Len(t, stats.ByCategory, 2)
	// Equal counts fall back to name order for stable output.
	assert.Equal(t, model.CategoryDrainage, stats.ByCategory[0].Category)
	assert.Equal(t, model.CategoryRoad, stats.ByCategory[1].Category)
}

func TestCompute_Empty(t *testing.T) {
	t.Parallel()

	stats := Compute(nil, time.Now())
	assert.Equal(t, 0, stats.Total)
	assert.Empty(t, stats.ByCategory)
	assert.Empty(t, stats.ByStatus)
}

func TestAggregator_IncludesFlaggedUnpaged(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 10, 15, 30, 0, 0, time.UTC)
	st := &fakeStore{issues: statsFixture(now)}
	agg := NewAggregator(st, WithClock(func() time.Time { return now }))

	stats, err := agg.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.True(t, st.lastFilter.IncludeFlagged)
	assert.Negative(t, st.lastFilter.Limit)
}
