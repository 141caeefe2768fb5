package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicworks/civic-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testDraft() model.IssueDraft {
	return model.IssueDraft{
		Title:       "Pothole on Main St",
		Description: "Deep pothole near the intersection",
		Category:    model.CategoryRoad,
		Coordinates: model.Coordinate{Lat: 40.7, Lng: -74.0},
		ReportedBy:  "user-1",
	}
}

func TestSQLite_CreateAndGetIssue(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.CreateIssue(ctx, testDraft())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.StatusReported, created.Status)
	assert.Equal(t, 0, created.Upvotes)
	assert.False(t, created.Flagged)

	got, err := st.GetIssue(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Pothole on Main St", got.Title)
	assert.Equal(t, model.CategoryRoad, got.Category)
	assert.InDelta(t, 40.7, got.Coordinates.Lat, 1e-9)
	assert.InDelta(t, -74.0, got.Coordinates.Lng, 1e-9)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestSQLite_CreateIssue_InvalidDraft(t *testing.T) {
	st := newTestSQLiteStore(t)

	draft := testDraft()
	draft.Title = "  "
	_, err := st.CreateIssue(context.Background(), draft)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidArgument))
}

func TestSQLite_GetIssue_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetIssue(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLite_ListIssues_Filters(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	road := testDraft()
	water := testDraft()
	water.Title = "Water leak on 5th Ave"
	water.Category = model.CategoryWaterSupply
	water.ReportedBy = "user-2"

	first, err := st.CreateIssue(ctx, road)
	require.NoError(t, err)
	_, err = st.CreateIssue(ctx, water)
	require.NoError(t, err)

	t.Run("no filter returns everything", func(t *testing.T) {
		issues, err := st.ListIssues(ctx, IssueFilter{})
		require.NoError(t, err)
		assert.Len(t, issues, 2)
	})

	t.Run("by category", func(t *testing.T) {
		issues, err := st.ListIssues(ctx, IssueFilter{Category: model.CategoryWaterSupply})
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Equal(t, "Water leak on 5th Ave", issues[0].Title)
	})

	t.Run("by reporter", func(t *testing.T) {
		issues, err := st.ListIssues(ctx, IssueFilter{ReportedBy: "user-1"})
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Equal(t, first.ID, issues[0].ID)
	})

	t.Run("by status", func(t *testing.T) {
		require.NoError(t, st.UpdateStatus(ctx, first.ID, model.StatusResolved))
		issues, err := st.ListIssues(ctx, IssueFilter{Status: model.StatusResolved})
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Equal(t, first.ID, issues[0].ID)
	})

	t.Run("flagged hidden by default", func(t *testing.T) {
		require.NoError(t, st.Flag(ctx, first.ID))

		issues, err := st.ListIssues(ctx, IssueFilter{})
		require.NoError(t, err)
		assert.Len(t, issues, 1)

		issues, err = st.ListIssues(ctx, IssueFilter{IncludeFlagged: true})
		require.NoError(t, err)
		assert.Len(t, issues, 2)
	})

	t.Run("limit and offset", func(t *testing.T) {
		issues, err := st.ListIssues(ctx, IssueFilter{IncludeFlagged: true, Limit: 1})
		require.NoError(t, err)
		assert.Len(t, issues, 1)

		rest, err := st.ListIssues(ctx, IssueFilter{IncludeFlagged: true, Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.NotEqual(t, issues[0].ID, rest[0].ID)
	})
}

func TestSQLite_UpdateStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	issue, err := st.CreateIssue(ctx, testDraft())
	require.NoError(t, err)

	require.NoError(t, st.UpdateStatus(ctx, issue.ID, model.StatusInProgress))
	got, err := st.GetIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, got.Status)

	err = st.UpdateStatus(ctx, issue.ID, model.IssueStatus("closed"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidArgument))

	err = st.UpdateStatus(ctx, "nonexistent", model.StatusResolved)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLite_UpdateCategory(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	issue, err := st.CreateIssue(ctx, testDraft())
	require.NoError(t, err)

	require.NoError(t, st.UpdateCategory(ctx, issue.ID, model.CategoryDrainage))
	got, err := st.GetIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryDrainage, got.Category)

	err = st.UpdateCategory(ctx, issue.ID, model.Category("roads"))
	assert.True(t, errors.Is(err, model.ErrInvalidArgument))
}

func TestSQLite_Upvote(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	issue, err := st.CreateIssue(ctx, testDraft())
	require.NoError(t, err)

	n, err := st.Upvote(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = st.Upvote(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = st.Upvote(ctx, "nonexistent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLite_FlagAndDelete(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	issue, err := st.CreateIssue(ctx, testDraft())
	require.NoError(t, err)

	require.NoError(t, st.Flag(ctx, issue.ID))
	got, err := st.GetIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.True(t, got.Flagged)

	require.NoError(t, st.DeleteIssue(ctx, issue.ID))
	_, err = st.GetIssue(ctx, issue.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	err = st.DeleteIssue(ctx, issue.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
