package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicworks/civic-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func testTime() time.Time {
	return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
}

func pgIssueRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "title", "description", "category", "status", "lat", "lng",
		"reported_by", "is_anonymous", "upvotes", "flagged", "created_at", "updated_at",
	})
}

func TestPostgresStore_CreateIssue(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO issues`).
		WithArgs(pgxmock.AnyArg(), "Pothole on Main St", "Deep pothole near the intersection",
			"Road", "reported", 40.7, -74.0, "user-1", false, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	issue, err := s.CreateIssue(context.Background(), model.IssueDraft{
		Title:       "Pothole on Main St",
		Description: "Deep pothole near the intersection",
		Category:    model.CategoryRoad,
		Coordinates: model.Coordinate{Lat: 40.7, Lng: -74.0},
		ReportedBy:  "user-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, issue.ID)
	assert.Equal(t, model.StatusReported, issue.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateIssue_InvalidDraft(t *testing.T) {
	s, _ := newMockPostgresStore(t)

	_, err := s.CreateIssue(context.Background(), model.IssueDraft{Title: "", Category: model.CategoryRoad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidArgument))
}

func TestPostgresStore_GetIssue_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, title, description, category`).
		WithArgs("nonexistent").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetIssue(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListIssues(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgIssueRows().
		AddRow("id-1", "Water leak", "leaking", "Water Supply", "reported",
			40.75, -73.98, "user-2", false, 3, false, testTime(), testTime())

	mock.ExpectQuery(`SELECT .+ FROM issues WHERE 1=1 AND category = \$1 AND flagged = false ORDER BY created_at DESC LIMIT \$2`).
		WithArgs("Water Supply", 100).
		WillReturnRows(rows)

	issues, err := s.ListIssues(context.Background(), IssueFilter{Category: model.CategoryWaterSupply})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "id-1", issues[0].ID)
	assert.Equal(t, model.CategoryWaterSupply, issues[0].Category)
	assert.Equal(t, 3, issues[0].Upvotes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateStatus(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE issues SET status = \$1`).
		WithArgs("resolved", pgxmock.AnyArg(), "id-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.UpdateStatus(context.Background(), "id-1", model.StatusResolved))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateStatus_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE issues SET status = \$1`).
		WithArgs("resolved", pgxmock.AnyArg(), "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateStatus(context.Background(), "ghost", model.StatusResolved)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPostgresStore_UpdateStatus_Invalid(t *testing.T) {
	s, _ := newMockPostgresStore(t)

	err := s.UpdateStatus(context.Background(), "id-1", model.IssueStatus("closed"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidArgument))
}

func TestPostgresStore_Upvote(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`UPDATE issues SET upvotes = upvotes \+ 1`).
		WithArgs(pgxmock.AnyArg(), "id-1").
		WillReturnRows(pgxmock.NewRows([]string{"upvotes"}).AddRow(6))

	n, err := s.Upvote(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Upvote_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`UPDATE issues SET upvotes = upvotes \+ 1`).
		WithArgs(pgxmock.AnyArg(), "ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.Upvote(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPostgresStore_FlagAndDelete(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE issues SET flagged = true`).
		WithArgs(pgxmock.AnyArg(), "id-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`DELETE FROM issues WHERE id = \$1`).
		WithArgs("id-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, s.Flag(context.Background(), "id-1"))
	require.NoError(t, s.DeleteIssue(context.Background(), "id-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS issues`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
