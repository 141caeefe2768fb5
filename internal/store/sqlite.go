package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/civicworks/civic-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS issues (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	category     TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'reported',
	lat          REAL NOT NULL,
	lng          REAL NOT NULL,
	reported_by  TEXT NOT NULL DEFAULT '',
	is_anonymous INTEGER NOT NULL DEFAULT 0,
	upvotes      INTEGER NOT NULL DEFAULT 0,
	flagged      INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_issues_status ON issues(status);
CREATE INDEX IF NOT EXISTS idx_issues_category ON issues(category);
CREATE INDEX IF NOT EXISTS idx_issues_reported_by ON issues(reported_by);
CREATE INDEX IF NOT EXISTS idx_issues_created_at ON issues(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateIssue(ctx context.Context, draft model.IssueDraft) (*model.Issue, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO issues (id, title, description, category, status, lat, lng, reported_by, is_anonymous, upvotes, flagged, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`,
		id, draft.Title, draft.Description, string(draft.Category), string(model.StatusReported),
		draft.Coordinates.Lat, draft.Coordinates.Lng, draft.ReportedBy, draft.Anonymous, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert issue")
	}

	return &model.Issue{
		ID:          id,
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		Status:      model.StatusReported,
		Coordinates: draft.Coordinates,
		ReportedBy:  draft.ReportedBy,
		Anonymous:   draft.Anonymous,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *SQLiteStore) GetIssue(ctx context.Context, id string) (*model.Issue, error) {
	row := s.db.QueryRowContext(ctx,
		issueColumns+` FROM issues WHERE id = ?`,
		id,
	)
	return scanIssue(row)
}

func (s *SQLiteStore) ListIssues(ctx context.Context, filter IssueFilter) ([]model.Issue, error) {
	query := issueColumns + ` FROM issues WHERE 1=1`
	var args []any

	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, string(filter.Category))
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.ReportedBy != "" {
		query += ` AND reported_by = ?`
		args = append(args, filter.ReportedBy)
	}
	if !filter.IncludeFlagged {
		query += ` AND flagged = 0`
	}
	query += ` ORDER BY created_at DESC`

	// Limit < 0 means unbounded; 0 falls back to the default page size.
	limit := filter.Limit
	if limit == 0 {
		limit = 100
	}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	} else if filter.Offset > 0 {
		// sqlite requires a LIMIT clause before OFFSET; -1 is unbounded.
		query += ` LIMIT -1`
	}

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list issues")
	}
	defer rows.Close()

	var issues []model.Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, *issue)
	}
	return issues, eris.Wrap(rows.Err(), "sqlite: list issues iterate")
}

func (s *SQLiteStore) UpdateStatus(ctx context.Context, id string, status model.IssueStatus) error {
	if !model.ValidStatus(status) {
		return eris.Wrapf(model.ErrInvalidArgument, "sqlite: unknown status %q", string(status))
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE issues SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update status for issue %s", id)
	}
	return checkRowsAffected(res, id)
}

func (s *SQLiteStore) UpdateCategory(ctx context.Context, id string, category model.Category) error {
	if !model.ValidCategory(category) {
		return eris.Wrapf(model.ErrInvalidArgument, "sqlite: unknown category %q", string(category))
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE issues SET category = ?, updated_at = ? WHERE id = ?`,
		string(category), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update category for issue %s", id)
	}
	return checkRowsAffected(res, id)
}

func (s *SQLiteStore) Upvote(ctx context.Context, id string) (int, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE issues SET upvotes = upvotes + 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: upvote issue %s", id)
	}

	var upvotes int
	err = s.db.QueryRowContext(ctx, `SELECT upvotes FROM issues WHERE id = ?`, id).Scan(&upvotes)
	if err == sql.ErrNoRows {
		return 0, eris.Wrapf(ErrNotFound, "sqlite: issue %s", id)
	}
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: read upvotes for issue %s", id)
	}
	return upvotes, nil
}

func (s *SQLiteStore) Flag(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE issues SET flagged = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: flag issue %s", id)
	}
	return checkRowsAffected(res, id)
}

func (s *SQLiteStore) DeleteIssue(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM issues WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete issue %s", id)
	}
	return checkRowsAffected(res, id)
}

// helpers

const issueColumns = `SELECT id, title, description, category, status, lat, lng, reported_by, is_anonymous, upvotes, flagged, created_at, updated_at`

func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "issue %s", id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanIssue(row scannable) (*model.Issue, error) {
	var issue model.Issue
	var category, status string

	err := row.Scan(
		&issue.ID, &issue.Title, &issue.Description, &category, &status,
		&issue.Coordinates.Lat, &issue.Coordinates.Lng,
		&issue.ReportedBy, &issue.Anonymous, &issue.Upvotes, &issue.Flagged,
		&issue.CreatedAt, &issue.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan issue")
	}

	issue.Category = model.Category(category)
	issue.Status = model.IssueStatus(status)
	return &issue, nil
}
