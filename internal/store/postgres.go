package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/civicworks/civic-cli/internal/db"
	"github.com/civicworks/civic-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_issue": `INSERT INTO issues (id, title, description, category, status, lat, lng, reported_by, is_anonymous, upvotes, flagged, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, false, $10, $11)`,
	"get_issue":       pgIssueColumns + ` FROM issues WHERE id = $1`,
	"update_status":   `UPDATE issues SET status = $1, updated_at = $2 WHERE id = $3`,
	"update_category": `UPDATE issues SET category = $1, updated_at = $2 WHERE id = $3`,
	"upvote_issue":    `UPDATE issues SET upvotes = upvotes + 1, updated_at = $1 WHERE id = $2 RETURNING upvotes`,
	"flag_issue":      `UPDATE issues SET flagged = true, updated_at = $1 WHERE id = $2`,
	"delete_issue":    `DELETE FROM issues WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool, primarily for tests.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: pool.Close}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS issues (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	category     TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'reported',
	lat          DOUBLE PRECISION NOT NULL,
	lng          DOUBLE PRECISION NOT NULL,
	reported_by  TEXT NOT NULL DEFAULT '',
	is_anonymous BOOLEAN NOT NULL DEFAULT false,
	upvotes      INTEGER NOT NULL DEFAULT 0,
	flagged      BOOLEAN NOT NULL DEFAULT false,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_issues_status ON issues(status);
CREATE INDEX IF NOT EXISTS idx_issues_category ON issues(category);
CREATE INDEX IF NOT EXISTS idx_issues_reported_by ON issues(reported_by);
CREATE INDEX IF NOT EXISTS idx_issues_created_at ON issues(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateIssue(ctx context.Context, draft model.IssueDraft) (*model.Issue, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO issues (id, title, description, category, status, lat, lng, reported_by, is_anonymous, upvotes, flagged, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, false, $10, $11)`,
		id, draft.Title, draft.Description, string(draft.Category), string(model.StatusReported),
		draft.Coordinates.Lat, draft.Coordinates.Lng, draft.ReportedBy, draft.Anonymous, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert issue")
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

func (s *PostgresStore) GetIssue(ctx context.Context, id string) (*model.Issue, error) {
	row := s.pool.QueryRow(ctx, pgIssueColumns+` FROM issues WHERE id = $1`, id)
	return scanPGIssue(row)
}

func (s *PostgresStore) ListIssues(ctx context.Context, filter IssueFilter) ([]model.Issue, error) {
	query := pgIssueColumns + ` FROM issues WHERE 1=1`
	var args []any

	if filter.Category != "" {
		args = append(args, string(filter.Category))
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.ReportedBy != "" {
		args = append(args, filter.ReportedBy)
		query += fmt.Sprintf(` AND reported_by = $%d`, len(args))
	}
	if !filter.IncludeFlagged {
		query += ` AND flagged = false`
	}
	query += ` ORDER BY created_at DESC`

	// Limit < 0 means unbounded; 0 falls back to the default page size.
	limit := filter.Limit
	if limit == 0 {
		limit = 100
	}
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list issues")
	}
	defer rows.Close()

	var issues []model.Issue
	for rows.Next() {
		issue, err := scanPGIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, *issue)
	}
	return issues, eris.Wrap(rows.Err(), "postgres: list issues iterate")
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status model.IssueStatus) error {
	if !model.ValidStatus(status) {
		return eris.Wrapf(model.ErrInvalidArgument, "postgres: unknown status %q", string(status))
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE issues SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update status for issue %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "issue %s", id)
	}
	return nil
}

func (s *PostgresStore) UpdateCategory(ctx context.Context, id string, category model.Category) error {
	if !model.ValidCategory(category) {
		return eris.Wrapf(model.ErrInvalidArgument, "postgres: unknown category %q", string(category))
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE issues SET category = $1, updated_at = $2 WHERE id = $3`,
		string(category), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update category for issue %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "issue %s", id)
	}
	return nil
}

func (s *PostgresStore) Upvote(ctx context.Context, id string) (int, error) {
	var upvotes int
	err := s.pool.QueryRow(ctx,
		`UPDATE issues SET upvotes = upvotes + 1, updated_at = $1 WHERE id = $2 RETURNING upvotes`,
		time.Now().UTC(), id,
	).Scan(&upvotes)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, eris.Wrapf(ErrNotFound, "issue %s", id)
	}
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: upvote issue %s", id)
	}
	return upvotes, nil
}

func (s *PostgresStore) Flag(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE issues SET flagged = true, updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: flag issue %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "issue %s", id)
	}
	return nil
}

func (s *PostgresStore) DeleteIssue(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM issues WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete issue %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "issue %s", id)
	}
	return nil
}

// helpers

const pgIssueColumns = `SELECT id, title, description, category, status, lat, lng, reported_by, is_anonymous, upvotes, flagged, created_at, updated_at`

func scanPGIssue(row pgx.Row) (*model.Issue, error) {
	var issue model.Issue
	var category, status string

	err := row.Scan(
		&issue.ID, &issue.Title, &issue.Description, &category, &status,
		&issue.Coordinates.Lat, &issue.Coordinates.Lng,
		&issue.ReportedBy, &issue.Anonymous, &issue.Upvotes, &issue.Flagged,
		&issue.CreatedAt, &issue.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan issue")
	}

	issue.Category = model.Category(category)
	issue.Status = model.IssueStatus(status)
	return &issue, nil
}
