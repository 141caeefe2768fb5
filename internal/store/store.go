// Package store persists civic issues behind a driver-agnostic interface
// with sqlite and postgres implementations.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/civicworks/civic-cli/internal/model"
)

// ErrNotFound is returned when an issue ID does not exist.
var ErrNotFound = eris.New("store: issue not found")

// IssueFilter specifies criteria for listing issues. A zero Limit applies
// the default page size of 100; a negative Limit disables paging.
type IssueFilter struct {
	Category       model.Category    `json:"category,omitempty"`
	Status         model.IssueStatus `json:"status,omitempty"`
	ReportedBy     string            `json:"reported_by,omitempty"`
	IncludeFlagged bool              `json:"include_flagged,omitempty"`
	Limit          int               `json:"limit,omitempty"`
	Offset         int               `json:"offset,omitempty"`
}

// Store defines the persistence interface for civic issues. Listing returns
// newest first; distance ranking is a read-side concern layered on top.
type Store interface {
	CreateIssue(ctx context.Context, draft model.IssueDraft) (*model.Issue, error)
	GetIssue(ctx context.Context, id string) (*model.Issue, error)
	ListIssues(ctx context.Context, filter IssueFilter) ([]model.Issue, error)
	UpdateStatus(ctx context.Context, id string, status model.IssueStatus) error
	UpdateCategory(ctx context.Context, id string, category model.Category) error
	Upvote(ctx context.Context, id string) (int, error)
	Flag(ctx context.Context, id string) error
	DeleteIssue(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
