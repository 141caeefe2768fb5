// Package admin computes moderation and dashboard aggregates over issues.
package admin

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/civicworks/civic-cli/internal/model"
	"github.com/civicworks/civic-cli/internal/store"
)

// CategoryCount pairs a category with how many issues it holds.
type CategoryCount struct {
	Category model.Category `json:"category"`
	Count    int            `json:"count"`
}

// Stats summarizes the issue corpus for the admin dashboard.
type Stats struct {
	Total      int                       `json:"total"`
	ByStatus   map[model.IssueStatus]int `json:"by_status"`
	Flagged    int                       `json:"flagged"`
	Today      int                       `json:"today"`
	ThisWeek   int                       `json:"this_week"`
	ByCategory []CategoryCount           `json:"by_category"`
	ByReporter map[string]int            `json:"by_reporter"`
}

// Aggregator computes Stats. The clock is injected so day and week windows
// are deterministic under test.
type Aggregator struct {
	store store.Store
	now   func() time.Time
}

func NewAggregator(st store.Store, opts ...Option) *Aggregator {
	a := &Aggregator{store: st, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type Option func(*Aggregator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// Stats loads every issue, flagged included, and aggregates it.
func (a *Aggregator) Stats(ctx context.Context) (*Stats, error) {
	issues, err := a.store.ListIssues(ctx, store.IssueFilter{IncludeFlagged: true, Limit: -1})
	if err != nil {
		return nil, eris.Wrap(err, "admin: list issues")
	}
	return Compute(issues, a.now()), nil
}

// Compute aggregates stats over the given issues relative to now. Today means
// since local midnight; this week means the trailing seven days.
func Compute(issues []model.Issue, now time.Time) *Stats {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.AddDate(0, 0, -7)

	stats := &Stats{
		Total:      len(issues),
		ByStatus:   make(map[model.IssueStatus]int),
		ByReporter: make(map[string]int),
	}
	byCategory := make(map[model.Category]int)

	for _, issue := range issues {
		stats.ByStatus[issue.Status]++
		byCategory[issue.Category]++
		if issue.Flagged {
			stats.Flagged++
		}
		if !issue.CreatedAt.Before(dayStart) {
			stats.Today++
		}
		if !issue.CreatedAt.Before(weekStart) {
			stats.ThisWeek++
		}
		if issue.ReportedBy != "" {
			stats.ByReporter[issue.ReportedBy]++
		}
	}

	stats.ByCategory = make([]CategoryCount, 0, len(byCategory))
	for category, count := range byCategory {
		stats.ByCategory = append(stats.ByCategory, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(stats.ByCategory, func(i, j int) bool {
		if stats.ByCategory[i].Count != stats.ByCategory[j].Count {
			return stats.ByCategory[i].Count > stats.ByCategory[j].Count
		}
		return stats.ByCategory[i].Category < stats.ByCategory[j].Category
	})

	return stats
}
