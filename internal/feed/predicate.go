package feed

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/civicworks/civic-cli/internal/model"
)

// Predicate reports whether an issue should appear in a feed.
type Predicate func(model.Issue) bool

var foldCaser = cases.Fold()

// Search matches issues whose title or description contains the query,
// compared case-insensitively with Unicode case folding. An empty query
// matches everything.
func Search(query string) Predicate {
	q := foldCaser.String(strings.TrimSpace(query))
	if q == "" {
		return func(model.Issue) bool { return true }
	}
	return func(issue model.Issue) bool {
		return strings.Contains(foldCaser.String(issue.Title), q) ||
			strings.Contains(foldCaser.String(issue.Description), q)
	}
}

// Categories matches issues in any of the given categories. An empty list
// matches everything.
func Categories(categories ...model.Category) Predicate {
	if len(categories) == 0 {
		return func(model.Issue) bool { return true }
	}
	set := make(map[model.Category]struct{}, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return func(issue model.Issue) bool {
		_, ok := set[issue.Category]
		return ok
	}
}

// Statuses matches issues in any of the given statuses. An empty list
// matches everything.
func Statuses(statuses ...model.IssueStatus) Predicate {
	if len(statuses) == 0 {
		return func(model.Issue) bool { return true }
	}
	set := make(map[model.IssueStatus]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return func(issue model.Issue) bool {
		_, ok := set[issue.Status]
		return ok
	}
}

// Unflagged hides issues that have been flagged for moderation.
func Unflagged() Predicate {
	return func(issue model.Issue) bool { return !issue.Flagged }
}

// All combines predicates; an issue must satisfy every one.
func All(preds ...Predicate) Predicate {
	return func(issue model.Issue) bool {
		for _, p := range preds {
			if !p(issue) {
				return false
			}
		}
		return true
	}
}

// Apply filters issues down to those satisfying the predicate.
func Apply(issues []model.Issue, pred Predicate) []model.Issue {
	out := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		if pred(issue) {
			out = append(out, issue)
		}
	}
	return out
}
