// Package feed assembles distance-ranked issue feeds from the store, a
// location resolver, and caller-supplied filter predicates.
package feed

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/civicworks/civic-cli/internal/geo"
	"github.com/civicworks/civic-cli/internal/model"
	"github.com/civicworks/civic-cli/internal/store"
)

// Query describes one feed request.
type Query struct {
	// Center overrides the resolver when set.
	Center   *model.Coordinate
	RadiusKm float64

	Search         string
	Categories     []model.Category
	Statuses       []model.IssueStatus
	IncludeFlagged bool

	Limit int
}

// Service produces ranked feeds.
type Service struct {
	store    store.Store
	resolver geo.Resolver
}

func NewService(st store.Store, resolver geo.Resolver) *Service {
	return &Service{store: st, resolver: resolver}
}

// Nearby returns issues within the query radius of its center, filtered by
// the query predicates and ranked by ascending distance. Flagged issues are
// excluded before ranking unless IncludeFlagged is set.
func (s *Service) Nearby(ctx context.Context, q Query) ([]model.RankedIssue, error) {
	center, err := s.center(ctx, q)
	if err != nil {
		return nil, err
	}

	issues, err := s.store.ListIssues(ctx, store.IssueFilter{
		IncludeFlagged: q.IncludeFlagged,
		Limit:          q.Limit,
	})
	if err != nil {
		return nil, eris.Wrap(err, "feed: list issues")
	}

	preds := []Predicate{
		Search(q.Search),
		Categories(q.Categories...),
		Statuses(q.Statuses...),
	}
	if !q.IncludeFlagged {
		preds = append(preds, Unflagged())
	}
	issues = Apply(issues, All(preds...))

	ranked, err := geo.FilterByDistance(issues, center, q.RadiusKm)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("feed assembled",
		zap.Float64("radius_km", q.RadiusKm),
		zap.Int("candidates", len(issues)),
		zap.Int("ranked", len(ranked)))
	return ranked, nil
}

func (s *Service) center(ctx context.Context, q Query) (model.Coordinate, error) {
	if q.Center != nil {
		if err := q.Center.Validate(); err != nil {
			return model.Coordinate{}, err
		}
		return *q.Center, nil
	}
	if s.resolver == nil {
		return model.Coordinate{}, eris.Wrap(geo.ErrLocationUnavailable, "feed: no resolver configured")
	}
	center, err := s.resolver.Resolve(ctx)
	if err != nil {
		return model.Coordinate{}, eris.Wrap(err, "feed: resolve center")
	}
	return center, nil
}
