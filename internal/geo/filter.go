package geo

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/civicworks/civic-cli/internal/model"
)

// FilterByDistance computes the distance from center to each issue, keeps
// those within radiusKm (inclusive), and returns them in ascending distance
// order. The sort is stable, so issues at equal distance keep their input
// order. A negative radius is rejected rather than silently returning an
// empty result.
func FilterByDistance(issues []model.Issue, center model.Coordinate, radiusKm float64) ([]model.RankedIssue, error) {
	if radiusKm < 0 {
		return nil, eris.Wrapf(model.ErrInvalidArgument, "geo: negative radius %v km", radiusKm)
	}
	if err := center.Validate(); err != nil {
		return nil, err
	}

	ranked := make([]model.RankedIssue, 0, len(issues))
	for _, issue := range issues {
		d := Distance(center, issue.Coordinates)
		if d <= radiusKm {
			ranked = append(ranked, model.RankedIssue{Issue: issue, Distance: d})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})

	return ranked, nil
}
