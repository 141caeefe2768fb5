package feed

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/civicworks/civic-cli/internal/model"
)

// GeoJSON renders a ranked feed as a GeoJSON FeatureCollection of points.
// Coordinates follow the GeoJSON order of longitude then latitude.
func GeoJSON(ranked []model.RankedIssue) ([]byte, error) {
	features := make([]*geojson.Feature, 0, len(ranked))
	for _, ri := range ranked {
		pt := geom.NewPointFlat(geom.XY, []float64{ri.Coordinates.Lng, ri.Coordinates.Lat}).SetSRID(4326)
		features = append(features, &geojson.Feature{
			ID:       ri.ID,
			Geometry: pt,
			Properties: map[string]any{
				"title":       ri.Title,
				"description": ri.Description,
				"category":    string(ri.Category),
				"status":      string(ri.Status),
				"upvotes":     ri.Upvotes,
				"distance_km": ri.Distance,
				"created_at":  ri.CreatedAt,
			},
		})
	}

	fc := &geojson.FeatureCollection{Features: features}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "feed: encode geojson")
	}
	return data, nil
}
