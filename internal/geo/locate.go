package geo

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/civicworks/civic-cli/internal/model"
)

// ErrLocationUnavailable signals that no reference coordinate could be
// obtained and no fallback was configured. The caller decides how to
// degrade; this package never substitutes a hidden default.
var ErrLocationUnavailable = eris.New("geo: location unavailable")

// Resolver supplies the reference coordinate for distance filtering.
// Acquisition is external (device geolocation, user profile, request
// parameters) and can fail.
type Resolver interface {
	Resolve(ctx context.Context) (model.Coordinate, error)
}

// Static is a Resolver that always returns a fixed coordinate.
type Static struct {
	Coordinate model.Coordinate
}

// Resolve implements Resolver.
func (s Static) Resolve(ctx context.Context) (model.Coordinate, error) {
	if err := s.Coordinate.Validate(); err != nil {
		return model.Coordinate{}, err
	}
	return s.Coordinate, nil
}

// Unavailable is a Resolver that always fails, for callers with no location
// source at all.
type Unavailable struct{}

// Resolve implements Resolver.
func (Unavailable) Resolve(ctx context.Context) (model.Coordinate, error) {
	return model.Coordinate{}, ErrLocationUnavailable
}

// Fallback tries a primary resolver and degrades to an explicitly configured
// coordinate when the primary fails. With no fallback configured the primary
// failure propagates unchanged.
type Fallback struct {
	Primary  Resolver
	Coord    model.Coordinate
	HasCoord bool
}

// NewFallback wraps primary with the given degraded-mode coordinate.
func NewFallback(primary Resolver, coord model.Coordinate) Fallback {
	return Fallback{Primary: primary, Coord: coord, HasCoord: true}
}

// Resolve implements Resolver.
func (f Fallback) Resolve(ctx context.Context) (model.Coordinate, error) {
	loc, err := f.Primary.Resolve(ctx)
	if err == nil {
		return loc, nil
	}
	if !f.HasCoord {
		return model.Coordinate{}, err
	}
	if vErr := f.Coord.Validate(); vErr != nil {
		return model.Coordinate{}, vErr
	}
	return f.Coord, nil
}
