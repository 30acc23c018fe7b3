package nearby

import (
	"fmt"

	"github.com/kailas-cloud/nearwiki/internal/domain"
	"github.com/kailas-cloud/nearwiki/internal/domain/geo"
)

// Result count limits.
const (
	DefaultMaxResults = 10
	// MaxResultsCeiling is the upstream geosearch limit.
	MaxResultsCeiling = 500
)

// Query is a validated spatial search request in geographic coordinates.
type Query struct {
	center       geo.Point
	radiusMeters int
	maxResults   int
}

// NewQuery validates the search parameters. center is reprojected to WGS84
// because the remote service only accepts geographic coordinates.
func NewQuery(center geo.Point, radiusMeters, maxResults int) (Query, error) {
	if radiusMeters < geo.MinSearchRadius || radiusMeters > geo.MaxSearchRadius {
		return Query{}, fmt.Errorf("%w: radius must be between %d and %d meters, got %d",
			domain.ErrInvalidQuery, geo.MinSearchRadius, geo.MaxSearchRadius, radiusMeters)
	}
	if maxResults <= 0 || maxResults > MaxResultsCeiling {
		return Query{}, fmt.Errorf("%w: max results must be between 1 and %d, got %d",
			domain.ErrInvalidQuery, MaxResultsCeiling, maxResults)
	}

	gc, err := geo.ToGeographic(center)
	if err != nil {
		return Query{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	if !geo.ValidateCoordinates(gc.Lat(), gc.Lon()) {
		return Query{}, fmt.Errorf("%w: center (%f, %f) out of range", domain.ErrInvalidQuery, gc.Lat(), gc.Lon())
	}

	return Query{center: gc, radiusMeters: radiusMeters, maxResults: maxResults}, nil
}

// Center returns the geographic search center.
func (q Query) Center() geo.Point { return q.center }

// RadiusMeters returns the search radius.
func (q Query) RadiusMeters() int { return q.radiusMeters }

// MaxResults returns the result limit.
func (q Query) MaxResults() int { return q.maxResults }
