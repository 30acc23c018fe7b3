package nearby

import (
	"context"

	"github.com/kailas-cloud/nearwiki/internal/domain/geo"
	domnearby "github.com/kailas-cloud/nearwiki/internal/domain/nearby"
)

// SpatialSearcher finds items around a point.
type SpatialSearcher interface {
	Search(ctx context.Context, q domnearby.Query) ([]domnearby.SpatialHit, error)
}

// Enricher fetches display metadata for a batch of item ids.
type Enricher interface {
	Enrich(ctx context.Context, ids []domnearby.ItemID, maxResults int) (domnearby.Metadata, error)
}

// View supplies the visible extent a search is derived from.
type View interface {
	Extent() geo.Extent
}
