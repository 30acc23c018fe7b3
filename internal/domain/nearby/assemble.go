package nearby

import (
	"fmt"

	"github.com/kailas-cloud/nearwiki/internal/domain/geo"
)

// ReprojectFunc converts a point into a target spatial reference.
type ReprojectFunc func(p geo.Point, target geo.SpatialReference) (geo.Point, error)

// Assemble merges spatial hits with their metadata into result items, in hit order.
// Hits without metadata get no url and a nil image. Locations are reprojected
// from geographic into target. Assemble performs no I/O.
func Assemble(
	hits []SpatialHit, meta Metadata, reproject ReprojectFunc, target geo.SpatialReference,
) ([]Item, error) {
	items := make([]Item, len(hits))
	for i, h := range hits {
		pm := meta.MetaFor(h.ID)

		pt, err := reproject(geo.NewGeographic(h.Lat, h.Lon), target)
		if err != nil {
			return nil, fmt.Errorf("reproject item %d: %w", h.ID, err)
		}

		items[i] = NewItem(h.ID, h.Title, pt, pm.CanonicalURL, pm.ThumbnailURL)
	}
	return items, nil
}
