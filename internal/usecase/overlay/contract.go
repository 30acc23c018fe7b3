package overlay

import (
	"context"

	"github.com/kailas-cloud/nearwiki/internal/domain/geo"
	"github.com/kailas-cloud/nearwiki/internal/domain/marker"
)

// View is the map surface markers are drawn on.
type View interface {
	AddMarker(m marker.Marker)
	RemoveMarkers(ms []marker.Marker)
	OpenPopup(features []marker.Marker, updateLocationEnabled bool)
	ClosePopup()
	// GoTo moves the view and returns once the move has completed.
	GoTo(ctx context.Context, target geo.Point) error
}
