package session

import (
	"context"

	"github.com/kailas-cloud/nearwiki/internal/domain/marker"
	domnearby "github.com/kailas-cloud/nearwiki/internal/domain/nearby"
	domsession "github.com/kailas-cloud/nearwiki/internal/domain/session"
	"github.com/kailas-cloud/nearwiki/internal/usecase/nearby"
	"github.com/kailas-cloud/nearwiki/internal/usecase/overlay"
)

// Repository defines the storage contract for view sessions.
type Repository interface {
	Save(ctx context.Context, s *domsession.Session) error
	Load(ctx context.Context, id string) (*domsession.Session, error)
	Delete(ctx context.Context, id string) error
}

// Finder runs the nearby pipeline.
type Finder interface {
	FindNearbyItems(ctx context.Context, opts nearby.Options) ([]domnearby.Item, error)
}

// Overlay manages result markers on a view.
type Overlay interface {
	AddMarkers(view overlay.View, items []domnearby.Item) []marker.Marker
	ClearMarkers(view overlay.View, markers []marker.Marker)
	HighlightMarker(
		ctx context.Context, view overlay.View, id domnearby.ItemID, markers []marker.Marker,
	) (marker.Marker, error)
}
