package overlay

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nearwiki/internal/domain"
	"github.com/kailas-cloud/nearwiki/internal/domain/marker"
	"github.com/kailas-cloud/nearwiki/internal/domain/nearby"
	"github.com/kailas-cloud/nearwiki/internal/logger"
	"github.com/kailas-cloud/nearwiki/internal/metrics"
)

// Manager creates, clears and highlights result markers on a view.
// It keeps no registry: callers retain the returned markers.
// Calls on the same view must be serialized by the caller.
type Manager struct {
	symbol marker.Symbol
	popup  marker.PopupTemplate
}

// New creates a manager sharing symbol across all markers. An empty
// moreInfoLabel falls back to marker.DefaultMoreInfoLabel.
func New(symbol marker.Symbol, moreInfoLabel string) *Manager {
	return &Manager{symbol: symbol, popup: marker.NewPopupTemplate(moreInfoLabel)}
}

// AddMarkers builds one marker per item, adds them to view in item order and
// returns them. The popup is closed first.
func (m *Manager) AddMarkers(view View, items []nearby.Item) []marker.Marker {
	// Items carry no markers yet, so only the popup reset takes effect.
	m.ClearMarkers(view, nil)

	markers := make([]marker.Marker, 0, len(items))
	for _, it := range items {
		mk := marker.New(it, m.symbol, m.popup)
		view.AddMarker(mk)
		markers = append(markers, mk)
	}
	metrics.MarkersAddedTotal.Add(float64(len(markers)))
	return markers
}

// ClearMarkers removes markers from view and closes the popup.
// Markers not on the view are ignored.
func (m *Manager) ClearMarkers(view View, markers []marker.Marker) {
	view.RemoveMarkers(markers)
	view.ClosePopup()
}

// HighlightMarker moves view to the first marker with id and, once the move
// has completed, opens the popup on it. On a miss it returns
// domain.ErrMarkerNotFound and leaves view untouched.
func (m *Manager) HighlightMarker(
	ctx context.Context, view View, id nearby.ItemID, markers []marker.Marker,
) (marker.Marker, error) {
	mk, ok := FindMarker(id, markers)
	if !ok {
		metrics.HighlightsTotal.WithLabelValues("not_found").Inc()
		return marker.Marker{}, fmt.Errorf("%w: id %d", domain.ErrMarkerNotFound, id)
	}

	if err := view.GoTo(ctx, mk.Point); err != nil {
		metrics.HighlightsTotal.WithLabelValues("error").Inc()
		return marker.Marker{}, fmt.Errorf("move to marker %d: %w", id, err)
	}
	view.OpenPopup([]marker.Marker{mk}, true)

	metrics.HighlightsTotal.WithLabelValues("found").Inc()
	logger.FromContext(ctx).Debug("marker highlighted",
		zap.Int64("id", int64(id)),
		zap.String("handle", mk.Handle),
	)
	return mk, nil
}

// FindMarker returns the first marker whose attributes carry id.
func FindMarker(id nearby.ItemID, markers []marker.Marker) (marker.Marker, bool) {
	for _, mk := range markers {
		if mk.Attributes.ID == id {
			return mk, true
		}
	}
	return marker.Marker{}, false
}
