package mapview

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/nearwiki/internal/domain/geo"
	"github.com/kailas-cloud/nearwiki/internal/domain/marker"
)

// Popup is the view's single info window.
type Popup struct {
	Visible               bool            `json:"visible"`
	Features              []marker.Marker `json:"features,omitempty"`
	UpdateLocationEnabled bool            `json:"update_location_enabled"`
}

// View is a map viewport: visible extent, overlay markers and popup.
// It is not safe for concurrent use; callers serialize access per view.
type View struct {
	extent  geo.Extent
	overlay *Overlay
	popup   Popup
}

// New creates an empty view showing extent.
func New(extent geo.Extent) (*View, error) {
	if err := extent.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extent: %w", err)
	}
	return &View{extent: extent, overlay: NewOverlay()}, nil
}

// Extent returns the visible extent.
func (v *View) Extent() geo.Extent { return v.extent }

// SpatialReference returns the working spatial reference.
func (v *View) SpatialReference() geo.SpatialReference { return v.extent.SR }

// SetExtent replaces the visible extent. The spatial reference cannot change.
func (v *View) SetExtent(e geo.Extent) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("invalid extent: %w", err)
	}
	if e.SR.Normalize() != v.extent.SR.Normalize() {
		return fmt.Errorf("extent spatial reference %v does not match view %v", e.SR, v.extent.SR)
	}
	v.extent = e
	return nil
}

// Overlay returns the marker collection.
func (v *View) Overlay() *Overlay { return v.overlay }

// Popup returns a copy of the popup state.
func (v *View) Popup() Popup { return v.popup }

// AddMarker adds m to the overlay.
func (v *View) AddMarker(m marker.Marker) { v.overlay.Add(m) }

// RemoveMarkers removes ms from the overlay; markers not present are ignored.
func (v *View) RemoveMarkers(ms []marker.Marker) { v.overlay.RemoveMany(ms) }

// OpenPopup shows the popup for features.
func (v *View) OpenPopup(features []marker.Marker, updateLocationEnabled bool) {
	v.popup = Popup{
		Visible:               true,
		Features:              append([]marker.Marker(nil), features...),
		UpdateLocationEnabled: updateLocationEnabled,
	}
}

// ClosePopup hides the popup.
func (v *View) ClosePopup() { v.popup = Popup{} }

// GoTo recenters the view on target, keeping the current extent size.
// Geographic views stop at the world edge, so target may end up off center.
// It returns once the move is complete.
func (v *View) GoTo(ctx context.Context, target geo.Point) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("goto: %w", err)
	}
	p, err := geo.Reproject(target, v.extent.SR)
	if err != nil {
		return fmt.Errorf("goto: %w", err)
	}
	v.extent = v.extent.CenterAt(p).KeepInWorld()
	return nil
}
