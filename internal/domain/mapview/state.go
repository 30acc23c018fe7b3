package mapview

import (
	"github.com/kailas-cloud/nearwiki/internal/domain/geo"
	"github.com/kailas-cloud/nearwiki/internal/domain/marker"
)

// State is the serializable form of a View.
type State struct {
	Extent  geo.Extent      `json:"extent"`
	Markers []marker.Marker `json:"markers"`
	Popup   Popup           `json:"popup"`
}

// Snapshot captures the view state.
func (v *View) Snapshot() State {
	return State{Extent: v.extent, Markers: v.overlay.Items(), Popup: v.popup}
}

// Restore rebuilds a view from a snapshot.
func Restore(s State) (*View, error) {
	v, err := New(s.Extent)
	if err != nil {
		return nil, err
	}
	v.overlay.AddMany(s.Markers)
	v.popup = s.Popup
	return v, nil
}
