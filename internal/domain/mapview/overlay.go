package mapview

import "github.com/kailas-cloud/nearwiki/internal/domain/marker"

// Overlay is an ordered marker collection keyed by marker handle.
type Overlay struct {
	items []marker.Marker
}

// NewOverlay creates an empty overlay.
func NewOverlay() *Overlay { return &Overlay{} }

// Add appends m. A marker whose handle is already present is replaced in place.
func (o *Overlay) Add(m marker.Marker) {
	for i := range o.items {
		if o.items[i].Handle == m.Handle {
			o.items[i] = m
			return
		}
	}
	o.items = append(o.items, m)
}

// AddMany adds markers in order.
func (o *Overlay) AddMany(ms []marker.Marker) {
	for _, m := range ms {
		o.Add(m)
	}
}

// Remove drops the marker with handle, if present.
func (o *Overlay) Remove(handle string) {
	o.RemoveMany([]marker.Marker{{Handle: handle}})
}

// RemoveMany drops every marker sharing a handle with ms.
func (o *Overlay) RemoveMany(ms []marker.Marker) {
	if len(ms) == 0 || len(o.items) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(ms))
	for _, m := range ms {
		drop[m.Handle] = struct{}{}
	}
	kept := o.items[:0]
	for _, m := range o.items {
		if _, ok := drop[m.Handle]; !ok {
			kept = append(kept, m)
		}
	}
	clear(o.items[len(kept):])
	o.items = kept
}

// Contains reports whether a marker with handle is present.
func (o *Overlay) Contains(handle string) bool {
	for _, m := range o.items {
		if m.Handle == handle {
			return true
		}
	}
	return false
}

// Items returns a copy of the markers in insertion order.
func (o *Overlay) Items() []marker.Marker {
	return append([]marker.Marker(nil), o.items...)
}

// Len returns the number of markers.
func (o *Overlay) Len() int { return len(o.items) }
