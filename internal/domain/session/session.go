package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/nearwiki/internal/domain/geo"
	"github.com/kailas-cloud/nearwiki/internal/domain/mapview"
	"github.com/kailas-cloud/nearwiki/internal/domain/marker"
	"github.com/kailas-cloud/nearwiki/internal/domain/nearby"
)

// Session is a server-hosted map view together with the markers and results
// of its last search. The markers are the list returned when they were added,
// retained here so they can later be cleared or highlighted.
type Session struct {
	id        string
	view      *mapview.View
	markers   []marker.Marker
	results   []nearby.Item
	updatedAt time.Time
}

// New creates a session with an empty view showing extent.
func New(extent geo.Extent, now time.Time) (*Session, error) {
	v, err := mapview.New(extent)
	if err != nil {
		return nil, fmt.Errorf("new view: %w", err)
	}
	return &Session{id: uuid.NewString(), view: v, updatedAt: now}, nil
}

// Reconstruct rebuilds a session from storage (no validation).
func Reconstruct(
	id string, view *mapview.View, markers []marker.Marker, results []nearby.Item, updatedAt time.Time,
) *Session {
	return &Session{id: id, view: view, markers: markers, results: results, updatedAt: updatedAt}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// View returns the hosted map view.
func (s *Session) View() *mapview.View { return s.view }

// Markers returns the retained markers.
func (s *Session) Markers() []marker.Marker { return s.markers }

// Results returns the items of the last search.
func (s *Session) Results() []nearby.Item { return s.results }

// UpdatedAt returns the time of the last mutation.
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }

// SetResults replaces the retained results and their markers.
func (s *Session) SetResults(results []nearby.Item, markers []marker.Marker) {
	s.results = results
	s.markers = markers
}

// ClearResults drops the retained results and markers.
func (s *Session) ClearResults() {
	s.results = nil
	s.markers = nil
}

// Touch records a mutation at now.
func (s *Session) Touch(now time.Time) { s.updatedAt = now }
