package nearwiki

import (
	"time"

	"github.com/kailas-cloud/nearwiki/internal/domain"
	"github.com/kailas-cloud/nearwiki/internal/domain/geo"
	"github.com/kailas-cloud/nearwiki/internal/domain/marker"
	domnearby "github.com/kailas-cloud/nearwiki/internal/domain/nearby"
	domsession "github.com/kailas-cloud/nearwiki/internal/domain/session"
)

// Errors returned by the client. Match with errors.Is.
var (
	ErrUpstream                    = domain.ErrUpstream
	ErrInvalidQuery                = domain.ErrInvalidQuery
	ErrMarkerNotFound              = domain.ErrMarkerNotFound
	ErrViewNotFound                = domain.ErrViewNotFound
	ErrUnsupportedSpatialReference = domain.ErrUnsupportedSpatialReference
)

// Spatial references accepted by the client.
const (
	WGS84       = int(geo.WGS84)
	WebMercator = int(geo.WebMercator)
)

// Point is a coordinate pair. Geographic points carry longitude in X.
type Point struct {
	X    float64
	Y    float64
	WKID int
}

// Extent is a visible map rectangle.
type Extent struct {
	XMin, YMin, XMax, YMax float64
	WKID                   int
}

// Item is a nearby article.
type Item struct {
	ID    int64
	Title string
	Point Point
	// URL and Image are empty when the API returned none.
	URL   string
	Image string
}

// Marker is an article shown on a view.
type Marker struct {
	Handle string
	ItemID int64
	Title  string
	URL    string
	Point  Point
}

// View is a snapshot of a map view session.
type View struct {
	ID      string
	Extent  Extent
	Markers []Marker
	Results []Item
	// Highlighted is the handle of the marker in the open popup, or empty.
	Highlighted string
	UpdatedAt   time.Time
}

func toPoint(p geo.Point) Point {
	return Point{X: p.X, Y: p.Y, WKID: int(p.SR)}
}

func toExtent(e geo.Extent) Extent {
	return Extent{XMin: e.XMin, YMin: e.YMin, XMax: e.XMax, YMax: e.YMax, WKID: int(e.SR)}
}

func toInternalExtent(e Extent) geo.Extent {
	sr := geo.SpatialReference(e.WKID)
	if sr == 0 {
		sr = geo.WebMercator
	}
	return geo.Extent{XMin: e.XMin, YMin: e.YMin, XMax: e.XMax, YMax: e.YMax, SR: sr}
}

func toItem(it domnearby.Item) Item {
	out := Item{
		ID:    int64(it.ID()),
		Title: it.Title(),
		Point: toPoint(it.Point()),
	}
	out.URL, _ = it.URL()
	if img := it.Image(); img != nil {
		out.Image = *img
	}
	return out
}

func toItems(items []domnearby.Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = toItem(it)
	}
	return out
}

func toMarker(m marker.Marker) Marker {
	return Marker{
		Handle: m.Handle,
		ItemID: int64(m.Attributes.ID),
		Title:  m.Attributes.Title,
		URL:    m.Attributes.URL,
		Point:  toPoint(m.Point),
	}
}

func fromInternalSession(s *domsession.Session) View {
	v := View{
		ID:        s.ID(),
		Extent:    toExtent(s.View().Extent()),
		Markers:   make([]Marker, len(s.Markers())),
		Results:   toItems(s.Results()),
		UpdatedAt: s.UpdatedAt(),
	}
	for i, m := range s.Markers() {
		v.Markers[i] = toMarker(m)
	}
	if p := s.View().Popup(); p.Visible && len(p.Features) > 0 {
		v.Highlighted = p.Features[0].Handle
	}
	return v
}
