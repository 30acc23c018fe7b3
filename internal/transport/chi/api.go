package chi

import (
	"time"

	"github.com/kailas-cloud/nearwiki/internal/domain/geo"
	"github.com/kailas-cloud/nearwiki/internal/domain/mapview"
	"github.com/kailas-cloud/nearwiki/internal/domain/marker"
	"github.com/kailas-cloud/nearwiki/internal/domain/nearby"
	domsession "github.com/kailas-cloud/nearwiki/internal/domain/session"
)

// ErrorCode is the machine-readable error kind returned to clients.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest     ErrorCode = "bad_request"
	ErrorCodeUnauthorized   ErrorCode = "unauthorized"
	ErrorCodeInvalidQuery   ErrorCode = "invalid_query"
	ErrorCodeUnsupportedSR  ErrorCode = "unsupported_spatial_reference"
	ErrorCodeViewNotFound   ErrorCode = "view_not_found"
	ErrorCodeMarkerNotFound ErrorCode = "marker_not_found"
	ErrorCodeUpstreamError  ErrorCode = "upstream_error"
	ErrorCodeInternalError  ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// NearbyResponse is the body of GET /nearby.
type NearbyResponse struct {
	Items []nearby.Item `json:"items"`
	Count int           `json:"count"`
}

// ExtentRequest is a visible extent in the request's spatial reference.
type ExtentRequest struct {
	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`
}

// CreateViewRequest is the body of POST /views. WKID defaults to Web Mercator.
type CreateViewRequest struct {
	Extent ExtentRequest `json:"extent"`
	WKID   int           `json:"wkid,omitempty"`
}

// SetExtentRequest is the body of PUT /views/{view}/extent. WKID defaults to the view's.
type SetExtentRequest struct {
	Extent ExtentRequest `json:"extent"`
	WKID   int           `json:"wkid,omitempty"`
}

// ViewResponse describes a view session.
type ViewResponse struct {
	ID        string          `json:"id"`
	Extent    geo.Extent      `json:"extent"`
	Popup     mapview.Popup   `json:"popup"`
	Markers   []marker.Marker `json:"markers"`
	Results   []nearby.Item   `json:"results"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// HighlightResponse is the body of POST /views/{view}/markers/{id}/highlight.
type HighlightResponse struct {
	Marker marker.Marker `json:"marker"`
	View   ViewResponse  `json:"view"`
}

func (e ExtentRequest) toDomain(sr geo.SpatialReference) geo.Extent {
	return geo.Extent{XMin: e.XMin, YMin: e.YMin, XMax: e.XMax, YMax: e.YMax, SR: sr}
}

func viewToResponse(s *domsession.Session) ViewResponse {
	markers := s.Markers()
	if markers == nil {
		markers = []marker.Marker{}
	}
	results := s.Results()
	if results == nil {
		results = []nearby.Item{}
	}
	return ViewResponse{
		ID:        s.ID(),
		Extent:    s.View().Extent(),
		Popup:     s.View().Popup(),
		Markers:   markers,
		Results:   results,
		UpdatedAt: s.UpdatedAt(),
	}
}
