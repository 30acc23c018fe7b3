package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstream signals a failed remote lookup (network, HTTP status, malformed body).
	ErrUpstream = errors.New("upstream lookup failed")
	// ErrInvalidQuery signals search parameters outside their allowed range.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrMarkerNotFound signals a highlight request for an id with no marker.
	ErrMarkerNotFound = errors.New("marker not found")
	// ErrViewNotFound signals a missing or expired map view session.
	ErrViewNotFound = errors.New("view not found")
	// ErrUnsupportedSpatialReference signals a WKID the geometry utility cannot handle.
	ErrUnsupportedSpatialReference = errors.New("unsupported spatial reference")
)

// Upstream stage names.
const (
	StageGeoSearch = "geosearch"
	StagePageInfo  = "pageinfo"
)

// UpstreamError wraps ErrUpstream with the failing stage and HTTP status (0 if none).
type UpstreamError struct {
	Stage  string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s: status %d: %v", ErrUpstream.Error(), e.Stage, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrUpstream.Error(), e.Stage, e.Err)
}

// Unwrap lets errors.Is match both ErrUpstream and the cause.
func (e *UpstreamError) Unwrap() []error { return []error{ErrUpstream, e.Err} }

// NewUpstreamError creates an upstream error for a stage.
func NewUpstreamError(stage string, status int, err error) error {
	return &UpstreamError{Stage: stage, Status: status, Err: err}
}
