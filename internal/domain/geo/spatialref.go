package geo

import (
	"fmt"

	"github.com/kailas-cloud/nearwiki/internal/domain"
)

// SpatialReference identifies a coordinate system by its well-known ID.
type SpatialReference int

// Supported spatial references.
const (
	WGS84       SpatialReference = 4326
	WebMercator SpatialReference = 3857
	// WebMercatorAux is the legacy Esri WKID for Web Mercator.
	WebMercatorAux SpatialReference = 102100
)

// Normalize folds aliases onto their canonical WKID.
func (sr SpatialReference) Normalize() SpatialReference {
	if sr == WebMercatorAux {
		return WebMercator
	}
	return sr
}

// IsGeographic reports whether coordinates are longitude/latitude degrees.
func (sr SpatialReference) IsGeographic() bool { return sr.Normalize() == WGS84 }

// Validate returns ErrUnsupportedSpatialReference for unknown WKIDs.
func (sr SpatialReference) Validate() error {
	switch sr.Normalize() {
	case WGS84, WebMercator:
		return nil
	default:
		return fmt.Errorf("%w: wkid %d", domain.ErrUnsupportedSpatialReference, int(sr))
	}
}

func (sr SpatialReference) String() string {
	return fmt.Sprintf("wkid:%d", int(sr))
}
