package mapview

import (
	"github.com/paulmach/orb/geojson"

	"github.com/kailas-cloud/nearwiki/internal/domain/geo"
)

// FeatureCollection exports the overlay as GeoJSON in geographic coordinates.
// Markers shown in the open popup carry "highlighted": true.
func (v *View) FeatureCollection() (*geojson.FeatureCollection, error) {
	highlighted := make(map[string]bool, len(v.popup.Features))
	if v.popup.Visible {
		for _, f := range v.popup.Features {
			highlighted[f.Handle] = true
		}
	}

	fc := geojson.NewFeatureCollection()
	for _, m := range v.overlay.Items() {
		p, err := geo.ToGeographic(m.Point)
		if err != nil {
			return nil, err
		}

		title, content := m.Popup.Render(m.Attributes)

		f := geojson.NewFeature(p.Orb())
		f.ID = m.Handle
		f.Properties["id"] = int64(m.Attributes.ID)
		f.Properties["title"] = m.Attributes.Title
		f.Properties["url"] = m.Attributes.URL
		f.Properties["image"] = m.Attributes.Image
		f.Properties["icon"] = m.Symbol.URL
		f.Properties["popup_title"] = title
		f.Properties["popup_content"] = content
		f.Properties["highlighted"] = highlighted[m.Handle]
		fc.Append(f)
	}
	return fc, nil
}
