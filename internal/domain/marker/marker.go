package marker

import (
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/nearwiki/internal/domain/geo"
	"github.com/kailas-cloud/nearwiki/internal/domain/nearby"
)

// DefaultIconSize is the marker icon edge length in pixels.
const DefaultIconSize = 24

// DefaultMoreInfoLabel is the popup link text when none is configured.
const DefaultMoreInfoLabel = "More info"

// Symbol is the picture shown for every marker. It is built once at startup
// and copied into each marker.
type Symbol struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// NewSymbol creates a square picture symbol.
func NewSymbol(iconURL string, size int) Symbol {
	if size <= 0 {
		size = DefaultIconSize
	}
	return Symbol{URL: iconURL, Width: size, Height: size}
}

// Attributes are the result fields kept on a marker for popup rendering.
type Attributes struct {
	ID    nearby.ItemID `json:"id"`
	Title string        `json:"title"`
	URL   string        `json:"url,omitempty"`
	Image *string       `json:"image"`
}

// PopupTemplate binds marker attributes into popup title and content.
type PopupTemplate struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NewPopupTemplate returns the fixed link template with the given anchor text.
func NewPopupTemplate(moreInfoLabel string) PopupTemplate {
	if moreInfoLabel == "" {
		moreInfoLabel = DefaultMoreInfoLabel
	}
	return PopupTemplate{
		Title:   "{title}",
		Content: `<a target="_blank" href="{url}">` + moreInfoLabel + `</a>`,
	}
}

// Render substitutes {title} and {url} placeholders.
func (t PopupTemplate) Render(a Attributes) (title, content string) {
	r := strings.NewReplacer("{title}", a.Title, "{url}", a.URL)
	return r.Replace(t.Title), r.Replace(t.Content)
}

// Marker is the on-map representation of a result item.
type Marker struct {
	Handle     string        `json:"handle"`
	Point      geo.Point     `json:"point"`
	Symbol     Symbol        `json:"symbol"`
	Attributes Attributes    `json:"attributes"`
	Popup      PopupTemplate `json:"popup_template"`
}

// New builds a marker for item. The point lives on the marker only, never in the attributes.
func New(item nearby.Item, symbol Symbol, popup PopupTemplate) Marker {
	u, _ := item.URL()
	return Marker{
		Handle: uuid.NewString(),
		Point:  item.Point(),
		Symbol: symbol,
		Attributes: Attributes{
			ID:    item.ID(),
			Title: item.Title(),
			URL:   u,
			Image: item.Image(),
		},
		Popup: popup,
	}
}
