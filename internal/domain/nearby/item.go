package nearby

import (
	"encoding/json"

	"github.com/kailas-cloud/nearwiki/internal/domain/geo"
)

// Item is a merged nearby result, positioned in the caller's working spatial reference.
type Item struct {
	id    ItemID
	title string
	point geo.Point
	url   string
	image string
}

// NewItem creates a result item. Empty url/image mean absent.
func NewItem(id ItemID, title string, point geo.Point, url, image string) Item {
	return Item{id: id, title: title, point: point, url: url, image: image}
}

// ID returns the item identifier.
func (i Item) ID() ItemID { return i.id }

// Title returns the article title.
func (i Item) Title() string { return i.title }

// Point returns the projected location.
func (i Item) Point() geo.Point { return i.point }

// URL returns the canonical article URL and whether one was returned.
func (i Item) URL() (string, bool) { return i.url, i.url != "" }

// Image returns the thumbnail URL, or nil when the item has none.
func (i Item) Image() *string {
	if i.image == "" {
		return nil
	}
	img := i.image
	return &img
}

type itemJSON struct {
	ID    ItemID    `json:"id"`
	Title string    `json:"title"`
	Point geo.Point `json:"point"`
	URL   string    `json:"url,omitempty"`
	Image *string   `json:"image"`
}

// MarshalJSON omits url when absent and always writes image, as null when absent.
func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemJSON{
		ID: i.id, Title: i.title, Point: i.point, URL: i.url, Image: i.Image(),
	})
}

// UnmarshalJSON restores an item written by MarshalJSON.
func (i *Item) UnmarshalJSON(data []byte) error {
	var raw itemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = NewItem(raw.ID, raw.Title, raw.Point, raw.URL, "")
	if raw.Image != nil {
		i.image = *raw.Image
	}
	return nil
}
