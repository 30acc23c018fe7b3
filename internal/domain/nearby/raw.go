package nearby

// ItemID is the upstream page identifier.
type ItemID int64

// SpatialHit is one item returned by the spatial search, in geographic coordinates.
type SpatialHit struct {
	ID    ItemID
	Title string
	Lat   float64
	Lon   float64
}

// PageMeta is the display metadata of one item. Empty strings mean "not returned".
type PageMeta struct {
	ThumbnailURL string
	CanonicalURL string
}

// Metadata maps item ids to their enrichment results.
// Ids without an entry had no metadata returned; that is not an error.
type Metadata map[ItemID]PageMeta

// Lookup returns the entry for id and whether it exists.
func (m Metadata) Lookup(id ItemID) (PageMeta, bool) {
	meta, ok := m[id]
	return meta, ok
}

// MetaFor returns the entry for id, or the empty PageMeta on a miss.
func (m Metadata) MetaFor(id ItemID) PageMeta {
	if meta, ok := m.Lookup(id); ok {
		return meta
	}
	return PageMeta{}
}

// IDs returns the ids of hits in order.
func IDs(hits []SpatialHit) []ItemID {
	ids := make([]ItemID, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return ids
}
