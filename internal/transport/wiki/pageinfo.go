package wiki

import (
	"context"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/nearwiki/internal/domain"
	"github.com/kailas-cloud/nearwiki/internal/domain/nearby"
)

// Enrich fetches thumbnail and canonical URL for ids in one batched request.
// An empty id list still issues the request and yields empty metadata.
func (c *Client) Enrich(ctx context.Context, ids []nearby.ItemID, maxResults int) (nearby.Metadata, error) {
	params := url.Values{
		"action":      {"query"},
		"pageids":     {joinIDs(ids)},
		"prop":        {"pageimages|info"},
		"piprop":      {"thumbnail"},
		"pithumbsize": {strconv.Itoa(c.thumbnailSize)},
		"pilimit":     {strconv.Itoa(maxResults)},
		"inprop":      {"url"},
		"format":      {"json"},
	}

	body, err := c.get(ctx, domain.StagePageInfo, params)
	if err != nil {
		return nil, err
	}
	return parsePageInfo(body), nil
}

// parsePageInfo reads query.pages. Missing or invalid pages contribute no entry.
func parsePageInfo(body []byte) nearby.Metadata {
	meta := nearby.Metadata{}
	gjson.GetBytes(body, "query.pages").ForEach(func(_, page gjson.Result) bool {
		if page.Get("missing").Exists() || page.Get("invalid").Exists() {
			return true
		}
		id := page.Get("pageid")
		if !id.Exists() {
			return true
		}
		meta[nearby.ItemID(id.Int())] = nearby.PageMeta{
			ThumbnailURL: page.Get("thumbnail.source").String(),
			CanonicalURL: page.Get("canonicalurl").String(),
		}
		return true
	})
	return meta
}
