package wiki

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/nearwiki/internal/domain"
	"github.com/kailas-cloud/nearwiki/internal/domain/nearby"
)

// Search returns the pages within q's radius of its center, in API order.
func (c *Client) Search(ctx context.Context, q nearby.Query) ([]nearby.SpatialHit, error) {
	center := q.Center()
	params := url.Values{
		"action":   {"query"},
		"list":     {"geosearch"},
		"gslimit":  {strconv.Itoa(q.MaxResults())},
		"gsradius": {strconv.Itoa(q.RadiusMeters())},
		"gscoord":  {formatCoord(center.Lat()) + "|" + formatCoord(center.Lon())},
		"format":   {"json"},
	}

	body, err := c.get(ctx, domain.StageGeoSearch, params)
	if err != nil {
		return nil, err
	}
	return parseGeoSearch(body)
}

// parseGeoSearch reads query.geosearch. A body without a query object is malformed.
// A query object without a geosearch list means no hits.
func parseGeoSearch(body []byte) ([]nearby.SpatialHit, error) {
	query := gjson.GetBytes(body, "query")
	if !query.IsObject() {
		return nil, domain.NewUpstreamError(domain.StageGeoSearch, 0, errors.New("missing query object"))
	}

	results := query.Get("geosearch").Array()
	hits := make([]nearby.SpatialHit, 0, len(results))
	for _, r := range results {
		if !r.Get("pageid").Exists() || !r.Get("lat").Exists() || !r.Get("lon").Exists() {
			return nil, domain.NewUpstreamError(domain.StageGeoSearch, 0, errors.New("geosearch entry missing pageid or coordinates"))
		}
		hits = append(hits, nearby.SpatialHit{
			ID:    nearby.ItemID(r.Get("pageid").Int()),
			Title: r.Get("title").String(),
			Lat:   r.Get("lat").Float(),
			Lon:   r.Get("lon").Float(),
		})
	}
	return hits, nil
}
