package nearwiki

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	driver    string
	addrs     []string
	password  string
	keyPrefix string
	viewTTL   time.Duration

	baseURL       string
	contact       string
	thumbnailSize int
	rps           float64
	burst         int
	httpClient    *http.Client

	maxResults    int
	iconURL       string
	iconSize      int
	moreInfoLabel string
}

// WithValkey stores view sessions in Valkey instead of process memory.
func WithValkey(addr, password string) Option {
	return func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithKeyPrefix sets the Valkey key prefix for view sessions.
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		c.keyPrefix = prefix
	}
}

// WithViewTTL sets how long an idle view session is kept. Zero keeps it forever.
func WithViewTTL(ttl time.Duration) Option {
	return func(c *clientConfig) {
		c.viewTTL = ttl
	}
}

// WithBaseURL points the client at another MediaWiki action API endpoint.
func WithBaseURL(u string) Option {
	return func(c *clientConfig) {
		c.baseURL = u
	}
}

// WithContact appends a mail address or URL to the User-Agent.
func WithContact(contact string) Option {
	return func(c *clientConfig) {
		c.contact = contact
	}
}

// WithThumbnailSize sets the requested thumbnail edge in pixels.
func WithThumbnailSize(px int) Option {
	return func(c *clientConfig) {
		c.thumbnailSize = px
	}
}

// WithRateLimit caps outgoing API requests.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *clientConfig) {
		c.rps = rps
		c.burst = burst
	}
}

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// WithMaxResults sets the default number of results per search.
func WithMaxResults(n int) Option {
	return func(c *clientConfig) {
		c.maxResults = n
	}
}

// WithMarkerIcon sets the picture used for every marker.
func WithMarkerIcon(url string, size int) Option {
	return func(c *clientConfig) {
		c.iconURL = url
		c.iconSize = size
	}
}

// WithMoreInfoLabel sets the popup link text.
func WithMoreInfoLabel(label string) Option {
	return func(c *clientConfig) {
		c.moreInfoLabel = label
	}
}
