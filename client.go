package nearwiki

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/nearwiki/internal/db"
	"github.com/kailas-cloud/nearwiki/internal/db/memory"
	dbValkey "github.com/kailas-cloud/nearwiki/internal/db/valkey"
	"github.com/kailas-cloud/nearwiki/internal/domain/geo"
	"github.com/kailas-cloud/nearwiki/internal/domain/marker"
	viewrepo "github.com/kailas-cloud/nearwiki/internal/repository/view"
	"github.com/kailas-cloud/nearwiki/internal/transport/wiki"
	nearbyuc "github.com/kailas-cloud/nearwiki/internal/usecase/nearby"
	"github.com/kailas-cloud/nearwiki/internal/usecase/overlay"
	sessionuc "github.com/kailas-cloud/nearwiki/internal/usecase/session"
)

const defaultReadinessTimeout = 10 * time.Second

// DefaultIconURL is the marker picture used when WithMarkerIcon is not set.
const DefaultIconURL = "https://upload.wikimedia.org/wikipedia/commons/thumb/8/80/Wikipedia-logo-v2.svg/32px-Wikipedia-logo-v2.svg.png"

// Client is the nearwiki SDK entry point.
type Client struct {
	store      db.Store
	nearbySvc  *nearbyuc.Service
	sessionSvc *sessionuc.Service
}

// New creates a Client. Without WithValkey view sessions live in process memory.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:    "memory",
		keyPrefix: viewrepo.DefaultKeyPrefix,
		viewTTL:   time.Hour,
		iconURL:   DefaultIconURL,
	}
	for _, o := range opts {
		o(cfg)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("nearwiki: view store not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "memory":
		return memory.NewStore(), nil
	case "valkey":
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("nearwiki: create valkey store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("nearwiki: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	api := wiki.NewClient(&wiki.Config{
		BaseURL:           cfg.baseURL,
		ThumbnailSize:     cfg.thumbnailSize,
		Contact:           cfg.contact,
		RequestsPerSecond: cfg.rps,
		Burst:             cfg.burst,
		HTTPClient:        cfg.httpClient,
	})

	nearbySvc := nearbyuc.New(api, api, cfg.maxResults)
	ov := overlay.New(marker.NewSymbol(cfg.iconURL, cfg.iconSize), cfg.moreInfoLabel)
	sessionSvc := sessionuc.New(viewrepo.New(store, cfg.keyPrefix, cfg.viewTTL), nearbySvc, ov)

	return &Client{
		store:      store,
		nearbySvc:  nearbySvc,
		sessionSvc: sessionSvc,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks view store connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// NearbyOptions tunes a Nearby call. Zero fields take defaults.
type NearbyOptions struct {
	// RadiusMeters defaults to 1000.
	RadiusMeters int
	// Limit defaults to the client's max results.
	Limit int
	// WKID of the returned points, 4326 or 3857 (default).
	WKID int
}

// DefaultRadiusMeters is the Nearby radius when none is given.
const DefaultRadiusMeters = 1000

// Nearby returns articles around a geographic location, nearest first.
func (c *Client) Nearby(ctx context.Context, lat, lon float64, opts *NearbyOptions) ([]Item, error) {
	if opts == nil {
		opts = &NearbyOptions{}
	}
	radius := opts.RadiusMeters
	if radius == 0 {
		radius = DefaultRadiusMeters
	}

	items, err := c.nearbySvc.FindNearbyItems(ctx, nearbyuc.Options{
		Center:           geo.NewGeographic(lat, lon),
		RadiusMeters:     radius,
		MaxResults:       opts.Limit,
		SpatialReference: geo.SpatialReference(opts.WKID),
	})
	if err != nil {
		return nil, fmt.Errorf("nearby: %w", err)
	}
	return toItems(items), nil
}

// Views returns the map view session service.
func (c *Client) Views() *ViewService {
	return &ViewService{svc: c.sessionSvc}
}
