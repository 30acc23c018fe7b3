package nearwiki

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const geoSearchBody = `{"query":{"geosearch":[
  {"pageid":1,"title":"Eiffel Tower","lat":48.8584,"lon":2.2945},
  {"pageid":9232,"title":"Champ de Mars","lat":48.8556,"lon":2.2986}
]}}`

const pageInfoBody = `{"query":{"pages":{
  "1":{"pageid":1,"title":"Eiffel Tower","thumbnail":{"source":"t.jpg"},"canonicalurl":"https://en.wikipedia.org/wiki/Eiffel_Tower"},
  "9232":{"pageid":9232,"title":"Champ de Mars","canonicalurl":"https://en.wikipedia.org/wiki/Champ_de_Mars"}
}}}`

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("list") == "geosearch" {
			_, _ = w.Write([]byte(geoSearchBody))
			return
		}
		_, _ = w.Write([]byte(pageInfoBody))
	}))
	t.Cleanup(srv.Close)

	opts = append([]Option{WithBaseURL(srv.URL), WithHTTPClient(srv.Client())}, opts...)
	c, err := New(opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown"}
	_, err := createStore(cfg)
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNew_ValkeyRequiresAddress(t *testing.T) {
	cfg := &clientConfig{driver: "valkey"}
	_, err := createStore(cfg)
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithValkey("localhost:6379", "secret")(cfg)
	if cfg.driver != "valkey" {
		t.Errorf("driver = %q, want valkey", cfg.driver)
	}
	if cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addr = %q, want localhost:6379", cfg.addrs[0])
	}
	if cfg.password != "secret" {
		t.Errorf("password = %q, want secret", cfg.password)
	}

	WithRateLimit(5, 2)(cfg)
	if cfg.rps != 5 || cfg.burst != 2 {
		t.Errorf("rate limit = (%v, %d), want (5, 2)", cfg.rps, cfg.burst)
	}

	WithMarkerIcon("https://example.org/pin.png", 32)(cfg)
	if cfg.iconURL != "https://example.org/pin.png" || cfg.iconSize != 32 {
		t.Errorf("icon = (%q, %d)", cfg.iconURL, cfg.iconSize)
	}

	WithViewTTL(time.Minute)(cfg)
	WithKeyPrefix("app:")(cfg)
	WithMaxResults(50)(cfg)
	if cfg.viewTTL != time.Minute || cfg.keyPrefix != "app:" || cfg.maxResults != 50 {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestClient_Close_NilStore(t *testing.T) {
	c := &Client{store: nil}
	c.Close()
}

func TestClient_Ping(t *testing.T) {
	c := newTestClient(t)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestNearby(t *testing.T) {
	c := newTestClient(t)

	items, err := c.Nearby(context.Background(), 48.8584, 2.2945, &NearbyOptions{WKID: WGS84})
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 items, got %d", len(items))
	}
	first := items[0]
	if first.ID != 1 || first.Image != "t.jpg" || first.URL == "" {
		t.Errorf("unexpected first item %+v", first)
	}
	if first.Point != (Point{X: 2.2945, Y: 48.8584, WKID: WGS84}) {
		t.Errorf("unexpected point %+v", first.Point)
	}
	if items[1].Image != "" {
		t.Errorf("want no image, got %q", items[1].Image)
	}
}

func TestNearby_InvalidQuery(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Nearby(context.Background(), 48.8584, 2.2945, &NearbyOptions{RadiusMeters: 50000})
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("want ErrInvalidQuery, got %v", err)
	}
}

func TestViews_Lifecycle(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	views := c.Views()

	v, err := views.Create(ctx, Extent{XMin: 254422, YMin: 6249868, XMax: 256422, YMax: 6251868})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.Extent.WKID != WebMercator {
		t.Errorf("want web mercator extent, got %d", v.Extent.WKID)
	}

	v, err = views.Search(ctx, v.ID, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(v.Markers) != 2 || len(v.Results) != 2 {
		t.Fatalf("want 2 markers, got %+v", v)
	}

	mk, v, err := views.Highlight(ctx, v.ID, 9232)
	if err != nil {
		t.Fatalf("highlight: %v", err)
	}
	if mk.ItemID != 9232 || v.Highlighted != mk.Handle {
		t.Errorf("unexpected highlight marker=%+v highlighted=%q", mk, v.Highlighted)
	}

	if _, _, err := views.Highlight(ctx, v.ID, 7); !errors.Is(err, ErrMarkerNotFound) {
		t.Errorf("want ErrMarkerNotFound, got %v", err)
	}

	v, err = views.Clear(ctx, v.ID)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(v.Markers) != 0 || v.Highlighted != "" {
		t.Errorf("want cleared view, got %+v", v)
	}

	if err := views.Delete(ctx, v.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := views.Get(ctx, v.ID); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("want ErrViewNotFound, got %v", err)
	}
}
