package wiki

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nearwiki/internal/domain"
	"github.com/kailas-cloud/nearwiki/internal/domain/geo"
	"github.com/kailas-cloud/nearwiki/internal/domain/nearby"
	"github.com/kailas-cloud/nearwiki/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterUpstreamMetrics()
	os.Exit(m.Run())
}

const geoSearchBody = `{
  "batchcomplete": "",
  "query": {
    "geosearch": [
      {"pageid": 1, "ns": 0, "title": "Eiffel Tower", "lat": 48.8584, "lon": 2.2945, "dist": 12.3, "primary": ""},
      {"pageid": 9232, "ns": 0, "title": "Champ de Mars", "lat": 48.8556, "lon": 2.2986, "dist": 410.2, "primary": ""}
    ]
  }
}`

const pageInfoBody = `{
  "batchcomplete": "",
  "query": {
    "pages": {
      "1": {
        "pageid": 1, "ns": 0, "title": "Eiffel Tower",
        "thumbnail": {"source": "t.jpg", "width": 94, "height": 125},
        "canonicalurl": "https://en.wikipedia.org/wiki/Eiffel_Tower"
      },
      "9232": {"pageid": 9232, "ns": 0, "title": "Champ de Mars",
        "canonicalurl": "https://en.wikipedia.org/wiki/Champ_de_Mars"},
      "-1": {"pageid": 0, "missing": ""}
    }
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&Config{
		BaseURL:    srv.URL + "/w/api.php",
		HTTPClient: srv.Client(),
		Logger:     zap.NewNop(),
	})
}

func mustQuery(t *testing.T, radius, limit int) nearby.Query {
	t.Helper()
	q, err := nearby.NewQuery(geo.NewGeographic(48.8584, 2.2945), radius, limit)
	if err != nil {
		t.Fatalf("new query: %v", err)
	}
	return q
}

func TestSearch_SendsGeoSearchParams(t *testing.T) {
	var got url.Values
	var ua string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/w/api.php" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		got = r.URL.Query()
		ua = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(geoSearchBody))
	})

	hits, err := c.Search(context.Background(), mustQuery(t, 750, 20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"action":   "query",
		"list":     "geosearch",
		"gslimit":  "20",
		"gsradius": "750",
		"gscoord":  "48.8584|2.2945",
		"format":   "json",
	}
	for k, v := range want {
		if got.Get(k) != v {
			t.Errorf("param %s = %q, want %q", k, got.Get(k), v)
		}
	}
	if !strings.HasPrefix(ua, "nearwiki/") {
		t.Errorf("unexpected user agent %q", ua)
	}

	if len(hits) != 2 {
		t.Fatalf("want 2 hits, got %d", len(hits))
	}
	if hits[0] != (nearby.SpatialHit{ID: 1, Title: "Eiffel Tower", Lat: 48.8584, Lon: 2.2945}) {
		t.Errorf("unexpected first hit %+v", hits[0])
	}
	if hits[1].ID != 9232 {
		t.Errorf("order not preserved: %+v", hits)
	}
}

func TestSearch_EmptyResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"batchcomplete":"","query":{"geosearch":[]}}`))
	})

	hits, err := c.Search(context.Background(), mustQuery(t, 10, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("want no hits, got %d", len(hits))
	}
}

func TestSearch_QueryWithoutListIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"batchcomplete":"","query":{}}`))
	})

	hits, err := c.Search(context.Background(), mustQuery(t, 10, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("want no hits, got %+v", hits)
	}
}

func TestSearch_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantSts int
	}{
		{"http 500", http.StatusInternalServerError, `oops`, http.StatusInternalServerError},
		{"malformed json", http.StatusOK, `{"query": [`, 0},
		{"api error", http.StatusOK, `{"error":{"code":"badcoord","info":"Invalid coordinate provided"}}`, 0},
		{"missing query", http.StatusOK, `{"batchcomplete":""}`, 0},
		{"entry without coords", http.StatusOK, `{"query":{"geosearch":[{"pageid":1,"title":"x"}]}}`, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := c.Search(context.Background(), mustQuery(t, 100, 10))
			if !errors.Is(err, domain.ErrUpstream) {
				t.Fatalf("want ErrUpstream, got %v", err)
			}
			var ue *domain.UpstreamError
			if !errors.As(err, &ue) {
				t.Fatalf("want *UpstreamError, got %T", err)
			}
			if ue.Stage != domain.StageGeoSearch {
				t.Errorf("stage = %q", ue.Stage)
			}
			if tc.wantSts != 0 && ue.Status != tc.wantSts {
				t.Errorf("status = %d, want %d", ue.Status, tc.wantSts)
			}
		})
	}
}

func TestSearch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewClient(&Config{BaseURL: base, Logger: zap.NewNop()})
	_, err := c.Search(context.Background(), mustQuery(t, 100, 10))
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("want ErrUpstream, got %v", err)
	}
}

func TestEnrich_SendsPageInfoParams(t *testing.T) {
	var got url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(pageInfoBody))
	})

	meta, err := c.Enrich(context.Background(), []nearby.ItemID{1, 9232}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"action":      "query",
		"pageids":     "1|9232",
		"prop":        "pageimages|info",
		"piprop":      "thumbnail",
		"pithumbsize": "125",
		"pilimit":     "10",
		"inprop":      "url",
		"format":      "json",
	}
	for k, v := range want {
		if got.Get(k) != v {
			t.Errorf("param %s = %q, want %q", k, got.Get(k), v)
		}
	}

	if len(meta) != 2 {
		t.Fatalf("want 2 entries, got %d: %+v", len(meta), meta)
	}
	if m := meta.MetaFor(1); m.ThumbnailURL != "t.jpg" || m.CanonicalURL != "https://en.wikipedia.org/wiki/Eiffel_Tower" {
		t.Errorf("unexpected meta for 1: %+v", m)
	}
	if m := meta.MetaFor(9232); m.ThumbnailURL != "" || m.CanonicalURL == "" {
		t.Errorf("unexpected meta for 9232: %+v", m)
	}
}

func TestEnrich_EmptyIDsStillRequests(t *testing.T) {
	calls := 0
	var got url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{"batchcomplete":""}`))
	})

	meta, err := c.Enrich(context.Background(), nil, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("want 1 request, got %d", calls)
	}
	if !got.Has("pageids") || got.Get("pageids") != "" {
		t.Errorf("want empty pageids param, got %q", got.Get("pageids"))
	}
	if len(meta) != 0 {
		t.Errorf("want empty metadata, got %+v", meta)
	}
}

func TestEnrich_Failure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Enrich(context.Background(), []nearby.ItemID{1}, 10)
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) || ue.Stage != domain.StagePageInfo || ue.Status != http.StatusServiceUnavailable {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestThumbnailSizeConfigurable(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("pithumbsize")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(&Config{BaseURL: srv.URL, ThumbnailSize: 300, HTTPClient: srv.Client()})
	if _, err := c.Enrich(context.Background(), []nearby.ItemID{1}, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "300" {
		t.Fatalf("pithumbsize = %q, want 300", got)
	}
}

func TestHealthCheck(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("meta") != "siteinfo" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"query":{"general":{"sitename":"Wikipedia"}}}`))
	})
	if err := c.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRateLimiterHonorsContext(t *testing.T) {
	c := NewClient(&Config{BaseURL: "http://127.0.0.1:1", RequestsPerSecond: 0.001, Burst: 1})
	// Drain the single token.
	if !c.limiter.Allow() {
		t.Fatal("expected initial token")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Search(ctx, mustQuery(t, 100, 10))
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("want ErrUpstream, got %v", err)
	}
}

func TestJoinIDs(t *testing.T) {
	if got := joinIDs([]nearby.ItemID{3, 1, 2}); got != "3|1|2" {
		t.Errorf("joinIDs = %q", got)
	}
	if got := joinIDs([]nearby.ItemID{}); got != "" {
		t.Errorf("joinIDs(empty) = %q", got)
	}
}
