package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/nearwiki/internal/domain"
	"github.com/kailas-cloud/nearwiki/internal/logger"
	"github.com/kailas-cloud/nearwiki/internal/metrics"
	"github.com/kailas-cloud/nearwiki/internal/version"
)

// Defaults for the MediaWiki action API.
const (
	DefaultBaseURL       = "https://en.wikipedia.org/w/api.php"
	DefaultThumbnailSize = 125
	DefaultTimeout       = 10 * time.Second

	maxBodyBytes = 4 << 20
)

// Client queries the MediaWiki action API for geosearch hits and page metadata.
type Client struct {
	baseURL       string
	thumbnailSize int
	userAgent     string
	httpClient    *http.Client
	limiter       *rate.Limiter
	logger        *zap.Logger
}

// Config holds the API client settings.
type Config struct {
	BaseURL       string
	ThumbnailSize int
	// Contact is appended to the User-Agent (mail or URL).
	Contact string
	Timeout time.Duration
	// RequestsPerSecond <= 0 disables rate limiting.
	RequestsPerSecond float64
	Burst             int
	// HTTPClient overrides the default instrumented client (tests).
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates an API client. Zero config fields take defaults.
func NewClient(cfg *Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	thumb := cfg.ThumbnailSize
	if thumb <= 0 {
		thumb = DefaultThumbnailSize
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: otelhttp.NewTransport(&http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			}),
		}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		baseURL:       base,
		thumbnailSize: thumb,
		userAgent:     version.UserAgent(cfg.Contact),
		httpClient:    httpClient,
		limiter:       limiter,
		logger:        log,
	}
}

// HealthCheck verifies API availability via a siteinfo query.
func (c *Client) HealthCheck(ctx context.Context) error {
	params := url.Values{
		"action": {"query"},
		"meta":   {"siteinfo"},
		"format": {"json"},
	}
	if _, err := c.get(ctx, "siteinfo", params); err != nil {
		return fmt.Errorf("siteinfo: %w", err)
	}
	return nil
}

// get issues one GET and returns the validated JSON body.
// Every failure is an *domain.UpstreamError for stage.
func (c *Client) get(ctx context.Context, stage string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, c.fail(stage, "rate_limit", 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, c.fail(stage, "request", 0, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(stage, "transport", 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	duration := time.Since(start)
	if err != nil {
		return nil, c.fail(stage, "read_body", resp.StatusCode, err)
	}

	logger.FromContext(ctx).Debug("upstream request",
		logger.Stage(stage),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", duration),
		zap.Int("bytes", len(body)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(stage, "http_status", resp.StatusCode, errors.New(http.StatusText(resp.StatusCode)))
	}
	if !gjson.ValidBytes(body) {
		return nil, c.fail(stage, "malformed_json", resp.StatusCode, errors.New("response is not valid JSON"))
	}
	if apiErr := gjson.GetBytes(body, "error"); apiErr.Exists() {
		msg := apiErr.Get("code").String() + ": " + apiErr.Get("info").String()
		return nil, c.fail(stage, "api_error", resp.StatusCode, errors.New(msg))
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(stage, "success").Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(stage).Observe(duration.Seconds())

	return body, nil
}

func (c *Client) fail(stage, errType string, status int, err error) error {
	metrics.UpstreamRequestsTotal.WithLabelValues(stage, "error").Inc()
	metrics.UpstreamErrorsTotal.WithLabelValues(stage, errType).Inc()
	c.logger.Warn("upstream request failed",
		logger.Stage(stage),
		zap.String("error_type", errType),
		zap.Int("status", status),
		zap.Error(err),
	)
	return domain.NewUpstreamError(stage, status, err)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinIDs[T ~int64](ids []T) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(int64(id), 10)
	}
	return strings.Join(parts, "|")
}
