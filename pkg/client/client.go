// Package client provides the outbound HTTP client used to fetch World Bank
// API pages, with an optional shared rate gate and request metrics.
package client

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

	"github.com/Sternrassler/wb-gateway/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Prometheus metrics for upstream requests.
var (
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wbgw_upstream_requests_total",
		Help: "Total upstream requests by status",
	}, []string{"status"})

	upstreamRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wbgw_upstream_request_duration_seconds",
		Help:    "Upstream request duration in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	upstreamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wbgw_upstream_errors_total",
		Help: "Total upstream errors by class",
	}, []string{"class"})
)

// ErrorClass represents a classification of upstream failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 responses.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// DefaultBaseURL is the public World Bank API host.
const DefaultBaseURL = "https://api.worldbank.org"

// Client fetches upstream pages.
type Client struct {
	httpClient *http.Client
	gate       *ratelimit.Gate
	baseURL    string
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is prepended to resolved operation paths.
	BaseURL string

	// User-Agent header sent upstream.
	UserAgent string

	// Timeout bounds a single upstream request.
	Timeout time.Duration

	// Redis enables the shared rate gate. Nil disables it.
	Redis *redis.Client

	// RateLimit is the requests-per-second ceiling enforced by the gate.
	RateLimit int
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
		RateLimit: ratelimit.DefaultLimit,
	}
}

// New creates a new upstream client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url must be an absolute URL (got %q)", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive (got %s)", cfg.Timeout)
	}

	if cfg.Redis != nil && cfg.RateLimit < 1 {
		return nil, fmt.Errorf("rate_limit must be >= 1 (got %d)", cfg.RateLimit)
	}

	logger := log.With().Str("component", "upstream-client").Logger()

	var gate *ratelimit.Gate
	if cfg.Redis != nil {
		gate = ratelimit.NewGate(cfg.Redis, cfg.RateLimit, log.With().Str("component", "rate-gate").Logger())
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		gate:    gate,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		config:  cfg,
		logger:  logger,
	}, nil
}

// URL joins a resolved operation path onto the base URL.
func (c *Client) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// FetchPage performs a GET request and returns the status and full body.
// Non-2xx statuses are not errors; the caller decides what they mean.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (int, []byte, error) {
	if c.gate != nil {
		if err := c.gate.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("%w: %w", ErrRequestBlocked, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	startTime := time.Now()
	defer func() {
		upstreamRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		upstreamErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		upstreamRequestsTotal.WithLabelValues("network_error").Inc()
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return 0, nil, err
		}
		c.logger.Error().Err(err).Str("url", pageURL).Msg("HTTP request failed")
		return 0, nil, &TransportError{URL: pageURL, ErrorClass: ErrorClassNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		upstreamErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return 0, nil, &TransportError{URL: pageURL, ErrorClass: ErrorClassNetwork, Err: fmt.Errorf("read body: %w", err)}
	}

	upstreamRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	if class := classifyStatus(resp.StatusCode); class != "" {
		upstreamErrorsTotal.WithLabelValues(string(class)).Inc()
		c.logger.Warn().
			Str("url", pageURL).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Upstream request error")
	} else {
		c.logger.Debug().
			Str("url", pageURL).
			Int("status", resp.StatusCode).
			Int("bytes", len(body)).
			Msg("Upstream request complete")
	}

	return resp.StatusCode, body, nil
}

// Ready reports whether the client's dependencies are reachable. Without a
// rate gate there is nothing to check.
func (c *Client) Ready(ctx context.Context) error {
	if c.gate == nil {
		return nil
	}
	if err := c.gate.Ping(ctx); err != nil {
		return fmt.Errorf("rate gate redis: %w", err)
	}
	return nil
}

// Close releases idle upstream connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
