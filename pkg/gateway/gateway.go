// Package gateway wires the operation registry, parameter resolution,
// pagination and envelope building into the single request pipeline.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/wb-gateway/pkg/envelope"
	"github.com/Sternrassler/wb-gateway/pkg/operation"
	"github.com/Sternrassler/wb-gateway/pkg/pagination"
	"github.com/Sternrassler/wb-gateway/pkg/params"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wbgw_operations_total",
		Help: "Total gateway operations by operation and result code",
	}, []string{"operation", "code"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wbgw_operation_duration_seconds",
		Help:    "End-to-end operation duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"operation"})
)

// Recognized query keys and their defaults.
const (
	ParamFormat  = "format"
	ParamPerPage = "per_page"
	ParamPage    = "page"
	ParamMRV     = "mrv"
	ParamDate    = "date"

	DefaultFormat  = "json"
	DefaultPerPage = "50"
)

// unknownOperationLabel keeps metric cardinality bounded for bad identifiers.
const unknownOperationLabel = "unknown"

// Request is one inbound gateway request.
type Request struct {
	// OperationID is the raw identifier, possibly base64-encoded.
	OperationID string

	// RawQuery is the undecoded query string.
	RawQuery string

	// Headers carry the header-equivalent parameter fallbacks.
	Headers http.Header
}

// URLBuilder turns a resolved operation path into an absolute upstream URL.
type URLBuilder interface {
	URL(path string) string
}

// Config holds the gateway dependencies.
type Config struct {
	Registry *operation.Registry
	Fetcher  pagination.PageFetcher
	URLs     URLBuilder
	Logger   *zerolog.Logger
}

// Gateway executes operations. It holds no per-request state and is safe for
// concurrent use.
type Gateway struct {
	registry   *operation.Registry
	urls       URLBuilder
	aggregator *pagination.Aggregator
	logger     zerolog.Logger
}

// New creates a new gateway.
func New(cfg Config) (*Gateway, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("page fetcher is required")
	}
	if cfg.URLs == nil {
		return nil, fmt.Errorf("url builder is required")
	}

	logger := log.With().Str("component", "gateway").Logger()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Gateway{
		registry:   cfg.Registry,
		urls:       cfg.URLs,
		aggregator: pagination.NewAggregator(cfg.Fetcher, pagination.Config{Logger: &logger}),
		logger:     logger,
	}, nil
}

// Registry returns the operation registry served by the gateway.
func (g *Gateway) Registry() *operation.Registry {
	return g.registry
}

// Execute runs the full pipeline and always produces an envelope, except
// when ctx is cancelled mid-request: then the returned error is non-nil and
// the envelope must not be written.
func (g *Gateway) Execute(ctx context.Context, req Request) (env envelope.Envelope, err error) {
	start := time.Now()
	label := unknownOperationLabel

	defer func() {
		if r := recover(); r != nil {
			g.logger.Error().
				Str("operation_id", req.OperationID).
				Interface("panic", r).
				Msg("Operation panicked")
			env = envelope.FromError(fmt.Errorf("internal fault: %v", r))
			err = nil
		}
		if err == nil {
			code := string(env.Kind())
			if code == "" {
				code = "OK"
			}
			operationsTotal.WithLabelValues(label, code).Inc()
			operationDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		}
	}()

	name := operation.Name(operation.DecodeIdentifier(req.OperationID, g.registry))
	tmpl, ok := g.registry.Lookup(name)
	if !ok {
		g.logger.Info().Str("operation_id", req.OperationID).Msg("Unsupported operation")
		return envelope.FromError(envelope.NewInvalidOperationError(req.OperationID)), nil
	}
	label = string(name)

	resolver := params.NewResolver(req.RawQuery, req.Headers)
	pageReq, perr := g.pageRequest(name, tmpl, resolver)
	if perr != nil {
		return envelope.FromError(perr), nil
	}

	result, aerr := g.aggregator.Aggregate(ctx, pageReq)
	if aerr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(aerr, ctxErr) {
			g.logger.Debug().Str("operation", label).Msg("Request cancelled during aggregation")
			return envelope.Envelope{}, ctxErr
		}
		g.logger.Warn().Err(aerr).Str("operation", label).Msg("Operation failed")
		return envelope.FromError(aerr), nil
	}

	return envelope.Success(result), nil
}

// pageRequest resolves the template and the paging parameters for name.
func (g *Gateway) pageRequest(name operation.Name, tmpl operation.Template, r *params.Resolver) (pagination.Request, error) {
	req := pagination.Request{
		Operation: string(name),
		BaseURL:   g.urls.URL(operation.ResolveTemplate(name, tmpl, r)),
		Format:    r.Resolve(ParamFormat, DefaultFormat),
		PerPage:   r.Resolve(ParamPerPage, DefaultPerPage),
	}

	if _, err := positiveInt(ParamPerPage, req.PerPage); err != nil {
		return req, err
	}

	if raw, ok := optional(r, ParamPage); ok {
		page, err := positiveInt(ParamPage, raw)
		if err != nil {
			return req, err
		}
		req.Page = &page
	}
	if mrv, ok := optional(r, ParamMRV); ok {
		req.MRV = &mrv
	}
	if date, ok := optional(r, ParamDate); ok {
		req.Date = &date
	}

	return req, nil
}

// optional resolves key and treats blank values as absent.
func optional(r *params.Resolver, key string) (string, bool) {
	v, ok := r.Lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func positiveInt(name, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, envelope.NewInvalidParameterError(name, raw, "must be a positive integer")
	}
	return n, nil
}
