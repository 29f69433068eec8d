// Package server exposes the gateway over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Sternrassler/wb-gateway/pkg/gateway"
	"github.com/Sternrassler/wb-gateway/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// OperationParam is the chi URL parameter carrying the operation identifier.
const OperationParam = "operationId"

// ReadinessChecker reports whether a dependency is usable.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// Dependencies holds everything the router needs.
type Dependencies struct {
	Gateway *gateway.Gateway
	Ready   ReadinessChecker
	Logger  zerolog.Logger
}

// NewRouter creates a chi.Router with the middleware chain and all routes.
func NewRouter(deps Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(Recovery(deps.Logger))
	r.Use(RequestID)
	r.Use(AccessLog(deps.Logger))

	r.Get("/health", HealthHandler)
	r.Get("/ready", ReadyHandler(deps.Ready))
	r.Handle("/metrics", metrics.Handler())

	r.Get("/operations", OperationsHandler(deps.Gateway))
	r.Get("/operations/{"+OperationParam+"}", OperationHandler(deps.Gateway, deps.Logger))

	return r
}

// NewHandler wraps the router with OpenTelemetry instrumentation.
func NewHandler(deps Dependencies) http.Handler {
	return otelhttp.NewHandler(NewRouter(deps), "wb-gateway")
}

// HealthHandler reports liveness.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// ReadyHandler reports readiness of the optional dependency.
func ReadyHandler(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := checker.Ready(ctx); err != nil {
				http.Error(w, "NOT READY: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	}
}

// OperationsHandler lists the supported operation names.
func OperationsHandler(gw *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string][]string{
			"operations": gw.Registry().Names(),
		})
	}
}

// OperationHandler executes the operation named by the URL parameter.
// Cancelled requests get no response body.
func OperationHandler(gw *gateway.Gateway, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := gateway.Request{
			OperationID: operationID(r),
			RawQuery:    r.URL.RawQuery,
			Headers:     r.Header,
		}

		env, err := gw.Execute(r.Context(), req)
		if err != nil {
			logger.Debug().Err(err).Str("operation_id", req.OperationID).Msg("Request abandoned")
			return
		}

		if err := env.Write(w); err != nil {
			logger.Error().Err(err).Str("operation_id", req.OperationID).Msg("Failed to write response")
		}
	}
}

// operationID returns the unescaped operation path segment. chi matches on
// the raw path, so percent-encoded base64 padding arrives as %3D.
func operationID(r *http.Request) string {
	raw := chi.URLParam(r, OperationParam)
	id, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return id
}
