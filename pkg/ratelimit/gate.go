package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for the rate gate.
var (
	rateGateWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wbgw_rate_gate_waits_total",
		Help: "Total number of times a request waited for the next rate window",
	})

	rateGateFailOpenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wbgw_rate_gate_fail_open_total",
		Help: "Total number of requests admitted because Redis was unavailable",
	})

	rateGateWindowCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wbgw_rate_gate_window_count",
		Help: "Requests counted in the most recent rate window",
	})
)

// Gate admits outbound requests at no more than Limit per second across all
// processes sharing the Redis instance.
type Gate struct {
	redis  *redis.Client
	limit  int
	logger zerolog.Logger
	now    func() time.Time
}

// NewGate creates a new rate gate. A limit below 1 uses DefaultLimit.
func NewGate(redisClient *redis.Client, limit int, logger zerolog.Logger) *Gate {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Gate{
		redis:  redisClient,
		limit:  limit,
		logger: logger,
		now:    time.Now,
	}
}

// Limit returns the configured requests-per-second ceiling.
func (g *Gate) Limit() int {
	return g.limit
}

// Allow counts one request against the current window and reports whether
// it fits.
func (g *Gate) Allow(ctx context.Context) (Window, error) {
	w := WindowAt(g.now(), g.limit)

	pipe := g.redis.TxPipeline()
	incr := pipe.Incr(ctx, w.Key())
	pipe.Expire(ctx, w.Key(), WindowTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return w, fmt.Errorf("count request in redis: %w", err)
	}

	w.Count = incr.Val()
	rateGateWindowCount.Set(float64(w.Count))
	return w, nil
}

// Wait blocks until the request is admitted or ctx is done. Redis errors are
// logged and the request is admitted.
func (g *Gate) Wait(ctx context.Context) error {
	for {
		w, err := g.Allow(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("rate gate: %w", ctxErr)
			}
			g.logger.Warn().Err(err).Msg("Rate gate unavailable, admitting request")
			rateGateFailOpenTotal.Inc()
			return nil
		}

		if !w.Exceeded() {
			return nil
		}

		wait := w.ResetIn(g.now())
		g.logger.Debug().
			Int64("window_count", w.Count).
			Int("limit", w.Limit).
			Dur("wait", wait).
			Msg("Rate window full, waiting for next window")
		rateGateWaitsTotal.Inc()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("rate gate: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

// Ping checks the Redis connection backing the gate.
func (g *Gate) Ping(ctx context.Context) error {
	return g.redis.Ping(ctx).Err()
}
