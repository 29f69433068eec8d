// Package main runs the World Bank operation gateway as an HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/wb-gateway/pkg/client"
	"github.com/Sternrassler/wb-gateway/pkg/gateway"
	"github.com/Sternrassler/wb-gateway/pkg/logging"
	"github.com/Sternrassler/wb-gateway/pkg/operation"
	"github.com/Sternrassler/wb-gateway/pkg/server"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return 1
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Pretty = cfg.LogPretty
	logging.Setup(logCfg)
	logger := logging.NewLogger("http")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	clientCfg := client.DefaultConfig(cfg.UserAgent)
	clientCfg.BaseURL = cfg.UpstreamBaseURL
	clientCfg.Timeout = cfg.UpstreamTimeout
	clientCfg.RateLimit = cfg.RateLimit

	if cfg.RedisURL != "" {
		opts, err := redisOptions(cfg.RedisURL)
		if err != nil {
			logger.Error().Err(err).Msg("Invalid configuration")
			return 1
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error().Err(err).Str("redis", cfg.RedisURL).Msg("Failed to connect to Redis")
			return 1
		}
		logger.Info().Str("redis", cfg.RedisURL).Int("rate_limit", cfg.RateLimit).Msg("Rate gate enabled")
		clientCfg.Redis = redisClient
	}

	upstream, err := client.New(clientCfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create upstream client")
		return 1
	}
	defer upstream.Close()

	gw, err := gateway.New(gateway.Config{
		Registry: operation.NewRegistry(),
		Fetcher:  upstream,
		URLs:     upstream,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create gateway")
		return 1
	}

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: server.NewHandler(server.Dependencies{
			Gateway: gw,
			Ready:   upstream,
			Logger:  logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("upstream", cfg.UpstreamBaseURL).
			Str("user_agent", cfg.UserAgent).
			Msg("Starting gateway server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Server failed")
			return 1
		}
	case <-ctx.Done():
		logger.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Graceful shutdown failed")
			return 1
		}
	}

	return 0
}
