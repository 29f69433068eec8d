package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/wb-gateway/pkg/client"
	"github.com/Sternrassler/wb-gateway/pkg/logging"
	"github.com/Sternrassler/wb-gateway/pkg/ratelimit"
	"github.com/redis/go-redis/v9"
)

// config is the process configuration read from the environment.
type config struct {
	Port            string
	UpstreamBaseURL string
	UserAgent       string
	UpstreamTimeout time.Duration
	LogLevel        logging.LogLevel
	LogPretty       bool
	RedisURL        string
	RateLimit       int
}

func loadConfig() (config, error) {
	cfg := config{
		Port:            getEnv("PORT", "8080"),
		UpstreamBaseURL: getEnv("UPSTREAM_BASE_URL", client.DefaultBaseURL),
		UserAgent:       getEnv("USER_AGENT", "wb-gateway/0.1.0"),
		LogLevel:        logging.LogLevel(getEnv("LOG_LEVEL", string(logging.LevelInfo))),
		RedisURL:        getEnv("REDIS_URL", ""),
	}

	timeout, err := time.ParseDuration(getEnv("UPSTREAM_TIMEOUT", "30s"))
	if err != nil {
		return cfg, fmt.Errorf("UPSTREAM_TIMEOUT: %w", err)
	}
	cfg.UpstreamTimeout = timeout

	pretty, err := strconv.ParseBool(getEnv("LOG_PRETTY", "false"))
	if err != nil {
		return cfg, fmt.Errorf("LOG_PRETTY: %w", err)
	}
	cfg.LogPretty = pretty

	rate, err := strconv.Atoi(getEnv("RATE_LIMIT", strconv.Itoa(ratelimit.DefaultLimit)))
	if err != nil {
		return cfg, fmt.Errorf("RATE_LIMIT: %w", err)
	}
	cfg.RateLimit = rate

	return cfg, nil
}

// redisOptions accepts either a redis:// URL or a bare host:port address.
func redisOptions(raw string) (*redis.Options, error) {
	if strings.Contains(raw, "://") {
		opts, err := redis.ParseURL(raw)
		if err != nil {
			return nil, fmt.Errorf("REDIS_URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: raw}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
