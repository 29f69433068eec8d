package main

import (
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/wb-gateway/pkg/logging"
)

var configEnv = []string{
	"PORT", "UPSTREAM_BASE_URL", "USER_AGENT", "UPSTREAM_TIMEOUT",
	"LOG_LEVEL", "LOG_PRETTY", "REDIS_URL", "RATE_LIMIT",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.UpstreamBaseURL != "https://api.worldbank.org" {
		t.Errorf("UpstreamBaseURL = %q", cfg.UpstreamBaseURL)
	}
	if cfg.UpstreamTimeout != 30*time.Second {
		t.Errorf("UpstreamTimeout = %v, want 30s", cfg.UpstreamTimeout)
	}
	if cfg.LogLevel != logging.LevelInfo || cfg.LogPretty {
		t.Errorf("LogLevel/LogPretty = %q/%v", cfg.LogLevel, cfg.LogPretty)
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL = %q, want empty (gate disabled)", cfg.RedisURL)
	}
	if cfg.RateLimit != 10 {
		t.Errorf("RateLimit = %d, want 10", cfg.RateLimit)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("UPSTREAM_BASE_URL", "http://mock:8000")
	t.Setenv("USER_AGENT", "custom/2.0")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("RATE_LIMIT", "25")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	want := config{
		Port:            "9090",
		UpstreamBaseURL: "http://mock:8000",
		UserAgent:       "custom/2.0",
		UpstreamTimeout: 5 * time.Second,
		LogLevel:        logging.LevelDebug,
		LogPretty:       true,
		RedisURL:        "redis://localhost:6379/0",
		RateLimit:       25,
	}
	if cfg != want {
		t.Errorf("loadConfig() = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr string
	}{
		{"UPSTREAM_TIMEOUT", "soon", "UPSTREAM_TIMEOUT"},
		{"LOG_PRETTY", "maybe", "LOG_PRETTY"},
		{"RATE_LIMIT", "fast", "RATE_LIMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := loadConfig()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.HasPrefix(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want prefix %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		raw      string
		wantAddr string
		wantDB   int
		wantErr  bool
	}{
		{raw: "localhost:6379", wantAddr: "localhost:6379"},
		{raw: "redis://cache:6380/2", wantAddr: "cache:6380", wantDB: 2},
		{raw: "http://cache:6379", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			opts, err := redisOptions(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("redisOptions() error = %v", err)
			}
			if opts.Addr != tt.wantAddr || opts.DB != tt.wantDB {
				t.Errorf("redisOptions() = addr %q db %d, want %q db %d", opts.Addr, opts.DB, tt.wantAddr, tt.wantDB)
			}
		})
	}
}
