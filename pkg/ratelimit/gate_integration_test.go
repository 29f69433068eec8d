//go:build integration

package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedisContainer creates a Redis container for integration testing.
func setupRedisContainer(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := redisContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := redisContainer.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	t.Cleanup(func() {
		client.Close()
		redisContainer.Terminate(ctx)
	})

	return client
}

func TestIntegration_GatesSharedAcrossReplicas(t *testing.T) {
	client := setupRedisContainer(t)

	const limit = 3
	replicas := []*Gate{
		NewGate(client, limit, zerolog.Nop()),
		NewGate(client, limit, zerolog.Nop()),
	}

	// Freeze every replica in one window so admissions cannot spill over.
	fixed := time.Now().Truncate(time.Second).Add(10 * time.Millisecond)
	for _, g := range replicas {
		g.now = func() time.Time { return fixed }
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		g := replicas[i%len(replicas)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Wait(ctx); err == nil {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := admitted.Load(); got != limit {
		t.Errorf("admitted = %d, want %d across replicas", got, limit)
	}
}

func TestIntegration_WindowKeyExpires(t *testing.T) {
	client := setupRedisContainer(t)
	g := NewGate(client, 5, zerolog.Nop())

	ctx := context.Background()
	w, err := g.Allow(ctx)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}

	time.Sleep(WindowTTL + 500*time.Millisecond)

	exists, err := client.Exists(ctx, w.Key()).Result()
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists != 0 {
		t.Errorf("window key %s still present after TTL", w.Key())
	}
}
