//go:build integration

package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// RedisContainer wraps a testcontainers Redis instance
type RedisContainer struct {
	testcontainers.Container
	addr string
}

func setupRedisContainer(ctx context.Context) (*RedisContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		return nil, fmt.Errorf("failed to get port: %w", err)
	}

	return &RedisContainer{
		Container: container,
		addr:      fmt.Sprintf("%s:%s", host, port.Port()),
	}, nil
}

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	rc, err := setupRedisContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to setup Redis container: %v", err)
	}
	t.Cleanup(func() { _ = rc.Terminate(ctx) })

	rdb := NewRedis(rc.addr, "", 0)
	t.Cleanup(func() { _ = rdb.Close() })

	if err := Ping(ctx, rdb); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	return rdb
}

func TestIntegration_Counters(t *testing.T) {
	ctx := context.Background()
	counters := NewCounters(newTestClient(t))

	t.Run("missing counter reads zero", func(t *testing.T) {
		n, err := counters.Read(ctx, "g1", "nobody")
		if err != nil || n != 0 {
			t.Errorf("Read = %d, %v", n, err)
		}
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := counters.Increment(ctx, "g1", "u1"); err != nil {
					t.Errorf("Increment: %v", err)
				}
			}()
		}
		wg.Wait()

		n, err := counters.Read(ctx, "g1", "u1")
		if err != nil || n != 50 {
			t.Errorf("Read = %d, %v; want 50", n, err)
		}
	})

	t.Run("read all is per server", func(t *testing.T) {
		_ = counters.Increment(ctx, "g1", "u2")
		_ = counters.Increment(ctx, "g2", "u9")

		all, err := counters.ReadAll(ctx, "g1")
		if err != nil {
			t.Fatalf("ReadAll: %v", err)
		}
		if len(all) != 2 || all["u1"] != 50 || all["u2"] != 1 {
			t.Errorf("ReadAll = %v", all)
		}
	})
}

func TestIntegration_GuildConfig(t *testing.T) {
	ctx := context.Background()
	cfg := NewGuildConfig(newTestClient(t))

	if _, ok, err := cfg.MinecraftGuild(ctx, "g1"); ok || err != nil {
		t.Fatalf("unset guild: ok=%v err=%v", ok, err)
	}

	if err := cfg.SetMinecraftGuild(ctx, "g1", "Sky Knights"); err != nil {
		t.Fatalf("SetMinecraftGuild: %v", err)
	}
	name, ok, err := cfg.MinecraftGuild(ctx, "g1")
	if err != nil || !ok || name != "Sky Knights" {
		t.Errorf("MinecraftGuild = %q, %v, %v", name, ok, err)
	}

	if _, ok, _ := cfg.MinecraftGuild(ctx, "g2"); ok {
		t.Error("settings leaked across servers")
	}
}
