// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	redisOnce      sync.Once
	redisContainer testcontainers.Container
	redisAddr      string
	redisErr       error
)

// RedisAddress returns the host:port of a shared Redis container, starting
// it on first use. Tests are skipped in -short mode or when no container
// runtime is available.
func RedisAddress(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}

	redisOnce.Do(startRedisContainer)
	if redisErr != nil {
		t.Skipf("redis container unavailable: %v", redisErr)
	}
	return redisAddr
}

func startRedisContainer() {
	// Give generous timeout in CI environments
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	defer func() {
		// testcontainers panics when no docker host can be found.
		if r := recover(); r != nil {
			redisErr = errNoDocker{r}
		}
	}()

	redisC, err := testcontainers.Run(
		ctx, "redis:7",
		testcontainers.WithExposedPorts("6379/tcp"),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("6379/tcp"),
			wait.ForLog("Ready to accept connections"),
		),
	)
	if err != nil {
		redisErr = err
		return
	}

	endpoint, err := redisC.Endpoint(ctx, "")
	if err != nil {
		_ = redisC.Terminate(context.Background()) // best-effort cleanup
		redisErr = err
		return
	}

	redisContainer = redisC
	redisAddr = endpoint
}

type errNoDocker struct{ cause any }

func (e errNoDocker) Error() string { return fmt.Sprintf("no container runtime: %v", e.cause) }
