package middleware

import (
	"sync"
	"testing"
	"time"

	"fleetops/pkg/logger"
)

func testLog() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func TestAllow_EnforcesLimitPerKey(t *testing.T) {
	rl := NewClientRateLimiter(3, time.Minute, nil, testLog())
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("client-a") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("client-a") {
		t.Error("fourth request within the window must be rejected")
	}
	if !rl.Allow("client-b") {
		t.Error("a different key must not share the budget")
	}
}

func TestAllow_EmptyKeyBypasses(t *testing.T) {
	rl := NewClientRateLimiter(1, time.Minute, nil, testLog())
	defer rl.Stop()

	for i := 0; i < 5; i++ {
		if !rl.Allow("") {
			t.Fatal("empty key must never be limited")
		}
	}
}

func TestAllow_ConcurrentRequestsNeverExceedLimit(t *testing.T) {
	const limit = 10
	const attempts = 100

	rl := NewClientRateLimiter(limit, time.Minute, nil, testLog())
	defer rl.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("shared") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != limit {
		t.Errorf("allowed %d concurrent requests, want exactly %d", allowed, limit)
	}
}
