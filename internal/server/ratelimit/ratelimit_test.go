package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestBucket_Take(t *testing.T) {
	base := time.Now()
	bucket := newBucket(10, 1.0, base) // 10 tokens, 1 token per second

	for i := 0; i < 5; i++ {
		info := bucket.take(base)
		if !info.Allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if info.Remaining != 9-i {
			t.Errorf("Expected remaining %d, got %d", 9-i, info.Remaining)
		}
	}

	// With 4 tokens left the bucket is full again in 6 seconds.
	info := bucket.take(base)
	if !info.Allowed {
		t.Error("Expected 6th request to be allowed")
	}
	if got := info.ResetTime.Sub(base); got != 6*time.Second {
		t.Errorf("Expected reset in 6s, got %v", got)
	}
}

func TestBucket_Refill(t *testing.T) {
	base := time.Now()
	bucket := newBucket(10, 1.0, base)

	for i := 0; i < 10; i++ {
		if info := bucket.take(base); !info.Allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}
	if info := bucket.take(base); info.Allowed {
		t.Error("Expected request to be denied with an empty bucket")
	}

	// A second of elapsed time refills one token.
	later := base.Add(1100 * time.Millisecond)
	if info := bucket.take(later); !info.Allowed {
		t.Error("Expected request to be allowed after refill")
	}
	if info := bucket.take(later); info.Allowed {
		t.Error("Expected request to be denied after consuming the refilled token")
	}
}

func TestBucket_RetryAfter(t *testing.T) {
	base := time.Now()
	bucket := newBucket(1, 1.0, base)

	if info := bucket.take(base); !info.Allowed {
		t.Error("Expected first request to be allowed")
	}

	info := bucket.take(base)
	if info.Allowed {
		t.Error("Expected second request to be denied")
	}
	if info.RetryAfter != time.Second {
		t.Errorf("Expected retry after 1s, got %v", info.RetryAfter)
	}
}

func TestLimiter_Allow(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	clientID := "127.0.0.1"
	endpoint := "/test"
	method := "GET"

	// Should allow requests up to limit
	for i := 0; i < 10; i++ {
		allowed, rateInfo := limiter.Allow(clientID, endpoint, method)
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if rateInfo.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", rateInfo.Limit)
		}
		if rateInfo.Remaining != 9-i {
			t.Errorf("Expected remaining %d, got %d", 9-i, rateInfo.Remaining)
		}
	}

	// 11th request should be denied
	allowed, rateInfo := limiter.Allow(clientID, endpoint, method)
	if allowed {
		t.Error("Expected 11th request to be denied")
	}
	if rateInfo.Remaining != 0 {
		t.Errorf("Expected remaining 0, got %d", rateInfo.Remaining)
	}
	if rateInfo.RetryAfter <= 0 {
		t.Error("Expected retry after to be positive")
	}
}

func TestLimiter_Whitelist(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	// Whitelisted IP should always be allowed
	for i := 0; i < 100; i++ {
		allowed, rateInfo := limiter.Allow("127.0.0.1", "/test", "GET")
		if !allowed {
			t.Errorf("Expected whitelisted request %d to be allowed", i+1)
		}
		if rateInfo.Limit != 0 {
			t.Errorf("Expected limit 0 for whitelisted, got %d", rateInfo.Limit)
		}
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"192.168.1.1": true},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	// Blacklisted IP should always be denied
	allowed, _ := limiter.Allow("192.168.1.1", "/test", "GET")
	if allowed {
		t.Error("Expected blacklisted request to be denied")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	// When disabled, all requests should be allowed
	for i := 0; i < 100; i++ {
		allowed, rateInfo := limiter.Allow("127.0.0.1", "/test", "GET")
		if !allowed {
			t.Errorf("Expected request %d to be allowed when disabled", i+1)
		}
		if rateInfo.Limit != 0 {
			t.Errorf("Expected limit 0 when disabled, got %d", rateInfo.Limit)
		}
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/api/ats_evaluate", Method: "POST", Limit: 5, Window: time.Hour, Burst: 5},
		},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	clientID := "127.0.0.1"

	// Endpoint-specific burst allows 5 immediately
	for i := 0; i < 5; i++ {
		allowed, rateInfo := limiter.Allow(clientID, "/api/ats_evaluate", "POST")
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if rateInfo.Limit != 5 {
			t.Errorf("Expected limit 5, got %d", rateInfo.Limit)
		}
	}

	// 6th request should be denied
	allowed, rateInfo := limiter.Allow(clientID, "/api/ats_evaluate", "POST")
	if allowed {
		t.Error("Expected 6th request to be denied")
	}
	if rateInfo.Limit != 5 {
		t.Errorf("Expected limit 5, got %d", rateInfo.Limit)
	}

	// Different endpoint should use the default limit
	allowed, rateInfo = limiter.Allow(clientID, "/other", "GET")
	if !allowed {
		t.Error("Expected different endpoint to be allowed")
	}
	if rateInfo.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got %d", rateInfo.Limit)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	clientID := "127.0.0.1"
	endpoint := "/test"
	method := "GET"

	var wg sync.WaitGroup
	allowedCount := 0
	var mu sync.Mutex

	// Make 200 concurrent requests (should only allow 100)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, _ := limiter.Allow(clientID, endpoint, method)
			if allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	if allowedCount != 100 {
		t.Errorf("Expected 100 allowed requests, got %d", allowedCount)
	}
}

func TestLimiter_RemoveIdle(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		clientID := fmt.Sprintf("127.0.0.%d", i+1)
		if allowed, _ := limiter.Allow(clientID, "/jobs/all", "GET"); !allowed {
			t.Errorf("Expected request from %s to be allowed", clientID)
		}
	}
	if got := len(limiter.buckets); got != 10 {
		t.Fatalf("Expected 10 buckets, got %d", got)
	}

	// A cutoff in the future makes every bucket idle.
	limiter.removeIdle(time.Now().Add(time.Minute))
	if got := len(limiter.buckets); got != 0 {
		t.Errorf("Expected all buckets removed, got %d", got)
	}

	// Fresh buckets are created on the next request.
	if allowed, _ := limiter.Allow("127.0.0.1", "/jobs/all", "GET"); !allowed {
		t.Error("Expected request after cleanup to be allowed")
	}
}

func TestLimiter_Burst(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/burst", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	clientID := "127.0.0.1"

	// Should allow a burst of 5 requests immediately
	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow(clientID, "/burst", "POST")
		if !allowed {
			t.Errorf("Expected burst request %d to be allowed", i+1)
		}
	}

	// 6th request should be denied (burst exhausted, no refill yet)
	allowed, _ := limiter.Allow(clientID, "/burst", "POST")
	if allowed {
		t.Error("Expected request after burst to be denied")
	}
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	// Should use defaults
	allowed, rateInfo := limiter.Allow("127.0.0.1", "/test", "GET")
	if !allowed {
		t.Error("Expected request to be allowed with default config")
	}
	if rateInfo.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got %d", rateInfo.Limit)
	}
}

func TestMatchEndpoint_HealthUnlimited(t *testing.T) {
	config := MatchEndpoint("/jobs/health", "GET", DefaultEndpointConfigs())
	if config == nil {
		t.Fatal("Expected a config for the health endpoint")
	}
	if config.Limit != 0 {
		t.Errorf("Expected unlimited health endpoint, got limit %d", config.Limit)
	}
}

func TestMatchEndpoint_ExactMatch(t *testing.T) {
	configs := DefaultEndpointConfigs()

	config := MatchEndpoint("/api/ats_cv", "POST", configs)
	if config == nil {
		t.Fatal("Expected a config for /api/ats_cv")
	}
	if config.Window != time.Hour {
		t.Errorf("Expected hourly window, got %v", config.Window)
	}

	if MatchEndpoint("/api/ats_cv", "GET", configs) != nil {
		t.Error("Expected no config for a different method")
	}
}

func TestMatchEndpoint_PrefixMatch(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/api/", Method: "POST", Limit: 5, Window: time.Minute},
	}

	config := MatchEndpoint("/api/anything", "POST", configs)
	if config == nil {
		t.Fatal("Expected prefix match for /api/anything")
	}
	if config.Limit != 5 {
		t.Errorf("Expected limit 5, got %d", config.Limit)
	}

	if MatchEndpoint("/other", "POST", configs) != nil {
		t.Error("Expected no match outside the prefix")
	}
}
