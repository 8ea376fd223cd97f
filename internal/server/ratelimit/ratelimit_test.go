package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

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
	config := &Config{
		Enabled: false,
	}
	limiter := NewLimiter(config)
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
			{Path: "/render", Method: "POST", Limit: 5, Window: time.Hour, Burst: 5},
		},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	clientID := "127.0.0.1"

	// Test endpoint-specific limit (burst allows 5 immediately)
	for i := 0; i < 5; i++ {
		allowed, rateInfo := limiter.Allow(clientID, "/render", "POST")
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if rateInfo.Limit != 5 {
			t.Errorf("Expected limit 5, got %d", rateInfo.Limit)
		}
	}

	// 6th request should be denied (limit reached)
	allowed, rateInfo := limiter.Allow(clientID, "/render", "POST")
	if allowed {
		t.Error("Expected 6th request to be denied")
	}
	if rateInfo.Limit != 5 {
		t.Errorf("Expected limit 5, got %d", rateInfo.Limit)
	}

	// Different endpoint should use default limit
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

	// Should have allowed exactly 100 requests
	if allowedCount != 100 {
		t.Errorf("Expected 100 allowed requests, got %d", allowedCount)
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		clientID := fmt.Sprintf("127.0.0.%d", i+1)
		if allowed, _ := limiter.Allow(clientID, "/test", "GET"); !allowed {
			t.Errorf("Expected request from %s to be allowed", clientID)
		}
	}
	if n := limiter.size(); n != 10 {
		t.Fatalf("Expected 10 buckets, got %d", n)
	}

	// A cutoff in the past keeps every bucket.
	limiter.cleanupBuckets(time.Now().Add(-time.Minute))
	if n := limiter.size(); n != 10 {
		t.Errorf("Expected 10 buckets after no-op cleanup, got %d", n)
	}

	// A cutoff in the future drops them all.
	limiter.cleanupBuckets(time.Now().Add(time.Minute))
	if n := limiter.size(); n != 0 {
		t.Errorf("Expected 0 buckets after cleanup, got %d", n)
	}

	// A dropped client starts over with a full bucket.
	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	if !allowed || info.Remaining != 9 {
		t.Errorf("Expected fresh bucket, got allowed=%v remaining=%d", allowed, info.Remaining)
	}
}

func TestLimiter_CleanupGoroutineStops(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    10,
		DefaultWindow:   time.Minute,
		CleanupInterval: 10 * time.Millisecond,
	})
	limiter.Allow("127.0.0.1", "/test", "GET")
	time.Sleep(30 * time.Millisecond)

	limiter.Stop()
	limiter.Stop()
}

func TestLimiter_PrefixSharesBucket(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/drafts/", Method: "PATCH", Limit: 2, Window: time.Minute, Burst: 2},
		},
	})
	defer limiter.Stop()

	if allowed, _ := limiter.Allow("10.0.0.1", "/drafts/a", "PATCH"); !allowed {
		t.Error("Expected first draft edit to be allowed")
	}
	if allowed, _ := limiter.Allow("10.0.0.1", "/drafts/b", "PATCH"); !allowed {
		t.Error("Expected second draft edit to be allowed")
	}
	if allowed, info := limiter.Allow("10.0.0.1", "/drafts/c", "PATCH"); allowed || info.RetryAfter <= 0 {
		t.Errorf("Expected third draft edit to be limited, got allowed=%v retry=%v", allowed, info.RetryAfter)
	}
	if allowed, _ := limiter.Allow("10.0.0.2", "/drafts/a", "PATCH"); !allowed {
		t.Error("Expected another client to have its own bucket")
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()
	tests := []struct {
		path, method string
		wantPath     string
		wantLimit    int
		wantNil      bool
	}{
		{path: "/health", method: "GET", wantPath: "/health", wantLimit: 0},
		{path: "/render/stream", method: "POST", wantPath: "/render/stream", wantLimit: 30},
		{path: "/render", method: "POST", wantPath: "/render", wantLimit: 30},
		{path: "/render/letter", method: "POST", wantPath: "/render/letter", wantLimit: 30},
		{path: "/drafts/abc", method: "PATCH", wantPath: "/drafts/", wantLimit: 300},
		{path: "/renders/abc/confirm", method: "POST", wantPath: "/renders/", wantLimit: 20},
		{path: "/templates", method: "GET", wantNil: true},
		{path: "/render", method: "GET", wantNil: true},
	}
	for _, tt := range tests {
		got := MatchEndpoint(tt.path, tt.method, configs)
		if tt.wantNil {
			if got != nil {
				t.Errorf("%s %s: expected no match, got %+v", tt.method, tt.path, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("%s %s: expected a match", tt.method, tt.path)
			continue
		}
		if got.Path != tt.wantPath || got.Limit != tt.wantLimit {
			t.Errorf("%s %s: got path=%q limit=%d", tt.method, tt.path, got.Path, got.Limit)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "50")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")

	cfg := LoadConfig()
	if !cfg.Enabled || cfg.DefaultLimit != 50 || cfg.DefaultWindow != 30*time.Second {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if !cfg.Whitelist["10.0.0.2"] || len(cfg.Whitelist) != 2 {
		t.Errorf("unexpected whitelist: %v", cfg.Whitelist)
	}

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	if LoadConfig().Enabled {
		t.Error("Expected rate limiting to be disabled")
	}
}

func TestMatchEndpoint_Precedence(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/a/", Limit: 1},
		{Path: "/a/b/", Method: "POST", Limit: 2},
		{Path: "/a/b/c", Method: "POST", Limit: 3},
	}
	tests := []struct {
		path, method string
		wantLimit    int
	}{
		{path: "/a/b/c", method: "POST", wantLimit: 3},
		{path: "/a/b/d", method: "POST", wantLimit: 2},
		{path: "/a/b/d", method: "GET", wantLimit: 1},
		{path: "/a/x", method: "DELETE", wantLimit: 1},
	}
	for _, tt := range tests {
		got := MatchEndpoint(tt.path, tt.method, configs)
		if got == nil || got.Limit != tt.wantLimit {
			t.Errorf("%s %s: got %+v, want limit %d", tt.method, tt.path, got, tt.wantLimit)
		}
	}
}

func TestFromLookup(t *testing.T) {
	env := map[string]string{
		"RATE_LIMIT_DEFAULT_LIMIT":    "not-a-number",
		"RATE_LIMIT_RENDER_LIMIT":     "3",
		"RATE_LIMIT_BLACKLIST":        " 10.0.0.9 ,,",
		"RATE_LIMIT_CLEANUP_INTERVAL": "1m",
	}
	cfg := FromLookup(func(key string) string { return env[key] })

	if cfg.DefaultLimit != 1000 {
		t.Errorf("Expected malformed limit to keep the default, got %d", cfg.DefaultLimit)
	}
	if cfg.CleanupInterval != time.Minute {
		t.Errorf("Expected cleanup interval 1m, got %v", cfg.CleanupInterval)
	}
	if len(cfg.Blacklist) != 1 || !cfg.Blacklist["10.0.0.9"] {
		t.Errorf("unexpected blacklist: %v", cfg.Blacklist)
	}
	for _, path := range []string{"/render", "/render/letter", "/render/stream", "/documents"} {
		ec := MatchEndpoint(path, "POST", cfg.EndpointConfigs)
		if ec == nil || ec.Limit != 3 || ec.Burst != 3 {
			t.Errorf("%s: expected render limit 3 and burst 3, got %+v", path, ec)
		}
	}
	if ec := MatchEndpoint("/layout", "POST", cfg.EndpointConfigs); ec.Limit != 120 {
		t.Errorf("Expected layout limit untouched, got %d", ec.Limit)
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

	// Should allow burst of 5 requests immediately
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

	if limiter == nil {
		t.Error("Expected limiter to be created with nil config")
	}

	// Should use defaults
	allowed, rateInfo := limiter.Allow("127.0.0.1", "/test", "GET")
	if !allowed {
		t.Error("Expected request to be allowed with default config")
	}
	if rateInfo.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got %d", rateInfo.Limit)
	}
}
