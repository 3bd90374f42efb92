package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(t *testing.T, config *Config) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewLimiter(config)
	limiter.now = clock.Now
	t.Cleanup(limiter.Stop)
	return limiter, clock
}

func TestLimiter_Allow(t *testing.T) {
	limiter, clock := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	assert.False(t, allowed, "11th request should be denied")
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, (6 * time.Second).Seconds(), info.RetryAfter.Seconds(), 0.01)
	assert.True(t, info.ResetTime.After(clock.Now()))

	// 10 per minute refills one token every 6s
	clock.Advance(7 * time.Second)
	allowed, _ = limiter.Allow("127.0.0.1", "/test", "GET")
	assert.True(t, allowed, "request should be allowed after refill")

	allowed, _ = limiter.Allow("127.0.0.1", "/test", "GET")
	assert.False(t, allowed, "refilled token should be consumed")
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	allowed, _ := limiter.Allow("10.0.0.1", "/x", "GET")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.1", "/x", "GET")
	assert.False(t, allowed)

	allowed, _ = limiter.Allow("10.0.0.2", "/x", "GET")
	assert.True(t, allowed, "another client has its own bucket")
	allowed, _ = limiter.Allow("10.0.0.1", "/y", "GET")
	assert.True(t, allowed, "another endpoint has its own bucket")
}

func TestLimiter_WhitelistBlacklistDisabled(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		client string
		want   bool
	}{
		{
			name:   "whitelisted client is never limited",
			config: &Config{Enabled: true, DefaultLimit: 0, DefaultWindow: time.Minute, Whitelist: map[string]bool{"1.1.1.1": true}},
			client: "1.1.1.1",
			want:   true,
		},
		{
			name:   "blacklisted client is always denied",
			config: &Config{Enabled: true, DefaultLimit: 1000, DefaultWindow: time.Minute, Blacklist: map[string]bool{"6.6.6.6": true}},
			client: "6.6.6.6",
			want:   false,
		},
		{
			name:   "disabled limiter allows everything",
			config: &Config{Enabled: false, Blacklist: map[string]bool{"6.6.6.6": true}},
			client: "6.6.6.6",
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter, _ := newTestLimiter(t, tt.config)
			for i := 0; i < 5; i++ {
				allowed, _ := limiter.Allow(tt.client, "/process", "POST")
				assert.Equal(t, tt.want, allowed)
			}
		})
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/process", "POST")
		require.True(t, allowed, "burst request %d should be allowed", i+1)
		assert.Equal(t, 30, info.Limit)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/process", "POST")
	assert.False(t, allowed, "uploads beyond the burst are throttled")
	assert.Greater(t, info.RetryAfter, time.Duration(0))

	// Health stays unlimited
	for i := 0; i < 50; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/health", "GET")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("127.0.0.1", "/test", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowedCount, "the clock is frozen so exactly the burst is admitted")
}

func TestLimiter_Cleanup(t *testing.T) {
	limiter, clock := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		IdleTTL:       time.Hour,
	})

	for i := 0; i < 3; i++ {
		limiter.Allow(fmt.Sprintf("10.0.0.%d", i), "/test", "GET")
	}
	clock.Advance(30 * time.Minute)
	limiter.Allow("10.0.0.0", "/test", "GET")

	clock.Advance(45 * time.Minute)
	limiter.cleanupBuckets(clock.Now())

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Len(t, limiter.buckets, 1, "only the recently used bucket survives")
	assert.Contains(t, limiter.buckets, "10.0.0.0:/test:GET")
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Second, CleanupInterval: time.Millisecond})
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	require.NotNil(t, limiter.config)
	assert.True(t, limiter.config.Enabled)
	assert.Equal(t, time.Hour, limiter.config.IdleTTL)

	allowed, _ := limiter.Allow("127.0.0.1", "/test", "GET")
	assert.True(t, allowed)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name      string
		path      string
		method    string
		wantPath  string
		wantLimit int
		wantNil   bool
	}{
		{"exact", "/process", "POST", "/process", 30, false},
		{"prefix", "/extractions/123", "GET", "/extractions/", 300, false},
		{"list", "/extractions", "GET", "/extractions", 300, false},
		{"health unlimited", "/health", "GET", "/health", 0, false},
		{"schema unlimited", "/schema", "GET", "/schema", 0, false},
		{"method mismatch", "/process", "GET", "", 0, true},
		{"unknown", "/nope", "GET", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPath, got.Path)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "false")
		assert.False(t, LoadConfig().Enabled)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "")
		t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
		t.Setenv("RATE_LIMIT_PROCESS_PER_HOUR", "7")
		t.Setenv("RATE_LIMIT_WHITELIST", " 1.2.3.4 , ,5.6.7.8")

		cfg := LoadConfig()
		assert.True(t, cfg.Enabled)
		assert.Equal(t, 42, cfg.DefaultLimit)
		assert.Equal(t, map[string]bool{"1.2.3.4": true, "5.6.7.8": true}, cfg.Whitelist)

		process := MatchEndpoint("/process", "POST", cfg.EndpointConfigs)
		require.NotNil(t, process)
		assert.Equal(t, 7, process.Limit)
	})
}
