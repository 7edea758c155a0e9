package ratelimiter

import (
	"errors"
	"net/http"
	"sync"
	"time"
)

const (
	countKeyPrefix   = "rl:count:"
	windowKeyPrefix  = "rl:window:"
	defaultSourceKey = "X-RateLimit-Key"
)

type Limiter interface {
	Allow(sourceKey string) bool
	GetSourceKey(r *http.Request) string
	Remaining(sourceKey string) int
	GetMaxRequests() int
	RetryAfter(sourceKey string) time.Duration
}

// RateLimiter counts requests per source in fixed windows. State lives in
// a pluggable cache so the in-memory backend can be swapped for Redis.
type RateLimiter struct {
	window          time.Duration
	maxRequests     int
	cache           GetterSetter
	cacheTTL        time.Duration
	sourceHeaderKey string
	// Per-key locks to ensure atomic operations for each source
	locks sync.Map // map[string]*sync.Mutex
}

type windowState struct {
	count   int
	startAt int64 // Unix milliseconds
}

func (rl *RateLimiter) getLock(sourceKey string) *sync.Mutex {
	lock, _ := rl.locks.LoadOrStore(sourceKey, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (rl *RateLimiter) getCountKeyFor(sourceKey string) string {
	return countKeyPrefix + sourceKey
}

func (rl *RateLimiter) getWindowKeyFor(sourceKey string) string {
	return windowKeyPrefix + sourceKey
}

func (rl *RateLimiter) getState(sourceKey string, now int64) windowState {
	count, countErr := rl.cache.Get(rl.getCountKeyFor(sourceKey))
	startAt, startErr := rl.cache.Get(rl.getWindowKeyFor(sourceKey))

	if errors.Is(countErr, ErrCacheMiss) || errors.Is(startErr, ErrCacheMiss) {
		return windowState{count: 0, startAt: now}
	}

	// On cache error (not miss), fail open with a fresh window
	if countErr != nil || startErr != nil {
		return windowState{count: 0, startAt: now}
	}

	return windowState{count: count, startAt: int64(startAt)}
}

func (rl *RateLimiter) setState(sourceKey string, state windowState) {
	_ = rl.cache.SetWithExpiration(rl.getCountKeyFor(sourceKey), state.count, rl.cacheTTL)
	_ = rl.cache.SetWithExpiration(rl.getWindowKeyFor(sourceKey), int(state.startAt), rl.cacheTTL)
}

// rotate starts a fresh window when the current one has elapsed.
func (rl *RateLimiter) rotate(state windowState, now int64) windowState {
	if now-state.startAt >= rl.window.Milliseconds() {
		return windowState{count: 0, startAt: now}
	}
	return state
}

func (rl *RateLimiter) Allow(sourceKey string) bool {
	lock := rl.getLock(sourceKey)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now().UnixMilli()
	state := rl.rotate(rl.getState(sourceKey, now), now)

	if state.count >= rl.maxRequests {
		// Persist any rotation that happened even on rejection
		rl.setState(sourceKey, state)
		return false
	}

	state.count++
	rl.setState(sourceKey, state)
	return true
}

func (rl *RateLimiter) Remaining(sourceKey string) int {
	lock := rl.getLock(sourceKey)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now().UnixMilli()
	state := rl.rotate(rl.getState(sourceKey, now), now)

	remaining := rl.maxRequests - state.count
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (rl *RateLimiter) RetryAfter(sourceKey string) time.Duration {
	lock := rl.getLock(sourceKey)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now().UnixMilli()
	state := rl.getState(sourceKey, now)

	elapsed := now - state.startAt
	if elapsed >= rl.window.Milliseconds() {
		return 0
	}
	return time.Duration(rl.window.Milliseconds()-elapsed) * time.Millisecond
}

func (rl *RateLimiter) GetMaxRequests() int {
	return rl.maxRequests
}

func (rl *RateLimiter) GetSourceKey(r *http.Request) string {
	if key := r.Header.Get(rl.sourceHeaderKey); key != "" {
		return key
	}

	// Fall back to IP address
	return r.RemoteAddr
}

type Options struct {
	Window          time.Duration
	MaxRequests     int
	Cache           GetterSetter
	CacheTTL        time.Duration
	SourceHeaderKey string
}

func New(options Options) Limiter {
	if options.Cache == nil {
		options.Cache = NewInMemory()
	}

	if options.Window <= 0 {
		options.Window = 30 * time.Minute
	}

	if options.MaxRequests <= 0 {
		options.MaxRequests = 200
	}

	if options.CacheTTL == 0 {
		// Keep state a little longer than the window itself
		options.CacheTTL = options.Window + 5*time.Minute
	}

	if options.SourceHeaderKey == "" {
		options.SourceHeaderKey = defaultSourceKey
	}

	return &RateLimiter{
		window:          options.Window,
		maxRequests:     options.MaxRequests,
		cache:           options.Cache,
		cacheTTL:        options.CacheTTL,
		sourceHeaderKey: options.SourceHeaderKey,
	}
}
