package ratelimiter

import (
	"sync"
	"time"
)

const janitorInterval = time.Minute

type memoryEntry struct {
	value     int
	expiresAt int64 // Unix nanoseconds, 0 means no expiry
}

func (e memoryEntry) expired(now int64) bool {
	return e.expiresAt != 0 && now > e.expiresAt
}

// InMemory is the single-process cache backend. Expired entries are
// lazily skipped on read and swept by a background janitor.
type InMemory struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	done      chan struct{}
	closeOnce sync.Once
}

func NewInMemory() GetterSetter {
	im := &InMemory{
		entries: make(map[string]memoryEntry),
		done:    make(chan struct{}),
	}

	go im.janitor()

	return im
}

func (im *InMemory) Get(key string) (int, error) {
	im.mu.RLock()
	entry, ok := im.entries[key]
	im.mu.RUnlock()

	if !ok || entry.expired(time.Now().UnixNano()) {
		return 0, ErrCacheMiss
	}

	return entry.value, nil
}

func (im *InMemory) Set(key string, value int) error {
	return im.SetWithExpiration(key, value, 0)
}

func (im *InMemory) SetWithExpiration(key string, value int, expiration time.Duration) error {
	entry := memoryEntry{value: value}
	if expiration > 0 {
		entry.expiresAt = time.Now().Add(expiration).UnixNano()
	}

	im.mu.Lock()
	im.entries[key] = entry
	im.mu.Unlock()

	return nil
}

func (im *InMemory) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			im.sweep()
		case <-im.done:
			return
		}
	}
}

func (im *InMemory) sweep() {
	now := time.Now().UnixNano()

	im.mu.Lock()
	defer im.mu.Unlock()

	for key, entry := range im.entries {
		if entry.expired(now) {
			delete(im.entries, key)
		}
	}
}

func (im *InMemory) Close() error {
	im.closeOnce.Do(func() {
		close(im.done)
	})
	return nil
}
