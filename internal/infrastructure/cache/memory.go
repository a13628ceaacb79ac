package cache

import (
	"context"
	"sync"
	"time"

	"github.com/solarprices/backend/internal/domain"
)

// DefaultCleanupInterval is how often expired entries are swept
const DefaultCleanupInterval = 10 * time.Minute

// entry is a single stored value with expiration
type entry struct {
	Value      string
	Expiration time.Time
}

// MemoryStore is a thread-safe in-memory key-value store with TTL support.
// It implements domain.PreferenceRepository; contents do not survive a
// restart.
type MemoryStore struct {
	data  map[string]entry
	mutex sync.RWMutex
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryStore creates a store and starts the expiry sweeper. A
// non-positive interval uses DefaultCleanupInterval.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}

	store := &MemoryStore{
		data: make(map[string]entry),
		stop: make(chan struct{}),
	}

	go store.cleanupExpired(cleanupInterval)

	return store
}

// Get retrieves a value from the store
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	item, exists := s.data[key]
	if !exists || time.Now().After(item.Expiration) {
		return "", domain.ErrCacheMiss
	}

	return item.Value, nil
}

// Set stores a value with TTL
func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[key] = entry{
		Value:      value,
		Expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a value from the store
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, key)
	return nil
}

// Close stops the expiry sweeper
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

// cleanupExpired removes expired entries periodically
func (s *MemoryStore) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

func (s *MemoryStore) sweep(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for key, item := range s.data {
		if now.After(item.Expiration) {
			delete(s.data, key)
		}
	}
}

// Size returns the current number of entries, expired ones included until
// the next sweep
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}
