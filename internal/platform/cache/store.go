package cache

import (
	"context"
	"sync"
	"time"

	"github.com/crimson-data/cfb-analytics/internal/platform/resilience"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is an in-process TTL cache for derived metric reads. A zero TTL
// disables caching entirely so the knob can turn the layer off in config.
type Store struct {
	ttl     time.Duration
	now     func() time.Time
	loaders *resilience.Group

	mu      sync.RWMutex
	entries map[string]entry
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		loaders: resilience.NewGroup(),
		entries: make(map[string]entry),
	}
}

func (s *Store) Enabled() bool {
	return s != nil && s.ttl > 0
}

func (s *Store) Get(key string) (any, bool) {
	if !s.Enabled() {
		return nil, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || s.now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (s *Store) Set(key string, value any) {
	if !s.Enabled() {
		return
	}

	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
}

func (s *Store) Delete(key string) {
	if !s.Enabled() {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// GetOrLoad returns the cached value or invokes load, deduplicating
// concurrent loads for the same key.
func (s *Store) GetOrLoad(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	if !s.Enabled() {
		return load(ctx)
	}

	if value, ok := s.Get(key); ok {
		return value, nil
	}

	return s.loaders.Do(key, func() (any, error) {
		if value, ok := s.Get(key); ok {
			return value, nil
		}
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(key, value)
		return value, nil
	})
}
