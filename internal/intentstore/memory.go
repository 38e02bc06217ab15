package intentstore

import (
	"context"
	"sync"
	"time"

	"github.com/tabwise/epos/internal/clock"
)

type memoryEntry struct {
	intentID string
	expires  time.Time
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	clock   clock.Clock
}

// NewMemoryStore is the single-process fallback used when no redis
// address is configured, and in tests. Entries are dropped lazily on
// read once their deadline passes.
func NewMemoryStore(clk clock.Clock) Store {
	return &memoryStore{
		entries: make(map[string]memoryEntry),
		clock:   clk,
	}
}

func (s *memoryStore) Put(ctx context.Context, secret, intentID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[secret] = memoryEntry{
		intentID: intentID,
		expires:  s.clock.Now().Add(ttl),
	}
	return nil
}

func (s *memoryStore) Get(ctx context.Context, secret string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[secret]
	if !ok {
		return "", false, nil
	}
	if !s.clock.Now().Before(entry.expires) {
		delete(s.entries, secret)
		return "", false, nil
	}
	return entry.intentID, true, nil
}

func (s *memoryStore) Delete(ctx context.Context, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, secret)
	return nil
}

func (s *memoryStore) ReverseLookup(ctx context.Context, intentID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for secret, entry := range s.entries {
		if !now.Before(entry.expires) {
			delete(s.entries, secret)
			continue
		}
		if entry.intentID == intentID {
			return secret, true, nil
		}
	}
	return "", false, nil
}
