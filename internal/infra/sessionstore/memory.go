package sessionstore

import (
	"context"
	"sync"
	"time"

	"tool-rental/internal/pkg/clock"
)

// MemoryStore is the single-process revocation list used when no redis is configured.
type MemoryStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	revoked map[string]time.Time
}

func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		clock:   clk,
		revoked: make(map[string]time.Time),
	}
}

func (s *MemoryStore) Revoke(_ context.Context, tokenID string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.prune(now)
	if until.After(now) {
		s.revoked[tokenID] = until
	}
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.prune(now)
	_, ok := s.revoked[tokenID]
	return ok, nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.revoked)
}

func (s *MemoryStore) prune(now time.Time) {
	for id, until := range s.revoked {
		if !until.After(now) {
			delete(s.revoked, id)
		}
	}
}
