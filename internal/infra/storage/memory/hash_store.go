package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"roomrates/internal/app/policies"
	"roomrates/internal/domain/syncstate"
)

var ErrStoreUnavailable = errors.New("memory: hash store unavailable")

// HashStore keeps change-detection digests in a map. Expired entries are
// invisible to Lookup.
type HashStore struct {
	mu      sync.RWMutex
	entries map[string]syncstate.Entry
	now     func() time.Time
	// Fail makes every call return ErrStoreUnavailable.
	Fail bool
}

var _ policies.HashStore = (*HashStore)(nil)

func NewHashStore() *HashStore {
	return &HashStore{entries: make(map[string]syncstate.Entry), now: time.Now}
}

func (s *HashStore) Lookup(_ context.Context, keys []string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Fail {
		return nil, ErrStoreUnavailable
	}
	now := s.now()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		e, ok := s.entries[k]
		if !ok || (!e.ExpiresAt.IsZero() && !e.ExpiresAt.After(now)) {
			continue
		}
		out[k] = e.Digest
	}
	return out, nil
}

func (s *HashStore) Store(_ context.Context, entries []syncstate.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreUnavailable
	}
	for _, e := range entries {
		s.entries[e.Key] = e
	}
	return nil
}

func (s *HashStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
