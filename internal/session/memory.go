package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/schoolhub/schoolhub-backend/internal/model"
)

// MemoryStore is an in-process Store for tests and single-node development.
// It round-trips users through JSON so serialization behavior matches the
// Redis-backed store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, token string, user *model.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[keyPrefix+token] = payload
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, token string) (*model.User, error) {
	s.mu.RLock()
	raw, ok := s.entries[keyPrefix+token]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	user := &model.User{}
	if err := json.Unmarshal(raw, user); err != nil {
		_ = s.Clear(context.Background(), token)
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *MemoryStore) Clear(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, keyPrefix+token)
	s.mu.Unlock()
	return nil
}

// Corrupt overwrites the entry for token with a payload that does not parse.
// Test helper for exercising hydration failure handling.
func (s *MemoryStore) Corrupt(token string) {
	s.mu.Lock()
	s.entries[keyPrefix+token] = []byte("{not json")
	s.mu.Unlock()
}

// Len reports the number of stored sessions. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
