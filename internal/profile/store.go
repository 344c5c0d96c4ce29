// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"context"
	"sync"

	"github.com/mohanganesh3/fitplanner/pkg/types"
)

// Store persists one profile per user. Put replaces the stored record
// wholesale; there is no partial update. A Get for an unknown user
// returns an empty profile, not an error.
type Store interface {
	Get(ctx context.Context, userID string) (types.Profile, error)
	Put(ctx context.Context, userID string, p types.Profile) error
}

// MemStore is an in-process Store. Replacement is atomic per key.
type MemStore struct {
	mu       sync.RWMutex
	profiles map[string]types.Profile
}

// NewMemStore builds an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{profiles: make(map[string]types.Profile)}
}

// Get returns the stored profile, or an empty one for unknown users.
func (s *MemStore) Get(_ context.Context, userID string) (types.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles[userID], nil
}

// Put replaces the user's profile.
func (s *MemStore) Put(_ context.Context, userID string, p types.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = p
	return nil
}
