// Package events provides the event store implementations: an in-memory
// store for unit tests and single-process runs, and a PostgreSQL store for
// durable history.
package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"rollcall/internal/account"
	"rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

// InMemoryStore keeps per-account event histories in process memory.
type InMemoryStore struct {
	mu        sync.RWMutex
	histories map[domain.AccountID][]account.Event
}

// NewInMemory creates an empty in-memory event store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		histories: make(map[domain.AccountID][]account.Event),
	}
}

// NextID produces a fresh account identifier.
func (s *InMemoryStore) NextID(ctx context.Context) (domain.AccountID, error) {
	return domain.AccountID(uuid.New()), nil
}

// Events returns a copy of the account's ordered history.
func (s *InMemoryStore) Events(ctx context.Context, id domain.AccountID) ([]account.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.histories[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, sentinel.ErrNotFound)
	}

	out := make([]account.Event, len(history))
	copy(out, history)
	return out, nil
}

// Append adds events to the tail of the account's history in input order.
func (s *InMemoryStore) Append(ctx context.Context, id domain.AccountID, events []account.Event) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.histories[id] = append(s.histories[id], events...)
	return nil
}
