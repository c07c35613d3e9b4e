// Package views provides the read-model store implementations: an in-memory
// store for unit tests and single-process runs, and a Redis store for shared
// deployments.
//
// Both stores also enforce nickname/email uniqueness at upsert time. The
// command flow's existence pre-check is an optimization over the same data;
// this constraint is the real guarantee.
package views

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"rollcall/internal/account"
	"rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

// InMemoryStore keeps detail views and the uniqueness projection in process
// memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	details map[domain.AccountID]account.DetailView
	// uniqueness projection: lowercased nickname/email back to the owner
	byNickname map[string]domain.AccountID
	byEmail    map[string]domain.AccountID
}

// NewInMemory creates an empty in-memory view store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		details:    make(map[domain.AccountID]account.DetailView),
		byNickname: make(map[string]domain.AccountID),
		byEmail:    make(map[string]domain.AccountID),
	}
}

// DetailView returns the stored view for the account.
func (s *InMemoryStore) DetailView(ctx context.Context, id domain.AccountID) (account.DetailView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view, ok := s.details[id]
	if !ok {
		return account.DetailView{}, fmt.Errorf("account %s: %w", id, sentinel.ErrNotFound)
	}
	return view, nil
}

// NicknameExists reports whether any current view uses the nickname.
func (s *InMemoryStore) NicknameExists(ctx context.Context, nickname domain.Nickname) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byNickname[foldKey(nickname.String())]
	return ok, nil
}

// EmailExists reports whether any current view uses the email.
func (s *InMemoryStore) EmailExists(ctx context.Context, email domain.Email) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byEmail[foldKey(email.String())]
	return ok, nil
}

// SaveView upserts the view and refreshes the uniqueness projection.
// Refuses the write with sentinel.ErrConflict when the nickname or email is
// already owned by a different account.
func (s *InMemoryStore) SaveView(ctx context.Context, view account.DetailView) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	nickKey := foldKey(view.Nickname.String())
	emailKey := foldKey(view.Email.String())

	if owner, ok := s.byNickname[nickKey]; ok && owner != view.ID {
		return fmt.Errorf("nickname %s: %w", view.Nickname, sentinel.ErrConflict)
	}
	if owner, ok := s.byEmail[emailKey]; ok && owner != view.ID {
		return fmt.Errorf("email %s: %w", view.Email, sentinel.ErrConflict)
	}

	// Drop projection entries for values the account no longer uses.
	if prev, ok := s.details[view.ID]; ok {
		delete(s.byNickname, foldKey(prev.Nickname.String()))
		delete(s.byEmail, foldKey(prev.Email.String()))
	}

	s.details[view.ID] = view
	s.byNickname[nickKey] = view.ID
	s.byEmail[emailKey] = view.ID
	return nil
}

func foldKey(s string) string {
	return strings.ToLower(s)
}
