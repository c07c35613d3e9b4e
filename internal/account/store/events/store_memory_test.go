package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"rollcall/internal/account"
	eventstore "rollcall/internal/account/store/events"
	"rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

var testNow = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

type InMemoryEventStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *eventstore.InMemoryStore
}

func TestInMemoryEventStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryEventStoreSuite))
}

func (s *InMemoryEventStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = eventstore.NewInMemory()
}

func (s *InMemoryEventStoreSuite) registered(nickname, email string) account.Registered {
	n, err := domain.ParseNickname(nickname)
	s.Require().NoError(err)
	e, err := domain.ParseEmail(email)
	s.Require().NoError(err)
	first, err := domain.ParseFirstName("Alice")
	s.Require().NoError(err)
	last, err := domain.ParseLastName("Alright")
	s.Require().NoError(err)
	birth, err := domain.ParseBirthDate("1990-01-01", testNow)
	s.Require().NoError(err)
	return account.Registered{
		Nickname:  n,
		Email:     e,
		FirstName: first,
		LastName:  last,
		BirthDate: birth,
		At:        testNow,
	}
}

func (s *InMemoryEventStoreSuite) TestNextIDIsFresh() {
	a, err := s.store.NextID(s.ctx)
	s.Require().NoError(err)
	b, err := s.store.NextID(s.ctx)
	s.Require().NoError(err)

	s.False(a.IsNil())
	s.False(b.IsNil())
	s.NotEqual(a, b)
}

func (s *InMemoryEventStoreSuite) TestEventsUnknownAccount() {
	_, err := s.store.Events(s.ctx, domain.AccountID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryEventStoreSuite) TestAppendThenEvents() {
	id := domain.AccountID(uuid.New())
	ev := s.registered("Alice", "alice@test.com")

	s.Require().NoError(s.store.Append(s.ctx, id, []account.Event{ev}))

	history, err := s.store.Events(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(ev, history[0])
}

func (s *InMemoryEventStoreSuite) TestAppendPreservesOrder() {
	id := domain.AccountID(uuid.New())
	first := s.registered("Alice", "alice@test.com")
	second := s.registered("Bobby", "bobby@test.com")

	s.Require().NoError(s.store.Append(s.ctx, id, []account.Event{first}))
	s.Require().NoError(s.store.Append(s.ctx, id, []account.Event{second}))

	history, err := s.store.Events(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal(first, history[0])
	s.Equal(second, history[1])
}

func (s *InMemoryEventStoreSuite) TestAppendNothingCreatesNoHistory() {
	id := domain.AccountID(uuid.New())

	s.Require().NoError(s.store.Append(s.ctx, id, nil))

	_, err := s.store.Events(s.ctx, id)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryEventStoreSuite) TestEventsReturnsACopy() {
	id := domain.AccountID(uuid.New())
	ev := s.registered("Alice", "alice@test.com")
	s.Require().NoError(s.store.Append(s.ctx, id, []account.Event{ev}))

	history, err := s.store.Events(s.ctx, id)
	s.Require().NoError(err)
	history[0] = s.registered("Mallory", "mallory@test.com")

	again, err := s.store.Events(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(ev, again[0])
}

func (s *InMemoryEventStoreSuite) TestHistoriesAreIsolated() {
	a := domain.AccountID(uuid.New())
	b := domain.AccountID(uuid.New())

	s.Require().NoError(s.store.Append(s.ctx, a, []account.Event{s.registered("Alice", "alice@test.com")}))

	_, err := s.store.Events(s.ctx, b)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
