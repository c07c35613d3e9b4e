package views_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"rollcall/internal/account"
	viewstore "rollcall/internal/account/store/views"
	"rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

var testNow = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

type InMemoryViewStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *viewstore.InMemoryStore
}

func TestInMemoryViewStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryViewStoreSuite))
}

func (s *InMemoryViewStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = viewstore.NewInMemory()
}

func (s *InMemoryViewStoreSuite) view(id domain.AccountID, nickname, email string) account.DetailView {
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
	return account.DetailView{
		ID:        id,
		Nickname:  n,
		Email:     e,
		FirstName: first,
		LastName:  last,
		BirthDate: birth,
	}
}

func (s *InMemoryViewStoreSuite) TestDetailViewUnknownAccount() {
	_, err := s.store.DetailView(s.ctx, domain.AccountID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryViewStoreSuite) TestSaveThenLoad() {
	view := s.view(domain.AccountID(uuid.New()), "Alice", "alice@test.com")

	s.Require().NoError(s.store.SaveView(s.ctx, view))

	got, err := s.store.DetailView(s.ctx, view.ID)
	s.Require().NoError(err)
	s.Equal(view, got)
}

func (s *InMemoryViewStoreSuite) TestExistenceChecks() {
	view := s.view(domain.AccountID(uuid.New()), "Alice", "alice@test.com")
	s.Require().NoError(s.store.SaveView(s.ctx, view))

	taken, err := s.store.NicknameExists(s.ctx, view.Nickname)
	s.Require().NoError(err)
	s.True(taken)

	taken, err = s.store.EmailExists(s.ctx, view.Email)
	s.Require().NoError(err)
	s.True(taken)

	free, err := domain.ParseNickname("Bobby")
	s.Require().NoError(err)
	taken, err = s.store.NicknameExists(s.ctx, free)
	s.Require().NoError(err)
	s.False(taken)
}

func (s *InMemoryViewStoreSuite) TestExistenceChecksFoldCase() {
	view := s.view(domain.AccountID(uuid.New()), "Alice", "Alice@Test.com")
	s.Require().NoError(s.store.SaveView(s.ctx, view))

	upper, err := domain.ParseNickname("ALICE")
	s.Require().NoError(err)
	taken, err := s.store.NicknameExists(s.ctx, upper)
	s.Require().NoError(err)
	s.True(taken)

	folded, err := domain.ParseEmail("alice@test.com")
	s.Require().NoError(err)
	taken, err = s.store.EmailExists(s.ctx, folded)
	s.Require().NoError(err)
	s.True(taken)
}

func (s *InMemoryViewStoreSuite) TestSaveViewRejectsForeignNickname() {
	s.Require().NoError(s.store.SaveView(s.ctx, s.view(domain.AccountID(uuid.New()), "Alice", "alice@test.com")))

	err := s.store.SaveView(s.ctx, s.view(domain.AccountID(uuid.New()), "alice", "other@test.com"))
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *InMemoryViewStoreSuite) TestSaveViewRejectsForeignEmail() {
	s.Require().NoError(s.store.SaveView(s.ctx, s.view(domain.AccountID(uuid.New()), "Alice", "alice@test.com")))

	err := s.store.SaveView(s.ctx, s.view(domain.AccountID(uuid.New()), "Bobby", "ALICE@test.com"))
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *InMemoryViewStoreSuite) TestSaveViewUpsertsOwnAccount() {
	id := domain.AccountID(uuid.New())
	s.Require().NoError(s.store.SaveView(s.ctx, s.view(id, "Alice", "alice@test.com")))

	// The same account may rewrite its view keeping its own values.
	updated := s.view(id, "Alice", "alice@test.com")
	s.Require().NoError(s.store.SaveView(s.ctx, updated))

	got, err := s.store.DetailView(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(updated, got)
}

func (s *InMemoryViewStoreSuite) TestSaveViewReleasesReplacedValues() {
	id := domain.AccountID(uuid.New())
	s.Require().NoError(s.store.SaveView(s.ctx, s.view(id, "Alice", "alice@test.com")))
	s.Require().NoError(s.store.SaveView(s.ctx, s.view(id, "Alice_2", "alice.new@test.com")))

	// The old values are free for another account now.
	err := s.store.SaveView(s.ctx, s.view(domain.AccountID(uuid.New()), "Alice", "alice@test.com"))
	s.NoError(err)
}
