// Package service drives the account write and read paths: the register
// command (uniqueness pre-check, aggregate construction, unit-of-work
// commit) and the detail view query.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rollcall/internal/account"
	"rollcall/internal/account/metrics"
	"rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/requestcontext"
)

// RegisterInput carries the raw attribute values of a register command.
// Validation happens here, at value-object construction.
type RegisterInput struct {
	Nickname  string
	Email     string
	FirstName string
	LastName  string
	BirthDate string
}

// Service coordinates the stores and the notification sink behind the
// account operations. One Service serves many requests; each register
// command gets its own unit of work.
type Service struct {
	events  account.EventStore
	views   account.ViewStore
	sink    account.Sink
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs the account service.
func New(events account.EventStore, views account.ViewStore, sink account.Sink, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		events:  events,
		views:   views,
		sink:    sink,
		logger:  logger,
		metrics: m,
	}
}

// Register validates the input, checks nickname and email uniqueness against
// the read model, constructs the aggregate and commits it. The pre-check
// accepts a narrow race window; the view store's own uniqueness constraint
// closes it at SaveView time.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.AccountID, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveRegisterLatency(time.Since(start)) }()

	now := requestcontext.Now(ctx)

	nickname, err := domain.ParseNickname(in.Nickname)
	if err != nil {
		return domain.AccountID{}, err
	}
	email, err := domain.ParseEmail(in.Email)
	if err != nil {
		return domain.AccountID{}, err
	}
	firstName, err := domain.ParseFirstName(in.FirstName)
	if err != nil {
		return domain.AccountID{}, err
	}
	lastName, err := domain.ParseLastName(in.LastName)
	if err != nil {
		return domain.AccountID{}, err
	}
	birthDate, err := domain.ParseBirthDate(in.BirthDate, now)
	if err != nil {
		return domain.AccountID{}, err
	}

	taken, err := s.views.NicknameExists(ctx, nickname)
	if err != nil {
		return domain.AccountID{}, dErrors.Wrap(dErrors.CodeInternal, "check nickname uniqueness", err)
	}
	if taken {
		return domain.AccountID{}, dErrors.New(dErrors.CodeConflict, "an account with such nickname already exists")
	}

	taken, err = s.views.EmailExists(ctx, email)
	if err != nil {
		return domain.AccountID{}, dErrors.Wrap(dErrors.CodeInternal, "check email uniqueness", err)
	}
	if taken {
		return domain.AccountID{}, dErrors.New(dErrors.CodeConflict, "an account with such email already exists")
	}

	id, err := s.events.NextID(ctx)
	if err != nil {
		return domain.AccountID{}, dErrors.Wrap(dErrors.CodeInternal, "allocate account id", err)
	}

	a := account.FromScratch(id, nickname, email, firstName, lastName, birthDate, now)

	uow := account.NewUnitOfWork(s.events, s.views, s.sink)
	uow.Register(a)
	if err := uow.Commit(ctx, true); err != nil {
		return domain.AccountID{}, s.commitError(ctx, err)
	}

	s.metrics.IncrementRegistered()
	s.logger.InfoContext(ctx, "account registered",
		"account_uid", id.String(),
		"nickname", nickname.String(),
	)
	return id, nil
}

// GetDetail returns the read-model view for the account, verbatim.
// It never touches the event log.
func (s *Service) GetDetail(ctx context.Context, id domain.AccountID) (account.DetailView, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveQueryLatency(time.Since(start)) }()

	view, err := s.views.DetailView(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return account.DetailView{}, dErrors.New(dErrors.CodeNotFound, "the account is not found")
		}
		return account.DetailView{}, dErrors.Wrap(dErrors.CodeInternal, "load detail view", err)
	}
	return view, nil
}

// commitError classifies a unit-of-work failure and records it. A conflict
// from a store uniqueness constraint is the caller's conflict; everything
// else is internal.
func (s *Service) commitError(ctx context.Context, err error) error {
	var ce *account.CommitError
	if errors.As(err, &ce) {
		s.metrics.IncrementCommitFailure(string(ce.Stage))
		s.logger.ErrorContext(ctx, "commit failed",
			"account_uid", ce.AccountID.String(),
			"stage", string(ce.Stage),
			"error", ce.Err.Error(),
		)
		if errors.Is(ce.Err, sentinel.ErrConflict) {
			return dErrors.Wrap(dErrors.CodeConflict, fmt.Sprintf("account attributes already in use (%s)", ce.Stage), err)
		}
		return dErrors.Wrap(dErrors.CodeInternal, fmt.Sprintf("commit failed at %s", ce.Stage), err)
	}
	return dErrors.Wrap(dErrors.CodeInternal, "commit failed", err)
}
