package account

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"rollcall/pkg/domain"
)

// EventStore is the append-only, per-account ordered event log. It owns the
// durable history and is the source of truth for aggregate state.
type EventStore interface {
	// NextID produces a fresh, collision-free account identifier.
	NextID(ctx context.Context) (domain.AccountID, error)
	// Events returns the full ordered history for the account.
	// Returns sentinel.ErrNotFound (wrapped) when no history exists.
	Events(ctx context.Context, id domain.AccountID) ([]Event, error)
	// Append adds events to the tail of the account's history, preserving
	// input order. Events must be durable before Append returns nil.
	Append(ctx context.Context, id domain.AccountID, events []Event) error
}

// ViewStore owns the derived read-model views: the per-account detail view
// and the uniqueness projection over nicknames and emails. Views are
// disposable and reconstructable from the event log.
type ViewStore interface {
	// DetailView returns the stored view for the account.
	// Returns sentinel.ErrNotFound (wrapped) when absent.
	DetailView(ctx context.Context, id domain.AccountID) (DetailView, error)
	// NicknameExists reports whether any current view uses the nickname.
	NicknameExists(ctx context.Context, nickname domain.Nickname) (bool, error)
	// EmailExists reports whether any current view uses the email.
	EmailExists(ctx context.Context, email domain.Email) (bool, error)
	// SaveView upserts the view. A production store also enforces
	// nickname/email uniqueness here and returns sentinel.ErrConflict when
	// a different account already owns either value.
	SaveView(ctx context.Context, view DetailView) error
}

// Sink delivers newly committed events to interested listeners. Delivery
// order per account matches drain order; listener failures are the sink's
// concern, not the committer's.
type Sink interface {
	Dispatch(ctx context.Context, id domain.AccountID, ev Event) error
}
