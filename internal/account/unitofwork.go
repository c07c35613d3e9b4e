package account

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"rollcall/pkg/domain"
)

// CommitStage names the step of a per-account commit that failed.
type CommitStage string

const (
	// StageAppend failed before anything became durable for the account:
	// neither the view nor any notification reflects the drained events.
	StageAppend CommitStage = "append"
	// StageView failed after a durable append: history is intact and the
	// view can be rebuilt by replay, but the caller must see the failure.
	StageView CommitStage = "view"
	// StageNotify failed after durable append and view update: storage must
	// not be rolled back; redelivery belongs to the notification layer.
	StageNotify CommitStage = "notify"
)

// CommitError reports which stage of which account's commit failed.
type CommitError struct {
	AccountID domain.AccountID
	Stage     CommitStage
	Err       error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit account %s: %s: %v", e.AccountID, e.Stage, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// UnitOfWork batches the side effects of one or more aggregate mutations so
// they are applied together: persist new events, refresh the read model,
// notify listeners. One instance is scoped to one request and must not be
// shared across goroutines between Register and Commit.
type UnitOfWork struct {
	events EventStore
	views  ViewStore
	sink   Sink

	// registered is keyed by identity so double registration is idempotent.
	registered map[domain.AccountID]*Account
}

// NewUnitOfWork builds a unit of work over the three store contracts.
func NewUnitOfWork(events EventStore, views ViewStore, sink Sink) *UnitOfWork {
	return &UnitOfWork{
		events:     events,
		views:      views,
		sink:       sink,
		registered: make(map[domain.AccountID]*Account),
	}
}

// Register adds an aggregate to the set pending commit. Registering the same
// account identity twice is a no-op.
func (u *UnitOfWork) Register(a *Account) {
	if _, ok := u.registered[a.ID()]; ok {
		return
	}
	u.registered[a.ID()] = a
}

// Commit processes every registered aggregate: drain its events; skip it
// entirely when nothing was drained; otherwise append the events, refresh
// the detail view when updateViews is set, and dispatch each event in drain
// order. Aggregates are independent and processed concurrently; the three
// steps for one aggregate always run in order, because the read model and
// notifications must never reflect events that are not durably appended.
//
// The registration set is cleared before returning, so the instance is
// reusable for a subsequent commit.
func (u *UnitOfWork) Commit(ctx context.Context, updateViews bool) error {
	var g errgroup.Group
	for _, a := range u.registered {
		g.Go(func() error {
			return u.commitOne(ctx, a, updateViews)
		})
	}
	err := g.Wait()

	clear(u.registered)

	return err
}

func (u *UnitOfWork) commitOne(ctx context.Context, a *Account, updateViews bool) error {
	events := a.DrainEvents()
	if len(events) == 0 {
		return nil
	}

	if err := u.events.Append(ctx, a.ID(), events); err != nil {
		return &CommitError{AccountID: a.ID(), Stage: StageAppend, Err: err}
	}

	if updateViews {
		if err := u.views.SaveView(ctx, a.View()); err != nil {
			return &CommitError{AccountID: a.ID(), Stage: StageView, Err: err}
		}
	}

	for _, ev := range events {
		if err := u.sink.Dispatch(ctx, a.ID(), ev); err != nil {
			return &CommitError{AccountID: a.ID(), Stage: StageNotify, Err: err}
		}
	}

	return nil
}
