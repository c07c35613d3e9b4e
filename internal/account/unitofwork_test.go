package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rollcall/internal/account"
	"rollcall/internal/account/mocks"
	eventstore "rollcall/internal/account/store/events"
	viewstore "rollcall/internal/account/store/views"
	"rollcall/internal/notify"
	"rollcall/pkg/domain"
)

func TestUnitOfWork_Commit(t *testing.T) {
	ctx := context.Background()

	t.Run("persists events, refreshes view, notifies in order", func(t *testing.T) {
		events := eventstore.NewInMemory()
		views := viewstore.NewInMemory()
		sink := notify.NewRecorder()

		a := newTestAccount(t)
		uow := account.NewUnitOfWork(events, views, sink)
		uow.Register(a)

		require.NoError(t, uow.Commit(ctx, true))

		history, err := events.Events(ctx, a.ID())
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, account.KindRegistered, history[0].Kind())

		view, err := views.DetailView(ctx, a.ID())
		require.NoError(t, err)
		assert.Equal(t, a.View(), view)

		dispatched := sink.Dispatched(a.ID())
		require.Len(t, dispatched, 1)
		assert.Equal(t, history[0], dispatched[0])

		assert.Empty(t, a.DrainEvents(), "commit must drain the buffer")
	})

	t.Run("skips aggregates with no buffered events", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		events := mocks.NewMockEventStore(ctrl)
		views := mocks.NewMockViewStore(ctrl)
		sink := mocks.NewMockSink(ctrl)

		a := newTestAccount(t)
		a.DrainEvents() // nothing left to commit

		uow := account.NewUnitOfWork(events, views, sink)
		uow.Register(a)

		// No expectations set: any store or sink call fails the test.
		require.NoError(t, uow.Commit(ctx, true))
	})

	t.Run("updateViews=false appends without touching the view store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		views := mocks.NewMockViewStore(ctrl)

		events := eventstore.NewInMemory()
		sink := notify.NewRecorder()

		a := newTestAccount(t)
		uow := account.NewUnitOfWork(events, views, sink)
		uow.Register(a)

		require.NoError(t, uow.Commit(ctx, false))

		history, err := events.Events(ctx, a.ID())
		require.NoError(t, err)
		assert.Len(t, history, 1)
		assert.Len(t, sink.Dispatched(a.ID()), 1)
	})

	t.Run("registering the same identity twice commits once", func(t *testing.T) {
		events := eventstore.NewInMemory()
		views := viewstore.NewInMemory()
		sink := notify.NewRecorder()

		a := newTestAccount(t)
		uow := account.NewUnitOfWork(events, views, sink)
		uow.Register(a)
		uow.Register(a)

		require.NoError(t, uow.Commit(ctx, true))

		history, err := events.Events(ctx, a.ID())
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("clears the registration set for reuse", func(t *testing.T) {
		events := eventstore.NewInMemory()
		views := viewstore.NewInMemory()
		sink := notify.NewRecorder()

		a := newTestAccount(t)
		uow := account.NewUnitOfWork(events, views, sink)
		uow.Register(a)
		require.NoError(t, uow.Commit(ctx, true))

		// Second commit finds no registered aggregates and no new events.
		require.NoError(t, uow.Commit(ctx, true))
		assert.Len(t, sink.Dispatched(a.ID()), 1)
	})

	t.Run("commits independent aggregates", func(t *testing.T) {
		events := eventstore.NewInMemory()
		views := viewstore.NewInMemory()
		sink := notify.NewRecorder()

		a := newTestAccount(t)
		b := account.FromScratch(
			domain.AccountID(uuid.New()), mustNickname(t, "Bobby"), mustEmail(t, "bobby@test.com"),
			mustFirstName(t, "Bobby"), mustLastName(t, "Tables"),
			mustBirthDate(t, "1985-06-15"), testNow,
		)

		uow := account.NewUnitOfWork(events, views, sink)
		uow.Register(a)
		uow.Register(b)
		require.NoError(t, uow.Commit(ctx, true))

		for _, acc := range []*account.Account{a, b} {
			history, err := events.Events(ctx, acc.ID())
			require.NoError(t, err)
			assert.Len(t, history, 1)
			_, err = views.DetailView(ctx, acc.ID())
			require.NoError(t, err)
		}
	})
}

func TestUnitOfWork_FailureStages(t *testing.T) {
	ctx := context.Background()

	t.Run("append failure aborts before view and notify", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		events := mocks.NewMockEventStore(ctrl)
		views := mocks.NewMockViewStore(ctrl)
		sink := mocks.NewMockSink(ctrl)

		a := newTestAccount(t)
		boom := errors.New("disk full")
		events.EXPECT().Append(gomock.Any(), a.ID(), gomock.Any()).Return(boom)
		// views and sink must never be called.

		uow := account.NewUnitOfWork(events, views, sink)
		uow.Register(a)

		err := uow.Commit(ctx, true)
		require.Error(t, err)

		var ce *account.CommitError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, account.StageAppend, ce.Stage)
		assert.Equal(t, a.ID(), ce.AccountID)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("view failure surfaces after a durable append", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		views := mocks.NewMockViewStore(ctrl)
		sink := mocks.NewMockSink(ctrl)

		events := eventstore.NewInMemory()
		a := newTestAccount(t)
		views.EXPECT().SaveView(gomock.Any(), a.View()).Return(errors.New("view store down"))
		// sink must never be called.

		uow := account.NewUnitOfWork(events, views, sink)
		uow.Register(a)

		err := uow.Commit(ctx, true)
		require.Error(t, err)

		var ce *account.CommitError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, account.StageView, ce.Stage)

		// History is already durable; replay can rebuild the view later.
		history, err := events.Events(ctx, a.ID())
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("notify failure never rolls back storage", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sink := mocks.NewMockSink(ctrl)

		events := eventstore.NewInMemory()
		views := viewstore.NewInMemory()
		a := newTestAccount(t)
		sink.EXPECT().Dispatch(gomock.Any(), a.ID(), gomock.Any()).Return(errors.New("broker unreachable"))

		uow := account.NewUnitOfWork(events, views, sink)
		uow.Register(a)

		err := uow.Commit(ctx, true)
		require.Error(t, err)

		var ce *account.CommitError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, account.StageNotify, ce.Stage)

		history, err := events.Events(ctx, a.ID())
		require.NoError(t, err)
		assert.Len(t, history, 1)
		_, err = views.DetailView(ctx, a.ID())
		require.NoError(t, err)
	})
}
