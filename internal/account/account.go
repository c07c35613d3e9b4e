// Package account holds the write side of the registration domain: the
// event-sourced Account aggregate, its event variants, the contracts it needs
// from the surrounding stores, and the unit of work that commits it.
package account

import (
	"errors"
	"fmt"
	"time"

	"rollcall/pkg/domain"
)

// ErrCorruptHistory marks a stored event list that cannot be replayed:
// missing or misplaced registration event, or an event variant the aggregate
// does not recognize. This is a data-integrity fault, not a user error; it
// must abort the operation and be logged for investigation, never retried.
var ErrCorruptHistory = errors.New("corrupt account history")

// Account is the registration aggregate. Its state is derived exclusively
// from its event history; mutations buffer events until DrainEvents.
//
// An Account is a transient, call-scoped object owned by a single goroutine:
// constructed, registered with a unit of work, committed and discarded per
// request. It is not safe for concurrent mutation.
type Account struct {
	id        domain.AccountID
	nickname  domain.Nickname
	email     domain.Email
	firstName domain.FirstName
	lastName  domain.LastName
	birthDate domain.BirthDate

	pending []Event
}

// FromScratch constructs a brand-new account and buffers exactly one
// Registered event carrying the supplied attributes. Inputs are validated
// value objects, so construction cannot fail.
func FromScratch(
	id domain.AccountID,
	nickname domain.Nickname,
	email domain.Email,
	firstName domain.FirstName,
	lastName domain.LastName,
	birthDate domain.BirthDate,
	now time.Time,
) *Account {
	a := &Account{
		id:        id,
		nickname:  nickname,
		email:     email,
		firstName: firstName,
		lastName:  lastName,
		birthDate: birthDate,
	}
	a.record(Registered{
		Nickname:  nickname,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		BirthDate: birthDate,
		At:        now,
	})
	return a
}

// FromHistory reconstructs an account by replaying its full ordered event
// list. The first event must be Registered; every later event must be a
// variant the aggregate can apply. Replay never re-emits events: the buffer
// is empty afterwards.
func FromHistory(id domain.AccountID, events []Event) (*Account, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: history is empty", ErrCorruptHistory)
	}
	reg, ok := events[0].(Registered)
	if !ok {
		return nil, fmt.Errorf("%w: first event must be %s, got %s",
			ErrCorruptHistory, KindRegistered, events[0].Kind())
	}

	a := &Account{
		id:        id,
		nickname:  reg.Nickname,
		email:     reg.Email,
		firstName: reg.FirstName,
		lastName:  reg.LastName,
		birthDate: reg.BirthDate,
	}

	for _, ev := range events[1:] {
		switch ev := ev.(type) {
		default:
			return nil, fmt.Errorf("%w: cannot apply event %s", ErrCorruptHistory, ev.Kind())
		}
	}

	return a, nil
}

// DrainEvents returns the buffered events and clears the buffer. A second
// call in a row returns nil. Draining is the only way buffered events leave
// the aggregate; it happens exactly once per commit cycle.
func (a *Account) DrainEvents() []Event {
	events := a.pending
	a.pending = nil
	return events
}

func (a *Account) record(ev Event) {
	a.pending = append(a.pending, ev)
}

// ID returns the account identifier.
func (a *Account) ID() domain.AccountID { return a.id }

// Nickname returns the account's handle.
func (a *Account) Nickname() domain.Nickname { return a.nickname }

// Email returns the account's contact address.
func (a *Account) Email() domain.Email { return a.email }

// FirstName returns the holder's given name.
func (a *Account) FirstName() domain.FirstName { return a.firstName }

// LastName returns the holder's family name.
func (a *Account) LastName() domain.LastName { return a.lastName }

// BirthDate returns the holder's date of birth.
func (a *Account) BirthDate() domain.BirthDate { return a.birthDate }

// View flattens the aggregate's current attributes into its read-model view.
func (a *Account) View() DetailView {
	return DetailView{
		ID:        a.id,
		Nickname:  a.nickname,
		Email:     a.email,
		FirstName: a.firstName,
		LastName:  a.lastName,
		BirthDate: a.birthDate,
	}
}
