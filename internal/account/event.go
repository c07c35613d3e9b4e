package account

import (
	"time"

	"rollcall/pkg/domain"
)

// Event kinds, used as store discriminators and notification routing keys.
const (
	KindRegistered = "account-registered"
)

// Event is an immutable fact about an account, tagged with the moment it
// occurred. The interface is closed: only types in this package implement it,
// which keeps replay an exhaustive type switch.
type Event interface {
	// Kind returns the stable discriminator for the event variant.
	Kind() string
	// OccurredAt returns the moment the fact happened.
	OccurredAt() time.Time

	isEvent()
}

// Registered records that an account came into existence, carrying the
// initial attribute snapshot. It is always the first event of any history.
type Registered struct {
	Nickname  domain.Nickname
	Email     domain.Email
	FirstName domain.FirstName
	LastName  domain.LastName
	BirthDate domain.BirthDate
	At        time.Time
}

func (Registered) Kind() string            { return KindRegistered }
func (e Registered) OccurredAt() time.Time { return e.At }
func (Registered) isEvent()                {}
