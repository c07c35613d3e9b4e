package account

import "rollcall/pkg/domain"

// DetailView is the denormalized read-model snapshot of one account,
// optimized for point lookups by AccountID. It is derived, never
// authoritative: the event history can always rebuild it.
type DetailView struct {
	ID        domain.AccountID
	Nickname  domain.Nickname
	Email     domain.Email
	FirstName domain.FirstName
	LastName  domain.LastName
	BirthDate domain.BirthDate
}
