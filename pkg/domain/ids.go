// Package domain holds the self-validating value types of the account domain.
//
// Each type wraps a primitive and enforces its validation rule at construction
// time: construct via the Parse* functions at trust boundaries; a successfully
// constructed value is valid for its lifetime. Direct conversion bypasses
// validation and is reserved for test fixtures and store hydration of values
// that were validated on the way in.
package domain

import (
	"github.com/google/uuid"

	dErrors "rollcall/pkg/domain-errors"
)

// AccountID uniquely names one account. It is assigned once, at registration,
// by the event store's identifier generator.
type AccountID uuid.UUID

// ParseAccountID validates and returns an AccountID.
// Rejects empty input, malformed UUIDs and the nil UUID.
func ParseAccountID(s string) (AccountID, error) {
	if s == "" {
		return AccountID{}, dErrors.New(dErrors.CodeInvalidInput, "account id must not be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return AccountID{}, dErrors.Wrap(dErrors.CodeInvalidInput, "account id must be a valid UUID", err)
	}
	if u == uuid.Nil {
		return AccountID{}, dErrors.New(dErrors.CodeInvalidInput, "account id must not be the nil UUID")
	}
	return AccountID(u), nil
}

// String returns the canonical UUID representation.
func (id AccountID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the ID is the zero value.
func (id AccountID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}
