package domain

import (
	"net/mail"
	"strings"

	dErrors "rollcall/pkg/domain-errors"
)

// Email is the account's contact address.
// Invariant: non-empty, RFC 5322 address format, no display name.
type Email string

// ParseEmail validates and returns an Email.
func ParseEmail(s string) (Email, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "email must not be empty")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", dErrors.New(dErrors.CodeInvalidInput, "email must be a valid address")
	}

	return Email(s), nil
}

func (e Email) String() string { return string(e) }
