package domain

import (
	"fmt"
	"strings"

	dErrors "rollcall/pkg/domain-errors"
)

const nameMaxLength = 64

// FirstName is a given name. Invariant: non-empty, at most 64 symbols.
type FirstName string

// ParseFirstName validates and returns a FirstName.
func ParseFirstName(s string) (FirstName, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "first name must not be empty")
	}
	if len(s) > nameMaxLength {
		return "", dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("first name must not contain more than %d symbol(s)", nameMaxLength))
	}

	return FirstName(s), nil
}

func (n FirstName) String() string { return string(n) }

// LastName is a family name. Invariant: non-empty, at most 64 symbols.
type LastName string

// ParseLastName validates and returns a LastName.
func ParseLastName(s string) (LastName, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "last name must not be empty")
	}
	if len(s) > nameMaxLength {
		return "", dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("last name must not contain more than %d symbol(s)", nameMaxLength))
	}

	return LastName(s), nil
}

func (n LastName) String() string { return string(n) }
