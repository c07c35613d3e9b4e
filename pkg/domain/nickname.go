package domain

import (
	"fmt"
	"strings"

	dErrors "rollcall/pkg/domain-errors"
)

// Nickname is the account's unique public handle.
// Invariant: 4 to 32 symbols, starting with a latin letter, containing only
// latin letters, digits and underscores.
type Nickname string

const (
	nicknameMinLength = 4
	nicknameMaxLength = 32
)

// ParseNickname validates and returns a Nickname.
func ParseNickname(s string) (Nickname, error) {
	s = strings.TrimSpace(s)

	if len(s) < nicknameMinLength {
		return "", dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("nickname must contain at least %d symbol(s)", nicknameMinLength))
	}
	if len(s) > nicknameMaxLength {
		return "", dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("nickname must not contain more than %d symbol(s)", nicknameMaxLength))
	}
	if !isLatinLetter(rune(s[0])) {
		return "", dErrors.New(dErrors.CodeInvalidInput,
			"nickname must start with a latin letter and contain only latin letters, digits and underscore symbols")
	}
	for _, r := range s {
		if !isLatinLetter(r) && !isDigit(r) && r != '_' {
			return "", dErrors.New(dErrors.CodeInvalidInput,
				"nickname must start with a latin letter and contain only latin letters, digits and underscore symbols")
		}
	}

	return Nickname(s), nil
}

func (n Nickname) String() string { return string(n) }

func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
