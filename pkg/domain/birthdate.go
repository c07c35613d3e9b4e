package domain

import (
	"fmt"
	"time"

	dErrors "rollcall/pkg/domain-errors"
)

// MinAge is the minimum age an account holder must have at registration time.
const MinAge = 18

// BirthDate is a date of birth, held at day precision in UTC.
// Invariant: the holder is at least MinAge years old at the evaluation time.
type BirthDate struct {
	date time.Time
}

// ParseBirthDate validates a YYYY-MM-DD date against the minimum-age rule.
// The caller supplies now (typically requestcontext.Now) so the boundary is
// deterministic under test: a date exactly MinAge years before now passes,
// one day later fails.
func ParseBirthDate(s string, now time.Time) (BirthDate, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		return BirthDate{}, dErrors.Wrap(dErrors.CodeInvalidInput, "birth date must be a YYYY-MM-DD date", err)
	}
	return NewBirthDate(t, now)
}

// NewBirthDate validates an already-parsed date against the minimum-age rule.
func NewBirthDate(date time.Time, now time.Time) (BirthDate, error) {
	date = truncateToDay(date)
	if ageAt(date, truncateToDay(now)) < MinAge {
		return BirthDate{}, dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("you must be at least %d year(s) old", MinAge))
	}
	return BirthDate{date: date}, nil
}

// HydrateBirthDate rebuilds a BirthDate from a stored value without
// re-running the minimum-age rule. Reserved for store hydration of dates
// that were validated on the way in; the rule is relative to the moment of
// registration, not the moment of replay.
func HydrateBirthDate(date time.Time) BirthDate {
	return BirthDate{date: truncateToDay(date)}
}

// Age returns the holder's age in full years as of now.
func (b BirthDate) Age(now time.Time) int {
	return ageAt(b.date, truncateToDay(now))
}

// Time returns the date at UTC midnight.
func (b BirthDate) Time() time.Time { return b.date }

// String formats the date as YYYY-MM-DD.
func (b BirthDate) String() string { return b.date.Format(time.DateOnly) }

func ageAt(date, today time.Time) int {
	age := today.Year() - date.Year()
	if date.AddDate(age, 0, 0).After(today) {
		age--
	}
	return age
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
