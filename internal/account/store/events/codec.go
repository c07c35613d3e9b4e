package events

import (
	"encoding/json"
	"fmt"
	"time"

	"rollcall/internal/account"
	"rollcall/pkg/domain"
)

// registeredPayload is the wire form of an account.Registered event.
// Attribute values were validated on the way in, so hydration converts them
// back directly instead of re-running the parsers.
type registeredPayload struct {
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date"`
}

func encodeEvent(ev account.Event) ([]byte, error) {
	switch ev := ev.(type) {
	case account.Registered:
		return json.Marshal(registeredPayload{
			Nickname:  ev.Nickname.String(),
			Email:     ev.Email.String(),
			FirstName: ev.FirstName.String(),
			LastName:  ev.LastName.String(),
			BirthDate: ev.BirthDate.String(),
		})
	default:
		return nil, fmt.Errorf("encode event: unknown kind %s", ev.Kind())
	}
}

func decodeEvent(kind string, payload []byte, occurredAt time.Time) (account.Event, error) {
	switch kind {
	case account.KindRegistered:
		var p registeredPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", kind, err)
		}
		birth, err := time.ParseInLocation(time.DateOnly, p.BirthDate, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("decode %s birth date: %w", kind, err)
		}
		return account.Registered{
			Nickname:  domain.Nickname(p.Nickname),
			Email:     domain.Email(p.Email),
			FirstName: domain.FirstName(p.FirstName),
			LastName:  domain.LastName(p.LastName),
			BirthDate: domain.HydrateBirthDate(birth),
			At:        occurredAt,
		}, nil
	default:
		return nil, fmt.Errorf("decode event: unknown kind %s", kind)
	}
}
