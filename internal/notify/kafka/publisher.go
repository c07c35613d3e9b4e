// Package kafka publishes integration events to a Kafka topic so other
// services learn about committed account facts.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"rollcall/internal/account"
	"rollcall/pkg/domain"
	"rollcall/pkg/requestcontext"
)

// TopicAccountRegistered receives one message per registered account.
const TopicAccountRegistered = "account.account-registered"

// RegisteredIntegrationEvent is the outward-facing form of an
// account.Registered event. It carries its own identity and the owning
// account's identifier, so consumers can deduplicate and correlate.
type RegisteredIntegrationEvent struct {
	UID            uuid.UUID  `json:"uid"`
	CorrelationUID *uuid.UUID `json:"correlation_uid,omitempty"`
	OccurredAt     time.Time  `json:"occurred_at"`

	AccountUID string `json:"account_uid"`
	Nickname   string `json:"nickname"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	BirthDate  string `json:"birth_date"`
}

// Publisher is a notify.Listener that forwards Registered events to Kafka.
// Messages are keyed by account uid so per-account ordering survives
// partitioning.
type Publisher struct {
	client *kgo.Client
}

// NewPublisher wraps an existing Kafka client.
func NewPublisher(client *kgo.Client) *Publisher {
	return &Publisher{client: client}
}

// EnsureTopic creates the integration topic when it does not exist yet.
// Call once during startup wiring.
func (p *Publisher) EnsureTopic(ctx context.Context) error {
	adm := kadm.NewClient(p.client)
	_, err := adm.CreateTopic(ctx, 1, -1, nil, TopicAccountRegistered)
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("ensure topic %s: %w", TopicAccountRegistered, err)
	}
	return nil
}

// Handle publishes the integration form of a Registered event.
func (p *Publisher) Handle(ctx context.Context, id domain.AccountID, ev account.Event) error {
	reg, ok := ev.(account.Registered)
	if !ok {
		// Subscribed for KindRegistered only; anything else is a wiring bug.
		return fmt.Errorf("kafka publisher cannot handle event %s", ev.Kind())
	}

	msg := RegisteredIntegrationEvent{
		UID:            uuid.New(),
		CorrelationUID: correlationUID(ctx),
		OccurredAt:     reg.At,
		AccountUID: id.String(),
		Nickname:   reg.Nickname.String(),
		Email:      reg.Email.String(),
		FirstName:  reg.FirstName.String(),
		LastName:   reg.LastName.String(),
		BirthDate:  reg.BirthDate.String(),
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode integration event: %w", err)
	}

	record := &kgo.Record{
		Topic: TopicAccountRegistered,
		Key:   []byte(id.String()),
		Value: value,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("publish to %s: %w", TopicAccountRegistered, err)
	}
	return nil
}

// correlationUID lifts the request id into the message when it is a uuid.
// Non-uuid request ids (generated by the router middleware) are not useful to
// consumers and are dropped.
func correlationUID(ctx context.Context) *uuid.UUID {
	rid := requestcontext.RequestID(ctx)
	if rid == "" {
		return nil
	}
	cu, err := uuid.Parse(rid)
	if err != nil {
		return nil
	}
	return &cu
}
