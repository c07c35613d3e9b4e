package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"rollcall/internal/account"
	"rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

// PostgresStore persists account event histories in PostgreSQL.
//
// Each event occupies one row keyed by (account_uid, seq). The primary key
// serializes concurrent appends to the same account: two commits racing for
// the same sequence slots turn into a unique violation, surfaced as
// sentinel.ErrConflict. That is the store-level append serialization the
// unit of work relies on.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed event store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the event log table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS account_events (
			account_uid UUID        NOT NULL,
			seq         BIGINT      NOT NULL,
			kind        TEXT        NOT NULL,
			payload     JSONB       NOT NULL,
			occurred_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (account_uid, seq)
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure account_events schema: %w", err)
	}
	return nil
}

// NextID produces a fresh account identifier.
func (s *PostgresStore) NextID(ctx context.Context) (domain.AccountID, error) {
	return domain.AccountID(uuid.New()), nil
}

// Events returns the full ordered history for the account.
func (s *PostgresStore) Events(ctx context.Context, id domain.AccountID) ([]account.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, payload, occurred_at
		FROM account_events
		WHERE account_uid = $1
		ORDER BY seq
	`, uuid.UUID(id))
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	defer rows.Close()

	var history []account.Event
	for rows.Next() {
		var (
			kind       string
			payload    []byte
			occurredAt sql.NullTime
		)
		if err := rows.Scan(&kind, &payload, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		ev, err := decodeEvent(kind, payload, occurredAt.Time)
		if err != nil {
			return nil, err
		}
		history = append(history, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}

	if len(history) == 0 {
		return nil, fmt.Errorf("account %s: %w", id, sentinel.ErrNotFound)
	}
	return history, nil
}

// Append adds events to the tail of the account's history in input order.
// The insert and the tail lookup run in one transaction so the sequence stays
// dense per account.
func (s *PostgresStore) Append(ctx context.Context, id domain.AccountID, events []account.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var tail int64
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0)
		FROM account_events
		WHERE account_uid = $1
	`, uuid.UUID(id)).Scan(&tail)
	if err != nil {
		return fmt.Errorf("read history tail: %w", err)
	}

	for i, ev := range events {
		payload, err := encodeEvent(ev)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO account_events (account_uid, seq, kind, payload, occurred_at)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.UUID(id), tail+int64(i)+1, ev.Kind(), payload, ev.OccurredAt())
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("append events for %s: %w", id, sentinel.ErrConflict)
			}
			return fmt.Errorf("append event %s: %w", ev.Kind(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("append events for %s: %w", id, sentinel.ErrConflict)
		}
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
