package views

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rollcall/internal/account"
	"rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

const (
	detailKeyPrefix   = "view:detail:"
	nicknameKeyPrefix = "view:nickname:"
	emailKeyPrefix    = "view:email:"
)

// RedisStore is a Redis-backed view store for deployments where multiple
// instances share the read model.
//
// Layout: one hash per account at view:detail:<uid>, plus uniqueness keys
// view:nickname:<folded> and view:email:<folded> holding the owning uid.
// Ownership claims use SETNX so two concurrent registrations of the same
// nickname cannot both succeed.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed view store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// DetailView returns the stored view for the account.
func (s *RedisStore) DetailView(ctx context.Context, id domain.AccountID) (account.DetailView, error) {
	fields, err := s.client.HGetAll(ctx, detailKeyPrefix+id.String()).Result()
	if err != nil {
		return account.DetailView{}, fmt.Errorf("load detail view: %w", err)
	}
	if len(fields) == 0 {
		return account.DetailView{}, fmt.Errorf("account %s: %w", id, sentinel.ErrNotFound)
	}

	birth, err := time.ParseInLocation(time.DateOnly, fields["birth_date"], time.UTC)
	if err != nil {
		return account.DetailView{}, fmt.Errorf("decode stored birth date: %w", err)
	}

	return account.DetailView{
		ID:        id,
		Nickname:  domain.Nickname(fields["nickname"]),
		Email:     domain.Email(fields["email"]),
		FirstName: domain.FirstName(fields["first_name"]),
		LastName:  domain.LastName(fields["last_name"]),
		BirthDate: domain.HydrateBirthDate(birth),
	}, nil
}

// NicknameExists reports whether any current view uses the nickname.
func (s *RedisStore) NicknameExists(ctx context.Context, nickname domain.Nickname) (bool, error) {
	return s.keyExists(ctx, nicknameKeyPrefix+foldKey(nickname.String()))
}

// EmailExists reports whether any current view uses the email.
func (s *RedisStore) EmailExists(ctx context.Context, email domain.Email) (bool, error) {
	return s.keyExists(ctx, emailKeyPrefix+foldKey(email.String()))
}

func (s *RedisStore) keyExists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("check %s: %w", key, err)
	}
	return n > 0, nil
}

// SaveView upserts the view and claims the uniqueness keys.
// Refuses the write with sentinel.ErrConflict when the nickname or email is
// already owned by a different account.
func (s *RedisStore) SaveView(ctx context.Context, view account.DetailView) error {
	uid := view.ID.String()

	if err := s.claim(ctx, nicknameKeyPrefix+foldKey(view.Nickname.String()), uid, "nickname "+view.Nickname.String()); err != nil {
		return err
	}
	if err := s.claim(ctx, emailKeyPrefix+foldKey(view.Email.String()), uid, "email "+view.Email.String()); err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, detailKeyPrefix+uid, map[string]any{
		"uid":        uid,
		"nickname":   view.Nickname.String(),
		"email":      view.Email.String(),
		"first_name": view.FirstName.String(),
		"last_name":  view.LastName.String(),
		"birth_date": view.BirthDate.String(),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save detail view: %w", err)
	}
	return nil
}

// claim takes ownership of a uniqueness key for uid. SETNX makes the initial
// claim atomic; an existing key owned by another account is a conflict.
func (s *RedisStore) claim(ctx context.Context, key, uid, what string) error {
	ok, err := s.client.SetNX(ctx, key, uid, 0).Result()
	if err != nil {
		return fmt.Errorf("claim %s: %w", key, err)
	}
	if ok {
		return nil
	}

	owner, err := s.client.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("read owner of %s: %w", key, err)
	}
	if owner != uid {
		return fmt.Errorf("%s: %w", what, sentinel.ErrConflict)
	}
	return nil
}
