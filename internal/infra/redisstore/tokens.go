// Package redisstore keeps tokens in redis with a TTL so abandoned tokens
// are dropped without a sweeper.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"registration-service/internal/domain/tokens"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultRetention is how long a token record outlives its expiration time
// so that late validations still report expired rather than invalid.
const DefaultRetention = 24 * time.Hour

var ErrUnavailable = errors.New("token redis unavailable")

type record struct {
	UserID         uuid.UUID `json:"user_id"`
	ExpirationTime time.Time `json:"expiration_time"`
}

// TokenStore maps "<prefix>:<kind>:tok:<value>" to the token record and
// "<prefix>:<kind>:usr:<user id>" to the user's current value. Owners are
// not preloaded; the engine resolves them through the user directory.
type TokenStore struct {
	redis     redis.UniversalClient
	prefix    string
	retention time.Duration
	now       func() time.Time
}

func NewTokenStore(client redis.UniversalClient, prefix string, retention time.Duration) *TokenStore {
	if prefix == "" {
		prefix = "rtk"
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &TokenStore{
		redis:     client,
		prefix:    prefix,
		retention: retention,
		now:       time.Now,
	}
}

func (s *TokenStore) tokenKey(kind tokens.Kind, value string) string {
	return fmt.Sprintf("%s:%s:tok:%s", s.prefix, kind, value)
}

func (s *TokenStore) ownerKey(kind tokens.Kind, userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:usr:%s", s.prefix, kind, userID)
}

func (s *TokenStore) Save(ctx context.Context, t *tokens.Token) error {
	if !t.Kind.Valid() {
		return tokens.ErrUnknownKind
	}

	encoded, err := json.Marshal(record{UserID: t.UserID, ExpirationTime: t.ExpirationTime})
	if err != nil {
		return err
	}

	ttl := t.ExpirationTime.Sub(s.now()) + s.retention
	if ttl < time.Second {
		ttl = time.Second
	}

	owner := s.ownerKey(t.Kind, t.UserID)
	return s.watch(ctx, func(tx *redis.Tx) error {
		prev, err := tx.Get(ctx, owner).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if prev != "" && prev != t.Value {
				pipe.Del(ctx, s.tokenKey(t.Kind, prev))
			}
			pipe.Set(ctx, s.tokenKey(t.Kind, t.Value), encoded, ttl)
			pipe.Set(ctx, owner, t.Value, ttl)
			return nil
		})
		return err
	}, owner)
}

func (s *TokenStore) FindByToken(ctx context.Context, kind tokens.Kind, value string) (*tokens.Token, error) {
	if !kind.Valid() {
		return nil, tokens.ErrUnknownKind
	}

	rec, err := s.load(ctx, kind, value)
	if err != nil {
		return nil, err
	}
	return &tokens.Token{
		Kind:           kind,
		Value:          value,
		UserID:         rec.UserID,
		ExpirationTime: rec.ExpirationTime,
	}, nil
}

func (s *TokenStore) Delete(ctx context.Context, t *tokens.Token) error {
	if !t.Kind.Valid() {
		return tokens.ErrUnknownKind
	}

	rec, err := s.load(ctx, t.Kind, t.Value)
	if err != nil {
		return err
	}

	key := s.tokenKey(t.Kind, t.Value)
	owner := s.ownerKey(t.Kind, rec.UserID)
	return s.watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, owner).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return tokens.ErrNotFound
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			// the owner index may already point at a newer value
			if current == t.Value {
				pipe.Del(ctx, owner)
			}
			return nil
		})
		return err
	}, key, owner)
}

// maxWatchRetries bounds optimistic retries when a watched key changes
// between the read and the EXEC.
const maxWatchRetries = 50

// watch runs fn in a WATCH transaction on keys, retrying on conflict.
func (s *TokenStore) watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error {
	for i := 0; i < maxWatchRetries; i++ {
		err := s.redis.Watch(ctx, fn, keys...)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, tokens.ErrNotFound):
			return err
		default:
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return fmt.Errorf("%w: too much contention on %v", ErrUnavailable, keys)
}

func (s *TokenStore) load(ctx context.Context, kind tokens.Kind, value string) (*record, error) {
	data, err := s.redis.Get(ctx, s.tokenKey(kind, value)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, tokens.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode %s token: %w", kind, err)
	}
	return &rec, nil
}
