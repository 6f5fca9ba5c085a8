package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"registration-service/internal/domain/users"
	"registration-service/internal/logging"

	"github.com/google/uuid"
)

// Engine issues, validates and rotates verification and password-reset
// tokens, and applies the account change a successful validation implies.
//
// Engine holds no per-request state; concurrent use is safe when the store
// and directory are.
type Engine struct {
	store     Store
	directory users.Directory
	now       func() time.Time
	generate  Generator
	window    time.Duration
	log       logging.Logger
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithGenerator(g Generator) Option {
	return func(e *Engine) { e.generate = g }
}

func WithWindow(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.window = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func NewEngine(store Store, directory users.Directory, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		directory: directory,
		now:       time.Now,
		generate:  RandomHex,
		window:    ExpirationWindow,
		log:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("component", "tokens")
	return e
}

// Issue creates a token of kind for user, replacing the user's previous
// token of that kind. The user record is not modified.
func (e *Engine) Issue(ctx context.Context, kind Kind, user *users.User) (*Token, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if user == nil || user.ID == uuid.Nil {
		return nil, ErrInvalidUser
	}

	value, err := e.generate()
	if err != nil {
		return nil, fmt.Errorf("generate %s token: %w", kind, err)
	}

	t := &Token{
		Kind:           kind,
		Value:          value,
		UserID:         user.ID,
		User:           user,
		ExpirationTime: e.now().Add(e.window),
	}
	if err := e.store.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("save %s token: %w", kind, err)
	}

	e.log.Info(ctx, "token issued",
		"kind", kind.String(),
		"user_id", user.ID.String(),
		"expires_at", t.ExpirationTime,
	)
	return t, nil
}

// Validate reports whether value is a live token of kind.
//
// Unknown values yield StatusInvalid with a nil error. Expired tokens are
// deleted and yield StatusExpired. A valid verification token enables its
// owner; a valid password-reset token is left untouched for ResolveUser.
func (e *Engine) Validate(ctx context.Context, kind Kind, value string) (Status, error) {
	if !kind.Valid() {
		return StatusInvalid, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	t, err := e.store.FindByToken(ctx, kind, value)
	if errors.Is(err, ErrNotFound) {
		return StatusInvalid, nil
	}
	if err != nil {
		return StatusInvalid, fmt.Errorf("find %s token: %w", kind, err)
	}

	if t.Expired(e.now()) {
		// a concurrent validation may already have reaped it
		if err := e.store.Delete(ctx, t); err != nil && !errors.Is(err, ErrNotFound) {
			return StatusExpired, fmt.Errorf("delete expired %s token: %w", kind, err)
		}
		e.log.Info(ctx, "expired token reaped", "kind", kind.String(), "user_id", t.UserID.String())
		return StatusExpired, nil
	}

	switch kind {
	case KindVerification:
		if err := e.enableOwner(ctx, t); err != nil {
			return StatusInvalid, err
		}
	case KindPasswordReset:
	}
	return StatusValid, nil
}

// Rotate replaces the value of an existing token and restarts its window.
// Expired tokens may be rotated. The returned token carries its owner.
func (e *Engine) Rotate(ctx context.Context, kind Kind, oldValue string) (*Token, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	t, err := e.store.FindByToken(ctx, kind, oldValue)
	if err != nil {
		return nil, fmt.Errorf("find %s token: %w", kind, err)
	}

	value, err := e.freshValue(oldValue)
	if err != nil {
		return nil, fmt.Errorf("generate %s token: %w", kind, err)
	}

	prev := t.ExpirationTime
	t.Value = value
	t.ExpirationTime = e.now().Add(e.window)
	if !t.ExpirationTime.After(prev) {
		t.ExpirationTime = prev.Add(time.Nanosecond)
	}

	owner, err := e.owner(ctx, t)
	if err != nil {
		return nil, err
	}
	t.User = owner

	if err := e.store.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("save %s token: %w", kind, err)
	}

	e.log.Info(ctx, "token rotated", "kind", kind.String(), "user_id", t.UserID.String())
	return t, nil
}

// ResolveUser returns the owner of a token, typically after Validate
// reported StatusValid. It does not check expiry.
func (e *Engine) ResolveUser(ctx context.Context, kind Kind, value string) (*users.User, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	t, err := e.store.FindByToken(ctx, kind, value)
	if err != nil {
		return nil, fmt.Errorf("find %s token: %w", kind, err)
	}
	return e.owner(ctx, t)
}

// Consume deletes a token so it cannot be presented again.
func (e *Engine) Consume(ctx context.Context, kind Kind, value string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if err := e.store.Delete(ctx, &Token{Kind: kind, Value: value}); err != nil {
		return fmt.Errorf("delete %s token: %w", kind, err)
	}
	e.log.Debug(ctx, "token consumed", "kind", kind.String())
	return nil
}

func (e *Engine) enableOwner(ctx context.Context, t *Token) error {
	owner, err := e.owner(ctx, t)
	if err != nil {
		return err
	}
	if owner.Enabled {
		return nil
	}

	owner.Enabled = true
	if err := e.directory.Save(ctx, owner); err != nil {
		return fmt.Errorf("enable user: %w", err)
	}
	t.User = owner

	e.log.Info(ctx, "account enabled", "user_id", owner.ID.String())
	return nil
}

func (e *Engine) owner(ctx context.Context, t *Token) (*users.User, error) {
	if t.User != nil {
		return t.User, nil
	}
	u, err := e.directory.FindByID(ctx, t.UserID)
	if errors.Is(err, users.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}
	if err != nil {
		return nil, fmt.Errorf("load token owner: %w", err)
	}
	return u, nil
}

func (e *Engine) freshValue(old string) (string, error) {
	for i := 0; i < 3; i++ {
		v, err := e.generate()
		if err != nil {
			return "", err
		}
		if v != old {
			return v, nil
		}
	}
	return "", errors.New("generator keeps returning the previous value")
}
