package tokens

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("token not found")
	ErrInvalidUser = errors.New("token owner missing")
	ErrUnknownKind = errors.New("unknown token kind")
)

// Store persists tokens of both kinds.
//
// Save replaces any existing token of the same kind for the same user.
// FindByToken and Delete return ErrNotFound when no record matches.
type Store interface {
	Save(ctx context.Context, t *Token) error
	FindByToken(ctx context.Context, kind Kind, value string) (*Token, error)
	Delete(ctx context.Context, t *Token) error
}
