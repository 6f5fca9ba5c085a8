package memory

import (
	"context"
	"errors"
	"sync"

	"registration-service/internal/domain/tokens"
	"registration-service/internal/domain/users"

	"github.com/google/uuid"
)

type tokenKey struct {
	kind  tokens.Kind
	value string
}

type ownerKey struct {
	kind tokens.Kind
	user uuid.UUID
}

// TokenStore keeps at most one token per kind and user. When a directory is
// supplied, lookups resolve the owning user eagerly.
type TokenStore struct {
	mu        sync.RWMutex
	byValue   map[tokenKey]tokens.Token
	byOwner   map[ownerKey]string
	directory users.Directory
}

func NewTokenStore(directory users.Directory) *TokenStore {
	return &TokenStore{
		byValue:   make(map[tokenKey]tokens.Token),
		byOwner:   make(map[ownerKey]string),
		directory: directory,
	}
}

func (s *TokenStore) Save(_ context.Context, t *tokens.Token) error {
	if !t.Kind.Valid() {
		return tokens.ErrUnknownKind
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	owner := ownerKey{kind: t.Kind, user: t.UserID}
	if prev, ok := s.byOwner[owner]; ok {
		delete(s.byValue, tokenKey{kind: t.Kind, value: prev})
	}

	rec := *t
	rec.User = nil
	s.byValue[tokenKey{kind: t.Kind, value: t.Value}] = rec
	s.byOwner[owner] = t.Value
	return nil
}

func (s *TokenStore) FindByToken(ctx context.Context, kind tokens.Kind, value string) (*tokens.Token, error) {
	s.mu.RLock()
	rec, ok := s.byValue[tokenKey{kind: kind, value: value}]
	s.mu.RUnlock()
	if !ok {
		return nil, tokens.ErrNotFound
	}

	if s.directory != nil {
		u, err := s.directory.FindByID(ctx, rec.UserID)
		if err != nil && !errors.Is(err, users.ErrNotFound) {
			return nil, err
		}
		rec.User = u
	}
	return &rec, nil
}

func (s *TokenStore) Delete(_ context.Context, t *tokens.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := tokenKey{kind: t.Kind, value: t.Value}
	rec, ok := s.byValue[key]
	if !ok {
		return tokens.ErrNotFound
	}
	delete(s.byValue, key)
	delete(s.byOwner, ownerKey{kind: rec.Kind, user: rec.UserID})
	return nil
}

// Len reports the number of stored tokens of kind.
func (s *TokenStore) Len(kind tokens.Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for k := range s.byValue {
		if k.kind == kind {
			n++
		}
	}
	return n
}
