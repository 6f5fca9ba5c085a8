// Package accounts implements registration, email verification and the
// password reset and change workflows on top of the token engine.
package accounts

import (
	"context"

	"registration-service/internal/domain/tokens"
	"registration-service/internal/domain/users"
	"registration-service/internal/events"
	"registration-service/internal/infra/mail"
	"registration-service/internal/logging"
	"registration-service/internal/security/password"
)

// TokenEngine is the subset of *tokens.Engine the workflows use.
type TokenEngine interface {
	Issue(ctx context.Context, kind tokens.Kind, user *users.User) (*tokens.Token, error)
	Validate(ctx context.Context, kind tokens.Kind, value string) (tokens.Status, error)
	Rotate(ctx context.Context, kind tokens.Kind, oldValue string) (*tokens.Token, error)
	ResolveUser(ctx context.Context, kind tokens.Kind, value string) (*users.User, error)
	Consume(ctx context.Context, kind tokens.Kind, value string) error
}

type Service struct {
	directory users.Directory
	engine    TokenEngine
	hasher    password.Hasher
	publisher events.Publisher
	notifier  mail.Notifier
	log       logging.Logger
}

func NewService(
	directory users.Directory,
	engine TokenEngine,
	hasher password.Hasher,
	publisher events.Publisher,
	notifier mail.Notifier,
	log logging.Logger,
) *Service {
	return &Service{
		directory: directory,
		engine:    engine,
		hasher:    hasher,
		publisher: publisher,
		notifier:  notifier,
		log:       log.With("component", "accounts"),
	}
}
