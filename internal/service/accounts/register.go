package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"registration-service/internal/domain/tokens"
	"registration-service/internal/domain/users"
	"registration-service/internal/events"
	"registration-service/internal/infra/mail"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RegisterInput struct {
	FirstName        string
	LastName         string
	Email            string
	Password         string
	MatchingPassword string
}

func (in RegisterInput) validate() error {
	var missing []string
	if strings.TrimSpace(in.FirstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(in.LastName) == "" {
		missing = append(missing, "lastName")
	}
	if users.NormalizeEmail(in.Email) == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	if err := validate.Var(users.NormalizeEmail(in.Email), "email"); err != nil {
		return fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if in.MatchingPassword != "" && in.MatchingPassword != in.Password {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	return nil
}

// Register stores a new disabled account and publishes RegistrationCompleted
// so the verification link is issued out of band.
func (s *Service) Register(ctx context.Context, in RegisterInput, applicationURL string) (*users.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	digest, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &users.User{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     users.NormalizeEmail(in.Email),
		Password:  digest,
		Role:      users.RoleUser,
		Enabled:   false,
	}
	if err := s.directory.Create(ctx, u); err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.log.Info(ctx, "user registered", "user_id", u.ID.String())

	ev := events.RegistrationCompleted{User: u, ApplicationURL: applicationURL}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Error(ctx, "publish registration event", "user_id", u.ID.String(), "err", err)
	}
	return u, nil
}

func (s *Service) VerifyRegistration(ctx context.Context, token string) (tokens.Status, error) {
	return s.engine.Validate(ctx, tokens.KindVerification, token)
}

// ResendVerification rotates an existing verification token, expired or
// not, and mails the new link to its owner.
func (s *Service) ResendVerification(ctx context.Context, oldToken, applicationURL string) (*tokens.Token, error) {
	tok, err := s.engine.Rotate(ctx, tokens.KindVerification, oldToken)
	if errors.Is(err, tokens.ErrNotFound) || errors.Is(err, tokens.ErrInvalidUser) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	link := mail.VerificationLink(applicationURL, tok.Value)
	s.notifier.Send(ctx, mail.VerificationMessage(tok.User, link))
	return tok, nil
}
