package accounts

import (
	"context"
	"errors"
	"fmt"

	"registration-service/internal/domain/tokens"
	"registration-service/internal/domain/users"
	"registration-service/internal/infra/mail"
	"registration-service/internal/security/password"
)

// RequestReset issues a password-reset token and mails the link. An unknown
// email returns an empty link and a nil error so callers cannot probe which
// addresses are registered.
func (s *Service) RequestReset(ctx context.Context, email, applicationURL string) (string, error) {
	u, err := s.directory.FindByEmail(ctx, email)
	if errors.Is(err, users.ErrNotFound) {
		s.log.Debug(ctx, "password reset for unknown email")
		return "", nil
	}
	if err != nil {
		return "", err
	}

	tok, err := s.engine.Issue(ctx, tokens.KindPasswordReset, u)
	if err != nil {
		return "", err
	}

	link := mail.PasswordResetLink(applicationURL, tok.Value)
	s.notifier.Send(ctx, mail.PasswordResetMessage(u, link))
	return link, nil
}

// ConfirmReset sets a new password for the owner of a live reset token and
// consumes the token.
func (s *Service) ConfirmReset(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: missing newPassword", ErrValidation)
	}

	status, err := s.engine.Validate(ctx, tokens.KindPasswordReset, token)
	if err != nil {
		return err
	}
	switch status {
	case tokens.StatusValid:
	case tokens.StatusExpired:
		return ErrExpiredToken
	case tokens.StatusInvalid:
		return ErrInvalidToken
	default:
		return ErrInvalidToken
	}

	u, err := s.engine.ResolveUser(ctx, tokens.KindPasswordReset, token)
	if errors.Is(err, tokens.ErrNotFound) || errors.Is(err, tokens.ErrInvalidUser) {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}

	if err := s.setPassword(ctx, u, newPassword); err != nil {
		return err
	}

	if err := s.engine.Consume(ctx, tokens.KindPasswordReset, token); err != nil && !errors.Is(err, tokens.ErrNotFound) {
		// the password is already changed; a leftover token only lives out its window
		s.log.Error(ctx, "consume password reset token", "user_id", u.ID.String(), "err", err)
	}
	s.log.Info(ctx, "password reset", "user_id", u.ID.String())
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: missing newPassword", ErrValidation)
	}

	u, err := s.directory.FindByEmail(ctx, email)
	if errors.Is(err, users.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	if !s.hasher.Verify(oldPassword, u.Password) {
		return ErrInvalidCredentials
	}

	if err := s.setPassword(ctx, u, newPassword); err != nil {
		return err
	}
	s.log.Info(ctx, "password changed", "user_id", u.ID.String())
	return nil
}

func (s *Service) setPassword(ctx context.Context, u *users.User, plain string) error {
	digest, err := s.hash(plain)
	if err != nil {
		return err
	}
	u.Password = digest
	if err := s.directory.Save(ctx, u); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	return nil
}

func (s *Service) hash(plain string) (string, error) {
	digest, err := s.hasher.Hash(plain)
	if errors.Is(err, password.ErrTooLong) {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return digest, err
}
