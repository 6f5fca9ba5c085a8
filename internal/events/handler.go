package events

import (
	"context"
	"fmt"

	"registration-service/internal/domain/tokens"
	"registration-service/internal/domain/users"
	"registration-service/internal/infra/mail"
	"registration-service/internal/logging"
)

type Issuer interface {
	Issue(ctx context.Context, kind tokens.Kind, user *users.User) (*tokens.Token, error)
}

// Handler reacts to RegistrationCompleted by issuing a verification token
// and sending the verification link.
type Handler struct {
	issuer   Issuer
	notifier mail.Notifier
	log      logging.Logger
}

func NewHandler(issuer Issuer, notifier mail.Notifier, log logging.Logger) *Handler {
	return &Handler{issuer: issuer, notifier: notifier, log: log.With("component", "events")}
}

func (h *Handler) Handle(ctx context.Context, ev RegistrationCompleted) error {
	if ev.User == nil {
		return fmt.Errorf("registration event without user")
	}

	tok, err := h.issuer.Issue(ctx, tokens.KindVerification, ev.User)
	if err != nil {
		return fmt.Errorf("issue verification token: %w", err)
	}

	link := mail.VerificationLink(ev.ApplicationURL, tok.Value)
	h.notifier.Send(ctx, mail.VerificationMessage(ev.User, link))
	return nil
}

// Run consumes events until ctx is done or the channel is closed. A failed
// event is logged and skipped.
func (h *Handler) Run(ctx context.Context, events <-chan RegistrationCompleted) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := h.Handle(ctx, ev); err != nil {
				attrs := []any{"err", err}
				if ev.User != nil {
					attrs = append(attrs, "user_id", ev.User.ID.String())
				}
				h.log.Error(ctx, "registration event failed", attrs...)
			}
		}
	}
}
