// Package events carries the registration-completed event from the
// registration workflow to the handler that issues the verification token
// and sends the link. User persistence and token/mail side effects can
// therefore fail independently.
package events

import (
	"context"
	"errors"

	"registration-service/internal/domain/users"
)

var ErrQueueClosed = errors.New("event queue closed")

type RegistrationCompleted struct {
	User           *users.User
	ApplicationURL string
}

type Publisher interface {
	Publish(ctx context.Context, ev RegistrationCompleted) error
}
