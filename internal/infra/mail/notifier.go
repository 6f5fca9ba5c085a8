// Package mail delivers verification and password-reset links.
package mail

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"registration-service/internal/domain/users"
	"registration-service/internal/logging"
)

// Message is one outbound notification.
type Message struct {
	To      string
	Subject string
	Body    string
	Link    string
}

// Notifier sends messages. Send never reports failure to the caller;
// implementations log delivery errors themselves.
type Notifier interface {
	Send(ctx context.Context, msg Message)
}

const (
	VerifyPath        = "/verifyRegistration"
	PasswordResetPath = "/savePassword"
)

func VerificationLink(baseURL, token string) string {
	return link(baseURL, VerifyPath, token)
}

func PasswordResetLink(baseURL, token string) string {
	return link(baseURL, PasswordResetPath, token)
}

func link(baseURL, path, token string) string {
	return strings.TrimRight(baseURL, "/") + path + "?token=" + url.QueryEscape(token)
}

func VerificationMessage(u *users.User, link string) Message {
	return Message{
		To:      u.Email,
		Subject: "Verify your account",
		Body:    fmt.Sprintf("Hello %s,\n\nClick the following link to verify your account:\n\n%s", u.FirstName, link),
		Link:    link,
	}
}

func PasswordResetMessage(u *users.User, link string) Message {
	return Message{
		To:      u.Email,
		Subject: "Reset your password",
		Body:    fmt.Sprintf("Hello %s,\n\nClick the following link to reset your password:\n\n%s", u.FirstName, link),
		Link:    link,
	}
}

// LogNotifier writes the link to the log instead of sending mail. Used when
// SMTP is not configured.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log.With("component", "mail")}
}

func (n *LogNotifier) Send(ctx context.Context, msg Message) {
	n.log.Info(ctx, "notification", "to", msg.To, "subject", msg.Subject, "link", msg.Link)
}
