package mail

import (
	"context"
	"net"
	"net/smtp"
	"strings"

	"registration-service/internal/logging"
)

type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Password string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPNotifier struct {
	cfg  SMTPConfig
	log  logging.Logger
	send sendFunc
}

func NewSMTPNotifier(cfg SMTPConfig, log logging.Logger) *SMTPNotifier {
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	return &SMTPNotifier{cfg: cfg, log: log.With("component", "mail"), send: smtp.SendMail}
}

func (n *SMTPNotifier) Send(ctx context.Context, msg Message) {
	var auth smtp.Auth
	if n.cfg.Password != "" {
		auth = smtp.PlainAuth("", n.cfg.From, n.cfg.Password, n.cfg.Host)
	}

	addr := net.JoinHostPort(n.cfg.Host, n.cfg.Port)
	if err := n.send(addr, auth, n.cfg.From, []string{msg.To}, n.compose(msg)); err != nil {
		n.log.Error(ctx, "smtp send failed", "to", msg.To, "subject", msg.Subject, "err", err)
		return
	}
	n.log.Info(ctx, "mail sent", "to", msg.To, "subject", msg.Subject)
}

func (n *SMTPNotifier) compose(msg Message) []byte {
	var b strings.Builder
	b.WriteString("Subject: " + headerSafe(msg.Subject) + "\r\n")
	b.WriteString("From: " + headerSafe(n.cfg.From) + "\r\n")
	b.WriteString("To: " + headerSafe(msg.To) + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body + "\r\n")
	return []byte(b.String())
}

func headerSafe(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
