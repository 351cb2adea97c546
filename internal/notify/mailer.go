// Package notify implements the best-effort outbound email channel: an
// async queue in front of an SMTP sender with bounded retry. Dispatch is
// always outside the engine's transaction; a delivery failure is logged,
// never rolled back into the state change.
package notify

import (
	"context"
	"fmt"

	"naspac/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"
)

// Email is one outbound message.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a single email synchronously.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

type SMTPSender struct {
	client *mail.Client
	from   string
}

func NewSMTPSender(config *types.Config) (*SMTPSender, error) {
	client, err := mail.NewClient(config.MailerHost,
		mail.WithPort(config.MailerPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(config.MailerUser),
		mail.WithPassword(config.MailerPassword),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPSender{client: client, from: config.MailerFrom}, nil
}

func (s *SMTPSender) Send(ctx context.Context, email Email) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(email.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextHTML, email.HTML)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send email to %s: %w", email.To, err)
	}
	return nil
}

// LogSender is the development fallback when no SMTP host is configured.
type LogSender struct {
	logger *logrus.Logger
}

func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, email Email) error {
	s.logger.WithFields(logrus.Fields{
		"to":      email.To,
		"subject": email.Subject,
	}).Info("email (log only)")
	return nil
}
