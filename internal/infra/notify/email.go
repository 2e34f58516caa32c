// Package notify holds the alert delivery channels.
package notify

import (
	"context"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type EmailSender struct {
	dialer    *gomail.Dialer
	from      string
	recipient string
	logger    *zap.Logger
}

func NewEmailSender(host string, port int, username, password, from, recipient string, logger *zap.Logger) *EmailSender {
	return &EmailSender{
		dialer:    gomail.NewDialer(host, port, username, password),
		from:      from,
		recipient: recipient,
		logger:    logger,
	}
}

func (s *EmailSender) Send(ctx context.Context, subject, body string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", s.from)
	message.SetHeader("To", s.recipient)
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", body)

	s.logger.Info("email send", zap.String("recipient", s.recipient), zap.String("subject", subject))
	if err := s.dialer.DialAndSend(message); err != nil {
		s.logger.Warn("failed to send email", zap.Error(err))
		return err
	}
	return nil
}
