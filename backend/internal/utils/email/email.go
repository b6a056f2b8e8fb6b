package email

import (
	"fmt"
	"net/mail"

	"github.com/bloodlink-dev/bloodlink/shared/config"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"gopkg.in/gomail.v2"
)

// Sender is the transport a message goes out through. *gomail.Dialer
// satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Email struct {
	config *config.Email
	sender Sender
}

// New returns a mailer for cfg. With no SMTP server configured messages are
// only logged.
func New(cfg *config.Email) *Email {
	e := &Email{config: cfg}
	if cfg.Enabled() {
		e.sender = gomail.NewDialer(cfg.SMTPServer, cfg.SMTPPort, cfg.Username, cfg.Password)
	}
	return e
}

// NewWithSender is New with an explicit transport.
func NewWithSender(cfg *config.Email, sender Sender) *Email {
	return &Email{config: cfg, sender: sender}
}

func (e *Email) IsCorrect(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.BadRequest("Invalid email address")
	}
	return nil
}

func (e *Email) Send(recipientEmail, subject, body string) error {
	if e.sender == nil {
		logger.Log.Info("email disabled, dropping message", "to", recipientEmail, "subject", subject)
		return nil
	}

	if err := e.sender.DialAndSend(e.buildMessage(recipientEmail, subject, body)); err != nil {
		logger.Log.Error("failed to send email", "to", recipientEmail, "error", err)
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (e *Email) buildMessage(recipient, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", e.config.Username, e.config.SenderName)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}
