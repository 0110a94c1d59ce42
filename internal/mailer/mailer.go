// Package mailer delivers confirmation codes to users.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"github.com/yamdb/api/pkg/logger"
	"go.uber.org/zap"
)

var ErrDelivery = errors.New("failed to deliver email")

type ConfirmationCodeData struct {
	Email string
	Code  string
}

// Sender delivers a confirmation code. A returned error means the user did not get the code.
type Sender interface {
	SendConfirmationCode(ctx context.Context, data ConfirmationCodeData) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type smtpSender struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPSender(cfg SMTPConfig) Sender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &smtpSender{
		addr: cfg.Host + ":" + cfg.Port,
		from: cfg.From,
		auth: auth,
	}
}

func (s *smtpSender) SendConfirmationCode(ctx context.Context, data ConfirmationCodeData) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.from, data.Email, confirmationSubject, confirmationBody(data.Code)))

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{data.Email}, msg); err != nil {
		logger.Log.Error("Failed to send confirmation code",
			zap.String("to", data.Email),
			zap.String("smtp_addr", s.addr),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	logger.Log.Debug("Confirmation code sent", zap.String("to", data.Email))
	return nil
}

// logSender writes codes to the log. Used in development when no SMTP host is configured.
type logSender struct{}

func NewLogSender() Sender {
	return logSender{}
}

func (logSender) SendConfirmationCode(_ context.Context, data ConfirmationCodeData) error {
	logger.Log.Info("Confirmation code (SMTP disabled)",
		zap.String("to", data.Email),
		zap.String("code", data.Code),
	)
	return nil
}

const confirmationSubject = "YaMDb confirmation code"

func confirmationBody(code string) string {
	return fmt.Sprintf("Hello!\n\nYour confirmation code: %s\n\nExchange it for an access token at /api/v1/auth/token/.\n", code)
}
