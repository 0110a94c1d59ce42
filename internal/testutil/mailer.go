package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yamdb/api/internal/mailer"
)

// RecordingMailer keeps every confirmation code it is asked to send.
type RecordingMailer struct {
	mu   sync.Mutex
	sent []mailer.ConfirmationCodeData
}

func (m *RecordingMailer) SendConfirmationCode(_ context.Context, data mailer.ConfirmationCodeData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, data)
	return nil
}

// LastCode returns the most recent code sent to email, or "" if none.
func (m *RecordingMailer) LastCode(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].Email == email {
			return m.sent[i].Code
		}
	}
	return ""
}

func (m *RecordingMailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// FailingMailer rejects every message.
type FailingMailer struct{}

func (FailingMailer) SendConfirmationCode(context.Context, mailer.ConfirmationCodeData) error {
	return fmt.Errorf("%w: %v", mailer.ErrDelivery, errors.New("connection refused"))
}
