package testutils

import (
	"context"
	"sync"

	"github.com/jonesrussell/planwatch/internal/domain"
)

// SentMail is one message captured by FakeSender.
type SentMail struct {
	Subject   string
	Body      string
	Receivers []string
}

// FakeSender is a mail transport that records messages instead of sending
// them. Err, when set, is returned by Send without recording.
type FakeSender struct {
	mu   sync.Mutex
	Err  error
	sent []SentMail
}

// Send records the message.
func (f *FakeSender) Send(_ context.Context, secret *domain.Secret, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.sent = append(f.sent, SentMail{
		Subject:   subject,
		Body:      body,
		Receivers: append([]string(nil), secret.Receivers...),
	})
	return nil
}

// Sent returns the messages recorded so far.
func (f *FakeSender) Sent() []SentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SentMail, len(f.sent))
	copy(out, f.sent)
	return out
}
