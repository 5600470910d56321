package notify

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/jonesrussell/planwatch/internal/domain"
	"github.com/jonesrussell/planwatch/internal/logger"
)

const (
	// sendTimeout bounds the whole SMTP session.
	sendTimeout = 30 * time.Second
	// implicitTLSPort is the port on which servers speak TLS from the first
	// byte instead of upgrading via STARTTLS.
	implicitTLSPort = 465
)

// ErrSenderUnconfigured is returned when the secret document still carries
// the factory sender address. No connection is attempted in that case.
var ErrSenderUnconfigured = errors.New("sender not configured")

// Mailer delivers plain-text messages over SMTP using the credentials from
// the secret document.
type Mailer struct {
	log logger.Interface
}

// NewMailer creates an SMTP mailer.
func NewMailer(log logger.Interface) *Mailer {
	return &Mailer{log: log}
}

// Send delivers one message to every receiver over a single SMTP session.
// Individual receiver failures are logged and skipped; Send fails only when
// no session could be established at all.
func (m *Mailer) Send(ctx context.Context, secret *domain.Secret, subject, body string) error {
	if !secret.Configured() {
		m.log.Warn("will not send email because the default sender is still in place",
			"sender", domain.UnconfiguredSender)
		return ErrSenderUnconfigured
	}

	opts := []mail.Option{
		mail.WithPort(secret.Sender.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(secret.Sender.Username),
		mail.WithPassword(secret.Sender.Password),
		mail.WithTimeout(sendTimeout),
	}
	if secret.Sender.Port == implicitTLSPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	client, err := mail.NewClient(secret.Sender.Server, opts...)
	if err != nil {
		return fmt.Errorf("create mail client: %w", err)
	}

	if dialErr := client.DialWithContext(ctx); dialErr != nil {
		return fmt.Errorf("dial smtp server %s: %w", secret.Sender.Server, dialErr)
	}
	defer client.Close()

	text := body + "\n\n" + footer()
	for _, receiver := range secret.Receivers {
		msg, buildErr := buildMessage(secret.Sender.Username, receiver, subject, text)
		if buildErr != nil {
			m.log.Warn("failed to build e-mail message",
				"receiver", receiver,
				"error", buildErr.Error())
			continue
		}
		if sendErr := client.Send(msg); sendErr != nil {
			m.log.Warn("failed to send e-mail message",
				"receiver", receiver,
				"error", sendErr.Error())
			continue
		}
		m.log.Debug("sent e-mail message", "receiver", receiver)
	}
	return nil
}

func buildMessage(sender, receiver, subject, text string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat("planwatch", sender); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(receiver); err != nil {
		return nil, fmt.Errorf("set receiver: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, text)
	return msg, nil
}

// footer is appended to every outgoing message.
func footer() string {
	return fmt.Sprintf("sent from %s running %s\nsource code: https://github.com/jonesrussell/planwatch",
		runtime.GOOS, runtime.Version())
}
