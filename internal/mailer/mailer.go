// Package mailer hands outgoing transactional mail to a delivery worker.
package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	TemplatePasswordReset = "password_reset"
)

// Message is the job published for the mail worker.
type Message struct {
	To       string            `json:"to"`
	Template string            `json:"template"`
	Data     map[string]string `json:"data"`
	QueuedAt time.Time         `json:"queuedAt"`
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NATSMailer publishes messages as JSON on a subject.
type NATSMailer struct {
	conn    *nats.Conn
	subject string
}

func NewNATSMailer(url, subject string) (*NATSMailer, error) {
	conn, err := nats.Connect(url,
		nats.Name("todo-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSMailer{conn: conn, subject: subject}, nil
}

func (m *NATSMailer) Send(ctx context.Context, msg Message) error {
	if msg.QueuedAt.IsZero() {
		msg.QueuedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := m.conn.Publish(m.subject, payload); err != nil {
		return fmt.Errorf("publish mail job: %w", err)
	}
	return m.conn.FlushWithContext(ctx)
}

func (m *NATSMailer) Close() {
	if err := m.conn.Drain(); err != nil {
		m.conn.Close()
	}
}

// LogMailer writes messages to the log instead of delivering them. It is used
// when NATS_URL is empty.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	slog.InfoContext(ctx, "mail not delivered, no transport configured",
		"to", msg.To,
		"template", msg.Template,
	)
	return nil
}
