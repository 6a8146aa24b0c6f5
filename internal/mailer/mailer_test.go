package mailer

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
)

func TestLogMailer(t *testing.T) {
	var m Mailer = LogMailer{}
	if err := m.Send(context.Background(), Message{To: "ada@example.com", Template: TemplatePasswordReset}); err != nil {
		t.Errorf("Send() error = %v", err)
	}
}

// Runs against a real server: NATS_URL=nats://localhost:4222 go test ./internal/mailer
func TestNATSMailerPublishes(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set")
	}
	subject := "mail.test." + nats.NewInbox()

	sub, err := nats.Connect(url)
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Close()
	ch := make(chan *nats.Msg, 1)
	if _, err := sub.ChanSubscribe(subject, ch); err != nil {
		t.Fatal(err)
	}
	if err := sub.Flush(); err != nil {
		t.Fatal(err)
	}

	m, err := NewNATSMailer(url, subject)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.Send(ctx, Message{To: "ada@example.com", Template: TemplatePasswordReset, Data: map[string]string{"link": "x"}}); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-ch:
		var got Message
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatal(err)
		}
		if got.To != "ada@example.com" || got.Data["link"] != "x" || got.QueuedAt.IsZero() {
			t.Errorf("message = %+v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
	}
}
