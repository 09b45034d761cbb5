// Package notify publishes site events to NATS JetStream.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/subscribe"
)

// EventHeader carries the event type of a published message.
const EventHeader = "Folio-Event"

// EventSubscriberCreated is the type of a new-subscriber event.
const EventSubscriberCreated = "subscriber.created"

const publishTimeout = subscribe.NotifyTimeout

type publisher interface {
	PublishMsg(ctx context.Context, msg *nats.Msg, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// NATSNotifier publishes subscriber events to a JetStream subject. It
// implements subscribe.Notifier.
type NATSNotifier struct {
	conn    *nats.Conn
	js      publisher
	subject string
}

// NewNATSNotifier connects to cfg.NATSURL and makes sure a stream captures
// cfg.Subject.
func NewNATSNotifier(ctx context.Context, cfg config.NotifyConfig) (*NATSNotifier, error) {
	if cfg.NATSURL == "" {
		return nil, fmt.Errorf("notify: nats_url is required")
	}
	conn, err := nats.Connect(cfg.NATSURL, nats.Name("folio"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        streamName(cfg.Subject),
		Description: "folio subscriber events",
		Subjects:    []string{cfg.Subject},
		MaxAge:      30 * 24 * time.Hour,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ensure stream: %w", err)
	}

	slog.Info("NATS notifier initialized", logfields.URL(cfg.NATSURL), logfields.Subject(cfg.Subject))
	return &NATSNotifier{conn: conn, js: js, subject: cfg.Subject}, nil
}

// SubscriberCreated publishes e as a subscriber.created message.
func (n *NATSNotifier) SubscriberCreated(ctx context.Context, e subscribe.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	msg := nats.NewMsg(n.subject)
	msg.Header.Set(EventHeader, EventSubscriberCreated)
	msg.Data = data

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if _, err := n.js.PublishMsg(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	slog.Debug("Published subscriber event", logfields.Subject(n.subject))
	return nil
}

// Close drains and closes the NATS connection.
func (n *NATSNotifier) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Drain()
}

// streamName derives a valid stream name from a subject.
func streamName(subject string) string {
	r := strings.NewReplacer(".", "_", "*", "ALL", ">", "REST", " ", "_")
	return strings.ToUpper(r.Replace(subject))
}
