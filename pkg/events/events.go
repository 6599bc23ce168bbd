// Package events publishes ledger change notifications for downstream
// consumers such as the SMS/notification service. Publishing is
// fire-and-forget: a failed publish is logged and never fails the ledger
// operation that triggered it.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Subject carries every ledger event.
const Subject = "talent.ledger.events"

// Event describes one committed balance change.
type Event struct {
	Kind       string    `json:"kind"`
	EntityKind string    `json:"entity_kind"`
	EntityID   uint      `json:"entity_id"`
	Amount     int       `json:"amount"`
	Balance    int       `json:"balance"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits ledger events.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type natsPublisher struct {
	conn   *nats.Conn
	logger zerolog.Logger
}

// NewNATS connects to the given NATS URL and returns a publisher bound to it.
func NewNATS(url string, logger zerolog.Logger) (Publisher, error) {
	conn, err := nats.Connect(url, nats.Name("talent-api"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return &natsPublisher{
		conn:   conn,
		logger: logger.With().Str("component", "event_publisher").Logger(),
	}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to marshal ledger event")
		return
	}

	if err := p.conn.Publish(Subject, payload); err != nil {
		p.logger.Warn().Err(err).Str("kind", event.Kind).Msg("failed to publish ledger event")
	}
}

type nopPublisher struct{}

// NewNop returns a publisher that drops every event. Used when no NATS URL
// is configured.
func NewNop() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, Event) {}
