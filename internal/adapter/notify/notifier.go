// Package notify fans billing events out to one or more publishers.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/infrastructure/metrics"
	"github.com/iho/billcycle/internal/usecase"
)

// Event is the envelope handed to publishers.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Publisher delivers an event to an external system.
type Publisher interface {
	// Name labels the sink in logs and metrics.
	Name() string
	Publish(ctx context.Context, event Event) error
}

// Notifier implements usecase.SkipNotifier on top of a set of publishers.
// A failing publisher does not stop delivery to the others.
type Notifier struct {
	publishers []Publisher
	idGen      usecase.IDGenerator
	logger     zerolog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewNotifier creates a Notifier delivering to publishers in order.
func NewNotifier(idGen usecase.IDGenerator, logger zerolog.Logger, m *metrics.Metrics, publishers ...Publisher) *Notifier {
	return &Notifier{
		publishers: publishers,
		idGen:      idGen,
		logger:     logger.With().Str("component", "notifier").Logger(),
		metrics:    m,
		now:        time.Now,
	}
}

// RecurringChargeSkipped publishes a skipped recurring charge.
func (n *Notifier) RecurringChargeSkipped(ctx context.Context, event domain.RecurringChargeSkipped) error {
	return n.publish(ctx, domain.EventTypeRecurringChargeSkipped, event)
}

// SyncCompleted publishes the summary of a finished sync run.
func (n *Notifier) SyncCompleted(ctx context.Context, event domain.SyncCompleted) error {
	return n.publish(ctx, domain.EventTypeSyncCompleted, event)
}

func (n *Notifier) publish(ctx context.Context, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	event := Event{
		ID:         n.idGen.Generate(),
		Type:       eventType,
		OccurredAt: n.now().UTC(),
		Payload:    body,
	}

	var errs []error
	for _, p := range n.publishers {
		if err := p.Publish(ctx, event); err != nil {
			n.logger.Error().Err(err).
				Str("sink", p.Name()).
				Str("event_id", event.ID).
				Str("event_type", event.Type).
				Msg("failed to publish event")
			n.count(p.Name(), "error")
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		n.count(p.Name(), "sent")
	}

	return errors.Join(errs...)
}

func (n *Notifier) count(sink, status string) {
	if n.metrics != nil {
		n.metrics.NotificationsSent.WithLabelValues(sink, status).Inc()
	}
}

// LogPublisher writes events to a structured log.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Name implements Publisher.
func (p *LogPublisher) Name() string { return "log" }

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Time("occurred_at", event.OccurredAt).
		RawJSON("payload", event.Payload).
		Msg("event published")

	return nil
}
