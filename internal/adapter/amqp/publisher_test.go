package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/billcycle/internal/adapter/notify"
	"github.com/iho/billcycle/internal/domain"
)

type publishCall struct {
	exchange string
	key      string
	msg      amqp091.Publishing
	deadline bool
}

type fakeChannel struct {
	calls  []publishCall
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	_, hasDeadline := ctx.Deadline()
	f.calls = append(f.calls, publishCall{exchange: exchange, key: key, msg: msg, deadline: hasDeadline})
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "billing", "billing.events")

	occurred := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	event := notify.Event{
		ID:         "evt-1",
		Type:       domain.EventTypeRecurringChargeSkipped,
		OccurredAt: occurred,
		Payload:    json.RawMessage(`{"card_id":"card-1"}`),
	}

	require.NoError(t, p.Publish(context.Background(), event))
	require.Len(t, ch.calls, 1)

	call := ch.calls[0]
	assert.Equal(t, "billing", call.exchange)
	assert.Equal(t, "billing.events", call.key)
	assert.True(t, call.deadline)
	assert.Equal(t, "application/json", call.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, call.msg.DeliveryMode)
	assert.Equal(t, "evt-1", call.msg.MessageId)
	assert.Equal(t, domain.EventTypeRecurringChargeSkipped, call.msg.Type)
	assert.Equal(t, occurred, call.msg.Timestamp)

	var decoded notify.Event
	require.NoError(t, json.Unmarshal(call.msg.Body, &decoded))
	assert.Equal(t, "evt-1", decoded.ID)
	assert.JSONEq(t, `{"card_id":"card-1"}`, string(decoded.Payload))
}

func TestPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newPublisher(ch, "billing", "billing.events")

	err := p.Publish(context.Background(), notify.Event{ID: "evt-1", Type: domain.EventTypeSyncCompleted})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.EventTypeSyncCompleted)
	assert.ErrorContains(t, err, "channel closed")
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "billing", "billing.events")

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestNewPublisher_InvalidURL(t *testing.T) {
	_, err := NewPublisher("amqp://127.0.0.1:1/", "billing", "billing.events")
	require.Error(t, err)
}
