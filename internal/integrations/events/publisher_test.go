package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.exchange = exchange
	f.key = key
	f.msg = msg
	return f.err
}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:           uuid.New(),
		ExperienceID: uuid.New(),
		SlotID:       uuid.New(),
		Email:        "asha@example.com",
		Quantity:     2,
		Total:        decimal.RequireFromString("2097.9"),
		BookingRef:   "HUFAB12CD34",
		Status:       domain.StatusConfirmed,
	}
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, "bookings")
	at := time.Date(2025, 10, 22, 10, 0, 0, 0, time.UTC)

	event := NewBookingEvent(BookingConfirmed, testBooking(), at)
	require.NoError(t, p.Publish(context.Background(), event))

	assert.Equal(t, "bookings", ch.exchange)
	assert.Equal(t, "booking.confirmed", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, "HUFAB12CD34", ch.msg.MessageId)

	var got BookingEvent
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, "2097.90", got.Total)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, at, got.OccurredAt)
}

func TestPublisher_Publish_ChannelError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := NewPublisher(ch, "bookings")

	err := p.Publish(context.Background(), NewBookingEvent(BookingCancelled, testBooking(), time.Now()))
	assert.ErrorIs(t, err, ErrPublish)
	assert.Equal(t, "booking.cancelled", ch.key)
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	assert.NoError(t, p.Publish(context.Background(), BookingEvent{}))
}
