package messaging

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBookingEvent_RoutingKey(t *testing.T) {
	assert.Equal(t, "booking.created", BookingEvent{Type: BookingCreated}.RoutingKey())
	assert.Equal(t, "booking.released", BookingEvent{Type: BookingReleased}.RoutingKey())
}

func TestLogPublisher_Publish(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p := NewLogPublisher(zap.New(core))

	id := uuid.New()
	err := p.Publish(context.Background(), BookingEvent{Type: BookingPaid, BookingID: id, Reference: "BKG-1"})
	assert.NoError(t, err)

	entries := logs.FilterField(zap.String("routing_key", "booking.paid")).All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, id.String(), entries[0].ContextMap()["booking_id"])
	}
}
