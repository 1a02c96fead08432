package publisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	key   string
	value []byte
}

func (w *recordingWriter) Publish(_ context.Context, key string, value []byte) error {
	w.key, w.value = key, value
	return nil
}

type recordingCarts struct {
	cleared []string
}

func (c *recordingCarts) ClearCart(_ context.Context, sessionID string) model.CartState {
	c.cleared = append(c.cleared, sessionID)
	return model.CartState{}
}

func event(cartSession string) model.OrderCompletedEvent {
	return model.OrderCompletedEvent{
		EventID:   "e1",
		EventType: model.EventTypeOrderCompleted,
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Payload: model.OrderCompletedPayload{
			CheckoutID:  "c1",
			SessionID:   "mock_session_1",
			CartSession: cartSession,
			ItemCount:   2,
			Amount:      decimal.RequireFromString("389.98"),
		},
	}
}

func TestKafkaPublisher(t *testing.T) {
	t.Parallel()
	w := &recordingWriter{}

	require.NoError(t, NewKafkaPublisher(w).PublishOrderCompleted(context.Background(), event("alice")))

	assert.Equal(t, "alice", w.key)
	var got model.OrderCompletedEvent
	require.NoError(t, json.Unmarshal(w.value, &got))
	assert.Equal(t, model.EventTypeOrderCompleted, got.EventType)
	assert.Equal(t, "389.98", got.Payload.Amount.String())
}

func TestLocalPublisher(t *testing.T) {
	t.Parallel()
	carts := &recordingCarts{}
	p := NewLocalPublisher(carts)

	require.NoError(t, p.PublishOrderCompleted(context.Background(), event("alice")))
	require.NoError(t, p.PublishOrderCompleted(context.Background(), event("")))

	assert.Equal(t, []string{"alice"}, carts.cleared)
}
