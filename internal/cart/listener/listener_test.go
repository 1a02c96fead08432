package listener

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/cart/repository"
	"github.com/fekuna/omnipos-storefront-service/internal/cart/usecase"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/logger"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	msgs chan kafka.Message
	errs chan error
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case err := <-f.errs:
		return kafka.Message{}, err
	case m := <-f.msgs:
		return m, nil
	}
}

func encode(t *testing.T, ev model.OrderCompletedEvent) kafka.Message {
	t.Helper()
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafka.Message{Value: b}
}

func TestOrderListener_clearsCartOnOrderCompleted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	uc := usecase.NewCartUseCase(repository.NewMemoryStorage(), logger.NewNop())
	uc.AddItem(ctx, "s1", model.CartItem{VariantID: "v1", UnitPrice: decimal.NewFromInt(10), Quantity: 2})
	uc.AddItem(ctx, "s2", model.CartItem{VariantID: "v1", UnitPrice: decimal.NewFromInt(10), Quantity: 1})

	reader := &fakeReader{msgs: make(chan kafka.Message, 4), errs: make(chan error, 1)}
	l := NewOrderListener(reader, uc, logger.NewNop())
	l.backoff = time.Millisecond

	reader.errs <- errors.New("broker hiccup")
	reader.msgs <- kafka.Message{Value: []byte("garbage")}
	reader.msgs <- encode(t, model.OrderCompletedEvent{EventType: "SomethingElse", Payload: model.OrderCompletedPayload{CartSession: "s2"}})
	reader.msgs <- encode(t, model.OrderCompletedEvent{EventType: model.EventTypeOrderCompleted, Payload: model.OrderCompletedPayload{CartSession: "s1"}})

	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return uc.GetCart(ctx, "s1").TotalItems == 0
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, uc.GetCart(ctx, "s2").TotalItems)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not stop")
	}
}
