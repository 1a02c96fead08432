package publisher

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

// CartClearer is satisfied by cart.UseCase.
type CartClearer interface {
	ClearCart(ctx context.Context, sessionID string) model.CartState
}

// LocalPublisher handles OrderCompleted in process when no broker is configured.
type LocalPublisher struct {
	carts CartClearer
}

func NewLocalPublisher(carts CartClearer) *LocalPublisher {
	return &LocalPublisher{carts: carts}
}

func (p *LocalPublisher) PublishOrderCompleted(ctx context.Context, event model.OrderCompletedEvent) error {
	if event.Payload.CartSession != "" {
		p.carts.ClearCart(ctx, event.Payload.CartSession)
	}
	return nil
}
