package cart

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

// UseCase exposes the cart operations per browsing session. None of them fail:
// unknown variant ids are no-ops and persistence problems only get logged.
type UseCase interface {
	GetCart(ctx context.Context, sessionID string) model.CartState
	AddItem(ctx context.Context, sessionID string, item model.CartItem) model.CartState
	RemoveItem(ctx context.Context, sessionID, variantID string) model.CartState
	UpdateQuantity(ctx context.Context, sessionID, variantID string, quantity int) model.CartState
	ClearCart(ctx context.Context, sessionID string) model.CartState
	ToggleCart(ctx context.Context, sessionID string) model.CartState
}
