package checkout

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-storefront-service/internal/checkout/dto"
)

var (
	ErrInvalidCustomer    = errors.New("email, first name and last name are required")
	ErrEmptyCart          = errors.New("checkout needs at least one item")
	ErrCheckoutInProgress = errors.New("checkout already in progress for this session")
)

type UseCase interface {
	// Submit creates a mock checkout session for the cart session's items.
	Submit(ctx context.Context, cartSession string, input *dto.SubmitInput) (*dto.SubmitResult, error)
}
