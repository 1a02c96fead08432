package catalog

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

// Source is where products come from. Lookups by handle return nil, nil when
// nothing matches.
type Source interface {
	ListProducts(ctx context.Context, limit int) ([]model.Product, error)
	FindByHandle(ctx context.Context, handle string) (*model.Product, error)
	ListCollections(ctx context.Context, limit int) ([]model.Collection, error)
	FindCollection(ctx context.Context, handle string, limit int) (*model.Collection, error)
}
