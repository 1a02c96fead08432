package catalog

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-storefront-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrNotConfigured is returned by a source whose credentials are missing.
	ErrNotConfigured = errors.New("product source not configured")
)

type UseCase interface {
	ListProducts(ctx context.Context, limit int) ([]model.Product, error)
	GetProduct(ctx context.Context, handle string) (*model.Product, error)
	ListCollections(ctx context.Context, limit int) ([]model.Collection, error)
	GetCollection(ctx context.Context, handle string) (*model.Collection, error)

	// View computes one catalog page for the given criteria.
	View(ctx context.Context, criteria dto.FilterCriteria) (dto.ViewResult, error)
}
