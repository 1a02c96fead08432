package repository

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/shopspring/decimal"
)

// FallbackSource serves a fixed demo catalog. It never fails.
type FallbackSource struct {
	products    []model.Product
	collections []model.Collection
}

func NewFallbackSource() *FallbackSource {
	products := []model.Product{
		demoProduct("mock-1", "Professional Racing Helmet", "professional-racing-helmet",
			"High-performance motorcycle helmet with advanced safety features and aerodynamic design.",
			"/motorcycle-helmet-black.png", "299.99", "Helmet", "variant-1",
			[]string{"helmet", "safety", "racing"}),
		demoProduct("mock-2", "Racing Leather Gloves", "racing-leather-gloves",
			"Premium leather motorcycle gloves with reinforced knuckles and palm protection.",
			"/motorcycle-racing-gloves-leather.png", "89.99", "Gloves", "variant-2",
			[]string{"gloves", "leather", "protection"}),
		demoProduct("mock-3", "Sport Leather Jacket", "sport-leather-jacket",
			"Professional motorcycle jacket with CE-approved armor and premium leather construction.",
			"/motorcycle-jacket-sport-black-leather.png", "449.99", "Jacket", "variant-3",
			[]string{"jacket", "leather", "armor"}),
	}

	return &FallbackSource{
		products: products,
		collections: []model.Collection{{
			ID:          "mock-collection-1",
			Title:       "Safety Gear",
			Handle:      "safety-gear",
			Description: "Essential motorcycle safety equipment for every rider.",
			Products:    products,
		}},
	}
}

func demoProduct(id, title, handle, description, image, price, productType, variantID string, tags []string) model.Product {
	amount := decimal.RequireFromString(price)
	return model.Product{
		ID:               id,
		Title:            title,
		Handle:           handle,
		Description:      description,
		DescriptionHTML:  "<p>" + description + "</p>",
		UnitPrice:        amount,
		Currency:         "EUR",
		AvailableForSale: true,
		Tags:             tags,
		Category:         productType,
		Vendor:           "MotoGear Pro",
		Images:           []model.ProductImage{{URL: image, AltText: title}},
		Variants: []model.ProductVariant{{
			ID:               variantID,
			Title:            "Default Title",
			AvailableForSale: true,
			Price:            amount,
			Currency:         "EUR",
		}},
	}
}

func (s *FallbackSource) ListProducts(_ context.Context, limit int) ([]model.Product, error) {
	return head(s.products, limit), nil
}

func (s *FallbackSource) FindByHandle(_ context.Context, handle string) (*model.Product, error) {
	for i := range s.products {
		if s.products[i].Handle == handle {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (s *FallbackSource) ListCollections(_ context.Context, limit int) ([]model.Collection, error) {
	return head(s.collections, limit), nil
}

func (s *FallbackSource) FindCollection(_ context.Context, handle string, limit int) (*model.Collection, error) {
	for _, c := range s.collections {
		if c.Handle == handle {
			c.Products = head(c.Products, limit)
			return &c, nil
		}
	}
	return nil, nil
}

// head returns a copy of the first limit elements; limit <= 0 means all.
func head[T any](items []T, limit int) []T {
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}
	out := make([]T, limit)
	copy(out, items[:limit])
	return out
}
