package view

import (
	"slices"
	"strings"

	"github.com/fekuna/omnipos-storefront-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

// Sort orders products in place. The sort is stable; unknown keys leave the order as is.
func Sort(products []model.Product, key string) {
	cmp := comparator(key)
	if cmp == nil {
		return
	}
	slices.SortStableFunc(products, cmp)
}

func comparator(key string) func(a, b model.Product) int {
	switch key {
	case dto.SortPriceAsc:
		return func(a, b model.Product) int { return a.UnitPrice.Cmp(b.UnitPrice) }
	case dto.SortPriceDesc:
		return func(a, b model.Product) int { return b.UnitPrice.Cmp(a.UnitPrice) }
	case dto.SortNameAsc:
		return func(a, b model.Product) int { return strings.Compare(a.Title, b.Title) }
	case dto.SortNameDesc:
		return func(a, b model.Product) int { return strings.Compare(b.Title, a.Title) }
	case dto.SortNewest:
		// No creation time upstream; ids grow over time so reverse id order stands in.
		return func(a, b model.Product) int { return strings.Compare(b.ID, a.ID) }
	default:
		return nil
	}
}
