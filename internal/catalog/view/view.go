// Package view turns a product list and filter criteria into one catalog page.
// Everything here is pure: inputs are never mutated and no state is kept.
package view

import (
	"github.com/fekuna/omnipos-storefront-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

const maxVisiblePages = 5

// Compute filters, sorts and paginates products. An out of range page yields an
// empty page; correcting the page is the caller's job.
func Compute(products []model.Product, c dto.FilterCriteria) dto.ViewResult {
	filtered := Filter(products, c)
	Sort(filtered, c.SortKey)

	total := len(filtered)
	pages := totalPages(total, c.PageSize)

	return dto.ViewResult{
		PageItems:     pageSlice(filtered, c.Page, c.PageSize),
		TotalMatching: total,
		TotalPages:    pages,
		Page:          c.Page,
		PageSize:      c.PageSize,
		ActiveFilters: c.ActiveFilters(),
		PageNumbers:   PageNumbers(c.Page, pages),
	}
}

// Filter returns the matching products in input order, in a new slice.
func Filter(products []model.Product, c dto.FilterCriteria) []model.Product {
	out := make([]model.Product, 0, len(products))
	for i := range products {
		if Match(&products[i], c) {
			out = append(out, products[i])
		}
	}
	return out
}

func totalPages(total, pageSize int) int {
	if total == 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func pageSlice(products []model.Product, page, pageSize int) []model.Product {
	if page < 1 || pageSize <= 0 {
		return []model.Product{}
	}
	start := (page - 1) * pageSize
	if start >= len(products) {
		return []model.Product{}
	}
	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

// PageNumbers lays out the pager: every page when there are at most five, otherwise
// the first and last page around a three or four page window, dto.Ellipsis marking gaps.
func PageNumbers(current, total int) []int {
	pages := []int{}
	if total <= maxVisiblePages {
		for i := 1; i <= total; i++ {
			pages = append(pages, i)
		}
		return pages
	}

	switch {
	case current <= 3:
		pages = append(pages, 1, 2, 3, 4, dto.Ellipsis, total)
	case current >= total-2:
		pages = append(pages, 1, dto.Ellipsis)
		for i := total - 3; i <= total; i++ {
			pages = append(pages, i)
		}
	default:
		pages = append(pages, 1, dto.Ellipsis, current-1, current, current+1, dto.Ellipsis, total)
	}
	return pages
}
