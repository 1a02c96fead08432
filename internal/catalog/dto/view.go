package dto

import "github.com/fekuna/omnipos-storefront-service/internal/model"

// Ellipsis marks a gap in PageNumbers.
const Ellipsis = 0

type ViewResult struct {
	PageItems     []model.Product `json:"products"`
	TotalMatching int             `json:"totalMatching"`
	TotalPages    int             `json:"totalPages"`
	Page          int             `json:"page"`
	PageSize      int             `json:"pageSize"`
	ActiveFilters int             `json:"activeFilters"`
	PageNumbers   []int           `json:"pageNumbers"`
}
