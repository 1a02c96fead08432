package dto

import "strings"

const All = "all"

// Price bands.
const (
	PriceUnder1000   = "under-1000"
	Price1000To5000  = "1000-5000"
	Price5000To15000 = "5000-15000"
	PriceOver15000   = "over-15000"
)

// Availability values.
const (
	Available   = "available"
	Unavailable = "unavailable"
)

// Sort keys.
const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNameAsc   = "name-asc"
	SortNameDesc  = "name-desc"
	SortNewest    = "newest"
)

const DefaultPageSize = 12

// PageSizes are the page sizes the storefront offers.
var PageSizes = []int{6, 12, 24, 48}

// Categories are the top level categories offered in the filter panel.
var Categories = []string{"motorcycles", "parts", "accessories", "gear"}

// FilterCriteria is the input of one catalog view computation. Empty strings and
// "all" both mean "no filter" for the optional dimensions.
type FilterCriteria struct {
	SearchTerm   string `json:"searchTerm" form:"search"`
	Category     string `json:"category" form:"category"`
	PriceBand    string `json:"priceRange" form:"price"`
	Availability string `json:"availability" form:"availability"`
	SortKey      string `json:"sortBy" form:"sort"`
	Page         int    `json:"page" form:"page"`
	PageSize     int    `json:"pageSize" form:"pageSize"`
}

// FilterPatch is a partial criteria update, as suggested by the chat assistant.
type FilterPatch struct {
	Category     string `json:"category,omitempty"`
	PriceBand    string `json:"priceRange,omitempty"`
	Availability string `json:"availability,omitempty"`
	SearchTerm   string `json:"searchTerm,omitempty"`
}

func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		Category:     All,
		PriceBand:    All,
		Availability: All,
		SortKey:      SortPriceAsc,
		Page:         1,
		PageSize:     DefaultPageSize,
	}
}

// Apply overrides the dimensions the patch sets (ignoring "all") and resets to page 1.
func (c FilterCriteria) Apply(p FilterPatch) FilterCriteria {
	if set(p.Category) {
		c.Category = p.Category
	}
	if set(p.PriceBand) {
		c.PriceBand = p.PriceBand
	}
	if set(p.Availability) {
		c.Availability = p.Availability
	}
	if strings.TrimSpace(p.SearchTerm) != "" {
		c.SearchTerm = p.SearchTerm
	}
	c.Page = 1
	return c
}

// Normalize fills blank dimensions with "all", clamps the page to 1 and replaces an
// unsupported page size with the default. Unknown enum values are kept as sent.
func (c FilterCriteria) Normalize() FilterCriteria {
	if c.Category == "" {
		c.Category = All
	}
	if c.PriceBand == "" {
		c.PriceBand = All
	}
	if c.Availability == "" {
		c.Availability = All
	}
	if c.SortKey == "" {
		c.SortKey = SortPriceAsc
	}
	if c.Page < 1 {
		c.Page = 1
	}
	if !IsPageSize(c.PageSize) {
		c.PageSize = DefaultPageSize
	}
	return c
}

// ActiveFilters counts the dimensions that narrow the list.
func (c FilterCriteria) ActiveFilters() int {
	n := 0
	if c.SearchTerm != "" {
		n++
	}
	for _, v := range []string{c.Category, c.PriceBand, c.Availability} {
		if set(v) {
			n++
		}
	}
	return n
}

// IsEmpty reports whether the patch carries no usable value.
func (p FilterPatch) IsEmpty() bool {
	return !set(p.Category) && !set(p.PriceBand) && !set(p.Availability) && strings.TrimSpace(p.SearchTerm) == ""
}

func IsPriceBand(v string) bool {
	switch v {
	case All, PriceUnder1000, Price1000To5000, Price5000To15000, PriceOver15000:
		return true
	}
	return false
}

func IsAvailability(v string) bool {
	return v == All || v == Available || v == Unavailable
}

func IsSortKey(v string) bool {
	switch v {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc, SortNewest:
		return true
	}
	return false
}

func IsPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

func set(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != All
}
