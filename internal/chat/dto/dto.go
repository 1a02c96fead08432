package dto

import (
	catalogdto "github.com/fekuna/omnipos-storefront-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

// ProductContext is the trimmed product summary shown to the assistant.
type ProductContext struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Available   bool   `json:"available"`
	Category    string `json:"category"`
	Tags        string `json:"tags"`
}

type Prompt struct {
	Message  string
	Products []ProductContext
}

// RawSuggestion is the assistant's answer before validation.
type RawSuggestion struct {
	Message             string      `json:"message"`
	RecommendedProducts []string    `json:"recommendedProducts"`
	Filters             *RawFilters `json:"filters,omitempty"`
}

type RawFilters struct {
	Category     string `json:"category,omitempty"`
	PriceRange   string `json:"priceRange,omitempty"`
	Availability string `json:"availability,omitempty"`
	SearchTerm   string `json:"searchTerm,omitempty"`
}

type Suggestion struct {
	Message             string                  `json:"message"`
	RecommendedProducts []model.Product         `json:"recommendedProducts"`
	Filters             *catalogdto.FilterPatch `json:"filters"`
}
