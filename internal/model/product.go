package model

import "github.com/shopspring/decimal"

type Product struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Handle           string           `json:"handle"`
	Description      string           `json:"description"`
	DescriptionHTML  string           `json:"descriptionHtml,omitempty"`
	UnitPrice        decimal.Decimal  `json:"price"`
	Currency         string           `json:"currency"`
	AvailableForSale bool             `json:"availableForSale"`
	Tags             []string         `json:"tags"`
	Category         string           `json:"category"` // productType upstream
	Vendor           string           `json:"vendor"`
	Images           []ProductImage   `json:"images,omitempty"`
	Variants         []ProductVariant `json:"variants,omitempty"`
}

type ProductImage struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

type ProductVariant struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	AvailableForSale bool            `json:"availableForSale"`
	Price            decimal.Decimal `json:"price"`
	Currency         string          `json:"currency"`
}

type Collection struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	Description string    `json:"description"`
	Products    []Product `json:"products,omitempty"`
}

// ImageURL is the first image, or empty.
func (p *Product) ImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// Variant looks up a variant by id.
func (p *Product) Variant(id string) (ProductVariant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return ProductVariant{}, false
}
