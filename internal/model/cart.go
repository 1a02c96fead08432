package model

import "github.com/shopspring/decimal"

// CartItem is one line of the cart. JSON names follow the persisted blob format.
type CartItem struct {
	ProductID string          `json:"id"`
	VariantID string          `json:"variantId"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image,omitempty"`
	Handle    string          `json:"handle"`
}

type CartState struct {
	Items      []CartItem      `json:"items"`
	IsOpen     bool            `json:"isOpen"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// Clone returns a copy whose Items slice does not alias s.
func (s CartState) Clone() CartState {
	items := make([]CartItem, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}
