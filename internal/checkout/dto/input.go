package dto

import (
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/shopspring/decimal"
)

type CustomerInput struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone"`
}

// SubmitInput carries the order. Empty Items means "use the session cart".
type SubmitInput struct {
	Items        []model.CartItem `json:"items"`
	CustomerInfo CustomerInput    `json:"customerInfo" binding:"required"`
}

type SubmitResult struct {
	Success   bool            `json:"success"`
	SessionID string          `json:"sessionId"`
	Message   string          `json:"message"`
	Amount    decimal.Decimal `json:"amount"`
	ItemCount int             `json:"itemCount"`
}
