package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CustomerInfo struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

type CheckoutSession struct {
	ID          string          `json:"id"`
	SessionID   string          `json:"sessionId"`
	CartSession string          `json:"cartSession"`
	Customer    CustomerInfo    `json:"customer"`
	Items       []CartItem      `json:"items"`
	ItemCount   int             `json:"itemCount"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

const EventTypeOrderCompleted = "OrderCompleted"

// OrderCompletedEvent is published after a checkout succeeds; the cart clears on it.
type OrderCompletedEvent struct {
	EventID   string                `json:"event_id"`
	EventType string                `json:"event_type"`
	Payload   OrderCompletedPayload `json:"payload"`
	Timestamp time.Time             `json:"timestamp"`
}

type OrderCompletedPayload struct {
	CheckoutID  string          `json:"checkout_id"`
	SessionID   string          `json:"session_id"`
	CartSession string          `json:"cart_session"`
	ItemCount   int             `json:"item_count"`
	Amount      decimal.Decimal `json:"amount"`
}
