package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type sessionRow struct {
	ID            string          `db:"id"`
	SessionID     string          `db:"session_id"`
	CartSession   string          `db:"cart_session"`
	CustomerEmail string          `db:"customer_email"`
	FirstName     string          `db:"first_name"`
	LastName      string          `db:"last_name"`
	Phone         string          `db:"phone"`
	ItemCount     int             `db:"item_count"`
	Amount        decimal.Decimal `db:"amount"`
	Items         string          `db:"items"`
	CreatedAt     time.Time       `db:"created_at"`
}

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Save(ctx context.Context, s *model.CheckoutSession) error {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO checkout_sessions (
            id, session_id, cart_session, customer_email, first_name, last_name,
            phone, item_count, amount, items, created_at
        )
        VALUES (
            :id, :session_id, :cart_session, :customer_email, :first_name, :last_name,
            :phone, :item_count, :amount, CAST(:items AS JSONB), :created_at
        )
    `
	_, err = r.DB.NamedExecContext(ctx, query, sessionRow{
		ID:            s.ID,
		SessionID:     s.SessionID,
		CartSession:   s.CartSession,
		CustomerEmail: s.Customer.Email,
		FirstName:     s.Customer.FirstName,
		LastName:      s.Customer.LastName,
		Phone:         s.Customer.Phone,
		ItemCount:     s.ItemCount,
		Amount:        s.Amount,
		Items:         string(items),
		CreatedAt:     s.CreatedAt,
	})
	return err
}
