package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func session() *model.CheckoutSession {
	return &model.CheckoutSession{
		ID:          "0b6a3c1e-1111-4c2e-9d7a-2f0c5b0e9a10",
		SessionID:   "mock_session_1767225600123",
		CartSession: "alice",
		Customer:    model.CustomerInfo{Email: "mari@example.ee", FirstName: "Mari", LastName: "Maasikas"},
		Items: []model.CartItem{
			{VariantID: "v1", UnitPrice: decimal.RequireFromString("299.99"), Quantity: 1},
		},
		ItemCount: 1,
		Amount:    decimal.RequireFromString("299.99"),
		CreatedAt: time.UnixMilli(1767225600123).UTC(),
	}
}

func TestPGRepository_Save(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPGRepository(sqlx.NewDb(db, "pgx"))

	s := session()
	mock.ExpectExec(`INSERT INTO checkout_sessions .* CAST\(\$10 AS JSONB\)`).
		WithArgs(
			s.ID, s.SessionID, "alice", "mari@example.ee", "Mari", "Maasikas",
			"", 1, sqlmock.AnyArg(), sqlmock.AnyArg(), s.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepository_SaveError(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPGRepository(sqlx.NewDb(db, "pgx"))

	mock.ExpectExec(`INSERT INTO checkout_sessions`).WillReturnError(errors.New("duplicate key"))

	assert.Error(t, repo.Save(context.Background(), session()))
}
