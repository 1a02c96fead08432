package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPGStorage(t *testing.T) (*PGStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPGStorage(sqlx.NewDb(db, "pgx")), mock
}

const selectSnapshot = `SELECT payload FROM cart_snapshots WHERE key = $1`

func TestPGStorage_GetMissingRow(t *testing.T) {
	t.Parallel()
	s, mock := newPGStorage(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectSnapshot)).
		WithArgs("session:a:cart").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	_, found, err := s.Get(context.Background(), "session:a:cart")
	require.NoError(t, err, "no row is not an error")
	assert.False(t, found)
}

func TestPGStorage_GetRow(t *testing.T) {
	t.Parallel()
	s, mock := newPGStorage(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectSnapshot)).
		WithArgs("cart").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(`[{"variantId":"v1"}]`))

	v, found, err := s.Get(context.Background(), "cart")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"variantId":"v1"}]`, v)
}

func TestPGStorage_GetError(t *testing.T) {
	t.Parallel()
	s, mock := newPGStorage(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectSnapshot)).
		WithArgs("cart").
		WillReturnError(errors.New("connection refused"))

	_, found, err := s.Get(context.Background(), "cart")
	assert.Error(t, err)
	assert.False(t, found)
}

func TestPGStorage_SetUpserts(t *testing.T) {
	t.Parallel()
	s, mock := newPGStorage(t)
	mock.ExpectExec(`INSERT INTO cart_snapshots .* ON CONFLICT \(key\) DO UPDATE`).
		WithArgs("cart", "[]").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Set(context.Background(), "cart", "[]"))
}
