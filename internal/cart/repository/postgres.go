package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type PGStorage struct {
	DB *sqlx.DB
}

func NewPGStorage(db *sqlx.DB) *PGStorage {
	return &PGStorage{DB: db}
}

func (r *PGStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var payload string
	err := r.DB.GetContext(ctx, &payload, `SELECT payload FROM cart_snapshots WHERE key = $1`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return payload, true, nil
}

func (r *PGStorage) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO cart_snapshots (key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`
	_, err := r.DB.ExecContext(ctx, query, key, value)
	return err
}
