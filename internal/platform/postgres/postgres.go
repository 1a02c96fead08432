package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

type Config struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

func NewPostgres(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the tables owned by this service. Statements are idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS cart_snapshots (
		key        TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS catalog_products (
		id                 TEXT PRIMARY KEY,
		handle             TEXT NOT NULL UNIQUE,
		title              TEXT NOT NULL,
		description        TEXT NOT NULL DEFAULT '',
		description_html   TEXT NOT NULL DEFAULT '',
		unit_price         NUMERIC(12,2) NOT NULL,
		currency           TEXT NOT NULL DEFAULT 'EUR',
		available_for_sale BOOLEAN NOT NULL DEFAULT TRUE,
		tags               TEXT NOT NULL DEFAULT '',
		category           TEXT NOT NULL DEFAULT '',
		vendor             TEXT NOT NULL DEFAULT '',
		image_url          TEXT,
		collection_handle  TEXT,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS checkout_sessions (
		id             TEXT PRIMARY KEY,
		session_id     TEXT NOT NULL,
		cart_session   TEXT NOT NULL,
		customer_email TEXT NOT NULL,
		first_name     TEXT NOT NULL,
		last_name      TEXT NOT NULL,
		phone          TEXT NOT NULL DEFAULT '',
		item_count     INTEGER NOT NULL,
		amount         NUMERIC(12,2) NOT NULL,
		items          JSONB NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
}
