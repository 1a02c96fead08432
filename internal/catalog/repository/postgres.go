package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const productColumns = `id, handle, title, description, description_html, unit_price, currency,
	available_for_sale, tags, category, vendor, image_url, collection_handle, created_at`

type productRow struct {
	ID               string          `db:"id"`
	Handle           string          `db:"handle"`
	Title            string          `db:"title"`
	Description      string          `db:"description"`
	DescriptionHTML  string          `db:"description_html"`
	UnitPrice        decimal.Decimal `db:"unit_price"`
	Currency         string          `db:"currency"`
	AvailableForSale bool            `db:"available_for_sale"`
	Tags             string          `db:"tags"`
	Category         string          `db:"category"`
	Vendor           string          `db:"vendor"`
	ImageURL         sql.NullString  `db:"image_url"`
	CollectionHandle sql.NullString  `db:"collection_handle"`
	CreatedAt        time.Time       `db:"created_at"`
}

// toModel maps a row to a product with a single default variant sharing the product id.
func (r *productRow) toModel() model.Product {
	p := model.Product{
		ID:               r.ID,
		Title:            r.Title,
		Handle:           r.Handle,
		Description:      r.Description,
		DescriptionHTML:  r.DescriptionHTML,
		UnitPrice:        r.UnitPrice,
		Currency:         r.Currency,
		AvailableForSale: r.AvailableForSale,
		Category:         r.Category,
		Vendor:           r.Vendor,
		Tags:             splitTags(r.Tags),
		Variants: []model.ProductVariant{{
			ID:               r.ID,
			Title:            "Default Title",
			AvailableForSale: r.AvailableForSale,
			Price:            r.UnitPrice,
			Currency:         r.Currency,
		}},
	}
	if r.ImageURL.Valid && r.ImageURL.String != "" {
		p.Images = []model.ProductImage{{URL: r.ImageURL.String, AltText: r.Title}}
	}
	return p
}

// PGSource reads products mirrored into the catalog_products table.
type PGSource struct {
	DB *sqlx.DB
}

func NewPGSource(db *sqlx.DB) *PGSource {
	return &PGSource{DB: db}
}

func (r *PGSource) ListProducts(ctx context.Context, limit int) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM catalog_products ORDER BY created_at, id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var rows []productRow
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

func (r *PGSource) FindByHandle(ctx context.Context, handle string) (*model.Product, error) {
	var row productRow
	query := `SELECT ` + productColumns + ` FROM catalog_products WHERE handle = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &row, query, handle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p := row.toModel()
	return &p, nil
}

// ListCollections derives one collection per distinct collection_handle.
func (r *PGSource) ListCollections(ctx context.Context, limit int) ([]model.Collection, error) {
	query := `SELECT DISTINCT collection_handle FROM catalog_products
		WHERE collection_handle IS NOT NULL AND collection_handle <> '' ORDER BY collection_handle`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var handles []string
	if err := r.DB.SelectContext(ctx, &handles, query, args...); err != nil {
		return nil, err
	}

	out := make([]model.Collection, 0, len(handles))
	for _, h := range handles {
		c, err := r.FindCollection(ctx, h, 20)
		if err != nil {
			return nil, err
		}
		if c != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *PGSource) FindCollection(ctx context.Context, handle string, limit int) (*model.Collection, error) {
	query := `SELECT ` + productColumns + ` FROM catalog_products WHERE collection_handle = $1 ORDER BY created_at, id`
	args := []interface{}{handle}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	var rows []productRow
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return &model.Collection{
		ID:       "collection-" + handle,
		Title:    collectionTitle(handle),
		Handle:   handle,
		Products: toProducts(rows),
	}, nil
}

func toProducts(rows []productRow) []model.Product {
	out := make([]model.Product, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out
}

func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// collectionTitle turns "safety-gear" into "Safety Gear".
func collectionTitle(handle string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(handle, "-", " "))
}
