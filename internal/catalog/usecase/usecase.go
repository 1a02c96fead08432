package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/catalog"
	"github.com/fekuna/omnipos-storefront-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/catalog/view"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/search"
	"go.uber.org/zap"
)

// ListCache is satisfied by cache.RedisClient.
type ListCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// SearchIndex is satisfied by search.Client.
type SearchIndex interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc interface{}) error
	Search(ctx context.Context, index string, query map[string]interface{}) (*search.SearchResponse, error)
	Delete(ctx context.Context, index, id string) error
}

type Options struct {
	Cache     ListCache   // optional
	Index     SearchIndex // optional
	IndexName string
	CacheTTL  time.Duration

	ProductLimit           int
	CollectionLimit        int
	CollectionProductLimit int
}

const indexMapping = `{
	"mappings": {
		"properties": {
			"handle": { "type": "keyword" },
			"title": { "type": "text" },
			"description": { "type": "text" },
			"vendor": { "type": "text" },
			"category": { "type": "keyword" },
			"tags": { "type": "text" }
		}
	}
}`

// searchDocument is what gets indexed per product, keyed by handle.
type searchDocument struct {
	ID          string   `json:"id"`
	Handle      string   `json:"handle"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Vendor      string   `json:"vendor"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

type catalogUseCase struct {
	source   catalog.Source
	fallback catalog.Source
	opts     Options
	logger   logger.ZapLogger
}

func NewCatalogUseCase(source, fallback catalog.Source, opts Options, log logger.ZapLogger) catalog.UseCase {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.IndexName == "" {
		opts.IndexName = "storefront-products"
	}
	if opts.ProductLimit <= 0 {
		opts.ProductLimit = 50
	}
	if opts.CollectionLimit <= 0 {
		opts.CollectionLimit = 10
	}
	if opts.CollectionProductLimit <= 0 {
		opts.CollectionProductLimit = 100
	}

	if c, ok := source.(interface{ Configured() bool }); ok && !c.Configured() {
		log.Warn("product source not configured, serving demo catalog")
	}

	return &catalogUseCase{
		source:   source,
		fallback: fallback,
		opts:     opts,
		logger:   log,
	}
}

func (uc *catalogUseCase) ListProducts(ctx context.Context, limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = uc.opts.ProductLimit
	}

	cacheKey := uc.cacheKey("products", limit)
	var cached []model.Product
	if uc.fromCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	products, err := uc.source.ListProducts(ctx, limit)
	if err != nil {
		uc.logger.Warn("product source failed, using fallback catalog", zap.Error(err))
		return uc.fallback.ListProducts(ctx, limit)
	}

	uc.toCache(ctx, cacheKey, products)
	go uc.syncToElastic(context.Background(), products)

	return products, nil
}

func (uc *catalogUseCase) GetProduct(ctx context.Context, handle string) (*model.Product, error) {
	p, err := uc.source.FindByHandle(ctx, handle)
	if err != nil {
		uc.logger.Warn("product lookup failed, using fallback catalog", zap.String("handle", handle), zap.Error(err))
		p, err = uc.fallback.FindByHandle(ctx, handle)
		if err != nil {
			return nil, err
		}
	}
	if p == nil {
		uc.removeFromIndex(handle)
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

func (uc *catalogUseCase) ListCollections(ctx context.Context, limit int) ([]model.Collection, error) {
	if limit <= 0 {
		limit = uc.opts.CollectionLimit
	}

	cacheKey := uc.cacheKey("collections", limit)
	var cached []model.Collection
	if uc.fromCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	collections, err := uc.source.ListCollections(ctx, limit)
	if err != nil {
		uc.logger.Warn("collection source failed, using fallback catalog", zap.Error(err))
		return uc.fallback.ListCollections(ctx, limit)
	}

	uc.toCache(ctx, cacheKey, collections)
	return collections, nil
}

func (uc *catalogUseCase) GetCollection(ctx context.Context, handle string) (*model.Collection, error) {
	c, err := uc.source.FindCollection(ctx, handle, uc.opts.CollectionProductLimit)
	if err != nil {
		uc.logger.Warn("collection lookup failed, using fallback catalog", zap.String("handle", handle), zap.Error(err))
		c, err = uc.fallback.FindCollection(ctx, handle, uc.opts.CollectionProductLimit)
		if err != nil {
			return nil, err
		}
	}
	if c == nil {
		return nil, catalog.ErrCollectionNotFound
	}
	return c, nil
}

func (uc *catalogUseCase) View(ctx context.Context, criteria dto.FilterCriteria) (dto.ViewResult, error) {
	products, err := uc.ListProducts(ctx, uc.opts.ProductLimit)
	if err != nil {
		return dto.ViewResult{}, err
	}

	if term := strings.TrimSpace(criteria.SearchTerm); term != "" && uc.opts.Index != nil {
		// The index only narrows the candidates; the engine's search predicate decides.
		candidates, err := uc.searchElastic(ctx, term, products)
		switch {
		case err != nil:
			uc.logger.Error("ES search failed, falling back to in-memory filtering", zap.Error(err))
		case len(candidates) > 0:
			if result := view.Compute(candidates, criteria); result.TotalMatching > 0 {
				return result, nil
			}
			uc.logger.Debug("ES candidates matched nothing, searching the full catalog", zap.String("term", term))
		default:
			uc.logger.Debug("ES returned no candidates, searching the full catalog", zap.String("term", term))
		}
	}

	return view.Compute(products, criteria), nil
}

// searchElastic returns the products whose handle the index matched, in catalog order.
func (uc *catalogUseCase) searchElastic(ctx context.Context, term string, products []model.Product) ([]model.Product, error) {
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"query_string": map[string]interface{}{
				"query":            wildcardTerms(term),
				"default_operator": "OR",
				"analyze_wildcard": true,
				"fields":           []string{"title^3", "description", "vendor", "tags"},
			},
		},
		"size":    len(products),
		"_source": false,
	}

	res, err := uc.opts.Index.Search(ctx, uc.opts.IndexName, q)
	if err != nil {
		return nil, err
	}

	hits := make(map[string]struct{}, len(res.Hits.Hits))
	for _, h := range res.Hits.Hits {
		hits[h.ID] = struct{}{}
	}

	out := make([]model.Product, 0, len(hits))
	for _, p := range products {
		if _, ok := hits[p.Handle]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (uc *catalogUseCase) syncToElastic(ctx context.Context, products []model.Product) {
	if uc.opts.Index == nil {
		return
	}
	if err := uc.opts.Index.CreateIndex(ctx, uc.opts.IndexName, indexMapping); err != nil {
		uc.logger.Error("failed to create product index", zap.Error(err))
		return
	}

	for _, p := range products {
		doc := searchDocument{
			ID:          p.ID,
			Handle:      p.Handle,
			Title:       p.Title,
			Description: p.Description,
			Vendor:      p.Vendor,
			Category:    p.Category,
			Tags:        p.Tags,
		}
		if err := uc.opts.Index.Index(ctx, uc.opts.IndexName, p.Handle, doc); err != nil {
			uc.logger.Error("failed to index product", zap.String("handle", p.Handle), zap.Error(err))
		}
	}
}

func (uc *catalogUseCase) removeFromIndex(handle string) {
	if uc.opts.Index == nil {
		return
	}
	go func() {
		if err := uc.opts.Index.Delete(context.Background(), uc.opts.IndexName, handle); err != nil {
			uc.logger.Error("failed to delete product from ES", zap.String("handle", handle), zap.Error(err))
		}
	}()
}

func (uc *catalogUseCase) cacheKey(kind string, limit int) string {
	data, _ := json.Marshal(struct {
		Limit int `json:"limit"`
	}{limit})
	return fmt.Sprintf("catalog:%s:%x", kind, md5.Sum(data))
}

func (uc *catalogUseCase) fromCache(ctx context.Context, key string, out interface{}) bool {
	if uc.opts.Cache == nil {
		return false
	}
	val, err := uc.opts.Cache.Get(ctx, key)
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

func (uc *catalogUseCase) toCache(ctx context.Context, key string, v interface{}) {
	if uc.opts.Cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := uc.opts.Cache.Set(ctx, key, string(data), uc.opts.CacheTTL); err != nil {
		uc.logger.Warn("failed to cache catalog list", zap.String("key", key), zap.Error(err))
	}
}

var queryStringEscaper = strings.NewReplacer(
	`\`, `\\`, `+`, `\+`, `-`, `\-`, `=`, `\=`, `&`, `\&`, `|`, `\|`, `!`, `\!`,
	`(`, `\(`, `)`, `\)`, `{`, `\{`, `}`, `\}`, `[`, `\[`, `]`, `\]`, `^`, `\^`,
	`"`, `\"`, `~`, `\~`, `*`, `\*`, `?`, `\?`, `:`, `\:`, `/`, `\/`, `<`, ``, `>`, ``,
)

// wildcardTerms turns each word of term into an escaped *word* clause.
func wildcardTerms(term string) string {
	words := strings.Fields(term)
	for i, w := range words {
		words[i] = fmt.Sprintf("*%s*", escapeQueryString(w))
	}
	return strings.Join(words, " ")
}

// escapeQueryString escapes the query_string reserved characters; < and > cannot be
// escaped and are dropped.
func escapeQueryString(s string) string {
	return queryStringEscaper.Replace(s)
}
