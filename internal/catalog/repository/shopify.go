package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fekuna/omnipos-storefront-service/internal/catalog"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/money"
	"github.com/pkg/errors"
)

const productFields = `
	id
	title
	handle
	description
	descriptionHtml
	images(first: 10) { edges { node { url altText } } }
	priceRange { minVariantPrice { amount currencyCode } }
	availableForSale
	tags
	productType
	vendor`

const variantFields = `
	variants(first: 20) { edges { node { id title availableForSale price { amount currencyCode } } } }`

var (
	productsQuery = `query getProducts($first: Int!) {
  products(first: $first) { edges { node {` + productFields + variantFields + ` } } }
}`
	productQuery = `query getProduct($handle: String!) {
  product(handle: $handle) {` + productFields + variantFields + ` }
}`
	collectionsQuery = `query getCollections($first: Int!) {
  collections(first: $first) { edges { node { id title handle description
    products(first: 20) { edges { node {` + productFields + variantFields + ` } } } } } }
}`
	collectionQuery = `query getCollection($handle: String!) {
  collection(handle: $handle) { id title handle description
    products(first: 100) { edges { node {` + productFields + variantFields + ` } } } }
}`
)

type ShopifyConfig struct {
	StoreDomain     string
	StorefrontToken string
	APIVersion      string
	Timeout         time.Duration
}

// ShopifySource reads the catalog from the Shopify Storefront GraphQL API.
type ShopifySource struct {
	cfg      ShopifyConfig
	client   *http.Client
	endpoint string
}

func NewShopifySource(cfg ShopifyConfig) *ShopifySource {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2023-10"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &ShopifySource{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		endpoint: fmt.Sprintf("https://%s/api/%s/graphql.json", cfg.StoreDomain, cfg.APIVersion),
	}
}

// Configured reports whether both the store domain and the access token are set.
func (s *ShopifySource) Configured() bool {
	return s.cfg.StoreDomain != "" && s.cfg.StorefrontToken != ""
}

func (s *ShopifySource) ListProducts(ctx context.Context, limit int) ([]model.Product, error) {
	var data struct {
		Products connection[shopifyProduct] `json:"products"`
	}
	if err := s.query(ctx, productsQuery, map[string]interface{}{"first": limit}, &data); err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return mapProducts(data.Products), nil
}

func (s *ShopifySource) FindByHandle(ctx context.Context, handle string) (*model.Product, error) {
	var data struct {
		Product *shopifyProduct `json:"product"`
	}
	if err := s.query(ctx, productQuery, map[string]interface{}{"handle": handle}, &data); err != nil {
		return nil, errors.Wrapf(err, "find product %q", handle)
	}
	if data.Product == nil {
		return nil, nil
	}
	p := data.Product.toModel()
	return &p, nil
}

func (s *ShopifySource) ListCollections(ctx context.Context, limit int) ([]model.Collection, error) {
	var data struct {
		Collections connection[shopifyCollection] `json:"collections"`
	}
	if err := s.query(ctx, collectionsQuery, map[string]interface{}{"first": limit}, &data); err != nil {
		return nil, errors.Wrap(err, "list collections")
	}
	out := make([]model.Collection, 0, len(data.Collections.Edges))
	for _, e := range data.Collections.Edges {
		out = append(out, e.Node.toModel(0))
	}
	return out, nil
}

func (s *ShopifySource) FindCollection(ctx context.Context, handle string, limit int) (*model.Collection, error) {
	var data struct {
		Collection *shopifyCollection `json:"collection"`
	}
	if err := s.query(ctx, collectionQuery, map[string]interface{}{"handle": handle}, &data); err != nil {
		return nil, errors.Wrapf(err, "find collection %q", handle)
	}
	if data.Collection == nil {
		return nil, nil
	}
	c := data.Collection.toModel(limit)
	return &c, nil
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

func (s *ShopifySource) query(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	if !s.Configured() {
		return catalog.ErrNotConfigured
	}

	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": variables})
	if err != nil {
		return errors.Wrap(err, "encode graphql request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build shopify request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", s.cfg.StorefrontToken)

	res, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "shopify request")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return errors.Errorf("shopify api error: %d %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}

	var gql graphQLResponse
	if err := json.NewDecoder(res.Body).Decode(&gql); err != nil {
		return errors.Wrap(err, "decode shopify response")
	}
	if len(gql.Errors) > 0 {
		msgs := make([]string, len(gql.Errors))
		for i, e := range gql.Errors {
			msgs[i] = e.Message
		}
		return errors.Errorf("graphql errors: %s", strings.Join(msgs, ", "))
	}
	if err := json.Unmarshal(gql.Data, out); err != nil {
		return errors.Wrap(err, "decode shopify data")
	}
	return nil
}

type connection[T any] struct {
	Edges []struct {
		Node T `json:"node"`
	} `json:"edges"`
}

type shopifyMoney struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type shopifyVariant struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	AvailableForSale bool         `json:"availableForSale"`
	Price            shopifyMoney `json:"price"`
}

type shopifyProduct struct {
	ID              string                         `json:"id"`
	Title           string                         `json:"title"`
	Handle          string                         `json:"handle"`
	Description     string                         `json:"description"`
	DescriptionHTML string                         `json:"descriptionHtml"`
	Images          connection[model.ProductImage] `json:"images"`
	PriceRange      struct {
		MinVariantPrice shopifyMoney `json:"minVariantPrice"`
	} `json:"priceRange"`
	AvailableForSale bool                       `json:"availableForSale"`
	Tags             []string                   `json:"tags"`
	ProductType      string                     `json:"productType"`
	Vendor           string                     `json:"vendor"`
	Variants         connection[shopifyVariant] `json:"variants"`
}

type shopifyCollection struct {
	ID          string                     `json:"id"`
	Title       string                     `json:"title"`
	Handle      string                     `json:"handle"`
	Description string                     `json:"description"`
	Products    connection[shopifyProduct] `json:"products"`
}

func (sp *shopifyProduct) toModel() model.Product {
	p := model.Product{
		ID:               sp.ID,
		Title:            sp.Title,
		Handle:           sp.Handle,
		Description:      sp.Description,
		DescriptionHTML:  sp.DescriptionHTML,
		UnitPrice:        money.Parse(sp.PriceRange.MinVariantPrice.Amount),
		Currency:         sp.PriceRange.MinVariantPrice.CurrencyCode,
		AvailableForSale: sp.AvailableForSale,
		Tags:             sp.Tags,
		Category:         sp.ProductType,
		Vendor:           sp.Vendor,
	}
	if p.Description == "" && p.DescriptionHTML != "" {
		p.Description = htmlToText(p.DescriptionHTML)
	}
	for _, e := range sp.Images.Edges {
		p.Images = append(p.Images, e.Node)
	}
	for _, e := range sp.Variants.Edges {
		p.Variants = append(p.Variants, model.ProductVariant{
			ID:               e.Node.ID,
			Title:            e.Node.Title,
			AvailableForSale: e.Node.AvailableForSale,
			Price:            money.Parse(e.Node.Price.Amount),
			Currency:         e.Node.Price.CurrencyCode,
		})
	}
	return p
}

// toModel converts the collection, keeping at most limit products (all when limit <= 0).
func (sc *shopifyCollection) toModel(limit int) model.Collection {
	edges := sc.Products.Edges
	if limit > 0 && len(edges) > limit {
		edges = edges[:limit]
	}
	c := model.Collection{
		ID:          sc.ID,
		Title:       sc.Title,
		Handle:      sc.Handle,
		Description: sc.Description,
		Products:    make([]model.Product, 0, len(edges)),
	}
	for _, e := range edges {
		c.Products = append(c.Products, e.Node.toModel())
	}
	return c
}

func mapProducts(conn connection[shopifyProduct]) []model.Product {
	out := make([]model.Product, 0, len(conn.Edges))
	for _, e := range conn.Edges {
		out = append(out, e.Node.toModel())
	}
	return out
}

// htmlToText flattens an HTML fragment to its text content.
func htmlToText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
