package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-storefront-service/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productsPayload = `{"data":{"products":{"edges":[{"node":{
	"id":"gid://shopify/Product/1",
	"title":"Kawasaki Ninja 650",
	"handle":"kawasaki-ninja-650",
	"description":"",
	"descriptionHtml":"<p>Sport <b>bike</b></p>\n<ul><li>ABS</li></ul>",
	"images":{"edges":[{"node":{"url":"https://cdn/ninja.png","altText":"Ninja"}}]},
	"priceRange":{"minVariantPrice":{"amount":"8499.0","currencyCode":"EUR"}},
	"availableForSale":true,
	"tags":["sport"],
	"productType":"Motorcycles",
	"vendor":"Kawasaki",
	"variants":{"edges":[{"node":{"id":"gid://shopify/ProductVariant/11","title":"Green","availableForSale":false,"price":{"amount":"8499.0","currencyCode":"EUR"}}}]}
}}]}}}`

func newTestShopify(t *testing.T, handler http.HandlerFunc) *ShopifySource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewShopifySource(ShopifyConfig{StoreDomain: "moto.myshopify.com", StorefrontToken: "token"})
	s.endpoint = srv.URL
	return s
}

func TestShopifySource_ListProducts(t *testing.T) {
	t.Parallel()

	var gotBody map[string]interface{}
	s := newTestShopify(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "token", r.Header.Get("X-Shopify-Storefront-Access-Token"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(productsPayload))
	})

	products, err := s.ListProducts(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "kawasaki-ninja-650", p.Handle)
	assert.Equal(t, "Sport bike ABS", p.Description)
	assert.Equal(t, "8499", p.UnitPrice.String())
	assert.Equal(t, "Motorcycles", p.Category)
	assert.Equal(t, "https://cdn/ninja.png", p.ImageURL())
	require.Len(t, p.Variants, 1)
	assert.False(t, p.Variants[0].AvailableForSale)
	assert.Equal(t, float64(50), gotBody["variables"].(map[string]interface{})["first"])
}

func TestShopifySource_FindByHandleMissing(t *testing.T) {
	t.Parallel()

	s := newTestShopify(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"product":null}}`))
	})

	p, err := s.FindByHandle(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestShopifySource_FindCollectionLimitsProducts(t *testing.T) {
	t.Parallel()

	s := newTestShopify(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"collection":{"id":"c1","title":"Bikes","handle":"bikes","description":"",
			"products":{"edges":[{"node":{"id":"1","title":"A","handle":"a"}},{"node":{"id":"2","title":"B","handle":"b"}}]}}}}`))
	})

	c, err := s.FindCollection(context.Background(), "bikes", 1)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Bikes", c.Title)
	require.Len(t, c.Products, 1)
	assert.Equal(t, "a", c.Products[0].Handle)
}

func TestShopifySource_Errors(t *testing.T) {
	t.Parallel()

	t.Run("http status", func(t *testing.T) {
		s := newTestShopify(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "denied", http.StatusUnauthorized)
		})
		_, err := s.ListProducts(context.Background(), 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("graphql errors", func(t *testing.T) {
		s := newTestShopify(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"errors":[{"message":"throttled"},{"message":"bad field"}]}`))
		})
		_, err := s.ListCollections(context.Background(), 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "throttled, bad field")
	})

	t.Run("not configured", func(t *testing.T) {
		s := NewShopifySource(ShopifyConfig{StoreDomain: "moto.myshopify.com"})
		assert.False(t, s.Configured())
		_, err := s.FindByHandle(context.Background(), "x")
		assert.ErrorIs(t, err, catalog.ErrNotConfigured)
	})
}
