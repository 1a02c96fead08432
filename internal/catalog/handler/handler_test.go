package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-storefront-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/catalog/repository"
	"github.com/fekuna/omnipos-storefront-service/internal/catalog/usecase"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/i18n"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenSource struct{}

func (brokenSource) ListProducts(context.Context, int) ([]model.Product, error) {
	return nil, errors.New("unreachable")
}
func (brokenSource) FindByHandle(context.Context, string) (*model.Product, error) {
	return nil, errors.New("unreachable")
}
func (brokenSource) ListCollections(context.Context, int) ([]model.Collection, error) {
	return nil, errors.New("unreachable")
}
func (brokenSource) FindCollection(context.Context, string, int) (*model.Collection, error) {
	return nil, errors.New("unreachable")
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uc := usecase.NewCatalogUseCase(brokenSource{}, repository.NewFallbackSource(), usecase.Options{}, logger.NewNop())
	h := NewCatalogHandler(uc, i18n.MustNew("et"), logger.NewNop())

	r := gin.New()
	h.Register(r.Group("/api"))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept-Language", "en")
	r.ServeHTTP(w, req)
	return w
}

func TestCatalogHandler_ListProducts(t *testing.T) {
	t.Parallel()
	r := newRouter(t)

	w := get(r, "/api/products?sort=price-desc&pageSize=7")
	require.Equal(t, http.StatusOK, w.Code)

	var body viewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Products, 3)
	assert.Equal(t, "sport-leather-jacket", body.Products[0].Handle)
	assert.Equal(t, "449,99 €", body.Products[0].PriceFormatted)
	assert.Equal(t, dto.DefaultPageSize, body.PageSize, "unsupported page size falls back")
	assert.Equal(t, dto.All, body.Criteria.Category)
}

func TestCatalogHandler_ListProductsFiltersAndClampsPage(t *testing.T) {
	t.Parallel()
	r := newRouter(t)

	w := get(r, "/api/products?search=leather&page=9&pageSize=6")
	require.Equal(t, http.StatusOK, w.Code)

	var body viewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.TotalMatching)
	assert.Equal(t, 1, body.Page)
	assert.Len(t, body.Products, 2)
	assert.Equal(t, 1, body.ActiveFilters)
}

func TestCatalogHandler_BadQuery(t *testing.T) {
	t.Parallel()
	r := newRouter(t)

	w := get(r, "/api/products?page=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandler_GetProduct(t *testing.T) {
	t.Parallel()
	r := newRouter(t)

	w := get(r, "/api/products/racing-leather-gloves")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"priceFormatted":"89,99 €"`)

	w = get(r, "/api/products/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestCatalogHandler_Collections(t *testing.T) {
	t.Parallel()
	r := newRouter(t)

	w := get(r, "/api/collections")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"handle":"safety-gear"`)

	w = get(r, "/api/collections/safety-gear")
	require.Equal(t, http.StatusOK, w.Code)

	var col collectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &col))
	assert.Len(t, col.Products, 3)

	w = get(r, "/api/collections/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
