package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/catalog"
	"github.com/fekuna/omnipos-storefront-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/i18n"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/money"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	uc     catalog.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewCatalogHandler(uc catalog.UseCase, tr *i18n.Translator, log logger.ZapLogger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

func (h *CatalogHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/:handle", h.GetProduct)
	rg.GET("/collections", h.ListCollections)
	rg.GET("/collections/:handle", h.GetCollection)
}

// ListProducts serves one catalog page. Missing query parameters keep their defaults.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	criteria := dto.DefaultCriteria()
	if err := c.ShouldBindQuery(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": h.tr.T(c.GetHeader("Accept-Language"), i18n.MsgInvalidRequest)})
		return
	}
	criteria = criteria.Normalize()

	res, err := h.uc.View(c.Request.Context(), criteria)
	if err != nil {
		h.internalError(c, "failed to compute catalog view", err)
		return
	}
	if res.TotalPages > 0 && res.Page > res.TotalPages {
		criteria.Page = res.TotalPages
		if res, err = h.uc.View(c.Request.Context(), criteria); err != nil {
			h.internalError(c, "failed to compute catalog view", err)
			return
		}
	}

	c.JSON(http.StatusOK, viewResponse{
		Products:      mapProducts(res.PageItems),
		TotalMatching: res.TotalMatching,
		TotalPages:    res.TotalPages,
		Page:          res.Page,
		PageSize:      res.PageSize,
		ActiveFilters: res.ActiveFilters,
		PageNumbers:   res.PageNumbers,
		Criteria:      criteria,
	})
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, err := h.uc.GetProduct(c.Request.Context(), c.Param("handle"))
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": h.tr.T(c.GetHeader("Accept-Language"), i18n.MsgProductNotFound)})
			return
		}
		h.internalError(c, "failed to get product", err)
		return
	}
	c.JSON(http.StatusOK, mapProduct(*p))
}

func (h *CatalogHandler) ListCollections(c *gin.Context) {
	collections, err := h.uc.ListCollections(c.Request.Context(), 0)
	if err != nil {
		h.internalError(c, "failed to list collections", err)
		return
	}

	out := make([]collectionResponse, len(collections))
	for i, col := range collections {
		out[i] = mapCollection(col)
	}
	c.JSON(http.StatusOK, gin.H{"collections": out})
}

func (h *CatalogHandler) GetCollection(c *gin.Context) {
	col, err := h.uc.GetCollection(c.Request.Context(), c.Param("handle"))
	if err != nil {
		if errors.Is(err, catalog.ErrCollectionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": h.tr.T(c.GetHeader("Accept-Language"), i18n.MsgCollectionNotFound)})
			return
		}
		h.internalError(c, "failed to get collection", err)
		return
	}
	c.JSON(http.StatusOK, mapCollection(*col))
}

func (h *CatalogHandler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": h.tr.T(c.GetHeader("Accept-Language"), i18n.MsgInvalidRequest)})
}

type productResponse struct {
	model.Product
	PriceFormatted string `json:"priceFormatted"`
}

type collectionResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Handle      string            `json:"handle"`
	Description string            `json:"description"`
	Products    []productResponse `json:"products"`
}

type viewResponse struct {
	Products      []productResponse  `json:"products"`
	TotalMatching int                `json:"totalMatching"`
	TotalPages    int                `json:"totalPages"`
	Page          int                `json:"page"`
	PageSize      int                `json:"pageSize"`
	ActiveFilters int                `json:"activeFilters"`
	PageNumbers   []int              `json:"pageNumbers"`
	Criteria      dto.FilterCriteria `json:"criteria"`
}

func mapProduct(p model.Product) productResponse {
	return productResponse{
		Product:        p,
		PriceFormatted: money.Format(p.UnitPrice, p.Currency),
	}
}

func mapProducts(products []model.Product) []productResponse {
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = mapProduct(p)
	}
	return out
}

func mapCollection(c model.Collection) collectionResponse {
	return collectionResponse{
		ID:          c.ID,
		Title:       c.Title,
		Handle:      c.Handle,
		Description: c.Description,
		Products:    mapProducts(c.Products),
	}
}
