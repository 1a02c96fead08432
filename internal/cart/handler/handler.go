package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/cart"
	"github.com/fekuna/omnipos-storefront-service/internal/cart/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/catalog"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/i18n"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/middleware"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/money"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductLookup resolves the product a cart line is built from.
type ProductLookup interface {
	GetProduct(ctx context.Context, handle string) (*model.Product, error)
}

type CartHandler struct {
	uc       cart.UseCase
	products ProductLookup
	tr       *i18n.Translator
	logger   logger.ZapLogger
}

func NewCartHandler(uc cart.UseCase, products ProductLookup, tr *i18n.Translator, log logger.ZapLogger) *CartHandler {
	return &CartHandler{
		uc:       uc,
		products: products,
		tr:       tr,
		logger:   log,
	}
}

func (h *CartHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/cart", h.GetCart)
	rg.DELETE("/cart", h.ClearCart)
	rg.POST("/cart/toggle", h.ToggleCart)
	rg.POST("/cart/items", h.AddItem)
	rg.PATCH("/cart/items/:variantId", h.UpdateQuantity)
	rg.DELETE("/cart/items/:variantId", h.RemoveItem)
}

func (h *CartHandler) GetCart(c *gin.Context) {
	st := h.uc.GetCart(c.Request.Context(), middleware.SessionID(c))
	c.JSON(http.StatusOK, mapCart(st))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	lang := c.GetHeader("Accept-Language")

	var input dto.AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": h.tr.T(lang, i18n.MsgInvalidRequest)})
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	p, err := h.products.GetProduct(c.Request.Context(), input.Handle)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": h.tr.T(lang, i18n.MsgProductNotFound)})
			return
		}
		h.logger.Error("failed to resolve product for cart", zap.String("handle", input.Handle), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": h.tr.T(lang, i18n.MsgInvalidRequest)})
		return
	}

	variant, ok := pickVariant(p, input.VariantID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": h.tr.T(lang, i18n.MsgVariantNotFound)})
		return
	}
	if !variant.AvailableForSale {
		c.JSON(http.StatusConflict, gin.H{"error": h.tr.T(lang, i18n.MsgVariantUnavailable)})
		return
	}

	st := h.uc.AddItem(c.Request.Context(), middleware.SessionID(c), model.CartItem{
		ProductID: p.ID,
		VariantID: variant.ID,
		Title:     p.Title,
		UnitPrice: variant.Price,
		Quantity:  input.Quantity,
		ImageURL:  p.ImageURL(),
		Handle:    p.Handle,
	})
	c.JSON(http.StatusOK, mapCart(st))
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var input dto.UpdateQuantityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": h.tr.T(c.GetHeader("Accept-Language"), i18n.MsgInvalidRequest)})
		return
	}

	st := h.uc.UpdateQuantity(c.Request.Context(), middleware.SessionID(c), c.Param("variantId"), *input.Quantity)
	c.JSON(http.StatusOK, mapCart(st))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	st := h.uc.RemoveItem(c.Request.Context(), middleware.SessionID(c), c.Param("variantId"))
	c.JSON(http.StatusOK, mapCart(st))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	st := h.uc.ClearCart(c.Request.Context(), middleware.SessionID(c))
	c.JSON(http.StatusOK, mapCart(st))
}

func (h *CartHandler) ToggleCart(c *gin.Context) {
	st := h.uc.ToggleCart(c.Request.Context(), middleware.SessionID(c))
	c.JSON(http.StatusOK, mapCart(st))
}

// pickVariant returns the requested variant, or the first one when none was asked for.
func pickVariant(p *model.Product, variantID string) (model.ProductVariant, bool) {
	if variantID != "" {
		return p.Variant(variantID)
	}
	if len(p.Variants) == 0 {
		return model.ProductVariant{}, false
	}
	return p.Variants[0], true
}

type cartItemResponse struct {
	model.CartItem
	PriceFormatted     string `json:"priceFormatted"`
	LineTotal          string `json:"lineTotal"`
	LineTotalFormatted string `json:"lineTotalFormatted"`
}

type cartResponse struct {
	Items               []cartItemResponse `json:"items"`
	IsOpen              bool               `json:"isOpen"`
	TotalItems          int                `json:"totalItems"`
	TotalPrice          string             `json:"totalPrice"`
	TotalPriceFormatted string             `json:"totalPriceFormatted"`
}

func mapCart(st model.CartState) cartResponse {
	items := make([]cartItemResponse, len(st.Items))
	for i, it := range st.Items {
		line := money.Line(it.UnitPrice, it.Quantity)
		items[i] = cartItemResponse{
			CartItem:           it,
			PriceFormatted:     money.Format(it.UnitPrice, money.DefaultCurrency),
			LineTotal:          line.StringFixed(2),
			LineTotalFormatted: money.Format(line, money.DefaultCurrency),
		}
	}
	return cartResponse{
		Items:               items,
		IsOpen:              st.IsOpen,
		TotalItems:          st.TotalItems,
		TotalPrice:          st.TotalPrice.StringFixed(2),
		TotalPriceFormatted: money.Format(st.TotalPrice, money.DefaultCurrency),
	}
}
