package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/checkout"
	"github.com/fekuna/omnipos-storefront-service/internal/checkout/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/i18n"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/middleware"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/money"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	uc     checkout.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewCheckoutHandler(uc checkout.UseCase, tr *i18n.Translator, log logger.ZapLogger) *CheckoutHandler {
	return &CheckoutHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

func (h *CheckoutHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/checkout", h.Submit)
}

func (h *CheckoutHandler) Submit(c *gin.Context) {
	lang := c.GetHeader("Accept-Language")

	var input dto.SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": h.tr.T(lang, i18n.MsgCheckoutMissingFields)})
		return
	}

	res, err := h.uc.Submit(c.Request.Context(), middleware.SessionID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrInvalidCustomer):
			c.JSON(http.StatusBadRequest, gin.H{"error": h.tr.T(lang, i18n.MsgCheckoutMissingFields)})
		case errors.Is(err, checkout.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": h.tr.T(lang, i18n.MsgCheckoutEmptyCart)})
		case errors.Is(err, checkout.ErrCheckoutInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": h.tr.T(lang, i18n.MsgCheckoutInProgress)})
		default:
			h.logger.Error("Error creating checkout session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": h.tr.T(lang, i18n.MsgCheckoutFailed)})
		}
		return
	}

	res.Message = h.tr.T(lang, i18n.MsgCheckoutCreated)
	c.JSON(http.StatusOK, gin.H{
		"success":         res.Success,
		"sessionId":       res.SessionID,
		"message":         res.Message,
		"amount":          res.Amount.StringFixed(2),
		"amountFormatted": money.Format(res.Amount, money.DefaultCurrency),
		"itemCount":       res.ItemCount,
	})
}
