package handler

import (
	"net/http"
	"strings"

	catalogdto "github.com/fekuna/omnipos-storefront-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/chat"
	"github.com/fekuna/omnipos-storefront-service/internal/chat/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/i18n"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/money"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	uc     chat.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewChatHandler(uc chat.UseCase, tr *i18n.Translator, log logger.ZapLogger) *ChatHandler {
	return &ChatHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

func (h *ChatHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/chat", h.Chat)
}

type recommendedProduct struct {
	model.Product
	PriceFormatted string `json:"priceFormatted"`
}

type chatResponse struct {
	Message             string                    `json:"message"`
	RecommendedProducts []recommendedProduct      `json:"recommendedProducts"`
	Filters             *catalogdto.FilterPatch   `json:"filters"`
	Criteria            catalogdto.FilterCriteria `json:"criteria"`
}

// Chat answers a shopper message. The returned criteria are the caller's criteria
// (or the defaults) with the suggested filters applied.
func (h *ChatHandler) Chat(c *gin.Context) {
	lang := c.GetHeader("Accept-Language")

	var input dto.ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": h.tr.T(lang, i18n.MsgInvalidRequest)})
		return
	}
	if strings.TrimSpace(input.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": h.tr.T(lang, i18n.MsgChatEmptyMessage)})
		return
	}

	criteria := catalogdto.DefaultCriteria()
	if input.Criteria != nil {
		criteria = input.Criteria.Normalize()
	}

	s := h.uc.Suggest(c.Request.Context(), lang, input.Message)
	if s.Filters != nil {
		criteria = criteria.Apply(*s.Filters)
	}

	products := make([]recommendedProduct, len(s.RecommendedProducts))
	for i, p := range s.RecommendedProducts {
		products[i] = recommendedProduct{Product: p, PriceFormatted: money.Format(p.UnitPrice, p.Currency)}
	}

	c.JSON(http.StatusOK, chatResponse{
		Message:             s.Message,
		RecommendedProducts: products,
		Filters:             s.Filters,
		Criteria:            criteria,
	})
}
