package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"

	catalogdto "github.com/fekuna/omnipos-storefront-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/chat"
	"github.com/fekuna/omnipos-storefront-service/internal/chat/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/i18n"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/logger"
	"go.uber.org/zap"
)

const (
	maxContextProducts   = 20
	maxDescriptionRunes  = 100
	maxRecommendedResult = 2
)

// ProductLister is satisfied by catalog.UseCase.
type ProductLister interface {
	ListProducts(ctx context.Context, limit int) ([]model.Product, error)
}

type chatUseCase struct {
	assistant  chat.Assistant
	products   ProductLister
	tr         *i18n.Translator
	logger     logger.ZapLogger
	configured bool
}

func NewChatUseCase(assistant chat.Assistant, products ProductLister, tr *i18n.Translator, log logger.ZapLogger) chat.UseCase {
	configured := true
	if c, ok := assistant.(interface{ Configured() bool }); ok {
		configured = c.Configured()
	}
	if !configured {
		log.Warn("chat assistant not configured, replies will be apologies")
	}

	return &chatUseCase{
		assistant:  assistant,
		products:   products,
		tr:         tr,
		logger:     log,
		configured: configured,
	}
}

func (uc *chatUseCase) Suggest(ctx context.Context, lang, message string) dto.Suggestion {
	message = strings.TrimSpace(message)
	if message == "" {
		return uc.apology(lang, i18n.MsgChatEmptyMessage)
	}
	if !uc.configured {
		return uc.apology(lang, i18n.MsgChatUnavailable)
	}

	products, err := uc.products.ListProducts(ctx, 0)
	if err != nil {
		uc.logger.Warn("could not load products for chat context", zap.Error(err))
	}
	if len(products) > maxContextProducts {
		products = products[:maxContextProducts]
	}

	raw, err := uc.assistant.Suggest(ctx, dto.Prompt{Message: message, Products: contextOf(products)})
	if err != nil {
		uc.logger.Warn("chat assistant failed", zap.Error(err))
		switch {
		case errors.Is(err, chat.ErrInvalidAPIKey):
			return uc.apology(lang, i18n.MsgChatInvalidAPIKey)
		case errors.Is(err, chat.ErrNotConfigured):
			return uc.apology(lang, i18n.MsgChatUnavailable)
		default:
			return uc.apology(lang, i18n.MsgChatTechnicalIssue)
		}
	}

	return dto.Suggestion{
		Message:             raw.Message,
		RecommendedProducts: recommended(raw.RecommendedProducts, products),
		Filters:             sanitizeFilters(raw.Filters),
	}
}

func (uc *chatUseCase) apology(lang, id string) dto.Suggestion {
	return dto.Suggestion{
		Message:             uc.tr.T(lang, id),
		RecommendedProducts: []model.Product{},
	}
}

func contextOf(products []model.Product) []dto.ProductContext {
	out := make([]dto.ProductContext, len(products))
	for i, p := range products {
		out[i] = dto.ProductContext{
			ID:          p.ID,
			Title:       p.Title,
			Description: truncateRunes(p.Description, maxDescriptionRunes),
			Price:       p.UnitPrice.String(),
			Available:   p.AvailableForSale,
			Category:    p.Category,
			Tags:        strings.Join(p.Tags, ", "),
		}
	}
	return out
}

// recommended resolves ids against the products the assistant was shown, in the
// assistant's order, skipping unknown and repeated ids.
func recommended(ids []string, shown []model.Product) []model.Product {
	out := []model.Product{}
	seen := map[string]bool{}
	for _, id := range ids {
		if len(out) == maxRecommendedResult {
			break
		}
		if seen[id] {
			continue
		}
		i := slices.IndexFunc(shown, func(p model.Product) bool { return p.ID == id })
		if i < 0 {
			continue
		}
		seen[id] = true
		out = append(out, shown[i])
	}
	return out
}

// sanitizeFilters drops values outside the known enums; nil when nothing usable is left.
func sanitizeFilters(f *dto.RawFilters) *catalogdto.FilterPatch {
	if f == nil {
		return nil
	}

	patch := catalogdto.FilterPatch{SearchTerm: strings.TrimSpace(f.SearchTerm)}
	if category := strings.ToLower(strings.TrimSpace(f.Category)); slices.Contains(catalogdto.Categories, category) {
		patch.Category = category
	}
	if catalogdto.IsPriceBand(f.PriceRange) {
		patch.PriceBand = f.PriceRange
	}
	if catalogdto.IsAvailability(f.Availability) {
		patch.Availability = f.Availability
	}

	if patch.IsEmpty() {
		return nil
	}
	return &patch
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
