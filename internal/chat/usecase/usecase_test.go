package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	catalogdto "github.com/fekuna/omnipos-storefront-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/chat"
	"github.com/fekuna/omnipos-storefront-service/internal/chat/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/i18n"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssistant struct {
	configured bool
	reply      *dto.RawSuggestion
	err        error
	got        dto.Prompt
	calls      int
}

func (f *fakeAssistant) Configured() bool { return f.configured }

func (f *fakeAssistant) Suggest(_ context.Context, p dto.Prompt) (*dto.RawSuggestion, error) {
	f.calls++
	f.got = p
	return f.reply, f.err
}

type staticProducts []model.Product

func (s staticProducts) ListProducts(context.Context, int) ([]model.Product, error) {
	return s, nil
}

func catalog(n int) staticProducts {
	out := make(staticProducts, n)
	for i := range out {
		out[i] = model.Product{
			ID:          fmt.Sprintf("p%d", i),
			Title:       fmt.Sprintf("Product %d", i),
			Description: strings.Repeat("õ", 150),
			UnitPrice:   decimal.NewFromInt(int64(100 * (i + 1))),
			Tags:        []string{"a", "b"},
		}
	}
	return out
}

func newUseCase(a *fakeAssistant, products ProductLister) chat.UseCase {
	return NewChatUseCase(a, products, i18n.MustNew("et"), logger.NewNop())
}

func TestChatUseCase_Suggest(t *testing.T) {
	t.Parallel()

	a := &fakeAssistant{configured: true, reply: &dto.RawSuggestion{
		Message:             "Siin on head valikud",
		RecommendedProducts: []string{"p3", "missing", "p3", "p1", "p2"},
		Filters: &dto.RawFilters{
			Category:     "Parts",
			PriceRange:   "cheap",
			Availability: catalogdto.Available,
			SearchTerm:   " kiiver ",
		},
	}}
	uc := newUseCase(a, catalog(30))

	got := uc.Suggest(context.Background(), "", "otsin kiivrit")

	assert.Equal(t, "Siin on head valikud", got.Message)
	require.Len(t, got.RecommendedProducts, 2)
	assert.Equal(t, "p3", got.RecommendedProducts[0].ID)
	assert.Equal(t, "p1", got.RecommendedProducts[1].ID)

	require.NotNil(t, got.Filters)
	assert.Equal(t, catalogdto.FilterPatch{Category: "parts", Availability: catalogdto.Available, SearchTerm: "kiiver"}, *got.Filters)

	assert.Equal(t, "otsin kiivrit", a.got.Message)
	require.Len(t, a.got.Products, maxContextProducts)
	assert.Equal(t, maxDescriptionRunes, utf8.RuneCountInString(a.got.Products[0].Description))
	assert.Equal(t, "a, b", a.got.Products[0].Tags)
	assert.Equal(t, "100", a.got.Products[0].Price)
}

func TestChatUseCase_RecommendationsLimitedToShownProducts(t *testing.T) {
	t.Parallel()

	a := &fakeAssistant{configured: true, reply: &dto.RawSuggestion{RecommendedProducts: []string{"p25"}}}
	got := newUseCase(a, catalog(30)).Suggest(context.Background(), "", "hi")

	assert.Empty(t, got.RecommendedProducts)
	assert.Nil(t, got.Filters)
}

func TestChatUseCase_InvalidFiltersOnly(t *testing.T) {
	t.Parallel()

	a := &fakeAssistant{configured: true, reply: &dto.RawSuggestion{
		Message: "ok",
		Filters: &dto.RawFilters{Category: "boats", PriceRange: "free", Availability: "soon"},
	}}
	got := newUseCase(a, catalog(1)).Suggest(context.Background(), "", "hi")

	assert.Nil(t, got.Filters)
}

func TestChatUseCase_Apologies(t *testing.T) {
	t.Parallel()
	tr := i18n.MustNew("et")

	tests := []struct {
		name      string
		assistant *fakeAssistant
		message   string
		want      string
	}{
		{"not configured", &fakeAssistant{}, "hi", i18n.MsgChatUnavailable},
		{"empty message", &fakeAssistant{configured: true}, "   ", i18n.MsgChatEmptyMessage},
		{"rejected key", &fakeAssistant{configured: true, err: fmt.Errorf("status 401: %w", chat.ErrInvalidAPIKey)}, "hi", i18n.MsgChatInvalidAPIKey},
		{"failure", &fakeAssistant{configured: true, err: errors.New("timeout")}, "hi", i18n.MsgChatTechnicalIssue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newUseCase(tt.assistant, catalog(3)).Suggest(context.Background(), "et", tt.message)

			assert.Equal(t, tr.T("et", tt.want), got.Message)
			assert.NotEqual(t, tt.want, got.Message, "message is localized")
			assert.Empty(t, got.RecommendedProducts)
			assert.Nil(t, got.Filters)
		})
	}
}

func TestChatUseCase_UnconfiguredNeverCallsAssistant(t *testing.T) {
	t.Parallel()

	a := &fakeAssistant{}
	newUseCase(a, catalog(3)).Suggest(context.Background(), "", "hi")

	assert.Equal(t, 0, a.calls)
}
