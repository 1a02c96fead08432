package chat

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/chat/dto"
)

// UseCase never fails: every assistant error turns into a localized apology.
type UseCase interface {
	Suggest(ctx context.Context, lang, message string) dto.Suggestion
}
