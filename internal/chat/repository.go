package chat

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-storefront-service/internal/chat/dto"
)

var (
	ErrNotConfigured = errors.New("assistant api key not configured")
	ErrInvalidAPIKey = errors.New("assistant rejected the api key")
)

// Assistant asks a language model for a reply, product picks and filter hints.
type Assistant interface {
	Suggest(ctx context.Context, prompt dto.Prompt) (*dto.RawSuggestion, error)
}
