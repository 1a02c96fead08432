package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/chat"
	"github.com/fekuna/omnipos-storefront-service/internal/chat/dto"
	"github.com/pkg/errors"
)

const systemPrompt = `Sa oled entusiastlik ja sõbralik mootorratta müüja Pärnu Motopoes. Vasta ALATI eesti keeles ja ära kasuta emotikone.

Ülesanded:
1. Vasta kasutaja küsimusele entusiastlikult.
2. Soovita kuni 2 kõige sobivamat toodet, kasutades ainult antud toodete id väärtusi.
3. Määra filtrid ainult siis, kui kasutaja neid vihjab:
   - category: "motorcycles", "parts", "accessories" või "gear", kui otsitakse kindlat kategooriat
   - priceRange: "under-1000", "1000-5000", "5000-15000" või "over-15000", kui mainitakse hinda
   - availability: "available" või "unavailable", kui mainitakse saadavust
   - searchTerm: alati, kui otsitakse kindlat toodet või märksõna

Näited:
- "otsin kiivrit" -> searchTerm: "kiiver"
- "vajan mootorratast" -> category: "motorcycles"
- "odav varuosa" -> category: "parts", priceRange: "under-1000"

Vasta JSON objektina kujul:
{"message": string, "recommendedProducts": [string], "filters": {"category": string, "priceRange": string, "availability": string, "searchTerm": string}}`

type XAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// XAIAssistant talks to an OpenAI compatible chat completions endpoint.
type XAIAssistant struct {
	cfg    XAIConfig
	client *http.Client
}

func NewXAIAssistant(cfg XAIConfig) *XAIAssistant {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.x.ai"
	}
	if cfg.Model == "" {
		cfg.Model = "grok-2-1212"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &XAIAssistant{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (a *XAIAssistant) Configured() bool {
	return a.cfg.APIKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (a *XAIAssistant) Suggest(ctx context.Context, prompt dto.Prompt) (*dto.RawSuggestion, error) {
	if !a.Configured() {
		return nil, chat.ErrNotConfigured
	}

	catalogJSON, err := json.MarshalIndent(prompt.Products, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode product context")
	}

	body, err := json.Marshal(completionRequest{
		Model: a.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Kasutaja küsimus: %q\n\nSaadaolevad tooted:\n%s", prompt.Message, catalogJSON)},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.7,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode completion request")
	}

	url := strings.TrimRight(a.cfg.BaseURL, "/") + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)

	res, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "completion request")
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return nil, errors.Wrapf(chat.ErrInvalidAPIKey, "status %d", res.StatusCode)
	case res.StatusCode != http.StatusOK:
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, errors.Errorf("completion api error: %d %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}

	var completion completionResponse
	if err := json.NewDecoder(res.Body).Decode(&completion); err != nil {
		return nil, errors.Wrap(err, "decode completion response")
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("completion response has no choices")
	}

	var out dto.RawSuggestion
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &out); err != nil {
		return nil, errors.Wrap(err, "decode suggestion")
	}
	return &out, nil
}
