package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-storefront-service/internal/chat"
	"github.com/fekuna/omnipos-storefront-service/internal/chat/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssistant(t *testing.T, handler http.HandlerFunc) *XAIAssistant {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewXAIAssistant(XAIConfig{APIKey: "secret", BaseURL: srv.URL + "/"})
}

func TestXAIAssistant_Suggest(t *testing.T) {
	t.Parallel()

	var req completionRequest
	a := newTestAssistant(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		content := `{"message":"Vaata neid kiivreid!","recommendedProducts":["mock-1"],"filters":{"searchTerm":"kiiver"}}`
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{{"message": map[string]string{"role": "assistant", "content": content}}},
		})
	})

	out, err := a.Suggest(context.Background(), dto.Prompt{
		Message:  "otsin kiivrit",
		Products: []dto.ProductContext{{ID: "mock-1", Title: "Helmet"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Vaata neid kiivreid!", out.Message)
	assert.Equal(t, []string{"mock-1"}, out.RecommendedProducts)
	require.NotNil(t, out.Filters)
	assert.Equal(t, "kiiver", out.Filters.SearchTerm)

	assert.Equal(t, "grok-2-1212", req.Model)
	assert.Equal(t, "json_object", req.ResponseFormat["type"])
	require.Len(t, req.Messages, 2)
	assert.Contains(t, req.Messages[1].Content, "otsin kiivrit")
	assert.Contains(t, req.Messages[1].Content, `"id": "mock-1"`)
}

func TestXAIAssistant_Errors(t *testing.T) {
	t.Parallel()

	t.Run("rejected key", func(t *testing.T) {
		a := newTestAssistant(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		_, err := a.Suggest(context.Background(), dto.Prompt{Message: "hi"})
		assert.ErrorIs(t, err, chat.ErrInvalidAPIKey)
	})

	t.Run("server error", func(t *testing.T) {
		a := newTestAssistant(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		})
		_, err := a.Suggest(context.Background(), dto.Prompt{Message: "hi"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, chat.ErrInvalidAPIKey)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("content is not json", func(t *testing.T) {
		a := newTestAssistant(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`))
		})
		_, err := a.Suggest(context.Background(), dto.Prompt{Message: "hi"})
		assert.Error(t, err)
	})

	t.Run("no key", func(t *testing.T) {
		a := NewXAIAssistant(XAIConfig{})
		assert.False(t, a.Configured())
		_, err := a.Suggest(context.Background(), dto.Prompt{Message: "hi"})
		assert.ErrorIs(t, err, chat.ErrNotConfigured)
	})
}
