package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-storefront-service/internal/checkout"
	"github.com/fekuna/omnipos-storefront-service/internal/checkout/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/i18n"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/platform/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct {
	err     error
	session string
	input   *dto.SubmitInput
}

func (s *stubUseCase) Submit(_ context.Context, cartSession string, input *dto.SubmitInput) (*dto.SubmitResult, error) {
	s.session, s.input = cartSession, input
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SubmitResult{Success: true, SessionID: "mock_session_1", Amount: decimal.RequireFromString("1299.5"), ItemCount: 2}, nil
}

func submit(uc *stubUseCase, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Session())
	NewCheckoutHandler(uc, i18n.MustNew("et"), logger.NewNop()).Register(r.Group("/api"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.SessionHeader, "alice")
	r.ServeHTTP(w, req)
	return w
}

const validBody = `{"items":[{"id":"p1","variantId":"v1","title":"Helmet","price":"299.99","quantity":1}],
	"customerInfo":{"email":"mari@example.ee","firstName":"Mari","lastName":"Maasikas"}}`

func TestCheckoutHandler_Submit(t *testing.T) {
	t.Parallel()
	uc := &stubUseCase{}

	w := submit(uc, validBody)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "mock_session_1", body["sessionId"])
	assert.Equal(t, "1299.50", body["amount"])
	assert.NotEmpty(t, body["message"])

	assert.Equal(t, "alice", uc.session)
	require.Len(t, uc.input.Items, 1)
	assert.Equal(t, "299.99", uc.input.Items[0].UnitPrice.String())
}

func TestCheckoutHandler_BindingErrors(t *testing.T) {
	t.Parallel()

	w := submit(&stubUseCase{}, `{"customerInfo":{"email":"not-an-email","firstName":"A","lastName":"B"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = submit(&stubUseCase{}, `{"customerInfo":{"email":"a@b.ee","lastName":"B"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutHandler_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := map[error]int{
		checkout.ErrEmptyCart:          http.StatusBadRequest,
		checkout.ErrInvalidCustomer:    http.StatusBadRequest,
		checkout.ErrCheckoutInProgress: http.StatusConflict,
		context.Canceled:               http.StatusInternalServerError,
	}
	for err, want := range tests {
		w := submit(&stubUseCase{err: err}, validBody)
		assert.Equal(t, want, w.Code, err.Error())
		assert.Contains(t, w.Body.String(), `"error"`)
	}
}
