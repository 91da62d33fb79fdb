package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pricingapp "github.com/erp/pricesync/internal/application/pricing"
	"github.com/erp/pricesync/internal/domain/shared"
	"github.com/erp/pricesync/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockPriceEditor struct {
	mock.Mock
}

func (m *MockPriceEditor) SetProductPrice(ctx context.Context, sku string, req pricingapp.SetPriceRequest) (*pricingapp.PriceResponse, error) {
	args := m.Called(ctx, sku, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.PriceResponse), args.Error(1)
}

func (m *MockPriceEditor) SetChannelPrice(ctx context.Context, sku, channelCode string, req pricingapp.SetPriceRequest) (*pricingapp.PriceResponse, error) {
	args := m.Called(ctx, sku, channelCode, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.PriceResponse), args.Error(1)
}

func setupPriceRouter(editor PriceEditor) *gin.Engine {
	h := NewPriceHandler(editor)
	router := gin.New()
	router.PUT("/products/:sku/prices", h.SetProductPrice)
	router.PUT("/products/:sku/channels/:channel/prices", h.SetChannelPrice)
	return router
}

func doPut(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestPriceHandler_SetProductPrice(t *testing.T) {
	t.Run("updates existing price", func(t *testing.T) {
		editor := new(MockPriceEditor)
		req := pricingapp.SetPriceRequest{Currency: "USD", Value: decimal.RequireFromString("12.5")}
		editor.On("SetProductPrice", mock.Anything, "SKU-1", mock.MatchedBy(func(r pricingapp.SetPriceRequest) bool {
			return r.Currency == req.Currency && r.Value.Equal(req.Value)
		})).Return(&pricingapp.PriceResponse{ID: uuid.New(), SKU: "SKU-1", Currency: "USD", Value: req.Value}, nil)

		w := doPut(setupPriceRouter(editor), "/products/SKU-1/prices", `{"currency":"USD","value":"12.5"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeResponse(t, w).Success)
		editor.AssertExpectations(t)
	})

	t.Run("created price answers 201", func(t *testing.T) {
		editor := new(MockPriceEditor)
		editor.On("SetProductPrice", mock.Anything, "SKU-1", mock.Anything).
			Return(&pricingapp.PriceResponse{ID: uuid.New(), Created: true}, nil)

		w := doPut(setupPriceRouter(editor), "/products/SKU-1/prices", `{"currency":"EUR","value":3}`)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("validation error lists fields", func(t *testing.T) {
		editor := new(MockPriceEditor)

		w := doPut(setupPriceRouter(editor), "/products/SKU-1/prices", `{"currency":"US","value":1}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "Currency", resp.Error.Details[0].Field)
		editor.AssertNotCalled(t, "SetProductPrice", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := doPut(setupPriceRouter(new(MockPriceEditor)), "/products/SKU-1/prices", `{"currency":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, decodeResponse(t, w).Error.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		editor := new(MockPriceEditor)
		editor.On("SetProductPrice", mock.Anything, "NOPE", mock.Anything).Return(nil, shared.ErrNotFound)

		w := doPut(setupPriceRouter(editor), "/products/NOPE/prices", `{"currency":"USD","value":1}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
	})

	t.Run("negative value is a business rule violation", func(t *testing.T) {
		editor := new(MockPriceEditor)
		editor.On("SetProductPrice", mock.Anything, "SKU-1", mock.Anything).
			Return(nil, shared.NewDomainError("INVALID_PRICE", "pricing: price value cannot be negative"))

		w := doPut(setupPriceRouter(editor), "/products/SKU-1/prices", `{"currency":"USD","value":-1}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidPrice, decodeResponse(t, w).Error.Code)
	})

	t.Run("commit failure is internal", func(t *testing.T) {
		editor := new(MockPriceEditor)
		editor.On("SetProductPrice", mock.Anything, "SKU-1", mock.Anything).
			Return(nil, errors.New("commit hook: export queue is full"))

		w := doPut(setupPriceRouter(editor), "/products/SKU-1/prices", `{"currency":"USD","value":1}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.NotContains(t, resp.Error.Message, "queue")
	})
}

func TestPriceHandler_SetChannelPrice(t *testing.T) {
	t.Run("passes sku and channel", func(t *testing.T) {
		editor := new(MockPriceEditor)
		editor.On("SetChannelPrice", mock.Anything, "SKU-1", "web", mock.Anything).
			Return(&pricingapp.PriceResponse{ID: uuid.New(), SalesChannel: "web"}, nil)

		w := doPut(setupPriceRouter(editor), "/products/SKU-1/channels/web/prices", `{"currency":"USD","value":"9.99"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		editor.AssertExpectations(t)
	})

	t.Run("unknown sales channel", func(t *testing.T) {
		editor := new(MockPriceEditor)
		editor.On("SetChannelPrice", mock.Anything, "SKU-1", "nope", mock.Anything).
			Return(nil, shared.NewDomainError("SALES_CHANNEL_NOT_FOUND", "pricing: sales channel not found"))

		w := doPut(setupPriceRouter(editor), "/products/SKU-1/channels/nope/prices", `{"currency":"USD","value":1}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeSalesChannelNotFound, decodeResponse(t, w).Error.Code)
	})
}

type stubPinger struct{ err error }

func (s stubPinger) Ping() error { return s.err }

func TestHealthHandler(t *testing.T) {
	newRouter := func(p Pinger) *gin.Engine {
		h := NewHealthHandler(p)
		router := gin.New()
		router.GET("/health", h.Health)
		router.GET("/ready", h.Ready)
		return router
	}

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(stubPinger{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ready", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(stubPinger{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(stubPinger{err: errors.New("connection refused")}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, dto.ErrCodeNotReady, decodeResponse(t, w).Error.Code)
	})
}
