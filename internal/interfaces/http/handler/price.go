package handler

import (
	"context"

	pricingapp "github.com/erp/pricesync/internal/application/pricing"
	"github.com/gin-gonic/gin"
)

// PriceEditor applies interactive price edits
type PriceEditor interface {
	SetProductPrice(ctx context.Context, sku string, req pricingapp.SetPriceRequest) (*pricingapp.PriceResponse, error)
	SetChannelPrice(ctx context.Context, sku, channelCode string, req pricingapp.SetPriceRequest) (*pricingapp.PriceResponse, error)
}

// PriceHandler handles price edit endpoints
type PriceHandler struct {
	BaseHandler
	prices PriceEditor
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(prices PriceEditor) *PriceHandler {
	return &PriceHandler{prices: prices}
}

// SetProductPrice handles PUT /products/:sku/prices
func (h *PriceHandler) SetProductPrice(c *gin.Context) {
	var req pricingapp.SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.prices.SetProductPrice(c.Request.Context(), c.Param("sku"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respond(c, resp)
}

// SetChannelPrice handles PUT /products/:sku/channels/:channel/prices
func (h *PriceHandler) SetChannelPrice(c *gin.Context) {
	var req pricingapp.SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.prices.SetChannelPrice(c.Request.Context(), c.Param("sku"), c.Param("channel"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respond(c, resp)
}

func (h *PriceHandler) respond(c *gin.Context, resp *pricingapp.PriceResponse) {
	if resp.Created {
		h.Created(c, resp)
		return
	}
	h.Success(c, resp)
}
