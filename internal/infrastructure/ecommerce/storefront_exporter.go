package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/erp/pricesync/internal/domain/integration"
)

// maxResponseSize is the maximum accepted response size from the storefront (1MB)
const maxResponseSize = 1 << 20

var (
	ErrStorefrontUnavailable   = errors.New("storefront: unavailable")
	ErrStorefrontRequestFailed = errors.New("storefront: request failed")
	ErrStorefrontMissingID     = errors.New("storefront: create response has no id")
)

// priceRequest is the storefront's price document
type priceRequest struct {
	Kind      string `json:"kind"`
	SKUFilter string `json:"sku_filter"`
	Value     string `json:"value"`
	Currency  string `json:"currency"`
}

type createResponse struct {
	ID string `json:"id"`
}

// StorefrontExporter implements integration.PriceExporter against the
// storefront price API: CREATE posts a new price record and returns its id,
// UPDATE rewrites the records matching the SKU filter.
type StorefrontExporter struct {
	config     *StorefrontConfig
	httpClient *http.Client
}

// NewStorefrontExporter creates a new exporter with the given configuration
func NewStorefrontExporter(config *StorefrontConfig) (*StorefrontExporter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &StorefrontExporter{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

// Export implements integration.PriceExporter
func (e *StorefrontExporter) Export(ctx context.Context, job integration.ExportJob) (integration.ExportResult, error) {
	body := priceRequest{
		Kind:      string(job.Payload.EntityKind),
		SKUFilter: job.Payload.SKUFilter,
		Value:     job.Payload.Value.String(),
		Currency:  job.Payload.Currency,
	}

	switch job.Payload.Action {
	case integration.ExportActionCreate:
		data, err := e.doRequest(ctx, http.MethodPost, e.pricesURL(job), body)
		if err != nil {
			return integration.ExportResult{}, err
		}
		var resp createResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return integration.ExportResult{}, fmt.Errorf("storefront: failed to parse response: %w", err)
		}
		if resp.ID == "" {
			return integration.ExportResult{}, ErrStorefrontMissingID
		}
		return integration.ExportResult{ExternalID: resp.ID}, nil

	case integration.ExportActionUpdate:
		if _, err := e.doRequest(ctx, http.MethodPut, e.pricesURL(job), body); err != nil {
			return integration.ExportResult{}, err
		}
		return integration.ExportResult{}, nil

	default:
		return integration.ExportResult{}, fmt.Errorf("%w: unknown action %q", integration.ErrInvalidPayload, job.Payload.Action)
	}
}

// pricesURL addresses the price collection of one integration channel
func (e *StorefrontExporter) pricesURL(job integration.ExportJob) string {
	return fmt.Sprintf("%s/channels/%s/prices", e.config.BaseURL, job.ChannelID)
}

func (e *StorefrontExporter) doRequest(ctx context.Context, method, url string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("storefront: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("storefront: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.config.APIKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorefrontUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("storefront: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrStorefrontRequestFailed, resp.StatusCode)
	}
	return data, nil
}

var _ integration.PriceExporter = (*StorefrontExporter)(nil)
