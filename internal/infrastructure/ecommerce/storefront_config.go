package ecommerce

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrStorefrontConfigMissingBaseURL = errors.New("storefront: base URL is required")
	ErrStorefrontConfigMissingAPIKey  = errors.New("storefront: API key is required")
)

// StorefrontConfig holds the connection settings of the storefront price API
type StorefrontConfig struct {
	// BaseURL is the API root, e.g. https://shop.example.com/api
	BaseURL string
	// APIKey is sent as a bearer token
	APIKey string
	// Timeout bounds each HTTP request
	Timeout time.Duration
}

// Validate checks required fields and fills defaults
func (c *StorefrontConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrStorefrontConfigMissingBaseURL
	}
	if c.APIKey == "" {
		return ErrStorefrontConfigMissingAPIKey
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
