package pricing

import (
	"context"
	"errors"

	"github.com/erp/pricesync/internal/domain/pricing"
	"github.com/erp/pricesync/internal/domain/shared"
	"go.uber.org/zap"
)

// PriceService handles interactive price edits. Every edit is committed
// through a unit of work, so commit hooks see it as a pending change.
type PriceService struct {
	products pricing.ProductRepository
	uow      shared.UnitOfWorkFactory
	logger   *zap.Logger
}

// NewPriceService creates a new PriceService
func NewPriceService(products pricing.ProductRepository, uow shared.UnitOfWorkFactory, logger *zap.Logger) *PriceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceService{
		products: products,
		uow:      uow,
		logger:   logger,
	}
}

// SetProductPrice sets the product-wide price of a SKU for a currency
func (s *PriceService) SetProductPrice(ctx context.Context, sku string, req SetPriceRequest) (*PriceResponse, error) {
	product, err := s.loadProduct(ctx, sku)
	if err != nil {
		return nil, err
	}

	uow := s.uow.Begin()
	price := product.Price(req.Currency)
	created := price == nil
	if created {
		price, err = product.AddPrice(req.Currency, req.Value)
		if err != nil {
			return nil, toDomainError(err)
		}
		uow.RegisterNew(price)
	} else {
		if err := price.ChangeValue(req.Value); err != nil {
			return nil, toDomainError(err)
		}
		uow.RegisterDirty(price)
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("product price saved",
		zap.String("sku", sku),
		zap.String("currency", price.Currency),
		zap.String("value", price.Value.String()),
		zap.Bool("created", created),
	)
	resp := ToPriceResponse(price, created)
	return &resp, nil
}

// SetChannelPrice sets the override price of a SKU in one sales channel.
// An existing override is moved to the requested currency if it differs.
func (s *PriceService) SetChannelPrice(ctx context.Context, sku, channelCode string, req SetPriceRequest) (*PriceResponse, error) {
	product, err := s.loadProduct(ctx, sku)
	if err != nil {
		return nil, err
	}

	channel := product.SalesChannelByCode(channelCode)
	if channel == nil {
		return nil, shared.NewDomainError("SALES_CHANNEL_NOT_FOUND", pricing.ErrSalesChannelNotFound.Error())
	}

	uow := s.uow.Begin()
	price := product.SalesChannelPrice(channel)
	created := price == nil
	if created {
		price, err = product.AddChannelPrice(channel, req.Currency, req.Value)
		if err != nil {
			return nil, toDomainError(err)
		}
		uow.RegisterNew(price)
	} else {
		if price.Currency != req.Currency {
			if err := price.ChangeCurrency(req.Currency); err != nil {
				return nil, toDomainError(err)
			}
		}
		if err := price.ChangeValue(req.Value); err != nil {
			return nil, toDomainError(err)
		}
		uow.RegisterDirty(price)
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("channel price saved",
		zap.String("sku", sku),
		zap.String("sales_channel", channelCode),
		zap.String("currency", price.Currency),
		zap.String("value", price.Value.String()),
		zap.Bool("created", created),
	)
	resp := ToPriceResponse(price, created)
	return &resp, nil
}

func (s *PriceService) loadProduct(ctx context.Context, sku string) (*pricing.Product, error) {
	product, err := s.products.FindBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, pricing.ErrProductNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

// toDomainError maps pricing validation errors to coded domain errors
func toDomainError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrInvalidCurrency),
		errors.Is(err, pricing.ErrNegativeValue):
		return shared.NewDomainError("INVALID_PRICE", err.Error())
	case errors.Is(err, pricing.ErrDuplicatePrice):
		return shared.NewDomainError("ALREADY_EXISTS", err.Error())
	case errors.Is(err, pricing.ErrSalesChannelNotOffered),
		errors.Is(err, pricing.ErrSalesChannelRequired):
		return shared.NewDomainError("INVALID_SALES_CHANNEL", err.Error())
	default:
		return err
	}
}
