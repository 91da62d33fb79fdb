package persistence

import (
	"context"
	"errors"

	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/erp/pricesync/internal/domain/pricing"
	"github.com/erp/pricesync/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCatalogRepository loads and stores the product graph price sync works on
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GormCatalogRepository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// FindBySKU loads a product with its sales channels, their integration
// channels, all prices and the recorded external ids.
// Each record is materialized once, so shared channels are shared pointers.
func (r *GormCatalogRepository) FindBySKU(ctx context.Context, sku string) (*pricing.Product, error) {
	db := DBFromContext(ctx, r.db)

	var productModel models.ProductModel
	if err := db.Where("sku = ?", sku).First(&productModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pricing.ErrProductNotFound
		}
		return nil, err
	}
	product := productModel.ToDomain()

	var channelModels []models.SalesChannelModel
	if err := db.
		Joins("JOIN product_sales_channels ON product_sales_channels.sales_channel_id = sales_channels.id").
		Where("product_sales_channels.product_id = ?", product.ID).
		Order("sales_channels.code ASC").
		Find(&channelModels).Error; err != nil {
		return nil, err
	}

	links, err := r.loadIntegrationChannels(db, channelModels)
	if err != nil {
		return nil, err
	}

	salesChannels := make(map[uuid.UUID]*pricing.SalesChannel, len(channelModels))
	for i := range channelModels {
		m := &channelModels[i]
		var link *integration.IntegrationChannel
		if m.IntegrationChannelID != nil {
			link = links[*m.IntegrationChannelID]
		}
		salesChannel := m.ToDomain(link)
		salesChannels[salesChannel.ID] = salesChannel
		product.AddSalesChannel(salesChannel)
	}

	var priceModels []models.PriceModel
	if err := db.Where("product_id = ?", product.ID).Order("created_at ASC").Find(&priceModels).Error; err != nil {
		return nil, err
	}
	for i := range priceModels {
		m := &priceModels[i]
		switch m.Kind {
		case pricing.PriceKindProduct:
			product.Prices = append(product.Prices, m.ToDomain(product, nil))
		case pricing.PriceKindChannel:
			if m.SalesChannelID == nil {
				continue
			}
			// overrides for channels the product is no longer offered in are not loaded
			salesChannel, ok := salesChannels[*m.SalesChannelID]
			if !ok {
				continue
			}
			product.ChannelPrices = append(product.ChannelPrices, m.ToDomain(product, salesChannel))
		}
	}

	return product, nil
}

func (r *GormCatalogRepository) loadIntegrationChannels(db *gorm.DB, channels []models.SalesChannelModel) (map[uuid.UUID]*integration.IntegrationChannel, error) {
	ids := make([]uuid.UUID, 0, len(channels))
	for _, m := range channels {
		if m.IntegrationChannelID != nil {
			ids = append(ids, *m.IntegrationChannelID)
		}
	}

	result := make(map[uuid.UUID]*integration.IntegrationChannel, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var integrationModels []models.IntegrationChannelModel
	if err := db.Where("id IN ?", ids).Find(&integrationModels).Error; err != nil {
		return nil, err
	}
	for i := range integrationModels {
		channel := integrationModels[i].ToDomain()
		result[channel.ID] = channel
	}
	return result, nil
}

// SaveIntegrationChannel creates or updates an integration channel
func (r *GormCatalogRepository) SaveIntegrationChannel(ctx context.Context, channel *integration.IntegrationChannel) error {
	model := models.IntegrationChannelModelFromDomain(channel)
	return DBFromContext(ctx, r.db).Save(model).Error
}

// SaveSalesChannel creates or updates a sales channel and its integration link
func (r *GormCatalogRepository) SaveSalesChannel(ctx context.Context, channel *pricing.SalesChannel) error {
	model := &models.SalesChannelModel{}
	model.FromDomain(channel)
	return DBFromContext(ctx, r.db).Save(model).Error
}

// SaveProduct creates or updates a product row and the sales channels it is
// offered in. Prices are written through the unit of work.
func (r *GormCatalogRepository) SaveProduct(ctx context.Context, product *pricing.Product) error {
	return DBFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		model := &models.ProductModel{}
		model.FromDomain(product)
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if len(product.SalesChannels) == 0 {
			return nil
		}

		offers := make([]models.ProductSalesChannelModel, 0, len(product.SalesChannels))
		for _, channel := range product.SalesChannels {
			offers = append(offers, models.ProductSalesChannelModel{
				ProductID:      product.ID,
				SalesChannelID: channel.ID,
			})
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&offers).Error
	})
}

var _ pricing.ProductRepository = (*GormCatalogRepository)(nil)
