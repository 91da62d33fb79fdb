package persistence

import (
	"context"
	"testing"

	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/erp/pricesync/internal/domain/pricing"
	"github.com/erp/pricesync/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.IntegrationChannelModel{},
		&models.SalesChannelModel{},
		&models.ProductModel{},
		&models.ProductSalesChannelModel{},
		&models.PriceModel{},
	)
	require.NoError(t, err)

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

type seededCatalog struct {
	store    *gorm.DB
	repo     *GormCatalogRepository
	front    *integration.IntegrationChannel
	web      *pricing.SalesChannel
	shop     *pricing.SalesChannel
	product  *pricing.Product
	usdPrice *pricing.Price
}

// seedCatalog stores SKU-1 offered in "web" and "shop", both linked to the same
// storefront, with a USD price of 10
func seedCatalog(t *testing.T) *seededCatalog {
	db := setupCatalogTestDB(t)
	repo := NewGormCatalogRepository(db)
	ctx := context.Background()

	front, err := integration.NewIntegrationChannel("storefront", integration.ChannelTypeCommerce)
	require.NoError(t, err)
	front.SyncSettings.BidirectionalSyncEnabled = true
	require.NoError(t, repo.SaveIntegrationChannel(ctx, front))

	web, err := pricing.NewSalesChannel("web", "Web", "USD")
	require.NoError(t, err)
	web.LinkIntegration(front)
	require.NoError(t, repo.SaveSalesChannel(ctx, web))

	shop, err := pricing.NewSalesChannel("shop", "Shop", "USD")
	require.NoError(t, err)
	shop.LinkIntegration(front)
	require.NoError(t, repo.SaveSalesChannel(ctx, shop))

	product, err := pricing.NewProduct("SKU-1", "Widget")
	require.NoError(t, err)
	product.AddSalesChannel(web)
	product.AddSalesChannel(shop)
	require.NoError(t, repo.SaveProduct(ctx, product))

	usd, err := product.AddPrice("USD", decimal.NewFromInt(10))
	require.NoError(t, err)

	uow := NewGormUnitOfWorkFactory(db, zap.NewNop()).Begin()
	uow.RegisterNew(usd)
	require.NoError(t, uow.Commit(ctx))

	return &seededCatalog{
		store:    db,
		repo:     repo,
		front:    front,
		web:      web,
		shop:     shop,
		product:  product,
		usdPrice: usd,
	}
}
