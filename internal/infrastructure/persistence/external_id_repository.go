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

// GormExternalIDRepository reads and records remote price ids kept in the
// products.external_ids column
type GormExternalIDRepository struct {
	db *gorm.DB
}

// NewGormExternalIDRepository creates a new GormExternalIDRepository
func NewGormExternalIDRepository(db *gorm.DB) *GormExternalIDRepository {
	return &GormExternalIDRepository{db: db}
}

// FindExternalID implements integration.ExternalIDReader.
// An unknown product or a malformed column reads as "never exported".
func (r *GormExternalIDRepository) FindExternalID(ctx context.Context, productID, channelID uuid.UUID) (string, bool, error) {
	var model models.ProductModel
	err := DBFromContext(ctx, r.db).
		Select("id", "external_ids").
		Where("id = ?", productID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	id, ok := integration.ParseExternalIDs([]byte(model.ExternalIDsJSON)).Lookup(channelID)
	return id, ok, nil
}

// SaveExternalID implements integration.ExternalIDWriter.
// The row is locked while the JSON object is rewritten.
func (r *GormExternalIDRepository) SaveExternalID(ctx context.Context, productID, channelID uuid.UUID, externalID string) error {
	return DBFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var model models.ProductModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "external_ids").
			Where("id = ?", productID).
			First(&model).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pricing.ErrProductNotFound
			}
			return err
		}

		ids := integration.ParseExternalIDs([]byte(model.ExternalIDsJSON))
		ids.Set(channelID, externalID)

		return tx.Model(&models.ProductModel{}).
			Where("id = ?", productID).
			Update("external_ids", models.EncodeExternalIDs(ids)).Error
	})
}

var (
	_ integration.ExternalIDReader = (*GormExternalIDRepository)(nil)
	_ integration.ExternalIDWriter = (*GormExternalIDRepository)(nil)
)
