package models

import (
	"encoding/json"

	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/erp/pricesync/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for products.
// External ids are kept as a channel-id → remote-id JSON object.
type ProductModel struct {
	BaseModel
	SKU             string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name            string `gorm:"type:varchar(200);not null"`
	ExternalIDsJSON string `gorm:"type:jsonb;column:external_ids"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a product without channels or prices
func (m *ProductModel) ToDomain() *pricing.Product {
	return &pricing.Product{
		BaseEntity:  m.BaseModel.ToDomain(),
		SKU:         m.SKU,
		Name:        m.Name,
		ExternalIDs: integration.ParseExternalIDs([]byte(m.ExternalIDsJSON)),
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *pricing.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.SKU = p.SKU
	m.Name = p.Name
	m.ExternalIDsJSON = EncodeExternalIDs(p.ExternalIDs)
}

// EncodeExternalIDs serializes external ids for the external_ids column
func EncodeExternalIDs(ids integration.ExternalIDs) string {
	if len(ids) == 0 {
		return "{}"
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// SalesChannelModel is the persistence model for sales channels
type SalesChannelModel struct {
	BaseModel
	Code                 string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name                 string     `gorm:"type:varchar(100)"`
	Currency             string     `gorm:"type:char(3);not null"`
	IntegrationChannelID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (SalesChannelModel) TableName() string {
	return "sales_channels"
}

// ToDomain converts the model to a domain SalesChannel linked to the given integration channel
func (m *SalesChannelModel) ToDomain(link *integration.IntegrationChannel) *pricing.SalesChannel {
	return &pricing.SalesChannel{
		BaseEntity:         m.BaseModel.ToDomain(),
		Code:               m.Code,
		Name:               m.Name,
		Currency:           m.Currency,
		IntegrationChannel: link,
	}
}

// FromDomain populates the persistence model from a domain SalesChannel
func (m *SalesChannelModel) FromDomain(s *pricing.SalesChannel) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Code = s.Code
	m.Name = s.Name
	m.Currency = s.Currency
	m.IntegrationChannelID = nil
	if s.IntegrationChannel != nil {
		id := s.IntegrationChannel.ID
		m.IntegrationChannelID = &id
	}
}

// ProductSalesChannelModel records that a product is offered in a sales channel
type ProductSalesChannelModel struct {
	ProductID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	SalesChannelID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for GORM
func (ProductSalesChannelModel) TableName() string {
	return "product_sales_channels"
}

// PriceModel stores both price kinds. Channel prices carry a sales channel id.
type PriceModel struct {
	BaseModel
	Kind           pricing.PriceKind `gorm:"type:varchar(20);not null"`
	ProductID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	SalesChannelID *uuid.UUID        `gorm:"type:uuid;index"`
	Currency       string            `gorm:"type:char(3);not null"`
	Value          decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PriceModel) TableName() string {
	return "prices"
}

// ToDomain converts the model to a price owned by product.
// channel must be set for channel prices.
func (m *PriceModel) ToDomain(product *pricing.Product, channel *pricing.SalesChannel) *pricing.Price {
	return &pricing.Price{
		BaseEntity:   m.BaseModel.ToDomain(),
		Kind:         m.Kind,
		Product:      product,
		SalesChannel: channel,
		Currency:     m.Currency,
		Value:        m.Value,
	}
}

// FromDomain populates the persistence model from a domain Price
func (m *PriceModel) FromDomain(p *pricing.Price) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Kind = p.Kind
	if p.Product != nil {
		m.ProductID = p.Product.ID
	}
	m.SalesChannelID = nil
	if p.IsChannelPrice() && p.SalesChannel != nil {
		id := p.SalesChannel.ID
		m.SalesChannelID = &id
	}
	m.Currency = p.Currency
	m.Value = p.Value
}

// PriceModelFromDomain creates a new persistence model from a domain Price
func PriceModelFromDomain(p *pricing.Price) *PriceModel {
	m := &PriceModel{}
	m.FromDomain(p)
	return m
}
