// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
// - base.go: shared id and timestamp columns
// - catalog.go: products, sales channels, product offers and prices
// - integration.go: integration channels
// - outbox.go: sync job outbox
package models
