package pricesync

import (
	"slices"

	"github.com/erp/pricesync/internal/domain/pricing"
	"github.com/erp/pricesync/internal/domain/shared"
)

// PriceCandidateFilter turns the pending entities of a commit into the price
// records that need exporting
type PriceCandidateFilter struct {
	inspector *EntityDiffInspector
}

// NewPriceCandidateFilter creates a candidate filter
func NewPriceCandidateFilter(inspector *EntityDiffInspector) *PriceCandidateFilter {
	if inspector == nil {
		inspector = NewEntityDiffInspector()
	}
	return &PriceCandidateFilter{inspector: inspector}
}

// Filter keeps significant price records, one per price slot with the last
// pending change winning, and returns channel prices ahead of product prices.
// Slots keep the position of their first appearance otherwise.
func (f *PriceCandidateFilter) Filter(tx shared.TransactionInspector, entities []shared.Entity) []*pricing.Price {
	keys := make([]string, 0, len(entities))
	bySlot := make(map[string]*pricing.Price, len(entities))

	for _, entity := range entities {
		price, ok := entity.(*pricing.Price)
		if !ok || price == nil || price.Product == nil {
			continue
		}
		if !f.inspector.IsSignificant(tx.EntityChangeSet(entity)) {
			continue
		}

		key := price.SlotKey()
		if _, seen := bySlot[key]; !seen {
			keys = append(keys, key)
		}
		bySlot[key] = price
	}

	candidates := make([]*pricing.Price, 0, len(keys))
	for _, key := range keys {
		candidates = append(candidates, bySlot[key])
	}

	slices.SortStableFunc(candidates, func(a, b *pricing.Price) int {
		return kindRank(a) - kindRank(b)
	})
	return candidates
}

func kindRank(p *pricing.Price) int {
	if p.IsChannelPrice() {
		return 0
	}
	return 1
}
