package pricesync

import (
	"encoding/json"
	"fmt"

	"github.com/erp/pricesync/internal/domain/pricing"
	"github.com/erp/pricesync/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntityDiffInspector decides whether a pending change is worth synchronizing
type EntityDiffInspector struct{}

// NewEntityDiffInspector creates a diff inspector
func NewEntityDiffInspector() *EntityDiffInspector {
	return &EntityDiffInspector{}
}

// IsSignificant reports whether a change set carries a synchronization-relevant
// change. An empty change set belongs to a new record and is always significant.
// Only value (numerically) and currency (exactly) are considered.
func (i *EntityDiffInspector) IsSignificant(changes shared.ChangeSet) bool {
	if len(changes) == 0 {
		return true
	}
	if change, ok := changes[pricing.FieldValue]; ok && !sameNumber(change.Old, change.New) {
		return true
	}
	if change, ok := changes[pricing.FieldCurrency]; ok && !sameString(change.Old, change.New) {
		return true
	}
	return false
}

// sameNumber compares numerically, falling back to the string form when
// either side is not a number
func sameNumber(a, b any) bool {
	x, okA := toDecimal(a)
	y, okB := toDecimal(b)
	if okA && okB {
		return x.Equal(y)
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func sameString(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, true
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, true
		}
		return *n, true
	case decimal.NullDecimal:
		if !n.Valid {
			return decimal.Zero, true
		}
		return n.Decimal, true
	case string:
		d, err := decimal.NewFromString(n)
		return d, err == nil
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	default:
		return decimal.Zero, false
	}
}
