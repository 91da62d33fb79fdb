package pricesync

import (
	"encoding/json"
	"testing"

	"github.com/erp/pricesync/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestEntityDiffInspector_IsSignificant(t *testing.T) {
	inspector := NewEntityDiffInspector()

	tests := []struct {
		name    string
		changes shared.ChangeSet
		want    bool
	}{
		{
			name:    "new record",
			changes: nil,
			want:    true,
		},
		{
			name:    "empty change set",
			changes: shared.ChangeSet{},
			want:    true,
		},
		{
			name:    "value changed",
			changes: shared.ChangeSet{"value": {Old: dec("10"), New: dec("12")}},
			want:    true,
		},
		{
			name:    "value rewritten with different scale",
			changes: shared.ChangeSet{"value": {Old: "10.00", New: dec("10")}},
			want:    false,
		},
		{
			name:    "value as float and string",
			changes: shared.ChangeSet{"value": {Old: 10.5, New: "10.50"}},
			want:    false,
		},
		{
			name:    "value as json number",
			changes: shared.ChangeSet{"value": {Old: json.Number("7"), New: 7}},
			want:    false,
		},
		{
			name:    "value set from nothing",
			changes: shared.ChangeSet{"value": {Old: nil, New: dec("3")}},
			want:    true,
		},
		{
			name:    "nil reads as zero",
			changes: shared.ChangeSet{"value": {Old: nil, New: dec("0")}},
			want:    false,
		},
		{
			name:    "unparseable values compared as text",
			changes: shared.ChangeSet{"value": {Old: "n/a", New: "n/a"}},
			want:    false,
		},
		{
			name:    "unparseable value changed",
			changes: shared.ChangeSet{"value": {Old: "n/a", New: "10"}},
			want:    true,
		},
		{
			name:    "currency changed",
			changes: shared.ChangeSet{"currency": {Old: "USD", New: "EUR"}},
			want:    true,
		},
		{
			name:    "currency rewritten unchanged",
			changes: shared.ChangeSet{"currency": {Old: "USD", New: "USD"}},
			want:    false,
		},
		{
			name:    "currency compared exactly",
			changes: shared.ChangeSet{"currency": {Old: "USD", New: "usd"}},
			want:    true,
		},
		{
			name:    "only untracked fields",
			changes: shared.ChangeSet{"updated_at": {Old: 1, New: 2}},
			want:    false,
		},
		{
			name: "unchanged value with changed currency",
			changes: shared.ChangeSet{
				"value":    {Old: dec("5"), New: dec("5")},
				"currency": {Old: "USD", New: "GBP"},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inspector.IsSignificant(tt.changes))
		})
	}
}
