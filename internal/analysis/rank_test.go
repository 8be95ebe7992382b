package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func row(brand string, sales int64) AggregateRow {
	return AggregateRow{Key: GroupKey{Brand: brand}, TotalSales: decimal.NewFromInt(sales)}
}

func brands(rows []AggregateRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Key.Brand
	}
	return out
}

func TestTopBySales(t *testing.T) {
	input := []AggregateRow{row("A", 10), row("B", 30), row("C", 20), row("D", 30), row("E", 5)}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{"top 3 with tie in input order", 3, []string{"B", "D", "C"}},
		{"n larger than input", 10, []string{"B", "D", "C", "A", "E"}},
		{"zero", 0, nil},
		{"negative", -1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopBySales(input, tt.n)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, brands(got))
		})
	}
}

func TestTopN_DoesNotMutateInput(t *testing.T) {
	input := []AggregateRow{row("A", 1), row("B", 2)}
	_ = TopBySales(input, 2)
	assert.Equal(t, []string{"A", "B"}, brands(input))
}

func TestTopN_AllTied(t *testing.T) {
	input := []AggregateRow{row("X", 7), row("Y", 7), row("Z", 7)}
	assert.Equal(t, []string{"X", "Y"}, brands(TopBySales(input, 2)))
}
