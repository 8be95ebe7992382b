package analysis

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TopN returns at most n items ordered by key descending. The sort is stable:
// items with equal keys keep their input order. Fewer than n items are
// returned as they are, without padding.
func TopN[T any](items []T, n int, key func(T) decimal.Decimal) []T {
	if n <= 0 || len(items) == 0 {
		return nil
	}
	sorted := sortStable(items, func(a, b T) bool {
		return key(a).GreaterThan(key(b))
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// BySales is the ranking key for aggregate rows
func BySales(r AggregateRow) decimal.Decimal {
	return r.TotalSales
}

// TopBySales ranks aggregate rows by total sales
func TopBySales(rows []AggregateRow, n int) []AggregateRow {
	return TopN(rows, n, BySales)
}

func sortStable[T any](items []T, less func(a, b T) bool) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}
