package exporter

import (
	"github.com/shopspring/decimal"
)

// PercentPlaces is the number of decimals shown for percentages
const PercentPlaces = 1

// formatAmount formats a sum in full precision; unset values are empty
func formatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// formatPercent formats a percentage with PercentPlaces decimals, so 28.5714
// is written as 28.6. Unset values are empty, a computed zero is "0.0".
func formatPercent(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(PercentPlaces)
}

// cellValue converts a decimal for a workbook cell. Unset values become nil
// so the cell stays empty.
func cellValue(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}
