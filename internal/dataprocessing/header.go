package dataprocessing

import (
	"strings"

	"github.com/samber/lo"
)

// Column identifies one input field independent of the header language
type Column string

const (
	ColumnTime   Column = "time"
	ColumnTitle  Column = "title"
	ColumnLink   Column = "link"
	ColumnSales  Column = "sales_amount"
	ColumnVolume Column = "volume"
	ColumnBrand  Column = "brand"
	ColumnPrice  Column = "price"
)

// RequiredColumns must all be present in the header row
var RequiredColumns = []Column{ColumnTitle, ColumnLink, ColumnSales, ColumnVolume, ColumnBrand, ColumnPrice}

// headerAliases maps normalised header text to a column. The Chinese names
// are the marketplace export headers.
var headerAliases = map[string]Column{
	"时间":   ColumnTime,
	"商品标题": ColumnTitle,
	"商品链接": ColumnLink,
	"销售额":  ColumnSales,
	"销量":   ColumnVolume,
	"品牌":   ColumnBrand,
	"价格":   ColumnPrice,

	"time":         ColumnTime,
	"date":         ColumnTime,
	"title":        ColumnTitle,
	"product":      ColumnTitle,
	"link":         ColumnLink,
	"url":          ColumnLink,
	"sales_amount": ColumnSales,
	"sales":        ColumnSales,
	"volume":       ColumnVolume,
	"units":        ColumnVolume,
	"brand":        ColumnBrand,
	"price":        ColumnPrice,
}

func normaliseHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.Join(strings.Fields(h), "_")
	return strings.ReplaceAll(h, "-", "_")
}

// columnMap maps each recognised column to its index in the header row.
// The first occurrence of a column wins.
type columnMap map[Column]int

func mapHeader(header []string) columnMap {
	cols := columnMap{}
	for i, h := range header {
		col, ok := headerAliases[normaliseHeader(h)]
		if !ok {
			continue
		}
		if _, seen := cols[col]; !seen {
			cols[col] = i
		}
	}
	return cols
}

// missing lists the required columns absent from the header
func (m columnMap) missing() []string {
	absent := lo.Filter(RequiredColumns, func(c Column, _ int) bool {
		_, ok := m[c]
		return !ok
	})
	return lo.Map(absent, func(c Column, _ int) string { return string(c) })
}

// cell returns the trimmed value of col in row, or "" when the row is short
func (m columnMap) cell(row []string, col Column) string {
	i, ok := m[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
