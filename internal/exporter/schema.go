package exporter

import (
	"github.com/shopspring/decimal"

	"salesanalyzer/pkg/contracts/domain"
)

// Header locales
const (
	LocaleEnglish = "en"
	LocaleChinese = "zh"
)

type columnKind int

const (
	kindText columnKind = iota
	kindAmount
	kindPercent
)

// column is one field of the fixed report schema
type column struct {
	id      string
	chinese string
	kind    columnKind
	text    func(domain.ReportRow) string
	number  func(domain.ReportRow) decimal.NullDecimal
}

func textColumn(id, chinese string, get func(domain.ReportRow) string) column {
	return column{id: id, chinese: chinese, kind: kindText, text: get}
}

func shareColumn(id, chinese string, basis domain.Basis, sales bool) column {
	return numberColumn(id, chinese, kindPercent, func(r domain.ReportRow) decimal.NullDecimal {
		share := r.ShareFor(basis)
		if sales {
			return share.Sales
		}
		return share.Volume
	})
}

func numberColumn(id, chinese string, kind columnKind, get func(domain.ReportRow) decimal.NullDecimal) column {
	return column{id: id, chinese: chinese, kind: kind, number: get}
}

// columns is the report schema in output order. Every row of every section
// is written under the same header; columns a section does not use are left
// empty.
var columns = []column{
	textColumn("analysis_type", "分析类型", func(r domain.ReportRow) string { return string(r.AnalysisType) }),
	textColumn("section", "分析项", func(r domain.ReportRow) string { return r.Section }),
	textColumn("metric", "指标", func(r domain.ReportRow) string { return r.Metric }),
	textColumn("price_bucket", "价格区间", func(r domain.ReportRow) string { return r.PriceBucket }),
	textColumn("brand", "品牌", func(r domain.ReportRow) string { return r.Brand }),
	textColumn("title", "商品标题", func(r domain.ReportRow) string { return r.Title }),
	textColumn("link", "商品链接", func(r domain.ReportRow) string { return r.Link }),
	numberColumn("total_sales", "销售额", kindAmount, func(r domain.ReportRow) decimal.NullDecimal { return r.TotalSales }),
	numberColumn("total_volume", "销量", kindAmount, func(r domain.ReportRow) decimal.NullDecimal { return r.TotalVolume }),
	shareColumn("pct_sales_of_total", "销售额占总体比例", domain.BasisOverall, true),
	shareColumn("pct_volume_of_total", "销量占总体比例", domain.BasisOverall, false),
	shareColumn("pct_sales_of_bucket", "销售额占价位段比例", domain.BasisBucket, true),
	shareColumn("pct_volume_of_bucket", "销量占价位段比例", domain.BasisBucket, false),
	shareColumn("pct_sales_of_brand", "销售额占品牌总额比例", domain.BasisBrand, true),
	shareColumn("pct_volume_of_brand", "销量占品牌总量比例", domain.BasisBrand, false),
}

var chineseMetrics = map[string]string{
	domain.MetricTotalSales:  "总销售额",
	domain.MetricTotalVolume: "总销量",
}

// Headers returns the header row for locale. Unknown locales get the
// English column ids.
func Headers(locale string) []string {
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.id
		if locale == LocaleChinese {
			headers[i] = c.chinese
		}
	}
	return headers
}

// localizeText translates the values that have a fixed vocabulary
func localizeText(c column, value, locale string) string {
	if locale == LocaleChinese && c.id == "metric" {
		if zh, ok := chineseMetrics[value]; ok {
			return zh
		}
	}
	return value
}
