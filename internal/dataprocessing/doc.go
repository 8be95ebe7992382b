// Package dataprocessing reads marketplace sales exports into domain records.
//
// # Input formats
//
// Two formats are accepted, chosen by file extension:
//
//   - .xlsx workbooks, read with excelize from the configured sheet (the
//     first sheet by default) using raw cell values
//   - .csv files, UTF-8 with an optional byte order mark
//
// # Header matching
//
// The first non-blank row is the header. Columns are matched by the export's
// Chinese names (时间 商品标题 商品链接 销售额 销量 品牌 价格) or by English
// aliases such as title, link, sales_amount, volume, brand and price. Case and
// surrounding spaces are ignored. 时间 is optional and carried through unused.
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger, "")
//	set, err := loader.LoadRecords(ctx, "data/lamps.xlsx")
//	if err != nil {
//	    return err
//	}
//
// # Error Handling
//
// Every rejection is an INVALID_INPUT AppError carrying the source, the
// 1-based row number and the column name in its context:
//
//   - a missing required column
//   - an empty, non-numeric or negative numeric cell
//   - a fractional volume
//
// Fully blank rows are skipped.
package dataprocessing
