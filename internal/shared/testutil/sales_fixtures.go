package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"salesanalyzer/pkg/contracts/domain"
)

// SalesHeader is the header row of the marketplace export
var SalesHeader = []string{"时间", "商品标题", "商品链接", "销售额", "销量", "品牌", "价格"}

// SampleRecords returns a small lamp data set spread over several price
// bands, with one band ("1000+") left empty.
func SampleRecords() []domain.Record {
	rows := []struct {
		brand  string
		title  string
		price  string
		sales  string
		volume int64
	}{
		{"Opple", "LED ceiling lamp 24W", "89.9", "12588.50", 140},
		{"Philips", "Desk lamp eye care", "159", "31800", 200},
		{"Opple", "Pendant light dining room", "299", "8970", 30},
		{"NVC", "Crystal chandelier", "899", "17980", 20},
		{"Xiaomi", "Smart bedside lamp", "249", "24900", 100},
		{"Philips", "Floor lamp reading", "459", "9180", 20},
		{"NVC", "Ceiling lamp living room", "599.5", "11990", 20},
		{"Yeelight", "Light bar monitor lamp", "199", "19900", 100},
		{"Xiaomi", "Night light motion sensor", "49.9", "4990", 100},
		{"Panasonic", "Ceiling lamp bedroom", "359", "7180", 20},
		{"Opple", "Track spotlight", "99.99", "999.9", 10},
		{"Yeelight", "Pro ceiling lamp", "100", "5000", 50},
	}

	out := make([]domain.Record, len(rows))
	for i, r := range rows {
		out[i] = domain.Record{
			Time:        "2024-11",
			Title:       r.title,
			Link:        fmt.Sprintf("https://item.example.com/%d", 1000+i),
			SalesAmount: decimal.RequireFromString(r.sales),
			Volume:      decimal.NewFromInt(r.volume),
			Brand:       r.brand,
			Price:       decimal.RequireFromString(r.price),
		}
	}
	return out
}

// RecordRow renders a record as a row under SalesHeader
func RecordRow(r domain.Record) []interface{} {
	return []interface{}{
		r.Time,
		r.Title,
		r.Link,
		r.SalesAmount.InexactFloat64(),
		r.Volume.IntPart(),
		r.Brand,
		r.Price.InexactFloat64(),
	}
}

// WriteWorkbook writes header and rows to a new workbook in t.TempDir() and
// returns its path
func WriteWorkbook(t *testing.T, name string, header []string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for i, row := range rows {
		row := row
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("write row %d: %v", i+2, err)
		}
	}

	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

// WriteSampleWorkbook writes SampleRecords as a marketplace export workbook
func WriteSampleWorkbook(t *testing.T) string {
	t.Helper()
	records := SampleRecords()
	rows := make([][]interface{}, len(records))
	for i, r := range records {
		rows[i] = RecordRow(r)
	}
	return WriteWorkbook(t, "lamps.xlsx", SalesHeader, rows)
}
