package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"flowerboard/internal"
)

const (
	EfficiencySheet = "Efficiency"
	TradesSheet     = "Trades"
)

func ExportRowsToXLSX(efficiency []internal.EfficiencyRow, trades []internal.TradeRow, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), EfficiencySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(TradesSheet); err != nil {
		return err
	}

	writeHeader(f, EfficiencySheet, []string{"name", "kind", "last_sale_price", "duration_hours", "value_per_hour"})
	for i, row := range efficiency {
		set := rowSetter(f, EfficiencySheet, i+2)
		set(1, row.Name)
		set(2, string(row.Kind))
		set(3, row.LastSalePrice)
		set(4, row.DurationSeconds/3600)
		set(5, row.ValuePerHour)
	}

	writeHeader(f, TradesSheet, []string{"name", "kind", "last_sale_price", "coin_price", "coin_per_unit"})
	for i, row := range trades {
		set := rowSetter(f, TradesSheet, i+2)
		set(1, row.Name)
		set(2, string(row.Kind))
		set(3, row.LastSalePrice)
		set(4, row.SecondaryPrice)
		set(5, row.Ratio)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func writeHeader(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
}

func rowSetter(f *excelize.File, sheet string, row int) func(col int, value any) {
	return func(col int, value any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, value)
	}
}
