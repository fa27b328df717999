package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"flowerboard/internal"
)

func TestExportRowsToXLSX(t *testing.T) {
	efficiency := []internal.EfficiencyRow{
		{Name: "Wheat", Kind: internal.KindCrop, LastSalePrice: 3, DurationSeconds: 7200, ValuePerHour: 1.5},
	}
	trades := []internal.TradeRow{
		{Name: "Sun Flower", Kind: internal.KindCrop, LastSalePrice: 5, SecondaryPrice: 20, Ratio: 4},
		{Name: "Egg", Kind: internal.KindAnimal, LastSalePrice: 2, SecondaryPrice: 2, Ratio: 1},
	}

	out := filepath.Join(t.TempDir(), "nested", "result.xlsx")
	if err := ExportRowsToXLSX(efficiency, trades, out); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	effRows, err := f.GetRows(EfficiencySheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(effRows) != 2 || effRows[0][0] != "name" || effRows[1][0] != "Wheat" || effRows[1][3] != "2" {
		t.Fatalf("efficiency sheet=%v", effRows)
	}

	tradeRows, err := f.GetRows(TradesSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(tradeRows) != 3 || tradeRows[1][0] != "Sun Flower" || tradeRows[1][4] != "4" || tradeRows[2][1] != "animal" {
		t.Fatalf("trades sheet=%v", tradeRows)
	}
}

func TestExportRowsToXLSXEmpty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := ExportRowsToXLSX(nil, nil, out); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 2 || sheets[0] != EfficiencySheet || sheets[1] != TradesSheet {
		t.Fatalf("sheets=%v", sheets)
	}
}
