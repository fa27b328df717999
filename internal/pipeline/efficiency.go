package pipeline

import (
	"sort"

	"flowerboard/internal"
	"flowerboard/internal/util"
)

// EvaluateEfficiency returns value-per-hour rows sorted descending. Items
// without a positive price or with a non-positive duration are left out;
// ties keep catalog order.
func EvaluateEfficiency(items []internal.CatalogItem, prices internal.PriceBook) []internal.EfficiencyRow {
	rows, _ := EvaluateEfficiencyDetailed(items, prices)
	return rows
}

// EvaluateEfficiencyDetailed is EvaluateEfficiency that also reports every
// item it dropped.
func EvaluateEfficiencyDetailed(items []internal.CatalogItem, prices internal.PriceBook) ([]internal.EfficiencyRow, []internal.Omission) {
	rows := make([]internal.EfficiencyRow, 0, len(items))
	omitted := make([]internal.Omission, 0)

	for _, item := range items {
		price := prices[util.LowerKey(item.Name)]
		if !(price > 0) {
			omitted = append(omitted, internal.Omission{Name: item.Name, Reason: internal.OmitNoPrice})
			continue
		}
		if !(item.DurationSeconds > 0) {
			omitted = append(omitted, internal.Omission{Name: item.Name, Reason: internal.OmitNonPositiveDuration})
			continue
		}

		hours := item.DurationSeconds / 3600
		rows = append(rows, internal.EfficiencyRow{
			Name:            item.Name,
			Kind:            item.Kind,
			LastSalePrice:   price,
			DurationSeconds: item.DurationSeconds,
			ValuePerHour:    price / hours,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ValuePerHour > rows[j].ValuePerHour })
	return rows, omitted
}
