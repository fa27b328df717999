package pipeline

import (
	"sort"
	"strings"

	"flowerboard/internal"
	"flowerboard/internal/util"
)

const (
	SortValueDesc = "fcdesc"
	SortValueAsc  = "fcasc"
	SortPrice     = "price"
	SortDuration  = "duration"

	SortRatioDesc = "ratioDesc"
	SortRatioAsc  = "ratioAsc"
	SortFlower    = "flower"
	SortCoin      = "coin"
)

// Query narrows and reorders evaluated rows. The zero Query returns rows
// unchanged. Unknown sort values keep the default order.
type Query struct {
	Kind   string
	Search string
	Sort   string
}

func (q Query) matches(name string, kind internal.Kind) bool {
	want := util.NormalizeKind(q.Kind)
	if want != "" && want != "all" && util.NormalizeKind(string(kind)) != want {
		return false
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))
	return search == "" || strings.Contains(strings.ToLower(name), search)
}

func (q Query) ApplyEfficiency(rows []internal.EfficiencyRow) []internal.EfficiencyRow {
	out := make([]internal.EfficiencyRow, 0, len(rows))
	for _, r := range rows {
		if q.matches(r.Name, r.Kind) {
			out = append(out, r)
		}
	}

	switch q.Sort {
	case SortValueAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ValuePerHour < out[j].ValuePerHour })
	case SortPrice:
		sort.SliceStable(out, func(i, j int) bool { return out[i].LastSalePrice > out[j].LastSalePrice })
	case SortDuration:
		sort.SliceStable(out, func(i, j int) bool { return out[i].DurationSeconds < out[j].DurationSeconds })
	}
	return out
}

func (q Query) ApplyTrades(rows []internal.TradeRow) []internal.TradeRow {
	out := make([]internal.TradeRow, 0, len(rows))
	for _, r := range rows {
		if q.matches(r.Name, r.Kind) {
			out = append(out, r)
		}
	}

	switch q.Sort {
	case SortRatioAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Ratio < out[j].Ratio })
	case SortFlower:
		sort.SliceStable(out, func(i, j int) bool { return out[i].LastSalePrice > out[j].LastSalePrice })
	case SortCoin:
		sort.SliceStable(out, func(i, j int) bool { return out[i].SecondaryPrice > out[j].SecondaryPrice })
	}
	return out
}
