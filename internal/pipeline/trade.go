package pipeline

import (
	"sort"

	"flowerboard/internal"
	"flowerboard/internal/util"
)

// EvaluateTrades returns coin-per-primary-currency rows sorted descending by
// ratio. Secondary entries whose name matches no price book entry are left out.
func EvaluateTrades(book internal.PriceBook, secondary []internal.SecondaryItem, items []internal.CatalogItem) []internal.TradeRow {
	rows, _ := EvaluateTradesDetailed(book, secondary, items)
	return rows
}

func EvaluateTradesDetailed(book internal.PriceBook, secondary []internal.SecondaryItem, items []internal.CatalogItem) ([]internal.TradeRow, []internal.Omission) {
	index := BuildPriceIndex(book)
	kinds := kindTable(items)

	rows := make([]internal.TradeRow, 0, len(secondary))
	omitted := make([]internal.Omission, 0)

	for _, entry := range secondary {
		match, ok := index.Lookup(entry.Name)
		if !ok {
			omitted = append(omitted, internal.Omission{Name: entry.Name, Reason: internal.OmitNoMatch})
			continue
		}
		if !(match.Price > 0) {
			omitted = append(omitted, internal.Omission{Name: entry.Name, Reason: internal.OmitNonPositivePrice})
			continue
		}

		rows = append(rows, internal.TradeRow{
			Name:           entry.Name,
			Kind:           resolveKind(kinds, entry.Name, match.Name),
			LastSalePrice:  match.Price,
			SecondaryPrice: entry.SecondaryPrice,
			Ratio:          entry.SecondaryPrice / match.Price,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Ratio > rows[j].Ratio })
	return rows, omitted
}

func kindTable(items []internal.CatalogItem) map[string]internal.Kind {
	out := make(map[string]internal.Kind, len(items))
	for _, item := range items {
		key := util.LowerKey(item.Name)
		if _, ok := out[key]; ok {
			continue
		}
		kind := util.NormalizeKind(string(item.Kind))
		if kind == "" {
			kind = internal.KindCrop
		}
		out[key] = kind
	}
	return out
}

// resolveKind tries the secondary name, then the matched book name, and
// falls back to crop.
func resolveKind(kinds map[string]internal.Kind, names ...string) internal.Kind {
	for _, name := range names {
		if kind, ok := kinds[util.LowerKey(name)]; ok {
			return kind
		}
	}
	return internal.KindCrop
}
