package pipeline

import (
	"testing"

	"flowerboard/internal"
)

func sampleEfficiencyRows() []internal.EfficiencyRow {
	return []internal.EfficiencyRow{
		{Name: "Iron", Kind: internal.KindMining, LastSalePrice: 0.9, DurationSeconds: 28800, ValuePerHour: 0.1125},
		{Name: "Apple", Kind: internal.Kind("fruits"), LastSalePrice: 0.6, DurationSeconds: 43200, ValuePerHour: 0.05},
		{Name: "Potato", Kind: internal.KindCrop, LastSalePrice: 0.0015, DurationSeconds: 300, ValuePerHour: 0.018},
		{Name: "Sweet Potato", Kind: internal.KindCrop, LastSalePrice: 0.01, DurationSeconds: 3600, ValuePerHour: 0.01},
	}
}

func names[T any](rows []T, name func(T) string) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, name(r))
	}
	return out
}

func effName(r internal.EfficiencyRow) string { return r.Name }
func tradeName(r internal.TradeRow) string    { return r.Name }

func equalNames(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestQueryApplyEfficiency(t *testing.T) {
	cases := []struct {
		name  string
		query Query
		want  []string
	}{
		{name: "zero query", query: Query{}, want: []string{"Iron", "Apple", "Potato", "Sweet Potato"}},
		{name: "all kinds", query: Query{Kind: "all"}, want: []string{"Iron", "Apple", "Potato", "Sweet Potato"}},
		{name: "crop", query: Query{Kind: "crop"}, want: []string{"Potato", "Sweet Potato"}},
		{name: "fruit collapses fruits", query: Query{Kind: "Fruit"}, want: []string{"Apple"}},
		{name: "search", query: Query{Search: "POTATO"}, want: []string{"Potato", "Sweet Potato"}},
		{name: "kind and search", query: Query{Kind: "crop", Search: "sweet"}, want: []string{"Sweet Potato"}},
		{name: "ascending", query: Query{Sort: SortValueAsc}, want: []string{"Sweet Potato", "Potato", "Apple", "Iron"}},
		{name: "price", query: Query{Sort: SortPrice}, want: []string{"Iron", "Apple", "Sweet Potato", "Potato"}},
		{name: "duration", query: Query{Sort: SortDuration}, want: []string{"Potato", "Sweet Potato", "Iron", "Apple"}},
		{name: "unknown sort", query: Query{Sort: "bogus"}, want: []string{"Iron", "Apple", "Potato", "Sweet Potato"}},
		{name: "no hits", query: Query{Kind: "greenhouse"}, want: []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows := sampleEfficiencyRows()
			got := tc.query.ApplyEfficiency(rows)
			equalNames(t, names(got, effName), tc.want)
			if rows[0].Name != "Iron" {
				t.Fatal("input rows were reordered")
			}
		})
	}
}

func TestQueryApplyTrades(t *testing.T) {
	rows := []internal.TradeRow{
		{Name: "Kale", Kind: internal.KindCrop, LastSalePrice: 0.2, SecondaryPrice: 10, Ratio: 50},
		{Name: "Gold", Kind: internal.KindMining, LastSalePrice: 4, SecondaryPrice: 100, Ratio: 25},
		{Name: "Egg", Kind: internal.KindAnimal, LastSalePrice: 0.5, SecondaryPrice: 5, Ratio: 10},
	}

	cases := []struct {
		name  string
		query Query
		want  []string
	}{
		{name: "default", query: Query{}, want: []string{"Kale", "Gold", "Egg"}},
		{name: "ratio asc", query: Query{Sort: SortRatioAsc}, want: []string{"Egg", "Gold", "Kale"}},
		{name: "flower", query: Query{Sort: SortFlower}, want: []string{"Gold", "Egg", "Kale"}},
		{name: "coin", query: Query{Sort: SortCoin}, want: []string{"Gold", "Kale", "Egg"}},
		{name: "mining", query: Query{Kind: "mining"}, want: []string{"Gold"}},
		{name: "search", query: Query{Search: "e"}, want: []string{"Kale", "Egg"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			equalNames(t, names(tc.query.ApplyTrades(rows), tradeName), tc.want)
		})
	}
}
