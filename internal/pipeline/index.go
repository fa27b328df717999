package pipeline

import (
	"sort"

	"flowerboard/internal"
	"flowerboard/internal/util"
)

type PriceMatch struct {
	Name  string
	Price float64
}

// PriceIndex maps every spelling variant of every price book name, canonical
// key included, to that entry. A key equal to a book name always points at
// that name; other collisions go to the first name in sorted order.
type PriceIndex struct {
	byVariant map[string]PriceMatch
}

func BuildPriceIndex(book internal.PriceBook) *PriceIndex {
	names := make([]string, 0, len(book))
	for name := range book {
		names = append(names, name)
	}
	sort.Strings(names)

	idx := &PriceIndex{byVariant: make(map[string]PriceMatch, len(names)*4)}
	for _, name := range names {
		idx.byVariant[name] = PriceMatch{Name: name, Price: book[name]}
	}
	for _, name := range names {
		match := PriceMatch{Name: name, Price: book[name]}
		for _, v := range util.Variants(name) {
			if v == "" {
				continue
			}
			if _, ok := idx.byVariant[v]; !ok {
				idx.byVariant[v] = match
			}
		}
	}
	return idx
}

// Lookup probes the index with each variant of name in order and returns the
// first hit. The canonical key is the last variant probed.
func (idx *PriceIndex) Lookup(name string) (PriceMatch, bool) {
	for _, v := range util.Variants(name) {
		if v == "" {
			continue
		}
		if m, ok := idx.byVariant[v]; ok {
			return m, true
		}
	}
	return PriceMatch{}, false
}
