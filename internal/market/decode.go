package market

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"flowerboard/internal"
)

// Shape identifies which public feed layout a response matched.
type Shape int

const (
	ShapeUnknown Shape = iota
	// {"p2p": {...}, "seq": {...}}
	ShapeSplit
	// {"prices"|"data": {"p2p": {...}, "seq": {...}}}
	ShapeNestedSplit
	// {"prices"?: {"Name": {"p2p"|"seq"|"floor"|"last": n}}}
	ShapePerItem
)

func (s Shape) String() string {
	switch s {
	case ShapeSplit:
		return "split"
	case ShapeNestedSplit:
		return "nested_split"
	case ShapePerItem:
		return "per_item"
	default:
		return "unknown"
	}
}

// Decoded is the result of matching a public feed body against the known shapes.
// Keys holds the body's top-level keys and is only filled for ShapeUnknown.
type Decoded struct {
	Shape Shape
	Book  internal.PriceBook
	Keys  []string
}

type shapeStrategy struct {
	shape  Shape
	decode func(root map[string]any) (internal.PriceBook, bool)
}

// Strategies are tried in order; the first structural match wins.
var publicShapes = []shapeStrategy{
	{shape: ShapeSplit, decode: decodeSplit},
	{shape: ShapeNestedSplit, decode: decodeNestedSplit},
	{shape: ShapePerItem, decode: decodePerItem},
}

var (
	resourceNameFields  = []string{"name", "item", "symbol"}
	resourcePriceFields = []string{"lastSaleFlower", "lastSale", "priceFlower", "fc"}
	perItemPriceFields  = []string{"p2p", "seq", "floor", "last"}
)

// DecodePublic matches a public feed body against the known shapes. Only a
// body that is not JSON returns an error; an unrecognised layout yields
// ShapeUnknown with an empty book.
func DecodePublic(body []byte) (Decoded, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return Decoded{}, err
	}

	root, ok := raw.(map[string]any)
	if !ok {
		return Decoded{Shape: ShapeUnknown, Book: internal.PriceBook{}}, nil
	}

	for _, s := range publicShapes {
		if book, ok := s.decode(root); ok {
			return Decoded{Shape: s.shape, Book: book}, nil
		}
	}
	return Decoded{Shape: ShapeUnknown, Book: internal.PriceBook{}, Keys: sortedKeys(root)}, nil
}

// DecodeResources parses the private feed: a list of entries, or an object
// with an "items" list. Entries without a name or a positive price are skipped.
func DecodeResources(body []byte) (internal.PriceBook, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	var list []any
	switch t := raw.(type) {
	case []any:
		list = t
	case map[string]any:
		items, ok := t["items"]
		if ok && items != nil {
			list, ok = items.([]any)
			if !ok {
				return nil, errors.New(`"items" is not a list`)
			}
		}
	default:
		return nil, errors.New("unexpected resources payload")
	}

	book := internal.PriceBook{}
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		nameValue, _ := firstPresent(m, resourceNameFields...)
		name := toName(nameValue)
		priceValue, _ := firstPresent(m, resourcePriceFields...)
		price, ok := toNumber(priceValue)
		if !ok {
			continue
		}
		addPrice(book, name, price)
	}
	return book, nil
}

func decodeSplit(root map[string]any) (internal.PriceBook, bool) {
	return splitBook(root)
}

func decodeNestedSplit(root map[string]any) (internal.PriceBook, bool) {
	for _, field := range []string{"prices", "data"} {
		inner, ok := root[field].(map[string]any)
		if !ok {
			continue
		}
		if book, ok := splitBook(inner); ok {
			return book, true
		}
	}
	return nil, false
}

func decodePerItem(root map[string]any) (internal.PriceBook, bool) {
	container := root
	for _, field := range []string{"prices", "data"} {
		if v, ok := root[field]; ok && v != nil {
			inner, ok := v.(map[string]any)
			if !ok {
				return nil, false
			}
			container = inner
			break
		}
	}

	book := internal.PriceBook{}
	for _, name := range sortedKeys(container) {
		obj, ok := container[name].(map[string]any)
		if !ok {
			continue
		}
		value, _ := firstPresent(obj, perItemPriceFields...)
		price, ok := toNumber(value)
		if !ok {
			continue
		}
		addPrice(book, name, price)
	}
	if len(book) == 0 {
		return nil, false
	}
	return book, true
}

// splitBook merges p2p and seq maps. p2p wins; seq only fills names p2p lacks.
func splitBook(container map[string]any) (internal.PriceBook, bool) {
	p2p, hasP2P := container["p2p"]
	seq, hasSeq := container["seq"]
	hasP2P = hasP2P && p2p != nil
	hasSeq = hasSeq && seq != nil
	if !hasP2P && !hasSeq {
		return nil, false
	}

	book := internal.PriceBook{}
	if m, ok := p2p.(map[string]any); ok {
		for _, name := range sortedKeys(m) {
			if v, ok := m[name].(float64); ok {
				addPrice(book, name, v)
			}
		}
	}
	if m, ok := seq.(map[string]any); ok {
		for _, name := range sortedKeys(m) {
			if _, exists := book[strings.ToLower(strings.TrimSpace(name))]; exists {
				continue
			}
			if v, ok := m[name].(float64); ok {
				addPrice(book, name, v)
			}
		}
	}
	return book, true
}

func addPrice(book internal.PriceBook, name string, price float64) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return false
	}
	book[key] = price
	return true
}

func firstPresent(m map[string]any, fields ...string) (any, bool) {
	for _, f := range fields {
		if v, ok := m[f]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func toName(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func toNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
