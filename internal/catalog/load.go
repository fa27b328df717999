package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"flowerboard/internal"
	"flowerboard/internal/util"
)

//go:embed data/durations.json
var defaultItems []byte

//go:embed data/coinPrices.json
var defaultSecondary []byte

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the decoder from a file extension. Anything that is not
// .yaml or .yml is read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadItems reads the item catalog from path, or the embedded catalog when
// path is empty.
func LoadItems(path string) ([]internal.CatalogItem, error) {
	if path == "" {
		return ParseItems(defaultItems, FormatJSON)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	items, err := ParseItems(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// LoadSecondary reads the secondary price list from path, or the embedded
// list when path is empty.
func LoadSecondary(path string) ([]internal.SecondaryItem, error) {
	if path == "" {
		return ParseSecondary(defaultSecondary, FormatJSON)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	entries, err := ParseSecondary(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

func ParseItems(data []byte, format Format) ([]internal.CatalogItem, error) {
	var items []internal.CatalogItem
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &items)
	default:
		err = json.Unmarshal(data, &items)
	}
	if err != nil {
		return nil, fmt.Errorf("item catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]internal.CatalogItem, 0, len(items))
	for i, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			return nil, fmt.Errorf("item catalog entry %d: empty name", i)
		}
		key := util.LowerKey(item.Name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("item catalog entry %d: duplicate name %q", i, item.Name)
		}
		seen[key] = struct{}{}

		kind := util.NormalizeKind(string(item.Kind))
		if kind == "" {
			kind = internal.KindCrop
		}
		if !kind.Valid() {
			return nil, fmt.Errorf("item catalog entry %q: unknown kind %q", item.Name, item.Kind)
		}
		item.Kind = kind
		out = append(out, item)
	}
	return out, nil
}

// ParseSecondary accepts a {name: price} object, whose document order is
// kept, or a list of {name, secondaryPrice} entries.
func ParseSecondary(data []byte, format Format) ([]internal.SecondaryItem, error) {
	var entries []internal.SecondaryItem
	var err error
	switch format {
	case FormatYAML:
		entries, err = secondaryFromYAML(data)
	default:
		entries, err = secondaryFromJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("secondary catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(entries))
	out := make([]internal.SecondaryItem, 0, len(entries))
	for i, entry := range entries {
		entry.Name = strings.TrimSpace(entry.Name)
		if entry.Name == "" {
			return nil, fmt.Errorf("secondary catalog entry %d: empty name", i)
		}
		key := util.LowerKey(entry.Name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("secondary catalog entry %d: duplicate name %q", i, entry.Name)
		}
		seen[key] = struct{}{}

		if !(entry.SecondaryPrice > 0) || math.IsInf(entry.SecondaryPrice, 0) {
			return nil, fmt.Errorf("secondary catalog entry %q: price must be positive, got %v", entry.Name, entry.SecondaryPrice)
		}
		out = append(out, entry)
	}
	return out, nil
}

func secondaryFromJSON(data []byte) ([]internal.SecondaryItem, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty document")
	}
	if trimmed[0] == '[' {
		var entries []internal.SecondaryItem
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object or list, got %v", tok)
	}

	var entries []internal.SecondaryItem
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)
		var price float64
		if err := dec.Decode(&price); err != nil {
			return nil, fmt.Errorf("%q: %w", name, err)
		}
		entries = append(entries, internal.SecondaryItem{Name: name, SecondaryPrice: price})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}

func secondaryFromYAML(data []byte) ([]internal.SecondaryItem, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty document")
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var entries []internal.SecondaryItem
		if err := root.Decode(&entries); err != nil {
			return nil, err
		}
		return entries, nil
	case yaml.MappingNode:
		entries := make([]internal.SecondaryItem, 0, len(root.Content)/2)
		for i := 0; i+1 < len(root.Content); i += 2 {
			name := root.Content[i].Value
			var price float64
			if err := root.Content[i+1].Decode(&price); err != nil {
				return nil, fmt.Errorf("%q: %w", name, err)
			}
			entries = append(entries, internal.SecondaryItem{Name: name, SecondaryPrice: price})
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("expected mapping or list at line %d", root.Line)
	}
}
