package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flowerboard/internal"
)

func TestDefaultCatalogsLoad(t *testing.T) {
	items, err := LoadItems("")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) == 0 || items[0].Name != "Sunflower" {
		t.Fatalf("items=%+v", items)
	}
	for _, item := range items {
		if !item.Kind.Valid() {
			t.Fatalf("%s: kind %q", item.Name, item.Kind)
		}
	}

	secondary, err := LoadSecondary("")
	if err != nil {
		t.Fatal(err)
	}
	if len(secondary) == 0 || secondary[0].Name != "Sun Flower" {
		t.Fatalf("secondary=%+v", secondary)
	}
}

func TestParseItemsNormalizesKind(t *testing.T) {
	data := []byte(`[
		{"name": " Apple ", "kind": "Fruits", "durationSec": 43200},
		{"name": "Wheat", "durationSec": 86400},
		{"name": "Mushroom", "kind": "crop", "durationSec": 0}
	]`)

	items, err := ParseItems(data, FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	want := []internal.CatalogItem{
		{Name: "Apple", Kind: internal.KindFruit, DurationSeconds: 43200},
		{Name: "Wheat", Kind: internal.KindCrop, DurationSeconds: 86400},
		{Name: "Mushroom", Kind: internal.KindCrop, DurationSeconds: 0},
	}
	if len(items) != len(want) {
		t.Fatalf("items=%+v", items)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Fatalf("items[%d]=%+v want %+v", i, items[i], want[i])
		}
	}
}

func TestParseItemsRejects(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{name: "unknown kind", data: `[{"name":"Rock","kind":"mineral","durationSec":1}]`, want: "unknown kind"},
		{name: "empty name", data: `[{"name":"  ","kind":"crop","durationSec":1}]`, want: "empty name"},
		{name: "duplicate", data: `[{"name":"Kale","kind":"crop","durationSec":1},{"name":"kale","kind":"crop","durationSec":2}]`, want: "duplicate"},
		{name: "not a list", data: `{"name":"Kale"}`, want: "item catalog"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseItems([]byte(tc.data), FormatJSON)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err=%v want %q", err, tc.want)
			}
		})
	}
}

func TestParseSecondaryForms(t *testing.T) {
	cases := []struct {
		name   string
		format Format
		data   string
	}{
		{name: "json object", format: FormatJSON, data: `{"Zucchini": 3, "Apple": 25, "Egg": 4}`},
		{name: "json list", format: FormatJSON, data: `[{"name":"Zucchini","secondaryPrice":3},{"name":"Apple","secondaryPrice":25},{"name":"Egg","secondaryPrice":4}]`},
		{name: "yaml mapping", format: FormatYAML, data: "Zucchini: 3\nApple: 25\nEgg: 4\n"},
		{name: "yaml list", format: FormatYAML, data: "- name: Zucchini\n  secondaryPrice: 3\n- name: Apple\n  secondaryPrice: 25\n- name: Egg\n  secondaryPrice: 4\n"},
	}

	want := []internal.SecondaryItem{
		{Name: "Zucchini", SecondaryPrice: 3},
		{Name: "Apple", SecondaryPrice: 25},
		{Name: "Egg", SecondaryPrice: 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSecondary([]byte(tc.data), tc.format)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(want) {
				t.Fatalf("got=%+v", got)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("got[%d]=%+v want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestParseSecondaryRejects(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{name: "zero price", data: `{"Egg": 0}`, want: "positive"},
		{name: "negative price", data: `{"Egg": -1}`, want: "positive"},
		{name: "duplicate", data: `{"Egg": 1, "EGG": 2}`, want: "duplicate"},
		{name: "string price", data: `{"Egg": "cheap"}`, want: "Egg"},
		{name: "scalar", data: `42`, want: "expected object or list"},
		{name: "empty", data: `  `, want: "empty document"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSecondary([]byte(tc.data), FormatJSON)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err=%v want %q", err, tc.want)
			}
		})
	}
}

func TestLoadFromFileUsesExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.yml")
	yamlDoc := "- name: Kale\n  kind: crop\n  durationSec: 129600\n"
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := LoadItems(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Name != "Kale" || items[0].DurationSeconds != 129600 {
		t.Fatalf("items=%+v", items)
	}

	if _, err := LoadSecondary(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFormatFor(t *testing.T) {
	cases := map[string]Format{
		"a.yaml":  FormatYAML,
		"a.YML":   FormatYAML,
		"a.json":  FormatJSON,
		"catalog": FormatJSON,
	}
	for path, want := range cases {
		if got := FormatFor(path); got != want {
			t.Fatalf("%s: got %s want %s", path, got, want)
		}
	}
}
