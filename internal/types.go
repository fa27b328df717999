package internal

type Kind string

const (
	KindCrop       Kind = "crop"
	KindAnimal     Kind = "animal"
	KindMining     Kind = "mining"
	KindFruit      Kind = "fruit"
	KindGreenhouse Kind = "greenhouse"
)

// Kinds lists every recognised kind in display order.
var Kinds = []Kind{KindCrop, KindAnimal, KindMining, KindFruit, KindGreenhouse}

func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if k == v {
			return true
		}
	}
	return false
}

// CatalogItem is one entry of the static item catalog.
type CatalogItem struct {
	Name            string  `json:"name" yaml:"name"`
	Kind            Kind    `json:"kind" yaml:"kind"`
	DurationSeconds float64 `json:"durationSec" yaml:"durationSec"`
}

// SecondaryItem is a curated NPC coin price. Its Name is not guaranteed to
// share spelling with the item catalog.
type SecondaryItem struct {
	Name           string  `json:"name" yaml:"name"`
	SecondaryPrice float64 `json:"secondaryPrice" yaml:"secondaryPrice"`
}

// PriceBook maps a lowercase, trimmed item name to its latest positive
// market price. A PriceBook is never mutated after construction.
type PriceBook map[string]float64

type EfficiencyRow struct {
	Name            string  `json:"name"`
	Kind            Kind    `json:"kind"`
	LastSalePrice   float64 `json:"lastSalePrice"`
	DurationSeconds float64 `json:"durationSeconds"`
	ValuePerHour    float64 `json:"valuePerHour"`
}

type TradeRow struct {
	Name           string  `json:"name"`
	Kind           Kind    `json:"kind"`
	LastSalePrice  float64 `json:"lastSalePrice"`
	SecondaryPrice float64 `json:"secondaryPrice"`
	Ratio          float64 `json:"ratio"`
}

type OmissionReason string

const (
	OmitNoPrice             OmissionReason = "no_price"
	OmitNonPositiveDuration OmissionReason = "non_positive_duration"
	OmitNoMatch             OmissionReason = "no_match"
	OmitNonPositivePrice    OmissionReason = "non_positive_price"
)

// Omission names a catalog entry that produced no row.
type Omission struct {
	Name   string         `json:"name"`
	Reason OmissionReason `json:"reason"`
}

type PriceSource string

const (
	SourcePrivate PriceSource = "private"
	SourcePublic  PriceSource = "public"
)
