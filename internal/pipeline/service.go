package pipeline

import (
	"context"
	"log/slog"
	"time"

	"flowerboard/internal"
	"flowerboard/internal/market"
)

// Options controls a single evaluation pass.
type Options struct {
	Query Query
	// Strict fills the Omitted list of a report.
	Strict bool
}

type EfficiencyReport struct {
	UpdatedAt time.Time                `json:"updatedAt"`
	Count     int                      `json:"count"`
	Rows      []internal.EfficiencyRow `json:"rows"`
	Omitted   []internal.Omission      `json:"omitted,omitempty"`

	Snapshot market.Snapshot `json:"-"`
}

type TradeReport struct {
	UpdatedAt time.Time           `json:"updatedAt"`
	Count     int                 `json:"count"`
	Rows      []internal.TradeRow `json:"rows"`
	Omitted   []internal.Omission `json:"omitted,omitempty"`

	Snapshot market.Snapshot `json:"-"`
}

// Service runs one fetch and one evaluation pass per call against the
// static catalogs it was built with.
type Service struct {
	feed      market.Feed
	items     []internal.CatalogItem
	secondary []internal.SecondaryItem
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(feed market.Feed, items []internal.CatalogItem, secondary []internal.SecondaryItem, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		feed:      feed,
		items:     items,
		secondary: secondary,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) Efficiency(ctx context.Context, opts Options) (EfficiencyReport, error) {
	snap, err := s.feed.Fetch(ctx)
	if err != nil {
		return EfficiencyReport{}, err
	}
	return s.efficiency(snap, opts), nil
}

func (s *Service) Trades(ctx context.Context, opts Options) (TradeReport, error) {
	snap, err := s.feed.Fetch(ctx)
	if err != nil {
		return TradeReport{}, err
	}
	return s.trades(snap, opts), nil
}

// Evaluate produces both reports from a single snapshot.
func (s *Service) Evaluate(ctx context.Context, opts Options) (EfficiencyReport, TradeReport, error) {
	snap, err := s.feed.Fetch(ctx)
	if err != nil {
		return EfficiencyReport{}, TradeReport{}, err
	}
	return s.efficiency(snap, opts), s.trades(snap, opts), nil
}

func (s *Service) efficiency(snap market.Snapshot, opts Options) EfficiencyReport {
	rows, omitted := EvaluateEfficiencyDetailed(s.items, snap.Book)
	rows = opts.Query.ApplyEfficiency(rows)
	s.logger.Debug("efficiency evaluated",
		"snapshot", snap.ID,
		"source", snap.Source,
		"prices", len(snap.Book),
		"rows", len(rows),
		"omitted", len(omitted),
	)

	report := EfficiencyReport{
		UpdatedAt: s.now().UTC(),
		Count:     len(rows),
		Rows:      rows,
		Snapshot:  snap,
	}
	if opts.Strict {
		report.Omitted = omitted
	}
	return report
}

func (s *Service) trades(snap market.Snapshot, opts Options) TradeReport {
	rows, omitted := EvaluateTradesDetailed(snap.Book, s.secondary, s.items)
	rows = opts.Query.ApplyTrades(rows)
	s.logger.Debug("coin trades evaluated",
		"snapshot", snap.ID,
		"source", snap.Source,
		"prices", len(snap.Book),
		"rows", len(rows),
		"omitted", len(omitted),
	)

	report := TradeReport{
		UpdatedAt: s.now().UTC(),
		Count:     len(rows),
		Rows:      rows,
		Snapshot:  snap,
	}
	if opts.Strict {
		report.Omitted = omitted
	}
	return report
}
