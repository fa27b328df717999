package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"flowerboard/internal"
	"flowerboard/internal/market"
)

type fixedFeed struct {
	snap  market.Snapshot
	err   error
	calls int
}

func (f *fixedFeed) Fetch(context.Context) (market.Snapshot, error) {
	f.calls++
	return f.snap, f.err
}

func newTestService(feed market.Feed) *Service {
	items := []internal.CatalogItem{
		{Name: "Sunflower", Kind: internal.KindCrop, DurationSeconds: 60},
		{Name: "Wheat", Kind: internal.KindCrop, DurationSeconds: 3600},
		{Name: "Iron", Kind: internal.KindMining, DurationSeconds: 0},
	}
	secondary := []internal.SecondaryItem{
		{Name: "Sun Flower", SecondaryPrice: 20},
		{Name: "Moonstone", SecondaryPrice: 1},
	}
	svc := NewService(feed, items, secondary, nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 14, 8, 30, 0, 0, time.UTC) }
	return svc
}

func TestServiceEfficiency(t *testing.T) {
	feed := &fixedFeed{snap: market.Snapshot{ID: "snap-1", Book: internal.PriceBook{"sunflower": 5, "wheat": 3, "iron": 1}}}
	svc := newTestService(feed)

	report, err := svc.Efficiency(context.Background(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if report.Count != 2 || len(report.Rows) != 2 || report.Rows[0].Name != "Sunflower" {
		t.Fatalf("report=%+v", report)
	}
	if report.Omitted != nil {
		t.Fatalf("omitted only in strict mode: %+v", report.Omitted)
	}
	if report.Snapshot.ID != "snap-1" {
		t.Fatalf("snapshot=%+v", report.Snapshot)
	}

	blob, err := json.Marshal(report)
	if err != nil {
		t.Fatal(err)
	}
	body := string(blob)
	if !strings.HasPrefix(body, `{"updatedAt":"2026-10-14T08:30:00Z","count":2,"rows":[`) || strings.Contains(body, "omitted") {
		t.Fatalf("json=%s", body)
	}
}

func TestServiceStrictReportsOmissions(t *testing.T) {
	feed := &fixedFeed{snap: market.Snapshot{Book: internal.PriceBook{"sunflower": 5, "iron": 1}}}
	svc := newTestService(feed)

	eff, trades, err := svc.Evaluate(context.Background(), Options{Strict: true})
	if err != nil {
		t.Fatal(err)
	}
	if feed.calls != 1 {
		t.Fatalf("calls=%d", feed.calls)
	}
	if len(eff.Omitted) != 2 || eff.Omitted[0].Name != "Wheat" || eff.Omitted[1].Reason != internal.OmitNonPositiveDuration {
		t.Fatalf("efficiency omitted=%+v", eff.Omitted)
	}
	if trades.Count != 1 || trades.Rows[0].Ratio != 4 {
		t.Fatalf("trades=%+v", trades)
	}
	if len(trades.Omitted) != 1 || trades.Omitted[0] != (internal.Omission{Name: "Moonstone", Reason: internal.OmitNoMatch}) {
		t.Fatalf("trades omitted=%+v", trades.Omitted)
	}
}

func TestServiceAppliesQuery(t *testing.T) {
	feed := &fixedFeed{snap: market.Snapshot{Book: internal.PriceBook{"sunflower": 5, "wheat": 3}}}
	svc := newTestService(feed)

	report, err := svc.Efficiency(context.Background(), Options{Query: Query{Search: "whe"}})
	if err != nil {
		t.Fatal(err)
	}
	if report.Count != 1 || report.Rows[0].Name != "Wheat" {
		t.Fatalf("report=%+v", report)
	}
}

func TestServiceEmptyBookYieldsEmptyRows(t *testing.T) {
	svc := newTestService(&fixedFeed{snap: market.Snapshot{Book: internal.PriceBook{}}})

	report, err := svc.Trades(context.Background(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	blob, _ := json.Marshal(report)
	if report.Count != 0 || !strings.Contains(string(blob), `"rows":[]`) {
		t.Fatalf("json=%s", blob)
	}
}

func TestServicePropagatesFeedError(t *testing.T) {
	feedErr := &market.StatusError{Source: internal.SourcePublic, StatusCode: 500}
	svc := newTestService(&fixedFeed{err: feedErr})

	if _, err := svc.Efficiency(context.Background(), Options{}); !errors.Is(err, feedErr) {
		t.Fatalf("err=%v", err)
	}
	if _, err := svc.Trades(context.Background(), Options{}); !errors.Is(err, feedErr) {
		t.Fatalf("err=%v", err)
	}
}
