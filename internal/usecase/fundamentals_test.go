package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/pkg/cache"
)

func newTestFundamentals(t *testing.T, broker, market *stubCompanyData, flow *stubFlow) *Fundamentals {
	t.Helper()
	snap, err := cache.NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("snapshot store: %v", err)
	}
	return newTestFundamentalsWith(t, broker, market, flow, snap, cache.NewMemoryCache())
}

func newTestFundamentalsWith(t *testing.T, broker, market *stubCompanyData, flow *stubFlow, snap *cache.SnapshotStore, store cache.Service) *Fundamentals {
	t.Helper()
	cfg := testConfig()
	news := NewNewsAggregator(
		[]drepo.NewsProvider{&stubNewsProvider{name: "newsapi"}},
		&stubClassifier{sentiment: models.ArticleSentiment{Label: models.LabelNeutral}},
		cfg, stubMetrics{}, testLogger(t))
	return NewFundamentals(broker, market, flow, news, store, snap, cfg, stubMetrics{}, testLogger(t))
}

func TestRefreshMergePrefersFirstSource(t *testing.T) {
	broker := &stubCompanyData{name: "broker", rec: models.CompanyFundamentals{
		Trading:   models.Trading{Price: 100, Volume: 5e6},
		Technical: models.Technical{RSI: 55},
	}}
	market := &stubCompanyData{name: "market", rec: models.CompanyFundamentals{
		Name:      "Apple Inc",
		Trading:   models.Trading{Price: 90, Beta: 1.1},
		Valuation: models.Valuation{PERatio: 28},
	}}
	f := newTestFundamentals(t, broker, market, &stubFlow{flow: models.OptionsFlow{FlowScore: 0.5}})

	rec, err := f.Refresh(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rec.Trading.Price != 100 {
		t.Fatalf("price = %f, broker reading must win", rec.Trading.Price)
	}
	if rec.Trading.Beta != 1.1 {
		t.Fatalf("beta = %f, market must fill the gap", rec.Trading.Beta)
	}
	if rec.Name != "Apple Inc" || rec.Valuation.PERatio != 28 {
		t.Fatalf("market fields missing: %+v", rec)
	}
	if rec.Options.FlowScore != 0.5 {
		t.Fatalf("options flow missing: %+v", rec.Options)
	}
	if rec.LastUpdated.IsZero() {
		t.Fatal("LastUpdated must be set")
	}
}

func TestRefreshSurvivesPartialFailure(t *testing.T) {
	broker := &stubCompanyData{name: "broker", rec: models.CompanyFundamentals{
		Trading: models.Trading{Price: 100},
	}}
	market := &stubCompanyData{name: "market", err: fmt.Errorf("upstream 503")}
	f := newTestFundamentals(t, broker, market, &stubFlow{err: fmt.Errorf("timeout")})

	rec, err := f.Refresh(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("expected merged record despite failures, got %v", err)
	}
	if rec.Trading.Price != 100 {
		t.Fatalf("broker data missing: %+v", rec)
	}
}

func TestRefreshDerivesRatingAndRisk(t *testing.T) {
	broker := &stubCompanyData{name: "broker", rec: models.CompanyFundamentals{
		Trading: models.Trading{Price: 100, Beta: 1.5},
		Analyst: models.Analyst{StrongBuy: 8, AnalystCount: 10},
	}}
	f := newTestFundamentals(t, broker, &stubCompanyData{name: "market"}, &stubFlow{})

	rec, err := f.Refresh(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rec.Analyst.RatingScore != 1.0 {
		t.Fatalf("rating score = %f, want 1.0 for 80%% strong buy", rec.Analyst.RatingScore)
	}
	if rec.Risk.RiskLevel != "medium" {
		t.Fatalf("risk level = %q, want medium for beta 1.5", rec.Risk.RiskLevel)
	}
}

func TestGetServesFromCache(t *testing.T) {
	broker := &stubCompanyData{name: "broker", rec: models.CompanyFundamentals{
		Trading: models.Trading{Price: 100},
	}}
	f := newTestFundamentals(t, broker, &stubCompanyData{name: "market"}, &stubFlow{})

	if _, err := f.Get(context.Background(), "AAPL"); err != nil {
		t.Fatalf("first get: %v", err)
	}
	if _, err := f.Get(context.Background(), "aapl "); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if broker.callCount() != 1 {
		t.Fatalf("expected a single refresh, broker saw %d calls", broker.callCount())
	}
}

func TestSnapshotWarmsRestart(t *testing.T) {
	snap, err := cache.NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("snapshot store: %v", err)
	}
	broker := &stubCompanyData{name: "broker", rec: models.CompanyFundamentals{
		Trading: models.Trading{Price: 100},
	}}
	f := newTestFundamentalsWith(t, broker, &stubCompanyData{name: "market"}, &stubFlow{}, snap, cache.NewMemoryCache())

	if _, err := f.Refresh(context.Background(), "AAPL"); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if err := f.SaveSnapshot(); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	restarted := newTestFundamentalsWith(t, broker, &stubCompanyData{name: "market"}, &stubFlow{}, snap, cache.NewMemoryCache())
	records := restarted.Records()
	if len(records) != 1 || records[0].Symbol != "AAPL" {
		t.Fatalf("expected warmed AAPL record, got %v", records)
	}
}

func TestAttachCorrelations(t *testing.T) {
	broker := &stubCompanyData{name: "broker", rec: models.CompanyFundamentals{
		Trading: models.Trading{Price: 100},
	}}
	f := newTestFundamentals(t, broker, &stubCompanyData{name: "market"}, &stubFlow{})

	if _, err := f.Refresh(context.Background(), "AAPL"); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	f.AttachCorrelations(context.Background(), "AAPL", map[string]float64{"MSFT": 0.8})

	records := f.Records()
	if len(records) != 1 || records[0].Correlations["MSFT"] != 0.8 {
		t.Fatalf("correlations not attached: %v", records)
	}
}

func TestGetServesStaleRecordOnTotalOutage(t *testing.T) {
	snap, err := cache.NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("snapshot store: %v", err)
	}
	store := cache.NewMemoryCache()
	t.Cleanup(func() { store.Close() })
	broker := &stubCompanyData{name: "broker", rec: models.CompanyFundamentals{
		Trading: models.Trading{Price: 100},
	}}
	market := &stubCompanyData{name: "market"}
	flow := &stubFlow{}
	f := newTestFundamentalsWith(t, broker, market, flow, snap, store)

	if _, err := f.Get(context.Background(), "AAPL"); err != nil {
		t.Fatalf("warm-up get: %v", err)
	}

	// TTL entry gone, every provider down; the retained record must survive.
	if err := store.Delete(context.Background(), "fundamentals:AAPL"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	broker.err = fmt.Errorf("connection refused")
	market.err = fmt.Errorf("upstream 503")
	flow.err = fmt.Errorf("timeout")

	rec, err := f.Get(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("expected stale record, got error: %v", err)
	}
	if rec.Trading.Price != 100 {
		t.Fatalf("stale record lost: %+v", rec)
	}
}

func TestRefreshFailsWithoutAnyData(t *testing.T) {
	// The news producer degrades to a neutral summary instead of erroring;
	// that alone must not count as a successful refresh.
	broker := &stubCompanyData{name: "broker", err: fmt.Errorf("connection refused")}
	market := &stubCompanyData{name: "market", err: fmt.Errorf("upstream 503")}
	f := newTestFundamentals(t, broker, market, &stubFlow{err: fmt.Errorf("timeout")})

	if _, err := f.Refresh(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected refresh error when no source returns data")
	}
	if len(f.Records()) != 0 {
		t.Fatalf("empty record must not be retained: %v", f.Records())
	}
}

func TestGetOverlaysLiveQuote(t *testing.T) {
	snap, err := cache.NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("snapshot store: %v", err)
	}
	store := cache.NewMemoryCache()
	t.Cleanup(func() { store.Close() })
	broker := &stubCompanyData{name: "broker", rec: models.CompanyFundamentals{
		Trading: models.Trading{Price: 100, Volume: 5e6},
	}}
	f := newTestFundamentalsWith(t, broker, &stubCompanyData{name: "market"}, &stubFlow{}, snap, store)

	if _, err := f.Get(context.Background(), "AAPL"); err != nil {
		t.Fatalf("warm-up get: %v", err)
	}

	quote := models.Quote{Symbol: "AAPL", Price: 105.5, Volume: 1234, Timestamp: time.Now()}
	if err := store.Set(context.Background(), "quote:AAPL", quote, time.Minute); err != nil {
		t.Fatalf("seed quote: %v", err)
	}

	rec, err := f.Get(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Trading.Price != 105.5 || rec.Trading.Volume != 1234 {
		t.Fatalf("live quote not applied: %+v", rec.Trading)
	}
	if broker.callCount() != 1 {
		t.Fatalf("overlay must not trigger a refresh, broker saw %d calls", broker.callCount())
	}
}
