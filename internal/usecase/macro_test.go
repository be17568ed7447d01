package usecase

import (
	"context"
	"sync"
	"testing"

	"MarketLens/internal/domain/models"
)

// countingSeries wraps a value map and tallies observations.
type countingSeries struct {
	values map[string]float64

	mu    sync.Mutex
	calls int
}

func (c *countingSeries) LatestObservation(_ context.Context, seriesID string) (float64, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.values[seriesID], nil
}

func (c *countingSeries) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func flatCloses(n int, price float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}
	return out
}

func TestBuildYieldCurveInverted(t *testing.T) {
	curve := BuildYieldCurve(models.TreasuryRates{
		TwoYear:    5.0,
		FiveYear:   4.5,
		TenYear:    4.0,
		ThirtyYear: 4.2,
	})
	if curve.Shape != models.CurveInverted {
		t.Fatalf("expected inverted shape, got %q", curve.Shape)
	}
	if len(curve.InversionPoints) != 2 {
		t.Fatalf("expected 2 inversion points, got %v", curve.InversionPoints)
	}
	if curve.InversionPoints[0] != "2Y-10Y" {
		t.Fatalf("expected 2Y-10Y first, got %v", curve.InversionPoints)
	}
	if curve.Steepness != -1.0 {
		t.Fatalf("expected steepness -1.0, got %f", curve.Steepness)
	}
}

func TestBuildYieldCurveFlat(t *testing.T) {
	curve := BuildYieldCurve(models.TreasuryRates{
		TwoYear: 4.00,
		TenYear: 4.05,
	})
	if curve.Shape != models.CurveFlat {
		t.Fatalf("expected flat shape, got %q", curve.Shape)
	}
	if len(curve.InversionPoints) != 0 {
		t.Fatalf("expected no inversion points, got %v", curve.InversionPoints)
	}
}

func TestBuildYieldCurveNormal(t *testing.T) {
	curve := BuildYieldCurve(models.TreasuryRates{
		TwoYear:    4.0,
		FiveYear:   4.2,
		TenYear:    4.5,
		ThirtyYear: 4.8,
	})
	if curve.Shape != models.CurveNormal {
		t.Fatalf("expected normal shape, got %q", curve.Shape)
	}
}

func TestBuildYieldCurveMissingTenorsIgnored(t *testing.T) {
	// A zero thirty-year reading must not register as an inversion.
	curve := BuildYieldCurve(models.TreasuryRates{
		TwoYear: 4.0,
		TenYear: 4.5,
	})
	if curve.Shape != models.CurveNormal || len(curve.InversionPoints) != 0 {
		t.Fatalf("expected normal curve with no inversions, got %+v", curve)
	}
}

func TestBuildFearGreedComposite(t *testing.T) {
	fg := BuildFearGreed(models.SentimentIndicators{
		VIX:          10,  // → 100
		PutCallRatio: 0.7, // → 50
		HighYieldOAS: 3.0, // → 100
	}, 0.5, 0, 0, 0) // breadth 50, momentum 50, safe haven 50, flow 50

	want := (100.0 + 50 + 50 + 50 + 50 + 100 + 50) / 7
	if diff := fg.Composite - want; diff > 0.01 || diff < -0.01 {
		t.Fatalf("composite = %f, want %f", fg.Composite, want)
	}
	if fg.Label != "greed" {
		t.Fatalf("expected greed label, got %q", fg.Label)
	}
	if fg.Volatility != 100 || fg.JunkBond != 100 {
		t.Fatalf("unexpected components: %+v", fg)
	}
}

func TestMacroMoodComponents(t *testing.T) {
	series := &countingSeries{values: map[string]float64{
		seriesVIX:          10,
		seriesHighYieldOAS: 3.0,
	}}
	market := &stubMarket{
		closes:       map[string][]float64{indexProxy: flatCloses(125, 100)},
		advanceShare: 0.5,
		putCall:      0.7,
	}
	m := NewMacro(series, market, &stubFlow{}, testConfig(), stubMetrics{}, testLogger(t))

	mood, err := m.Mood(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mood.Components) != 7 {
		t.Fatalf("expected 7 components, got %v", mood.Components)
	}
	for _, key := range []string{"volatility", "momentum", "breadth", "putCall", "safeHaven", "junkBond", "optionsFlow"} {
		if _, ok := mood.Components[key]; !ok {
			t.Fatalf("missing component %q in %v", key, mood.Components)
		}
	}
	if mood.Components["volatility"] != 100 {
		t.Fatalf("volatility = %f, want 100", mood.Components["volatility"])
	}
	if mood.Label != "greed" {
		t.Fatalf("expected greed mood, got %q", mood.Label)
	}
}

func TestMacroGetServesFromCache(t *testing.T) {
	series := &countingSeries{values: map[string]float64{}}
	market := &stubMarket{closes: map[string][]float64{indexProxy: flatCloses(10, 100)}}
	m := NewMacro(series, market, &stubFlow{}, testConfig(), stubMetrics{}, testLogger(t))

	if _, err := m.Get(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after := series.callCount()
	if after == 0 {
		t.Fatal("expected series fetches on the first Get")
	}
	if _, err := m.Get(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.callCount() != after {
		t.Fatalf("expected cached snapshot, got %d extra fetches", series.callCount()-after)
	}
}

func TestMacroSurvivesSeriesFailures(t *testing.T) {
	m := NewMacro(&stubSeries{err: context.DeadlineExceeded},
		&stubMarket{err: context.DeadlineExceeded},
		&stubFlow{err: context.DeadlineExceeded},
		testConfig(), stubMetrics{}, testLogger(t))

	snapshot, err := m.Refresh(context.Background())
	if err != nil {
		t.Fatalf("expected snapshot despite provider failures, got %v", err)
	}
	if snapshot.Treasury.TenYear != 0 {
		t.Fatalf("expected zeroed series, got %+v", snapshot.Treasury)
	}
	if snapshot.LastUpdated.IsZero() {
		t.Fatal("expected LastUpdated to be set")
	}
}
