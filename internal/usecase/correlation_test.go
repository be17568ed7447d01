package usecase

import (
	"context"
	"math"
	"testing"
)

func TestPearsonPerfectCorrelation(t *testing.T) {
	a := []float64{0.01, -0.02, 0.03, 0.005, -0.01}
	b := make([]float64, len(a))
	for i, v := range a {
		b[i] = v * 2 // scaled copy keeps correlation at 1
	}
	if got := pearson(a, b); math.Abs(got-1) > 1e-9 {
		t.Fatalf("pearson = %f, want 1", got)
	}
}

func TestPearsonPerfectInverse(t *testing.T) {
	a := []float64{0.01, -0.02, 0.03, 0.005, -0.01}
	b := make([]float64, len(a))
	for i, v := range a {
		b[i] = -v
	}
	if got := pearson(a, b); math.Abs(got+1) > 1e-9 {
		t.Fatalf("pearson = %f, want -1", got)
	}
}

func TestPearsonZeroVariance(t *testing.T) {
	flat := []float64{0.01, 0.01, 0.01}
	moving := []float64{0.01, -0.02, 0.03}
	if got := pearson(flat, moving); got != 0 {
		t.Fatalf("pearson with zero variance = %f, want 0", got)
	}
}

func TestPearsonUnequalLengthsUseCommonSuffix(t *testing.T) {
	long := []float64{99, 0.01, -0.02, 0.03}
	short := []float64{0.01, -0.02, 0.03}
	if got := pearson(long, short); math.Abs(got-1) > 1e-9 {
		t.Fatalf("pearson = %f, want 1 over the common suffix", got)
	}
}

func TestDailyReturns(t *testing.T) {
	returns := dailyReturns([]float64{100, 110, 99})
	if len(returns) != 2 {
		t.Fatalf("expected 2 returns, got %v", returns)
	}
	if math.Abs(returns[0]-0.1) > 1e-9 {
		t.Fatalf("first return = %f, want 0.1", returns[0])
	}
	if math.Abs(returns[1]+0.1) > 1e-9 {
		t.Fatalf("second return = %f, want -0.1", returns[1])
	}
}

func TestDailyReturnsZeroCloseGuard(t *testing.T) {
	returns := dailyReturns([]float64{0, 100, 110})
	if returns[0] != 0 {
		t.Fatalf("expected guarded zero return, got %v", returns)
	}
}

func TestMatrixSkipsShortHistories(t *testing.T) {
	market := &stubMarket{closes: map[string][]float64{
		"AAPL": {100, 101, 103, 102, 105},
		"MSFT": {200, 202, 206, 204, 210},
		"THIN": {50, 51},
	}}
	c := NewCorrelator(market, stubMetrics{}, testLogger(t))

	matrix := c.Matrix(context.Background(), []string{"AAPL", "MSFT", "THIN"})
	if _, ok := matrix["THIN"]; ok {
		t.Fatal("expected short-history symbol to be skipped")
	}
	row, ok := matrix["AAPL"]
	if !ok {
		t.Fatalf("missing AAPL row: %v", matrix)
	}
	if _, ok := row["AAPL"]; ok {
		t.Fatal("diagonal must be omitted")
	}
	if got := row["MSFT"]; math.Abs(got-1) > 1e-6 {
		t.Fatalf("AAPL/MSFT correlation = %f, want ~1 for proportional closes", got)
	}
}
