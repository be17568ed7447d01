package usecase

import (
	"context"
	"testing"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/domain/scoring"
	"MarketLens/pkg/cache"
)

func TestComputeScoreEmptyRecordIsNeutral(t *testing.T) {
	score := ComputeScore(models.CompanyFundamentals{Symbol: "AAPL"})

	for name, v := range map[string]float64{
		"financialHealth": score.FinancialHealth,
		"valuation":       score.Valuation,
		"growth":          score.Growth,
		"quality":         score.Quality,
		"momentum":        score.Momentum,
		"overall":         score.Overall,
	} {
		if v != scoring.ScoreBaseline {
			t.Fatalf("%s = %f, want baseline %f", name, v, scoring.ScoreBaseline)
		}
	}
	if score.Warnings == nil || score.Strengths == nil || score.Explanations == nil {
		t.Fatal("narrative slices must be initialized")
	}
}

func TestComputeScoreFinancialHealthDeltas(t *testing.T) {
	rec := models.CompanyFundamentals{
		Symbol: "AAPL",
		Financials: models.Financials{
			ReturnOnEquity: 20,  // +15
			ProfitMargin:   25,  // +10
			DebtToEquity:   0.3, // +10
			CurrentRatio:   2.0, // no delta
			FreeCashFlow:   1e9, // +5
		},
	}
	score := ComputeScore(rec)
	if score.FinancialHealth != 90 {
		t.Fatalf("financial health = %f, want 90", score.FinancialHealth)
	}
	if len(score.Strengths) < 2 {
		t.Fatalf("expected ROE and margin strengths, got %v", score.Strengths)
	}
}

func TestComputeScoreDistressedFloorsAtZero(t *testing.T) {
	rec := models.CompanyFundamentals{
		Symbol: "XYZ",
		Financials: models.Financials{
			ReturnOnEquity: 2,   // -10
			ProfitMargin:   -5,  // -15
			DebtToEquity:   3,   // -15
			CurrentRatio:   0.5, // -10
		},
	}
	score := ComputeScore(rec)
	if score.FinancialHealth != 0 {
		t.Fatalf("financial health = %f, want 0", score.FinancialHealth)
	}
	if len(score.Warnings) < 3 {
		t.Fatalf("expected profitability, leverage, and liquidity warnings, got %v", score.Warnings)
	}
}

func TestComputeScoreGrowthDeltas(t *testing.T) {
	rec := models.CompanyFundamentals{
		Symbol: "GRW",
		Financials: models.Financials{
			RevenueGrowth:  25, // +20
			EarningsGrowth: 30, // +15
		},
		Events: models.Events{EarningsSurprisePct: 6}, // +5
	}
	if got := ComputeScore(rec).Growth; got != 90 {
		t.Fatalf("growth = %f, want 90", got)
	}
}

func TestComputeScoreQualityUsesSentimentAndRisk(t *testing.T) {
	rec := models.CompanyFundamentals{
		Symbol: "QLT",
		Analyst: models.Analyst{
			AnalystCount: 10,
			RatingScore:  1.0, // +15
		},
		Sentiment: models.NewsSentimentSummary{
			Score:        0.5, // +5
			ArticleCount: 12,
		},
		Risk: models.Risk{RiskLevel: "high"}, // -10
	}
	if got := ComputeScore(rec).Quality; got != 60 {
		t.Fatalf("quality = %f, want 60", got)
	}
}

func TestComputeScoreMomentumDeltas(t *testing.T) {
	rec := models.CompanyFundamentals{
		Symbol: "MOM",
		Technical: models.Technical{
			RSI:      55,  // +10
			SMA50:    110, // golden cross +10
			SMA200:   100,
			Momentum: 6, // +5
		},
		Options: models.OptionsFlow{FlowScore: 0.4}, // +10
	}
	if got := ComputeScore(rec).Momentum; got != 85 {
		t.Fatalf("momentum = %f, want 85", got)
	}
}

func TestComputeScoreOverallBlend(t *testing.T) {
	rec := models.CompanyFundamentals{
		Symbol: "BLD",
		Financials: models.Financials{
			ReturnOnEquity: 20,
			RevenueGrowth:  25,
		},
	}
	score := ComputeScore(rec)
	want := scoring.Clamp(
		score.FinancialHealth*scoring.WeightFinancialHealth +
			score.Valuation*scoring.WeightValuation +
			score.Growth*scoring.WeightGrowth +
			score.Quality*scoring.WeightQuality +
			score.Momentum*scoring.WeightMomentum)
	if score.Overall != want {
		t.Fatalf("overall = %f, want %f", score.Overall, want)
	}
}

func TestScorerCacheHitSkipsRecompute(t *testing.T) {
	store := cache.NewMemoryCache()
	defer store.Close()

	seeded := models.FundamentalScore{Symbol: "AAPL", Overall: 72}
	if err := store.Set(context.Background(), "score:AAPL", seeded, 0); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// A nil fundamentals source proves the hit path never reaches it.
	s := NewScorer(nil, store, testConfig(), stubMetrics{}, testLogger(t))
	got, err := s.Get(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Overall != 72 {
		t.Fatalf("overall = %f, want cached 72", got.Overall)
	}
}

func TestScorerRejectsEmptySymbol(t *testing.T) {
	store := cache.NewMemoryCache()
	defer store.Close()

	s := NewScorer(nil, store, testConfig(), stubMetrics{}, testLogger(t))
	if _, err := s.Get(context.Background(), "   "); err == nil {
		t.Fatal("expected error for blank symbol")
	}
}
