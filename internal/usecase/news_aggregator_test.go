package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/pkg/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Sentiment.LookbackHours = 24
	cfg.Sentiment.CacheTTL = 15 * time.Minute
	cfg.Fundamentals.CacheTTL = 30 * time.Minute
	cfg.Fundamentals.ScoreTTL = time.Hour
	cfg.Macro.CacheTTL = 15 * time.Minute
	cfg.Macro.AnalysisTTL = time.Hour
	cfg.Scheduler.BatchSize = 3
	cfg.Scheduler.BatchDelay = time.Millisecond
	cfg.Scheduler.StartupDelay = time.Hour
	cfg.Scheduler.RefreshInterval = time.Hour
	return cfg
}

func article(title, provider string, score, confidence float64) models.NewsArticle {
	return models.NewsArticle{
		ID:          title,
		Title:       title,
		Source:      provider,
		Provider:    provider,
		PublishedAt: time.Now().Add(-time.Hour),
		Sentiment: models.ArticleSentiment{
			Score:      score,
			Confidence: confidence,
			Label:      models.LabelNeutral,
		},
	}
}

func newAggregator(t *testing.T, providers ...drepo.NewsProvider) *NewsAggregator {
	t.Helper()
	return NewNewsAggregator(providers,
		&stubClassifier{sentiment: models.ArticleSentiment{Label: models.LabelNeutral}},
		testConfig(), stubMetrics{}, testLogger(t))
}

func TestSentimentNeutralWithoutArticles(t *testing.T) {
	agg := newAggregator(t, &stubNewsProvider{name: "newsapi"})

	got, err := agg.GetSymbolSentiment(context.Background(), "aapl", 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Symbol != "AAPL" {
		t.Fatalf("symbol not normalized: %q", got.Symbol)
	}
	if got.Score != 0 || got.Confidence != 0 || got.ArticleCount != 0 {
		t.Fatalf("expected neutral record, got %+v", got)
	}
	if len(got.BullishSignals) != 0 || len(got.BearishSignals) != 0 {
		t.Fatalf("expected empty signal lists, got %+v", got)
	}
	if got.MarketImpact != models.ImpactLow {
		t.Fatalf("expected low impact, got %q", got.MarketImpact)
	}
}

func TestSentimentSurvivesProviderFailure(t *testing.T) {
	good := &stubNewsProvider{name: "newsapi", articles: []models.NewsArticle{
		article("Company beats on earnings", "newsapi", 0.6, 0.8),
	}}
	bad := &stubNewsProvider{name: "fmp", err: fmt.Errorf("upstream 500")}
	agg := newAggregator(t, good, bad)

	got, err := agg.GetSymbolSentiment(context.Background(), "AAPL", 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ArticleCount != 1 {
		t.Fatalf("expected 1 article, got %d", got.ArticleCount)
	}
	if got.Score <= 0 {
		t.Fatalf("expected positive fused score, got %f", got.Score)
	}
}

func TestSentimentWeightsProviders(t *testing.T) {
	// Same confidence, opposite scores; the broker-weighted source must win.
	heavy := &stubNewsProvider{name: "alphavantage", articles: []models.NewsArticle{
		article("Guidance raised on strong demand", "alphavantage", 1.0, 0.9),
	}}
	light := &stubNewsProvider{name: "other", articles: []models.NewsArticle{
		article("Analyst flags competitive pressure", "other", -1.0, 0.9),
	}}
	agg := newAggregator(t, heavy, light)

	got, err := agg.GetSymbolSentiment(context.Background(), "AAPL", 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// weights: 0.8*0.9 vs 0.4*0.9 → fused = (0.72-0.36)/1.08 = +0.333
	if got.Score <= 0.3 || got.Score >= 0.4 {
		t.Fatalf("expected fused score near +0.33, got %f", got.Score)
	}
}

func TestSentimentDedupByTitlePrefix(t *testing.T) {
	base := strings.Repeat("x", 50)
	articles := []models.NewsArticle{
		article(base+" from wire one", "newsapi", 0.5, 0.8),
		article(strings.ToUpper(base)+" from wire two", "newsapi", 0.5, 0.8),
		article("a distinct headline", "newsapi", 0.5, 0.8),
	}
	agg := newAggregator(t, &stubNewsProvider{name: "newsapi", articles: articles})

	got, err := agg.GetSymbolSentiment(context.Background(), "AAPL", 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ArticleCount != 2 {
		t.Fatalf("expected dedup to 2 articles, got %d", got.ArticleCount)
	}
}

func TestSentimentSignalListsCapped(t *testing.T) {
	var articles []models.NewsArticle
	for i := 0; i < 8; i++ {
		articles = append(articles, article(fmt.Sprintf("bullish headline %d", i), "newsapi", 0.7, 0.8))
	}
	for i := 0; i < 8; i++ {
		articles = append(articles, article(fmt.Sprintf("bearish headline %d", i), "newsapi", -0.7, 0.8))
	}
	agg := newAggregator(t, &stubNewsProvider{name: "newsapi", articles: articles})

	got, err := agg.GetSymbolSentiment(context.Background(), "AAPL", 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.BullishSignals) != 5 || len(got.BearishSignals) != 5 {
		t.Fatalf("expected capped signal lists, got %d/%d",
			len(got.BullishSignals), len(got.BearishSignals))
	}
}

func TestSentimentMarketImpact(t *testing.T) {
	articles := []models.NewsArticle{
		article("major acquisition announced", "newsapi", 0.9, 0.9), // high
		article("routine coverage one", "newsapi", 0.05, 0.5),
		article("routine coverage two", "newsapi", 0.05, 0.5),
	}
	agg := newAggregator(t, &stubNewsProvider{name: "newsapi", articles: articles})

	got, err := agg.GetSymbolSentiment(context.Background(), "AAPL", 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1 of 3 high-impact articles is ≥30%
	if got.MarketImpact != models.ImpactHigh {
		t.Fatalf("expected high impact, got %q", got.MarketImpact)
	}
}

func TestSentimentCacheHitSkipsProviders(t *testing.T) {
	provider := &stubNewsProvider{name: "newsapi", articles: []models.NewsArticle{
		article("cached headline", "newsapi", 0.4, 0.7),
	}}
	agg := newAggregator(t, provider)

	first, err := agg.GetSymbolSentiment(context.Background(), "AAPL", 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := agg.GetSymbolSentiment(context.Background(), "AAPL", 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.callCount() != 1 {
		t.Fatalf("expected 1 provider call, got %d", provider.callCount())
	}
	if first.Score != second.Score || !first.LastUpdated.Equal(second.LastUpdated) {
		t.Fatalf("expected identical cached result, got %+v vs %+v", first, second)
	}
}

func TestSentimentWindowsCacheIndependently(t *testing.T) {
	provider := &stubNewsProvider{name: "newsapi"}
	agg := newAggregator(t, provider)

	if _, err := agg.GetSymbolSentiment(context.Background(), "AAPL", 24); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := agg.GetSymbolSentiment(context.Background(), "AAPL", 48); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.callCount() != 2 {
		t.Fatalf("expected separate fetches per window, got %d", provider.callCount())
	}
}

func TestClassifierFillsUnscoredArticles(t *testing.T) {
	unscored := models.NewsArticle{
		ID:          "u1",
		Title:       "headline without provider sentiment",
		Provider:    "fmp",
		PublishedAt: time.Now().Add(-time.Hour),
	}
	agg := NewNewsAggregator(
		[]drepo.NewsProvider{&stubNewsProvider{name: "fmp", articles: []models.NewsArticle{unscored}}},
		&stubClassifier{sentiment: models.ArticleSentiment{Score: 0.8, Confidence: 0.9, Label: models.LabelBullish}},
		testConfig(), stubMetrics{}, testLogger(t))

	got, err := agg.GetSymbolSentiment(context.Background(), "AAPL", 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Score <= 0 {
		t.Fatalf("expected classifier score to flow through, got %f", got.Score)
	}
	if len(got.BullishSignals) != 1 {
		t.Fatalf("expected the classified article as a bullish signal, got %v", got.BullishSignals)
	}
}

func TestTopThemesFrequencyRanked(t *testing.T) {
	counts := map[string]int{"earnings": 3, "guidance": 2, "ai": 2, "buyback": 1, "churn": 1, "merger": 1}
	themes := topThemes(counts, 5)
	if len(themes) != 5 {
		t.Fatalf("expected 5 themes, got %v", themes)
	}
	if themes[0] != "earnings" {
		t.Fatalf("expected earnings first, got %v", themes)
	}
	// ties resolve alphabetically
	if themes[1] != "ai" || themes[2] != "guidance" {
		t.Fatalf("expected alphabetical tie-break, got %v", themes)
	}
}

func TestSentimentDedupKeepsDistinctMultiByteTitles(t *testing.T) {
	// 25 two-byte runes occupy 50 bytes; a byte-sliced prefix would collapse
	// these even though they diverge well inside the first 50 characters.
	base := strings.Repeat("ä", 25)
	articles := []models.NewsArticle{
		article(base+" bullish guidance", "newsapi", 0.5, 0.8),
		article(base+" bearish downgrade", "newsapi", -0.5, 0.8),
	}
	agg := newAggregator(t, &stubNewsProvider{name: "newsapi", articles: articles})

	got, err := agg.GetSymbolSentiment(context.Background(), "AAPL", 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ArticleCount != 2 {
		t.Fatalf("expected both headlines kept, got %d", got.ArticleCount)
	}
}
