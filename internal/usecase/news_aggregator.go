package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/domain/scoring"
	"MarketLens/pkg/cache"
	"MarketLens/pkg/config"
	applogger "MarketLens/pkg/logger"
	"MarketLens/pkg/queue"
)

// NewsAggregator fans article fetches out across the configured providers,
// classifies what arrives unscored, and fuses everything into one per-symbol
// sentiment record. Provider failures reduce coverage, never the whole call.
type NewsAggregator struct {
	providers  []drepo.NewsProvider
	classifier drepo.SentimentClassifier
	cache      *cache.Typed[models.SymbolSentiment]
	ttl        time.Duration
	metrics    drepo.Metrics
	logger     *applogger.Logger
}

func NewNewsAggregator(
	providers []drepo.NewsProvider,
	classifier drepo.SentimentClassifier,
	cfg *config.Config,
	metrics drepo.Metrics,
	logger *applogger.Logger,
) *NewsAggregator {
	return &NewsAggregator{
		providers:  providers,
		classifier: classifier,
		cache:      cache.NewTyped[models.SymbolSentiment](),
		ttl:        cfg.Sentiment.CacheTTL,
		metrics:    metrics,
		logger:     logger,
	}
}

// GetSymbolSentiment returns the fused sentiment for symbol over the trailing
// window. Zero qualifying articles produce a neutral record, not an error.
func (a *NewsAggregator) GetSymbolSentiment(ctx context.Context, symbol string, hours int) (models.SymbolSentiment, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return models.SymbolSentiment{}, fmt.Errorf("symbol is required")
	}
	if hours <= 0 {
		hours = 24
	}
	if hours > 168 {
		hours = 168
	}

	key := fmt.Sprintf("%s:%d", symbol, hours)
	if cached, ok := a.cache.Get(key); ok {
		a.metrics.RecordCacheHit("sentiment")
		return cached, nil
	}
	a.metrics.RecordCacheMiss("sentiment")

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	articles := a.fetchAll(ctx, symbol, since)
	articles = dedupeByTitle(articles)
	a.classifyUnscored(ctx, articles)

	result := fuse(symbol, hours, articles)
	a.cache.Set(key, result, a.ttl)
	return result, nil
}

// fetchAll settles the provider fan-out and combines whatever succeeded.
func (a *NewsAggregator) fetchAll(ctx context.Context, symbol string, since time.Time) []models.NewsArticle {
	producers := make([]func(ctx context.Context) ([]models.NewsArticle, error), len(a.providers))
	for i, p := range a.providers {
		p := p
		producers[i] = func(ctx context.Context) ([]models.NewsArticle, error) {
			return p.FetchNews(ctx, symbol, since)
		}
	}

	var articles []models.NewsArticle
	for i, r := range queue.Settle(ctx, len(producers), producers) {
		if r.Err != nil {
			a.metrics.RecordError("news_provider")
			a.logger.Warn("news provider failed",
				applogger.String("provider", a.providers[i].Name()),
				applogger.String("symbol", symbol),
				applogger.Error(r.Err))
			continue
		}
		articles = append(articles, r.Value...)
	}
	return articles
}

// classifyUnscored runs the classifier over articles that arrived without a
// provider-side sentiment. Classifier failures leave the article neutral.
func (a *NewsAggregator) classifyUnscored(ctx context.Context, articles []models.NewsArticle) {
	for i := range articles {
		s := articles[i].Sentiment
		if s.Score != 0 || s.Confidence != 0 || s.Label != "" {
			continue
		}
		classified, err := a.classifier.Classify(ctx, articles[i].Title, articles[i].Summary)
		if err != nil {
			a.metrics.RecordError("classifier")
			classified = models.ArticleSentiment{Label: models.LabelNeutral}
		}
		articles[i].Sentiment = classified
	}
}

// dedupeByTitle drops articles whose lower-cased title prefix collides with an
// earlier one. First occurrence wins.
func dedupeByTitle(articles []models.NewsArticle) []models.NewsArticle {
	seen := make(map[string]struct{}, len(articles))
	out := articles[:0]
	for _, a := range articles {
		key := strings.ToLower(a.Title)
		if r := []rune(key); len(r) > scoring.DedupTitlePrefixLen {
			key = string(r[:scoring.DedupTitlePrefixLen])
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}

// impactFor flags a single article's market impact from its score strength.
func impactFor(s models.ArticleSentiment) string {
	abs := s.Score
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 0.5 && s.Confidence >= 0.6:
		return models.ImpactHigh
	case abs >= scoring.SignalThreshold:
		return models.ImpactMedium
	default:
		return models.ImpactLow
	}
}

// fuse reduces the deduplicated window into one SymbolSentiment.
func fuse(symbol string, hours int, articles []models.NewsArticle) models.SymbolSentiment {
	result := models.SymbolSentiment{
		Symbol:         symbol,
		BullishSignals: []string{},
		BearishSignals: []string{},
		KeyThemes:      []string{},
		MarketImpact:   models.ImpactLow,
		WindowHours:    hours,
		LastUpdated:    time.Now(),
	}
	if len(articles) == 0 {
		return result
	}

	var weightedSum, weightTotal, confidenceSum float64
	highImpact := 0
	themeCounts := make(map[string]int)

	// strongest articles first so the capped signal lists keep the loudest titles
	sorted := append([]models.NewsArticle(nil), articles...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return abs(sorted[i].Sentiment.Score) > abs(sorted[j].Sentiment.Score)
	})

	for i := range sorted {
		art := &sorted[i]
		if art.Impact == "" {
			art.Impact = impactFor(art.Sentiment)
		}
		if art.Impact == models.ImpactHigh {
			highImpact++
		}

		weight := providerWeight(art.Provider) * art.Sentiment.Confidence
		weightedSum += art.Sentiment.Score * weight
		weightTotal += weight
		confidenceSum += art.Sentiment.Confidence

		switch {
		case art.Sentiment.Score > scoring.SignalThreshold:
			if len(result.BullishSignals) < scoring.MaxSignals {
				result.BullishSignals = append(result.BullishSignals, art.Title)
			}
		case art.Sentiment.Score < -scoring.SignalThreshold:
			if len(result.BearishSignals) < scoring.MaxSignals {
				result.BearishSignals = append(result.BearishSignals, art.Title)
			}
		}
		for _, kw := range art.Sentiment.Keywords {
			themeCounts[strings.ToLower(kw)]++
		}
	}

	if weightTotal > 0 {
		result.Score = scoring.ClampSigned(weightedSum / weightTotal)
	}
	result.Confidence = confidenceSum / float64(len(sorted))
	result.ArticleCount = len(sorted)
	result.KeyThemes = topThemes(themeCounts, scoring.MaxThemes)

	switch {
	case float64(highImpact) >= scoring.HighImpactShare*float64(len(sorted)):
		result.MarketImpact = models.ImpactHigh
	case highImpact > 0:
		result.MarketImpact = models.ImpactMedium
	}
	return result
}

func providerWeight(provider string) float64 {
	if w, ok := scoring.ProviderWeights[provider]; ok {
		return w
	}
	return scoring.DefaultProviderWeight
}

// topThemes returns the n most frequent keywords, ties broken alphabetically.
func topThemes(counts map[string]int, n int) []string {
	themes := make([]string, 0, len(counts))
	for k := range counts {
		themes = append(themes, k)
	}
	sort.Slice(themes, func(i, j int) bool {
		if counts[themes[i]] != counts[themes[j]] {
			return counts[themes[i]] > counts[themes[j]]
		}
		return themes[i] < themes[j]
	})
	if len(themes) > n {
		themes = themes[:n]
	}
	return themes
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Summary condenses a fused record into the sentiment sub-record embedded in
// CompanyFundamentals.
func Summary(s models.SymbolSentiment) models.NewsSentimentSummary {
	return models.NewsSentimentSummary{
		Score:        s.Score,
		Confidence:   s.Confidence,
		ArticleCount: s.ArticleCount,
		MarketImpact: s.MarketImpact,
	}
}
