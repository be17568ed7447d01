package repository

import (
	"context"
	"time"

	"MarketLens/internal/domain/models"
)

// NewsProvider fetches recent articles mentioning a symbol. Implementations
// degrade to an empty slice on any transport or parse failure so a fan-out
// across providers can be combined with a settle-all pass.
type NewsProvider interface {
	Name() string
	FetchNews(ctx context.Context, symbol string, since time.Time) ([]models.NewsArticle, error)
}

// SentimentClassifier scores free-text article content.
type SentimentClassifier interface {
	Classify(ctx context.Context, title, summary string) (models.ArticleSentiment, error)
}

// CompanyDataProvider returns a partial fundamentals record; absent fields
// stay at their zero values and are filled by other sources during the merge.
type CompanyDataProvider interface {
	Name() string
	FetchCompanyData(ctx context.Context, symbol string) (models.CompanyFundamentals, error)
}

// SeriesProvider returns the latest observation of a macro series.
type SeriesProvider interface {
	LatestObservation(ctx context.Context, seriesID string) (float64, error)
}

// MarketDataProvider is the internal broker surface the macro and
// correlation paths depend on.
type MarketDataProvider interface {
	Quote(ctx context.Context, symbol string) (models.Quote, error)
	DailyCloses(ctx context.Context, symbol string, days int) ([]float64, error)
	MarketBreadth(ctx context.Context) (advanceShare float64, putCallRatio float64, err error)
}

// FlowProvider is the internal options-flow service.
type FlowProvider interface {
	FlowSentiment(ctx context.Context, symbol string) (models.OptionsFlow, error)
}

// QuoteStream is a live price feed kept open for the active symbols.
type QuoteStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context, symbols []string) error
	Read(ctx context.Context) (<-chan *models.Quote, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// EventPublisher fans refresh events out to downstream consumers.
type EventPublisher interface {
	PublishRefresh(ctx context.Context, ev models.RefreshEvent) error
	Close() error
}

// ScoreHistory archives score snapshots for later analysis.
type ScoreHistory interface {
	AppendScores(ctx context.Context, scores []models.FundamentalScore) error
}

// Metrics abstracts the Prometheus recorder.
type Metrics interface {
	RecordProviderRequest(provider string, ok bool)
	RecordError(kind string)
	RecordCacheHit(cache string)
	RecordCacheMiss(cache string)
	RecordRefreshDuration(op string, seconds float64)
	RecordScore(symbol, kind string, score float64)
}
