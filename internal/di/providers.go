package di

import (
	"context"
	"fmt"
	"time"

	"MarketLens/internal/domain/repository"
	"MarketLens/internal/handler/api"
	"MarketLens/internal/providers/alphavantage"
	"MarketLens/internal/providers/broker"
	"MarketLens/internal/providers/flow"
	"MarketLens/internal/providers/fmp"
	"MarketLens/internal/providers/fred"
	"MarketLens/internal/providers/llm"
	"MarketLens/internal/providers/marketaux"
	"MarketLens/internal/providers/newsapi"
	internalrepo "MarketLens/internal/repository"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/internal/usecase"
	"MarketLens/pkg/cache"
	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"
	"MarketLens/pkg/metrics"
	"MarketLens/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates the Prometheus recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideLimiter creates the shared per-provider rate limiter.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideCacheService builds the cache: memory-only by default, layered over
// Redis when enabled.
func ProvideCacheService(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MaxEntries)), nil
	}

	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPool(cfg.Cache.Redis.PoolSize, cfg.Cache.Redis.PoolSize/2, 5*time.Second),
		cache.WithRedisPrefix("marketlens"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(redisCache, cache.WithLayeredMemorySize(cfg.Cache.MaxEntries)), nil
}

// ProvideSnapshotStore opens the JSON snapshot directory.
func ProvideSnapshotStore(cfg *config.Config) (*cache.SnapshotStore, error) {
	return cache.NewSnapshotStore(cfg.Cache.SnapshotDir)
}

// ProvideBrokerClient creates the broker gateway client.
func ProvideBrokerClient(cfg *config.Config, m repository.Metrics) *broker.Client {
	return broker.NewClient(cfg, m)
}

// ProvideMarketData exposes the broker client as the market-data surface.
func ProvideMarketData(c *broker.Client) repository.MarketDataProvider { return c }

// ProvideQuoteStream creates the broker WebSocket stream.
func ProvideQuoteStream(cfg *config.Config) repository.QuoteStream {
	return broker.NewStream(cfg)
}

// ProvideFlow creates the options-flow client.
func ProvideFlow(cfg *config.Config, m repository.Metrics) repository.FlowProvider {
	return flow.New(cfg, m)
}

// ProvideSeries creates the FRED macro series client.
func ProvideSeries(cfg *config.Config, rl *ratelimit.Limiter, m repository.Metrics) repository.SeriesProvider {
	return fred.New(cfg, rl, m)
}

// ProvideClassifier creates the LLM sentiment classifier.
func ProvideClassifier(cfg *config.Config, m repository.Metrics, l *applogger.Logger) repository.SentimentClassifier {
	return llm.New(cfg, m, l)
}

// ProvideAlphaVantage creates the Alpha Vantage client.
func ProvideAlphaVantage(cfg *config.Config, rl *ratelimit.Limiter, m repository.Metrics, l *applogger.Logger) *alphavantage.Client {
	return alphavantage.New(cfg, rl, m, l)
}

// ProvideNewsProviders assembles the news fan-out set.
func ProvideNewsProviders(
	cfg *config.Config,
	av *alphavantage.Client,
	rl *ratelimit.Limiter,
	m repository.Metrics,
) []repository.NewsProvider {
	return []repository.NewsProvider{
		av,
		newsapi.New(cfg, rl, m),
		marketaux.New(cfg, rl, m),
		fmp.New(cfg, rl, m),
	}
}

// ProvideNewsAggregator creates the sentiment fusion engine.
func ProvideNewsAggregator(
	providers []repository.NewsProvider,
	classifier repository.SentimentClassifier,
	cfg *config.Config,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.NewsAggregator {
	return usecase.NewNewsAggregator(providers, classifier, cfg, m, l)
}

// ProvideFundamentals creates the fundamentals merge engine.
func ProvideFundamentals(
	brokerClient *broker.Client,
	av *alphavantage.Client,
	fl repository.FlowProvider,
	news *usecase.NewsAggregator,
	store cache.Service,
	snap *cache.SnapshotStore,
	cfg *config.Config,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Fundamentals {
	return usecase.NewFundamentals(brokerClient, av, fl, news, store, snap, cfg, m, l)
}

// ProvideScorer creates the fundamental scoring engine.
func ProvideScorer(f *usecase.Fundamentals, store cache.Service, cfg *config.Config, m repository.Metrics, l *applogger.Logger) *usecase.Scorer {
	return usecase.NewScorer(f, store, cfg, m, l)
}

// ProvideMacro creates the macro indicator engine.
func ProvideMacro(
	series repository.SeriesProvider,
	market repository.MarketDataProvider,
	fl repository.FlowProvider,
	cfg *config.Config,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Macro {
	return usecase.NewMacro(series, market, fl, cfg, m, l)
}

// ProvideMacroAnalyzer creates the second-stage macro classifier.
func ProvideMacroAnalyzer(macro *usecase.Macro, cfg *config.Config, m repository.Metrics) *usecase.MacroAnalyzer {
	return usecase.NewMacroAnalyzer(macro, cfg, m)
}

// ProvideWatchlists loads the watchlist registry.
func ProvideWatchlists(snap *cache.SnapshotStore, l *applogger.Logger) *usecase.Watchlists {
	return usecase.NewWatchlists(snap, l)
}

// ProvideCorrelator creates the correlation engine.
func ProvideCorrelator(market repository.MarketDataProvider, m repository.Metrics, l *applogger.Logger) *usecase.Correlator {
	return usecase.NewCorrelator(market, m, l)
}

// ProvidePublisher creates the Kafka refresh-event publisher, or a noop when
// Kafka is disabled.
func ProvidePublisher(cfg *config.Config) (repository.EventPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NoopPublisher{}, nil
	}
	pub, err := internalrepo.NewKafkaPublisher(cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka publisher: %w", err)
	}
	return pub, nil
}

// ProvideScoreHistory creates the ClickHouse score archive, or a noop when
// ClickHouse is disabled.
func ProvideScoreHistory(cfg *config.Config) (repository.ScoreHistory, error) {
	if !cfg.ClickHouse.Enabled {
		return internalrepo.NoopScoreHistory{}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	history, err := internalrepo.NewClickHouseScoreHistory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("score history: %w", err)
	}
	return history, nil
}

// ProvideScheduler creates the batch refresh scheduler.
func ProvideScheduler(
	f *usecase.Fundamentals,
	scorer *usecase.Scorer,
	watchlists *usecase.Watchlists,
	correlator *usecase.Correlator,
	publisher repository.EventPublisher,
	history repository.ScoreHistory,
	cfg *config.Config,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Scheduler {
	return usecase.NewScheduler(f, scorer, watchlists, correlator, publisher, history, cfg, m, l)
}

// ProvideQuoteCollector creates the live quote collector.
func ProvideQuoteCollector(
	stream repository.QuoteStream,
	watchlists *usecase.Watchlists,
	store cache.Service,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.QuoteCollector {
	return usecase.NewQuoteCollector(stream, watchlists, store, m, l)
}

// ProvideHandler combines the HTTP handlers.
func ProvideHandler(
	l *applogger.Logger,
	f *usecase.Fundamentals,
	scorer *usecase.Scorer,
	news *usecase.NewsAggregator,
	macro *usecase.Macro,
	analyzer *usecase.MacroAnalyzer,
	collector *usecase.QuoteCollector,
	watchlists *usecase.Watchlists,
) xhttp.Handler {
	return api.NewRoutes(
		api.NewDashboardEchoHandler(l, f, scorer, news, macro, analyzer, collector),
		api.NewWatchlistEchoHandler(l, watchlists),
	)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	collector *usecase.QuoteCollector,
	scheduler *usecase.Scheduler,
	store cache.Service,
	publisher repository.EventPublisher,
) *server.App {
	return server.New(cfg, l, handler, collector, scheduler, store, publisher)
}
