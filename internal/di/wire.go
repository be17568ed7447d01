//go:build wireinject
// +build wireinject

package di

import (
	"MarketLens/pkg/config"
	"MarketLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideLimiter,

		// Infrastructure
		ProvideCacheService,
		ProvideSnapshotStore,
		ProvidePublisher,
		ProvideScoreHistory,

		// Provider adapters
		ProvideBrokerClient,
		ProvideMarketData,
		ProvideQuoteStream,
		ProvideFlow,
		ProvideSeries,
		ProvideClassifier,
		ProvideAlphaVantage,
		ProvideNewsProviders,

		// Use cases
		ProvideNewsAggregator,
		ProvideFundamentals,
		ProvideScorer,
		ProvideMacro,
		ProvideMacroAnalyzer,
		ProvideWatchlists,
		ProvideCorrelator,
		ProvideScheduler,
		ProvideQuoteCollector,

		// HTTP
		ProvideHandler,
		ProvideApp,
	)
	return nil, nil
}
