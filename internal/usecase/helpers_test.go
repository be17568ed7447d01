package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"MarketLens/internal/domain/models"
	applogger "MarketLens/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

// stubMetrics satisfies repository.Metrics without a registry.
type stubMetrics struct{}

func (stubMetrics) RecordProviderRequest(string, bool) {}
func (stubMetrics) RecordError(string) {}
func (stubMetrics) RecordCacheHit(string) {}
func (stubMetrics) RecordCacheMiss(string) {}
func (stubMetrics) RecordRefreshDuration(string, float64) {}
func (stubMetrics) RecordScore(string, string, float64) {}

// stubNewsProvider returns canned articles and counts calls.
type stubNewsProvider struct {
	name     string
	articles []models.NewsArticle
	err      error

	mu    sync.Mutex
	calls int
}

func (s *stubNewsProvider) Name() string { return s.name }

func (s *stubNewsProvider) FetchNews(context.Context, string, time.Time) ([]models.NewsArticle, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.articles, nil
}

func (s *stubNewsProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// stubClassifier returns a fixed sentiment for every article.
type stubClassifier struct {
	sentiment models.ArticleSentiment
	err       error
}

func (s *stubClassifier) Classify(context.Context, string, string) (models.ArticleSentiment, error) {
	return s.sentiment, s.err
}

// stubCompanyData tracks concurrent invocations so scheduler batching can be
// asserted.
type stubCompanyData struct {
	name  string
	rec   models.CompanyFundamentals
	err   error
	delay time.Duration

	mu       sync.Mutex
	inFlight int
	peak     int
	calls    int
}

func (s *stubCompanyData) Name() string { return s.name }

func (s *stubCompanyData) FetchCompanyData(_ context.Context, symbol string) (models.CompanyFundamentals, error) {
	s.mu.Lock()
	s.inFlight++
	s.calls++
	if s.inFlight > s.peak {
		s.peak = s.inFlight
	}
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()

	if s.err != nil {
		return models.CompanyFundamentals{}, s.err
	}
	rec := s.rec
	rec.Symbol = symbol
	return rec, nil
}

func (s *stubCompanyData) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubCompanyData) peakInFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peak
}

// stubFlow returns a fixed options-flow read.
type stubFlow struct {
	flow models.OptionsFlow
	err  error
}

func (s *stubFlow) FlowSentiment(context.Context, string) (models.OptionsFlow, error) {
	return s.flow, s.err
}

// stubMarket serves canned quotes and closes.
type stubMarket struct {
	closes map[string][]float64
	quote  models.Quote
	err    error

	advanceShare float64
	putCall      float64
}

func (s *stubMarket) Quote(context.Context, string) (models.Quote, error) {
	return s.quote, s.err
}

func (s *stubMarket) DailyCloses(_ context.Context, symbol string, _ int) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.closes[symbol], nil
}

func (s *stubMarket) MarketBreadth(context.Context) (float64, float64, error) {
	return s.advanceShare, s.putCall, s.err
}

// stubSeries maps series ids to values.
type stubSeries struct {
	values map[string]float64
	err    error
}

func (s *stubSeries) LatestObservation(_ context.Context, seriesID string) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.values[seriesID], nil
}

// stubPublisher records published events.
type stubPublisher struct {
	mu     sync.Mutex
	events []models.RefreshEvent
}

func (s *stubPublisher) PublishRefresh(_ context.Context, ev models.RefreshEvent) error {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	return nil
}

func (s *stubPublisher) Close() error { return nil }

func (s *stubPublisher) published() []models.RefreshEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.RefreshEvent(nil), s.events...)
}

// stubHistory records archived scores.
type stubHistory struct {
	mu     sync.Mutex
	scores []models.FundamentalScore
}

func (s *stubHistory) AppendScores(_ context.Context, scores []models.FundamentalScore) error {
	s.mu.Lock()
	s.scores = append(s.scores, scores...)
	s.mu.Unlock()
	return nil
}
