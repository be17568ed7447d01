package usecase

import (
	"context"
	"fmt"
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

const fundamentalsSnapshot = "fundamentals.json"

// Fundamentals assembles per-symbol CompanyFundamentals records by merging
// the broker gateway, the market-data API, the options-flow service, and the
// news aggregate. Records are written wholesale; a refresh either replaces
// the whole record or leaves the previous one in place.
type Fundamentals struct {
	broker  drepo.CompanyDataProvider
	market  drepo.CompanyDataProvider
	flow    drepo.FlowProvider
	news    *NewsAggregator
	store   cache.Service
	records *cache.Typed[models.CompanyFundamentals]
	snap    *cache.SnapshotStore
	ttl     time.Duration
	metrics drepo.Metrics
	logger  *applogger.Logger
}

func NewFundamentals(
	broker drepo.CompanyDataProvider,
	market drepo.CompanyDataProvider,
	flow drepo.FlowProvider,
	news *NewsAggregator,
	store cache.Service,
	snap *cache.SnapshotStore,
	cfg *config.Config,
	metrics drepo.Metrics,
	logger *applogger.Logger,
) *Fundamentals {
	f := &Fundamentals{
		broker:  broker,
		market:  market,
		flow:    flow,
		news:    news,
		store:   store,
		records: cache.NewTyped[models.CompanyFundamentals](),
		snap:    snap,
		ttl:     cfg.Fundamentals.CacheTTL,
		metrics: metrics,
		logger:  logger,
	}
	f.loadSnapshot()
	return f
}

// loadSnapshot warms the record map from the last persisted state so restarts
// serve stale-but-present data until the first refresh lands.
func (f *Fundamentals) loadSnapshot() {
	var saved []models.CompanyFundamentals
	if err := f.snap.Load(fundamentalsSnapshot, &saved); err != nil {
		if err != cache.ErrCacheMiss {
			f.logger.Warn("fundamentals snapshot load failed", applogger.Error(err))
		}
		return
	}
	for _, rec := range saved {
		f.records.Set(rec.Symbol, rec, 0)
	}
	f.logger.Info("fundamentals snapshot loaded", applogger.Int("symbols", len(saved)))
}

// SaveSnapshot persists the current record map.
func (f *Fundamentals) SaveSnapshot() error {
	return f.snap.Save(fundamentalsSnapshot, f.records.Values())
}

// Get returns the cached record for symbol, refreshing on a miss or once the
// TTL has elapsed.
func (f *Fundamentals) Get(ctx context.Context, symbol string) (models.CompanyFundamentals, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return models.CompanyFundamentals{}, fmt.Errorf("symbol is required")
	}

	cached, err := cache.GetTyped[models.CompanyFundamentals](ctx, f.store, "fundamentals:"+symbol)
	if err == nil {
		f.metrics.RecordCacheHit("fundamentals")
		f.applyLiveQuote(ctx, &cached)
		return cached, nil
	}
	if err != cache.ErrCacheMiss {
		f.logger.Warn("fundamentals cache read failed", applogger.String("symbol", symbol), applogger.Error(err))
	}
	f.metrics.RecordCacheMiss("fundamentals")

	rec, err := f.Refresh(ctx, symbol)
	if err != nil {
		if stale, ok := f.records.Get(symbol); ok {
			f.logger.Warn("serving stale fundamentals",
				applogger.String("symbol", symbol), applogger.Error(err))
			f.applyLiveQuote(ctx, &stale)
			return stale, nil
		}
		return models.CompanyFundamentals{}, err
	}
	f.applyLiveQuote(ctx, &rec)
	return rec, nil
}

// applyLiveQuote overlays the stream's last trade onto the trading sub-record
// so reads between refreshes see near-real-time prices. The overlay is
// read-time only; the stored record keeps the refresh-time values.
func (f *Fundamentals) applyLiveQuote(ctx context.Context, rec *models.CompanyFundamentals) {
	q, err := cache.GetTyped[models.Quote](ctx, f.store, quoteKeyPrefix+rec.Symbol)
	if err != nil || q.Price <= 0 {
		return
	}
	rec.Trading.Price = q.Price
	if q.Volume > 0 {
		rec.Trading.Volume = q.Volume
	}
}

// Refresh rebuilds the record from all sources and stores it. At least one
// source must return actual data; otherwise the previous record stays and an
// error is returned.
func (f *Fundamentals) Refresh(ctx context.Context, symbol string) (models.CompanyFundamentals, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	start := time.Now()

	producers := []func(ctx context.Context) (models.CompanyFundamentals, error){
		func(ctx context.Context) (models.CompanyFundamentals, error) {
			return f.broker.FetchCompanyData(ctx, symbol)
		},
		func(ctx context.Context) (models.CompanyFundamentals, error) {
			return f.market.FetchCompanyData(ctx, symbol)
		},
		func(ctx context.Context) (models.CompanyFundamentals, error) {
			var out models.CompanyFundamentals
			out.Symbol = symbol
			flow, err := f.flow.FlowSentiment(ctx, symbol)
			if err != nil {
				return out, err
			}
			out.Options = flow
			return out, nil
		},
		func(ctx context.Context) (models.CompanyFundamentals, error) {
			var out models.CompanyFundamentals
			out.Symbol = symbol
			sentiment, err := f.news.GetSymbolSentiment(ctx, symbol, 0)
			if err != nil {
				return out, err
			}
			out.Sentiment = Summary(sentiment)
			return out, nil
		},
	}

	results := queue.Settle(ctx, len(producers), producers)
	sources := []string{"broker", "market", "flow", "news"}
	merged := models.CompanyFundamentals{Symbol: symbol}
	succeeded := 0
	for i, r := range results {
		if r.Err != nil {
			f.metrics.RecordError("fundamentals_source")
			f.logger.Warn("fundamentals source failed",
				applogger.String("symbol", symbol),
				applogger.String("source", sources[i]),
				applogger.Error(r.Err))
			continue
		}
		merged = overlay(merged, r.Value)
		if hasCompanyData(r.Value) {
			succeeded++
		}
	}
	if succeeded == 0 {
		return models.CompanyFundamentals{}, fmt.Errorf("no fundamentals data for %s: all sources failed or empty", symbol)
	}

	finalize(&merged)
	merged.LastUpdated = time.Now()

	if err := f.store.Set(ctx, "fundamentals:"+symbol, merged, f.ttl); err != nil {
		f.logger.Warn("fundamentals cache write failed", applogger.String("symbol", symbol), applogger.Error(err))
	}
	f.records.Set(symbol, merged, 0)
	f.metrics.RecordRefreshDuration("fundamentals", time.Since(start).Seconds())
	return merged, nil
}

// AttachCorrelations rewrites a record with its correlation row and re-stores
// it under the same TTL.
func (f *Fundamentals) AttachCorrelations(ctx context.Context, symbol string, corr map[string]float64) {
	rec, ok := f.records.Get(symbol)
	if !ok {
		return
	}
	rec.Correlations = corr
	f.records.Set(symbol, rec, 0)
	if err := f.store.Set(ctx, "fundamentals:"+symbol, rec, f.ttl); err != nil {
		f.logger.Warn("correlation cache write failed", applogger.String("symbol", symbol), applogger.Error(err))
	}
}

// Records returns the current record map contents.
func (f *Fundamentals) Records() []models.CompanyFundamentals {
	return f.records.Values()
}

// hasCompanyData reports whether a source result carries actual data. The
// news producer degrades to a neutral no-article summary instead of erroring,
// so a full provider outage would otherwise pass for a successful refresh and
// wipe the previous record with zeroes.
func hasCompanyData(rec models.CompanyFundamentals) bool {
	return rec.Name != "" || rec.Sector != "" ||
		rec.Financials != (models.Financials{}) ||
		rec.Valuation != (models.Valuation{}) ||
		rec.Trading != (models.Trading{}) ||
		rec.Analyst != (models.Analyst{}) ||
		rec.Technical != (models.Technical{}) ||
		rec.Options != (models.OptionsFlow{}) ||
		rec.Events != (models.Events{}) ||
		rec.Risk != (models.Risk{}) ||
		rec.Sentiment.ArticleCount > 0
}

// overlay merges src into dst, preferring dst's non-zero fields. Sub-records
// that dst has no data for are taken from src wholesale.
func overlay(dst, src models.CompanyFundamentals) models.CompanyFundamentals {
	if dst.Name == "" {
		dst.Name = src.Name
	}
	if dst.Sector == "" {
		dst.Sector = src.Sector
	}
	mergeFinancials(&dst.Financials, src.Financials)
	if dst.Valuation == (models.Valuation{}) {
		dst.Valuation = src.Valuation
	}
	mergeTrading(&dst.Trading, src.Trading)
	if dst.Analyst == (models.Analyst{}) {
		dst.Analyst = src.Analyst
	}
	if dst.Technical == (models.Technical{}) {
		dst.Technical = src.Technical
	}
	if dst.Options == (models.OptionsFlow{}) {
		dst.Options = src.Options
	}
	if dst.Events == (models.Events{}) {
		dst.Events = src.Events
	}
	if dst.Risk == (models.Risk{}) {
		dst.Risk = src.Risk
	}
	if dst.Sentiment == (models.NewsSentimentSummary{}) {
		dst.Sentiment = src.Sentiment
	}
	return dst
}

func mergeFinancials(dst *models.Financials, src models.Financials) {
	if dst.Revenue == 0 {
		dst.Revenue = src.Revenue
	}
	if dst.NetIncome == 0 {
		dst.NetIncome = src.NetIncome
	}
	if dst.ProfitMargin == 0 {
		dst.ProfitMargin = src.ProfitMargin
	}
	if dst.ReturnOnEquity == 0 {
		dst.ReturnOnEquity = src.ReturnOnEquity
	}
	if dst.DebtToEquity == 0 {
		dst.DebtToEquity = src.DebtToEquity
	}
	if dst.CurrentRatio == 0 {
		dst.CurrentRatio = src.CurrentRatio
	}
	if dst.FreeCashFlow == 0 {
		dst.FreeCashFlow = src.FreeCashFlow
	}
	if dst.RevenueGrowth == 0 {
		dst.RevenueGrowth = src.RevenueGrowth
	}
	if dst.EarningsGrowth == 0 {
		dst.EarningsGrowth = src.EarningsGrowth
	}
}

func mergeTrading(dst *models.Trading, src models.Trading) {
	if dst.Price == 0 {
		dst.Price = src.Price
	}
	if dst.Change == 0 {
		dst.Change = src.Change
	}
	if dst.ChangePercent == 0 {
		dst.ChangePercent = src.ChangePercent
	}
	if dst.Volume == 0 {
		dst.Volume = src.Volume
	}
	if dst.AvgVolume == 0 {
		dst.AvgVolume = src.AvgVolume
	}
	if dst.High52Week == 0 {
		dst.High52Week = src.High52Week
	}
	if dst.Low52Week == 0 {
		dst.Low52Week = src.Low52Week
	}
	if dst.Beta == 0 {
		dst.Beta = src.Beta
	}
}

// finalize fills fields derived from the merged record.
func finalize(rec *models.CompanyFundamentals) {
	if rec.Analyst.AnalystCount > 0 {
		share := float64(rec.Analyst.StrongBuy) / float64(rec.Analyst.AnalystCount)
		rec.Analyst.RatingScore = scoring.MapAnalystRating(share)
	}
	if rec.Risk.RiskLevel == "" {
		rec.Risk.RiskLevel = riskLevelFor(rec)
	}
}

func riskLevelFor(rec *models.CompanyFundamentals) string {
	switch {
	case rec.Risk.Volatility30D > 40 || rec.Trading.Beta > 2 || rec.Risk.ShortInterestPct > 15:
		return "high"
	case rec.Risk.Volatility30D > 20 || rec.Trading.Beta > 1.2 || rec.Risk.ShortInterestPct > 5:
		return "medium"
	default:
		return "low"
	}
}
