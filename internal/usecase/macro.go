package usecase

import (
	"context"
	"time"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/domain/scoring"
	"MarketLens/pkg/cache"
	"MarketLens/pkg/config"
	applogger "MarketLens/pkg/logger"
)

// FRED series identifiers for the macro snapshot.
const (
	seriesTreasury1M  = "DGS1MO"
	seriesTreasury3M  = "DGS3MO"
	seriesTreasury6M  = "DGS6MO"
	seriesTreasury1Y  = "DGS1"
	seriesTreasury2Y  = "DGS2"
	seriesTreasury5Y  = "DGS5"
	seriesTreasury7Y  = "DGS7"
	seriesTreasury10Y = "DGS10"
	seriesTreasury30Y = "DGS30"

	seriesFedFunds      = "FEDFUNDS"
	seriesDiscountRate  = "DPCREDIT"
	seriesEffectiveRate = "DFF"

	seriesGDPGrowth         = "A191RL1Q225SBEA"
	seriesCPIYoY            = "CPALTT01USM659N"
	seriesCoreInflation     = "CORESTICKM159SFRBATL"
	seriesUnemployment      = "UNRATE"
	seriesNonfarmPayrolls   = "PAYEMS"
	seriesRetailSales       = "RSXFS"
	seriesIndustrialProd    = "INDPRO"
	seriesConsumerSentiment = "UMCSENT"

	seriesVIX          = "VIXCLS"
	seriesDollarIndex  = "DTWEXBGS"
	seriesGoldPrice    = "GOLDPMGBD228NLBM"
	seriesOilPrice     = "DCOILWTICO"
	seriesHighYieldOAS = "BAMLH0A0HYM2"
)

const (
	macroCacheKey   = "macro"
	indexProxy      = "SPY"
	momentumWindow  = 125
	safeHavenWindow = 20
)

// Macro assembles the process-wide macro snapshot: FRED series fetched
// sequentially under a shared throttle, plus broker and options-flow reads
// for the market-derived components. Individual series failures leave their
// field at zero; the snapshot as a whole still lands.
type Macro struct {
	series  drepo.SeriesProvider
	market  drepo.MarketDataProvider
	flow    drepo.FlowProvider
	cache   *cache.Typed[models.MacroeconomicIndicators]
	delay   time.Duration
	ttl     time.Duration
	metrics drepo.Metrics
	logger  *applogger.Logger
}

func NewMacro(
	series drepo.SeriesProvider,
	market drepo.MarketDataProvider,
	flow drepo.FlowProvider,
	cfg *config.Config,
	metrics drepo.Metrics,
	logger *applogger.Logger,
) *Macro {
	return &Macro{
		series:  series,
		market:  market,
		flow:    flow,
		cache:   cache.NewTyped[models.MacroeconomicIndicators](),
		delay:   cfg.Macro.SeriesDelay,
		ttl:     cfg.Macro.CacheTTL,
		metrics: metrics,
		logger:  logger,
	}
}

// Get returns the cached snapshot, rebuilding it once the horizon elapses.
func (m *Macro) Get(ctx context.Context) (models.MacroeconomicIndicators, error) {
	if cached, ok := m.cache.Get(macroCacheKey); ok {
		m.metrics.RecordCacheHit("macro")
		return cached, nil
	}
	m.metrics.RecordCacheMiss("macro")
	return m.Refresh(ctx)
}

// Refresh rebuilds the whole snapshot.
func (m *Macro) Refresh(ctx context.Context) (models.MacroeconomicIndicators, error) {
	start := time.Now()
	out := models.MacroeconomicIndicators{}

	out.Treasury = models.TreasuryRates{
		OneMonth:   m.fetch(ctx, seriesTreasury1M),
		ThreeMonth: m.fetch(ctx, seriesTreasury3M),
		SixMonth:   m.fetch(ctx, seriesTreasury6M),
		OneYear:    m.fetch(ctx, seriesTreasury1Y),
		TwoYear:    m.fetch(ctx, seriesTreasury2Y),
		FiveYear:   m.fetch(ctx, seriesTreasury5Y),
		SevenYear:  m.fetch(ctx, seriesTreasury7Y),
		TenYear:    m.fetch(ctx, seriesTreasury10Y),
		ThirtyYear: m.fetch(ctx, seriesTreasury30Y),
	}
	out.Fed = models.FedRates{
		FedFunds:      m.fetch(ctx, seriesFedFunds),
		DiscountRate:  m.fetch(ctx, seriesDiscountRate),
		EffectiveRate: m.fetch(ctx, seriesEffectiveRate),
	}
	out.Economic = models.EconomicIndicators{
		GDPGrowth:            m.fetch(ctx, seriesGDPGrowth),
		CPIInflation:         m.fetch(ctx, seriesCPIYoY),
		CoreInflation:        m.fetch(ctx, seriesCoreInflation),
		UnemploymentRate:     m.fetch(ctx, seriesUnemployment),
		NonfarmPayrolls:      m.fetch(ctx, seriesNonfarmPayrolls),
		RetailSalesGrowth:    m.fetch(ctx, seriesRetailSales),
		IndustrialProduction: m.fetch(ctx, seriesIndustrialProd),
		ConsumerSentiment:    m.fetch(ctx, seriesConsumerSentiment),
	}
	out.Sentiment = models.SentimentIndicators{
		VIX:          m.fetch(ctx, seriesVIX),
		DollarIndex:  m.fetch(ctx, seriesDollarIndex),
		GoldPrice:    m.fetch(ctx, seriesGoldPrice),
		OilPrice:     m.fetch(ctx, seriesOilPrice),
		HighYieldOAS: m.fetch(ctx, seriesHighYieldOAS),
	}

	advanceShare, putCall, err := m.market.MarketBreadth(ctx)
	if err != nil {
		m.metrics.RecordError("macro_breadth")
		m.logger.Warn("market breadth fetch failed", applogger.Error(err))
	}
	out.Sentiment.PutCallRatio = putCall

	flowScore := 0.0
	if flow, err := m.flow.FlowSentiment(ctx, indexProxy); err != nil {
		m.metrics.RecordError("macro_flow")
		m.logger.Warn("index options flow fetch failed", applogger.Error(err))
	} else {
		flowScore = flow.FlowScore
	}

	momentum, safeHaven := m.indexReturns(ctx)
	out.FearGreed = BuildFearGreed(out.Sentiment, advanceShare, momentum, safeHaven, flowScore)
	out.YieldCurve = BuildYieldCurve(out.Treasury)
	out.LastUpdated = time.Now()

	m.cache.Set(macroCacheKey, out, m.ttl)
	m.metrics.RecordRefreshDuration("macro", time.Since(start).Seconds())
	return out, nil
}

// Mood condenses the Fear & Greed breakdown for the dashboard header.
func (m *Macro) Mood(ctx context.Context) (models.MarketMood, error) {
	snapshot, err := m.Get(ctx)
	if err != nil {
		return models.MarketMood{}, err
	}
	fg := snapshot.FearGreed
	return models.MarketMood{
		Composite: fg.Composite,
		Label:     fg.Label,
		Components: map[string]float64{
			"volatility":  fg.Volatility,
			"momentum":    fg.Momentum,
			"breadth":     fg.Breadth,
			"putCall":     fg.PutCall,
			"safeHaven":   fg.SafeHaven,
			"junkBond":    fg.JunkBond,
			"optionsFlow": fg.OptionsFlow,
		},
		LastUpdated: snapshot.LastUpdated,
	}, nil
}

// fetch reads one series under the shared throttle. Failures log and report
// zero so one dead series never sinks the snapshot.
func (m *Macro) fetch(ctx context.Context, seriesID string) float64 {
	v, err := m.series.LatestObservation(ctx, seriesID)
	if err != nil {
		m.metrics.RecordError("macro_series")
		m.logger.Warn("macro series fetch failed", applogger.String("series", seriesID), applogger.Error(err))
		v = 0
	}
	m.pause(ctx)
	return v
}

func (m *Macro) pause(ctx context.Context) {
	if m.delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(m.delay):
	}
}

// indexReturns derives the momentum and safe-haven inputs from the index
// proxy's trailing closes.
func (m *Macro) indexReturns(ctx context.Context) (momentumPct, returnPct float64) {
	closes, err := m.market.DailyCloses(ctx, indexProxy, momentumWindow)
	if err != nil || len(closes) < 2 {
		if err != nil {
			m.metrics.RecordError("macro_closes")
			m.logger.Warn("index closes fetch failed", applogger.Error(err))
		}
		return 0, 0
	}

	last := closes[len(closes)-1]
	var sum float64
	for _, c := range closes {
		sum += c
	}
	if avg := sum / float64(len(closes)); avg > 0 {
		momentumPct = (last - avg) / avg * 100
	}

	window := safeHavenWindow
	if window >= len(closes) {
		window = len(closes) - 1
	}
	if first := closes[len(closes)-1-window]; first > 0 {
		returnPct = (last - first) / first * 100
	}
	return momentumPct, returnPct
}

// BuildFearGreed normalizes the seven components onto [0, 100] and averages
// them with equal weight.
func BuildFearGreed(s models.SentimentIndicators, advanceShare, momentumPct, returnPct, flowScore float64) models.FearGreed {
	fg := models.FearGreed{
		Volatility:  scoring.NormalizeVIX(s.VIX),
		Momentum:    scoring.Clamp(50 + momentumPct*5),
		Breadth:     scoring.NormalizeBreadth(advanceShare),
		PutCall:     scoring.NormalizePutCall(s.PutCallRatio),
		SafeHaven:   scoring.Clamp(50 + returnPct*5),
		JunkBond:    scoring.NormalizeJunkBond(s.HighYieldOAS),
		OptionsFlow: scoring.NormalizeSigned(flowScore),
	}
	fg.Composite = (fg.Volatility + fg.Momentum + fg.Breadth + fg.PutCall + fg.SafeHaven + fg.JunkBond + fg.OptionsFlow) / 7
	fg.Label = scoring.FearGreedLabel(fg.Composite)
	return fg
}

// BuildYieldCurve classifies the curve from pairwise tenor comparisons. Any
// inversion marks the curve inverted; a near-zero 10Y-2Y spread overrides the
// shape to flat.
func BuildYieldCurve(t models.TreasuryRates) models.YieldCurve {
	curve := models.YieldCurve{
		Shape:           models.CurveNormal,
		Steepness:       t.TenYear - t.TwoYear,
		InversionPoints: []string{},
	}

	pairs := []struct {
		name            string
		shorter, longer float64
	}{
		{"2Y-10Y", t.TwoYear, t.TenYear},
		{"5Y-10Y", t.FiveYear, t.TenYear},
		{"10Y-30Y", t.TenYear, t.ThirtyYear},
	}
	for _, p := range pairs {
		if p.shorter > 0 && p.longer > 0 && p.shorter > p.longer {
			curve.InversionPoints = append(curve.InversionPoints, p.name)
		}
	}

	if len(curve.InversionPoints) > 0 {
		curve.Shape = models.CurveInverted
	}
	if t.TwoYear > 0 && t.TenYear > 0 && abs(curve.Steepness) < scoring.FlatCurveEpsilon {
		curve.Shape = models.CurveFlat
	}
	return curve
}
