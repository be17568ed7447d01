package usecase

import (
	"context"
	"fmt"
	"time"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/domain/scoring"
	"MarketLens/pkg/cache"
	"MarketLens/pkg/config"
)

const analysisCacheKey = "macro:analysis"

const maxAnalysisItems = 5

// MacroAnalyzer is a second-stage pure classification over the macro
// snapshot. It holds no provider clients; all inputs come from Macro.
type MacroAnalyzer struct {
	macro   *Macro
	cache   *cache.Typed[models.MacroAnalysis]
	ttl     time.Duration
	metrics drepo.Metrics
}

func NewMacroAnalyzer(macro *Macro, cfg *config.Config, metrics drepo.Metrics) *MacroAnalyzer {
	return &MacroAnalyzer{
		macro:   macro,
		cache:   cache.NewTyped[models.MacroAnalysis](),
		ttl:     cfg.Macro.AnalysisTTL,
		metrics: metrics,
	}
}

// Get returns the cached analysis, recomputing it from the current macro
// snapshot once its own TTL elapses.
func (a *MacroAnalyzer) Get(ctx context.Context) (models.MacroAnalysis, error) {
	if cached, ok := a.cache.Get(analysisCacheKey); ok {
		a.metrics.RecordCacheHit("macro_analysis")
		return cached, nil
	}
	a.metrics.RecordCacheMiss("macro_analysis")

	snapshot, err := a.macro.Get(ctx)
	if err != nil {
		return models.MacroAnalysis{}, err
	}

	analysis := ClassifyMacro(snapshot)
	a.cache.Set(analysisCacheKey, analysis, a.ttl)
	return analysis, nil
}

// ClassifyMacro maps the snapshot onto regime, inflation, policy, and risk
// labels via fixed numeric thresholds, and emits bounded narrative lists.
func ClassifyMacro(m models.MacroeconomicIndicators) models.MacroAnalysis {
	out := models.MacroAnalysis{
		Regime:              classifyRegime(m.Economic),
		InflationTrend:      classifyInflation(m.Economic),
		MonetaryPolicy:      classifyPolicy(m.Fed, m.Economic),
		KeySignals:          []string{},
		TradingImplications: []string{},
		LastUpdated:         time.Now(),
	}
	out.EconomicHealth = economicHealth(m)
	out.RiskLevel = riskLevel(m)

	addBounded := func(list *[]string, s string) {
		if len(*list) < maxAnalysisItems {
			*list = append(*list, s)
		}
	}

	if m.YieldCurve.Shape == models.CurveInverted {
		addBounded(&out.KeySignals, fmt.Sprintf("Yield curve inverted at %v", m.YieldCurve.InversionPoints))
		addBounded(&out.TradingImplications, "Favor quality and shorten duration while the curve stays inverted")
	}
	if m.Sentiment.VIX > 30 {
		addBounded(&out.KeySignals, fmt.Sprintf("VIX elevated at %.1f", m.Sentiment.VIX))
		addBounded(&out.TradingImplications, "Size positions down; volatility regime favors hedged exposure")
	}
	if m.Economic.CPIInflation > 4 {
		addBounded(&out.KeySignals, fmt.Sprintf("Inflation running hot at %.1f%%", m.Economic.CPIInflation))
		addBounded(&out.TradingImplications, "Real assets and pricing-power names outperform in high inflation")
	}
	if m.Economic.GDPGrowth < 0 {
		addBounded(&out.KeySignals, fmt.Sprintf("GDP contracting at %.1f%%", m.Economic.GDPGrowth))
		addBounded(&out.TradingImplications, "Defensive sectors historically lead through contractions")
	}
	if m.FearGreed.Composite <= 25 {
		addBounded(&out.KeySignals, "Sentiment at extreme fear")
		addBounded(&out.TradingImplications, "Extreme fear has historically marked contrarian entry points")
	} else if m.FearGreed.Composite >= 75 {
		addBounded(&out.KeySignals, "Sentiment at extreme greed")
		addBounded(&out.TradingImplications, "Extreme greed argues for trimming extended winners")
	}
	if m.Fed.FedFunds > m.Economic.CPIInflation+1 {
		addBounded(&out.KeySignals, "Real policy rate is firmly positive")
	}
	if len(out.KeySignals) == 0 {
		addBounded(&out.KeySignals, "No outsized macro signals; conditions read as balanced")
		addBounded(&out.TradingImplications, "Neutral macro backdrop; let single-name fundamentals drive selection")
	}

	return out
}

func classifyRegime(e models.EconomicIndicators) string {
	switch {
	case e.GDPGrowth < 0:
		return models.RegimeContraction
	case e.GDPGrowth < 1.5:
		return models.RegimeSlowdown
	case e.UnemploymentRate > 5.5:
		return models.RegimeRecovery
	default:
		return models.RegimeExpansion
	}
}

func classifyInflation(e models.EconomicIndicators) string {
	switch {
	case e.CPIInflation > 4:
		return "elevated"
	case e.CPIInflation > 3:
		return "rising"
	case e.CPIInflation < 2:
		return "stable"
	default:
		return "moderating"
	}
}

func classifyPolicy(f models.FedRates, e models.EconomicIndicators) string {
	switch {
	case f.FedFunds > e.CPIInflation+1:
		return "restrictive"
	case f.FedFunds < e.CPIInflation-1:
		return "accommodative"
	default:
		return "neutral"
	}
}

func economicHealth(m models.MacroeconomicIndicators) float64 {
	v := scoring.ScoreBaseline
	e := m.Economic

	if e.GDPGrowth > 2 {
		v += 15
	} else if e.GDPGrowth < 0 {
		v -= 20
	}
	if e.UnemploymentRate > 0 && e.UnemploymentRate < 4 {
		v += 10
	} else if e.UnemploymentRate > 6 {
		v -= 15
	}
	if e.CPIInflation >= 1 && e.CPIInflation <= 3 {
		v += 10
	} else if e.CPIInflation > 5 {
		v -= 15
	}
	if e.ConsumerSentiment > 90 {
		v += 5
	} else if e.ConsumerSentiment > 0 && e.ConsumerSentiment < 70 {
		v -= 5
	}
	if m.YieldCurve.Shape == models.CurveInverted {
		v -= 10
	}
	return scoring.Clamp(v)
}

func riskLevel(m models.MacroeconomicIndicators) string {
	switch {
	case m.YieldCurve.Shape == models.CurveInverted,
		m.Sentiment.VIX > 30,
		m.FearGreed.Composite <= 25:
		return "high"
	case m.Sentiment.VIX > 20, m.FearGreed.Composite < 45:
		return "medium"
	default:
		return "low"
	}
}
