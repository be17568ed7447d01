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
)

// Scorer turns a CompanyFundamentals record into category scores and
// narratives. The score cache runs on its own TTL so a stale score can
// outlive a fresher fundamentals record and vice versa.
type Scorer struct {
	fundamentals *Fundamentals
	store        cache.Service
	ttl          time.Duration
	metrics      drepo.Metrics
	logger       *applogger.Logger
}

func NewScorer(fundamentals *Fundamentals, store cache.Service, cfg *config.Config, metrics drepo.Metrics, logger *applogger.Logger) *Scorer {
	return &Scorer{
		fundamentals: fundamentals,
		store:        store,
		ttl:          cfg.Fundamentals.ScoreTTL,
		metrics:      metrics,
		logger:       logger,
	}
}

// Get returns the cached score for symbol, computing it on a miss.
func (s *Scorer) Get(ctx context.Context, symbol string) (models.FundamentalScore, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return models.FundamentalScore{}, fmt.Errorf("symbol is required")
	}

	cached, err := cache.GetTyped[models.FundamentalScore](ctx, s.store, "score:"+symbol)
	if err == nil {
		s.metrics.RecordCacheHit("score")
		return cached, nil
	}
	if err != cache.ErrCacheMiss {
		s.logger.Warn("score cache read failed", applogger.String("symbol", symbol), applogger.Error(err))
	}
	s.metrics.RecordCacheMiss("score")

	rec, err := s.fundamentals.Get(ctx, symbol)
	if err != nil {
		return models.FundamentalScore{}, err
	}

	score := ComputeScore(rec)
	if err := s.store.Set(ctx, "score:"+symbol, score, s.ttl); err != nil {
		s.logger.Warn("score cache write failed", applogger.String("symbol", symbol), applogger.Error(err))
	}
	s.metrics.RecordScore(symbol, "overall", score.Overall)
	return score, nil
}

// Recompute scores a freshly refreshed record and replaces the cached entry.
func (s *Scorer) Recompute(ctx context.Context, rec models.CompanyFundamentals) models.FundamentalScore {
	score := ComputeScore(rec)
	if err := s.store.Set(ctx, "score:"+rec.Symbol, score, s.ttl); err != nil {
		s.logger.Warn("score cache write failed", applogger.String("symbol", rec.Symbol), applogger.Error(err))
	}
	s.metrics.RecordScore(rec.Symbol, "overall", score.Overall)
	return score
}

// ComputeScore is the pure scoring function: five independent category
// scorers, each starting at the baseline and applying fixed deltas at named
// thresholds, blended into the overall with fixed weights.
func ComputeScore(rec models.CompanyFundamentals) models.FundamentalScore {
	score := models.FundamentalScore{
		Symbol:       rec.Symbol,
		Explanations: []string{},
		Warnings:     []string{},
		Strengths:    []string{},
		LastUpdated:  time.Now(),
	}

	score.FinancialHealth = scoreFinancialHealth(rec, &score)
	score.Valuation = scoreValuation(rec, &score)
	score.Growth = scoreGrowth(rec, &score)
	score.Quality = scoreQuality(rec, &score)
	score.Momentum = scoreMomentum(rec, &score)

	score.Overall = scoring.Clamp(
		score.FinancialHealth*scoring.WeightFinancialHealth +
			score.Valuation*scoring.WeightValuation +
			score.Growth*scoring.WeightGrowth +
			score.Quality*scoring.WeightQuality +
			score.Momentum*scoring.WeightMomentum)
	return score
}

func scoreFinancialHealth(rec models.CompanyFundamentals, out *models.FundamentalScore) float64 {
	v := scoring.ScoreBaseline
	fin := rec.Financials

	if fin.ReturnOnEquity > 15 {
		v += 15
		out.Strengths = append(out.Strengths, fmt.Sprintf("Strong return on equity at %.1f%%", fin.ReturnOnEquity))
	} else if fin.ReturnOnEquity > 0 && fin.ReturnOnEquity < 5 {
		v -= 10
	}
	if fin.ProfitMargin > 20 {
		v += 10
		out.Strengths = append(out.Strengths, fmt.Sprintf("High profit margin at %.1f%%", fin.ProfitMargin))
	} else if fin.ProfitMargin < 0 {
		v -= 15
		out.Warnings = append(out.Warnings, "Company is unprofitable")
	}
	if fin.DebtToEquity > 2 {
		v -= 15
		out.Warnings = append(out.Warnings, fmt.Sprintf("Elevated leverage: debt/equity %.2f", fin.DebtToEquity))
	} else if fin.DebtToEquity > 0 && fin.DebtToEquity < 0.5 {
		v += 10
	}
	if fin.CurrentRatio > 0 && fin.CurrentRatio < 1 {
		v -= 10
		out.Warnings = append(out.Warnings, "Current ratio below 1 signals tight liquidity")
	}
	if fin.FreeCashFlow > 0 {
		v += 5
	}

	out.Explanations = append(out.Explanations,
		fmt.Sprintf("Financial health reflects profitability, leverage, and liquidity (ROE %.1f%%, margin %.1f%%)",
			fin.ReturnOnEquity, fin.ProfitMargin))
	return scoring.Clamp(v)
}

func scoreValuation(rec models.CompanyFundamentals, out *models.FundamentalScore) float64 {
	v := scoring.ScoreBaseline
	val := rec.Valuation

	switch {
	case val.PERatio > 0 && val.PERatio < 15:
		v += 15
		out.Strengths = append(out.Strengths, fmt.Sprintf("Attractive P/E of %.1f", val.PERatio))
	case val.PERatio > 40:
		v -= 15
		out.Warnings = append(out.Warnings, fmt.Sprintf("Rich valuation: P/E %.1f", val.PERatio))
	case val.PERatio > 25:
		v -= 5
	}
	if val.PEGRatio > 0 && val.PEGRatio < 1 {
		v += 10
		out.Strengths = append(out.Strengths, "PEG below 1 suggests growth is underpriced")
	} else if val.PEGRatio > 2 {
		v -= 10
	}
	if val.PriceToBook > 0 && val.PriceToBook < 1.5 {
		v += 5
	}
	if val.DividendYield > 3 {
		v += 5
	}

	out.Explanations = append(out.Explanations,
		fmt.Sprintf("Valuation weighs earnings and book multiples (P/E %.1f, PEG %.2f)", val.PERatio, val.PEGRatio))
	return scoring.Clamp(v)
}

func scoreGrowth(rec models.CompanyFundamentals, out *models.FundamentalScore) float64 {
	v := scoring.ScoreBaseline
	fin := rec.Financials

	switch {
	case fin.RevenueGrowth > 20:
		v += 20
		out.Strengths = append(out.Strengths, fmt.Sprintf("Revenue growing %.1f%% year over year", fin.RevenueGrowth))
	case fin.RevenueGrowth > 10:
		v += 10
	case fin.RevenueGrowth < 0:
		v -= 15
		out.Warnings = append(out.Warnings, "Revenue is shrinking")
	}
	switch {
	case fin.EarningsGrowth > 25:
		v += 15
	case fin.EarningsGrowth > 10:
		v += 8
	case fin.EarningsGrowth < -10:
		v -= 15
		out.Warnings = append(out.Warnings, fmt.Sprintf("Earnings declining %.1f%%", fin.EarningsGrowth))
	}
	if rec.Events.EarningsSurprisePct > 5 {
		v += 5
	}

	out.Explanations = append(out.Explanations,
		fmt.Sprintf("Growth tracks revenue and earnings trajectories (%.1f%% / %.1f%%)",
			fin.RevenueGrowth, fin.EarningsGrowth))
	return scoring.Clamp(v)
}

func scoreQuality(rec models.CompanyFundamentals, out *models.FundamentalScore) float64 {
	v := scoring.ScoreBaseline

	if rec.Analyst.AnalystCount >= 5 {
		v += rec.Analyst.RatingScore * 15
		if rec.Analyst.RatingScore >= 0.5 {
			out.Strengths = append(out.Strengths, "Analyst coverage leans strongly positive")
		}
	}
	if rec.Analyst.TargetPrice > 0 && rec.Trading.Price > 0 {
		upside := (rec.Analyst.TargetPrice - rec.Trading.Price) / rec.Trading.Price * 100
		switch {
		case upside > 20:
			v += 10
		case upside < -10:
			v -= 10
			out.Warnings = append(out.Warnings, "Price trades above the consensus target")
		}
	}
	if rec.Sentiment.ArticleCount > 0 {
		v += rec.Sentiment.Score * 10
		if rec.Sentiment.MarketImpact == models.ImpactHigh {
			out.Explanations = append(out.Explanations, "High-impact news flow is moving this name")
		}
	}
	if rec.Risk.RiskLevel == "high" {
		v -= 10
		out.Warnings = append(out.Warnings, "Risk profile is elevated")
	}

	out.Explanations = append(out.Explanations, "Quality blends analyst view, news sentiment, and risk profile")
	return scoring.Clamp(v)
}

func scoreMomentum(rec models.CompanyFundamentals, out *models.FundamentalScore) float64 {
	v := scoring.ScoreBaseline
	tech := rec.Technical

	switch {
	case tech.RSI >= 70:
		v -= 10
		out.Warnings = append(out.Warnings, fmt.Sprintf("RSI %.0f is overbought", tech.RSI))
	case tech.RSI > 0 && tech.RSI <= 30:
		v += 5
	case tech.RSI >= 50:
		v += 10
	}
	if tech.SMA50 > 0 && tech.SMA200 > 0 {
		if tech.SMA50 > tech.SMA200 {
			v += 10
			out.Strengths = append(out.Strengths, "50-day average above 200-day confirms the uptrend")
		} else {
			v -= 10
		}
	}
	if tech.Momentum > 5 {
		v += 5
	} else if tech.Momentum < -5 {
		v -= 5
	}
	if rec.Options.FlowScore > 0.3 {
		v += 10
		out.Strengths = append(out.Strengths, "Options flow skews toward calls")
	} else if rec.Options.FlowScore < -0.3 {
		v -= 10
		out.Warnings = append(out.Warnings, "Options flow skews toward puts")
	}

	out.Explanations = append(out.Explanations,
		fmt.Sprintf("Momentum combines RSI, moving averages, and options positioning (RSI %.0f)", tech.RSI))
	return scoring.Clamp(v)
}
