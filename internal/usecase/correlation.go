package usecase

import (
	"context"
	"math"

	drepo "MarketLens/internal/domain/repository"
	applogger "MarketLens/pkg/logger"
)

const correlationDays = 60

// Correlator computes pairwise return correlations across a symbol set from
// the broker's daily closes.
type Correlator struct {
	market  drepo.MarketDataProvider
	metrics drepo.Metrics
	logger  *applogger.Logger
}

func NewCorrelator(market drepo.MarketDataProvider, metrics drepo.Metrics, logger *applogger.Logger) *Correlator {
	return &Correlator{market: market, metrics: metrics, logger: logger}
}

// Matrix returns symbol → {other symbol → correlation}. Symbols whose close
// history cannot be fetched are skipped, not failed.
func (c *Correlator) Matrix(ctx context.Context, symbols []string) map[string]map[string]float64 {
	returns := make(map[string][]float64, len(symbols))
	for _, sym := range symbols {
		closes, err := c.market.DailyCloses(ctx, sym, correlationDays)
		if err != nil || len(closes) < 3 {
			if err != nil {
				c.metrics.RecordError("correlation_closes")
				c.logger.Warn("correlation closes fetch failed",
					applogger.String("symbol", sym), applogger.Error(err))
			}
			continue
		}
		returns[sym] = dailyReturns(closes)
	}

	matrix := make(map[string]map[string]float64, len(returns))
	for a, ra := range returns {
		row := make(map[string]float64, len(returns)-1)
		for b, rb := range returns {
			if a == b {
				continue
			}
			row[b] = pearson(ra, rb)
		}
		matrix[a] = row
	}
	return matrix
}

func dailyReturns(closes []float64) []float64 {
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, closes[i]/closes[i-1]-1)
	}
	return out
}

// pearson computes the correlation over the common length of the two series.
func pearson(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n < 2 {
		return 0
	}
	a, b = a[len(a)-n:], b[len(b)-n:]

	var sumA, sumB float64
	for i := 0; i < n; i++ {
		sumA += a[i]
		sumB += b[i]
	}
	meanA, meanB := sumA/float64(n), sumB/float64(n)

	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da, db := a[i]-meanA, b[i]-meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}
