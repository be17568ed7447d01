// Package scoring centralizes the weighting tables and threshold constants
// used by the fusion and scoring engines. The values are tuned heuristics,
// not physically meaningful quantities; adjust with care and keep tests in
// sync.
package scoring

// Provider weights rank how much a source's sentiment counts in the fused
// score. The internal broker feed ranks highest, specialized flow data next,
// general wires below that, and aggregator/demo APIs lowest.
var ProviderWeights = map[string]float64{
	"broker":       1.0,
	"flow":         0.9,
	"alphavantage": 0.8,
	"newsapi":      0.6,
	"marketaux":    0.6,
	"fmp":          0.5,
}

// DefaultProviderWeight applies to sources missing from the table.
const DefaultProviderWeight = 0.4

// Sentiment fusion parameters.
const (
	SignalThreshold     = 0.2 // |score| above which an article becomes a signal
	MaxSignals          = 5
	MaxThemes           = 5
	HighImpactShare     = 0.30 // fraction of high-impact articles for "high"
	DedupTitlePrefixLen = 50
)

// Overall fundamental score blend. Weights sum to 1.
const (
	WeightFinancialHealth = 0.25
	WeightValuation       = 0.20
	WeightGrowth          = 0.25
	WeightQuality         = 0.15
	WeightMomentum        = 0.15
)

// Category scorers start here and apply fixed deltas at named thresholds.
const ScoreBaseline = 50.0

// Clamp bounds a score to [0, 100].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ClampSigned bounds a sentiment score to [-1, 1].
func ClampSigned(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// MapAnalystRating maps the strong-buy share of total ratings onto the
// [-1, 1] scale. The thresholds intentionally reproduce the dashboard's
// historical behavior, which reads a percentage input against [-1, 1]-style
// cutoffs; they are kept as-is rather than "fixed" so scores stay comparable
// with prior data.
func MapAnalystRating(strongBuyShare float64) float64 {
	switch {
	case strongBuyShare >= 0.75:
		return 1.0
	case strongBuyShare >= 0.5:
		return 0.5
	case strongBuyShare >= 0.25:
		return 0.0
	case strongBuyShare >= 0.1:
		return -0.5
	default:
		return -1.0
	}
}

// NormalizeVIX maps the VIX level onto [0, 100], higher meaning greedier.
// 10 maps to 100, 50+ maps to 0.
func NormalizeVIX(vix float64) float64 {
	return Clamp(100 - (vix-10)*2.5)
}

// NormalizePutCall maps the equity put/call ratio onto [0, 100]; 0.7 is
// treated as neutral, 1.2+ as extreme fear.
func NormalizePutCall(ratio float64) float64 {
	return Clamp(100 - (ratio-0.2)*100)
}

// NormalizeJunkBond maps the high-yield OAS (percent) onto [0, 100];
// tight spreads near 3% read greedy, 8%+ reads full fear.
func NormalizeJunkBond(oas float64) float64 {
	return Clamp(100 - (oas-3.0)*20)
}

// NormalizeBreadth maps an advance share in [0, 1] onto [0, 100].
func NormalizeBreadth(advanceShare float64) float64 {
	return Clamp(advanceShare * 100)
}

// NormalizeSigned maps a [-1, 1] score onto [0, 100].
func NormalizeSigned(score float64) float64 {
	return Clamp((ClampSigned(score) + 1) * 50)
}

// FearGreedLabel buckets the composite.
func FearGreedLabel(composite float64) string {
	switch {
	case composite >= 75:
		return "extreme greed"
	case composite >= 55:
		return "greed"
	case composite > 45:
		return "neutral"
	case composite > 25:
		return "fear"
	default:
		return "extreme fear"
	}
}

// FlatCurveEpsilon is the 10Y-2Y band treated as a flat curve, in
// percentage points.
const FlatCurveEpsilon = 0.10
