package models

import "time"

// TreasuryRates is the 9-point treasury curve, percent yields.
type TreasuryRates struct {
	OneMonth   float64 `json:"oneMonth"`
	ThreeMonth float64 `json:"threeMonth"`
	SixMonth   float64 `json:"sixMonth"`
	OneYear    float64 `json:"oneYear"`
	TwoYear    float64 `json:"twoYear"`
	FiveYear   float64 `json:"fiveYear"`
	SevenYear  float64 `json:"sevenYear"`
	TenYear    float64 `json:"tenYear"`
	ThirtyYear float64 `json:"thirtyYear"`
}

// FedRates covers policy rates.
type FedRates struct {
	FedFunds      float64 `json:"fedFunds"`
	DiscountRate  float64 `json:"discountRate"`
	EffectiveRate float64 `json:"effectiveRate"`
}

// EconomicIndicators are the eight headline series.
type EconomicIndicators struct {
	GDPGrowth            float64 `json:"gdpGrowth"`      // percent, annualized
	CPIInflation         float64 `json:"cpiInflation"`   // percent YoY
	CoreInflation        float64 `json:"coreInflation"`  // percent YoY
	UnemploymentRate     float64 `json:"unemploymentRate"`
	NonfarmPayrolls      float64 `json:"nonfarmPayrolls"` // thousands
	RetailSalesGrowth    float64 `json:"retailSalesGrowth"`
	IndustrialProduction float64 `json:"industrialProduction"`
	ConsumerSentiment    float64 `json:"consumerSentiment"`
}

// SentimentIndicators are the market-derived series.
type SentimentIndicators struct {
	VIX          float64 `json:"vix"`
	DollarIndex  float64 `json:"dollarIndex"`
	GoldPrice    float64 `json:"goldPrice"`
	OilPrice     float64 `json:"oilPrice"`
	PutCallRatio float64 `json:"putCallRatio"`
	HighYieldOAS float64 `json:"highYieldOas"` // percent spread
}

// FearGreed is the 7-component composite; every component is normalized to
// [0, 100] and the composite is their unweighted mean.
type FearGreed struct {
	Volatility  float64 `json:"volatility"`
	Momentum    float64 `json:"momentum"`
	Breadth     float64 `json:"breadth"`
	PutCall     float64 `json:"putCall"`
	SafeHaven   float64 `json:"safeHaven"`
	JunkBond    float64 `json:"junkBond"`
	OptionsFlow float64 `json:"optionsFlow"`
	Composite   float64 `json:"composite"`
	Label       string  `json:"label"`
}

// Yield curve shapes.
const (
	CurveNormal   = "normal"
	CurveFlat     = "flat"
	CurveInverted = "inverted"
)

// YieldCurve is derived from pairwise tenor comparisons.
type YieldCurve struct {
	Shape           string   `json:"shape"`
	Steepness       float64  `json:"steepness"` // 10Y - 2Y, percentage points
	InversionPoints []string `json:"inversionPoints"`
}

// MacroeconomicIndicators is the process-wide macro snapshot, recomputed
// wholesale on the macro cache horizon.
type MacroeconomicIndicators struct {
	Treasury    TreasuryRates       `json:"treasury"`
	Fed         FedRates            `json:"fed"`
	Economic    EconomicIndicators  `json:"economic"`
	Sentiment   SentimentIndicators `json:"sentiment"`
	FearGreed   FearGreed           `json:"fearGreed"`
	YieldCurve  YieldCurve          `json:"yieldCurve"`
	LastUpdated time.Time           `json:"lastUpdated"`
}

// Macro regimes.
const (
	RegimeExpansion   = "expansion"
	RegimeSlowdown    = "slowdown"
	RegimeContraction = "contraction"
	RegimeRecovery    = "recovery"
)

// MacroAnalysis is a pure second-stage classification over the indicators.
type MacroAnalysis struct {
	Regime              string    `json:"regime"`
	InflationTrend      string    `json:"inflationTrend"`      // rising, elevated, moderating, stable
	MonetaryPolicy      string    `json:"monetaryPolicy"`      // restrictive, neutral, accommodative
	EconomicHealth      float64   `json:"economicHealth"`      // [0, 100]
	RiskLevel           string    `json:"riskLevel"`           // low, medium, high
	KeySignals          []string  `json:"keySignals"`          // bounded to 5
	TradingImplications []string  `json:"tradingImplications"` // bounded to 5
	LastUpdated         time.Time `json:"lastUpdated"`
}
