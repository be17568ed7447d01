package models

import "time"

// Financials covers income-statement and balance-sheet derived figures.
// Missing sources leave fields at zero; scorers treat zero as "unknown".
type Financials struct {
	Revenue        float64 `json:"revenue"`
	NetIncome      float64 `json:"netIncome"`
	ProfitMargin   float64 `json:"profitMargin"`   // percent
	ReturnOnEquity float64 `json:"returnOnEquity"` // percent
	DebtToEquity   float64 `json:"debtToEquity"`
	CurrentRatio   float64 `json:"currentRatio"`
	FreeCashFlow   float64 `json:"freeCashFlow"`
	RevenueGrowth  float64 `json:"revenueGrowth"`  // percent YoY
	EarningsGrowth float64 `json:"earningsGrowth"` // percent YoY
}

// Valuation holds multiple-based valuation metrics.
type Valuation struct {
	MarketCap     float64 `json:"marketCap"`
	PERatio       float64 `json:"peRatio"`
	ForwardPE     float64 `json:"forwardPE"`
	PEGRatio      float64 `json:"pegRatio"`
	PriceToBook   float64 `json:"priceToBook"`
	PriceToSales  float64 `json:"priceToSales"`
	EVToEBITDA    float64 `json:"evToEbitda"`
	DividendYield float64 `json:"dividendYield"` // percent
}

// Trading is current market state for the symbol.
type Trading struct {
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        float64 `json:"volume"`
	AvgVolume     float64 `json:"avgVolume"`
	High52Week    float64 `json:"high52Week"`
	Low52Week     float64 `json:"low52Week"`
	Beta          float64 `json:"beta"`
}

// Analyst aggregates sell-side coverage.
type Analyst struct {
	TargetPrice  float64 `json:"targetPrice"`
	StrongBuy    int     `json:"strongBuy"`
	Buy          int     `json:"buy"`
	Hold         int     `json:"hold"`
	Sell         int     `json:"sell"`
	StrongSell   int     `json:"strongSell"`
	RatingScore  float64 `json:"ratingScore"` // [-1, 1], see scoring.MapAnalystRating
	AnalystCount int     `json:"analystCount"`
}

// Technical holds simple trend/momentum readings.
type Technical struct {
	RSI      float64 `json:"rsi"`
	SMA50    float64 `json:"sma50"`
	SMA200   float64 `json:"sma200"`
	Momentum float64 `json:"momentum"` // percent above/below SMA50
}

// OptionsFlow summarizes unusual options activity and dealer positioning.
type OptionsFlow struct {
	CallPremium  float64 `json:"callPremium"`
	PutPremium   float64 `json:"putPremium"`
	FlowScore    float64 `json:"flowScore"` // [-1, 1]
	GEX          float64 `json:"gex"`
	FlipPoint    float64 `json:"flipPoint"`
	UnusualCount int     `json:"unusualCount"`
}

// Events carries the calendar items the dashboard surfaces.
type Events struct {
	NextEarnings        time.Time `json:"nextEarnings,omitempty"`
	LastEarnings        time.Time `json:"lastEarnings,omitempty"`
	EarningsSurprisePct float64   `json:"earningsSurprisePct"`
	ExDividendDate      time.Time `json:"exDividendDate,omitempty"`
}

// Risk holds volatility and positioning risk figures.
type Risk struct {
	Volatility30D    float64 `json:"volatility30d"` // percent, annualized
	ShortInterestPct float64 `json:"shortInterestPct"`
	RiskLevel        string  `json:"riskLevel"` // low, medium, high
}

// NewsSentimentSummary is the sentiment sub-record embedded in fundamentals.
type NewsSentimentSummary struct {
	Score        float64 `json:"score"`
	Confidence   float64 `json:"confidence"`
	ArticleCount int     `json:"articleCount"`
	MarketImpact string  `json:"marketImpact"`
}

// CompanyFundamentals is the merged per-symbol record assembled from the
// broker service, Alpha Vantage, and the news aggregate. One record per
// symbol, overwritten wholesale on refresh.
type CompanyFundamentals struct {
	Symbol       string               `json:"symbol"`
	Name         string               `json:"name,omitempty"`
	Sector       string               `json:"sector,omitempty"`
	Financials   Financials           `json:"financials"`
	Valuation    Valuation            `json:"valuation"`
	Trading      Trading              `json:"trading"`
	Analyst      Analyst              `json:"analyst"`
	Technical    Technical            `json:"technical"`
	Options      OptionsFlow          `json:"options"`
	Events       Events               `json:"events"`
	Risk         Risk                 `json:"risk"`
	Sentiment    NewsSentimentSummary `json:"sentiment"`
	Correlations map[string]float64   `json:"correlations,omitempty"`
	LastUpdated  time.Time            `json:"lastUpdated"`
}

// FundamentalScore is derived from CompanyFundamentals and cached with its
// own TTL; category values are clamped to [0, 100].
type FundamentalScore struct {
	Symbol          string    `json:"symbol"`
	Overall         float64   `json:"overall"`
	FinancialHealth float64   `json:"financialHealth"`
	Valuation       float64   `json:"valuation"`
	Growth          float64   `json:"growth"`
	Quality         float64   `json:"quality"`
	Momentum        float64   `json:"momentum"`
	Explanations    []string  `json:"explanations"`
	Warnings        []string  `json:"warnings"`
	Strengths       []string  `json:"strengths"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// Quote is the broker stream's last-trade view.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Volume    float64   `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
}
