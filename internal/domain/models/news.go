package models

import "time"

// Sentiment labels produced by the classifier.
const (
	LabelBullish = "bullish"
	LabelBearish = "bearish"
	LabelNeutral = "neutral"
)

// Market impact levels.
const (
	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"
)

// ArticleSentiment is the classifier output attached to an article.
type ArticleSentiment struct {
	Score      float64  `json:"score"`      // [-1, 1]
	Confidence float64  `json:"confidence"` // [0, 1]
	Label      string   `json:"label"`
	Keywords   []string `json:"keywords,omitempty"`
}

// NewsArticle is the normalized record every news provider maps into.
// Articles are immutable once created; duplicates are dropped, never merged.
type NewsArticle struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Summary     string           `json:"summary,omitempty"`
	URL         string           `json:"url,omitempty"`
	Source      string           `json:"source"`
	Provider    string           `json:"provider"`
	PublishedAt time.Time        `json:"publishedAt"`
	Symbols     []string         `json:"symbols,omitempty"`
	Sentiment   ArticleSentiment `json:"sentiment"`
	Impact      string           `json:"impact"`
	Category    string           `json:"category,omitempty"`
}

// SymbolSentiment is the fused per-symbol aggregate over a lookback window.
type SymbolSentiment struct {
	Symbol         string    `json:"symbol"`
	Score          float64   `json:"score"`      // [-1, 1]
	Confidence     float64   `json:"confidence"` // [0, 1]
	ArticleCount   int       `json:"articleCount"`
	BullishSignals []string  `json:"bullishSignals"`
	BearishSignals []string  `json:"bearishSignals"`
	KeyThemes      []string  `json:"keyThemes"`
	MarketImpact   string    `json:"marketImpact"`
	WindowHours    int       `json:"windowHours"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// MarketMood is the dashboard's Fear & Greed summary.
type MarketMood struct {
	Composite   float64            `json:"composite"` // [0, 100]
	Label       string             `json:"label"`
	Components  map[string]float64 `json:"components"`
	LastUpdated time.Time          `json:"lastUpdated"`
}
