package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/gjson"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/pkg/config"
	applogger "MarketLens/pkg/logger"
)

const classifyPrompt = `You are a financial news classifier. Given a headline and summary, respond with ONLY a JSON object, no prose:
{"score": <float -1..1, negative=bearish>, "confidence": <float 0..1>, "label": "bullish"|"bearish"|"neutral", "keywords": [<up to 5 lowercase keywords>]}

Headline: %s
Summary: %s`

// Classifier scores article text with the Anthropic API. A missing key or a
// malformed completion degrades to a neutral sentiment.
type Classifier struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	metrics   drepo.Metrics
	logger    *applogger.Logger
}

func New(cfg *config.Config, metrics drepo.Metrics, logger *applogger.Logger) *Classifier {
	model := cfg.Providers.LLM.Model
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}
	maxTokens := int64(cfg.Providers.LLM.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 256
	}
	return &Classifier{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.Providers.LLM.APIKey)),
		model:     model,
		maxTokens: maxTokens,
		metrics:   metrics,
		logger:    logger,
	}
}

func (c *Classifier) Classify(ctx context.Context, title, summary string) (models.ArticleSentiment, error) {
	neutral := models.ArticleSentiment{Label: models.LabelNeutral}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(classifyPrompt, title, summary))),
		},
	})
	if err != nil {
		c.metrics.RecordProviderRequest("llm", false)
		c.logger.Warn("llm classify failed", applogger.Error(err))
		return neutral, nil
	}
	c.metrics.RecordProviderRequest("llm", true)

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return parseSentiment(text.String()), nil
}

// parseSentiment extracts the JSON object from the completion. Models
// sometimes wrap the object in code fences or prose; find the braces.
func parseSentiment(s string) models.ArticleSentiment {
	neutral := models.ArticleSentiment{Label: models.LabelNeutral}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return neutral
	}
	body := s[start : end+1]
	if !gjson.Valid(body) {
		return neutral
	}

	out := models.ArticleSentiment{
		Score:      clampRange(gjson.Get(body, "score").Float(), -1, 1),
		Confidence: clampRange(gjson.Get(body, "confidence").Float(), 0, 1),
		Label:      gjson.Get(body, "label").String(),
	}
	switch out.Label {
	case models.LabelBullish, models.LabelBearish, models.LabelNeutral:
	default:
		out.Label = labelForScore(out.Score)
	}
	for _, kw := range gjson.Get(body, "keywords").Array() {
		if k := strings.TrimSpace(kw.String()); k != "" {
			out.Keywords = append(out.Keywords, strings.ToLower(k))
		}
	}
	return out
}

func labelForScore(score float64) string {
	switch {
	case score > 0.1:
		return models.LabelBullish
	case score < -0.1:
		return models.LabelBearish
	default:
		return models.LabelNeutral
	}
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var _ drepo.SentimentClassifier = (*Classifier)(nil)
