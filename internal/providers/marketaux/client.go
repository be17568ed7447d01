package marketaux

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/pkg/config"
)

const (
	providerName   = "marketaux"
	defaultBaseURL = "https://api.marketaux.com"
)

// Client fetches financial news from MarketAux, which scores per-entity
// sentiment itself.
type Client struct {
	http    *resty.Client
	apiKey  string
	rate    float64
	burst   int
	limiter *ratelimit.Limiter
	metrics drepo.Metrics
}

func New(cfg *config.Config, limiter *ratelimit.Limiter, metrics drepo.Metrics) *Client {
	pc := cfg.Providers.MarketAux
	baseURL := pc.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := pc.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http:    resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		apiKey:  pc.APIKey,
		rate:    pc.RatePerSec,
		burst:   pc.Burst,
		limiter: limiter,
		metrics: metrics,
	}
}

func (c *Client) Name() string { return providerName }

type newsAllResponse struct {
	Data []struct {
		UUID        string    `json:"uuid"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		Source      string    `json:"source"`
		PublishedAt time.Time `json:"published_at"`
		Entities    []struct {
			Symbol         string  `json:"symbol"`
			SentimentScore float64 `json:"sentiment_score"`
			MatchScore     float64 `json:"match_score"`
		} `json:"entities"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) FetchNews(ctx context.Context, symbol string, since time.Time) ([]models.NewsArticle, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("marketaux: no api token")
	}
	if err := c.limiter.Wait(ctx, providerName, c.rate, c.burst); err != nil {
		return nil, err
	}

	var body newsAllResponse
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbols":         symbol,
			"published_after": since.UTC().Format("2006-01-02T15:04"),
			"language":        "en",
			"limit":           "50",
			"api_token":       c.apiKey,
		}).
		SetResult(&body).
		Get("/v1/news/all")
	if err != nil {
		c.metrics.RecordProviderRequest(providerName, false)
		return nil, fmt.Errorf("marketaux: %w", err)
	}
	if resp.IsError() || body.Error != nil {
		c.metrics.RecordProviderRequest(providerName, false)
		msg := ""
		if body.Error != nil {
			msg = body.Error.Message
		}
		return nil, fmt.Errorf("marketaux: status %d %s", resp.StatusCode(), msg)
	}
	c.metrics.RecordProviderRequest(providerName, true)

	var articles []models.NewsArticle
	for _, a := range body.Data {
		if a.Title == "" || a.PublishedAt.Before(since) {
			continue
		}

		article := models.NewsArticle{
			ID:          a.UUID,
			Title:       a.Title,
			Summary:     a.Description,
			URL:         a.URL,
			Source:      a.Source,
			Provider:    providerName,
			PublishedAt: a.PublishedAt,
		}
		for _, e := range a.Entities {
			article.Symbols = append(article.Symbols, e.Symbol)
			if strings.EqualFold(e.Symbol, symbol) {
				article.Sentiment = models.ArticleSentiment{
					Score:      e.SentimentScore,
					Confidence: e.MatchScore,
					Label:      labelFor(e.SentimentScore),
				}
			}
		}
		articles = append(articles, article)
	}
	return articles, nil
}

func labelFor(score float64) string {
	switch {
	case score > 0.1:
		return models.LabelBullish
	case score < -0.1:
		return models.LabelBearish
	default:
		return models.LabelNeutral
	}
}

var _ drepo.NewsProvider = (*Client)(nil)
