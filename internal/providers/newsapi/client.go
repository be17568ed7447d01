package newsapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/pkg/config"
)

const (
	providerName   = "newsapi"
	defaultBaseURL = "https://newsapi.org"
)

// Client fetches general-press coverage from NewsAPI. Articles carry no
// sentiment; the aggregator runs them through the classifier.
type Client struct {
	http    *resty.Client
	apiKey  string
	rate    float64
	burst   int
	limiter *ratelimit.Limiter
	metrics drepo.Metrics
}

func New(cfg *config.Config, limiter *ratelimit.Limiter, metrics drepo.Metrics) *Client {
	pc := cfg.Providers.NewsAPI
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

type everythingResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

func (c *Client) FetchNews(ctx context.Context, symbol string, since time.Time) ([]models.NewsArticle, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("newsapi: no api key")
	}
	if err := c.limiter.Wait(ctx, providerName, c.rate, c.burst); err != nil {
		return nil, err
	}

	var body everythingResponse
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        symbol,
			"from":     since.UTC().Format(time.RFC3339),
			"language": "en",
			"sortBy":   "publishedAt",
			"pageSize": "50",
		}).
		SetHeader("X-Api-Key", c.apiKey).
		SetResult(&body).
		Get("/v2/everything")
	if err != nil {
		c.metrics.RecordProviderRequest(providerName, false)
		return nil, fmt.Errorf("newsapi: %w", err)
	}
	if resp.IsError() || body.Status != "ok" {
		c.metrics.RecordProviderRequest(providerName, false)
		return nil, fmt.Errorf("newsapi: status %d %s", resp.StatusCode(), body.Message)
	}
	c.metrics.RecordProviderRequest(providerName, true)

	var articles []models.NewsArticle
	for _, a := range body.Articles {
		if a.Title == "" || a.PublishedAt.Before(since) {
			continue
		}
		articles = append(articles, models.NewsArticle{
			ID:          a.URL,
			Title:       a.Title,
			Summary:     a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			Provider:    providerName,
			PublishedAt: a.PublishedAt,
			Symbols:     []string{symbol},
		})
	}
	return articles, nil
}

var _ drepo.NewsProvider = (*Client)(nil)
