package fmp

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/pkg/config"
	"MarketLens/pkg/util"
)

const (
	providerName   = "fmp"
	defaultBaseURL = "https://financialmodelingprep.com"
)

// Client fetches stock news from Financial Modeling Prep. FMP articles carry
// no sentiment, so the aggregator classifies them.
type Client struct {
	http    *resty.Client
	apiKey  string
	rate    float64
	burst   int
	limiter *ratelimit.Limiter
	metrics drepo.Metrics
}

func New(cfg *config.Config, limiter *ratelimit.Limiter, metrics drepo.Metrics) *Client {
	pc := cfg.Providers.FMP
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

type stockNewsItem struct {
	Symbol        string `json:"symbol"`
	PublishedDate string `json:"publishedDate"`
	Title         string `json:"title"`
	Text          string `json:"text"`
	URL           string `json:"url"`
	Site          string `json:"site"`
}

func (c *Client) FetchNews(ctx context.Context, symbol string, since time.Time) ([]models.NewsArticle, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("fmp: no api key")
	}
	if err := c.limiter.Wait(ctx, providerName, c.rate, c.burst); err != nil {
		return nil, err
	}

	var items []stockNewsItem
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParams(map[string]string{
			"tickers": symbol,
			"limit":   "50",
			"apikey":  c.apiKey,
		}).
		SetResult(&items).
		Get("/api/v3/stock_news")
	if err != nil {
		c.metrics.RecordProviderRequest(providerName, false)
		return nil, fmt.Errorf("fmp: %w", err)
	}
	if resp.IsError() {
		c.metrics.RecordProviderRequest(providerName, false)
		return nil, fmt.Errorf("fmp: status %d", resp.StatusCode())
	}
	c.metrics.RecordProviderRequest(providerName, true)

	var articles []models.NewsArticle
	for _, a := range items {
		// FMP uses "2006-01-02 15:04:05" timestamps.
		published, err := time.Parse("2006-01-02 15:04:05", a.PublishedDate)
		if err != nil {
			published = util.ParseTimeDefault(a.PublishedDate, time.Time{})
		}
		if a.Title == "" || published.Before(since) {
			continue
		}
		articles = append(articles, models.NewsArticle{
			ID:          a.URL,
			Title:       a.Title,
			Summary:     a.Text,
			URL:         a.URL,
			Source:      a.Site,
			Provider:    providerName,
			PublishedAt: published,
			Symbols:     []string{a.Symbol},
		})
	}
	return articles, nil
}

var _ drepo.NewsProvider = (*Client)(nil)
