package fred

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	drepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/pkg/config"
)

const (
	providerName   = "fred"
	defaultBaseURL = "https://api.stlouisfed.org"
)

// Client reads macro series from the St. Louis Fed FRED API.
type Client struct {
	http    *resty.Client
	apiKey  string
	rate    float64
	burst   int
	limiter *ratelimit.Limiter
	metrics drepo.Metrics
}

func New(cfg *config.Config, limiter *ratelimit.Limiter, metrics drepo.Metrics) *Client {
	pc := cfg.Providers.FRED
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

// LatestObservation returns the most recent non-empty value of a series.
// FRED reports missing observations as the literal string ".".
func (c *Client) LatestObservation(ctx context.Context, seriesID string) (float64, error) {
	if c.apiKey == "" {
		return 0, fmt.Errorf("fred: no api key")
	}
	if err := c.limiter.Wait(ctx, providerName, c.rate, c.burst); err != nil {
		return 0, err
	}

	resp, err := c.http.R().SetContext(ctx).SetQueryParams(map[string]string{
		"series_id":  seriesID,
		"api_key":    c.apiKey,
		"file_type":  "json",
		"sort_order": "desc",
		"limit":      "5",
	}).Get("/fred/series/observations")
	if err != nil {
		c.metrics.RecordProviderRequest(providerName, false)
		return 0, fmt.Errorf("fred %s: %w", seriesID, err)
	}
	if resp.IsError() {
		c.metrics.RecordProviderRequest(providerName, false)
		return 0, fmt.Errorf("fred %s: status %d", seriesID, resp.StatusCode())
	}

	for _, obs := range gjson.GetBytes(resp.Body(), "observations").Array() {
		raw := obs.Get("value").String()
		if raw == "" || raw == "." {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		c.metrics.RecordProviderRequest(providerName, true)
		return v, nil
	}

	c.metrics.RecordProviderRequest(providerName, false)
	return 0, fmt.Errorf("fred %s: no observations", seriesID)
}

var _ drepo.SeriesProvider = (*Client)(nil)
