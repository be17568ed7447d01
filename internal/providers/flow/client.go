package flow

import (
	"context"
	"fmt"
	"time"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
)

const providerName = "flow"

// Client talks to the in-house options-flow service.
type Client struct {
	http    *xhttp.Client
	baseURL string
	apiKey  string
	metrics drepo.Metrics
}

func New(cfg *config.Config, metrics drepo.Metrics) *Client {
	timeout := cfg.Providers.Flow.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL: cfg.Providers.Flow.BaseURL,
		apiKey:  cfg.Providers.Flow.APIKey,
		metrics: metrics,
	}
}

func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	headers := map[string]string{}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     c.baseURL + path,
		Headers: headers,
	}, dest)
	c.metrics.RecordProviderRequest(providerName, err == nil)
	return err
}

type unusualResponse struct {
	CallPremium  float64 `json:"callPremium"`
	PutPremium   float64 `json:"putPremium"`
	UnusualCount int     `json:"unusualCount"`
}

type gexResponse struct {
	GEX       float64 `json:"gex"`
	FlipPoint float64 `json:"flipPoint"`
}

// FlowSentiment combines the unusual-activity and gamma-exposure endpoints.
// The flow score is the premium imbalance: (calls - puts) / total.
func (c *Client) FlowSentiment(ctx context.Context, symbol string) (models.OptionsFlow, error) {
	var unusual unusualResponse
	if err := c.get(ctx, "/stocks/"+symbol+"/unusual", &unusual); err != nil {
		return models.OptionsFlow{}, fmt.Errorf("flow unusual %s: %w", symbol, err)
	}

	out := models.OptionsFlow{
		CallPremium:  unusual.CallPremium,
		PutPremium:   unusual.PutPremium,
		UnusualCount: unusual.UnusualCount,
	}
	if total := unusual.CallPremium + unusual.PutPremium; total > 0 {
		out.FlowScore = (unusual.CallPremium - unusual.PutPremium) / total
	}

	// GEX is best-effort; a missing profile leaves the premiums usable.
	var gex gexResponse
	if err := c.get(ctx, "/stocks/"+symbol+"/gex", &gex); err == nil {
		out.GEX = gex.GEX
		out.FlipPoint = gex.FlipPoint
	}

	return out, nil
}

var _ drepo.FlowProvider = (*Client)(nil)
