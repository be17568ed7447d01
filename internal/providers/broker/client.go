package broker

import (
	"context"
	"fmt"
	"time"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
	"MarketLens/pkg/util"
)

const providerName = "broker"

// Client talks to the in-house broker gateway, the authoritative source for
// quotes, candles, technicals, and market breadth.
type Client struct {
	http    *xhttp.Client
	baseURL string
	metrics drepo.Metrics
}

func NewClient(cfg *config.Config, metrics drepo.Metrics) *Client {
	return &Client{
		http:    xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
		baseURL: cfg.Providers.Broker.BaseURL,
		metrics: metrics,
	}
}

func (c *Client) Name() string { return providerName }

func (c *Client) get(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: query,
	}, dest)
	c.metrics.RecordProviderRequest(providerName, err == nil)
	return err
}

type quoteResponse struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
	Timestamp string  `json:"timestamp"`
}

func (c *Client) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	var body quoteResponse
	if err := c.get(ctx, "/v1/quotes/"+symbol, nil, &body); err != nil {
		return models.Quote{}, fmt.Errorf("broker quote %s: %w", symbol, err)
	}
	return models.Quote{
		Symbol:    body.Symbol,
		Price:     body.Price,
		Volume:    body.Volume,
		Timestamp: util.ParseTimeDefault(body.Timestamp, time.Now()),
	}, nil
}

type candlesResponse struct {
	Symbol string    `json:"symbol"`
	Closes []float64 `json:"closes"`
}

// DailyCloses returns up to days trailing daily closes, oldest first.
func (c *Client) DailyCloses(ctx context.Context, symbol string, days int) ([]float64, error) {
	var body candlesResponse
	query := map[string][]string{"days": {fmt.Sprintf("%d", days)}}
	if err := c.get(ctx, "/v1/candles/"+symbol, query, &body); err != nil {
		return nil, fmt.Errorf("broker candles %s: %w", symbol, err)
	}
	return body.Closes, nil
}

type breadthResponse struct {
	AdvanceShare float64 `json:"advanceShare"`
	PutCallRatio float64 `json:"putCallRatio"`
}

func (c *Client) MarketBreadth(ctx context.Context) (float64, float64, error) {
	var body breadthResponse
	if err := c.get(ctx, "/v1/market/breadth", nil, &body); err != nil {
		return 0, 0, fmt.Errorf("broker breadth: %w", err)
	}
	return body.AdvanceShare, body.PutCallRatio, nil
}

type fundamentalsResponse struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
	Quote  struct {
		Price         float64 `json:"price"`
		Change        float64 `json:"change"`
		ChangePercent float64 `json:"changePercent"`
		Volume        float64 `json:"volume"`
		AvgVolume     float64 `json:"avgVolume"`
	} `json:"quote"`
	Technical struct {
		RSI    float64 `json:"rsi"`
		SMA50  float64 `json:"sma50"`
		SMA200 float64 `json:"sma200"`
	} `json:"technical"`
	Financials struct {
		DebtToEquity float64 `json:"debtToEquity"`
		CurrentRatio float64 `json:"currentRatio"`
		FreeCashFlow float64 `json:"freeCashFlow"`
	} `json:"financials"`
	Events struct {
		NextEarnings        string  `json:"nextEarnings"`
		LastEarnings        string  `json:"lastEarnings"`
		EarningsSurprisePct float64 `json:"earningsSurprisePct"`
	} `json:"events"`
	Risk struct {
		Volatility30D    float64 `json:"volatility30d"`
		ShortInterestPct float64 `json:"shortInterestPct"`
	} `json:"risk"`
}

// FetchCompanyData returns the broker's partial fundamentals view. Valuation
// and income figures come from other sources during the merge.
func (c *Client) FetchCompanyData(ctx context.Context, symbol string) (models.CompanyFundamentals, error) {
	var body fundamentalsResponse
	if err := c.get(ctx, "/v1/fundamentals/"+symbol, nil, &body); err != nil {
		return models.CompanyFundamentals{Symbol: symbol}, fmt.Errorf("broker fundamentals %s: %w", symbol, err)
	}

	out := models.CompanyFundamentals{
		Symbol: symbol,
		Name:   body.Name,
		Sector: body.Sector,
		Trading: models.Trading{
			Price:         body.Quote.Price,
			Change:        body.Quote.Change,
			ChangePercent: body.Quote.ChangePercent,
			Volume:        body.Quote.Volume,
			AvgVolume:     body.Quote.AvgVolume,
		},
		Technical: models.Technical{
			RSI:    body.Technical.RSI,
			SMA50:  body.Technical.SMA50,
			SMA200: body.Technical.SMA200,
		},
		Financials: models.Financials{
			DebtToEquity: body.Financials.DebtToEquity,
			CurrentRatio: body.Financials.CurrentRatio,
			FreeCashFlow: body.Financials.FreeCashFlow,
		},
		Events: models.Events{
			EarningsSurprisePct: body.Events.EarningsSurprisePct,
		},
		Risk: models.Risk{
			Volatility30D:    body.Risk.Volatility30D,
			ShortInterestPct: body.Risk.ShortInterestPct,
		},
		LastUpdated: time.Now(),
	}
	if t, ok := util.ParseTime(body.Events.NextEarnings); ok {
		out.Events.NextEarnings = t
	}
	if t, ok := util.ParseTime(body.Events.LastEarnings); ok {
		out.Events.LastEarnings = t
	}
	if body.Technical.SMA50 > 0 && body.Quote.Price > 0 {
		out.Technical.Momentum = (body.Quote.Price - body.Technical.SMA50) / body.Technical.SMA50 * 100
	}
	return out, nil
}

var (
	_ drepo.MarketDataProvider  = (*Client)(nil)
	_ drepo.CompanyDataProvider = (*Client)(nil)
)
