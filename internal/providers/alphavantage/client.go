package alphavantage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/pkg/config"
	applogger "MarketLens/pkg/logger"
	"MarketLens/pkg/util"
)

const (
	providerName   = "alphavantage"
	defaultBaseURL = "https://www.alphavantage.co"
	publishedFmt   = "20060102T150405"
)

// Client wraps the Alpha Vantage query API. Every numeric field comes back
// as a JSON string ("None" when absent), so responses are read with gjson
// instead of struct tags.
type Client struct {
	http    *resty.Client
	apiKey  string
	rate    float64
	burst   int
	limiter *ratelimit.Limiter
	metrics drepo.Metrics
	logger  *applogger.Logger
}

func New(cfg *config.Config, limiter *ratelimit.Limiter, metrics drepo.Metrics, logger *applogger.Logger) *Client {
	pc := cfg.Providers.AlphaVantage
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
		logger:  logger,
	}
}

func (c *Client) Name() string { return providerName }

func (c *Client) query(ctx context.Context, params map[string]string) (gjson.Result, error) {
	if c.apiKey == "" {
		return gjson.Result{}, fmt.Errorf("alphavantage: no api key")
	}
	if err := c.limiter.Wait(ctx, providerName, c.rate, c.burst); err != nil {
		return gjson.Result{}, err
	}

	params["apikey"] = c.apiKey
	resp, err := c.http.R().SetContext(ctx).SetQueryParams(params).Get("/query")
	if err != nil {
		c.metrics.RecordProviderRequest(providerName, false)
		return gjson.Result{}, fmt.Errorf("alphavantage %s: %w", params["function"], err)
	}
	if resp.IsError() {
		c.metrics.RecordProviderRequest(providerName, false)
		return gjson.Result{}, fmt.Errorf("alphavantage %s: status %d", params["function"], resp.StatusCode())
	}

	body := gjson.ParseBytes(resp.Body())
	// Rate-limit and error replies come back with HTTP 200.
	if note := body.Get("Note"); note.Exists() {
		c.metrics.RecordProviderRequest(providerName, false)
		return gjson.Result{}, fmt.Errorf("alphavantage throttled: %s", note.String())
	}
	if errMsg := body.Get("Error Message"); errMsg.Exists() {
		c.metrics.RecordProviderRequest(providerName, false)
		return gjson.Result{}, fmt.Errorf("alphavantage: %s", errMsg.String())
	}

	c.metrics.RecordProviderRequest(providerName, true)
	return body, nil
}

// FetchNews pulls NEWS_SENTIMENT feed items mentioning the symbol. Alpha
// Vantage articles arrive pre-scored, so the classifier is skipped for them.
func (c *Client) FetchNews(ctx context.Context, symbol string, since time.Time) ([]models.NewsArticle, error) {
	body, err := c.query(ctx, map[string]string{
		"function":  "NEWS_SENTIMENT",
		"tickers":   symbol,
		"time_from": since.UTC().Format(publishedFmt),
		"sort":      "LATEST",
		"limit":     "50",
	})
	if err != nil {
		return nil, err
	}

	var articles []models.NewsArticle
	for _, item := range body.Get("feed").Array() {
		published, ok := util.ParseTime(item.Get("time_published").String())
		if !ok || published.Before(since) {
			continue
		}

		score := item.Get("overall_sentiment_score").Float()
		relevance := 0.5
		var symbols []string
		for _, ts := range item.Get("ticker_sentiment").Array() {
			ticker := ts.Get("ticker").String()
			symbols = append(symbols, ticker)
			if strings.EqualFold(ticker, symbol) {
				score = ts.Get("ticker_sentiment_score").Float()
				relevance = ts.Get("relevance_score").Float()
			}
		}

		articles = append(articles, models.NewsArticle{
			ID:          item.Get("url").String(),
			Title:       item.Get("title").String(),
			Summary:     item.Get("summary").String(),
			URL:         item.Get("url").String(),
			Source:      item.Get("source").String(),
			Provider:    providerName,
			PublishedAt: published,
			Symbols:     symbols,
			Sentiment: models.ArticleSentiment{
				Score:      score,
				Confidence: relevance,
				Label:      labelFor(item.Get("overall_sentiment_label").String(), score),
			},
		})
	}
	return articles, nil
}

// labelFor normalizes Alpha Vantage's five-level labels to the three used here.
func labelFor(raw string, score float64) string {
	switch strings.ToLower(raw) {
	case "bullish", "somewhat-bullish":
		return models.LabelBullish
	case "bearish", "somewhat-bearish":
		return models.LabelBearish
	case "neutral":
		return models.LabelNeutral
	}
	switch {
	case score > 0.1:
		return models.LabelBullish
	case score < -0.1:
		return models.LabelBearish
	default:
		return models.LabelNeutral
	}
}

// FetchCompanyData assembles a partial fundamentals record from OVERVIEW,
// GLOBAL_QUOTE, and the latest annual INCOME_STATEMENT report.
func (c *Client) FetchCompanyData(ctx context.Context, symbol string) (models.CompanyFundamentals, error) {
	out := models.CompanyFundamentals{Symbol: symbol}

	overview, err := c.query(ctx, map[string]string{"function": "OVERVIEW", "symbol": symbol})
	if err != nil {
		return out, err
	}
	if overview.Get("Symbol").String() == "" {
		return out, fmt.Errorf("alphavantage: no overview for %s", symbol)
	}

	out.Name = overview.Get("Name").String()
	out.Sector = overview.Get("Sector").String()
	out.Financials = models.Financials{
		ProfitMargin:   overview.Get("ProfitMargin").Float() * 100,
		ReturnOnEquity: overview.Get("ReturnOnEquityTTM").Float() * 100,
		RevenueGrowth:  overview.Get("QuarterlyRevenueGrowthYOY").Float() * 100,
		EarningsGrowth: overview.Get("QuarterlyEarningsGrowthYOY").Float() * 100,
	}
	out.Valuation = models.Valuation{
		MarketCap:     overview.Get("MarketCapitalization").Float(),
		PERatio:       overview.Get("PERatio").Float(),
		ForwardPE:     overview.Get("ForwardPE").Float(),
		PEGRatio:      overview.Get("PEGRatio").Float(),
		PriceToBook:   overview.Get("PriceToBookRatio").Float(),
		PriceToSales:  overview.Get("PriceToSalesRatioTTM").Float(),
		EVToEBITDA:    overview.Get("EVToEBITDA").Float(),
		DividendYield: overview.Get("DividendYield").Float() * 100,
	}
	out.Trading.Beta = overview.Get("Beta").Float()
	out.Trading.High52Week = overview.Get("52WeekHigh").Float()
	out.Trading.Low52Week = overview.Get("52WeekLow").Float()
	out.Analyst = models.Analyst{
		TargetPrice: overview.Get("AnalystTargetPrice").Float(),
		StrongBuy:   int(overview.Get("AnalystRatingStrongBuy").Int()),
		Buy:         int(overview.Get("AnalystRatingBuy").Int()),
		Hold:        int(overview.Get("AnalystRatingHold").Int()),
		Sell:        int(overview.Get("AnalystRatingSell").Int()),
		StrongSell:  int(overview.Get("AnalystRatingStrongSell").Int()),
	}
	out.Analyst.AnalystCount = out.Analyst.StrongBuy + out.Analyst.Buy + out.Analyst.Hold +
		out.Analyst.Sell + out.Analyst.StrongSell
	if ex, ok := util.ParseTime(overview.Get("ExDividendDate").String()); ok {
		out.Events.ExDividendDate = ex
	}

	if quote, err := c.query(ctx, map[string]string{"function": "GLOBAL_QUOTE", "symbol": symbol}); err == nil {
		q := quote.Get("Global Quote")
		out.Trading.Price = q.Get("05. price").Float()
		out.Trading.Change = q.Get("09. change").Float()
		if pct, err := strconv.ParseFloat(strings.TrimSuffix(q.Get("10. change percent").String(), "%"), 64); err == nil {
			out.Trading.ChangePercent = pct
		}
		out.Trading.Volume = q.Get("06. volume").Float()
	} else {
		c.logger.Warn("alphavantage quote failed", applogger.String("symbol", symbol), applogger.Error(err))
	}

	if income, err := c.query(ctx, map[string]string{"function": "INCOME_STATEMENT", "symbol": symbol}); err == nil {
		reports := income.Get("annualReports").Array()
		if len(reports) > 0 {
			out.Financials.Revenue = reports[0].Get("totalRevenue").Float()
			out.Financials.NetIncome = reports[0].Get("netIncome").Float()
		}
	} else {
		c.logger.Warn("alphavantage income statement failed", applogger.String("symbol", symbol), applogger.Error(err))
	}

	out.LastUpdated = time.Now()
	return out, nil
}

var (
	_ drepo.NewsProvider        = (*Client)(nil)
	_ drepo.CompanyDataProvider = (*Client)(nil)
)
