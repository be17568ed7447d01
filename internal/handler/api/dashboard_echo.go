package api

import (
	"time"

	"github.com/labstack/echo/v4"

	models "MarketLens/internal/domain/models"
	"MarketLens/internal/usecase"
	xhttp "MarketLens/pkg/http"
	xlogger "MarketLens/pkg/logger"
)

// DashboardEchoHandler serves the read-side endpoints: fundamentals, scores,
// sentiment, and the macro views.
type DashboardEchoHandler struct {
	logger       *xlogger.Logger
	fundamentals *usecase.Fundamentals
	scorer       *usecase.Scorer
	news         *usecase.NewsAggregator
	macro        *usecase.Macro
	analyzer     *usecase.MacroAnalyzer
	collector    *usecase.QuoteCollector
	started      time.Time
}

func NewDashboardEchoHandler(
	logger *xlogger.Logger,
	fundamentals *usecase.Fundamentals,
	scorer *usecase.Scorer,
	news *usecase.NewsAggregator,
	macro *usecase.Macro,
	analyzer *usecase.MacroAnalyzer,
	collector *usecase.QuoteCollector,
) *DashboardEchoHandler {
	return &DashboardEchoHandler{
		logger:       logger,
		fundamentals: fundamentals,
		scorer:       scorer,
		news:         news,
		macro:        macro,
		analyzer:     analyzer,
		collector:    collector,
		started:      time.Now(),
	}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/fundamentals/:symbol", h.Fundamentals)
	g.GET("/fundamentals/:symbol/score", h.Score)
	g.GET("/sentiment/:symbol", h.Sentiment)
	g.GET("/market/mood", h.Mood)
	g.GET("/macro", h.Macro)
	g.GET("/macro/analysis", h.MacroAnalysis)
	e.GET("/healthz", h.Health)
}

func (h *DashboardEchoHandler) Fundamentals(c echo.Context) error {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rec, err := h.fundamentals.Get(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("fundamentals usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("fundamentals for %s unavailable", req.Symbol).WithError(err))
	}
	return xhttp.SuccessResponse(c, rec)
}

func (h *DashboardEchoHandler) Score(c echo.Context) error {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	score, err := h.scorer.Get(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("score usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("score for %s unavailable", req.Symbol).WithError(err))
	}
	return xhttp.SuccessResponse(c, score)
}

func (h *DashboardEchoHandler) Sentiment(c echo.Context) error {
	req := &models.SentimentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sentiment, err := h.news.GetSymbolSentiment(c.Request().Context(), req.Symbol, req.Hours)
	if err != nil {
		h.logger.Error("sentiment usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("sentiment for %s unavailable", req.Symbol).WithError(err))
	}
	return xhttp.SuccessResponse(c, sentiment)
}

func (h *DashboardEchoHandler) Mood(c echo.Context) error {
	mood, err := h.macro.Mood(c.Request().Context())
	if err != nil {
		h.logger.Error("mood usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("market mood unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, mood)
}

func (h *DashboardEchoHandler) Macro(c echo.Context) error {
	snapshot, err := h.macro.Get(c.Request().Context())
	if err != nil {
		h.logger.Error("macro usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("macro snapshot unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, snapshot)
}

func (h *DashboardEchoHandler) MacroAnalysis(c echo.Context) error {
	analysis, err := h.analyzer.Get(c.Request().Context())
	if err != nil {
		h.logger.Error("macro analysis usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("macro analysis unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, analysis)
}

func (h *DashboardEchoHandler) Health(c echo.Context) error {
	streamConnected := false
	if h.collector != nil {
		streamConnected = h.collector.IsConnected()
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":          "ok",
		"uptimeSeconds":   int64(time.Since(h.started).Seconds()),
		"streamConnected": streamConnected,
	})
}
