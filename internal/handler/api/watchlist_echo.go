package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	models "MarketLens/internal/domain/models"
	"MarketLens/internal/usecase"
	xhttp "MarketLens/pkg/http"
	xlogger "MarketLens/pkg/logger"
)

// WatchlistEchoHandler serves the watchlist CRUD surface.
type WatchlistEchoHandler struct {
	logger     *xlogger.Logger
	watchlists *usecase.Watchlists
}

func NewWatchlistEchoHandler(logger *xlogger.Logger, watchlists *usecase.Watchlists) *WatchlistEchoHandler {
	return &WatchlistEchoHandler{logger: logger, watchlists: watchlists}
}

func (h *WatchlistEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/watchlists")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/current", h.Current)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)
	g.PUT("/:id/current", h.SetCurrent)
	g.POST("/:id/symbols", h.AddSymbols)
	g.DELETE("/:id/symbols", h.RemoveSymbols)
	g.POST("/:id/duplicate", h.Duplicate)
}

func (h *WatchlistEchoHandler) List(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.watchlists.List())
}

func (h *WatchlistEchoHandler) Create(c echo.Context) error {
	req := &models.CreateWatchlistRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	wl, err := h.watchlists.Create(req.Name, req.Symbols)
	if err != nil {
		h.logger.Error("watchlist create error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}
	return xhttp.CreatedResponse(c, wl)
}

func (h *WatchlistEchoHandler) Current(c echo.Context) error {
	wl, err := h.watchlists.Current()
	if err != nil {
		return h.notFoundOrError(c, err)
	}
	return xhttp.SuccessResponse(c, wl)
}

func (h *WatchlistEchoHandler) Get(c echo.Context) error {
	req := &models.WatchlistIDRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	wl, err := h.watchlists.Get(req.ID)
	if err != nil {
		return h.notFoundOrError(c, err)
	}
	return xhttp.SuccessResponse(c, wl)
}

func (h *WatchlistEchoHandler) Delete(c echo.Context) error {
	req := &models.WatchlistIDRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.watchlists.Delete(req.ID); err != nil {
		return h.notFoundOrError(c, err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *WatchlistEchoHandler) SetCurrent(c echo.Context) error {
	req := &models.WatchlistIDRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.watchlists.SetCurrent(req.ID); err != nil {
		return h.notFoundOrError(c, err)
	}
	wl, err := h.watchlists.Current()
	if err != nil {
		return h.notFoundOrError(c, err)
	}
	return xhttp.SuccessResponse(c, wl)
}

func (h *WatchlistEchoHandler) AddSymbols(c echo.Context) error {
	req := &models.WatchlistSymbolsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	wl, err := h.watchlists.AddSymbols(req.ID, req.Symbols)
	if err != nil {
		return h.notFoundOrError(c, err)
	}
	return xhttp.SuccessResponse(c, wl)
}

func (h *WatchlistEchoHandler) RemoveSymbols(c echo.Context) error {
	req := &models.WatchlistSymbolsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	wl, err := h.watchlists.RemoveSymbols(req.ID, req.Symbols)
	if err != nil {
		return h.notFoundOrError(c, err)
	}
	return xhttp.SuccessResponse(c, wl)
}

func (h *WatchlistEchoHandler) Duplicate(c echo.Context) error {
	req := &models.DuplicateWatchlistRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	wl, err := h.watchlists.Duplicate(req.ID, req.Name)
	if err != nil {
		return h.notFoundOrError(c, err)
	}
	return xhttp.CreatedResponse(c, wl)
}

func (h *WatchlistEchoHandler) notFoundOrError(c echo.Context, err error) error {
	if errors.Is(err, usecase.ErrWatchlistNotFound) {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()))
	}
	h.logger.Error("watchlist usecase error", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, xhttp.InternalError("watchlist operation failed").WithError(err))
}
