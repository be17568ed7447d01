package api

import (
	"github.com/labstack/echo/v4"

	xhttp "MarketLens/pkg/http"
)

type routes struct {
	handlers []xhttp.Handler
}

// NewRoutes combines several handlers into the single Handler the server
// constructor accepts.
func NewRoutes(handlers ...xhttp.Handler) xhttp.Handler {
	return routes{handlers: handlers}
}

func (r routes) RegisterRoutes(e *echo.Echo) {
	for _, h := range r.handlers {
		h.RegisterRoutes(e)
	}
}
