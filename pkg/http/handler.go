package http

import "github.com/labstack/echo/v4"

// Handler is anything that can register its routes on the shared Echo
// instance.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
