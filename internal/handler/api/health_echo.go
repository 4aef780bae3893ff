package api

import (
	"net/http"

	"SmartBank/internal/usecase"

	"github.com/labstack/echo/v4"
)

type HealthEchoHandler struct {
	health *usecase.HealthUseCase
}

func NewHealthEchoHandler(health *usecase.HealthUseCase) *HealthEchoHandler {
	return &HealthEchoHandler{health: health}
}

func (h *HealthEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/health", h.Health)
}

// Health answers with the bare report, outside the response envelope, so
// load balancers can read it directly.
func (h *HealthEchoHandler) Health(c echo.Context) error {
	rep := h.health.Check(c.Request().Context())
	code := http.StatusOK
	if rep.Status != usecase.StatusHealthy {
		code = http.StatusInternalServerError
	}
	return c.JSON(code, rep)
}
