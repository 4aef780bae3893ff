package api

import (
	"SmartBank/internal/domain/models"
	"SmartBank/internal/usecase"
	xhttp "SmartBank/pkg/http"
	xlogger "SmartBank/pkg/logger"

	"github.com/labstack/echo/v4"
)

type NotificationEchoHandler struct {
	logger        *xlogger.Logger
	notifications *usecase.NotificationUseCase
}

func NewNotificationEchoHandler(logger *xlogger.Logger, n *usecase.NotificationUseCase) *NotificationEchoHandler {
	return &NotificationEchoHandler{logger: logger, notifications: n}
}

func (h *NotificationEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/notifications", h.List)
	g.PUT("/notifications/read/all", h.MarkAllRead)
	g.PUT("/notifications/:id/read", h.MarkRead)
}

func (h *NotificationEchoHandler) List(c echo.Context) error {
	rows, err := h.notifications.List(c.Request().Context())
	if err != nil {
		h.logger.Error("notification list error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *NotificationEchoHandler) MarkRead(c echo.Context) error {
	req := &models.IDRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.notifications.MarkRead(c.Request().Context(), req.ID); err != nil {
		mapped := toAppError(err)
		if mapped == err {
			h.logger.Error("notification mark read error", xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, mapped)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{"id": req.ID, "read": true})
}

func (h *NotificationEchoHandler) MarkAllRead(c echo.Context) error {
	n, err := h.notifications.MarkAllRead(c.Request().Context())
	if err != nil {
		h.logger.Error("notification mark all read error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{"updated": n})
}
