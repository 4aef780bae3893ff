package api

import (
	"SmartBank/internal/domain/models"
	"SmartBank/internal/usecase"
	xhttp "SmartBank/pkg/http"
	xlogger "SmartBank/pkg/logger"

	"github.com/labstack/echo/v4"
)

type TradeEchoHandler struct {
	logger *xlogger.Logger
	trades *usecase.TradeUseCase
}

func NewTradeEchoHandler(logger *xlogger.Logger, trades *usecase.TradeUseCase) *TradeEchoHandler {
	return &TradeEchoHandler{logger: logger, trades: trades}
}

func (h *TradeEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/trades", h.List)
}

func (h *TradeEchoHandler) List(c echo.Context) error {
	req := &models.TradesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	page, err := h.trades.Query(c.Request().Context(), models.TradeFilter{
		Status:     req.Status,
		AssetClass: req.AssetClass,
		CustomerID: req.CustomerID,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		h.logger.Error("trades usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, page)
}
