package api

import (
	"io"

	"SmartBank/internal/domain/models"
	"SmartBank/internal/services/timeseries"
	"SmartBank/internal/usecase"
	xhttp "SmartBank/pkg/http"
	xlogger "SmartBank/pkg/logger"
	xutil "SmartBank/pkg/util"

	"github.com/labstack/echo/v4"
)

const maxIngestBytes = 10 << 20

// SeriesEchoHandler serves the series catalog, filtered series and the
// dashboard.
type SeriesEchoHandler struct {
	logger    *xlogger.Logger
	series    *usecase.SeriesUseCase
	dashboard *usecase.DashboardUseCase
}

func NewSeriesEchoHandler(logger *xlogger.Logger, series *usecase.SeriesUseCase, dashboard *usecase.DashboardUseCase) *SeriesEchoHandler {
	return &SeriesEchoHandler{logger: logger, series: series, dashboard: dashboard}
}

func (h *SeriesEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/series", h.Catalog)
	g.GET("/series/:name", h.Get)
	g.POST("/series/:name", h.Ingest)
	g.GET("/dashboard", h.Dashboard)
}

func (h *SeriesEchoHandler) Catalog(c echo.Context) error {
	cat := h.series.Catalog()
	return xhttp.ListResponse(c, cat, int64(len(cat)))
}

func (h *SeriesEchoHandler) Get(c echo.Context) error {
	req := &models.SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tok, policy, err := parseRange(req.Range, req.Start, req.End, req.OnEmpty)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	res, err := h.series.Get(c.Request().Context(), usecase.GetSeriesParams{
		Name:   req.Name,
		Token:  tok,
		Policy: policy,
		Fields: xutil.SplitList(req.Fields),
	})
	if err != nil {
		return h.fail(c, "series usecase error", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

// Ingest replaces a series with the JSON array of raw points in the body.
func (h *SeriesEchoHandler) Ingest(c echo.Context) error {
	name := c.Param("name")
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxIngestBytes+1))
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("cannot read body").WithError(err))
	}
	if len(body) > maxIngestBytes {
		return xhttp.AppErrorResponse(c, xhttp.PayloadTooLargeError("body exceeds 10MB"))
	}
	s, err := timeseries.DecodeSeries(body)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("body must be a JSON array of points").WithError(err))
	}

	n, err := h.series.Ingest(c.Request().Context(), name, s)
	if err != nil {
		return h.fail(c, "series ingest error", err)
	}
	return xhttp.CreatedResponse(c, map[string]interface{}{"series": name, "points": n})
}

func (h *SeriesEchoHandler) Dashboard(c echo.Context) error {
	req := &models.DashboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tok, policy, err := parseRange(req.Range, req.Start, req.End, req.OnEmpty)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	res, err := h.dashboard.Get(c.Request().Context(), usecase.GetDashboardParams{Token: tok, Policy: policy})
	if err != nil {
		return h.fail(c, "dashboard usecase error", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SeriesEchoHandler) fail(c echo.Context, msg string, err error) error {
	mapped := toAppError(err)
	if mapped == err {
		h.logger.Error(msg, xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, mapped)
}

// parseRange builds the range token of a request. The bounds are passed on
// even with a preset; the resolver drops them for a recognised one.
func parseRange(rng, start, end, onEmpty string) (timeseries.RangeToken, timeseries.EmptyResultPolicy, error) {
	s, ok := xhttp.ParseOptionalTime(start)
	if !ok {
		return timeseries.RangeToken{}, "", xhttp.BadRequestErrorf("invalid start %q", start).WithField("start")
	}
	e, ok := xhttp.ParseOptionalEnd(end)
	if !ok {
		return timeseries.RangeToken{}, "", xhttp.BadRequestErrorf("invalid end %q", end).WithField("end")
	}
	if s != nil && e != nil && s.After(*e) {
		return timeseries.RangeToken{}, "", xhttp.BadRequestError("start must not be after end").WithField("start")
	}

	var policy timeseries.EmptyResultPolicy
	if onEmpty != "" {
		p, err := timeseries.ParseEmptyResultPolicy(onEmpty, "")
		if err != nil {
			return timeseries.RangeToken{}, "", xhttp.BadRequestError(err.Error()).WithField("on_empty")
		}
		policy = p
	}
	return timeseries.RangeToken{Preset: rng, Start: s, End: e}, policy, nil
}
