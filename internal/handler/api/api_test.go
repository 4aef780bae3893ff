package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SmartBank/internal/domain/models"
	"SmartBank/internal/repository"
	"SmartBank/internal/service/ratelimit"
	"SmartBank/internal/services/generator"
	"SmartBank/internal/services/timeseries"
	"SmartBank/internal/usecase"
	"SmartBank/pkg/cache"
	xhttp "SmartBank/pkg/http"
	xlogger "SmartBank/pkg/logger"

	"github.com/labstack/echo/v4"
)

func fixedNow() time.Time { return time.Date(2025, 2, 27, 15, 30, 0, 0, time.UTC) }

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T, limiter *ratelimit.Limiter) *echo.Echo {
	t.Helper()
	l := xlogger.Nop()
	gen := generator.New(3, fixedNow)
	store := repository.NewMemorySeriesStore()
	mc := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	t.Cleanup(func() { _ = mc.Close() })

	filter := timeseries.NewFilter(timeseries.NewResolver(timeseries.WithClock(fixedNow)), timeseries.ShowAll)
	series := usecase.NewSeriesUseCase(repository.NewChainSource(store, gen), store, mc, filter, nil, l, time.Minute)
	trades := repository.NewMemoryTradeStore()
	tradeUC := usecase.NewTradeUseCase(trades, gen, l)
	if _, err := tradeUC.Seed(t.Context()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	notifications := usecase.NewNotificationUseCase(repository.NewMemoryNotificationStore(), nil, l, 0)
	uploads := usecase.NewUploadUseCase(repository.NewMemoryUploadStore(), series, usecase.NewLocalEventPublisher(notifications), nil, l)

	e := echo.New()
	xhttp.Handlers{
		NewHealthEchoHandler(usecase.NewHealthUseCase()),
		NewSeriesEchoHandler(l, series, usecase.NewDashboardUseCase(series, trades)),
		NewUploadEchoHandler(l, uploads, limiter, 0),
		NewNotificationEchoHandler(l, notifications),
		NewTradeEchoHandler(l, tradeUC),
	}.RegisterRoutes(e)
	return e
}

func do(t *testing.T, e *echo.Echo, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var env envelope
	if rec.Header().Get(echo.HeaderContentType) == echo.MIMEApplicationJSON || bytes.HasPrefix(rec.Body.Bytes(), []byte("{")) {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func get(t *testing.T, e *echo.Echo, target string) (*httptest.ResponseRecorder, envelope) {
	return do(t, e, httptest.NewRequest(http.MethodGet, target, nil))
}

func uploadRequest(t *testing.T, target, name, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write([]byte(content))
	_ = w.Close()
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestSeriesCatalog(t *testing.T) {
	e := newTestServer(t, nil)
	rec, env := get(t, e, "/api/series")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var list struct {
		Rows  []models.SeriesDescriptor `json:"rows"`
		Total int64                     `json:"total"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Total != int64(len(models.Catalog())) || list.Rows[0].Name != models.SeriesTradingVolume {
		t.Fatalf("unexpected catalog %+v", list)
	}
}

func TestSeriesGetPreset(t *testing.T) {
	e := newTestServer(t, nil)
	rec, env := get(t, e, "/api/series/trading_volume?range=7D")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var v usecase.SeriesView
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Rule != "last_n(7)" || len(v.Chart.Labels) != 7 || v.FallbackApplied {
		t.Fatalf("unexpected view rule=%s labels=%d", v.Rule, len(v.Chart.Labels))
	}
}

func TestSeriesGetEmptyWindowShowEmpty(t *testing.T) {
	e := newTestServer(t, nil)
	rec, env := get(t, e, "/api/series/auc_history?start=1990-01-01&end=1990-12-31&on_empty=show_empty")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var v usecase.SeriesView
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.RuleKind != "date_window" || v.Matched != 0 || len(v.Points) != 0 || v.Policy != "show_empty" {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestSeriesGetBadRequests(t *testing.T) {
	e := newTestServer(t, nil)
	for _, target := range []string{
		"/api/series/trading_volume?start=yesterday",
		"/api/series/trading_volume?on_empty=maybe",
		"/api/series/trading_volume?start=2025-02-01&end=2025-01-01",
		"/api/series/auc_history?fields=gold",
	} {
		if rec, _ := get(t, e, target); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", target, rec.Code)
		}
	}
	if rec, _ := get(t, e, "/api/series/unknown"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestSeriesIngestEndpoint(t *testing.T) {
	e := newTestServer(t, nil)
	body := bytes.NewBufferString(`[{"month":"2024-01","total_customers":10,"new_customers":10},{"month":"2024-02","total_customers":25,"new_customers":15}]`)
	req := httptest.NewRequest(http.MethodPost, "/api/series/customers_monthly", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if rec, _ := do(t, e, req); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	_, env := get(t, e, "/api/series/customers_monthly?range=ytd")
	var v usecase.SeriesView
	_ = json.Unmarshal(env.Data, &v)
	if !v.FallbackApplied || v.Total != 2 {
		t.Fatalf("2025 has no points, expected fallback over 2 points: %+v", v)
	}
	if v.Chart.Labels[0] != "2024-01-01" {
		t.Fatalf("legacy month should normalise to the first day, got %v", v.Chart.Labels)
	}
}

func TestSeriesWindowEndDateIsInclusive(t *testing.T) {
	e := newTestServer(t, nil)
	body := bytes.NewBufferString(`[{"date":"2025-01-31T15:00:00Z","value":2},{"date":"2025-02-01T09:00:00Z","value":3}]`)
	req := httptest.NewRequest(http.MethodPost, "/api/series/trading_volume", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if rec, _ := do(t, e, req); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	_, env := get(t, e, "/api/series/trading_volume?start=2025-01-01&end=2025-01-31&on_empty=show_empty")
	var v usecase.SeriesView
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Matched != 1 || len(v.Points) != 1 || v.Points[0].Value != 2 {
		t.Fatalf("afternoon of the end date should be selected: %+v", v)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	e := newTestServer(t, nil)
	rec, env := get(t, e, "/api/dashboard?range=90d")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var d usecase.Dashboard
	if err := json.Unmarshal(env.Data, &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(d.Series) != len(models.Catalog()) || d.Headline.TotalTrades != generator.TradeSeedSize {
		t.Fatalf("unexpected dashboard: %d series, headline %+v", len(d.Series), d.Headline)
	}
}

func TestUploadFlow(t *testing.T) {
	e := newTestServer(t, nil)
	rec, env := do(t, e, uploadRequest(t, "/api/upload", "q1.csv", "date,value\n2024-01-01,1\n\n2024-01-02,2\n"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var up struct {
		ID       int64  `json:"id"`
		DataKind string `json:"data_kind"`
		Rows     int    `json:"rows"`
	}
	_ = json.Unmarshal(env.Data, &up)
	if up.ID == 0 || up.DataKind != models.DataKindCSV || up.Rows != 2 {
		t.Fatalf("unexpected upload %+v", up)
	}

	rec, _ = get(t, e, "/api/download/1")
	if rec.Code != http.StatusOK || rec.Header().Get(echo.HeaderContentType) != "text/csv" {
		t.Fatalf("download: %d %s", rec.Code, rec.Header().Get(echo.HeaderContentType))
	}

	_, env = get(t, e, "/api/notifications")
	var list struct {
		Rows []models.Notification `json:"rows"`
	}
	_ = json.Unmarshal(env.Data, &list)
	if len(list.Rows) != 1 || list.Rows[0].Read {
		t.Fatalf("expected one unread notification, got %+v", list.Rows)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/notifications/read/all", nil)
	if rec, _ := do(t, e, req); rec.Code != http.StatusOK {
		t.Fatalf("mark all read: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/upload/1", nil)
	if rec, _ := do(t, e, req); rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec, _ := get(t, e, "/api/uploads/1"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	e := newTestServer(t, nil)
	rec, _ := do(t, e, uploadRequest(t, "/api/upload", "notes.txt", "hello"))
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415 got %d", rec.Code)
	}
}

func TestUploadRateLimited(t *testing.T) {
	e := newTestServer(t, ratelimit.New(1, 0.1))
	if rec, _ := do(t, e, uploadRequest(t, "/api/upload", "a.json", `{"a":1}`)); rec.Code != http.StatusOK {
		t.Fatalf("first upload: %d", rec.Code)
	}
	rec, _ := do(t, e, uploadRequest(t, "/api/upload", "b.json", `{"b":1}`))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After")
	}
}

func TestTradesEndpoint(t *testing.T) {
	e := newTestServer(t, nil)
	rec, env := get(t, e, "/api/trades?limit=5&sort_by=amount&sort_order=asc")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var page models.TradePage
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Trades) != 5 || page.Pagination.Pages != 20 {
		t.Fatalf("unexpected page: %d trades, %d pages", len(page.Trades), page.Pagination.Pages)
	}
	for i := 1; i < len(page.Trades); i++ {
		if page.Trades[i].Amount.LessThan(page.Trades[i-1].Amount) {
			t.Fatalf("trades not sorted by amount at %d", i)
		}
	}
	if rec, _ := get(t, e, "/api/trades?sort_by=password"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown sort column, got %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	var rep usecase.HealthReport
	_ = json.Unmarshal(rec.Body.Bytes(), &rep)
	if rec.Code != http.StatusOK || rep.Status != usecase.StatusHealthy {
		t.Fatalf("unexpected health %d %+v", rec.Code, rep)
	}
}
