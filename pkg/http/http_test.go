package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type rangeQuery struct {
	Name  string `param:"name" validate:"required"`
	Range string `query:"range" default:"all" validate:"max=16"`
	Limit int    `query:"limit" default:"50" validate:"gte=1,lte=500"`
}

func serve(t *testing.T, path string, h echo.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET(path, h)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestReadAndValidateRequestDefaults(t *testing.T) {
	var got rangeQuery
	rec := serve(t, "/s/:name", func(c echo.Context) error {
		if errs := ReadAndValidateRequest(c, &got); errs != nil {
			return BadRequestResponse(c, errs)
		}
		return SuccessResponse(c, got)
	}, "/s/trade_count")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if got.Name != "trade_count" || got.Range != "all" || got.Limit != 50 {
		t.Fatalf("unexpected bound request %+v", got)
	}
}

func TestReadAndValidateRequestErrors(t *testing.T) {
	rec := serve(t, "/s/:name", func(c echo.Context) error {
		var req rangeQuery
		if errs := ReadAndValidateRequest(c, &req); errs != nil {
			return BadRequestResponse(c, errs)
		}
		return SuccessResponse(c, req)
	}, "/s/x?limit=1000")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	var body struct {
		Status int               `json:"status"`
		Data   []ValidationError `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Code != "ERR_LTE" || body.Data[0].Field != "limit" {
		t.Fatalf("unexpected validation errors %+v", body.Data)
	}
}

func TestAppErrorResponse(t *testing.T) {
	rec := serve(t, "/x", func(c echo.Context) error {
		return AppErrorResponse(c, NotFoundErrorf("series %q not found", "nope"))
	}, "/x")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}

	rec = serve(t, "/y", func(c echo.Context) error {
		return AppErrorResponse(c, context.Canceled)
	}, "/y")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("plain errors map to 500, got %d", rec.Code)
	}
}

func TestClientGetJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("range") != "7d" || r.Header.Get("X-Api-Key") != "k" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	c := NewClient(WithHeader("X-Api-Key", "k"))
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.GetJSON(context.Background(), ts.URL, map[string][]string{"range": {"7d"}}, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !out.OK {
		t.Fatalf("expected ok")
	}
	if err := c.GetJSON(context.Background(), ts.URL, nil, &out); err == nil {
		t.Fatalf("expected status error")
	}
}

func TestParseOptionalTime(t *testing.T) {
	if v, ok := ParseOptionalTime(""); v != nil || !ok {
		t.Fatalf("empty input should be nil and ok")
	}
	if _, ok := ParseOptionalTime("garbage"); ok {
		t.Fatalf("expected failure")
	}
	if v, ok := ParseOptionalTime("2025-01-31"); !ok || v.Day() != 31 {
		t.Fatalf("expected parsed date")
	}
}

func TestParseOptionalEnd(t *testing.T) {
	v, ok := ParseOptionalEnd("2025-01-31")
	if !ok || v.Day() != 31 || v.Hour() != 23 || v.Minute() != 59 {
		t.Fatalf("plain date should cover the whole day, got %v", v)
	}
	v, ok = ParseOptionalEnd("2025-01-31T10:00:00Z")
	if !ok || v.Hour() != 10 {
		t.Fatalf("explicit time must be kept, got %v", v)
	}
	if v, ok := ParseOptionalEnd(""); v != nil || !ok {
		t.Fatalf("empty end should be nil")
	}
}
