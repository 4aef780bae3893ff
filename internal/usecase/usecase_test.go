package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"SmartBank/internal/domain/models"
	domrepo "SmartBank/internal/domain/repository"
	"SmartBank/internal/repository"
	"SmartBank/internal/services/generator"
	"SmartBank/internal/services/timeseries"
	"SmartBank/pkg/cache"
	pkgmetrics "SmartBank/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

func fixedNow() time.Time { return time.Date(2025, 2, 27, 15, 30, 0, 0, time.UTC) }

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (r *recordingNotifier) Broadcast(n models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type fixture struct {
	series        *SeriesUseCase
	store         *repository.MemorySeriesStore
	cache         *cache.MemoryCache
	gen           *generator.Generator
	trades        *repository.MemoryTradeStore
	notifications *NotificationUseCase
	notifier      *recordingNotifier
}

func newFixture(t *testing.T, policy timeseries.EmptyResultPolicy) *fixture {
	t.Helper()
	gen := generator.New(7, fixedNow)
	store := repository.NewMemorySeriesStore()
	mc := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	t.Cleanup(func() { _ = mc.Close() })

	rec := pkgmetrics.New(prometheus.NewRegistry())
	filter := timeseries.NewFilter(timeseries.NewResolver(timeseries.WithClock(fixedNow)), policy)
	src := repository.NewChainSource(store, gen)
	notifier := &recordingNotifier{}
	return &fixture{
		series:        NewSeriesUseCase(src, store, mc, filter, rec, nil, time.Minute),
		store:         store,
		cache:         mc,
		gen:           gen,
		trades:        repository.NewMemoryTradeStore(),
		notifications: NewNotificationUseCase(repository.NewMemoryNotificationStore(), notifier, nil, 0),
		notifier:      notifier,
	}
}

func TestSeriesGetLastSevenDays(t *testing.T) {
	f := newFixture(t, timeseries.ShowAll)
	v, err := f.series.Get(context.Background(), GetSeriesParams{
		Name:  models.SeriesTradingVolume,
		Token: timeseries.PresetToken("7d"),
	})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v.RuleKind != "last_n" || v.Matched != 7 || len(v.Points) != 7 {
		t.Fatalf("unexpected view: kind=%s matched=%d points=%d", v.RuleKind, v.Matched, len(v.Points))
	}
	if v.Total != 180 {
		t.Fatalf("expected the full series to have 180 points, got %d", v.Total)
	}
	if len(v.Chart.Labels) != 7 || v.Chart.Labels[6] != "2025-02-27" {
		t.Fatalf("unexpected labels %v", v.Chart.Labels)
	}
	if len(v.Chart.Datasets) != 1 || len(v.Chart.Datasets[0].Data) != 7 {
		t.Fatalf("unexpected datasets %+v", v.Chart.Datasets)
	}
}

func TestSeriesGetEmptyWindowPolicy(t *testing.T) {
	f := newFixture(t, timeseries.ShowAll)
	start := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(1990, 12, 31, 0, 0, 0, 0, time.UTC)
	tok := timeseries.WindowToken(&start, &end)

	v, err := f.series.Get(context.Background(), GetSeriesParams{Name: models.SeriesAUCHistory, Token: tok})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !v.FallbackApplied || v.Matched != 0 || len(v.Points) != v.Total {
		t.Fatalf("show_all should fall back to the original: %+v", v)
	}

	v, err = f.series.Get(context.Background(), GetSeriesParams{Name: models.SeriesAUCHistory, Token: tok, Policy: timeseries.ShowEmpty})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v.FallbackApplied || len(v.Points) != 0 || len(v.Chart.Labels) != 0 {
		t.Fatalf("show_empty should return nothing: %+v", v)
	}
}

func TestSeriesGetErrors(t *testing.T) {
	f := newFixture(t, timeseries.ShowAll)
	_, err := f.series.Get(context.Background(), GetSeriesParams{Name: "nope"})
	if !errors.Is(err, ErrSeriesNotFound) {
		t.Fatalf("expected ErrSeriesNotFound, got %v", err)
	}
	_, err = f.series.Get(context.Background(), GetSeriesParams{Name: models.SeriesAUCHistory, Fields: []string{"gold"}})
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestSeriesIngestReplacesCachedOriginal(t *testing.T) {
	f := newFixture(t, timeseries.ShowAll)
	ctx := context.Background()
	if _, err := f.series.Original(ctx, models.SeriesIncomeHistory); err != nil {
		t.Fatalf("original: %v", err)
	}

	ingested := timeseries.NormalizeSeries([]map[string]any{
		{"date": "2024-01-31", "value": 10.0},
		{"date": "2024-02-29", "value": 20.0},
	})
	n, err := f.series.Ingest(ctx, models.SeriesIncomeHistory, ingested)
	if err != nil || n != 2 {
		t.Fatalf("ingest: n=%d err=%v", n, err)
	}

	v, err := f.series.Get(ctx, GetSeriesParams{Name: models.SeriesIncomeHistory, Token: timeseries.PresetToken("all")})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v.Total != 2 || v.Points[1].Value != 20 {
		t.Fatalf("expected ingested points to be served, got %+v", v.Points)
	}
}

func TestSeriesIngestRejectsConcurrentIngest(t *testing.T) {
	f := newFixture(t, timeseries.ShowAll)
	ctx := context.Background()
	ok, err := f.cache.TryLock(ctx, cache.GenerateKey(seriesLockPrefix, models.SeriesTradeCount), time.Minute)
	if err != nil || !ok {
		t.Fatalf("lock: ok=%v err=%v", ok, err)
	}
	_, err = f.series.Ingest(ctx, models.SeriesTradeCount, timeseries.Series{{Value: 1}})
	if !errors.Is(err, ErrIngestInProgress) {
		t.Fatalf("expected ErrIngestInProgress, got %v", err)
	}
}

func TestDashboardAppliesOneTokenToEverySeries(t *testing.T) {
	f := newFixture(t, timeseries.ShowAll)
	ctx := context.Background()
	trades := NewTradeUseCase(f.trades, f.gen, nil)
	if n, err := trades.Seed(ctx); err != nil || n != generator.TradeSeedSize {
		t.Fatalf("seed: n=%d err=%v", n, err)
	}

	d, err := NewDashboardUseCase(f.series, f.trades).Get(ctx, GetDashboardParams{Token: timeseries.PresetToken("30d")})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(d.Series) != len(models.Catalog()) {
		t.Fatalf("expected every series, got %d (errors %v)", len(d.Series), d.Errors)
	}
	if d.Rule != "last_n(30)" {
		t.Fatalf("unexpected rule %q", d.Rule)
	}
	for name, v := range d.Series {
		if v.Total >= 30 && len(v.Points) != 30 {
			t.Fatalf("%s: expected 30 points, got %d", name, len(v.Points))
		}
	}
	if d.Headline.TotalTrades != int64(generator.TradeSeedSize) {
		t.Fatalf("unexpected total trades %d", d.Headline.TotalTrades)
	}
	if d.Headline.AUCLatestTotal <= 0 || d.Headline.AUCLatestDate != "2025-02-27" {
		t.Fatalf("unexpected AUC headline %+v", d.Headline)
	}
}

func TestTradeSeedIsIdempotent(t *testing.T) {
	f := newFixture(t, timeseries.ShowAll)
	uc := NewTradeUseCase(f.trades, f.gen, nil)
	ctx := context.Background()
	if _, err := uc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	n, err := uc.Seed(ctx)
	if err != nil || n != 0 {
		t.Fatalf("second seed should be a no-op: n=%d err=%v", n, err)
	}
	page, err := uc.Query(ctx, models.TradeFilter{Limit: 10, SortBy: "amount", SortOrder: "desc"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(page.Trades) != 10 || page.Pagination.Total != int64(generator.TradeSeedSize) {
		t.Fatalf("unexpected page: %d trades, total %d", len(page.Trades), page.Pagination.Total)
	}
}

func TestUploadIngestsAndNotifies(t *testing.T) {
	f := newFixture(t, timeseries.ShowAll)
	ctx := context.Background()
	uploads := NewUploadUseCase(repository.NewMemoryUploadStore(), f.series, NewLocalEventPublisher(f.notifications), nil, nil)

	body := []byte(`[{"date":"2024-01-31","value":1},{"date":"2024-02-29","value":2},{"date":"2024-03-31","value":3}]`)
	u, err := uploads.Upload(ctx, UploadParams{FileName: "income.json", Content: body, Series: models.SeriesIncomeHistory})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if u.ID == 0 || u.Metadata.DataKind != models.DataKindTimeSeries || u.Metadata.Ingested != 3 {
		t.Fatalf("unexpected upload %+v", u)
	}

	orig, err := f.series.Original(ctx, models.SeriesIncomeHistory)
	if err != nil || len(orig) != 3 {
		t.Fatalf("expected ingested series, got %d points err=%v", len(orig), err)
	}

	list, err := f.notifications.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one notification, got %d err=%v", len(list), err)
	}
	if list[0].Category != models.CategoryDataUploads || list[0].Time != "Just now" {
		t.Fatalf("unexpected notification %+v", list[0])
	}
	if f.notifier.count() != 1 {
		t.Fatalf("expected a broadcast")
	}

	_, ct, out, err := uploads.Download(ctx, u.ID)
	if err != nil || ct != "application/json" || len(out) == 0 {
		t.Fatalf("download: ct=%s err=%v", ct, err)
	}
	if err := uploads.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := uploads.Get(ctx, u.ID); !errors.Is(err, ErrUploadNotFound) {
		t.Fatalf("expected ErrUploadNotFound, got %v", err)
	}
}

func TestUploadRejectsUndatedSeriesIngest(t *testing.T) {
	f := newFixture(t, timeseries.ShowAll)
	uploads := NewUploadUseCase(repository.NewMemoryUploadStore(), f.series, nil, nil, nil)
	_, err := uploads.Upload(context.Background(), UploadParams{
		FileName: "records.json",
		Content:  []byte(`[{"a":1}]`),
		Series:   models.SeriesIncomeHistory,
	})
	if !errors.Is(err, ErrNotTimeSeries) {
		t.Fatalf("expected ErrNotTimeSeries, got %v", err)
	}
}

func TestUploadEventHandler(t *testing.T) {
	f := newFixture(t, timeseries.ShowAll)
	h := NewUploadEventHandler("smartbank.uploads", f.notifications, nil)
	ctx := context.Background()

	if err := h.Handle(ctx, []byte(`{`)); err == nil {
		t.Fatalf("expected decode error")
	}
	if err := h.Handle(ctx, []byte(`{"type":"series.ingested","file_name":"x.json"}`)); err != nil {
		t.Fatalf("other event types are ignored: %v", err)
	}
	if err := h.Job().Handle(ctx, []byte(`{"event_id":"e1","type":"upload.processed","file_name":"q1.csv"}`)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	list, _ := f.notifications.List(ctx)
	if len(list) != 1 || list[0].Message != `File "q1.csv" successfully uploaded and processed` {
		t.Fatalf("unexpected notifications %+v", list)
	}
}

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                 { return s.name }
func (s stubChecker) Health(context.Context) error { return s.err }

func TestHealth(t *testing.T) {
	rep := NewHealthUseCase(stubChecker{name: "postgres"}).Check(context.Background())
	if rep.Status != StatusHealthy || rep.Checks["postgres"] != "ok" {
		t.Fatalf("unexpected report %+v", rep)
	}
	var checkers []domrepo.HealthChecker
	checkers = append(checkers, stubChecker{name: "postgres"}, stubChecker{name: "clickhouse", err: errors.New("down")})
	rep = NewHealthUseCase(checkers...).Check(context.Background())
	if rep.Status != StatusUnhealthy || rep.Database != "disconnected" {
		t.Fatalf("unexpected report %+v", rep)
	}
}
