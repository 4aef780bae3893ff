package usecase

import (
	"context"
	"sync"
	"time"

	"SmartBank/internal/domain/models"
	domrepo "SmartBank/internal/domain/repository"
	"SmartBank/internal/services/timeseries"

	"github.com/shopspring/decimal"
)

// DashboardUseCase assembles every catalog series under one range token
// together with the headline figures of the operations view.
type DashboardUseCase struct {
	series  *SeriesUseCase
	trades  domrepo.TradeStore
	timeout time.Duration
}

func NewDashboardUseCase(series *SeriesUseCase, trades domrepo.TradeStore) *DashboardUseCase {
	return &DashboardUseCase{series: series, trades: trades, timeout: 10 * time.Second}
}

type GetDashboardParams struct {
	Token  timeseries.RangeToken
	Policy timeseries.EmptyResultPolicy
}

// Headline holds the summary cards shown above the charts.
type Headline struct {
	TotalTrades     int64           `json:"total_trades"`
	PendingTrades   int64           `json:"pending_trades"`
	TotalVolume     decimal.Decimal `json:"total_volume"`
	AUCLatestTotal  float64         `json:"auc_latest_total"`
	AUCLatestDate   string          `json:"auc_latest_date,omitempty"`
	CustomersTotal  float64         `json:"customers_total"`
	IncomeLatest    float64         `json:"income_latest"`
	TradeVolumeLast float64         `json:"trade_volume_last"`
}

type Dashboard struct {
	Rule      string                 `json:"rule"`
	Series    map[string]*SeriesView `json:"series"`
	Headline  Headline               `json:"headline"`
	Timestamp time.Time              `json:"timestamp"`
	Errors    map[string]string      `json:"errors,omitempty"`
}

func (uc *DashboardUseCase) Get(ctx context.Context, p GetDashboardParams) (*Dashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	catalog := uc.series.Catalog()
	res := &Dashboard{
		Series:    make(map[string]*SeriesView, len(catalog)),
		Timestamp: time.Now().UTC(),
		Errors:    map[string]string{},
	}

	type item struct {
		name  string
		view  *SeriesView
		stats *models.TradeStats
		err   error
	}
	ch := make(chan item, len(catalog)+1)
	var wg sync.WaitGroup

	for _, desc := range catalog {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			v, err := uc.series.Get(ctx, GetSeriesParams{Name: name, Token: p.Token, Policy: p.Policy})
			ch <- item{name: name, view: v, err: err}
		}(desc.Name)
	}
	if uc.trades != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			page, err := uc.trades.Query(ctx, models.TradeFilter{Limit: 1})
			if err != nil {
				ch <- item{name: "trades", err: err}
				return
			}
			ch <- item{name: "trades", stats: &page.Stats}
		}()
	}

	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			res.Errors[it.name] = it.err.Error()
			continue
		}
		if it.stats != nil {
			res.Headline.TotalTrades = it.stats.TotalTrades
			res.Headline.PendingTrades = it.stats.PendingTrades
			res.Headline.TotalVolume = it.stats.TotalVolume
			continue
		}
		res.Series[it.name] = it.view
		if res.Rule == "" {
			res.Rule = it.view.Rule
		}
	}

	uc.headline(ctx, &res.Headline, res.Series)
	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res, nil
}

// headline reads the last point of each original series, so the cards do
// not move with the chart range.
func (uc *DashboardUseCase) headline(ctx context.Context, h *Headline, views map[string]*SeriesView) {
	latest := func(name, field string) (timeseries.TimePoint, float64, bool) {
		if _, ok := views[name]; !ok {
			return timeseries.TimePoint{}, 0, false
		}
		s, err := uc.series.Original(ctx, name)
		if err != nil {
			return timeseries.TimePoint{}, 0, false
		}
		p, ok := s.Last()
		if !ok {
			return timeseries.TimePoint{}, 0, false
		}
		f, ok := p.Field(field)
		return p, f, ok
	}
	if p, f, ok := latest(models.SeriesAUCHistory, "total"); ok {
		h.AUCLatestTotal = f
		h.AUCLatestDate = timeseries.PointLabel(p)
	}
	if _, f, ok := latest(models.SeriesCustomersMonthly, "total_customers"); ok {
		h.CustomersTotal = f
	}
	if _, f, ok := latest(models.SeriesIncomeHistory, timeseries.ValueField); ok {
		h.IncomeLatest = f
	}
	if _, f, ok := latest(models.SeriesTradingVolume, timeseries.ValueField); ok {
		h.TradeVolumeLast = f
	}
}
