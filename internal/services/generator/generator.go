// Package generator synthesises the dashboard's sample series when no store or
// upstream API can provide them. Output is deterministic for a given seed and
// reference day.
package generator

import (
    "context"
    "fmt"
    "math"
    "math/rand/v2"
    "time"

    "SmartBank/internal/domain/models"
    "SmartBank/internal/services/timeseries"

    "github.com/shopspring/decimal"
)

const (
    historyDays   = 180
    aucWeeks      = 104
    monthlyPoints = 13
    baseAUC       = 3.5e12
    baseIncome    = 950000.0
    baseCustomers = 1200
    dateLayout    = "2006-01-02"
    monthLayout   = "2006-01"
)

var (
    assetClasses    = []string{"Equity", "Fixed Income", "FX", "Fund", "Commodity"}
    assetBase       = []float64{40, 30, 20, 10, 5}
    quarterlyGrowth = []float64{1.02, 1.04, 0.99, 1.03}

    tradeTypes    = []string{"Buy", "Sell"}
    tradeStatuses = []string{"Completed", "Pending", "Processing", "Failed", "Cancelled"}
    customerNames = []string{"BlackRock", "Vanguard", "Fidelity", "State Street", "JPMorgan", "Goldman Sachs", "Morgan Stanley", "BNY Mellon", "PIMCO", "Capital Group"}
    exchanges     = []string{"NYSE", "NASDAQ", "LSE", "XETRA", "OTC"}
    assetNames    = map[string][]string{
        "Equity":       {"AAPL", "MSFT", "AMZN", "GOOGL", "META", "TSLA", "BRK.A", "V", "JPM", "JNJ"},
        "Fixed Income": {"US Treasury", "Corporate Bond", "Municipal Bond", "High Yield", "Mortgage-Backed"},
        "Fund":         {"Vanguard 500", "Fidelity Growth", "BlackRock Global", "State Street ETF", "PIMCO Income"},
        "FX":           {"EUR/USD", "USD/JPY", "GBP/USD", "USD/CHF", "USD/CAD"},
        "Commodity":    {"Gold", "Silver", "Crude Oil", "Natural Gas", "Corn"},
    }
)

// TradeSeedSize is the number of trades Trades produces.
const TradeSeedSize = 100

// Generator builds sample series ending on the reference day.
type Generator struct {
    now  func() time.Time
    seed uint64
}

// New creates a generator. A nil clock means time.Now.
func New(seed uint64, now func() time.Time) *Generator {
    if now == nil {
        now = time.Now
    }
    return &Generator{now: now, seed: seed}
}

func (g *Generator) Name() string { return "generator" }

// Fetch implements repository.SeriesSource.
func (g *Generator) Fetch(_ context.Context, desc models.SeriesDescriptor) (timeseries.Series, error) {
    records, err := g.Records(desc.Name)
    if err != nil {
        return nil, err
    }
    return timeseries.NormalizeSeries(records), nil
}

// Records returns the raw records of a series, shaped like the upstream API
// payload so they take the same normalisation path.
func (g *Generator) Records(name string) ([]map[string]any, error) {
    today := truncateDay(g.now())
    switch name {
    case models.SeriesTradingVolume:
        return project(g.tradeHistory(today), "trade_volume"), nil
    case models.SeriesTradeCount:
        return project(g.tradeHistory(today), "total_trades"), nil
    case models.SeriesIncomeHistory:
        return g.incomeHistory(today), nil
    case models.SeriesAUCHistory:
        return g.aucHistory(today), nil
    case models.SeriesTradesByAsset:
        return g.tradesByAsset(today), nil
    case models.SeriesCustomersMonthly:
        return g.customersMonthly(today), nil
    default:
        return nil, fmt.Errorf("generator: unknown series %q", name)
    }
}

func (g *Generator) rng(stream uint64) *rand.Rand {
    return rand.New(rand.NewPCG(g.seed, stream))
}

// tradeHistory yields daily {date, total_trades, trade_volume} with a slight
// upward trend and a yearly seasonal swing.
func (g *Generator) tradeHistory(today time.Time) []map[string]any {
    r := g.rng(1)
    out := make([]map[string]any, 0, historyDays)
    for i := 0; i < historyDays; i++ {
        d := today.AddDate(0, 0, -(historyDays - 1 - i))
        seasonal := 1 + 0.3*math.Sin(float64(d.YearDay())*math.Pi/180)
        baseTrades := 1000 + float64(i)*0.5
        baseVolume := 150e6 + float64(i)*50000
        out = append(out, map[string]any{
            "date":         d.Format(dateLayout),
            "total_trades": math.Round(baseTrades*seasonal + float64(r.IntN(200))),
            "trade_volume": math.Round(baseVolume*seasonal + float64(r.IntN(10_000_000))),
        })
    }
    return out
}

// tradesByAsset yields daily trade counts per asset class, each class with its
// own seasonality.
func (g *Generator) tradesByAsset(today time.Time) []map[string]any {
    r := g.rng(2)
    out := make([]map[string]any, 0, historyDays)
    for i := 0; i < historyDays; i++ {
        d := today.AddDate(0, 0, -(historyDays - 1 - i))
        doy := float64(d.YearDay())
        rec := map[string]any{"date": d.Format(dateLayout)}
        for k, asset := range assetClasses {
            var seasonal float64
            switch asset {
            case "Equity":
                seasonal = 1 + 0.4*math.Sin((doy+90)*math.Pi/180)
            case "Fixed Income":
                seasonal = 1 + 0.3*math.Sin((doy+180)*math.Pi/180)
            case "FX":
                seasonal = 1 + 0.5*math.Cos(doy*math.Pi/90)
            default:
                seasonal = 1 + 0.2*math.Sin(doy*math.Pi/120)
            }
            v := math.Round(assetBase[k]*seasonal + r.Float64()*8 - 4)
            rec[asset] = math.Max(0, v)
        }
        out = append(out, rec)
    }
    return out
}

// aucHistory yields two years of weekly custody totals and their split by
// asset class. Cash absorbs the remainder so the parts always sum to total.
func (g *Generator) aucHistory(today time.Time) []map[string]any {
    r := g.rng(3)
    start := today.AddDate(0, 0, -7*(aucWeeks-1))
    out := make([]map[string]any, 0, aucWeeks)
    for week := 0; week < aucWeeks; week++ {
        d := start.AddDate(0, 0, 7*week)
        quarterly := quarterlyGrowth[(week%52)/13]
        weekly := 1 + float64(week)*0.0015
        noise := 0.99 + r.Float64()*0.02
        event := 1.0
        if week%26 == 0 {
            event = 0.95 + r.Float64()*0.1
        }
        total := baseAUC * weekly * quarterly * noise * event

        progress := float64(week) / aucWeeks
        equities := total * (0.40 + progress*0.08) * (0.97 + r.Float64()*0.06)
        fixed := total * (0.40 - progress*0.06) * (0.97 + r.Float64()*0.06)
        alternative := total * (0.10 + progress*0.06) * (0.97 + r.Float64()*0.06)
        out = append(out, map[string]any{
            "date":               d.Format(dateLayout),
            "total":              total,
            "equities":           equities,
            "fixed_income":       fixed,
            "alternative_assets": alternative,
            "cash":               total - equities - fixed - alternative,
        })
    }
    return out
}

// incomeHistory yields month-end cumulative income.
func (g *Generator) incomeHistory(today time.Time) []map[string]any {
    r := g.rng(4)
    out := make([]map[string]any, 0, monthlyPoints)
    total := baseIncome
    for i := 0; i < monthlyPoints; i++ {
        d := monthEnd(today, i-(monthlyPoints-1))
        if i > 0 {
            total += 200000 + r.Float64()*350000
        }
        out = append(out, map[string]any{
            "date":  d.Format(dateLayout),
            "value": math.Round(total),
        })
    }
    return out
}

// customersMonthly yields the legacy month-keyed customer totals.
func (g *Generator) customersMonthly(today time.Time) []map[string]any {
    r := g.rng(5)
    out := make([]map[string]any, 0, monthlyPoints)
    total := baseCustomers
    for i := 0; i < monthlyPoints; i++ {
        d := monthEnd(today, i-(monthlyPoints-1))
        added := 1500 + r.IntN(400)
        if i > 0 {
            total += added
        }
        out = append(out, map[string]any{
            "month":           d.Format(monthLayout),
            "total_customers": total,
            "new_customers":   added,
        })
    }
    return out
}

// Trades yields the sample blotter: TradeSeedSize trades dated within the last
// 30 days. Completed trades settle two days after the trade date.
func (g *Generator) Trades() []models.Trade {
    r := g.rng(6)
    today := truncateDay(g.now())
    out := make([]models.Trade, 0, TradeSeedSize)
    for i := 0; i < TradeSeedSize; i++ {
        class := assetClasses[r.IntN(len(assetClasses))]
        names := assetNames[class]
        status := tradeStatuses[r.IntN(len(tradeStatuses))]
        tradeDate := today.AddDate(0, 0, -r.IntN(30)).Add(time.Duration(r.IntN(86400)) * time.Second)

        amount := decimal.New(int64(10000+r.IntN(990000)), -2)
        price := decimal.New(int64(100+r.IntN(99900)), -2)
        quantity := amount.Div(price).Round(4)

        t := models.Trade{
            TradeID:      fmt.Sprintf("T-%d", 100000+i),
            TradeDate:    tradeDate,
            CustomerID:   fmt.Sprintf("C-%d", 10000+r.IntN(100)),
            CustomerName: customerNames[r.IntN(len(customerNames))],
            AssetName:    names[r.IntN(len(names))],
            AssetClass:   class,
            Type:         tradeTypes[r.IntN(len(tradeTypes))],
            Amount:       amount,
            Quantity:     quantity,
            Price:        price,
            Status:       status,
            Exchange:     exchanges[r.IntN(len(exchanges))],
        }
        if status == "Completed" {
            settled := tradeDate.Add(48 * time.Hour)
            t.SettlementDate = &settled
            t.SettlementStatus = "Settled"
            t.SettlementLocation = "DTC"
        } else {
            t.SettlementStatus = "Unsettled"
        }
        out = append(out, t)
    }
    return out
}

func project(records []map[string]any, field string) []map[string]any {
    out := make([]map[string]any, len(records))
    for i, rec := range records {
        out[i] = map[string]any{"date": rec["date"], "value": rec[field]}
    }
    return out
}

func truncateDay(t time.Time) time.Time {
    y, m, d := t.UTC().Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// monthEnd returns the last day of the month offset months from t's month.
func monthEnd(t time.Time, offset int) time.Time {
    first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset+1, 0)
    return first.AddDate(0, 0, -1)
}
