package models

import "time"

// Series names served by the dashboard.
const (
	SeriesTradingVolume    = "trading_volume"
	SeriesTradeCount       = "trade_count"
	SeriesIncomeHistory    = "income_history"
	SeriesAUCHistory       = "auc_history"
	SeriesTradesByAsset    = "trades_by_asset"
	SeriesCustomersMonthly = "customers_monthly"
)

// Granularity of a series' points.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// SeriesDescriptor describes one entry of the series catalog.
type SeriesDescriptor struct {
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	Granularity Granularity `json:"granularity"`
	Fields      []string    `json:"fields"`
	// Remote lists where the series may sit in the remote dashboard payload,
	// tried in order.
	Remote []RemoteKey `json:"-"`
}

// RemoteKey locates a series in the remote dashboard payload. Path is a
// dotted path through nested objects (assetsUnderCustody.history). When From
// is set only that record field is kept, renamed to To.
type RemoteKey struct {
	Path string
	From string
	To   string
}

var catalog = []SeriesDescriptor{
	{
		Name: SeriesTradingVolume, Title: "Trading Volume", Granularity: Daily, Fields: []string{"value"},
		Remote: []RemoteKey{
			{Path: "tradingVolumeHistory"},
			{Path: "trade_monthly", From: "trade_volume", To: "value"},
		},
	},
	{
		Name: SeriesTradeCount, Title: "Trade Count", Granularity: Daily, Fields: []string{"value"},
		Remote: []RemoteKey{{Path: "trade_monthly", From: "total_trades", To: "value"}},
	},
	{
		Name: SeriesIncomeHistory, Title: "Income", Granularity: Monthly, Fields: []string{"value"},
		Remote: []RemoteKey{{Path: "income_monthly", From: "total_income", To: "value"}},
	},
	{
		Name: SeriesAUCHistory, Title: "Assets Under Custody", Granularity: Weekly,
		Fields: []string{"total", "equities", "fixed_income", "alternative_assets", "cash"},
		Remote: []RemoteKey{
			{Path: "auc_history"},
			{Path: "assetsUnderCustody.history", From: "value", To: "total"},
		},
	},
	{
		Name: SeriesTradesByAsset, Title: "Trades by Asset Class", Granularity: Daily,
		Fields: []string{"Equity", "Fixed Income", "FX", "Fund", "Commodity"},
		Remote: []RemoteKey{{Path: "trades_by_asset_history"}},
	},
	{
		Name: SeriesCustomersMonthly, Title: "Customers", Granularity: Monthly,
		Fields: []string{"total_customers", "new_customers"},
		Remote: []RemoteKey{{Path: "customers_monthly"}},
	},
}

// Catalog returns every known series in display order.
func Catalog() []SeriesDescriptor {
	out := make([]SeriesDescriptor, len(catalog))
	copy(out, catalog)
	return out
}

// LookupSeries finds a series by name.
func LookupSeries(name string) (SeriesDescriptor, bool) {
	for _, d := range catalog {
		if d.Name == name {
			return d, true
		}
	}
	return SeriesDescriptor{}, false
}

// SeriesRow is the storage form of one field of one point.
type SeriesRow struct {
	Series string
	Seq    uint32
	TS     *time.Time
	Label  string
	Field  string
	Value  float64
}
