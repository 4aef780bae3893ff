package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Trade struct {
	TradeID            string          `json:"trade_id"`
	TradeDate          time.Time       `json:"trade_date"`
	CustomerID         string          `json:"customer_id"`
	CustomerName       string          `json:"customer_name"`
	AssetName          string          `json:"asset_name"`
	AssetClass         string          `json:"asset_class"`
	Type               string          `json:"type"`
	Amount             decimal.Decimal `json:"amount"`
	Quantity           decimal.Decimal `json:"quantity"`
	Price              decimal.Decimal `json:"price"`
	Status             string          `json:"status"`
	SettlementDate     *time.Time      `json:"settlement_date,omitempty"`
	SettlementStatus   string          `json:"settlement_status,omitempty"`
	Exchange           string          `json:"exchange,omitempty"`
	SettlementLocation string          `json:"settlement_location,omitempty"`
}

type TradeFilter struct {
	Status     string
	AssetClass string
	CustomerID string
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}

type TradeStats struct {
	TotalTrades      int64           `json:"total_trades"`
	CompletedTrades  int64           `json:"completed_trades"`
	PendingTrades    int64           `json:"pending_trades"`
	ProcessingTrades int64           `json:"processing_trades"`
	TotalVolume      decimal.Decimal `json:"total_volume"`
}

type AssetClassSummary struct {
	Label  string          `json:"label"`
	Count  int64           `json:"count"`
	Volume decimal.Decimal `json:"volume"`
}

type Pagination struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Pages  int64 `json:"pages"`
}

type TradePage struct {
	Trades       []Trade             `json:"trades"`
	Pagination   Pagination          `json:"pagination"`
	Stats        TradeStats          `json:"stats"`
	AssetClasses []AssetClassSummary `json:"asset_classes"`
}
