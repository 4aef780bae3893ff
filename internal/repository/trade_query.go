package repository

import (
	"fmt"
	"strings"

	"SmartBank/internal/domain/models"
)

// Sortable trade columns. Anything else falls back to trade_date.
var tradeSortColumns = map[string]string{
	"trade_id":      "trade_id",
	"customer_name": "customer_name",
	"type":          "type",
	"asset_class":   "asset_class",
	"amount":        "amount",
	"status":        "status",
	"trade_date":    "trade_date",
}

const (
	defaultTradeLimit = 50
	maxTradeLimit     = 500
)

// normalizeTradeFilter clamps paging and resolves sorting against the whitelist.
func normalizeTradeFilter(f models.TradeFilter) models.TradeFilter {
	if f.Limit <= 0 {
		f.Limit = defaultTradeLimit
	}
	if f.Limit > maxTradeLimit {
		f.Limit = maxTradeLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	col, ok := tradeSortColumns[strings.ToLower(f.SortBy)]
	if !ok {
		col = "trade_date"
	}
	f.SortBy = col
	if strings.EqualFold(f.SortOrder, "asc") {
		f.SortOrder = "ASC"
	} else {
		f.SortOrder = "DESC"
	}
	return f
}

// tradeWhere builds the filter clause with $n placeholders.
func tradeWhere(f models.TradeFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(col, v string) {
		if v == "" {
			return
		}
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("status", f.Status)
	add("asset_class", f.AssetClass)
	add("customer_id", f.CustomerID)
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildTradeQuery returns the page query and the matching count query.
func buildTradeQuery(f models.TradeFilter) (page string, pageArgs []any, count string, countArgs []any) {
	f = normalizeTradeFilter(f)
	where, args := tradeWhere(f)
	count = "SELECT COUNT(*) FROM trade_data" + where
	countArgs = append([]any(nil), args...)

	page = fmt.Sprintf(`SELECT trade_id, trade_date, customer_id, customer_name, asset_name, asset_class, type,
        amount, COALESCE(quantity, 0), COALESCE(price, 0), status, settlement_date,
        COALESCE(settlement_status, ''), COALESCE(exchange, ''), COALESCE(settlement_location, '')
        FROM trade_data%s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d`,
		where, f.SortBy, f.SortOrder, len(args)+1, len(args)+2)
	pageArgs = append(args, f.Limit, f.Offset)
	return page, pageArgs, count, countArgs
}

func pageCount(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
