package repository

import (
	"strings"
	"testing"

	"SmartBank/internal/domain/models"
)

func TestBuildTradeQueryDefaults(t *testing.T) {
	page, args, count, cargs := buildTradeQuery(models.TradeFilter{})
	if !strings.Contains(page, "ORDER BY trade_date DESC") {
		t.Fatalf("default sort should be trade_date desc: %s", page)
	}
	if !strings.Contains(page, "LIMIT $1 OFFSET $2") {
		t.Fatalf("unexpected placeholders: %s", page)
	}
	if len(args) != 2 || args[0] != 50 || args[1] != 0 {
		t.Fatalf("unexpected args %v", args)
	}
	if count != "SELECT COUNT(*) FROM trade_data" || len(cargs) != 0 {
		t.Fatalf("unexpected count query %q %v", count, cargs)
	}
}

func TestBuildTradeQueryFiltersAndWhitelist(t *testing.T) {
	page, args, count, cargs := buildTradeQuery(models.TradeFilter{
		Status:     "Pending",
		AssetClass: "FX",
		SortBy:     "amount; DROP TABLE trade_data",
		SortOrder:  "asc",
		Limit:      10000,
		Offset:     20,
	})
	if !strings.Contains(page, "WHERE status = $1 AND asset_class = $2") {
		t.Fatalf("missing filters: %s", page)
	}
	if !strings.Contains(page, "ORDER BY trade_date ASC") {
		t.Fatalf("unknown sort column must fall back: %s", page)
	}
	if strings.Contains(page, "DROP") {
		t.Fatalf("sort input leaked into sql: %s", page)
	}
	if args[2] != maxTradeLimit || args[3] != 20 {
		t.Fatalf("limit should be clamped, got %v", args)
	}
	if !strings.Contains(count, "WHERE status = $1 AND asset_class = $2") || len(cargs) != 2 {
		t.Fatalf("count must share the filter: %q %v", count, cargs)
	}
}

func TestPageCount(t *testing.T) {
	if pageCount(101, 50) != 3 || pageCount(100, 50) != 2 || pageCount(0, 50) != 0 {
		t.Fatalf("unexpected page counts")
	}
}
