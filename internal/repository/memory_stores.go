package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"SmartBank/internal/domain/models"
	domrepo "SmartBank/internal/domain/repository"
	"SmartBank/internal/services/timeseries"
)

// The memory stores back the service when Postgres or ClickHouse are not
// configured. They hold everything for the life of the process.

type MemoryNotificationStore struct {
	mu    sync.RWMutex
	items []models.Notification
	next  int64
	now   func() time.Time
}

func NewMemoryNotificationStore() *MemoryNotificationStore {
	return &MemoryNotificationStore{now: time.Now}
}

func (s *MemoryNotificationStore) List(_ context.Context, limit int) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		out = append(out, s.items[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryNotificationStore) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	n.ID = s.next
	n.CreatedAt = s.now().UTC()
	s.items = append(s.items, *n)
	return nil
}

func (s *MemoryNotificationStore) MarkRead(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = true
			return nil
		}
	}
	return domrepo.ErrNotFound
}

func (s *MemoryNotificationStore) MarkAllRead(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for i := range s.items {
		if !s.items[i].Read {
			s.items[i].Read = true
			n++
		}
	}
	return n, nil
}

type MemoryUploadStore struct {
	mu    sync.RWMutex
	items map[int64]models.Upload
	next  int64
	now   func() time.Time
}

func NewMemoryUploadStore() *MemoryUploadStore {
	return &MemoryUploadStore{items: make(map[int64]models.Upload), now: time.Now}
}

func (s *MemoryUploadStore) Create(_ context.Context, u *models.Upload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	u.ID = s.next
	u.UploadedAt = s.now().UTC()
	s.items[u.ID] = *u
	return nil
}

func (s *MemoryUploadStore) List(_ context.Context, limit, offset int) ([]models.UploadSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	if offset > len(ids) {
		offset = len(ids)
	}
	ids = ids[offset:]
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]models.UploadSummary, 0, len(ids))
	for _, id := range ids {
		u := s.items[id]
		out = append(out, models.UploadSummary{
			ID:         u.ID,
			FileName:   u.FileName,
			FileSize:   u.FileSize,
			FileType:   u.FileType,
			Metadata:   u.Metadata,
			Status:     u.Status,
			UploadedAt: u.UploadedAt,
		})
	}
	return out, nil
}

func (s *MemoryUploadStore) Get(_ context.Context, id int64) (*models.Upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.items[id]
	if !ok {
		return nil, domrepo.ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUploadStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domrepo.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

type MemoryTradeStore struct {
	mu     sync.RWMutex
	trades []models.Trade
}

func NewMemoryTradeStore() *MemoryTradeStore {
	return &MemoryTradeStore{}
}

func (s *MemoryTradeStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.trades)), nil
}

func (s *MemoryTradeStore) Insert(_ context.Context, trades []models.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = append(s.trades, trades...)
	return nil
}

func (s *MemoryTradeStore) Query(_ context.Context, f models.TradeFilter) (*models.TradePage, error) {
	f = normalizeTradeFilter(f)
	s.mu.RLock()
	all := make([]models.Trade, len(s.trades))
	copy(all, s.trades)
	s.mu.RUnlock()

	page := &models.TradePage{}
	byClass := make(map[string]*models.AssetClassSummary)
	matched := make([]models.Trade, 0, len(all))
	for _, t := range all {
		page.Stats.TotalTrades++
		page.Stats.TotalVolume = page.Stats.TotalVolume.Add(t.Amount)
		switch t.Status {
		case "Completed":
			page.Stats.CompletedTrades++
		case "Pending":
			page.Stats.PendingTrades++
		case "Processing":
			page.Stats.ProcessingTrades++
		}
		a, ok := byClass[t.AssetClass]
		if !ok {
			a = &models.AssetClassSummary{Label: t.AssetClass, Volume: decimal.Zero}
			byClass[t.AssetClass] = a
		}
		a.Count++
		a.Volume = a.Volume.Add(t.Amount)

		if (f.Status == "" || t.Status == f.Status) &&
			(f.AssetClass == "" || t.AssetClass == f.AssetClass) &&
			(f.CustomerID == "" || t.CustomerID == f.CustomerID) {
			matched = append(matched, t)
		}
	}

	desc := f.SortOrder == "DESC"
	sort.SliceStable(matched, func(i, j int) bool {
		c := compareTrades(matched[i], matched[j], f.SortBy)
		if desc {
			return c > 0
		}
		return c < 0
	})

	total := int64(len(matched))
	lo := min(f.Offset, len(matched))
	hi := min(lo+f.Limit, len(matched))
	page.Trades = matched[lo:hi]
	page.Pagination = models.Pagination{Total: total, Limit: f.Limit, Offset: f.Offset, Pages: pageCount(total, f.Limit)}

	for _, a := range byClass {
		page.AssetClasses = append(page.AssetClasses, *a)
	}
	sort.Slice(page.AssetClasses, func(i, j int) bool {
		if page.AssetClasses[i].Count != page.AssetClasses[j].Count {
			return page.AssetClasses[i].Count > page.AssetClasses[j].Count
		}
		return page.AssetClasses[i].Label < page.AssetClasses[j].Label
	})
	return page, nil
}

func compareTrades(a, b models.Trade, col string) int {
	switch col {
	case "trade_id":
		return strings.Compare(a.TradeID, b.TradeID)
	case "customer_name":
		return strings.Compare(a.CustomerName, b.CustomerName)
	case "type":
		return strings.Compare(a.Type, b.Type)
	case "asset_class":
		return strings.Compare(a.AssetClass, b.AssetClass)
	case "amount":
		return a.Amount.Cmp(b.Amount)
	case "status":
		return strings.Compare(a.Status, b.Status)
	default:
		return a.TradeDate.Compare(b.TradeDate)
	}
}

// MemorySeriesStore keeps ingested series in a map.
type MemorySeriesStore struct {
	mu     sync.RWMutex
	series map[string]timeseries.Series
}

func NewMemorySeriesStore() *MemorySeriesStore {
	return &MemorySeriesStore{series: make(map[string]timeseries.Series)}
}

func (s *MemorySeriesStore) Name() string { return "memory" }

func (s *MemorySeriesStore) Init(context.Context) error { return nil }

func (s *MemorySeriesStore) Fetch(_ context.Context, desc models.SeriesDescriptor) (timeseries.Series, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.series[desc.Name].Clone(), nil
}

func (s *MemorySeriesStore) Replace(_ context.Context, name string, series timeseries.Series) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(series) == 0 {
		delete(s.series, name)
		return nil
	}
	s.series[name] = series.Clone()
	return nil
}

func (s *MemorySeriesStore) Health(context.Context) error { return nil }

func (s *MemorySeriesStore) Close() error { return nil }
