package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SmartBank/internal/domain/models"
	domrepo "SmartBank/internal/domain/repository"
	"SmartBank/internal/services/timeseries"
	"SmartBank/pkg/cache"
	applogger "SmartBank/pkg/logger"
)

const (
	seriesCachePrefix = "series"
	seriesLockPrefix  = "series_lock"
)

var (
	ErrSeriesNotFound   = errors.New("series not found")
	ErrIngestInProgress = errors.New("ingest already in progress for series")
	ErrIngestDisabled   = errors.New("no series store configured")
	ErrUnknownField     = errors.New("unknown series field")
)

// SeriesUseCase serves catalog series filtered by a range token.
type SeriesUseCase struct {
	source  domrepo.SeriesSource
	store   domrepo.SeriesStore
	cache   cache.Service
	filter  *timeseries.Filter
	metrics domrepo.Metrics
	l       *applogger.Logger
	ttl     time.Duration
}

func NewSeriesUseCase(source domrepo.SeriesSource, store domrepo.SeriesStore, c cache.Service, filter *timeseries.Filter, metrics domrepo.Metrics, l *applogger.Logger, ttl time.Duration) *SeriesUseCase {
	if filter == nil {
		filter = timeseries.NewFilter(nil, timeseries.ShowAll)
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &SeriesUseCase{source: source, store: store, cache: c, filter: filter, metrics: metrics, l: l, ttl: ttl}
}

// GetSeriesParams selects a series and a window of it.
type GetSeriesParams struct {
	Name   string
	Token  timeseries.RangeToken
	Policy timeseries.EmptyResultPolicy
	Fields []string
}

// SeriesView is a filtered series together with its chart projection.
type SeriesView struct {
	Series          models.SeriesDescriptor `json:"series"`
	Rule            string                  `json:"rule"`
	RuleKind        string                  `json:"rule_kind"`
	Policy          string                  `json:"policy"`
	Total           int                     `json:"total"`
	Matched         int                     `json:"matched"`
	FallbackApplied bool                    `json:"fallback_applied"`
	Points          timeseries.Series       `json:"points"`
	Chart           timeseries.Chart        `json:"chart"`
}

// Catalog lists every series that can be requested.
func (uc *SeriesUseCase) Catalog() []models.SeriesDescriptor {
	return models.Catalog()
}

// Original returns the full, unfiltered series, cached for the configured TTL.
func (uc *SeriesUseCase) Original(ctx context.Context, name string) (timeseries.Series, error) {
	desc, ok := models.LookupSeries(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSeriesNotFound, name)
	}
	key := cache.GenerateKey(seriesCachePrefix, name)
	if uc.cache != nil {
		if s, err := cache.GetTyped[timeseries.Series](ctx, uc.cache, key); err == nil {
			return s, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			uc.l.Warn("series cache read failed", applogger.String("series", name), applogger.Error(err))
		}
	}

	start := time.Now()
	s, err := uc.source.Fetch(ctx, desc)
	if uc.metrics != nil {
		uc.metrics.RecordLatency("series_fetch", time.Since(start).Seconds())
	}
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.RecordError("series_fetch")
		}
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}

	if uc.cache != nil && uc.ttl > 0 {
		if err := uc.cache.Set(ctx, key, s, uc.ttl); err != nil {
			uc.l.Warn("series cache write failed", applogger.String("series", name), applogger.Error(err))
		}
	}
	return s, nil
}

// Get runs the named series through the selection pipeline and projects it.
func (uc *SeriesUseCase) Get(ctx context.Context, p GetSeriesParams) (*SeriesView, error) {
	desc, ok := models.LookupSeries(p.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSeriesNotFound, p.Name)
	}
	if err := checkFields(desc, p.Fields); err != nil {
		return nil, err
	}
	original, err := uc.Original(ctx, p.Name)
	if err != nil {
		return nil, err
	}
	return uc.view(desc, original, p), nil
}

func (uc *SeriesUseCase) view(desc models.SeriesDescriptor, original timeseries.Series, p GetSeriesParams) *SeriesView {
	policy := p.Policy
	if policy == "" {
		policy = uc.filter.Policy()
	}
	res := uc.filter.ApplyWithPolicy(original, p.Token, policy)
	if uc.metrics != nil {
		uc.metrics.RecordFilter(desc.Name, res.Rule.Kind)
		if res.FallbackApplied {
			uc.metrics.RecordFallback(desc.Name)
		}
	}

	fields := p.Fields
	if len(fields) == 0 {
		fields = desc.Fields
	}
	return &SeriesView{
		Series:          desc,
		Rule:            res.Rule.String(),
		RuleKind:        res.Rule.Kind.String(),
		Policy:          string(policy),
		Total:           len(original),
		Matched:         res.Matched,
		FallbackApplied: res.FallbackApplied,
		Points:          res.Points,
		Chart:           timeseries.Project(res.Points, fields),
	}
}

// Ingest replaces the stored points of a series and drops its cached copy.
func (uc *SeriesUseCase) Ingest(ctx context.Context, name string, s timeseries.Series) (int, error) {
	if _, ok := models.LookupSeries(name); !ok {
		return 0, fmt.Errorf("%w: %s", ErrSeriesNotFound, name)
	}
	if uc.store == nil {
		return 0, ErrIngestDisabled
	}

	if uc.cache != nil {
		lockKey := cache.GenerateKey(seriesLockPrefix, name)
		ok, err := uc.cache.TryLock(ctx, lockKey, 30*time.Second)
		if err != nil {
			uc.l.Warn("series ingest lock failed", applogger.String("series", name), applogger.Error(err))
		} else if !ok {
			return 0, ErrIngestInProgress
		} else {
			defer func() { _ = uc.cache.Unlock(context.WithoutCancel(ctx), lockKey) }()
		}
	}

	if err := uc.store.Replace(ctx, name, s); err != nil {
		if uc.metrics != nil {
			uc.metrics.RecordError("series_ingest")
		}
		return 0, fmt.Errorf("ingest %s: %w", name, err)
	}
	if err := uc.Invalidate(ctx, name); err != nil {
		uc.l.Warn("series cache invalidate failed", applogger.String("series", name), applogger.Error(err))
	}
	uc.l.Info("series ingested", applogger.String("series", name), applogger.Int("points", len(s)))
	return len(s), nil
}

// Invalidate drops the cached original of one series, or of all series when
// name is empty.
func (uc *SeriesUseCase) Invalidate(ctx context.Context, name string) error {
	if uc.cache == nil {
		return nil
	}
	if name == "" {
		return uc.cache.DeleteByPattern(ctx, cache.BuildPattern(seriesCachePrefix))
	}
	return uc.cache.Delete(ctx, cache.GenerateKey(seriesCachePrefix, name))
}

func checkFields(desc models.SeriesDescriptor, fields []string) error {
	for _, f := range fields {
		known := false
		for _, k := range desc.Fields {
			if f == k {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: %s has no field %q", ErrUnknownField, desc.Name, f)
		}
	}
	return nil
}
