package repository

import (
	"context"
	"errors"
	"fmt"

	"SmartBank/internal/domain/models"
	domrepo "SmartBank/internal/domain/repository"
	"SmartBank/internal/services/timeseries"
	applogger "SmartBank/pkg/logger"
)

// ErrNoSeriesData is returned when every source came back empty.
var ErrNoSeriesData = errors.New("no source has data for series")

// ChainSource asks each source in turn and returns the first non-empty series.
// A failing source is logged and skipped.
type ChainSource struct {
	sources []domrepo.SeriesSource
	metrics domrepo.Metrics
	l       *applogger.Logger
}

func NewChainSource(sources ...domrepo.SeriesSource) *ChainSource {
	out := make([]domrepo.SeriesSource, 0, len(sources))
	for _, s := range sources {
		if s != nil {
			out = append(out, s)
		}
	}
	return &ChainSource{sources: out}
}

// SetLogger injects a structured logger.
func (c *ChainSource) SetLogger(l *applogger.Logger) { c.l = l }

// SetMetrics injects the metrics recorder.
func (c *ChainSource) SetMetrics(m domrepo.Metrics) { c.metrics = m }

func (c *ChainSource) Name() string { return "chain" }

// Sources lists the names of the configured sources in order.
func (c *ChainSource) Sources() []string {
	names := make([]string, len(c.sources))
	for i, s := range c.sources {
		names[i] = s.Name()
	}
	return names
}

func (c *ChainSource) Fetch(ctx context.Context, desc models.SeriesDescriptor) (timeseries.Series, error) {
	var errs []error
	for _, src := range c.sources {
		s, err := src.Fetch(ctx, desc)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			if c.l != nil {
				c.l.Warn("series source failed",
					applogger.String("source", src.Name()),
					applogger.String("series", desc.Name),
					applogger.Error(err),
				)
			}
			if c.metrics != nil {
				c.metrics.RecordError("source_" + src.Name())
			}
			continue
		}
		if len(s) == 0 {
			continue
		}
		if c.metrics != nil {
			c.metrics.RecordSourceHit(src.Name(), desc.Name)
		}
		return s, nil
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoSeriesData, errors.Join(errs...))
	}
	return nil, ErrNoSeriesData
}
