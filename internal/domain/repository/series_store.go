package repository

import (
	"context"

	"SmartBank/internal/domain/models"
	"SmartBank/internal/services/timeseries"
)

// SeriesSource yields the original, unfiltered series for a catalog entry.
// An empty series with a nil error means the source has nothing for it.
type SeriesSource interface {
	Name() string
	Fetch(ctx context.Context, desc models.SeriesDescriptor) (timeseries.Series, error)
}

// SeriesStore persists series points and serves them back in source order.
type SeriesStore interface {
	SeriesSource
	Init(ctx context.Context) error
	Replace(ctx context.Context, name string, s timeseries.Series) error
	Health(ctx context.Context) error
	Close() error
}
