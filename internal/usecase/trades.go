package usecase

import (
	"context"
	"fmt"

	"SmartBank/internal/domain/models"
	domrepo "SmartBank/internal/domain/repository"
	applogger "SmartBank/pkg/logger"
)

// TradeSeeder provides the sample blotter for an empty trade table.
type TradeSeeder interface {
	Trades() []models.Trade
}

type TradeUseCase struct {
	store  domrepo.TradeStore
	seeder TradeSeeder
	l      *applogger.Logger
}

func NewTradeUseCase(store domrepo.TradeStore, seeder TradeSeeder, l *applogger.Logger) *TradeUseCase {
	if l == nil {
		l = applogger.Nop()
	}
	return &TradeUseCase{store: store, seeder: seeder, l: l}
}

// Seed fills the trade table with sample trades when it is empty.
func (uc *TradeUseCase) Seed(ctx context.Context) (int, error) {
	if uc.seeder == nil {
		return 0, nil
	}
	n, err := uc.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count trades: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	trades := uc.seeder.Trades()
	if err := uc.store.Insert(ctx, trades); err != nil {
		return 0, fmt.Errorf("seed trades: %w", err)
	}
	uc.l.Info("trade table seeded", applogger.Int("trades", len(trades)))
	return len(trades), nil
}

func (uc *TradeUseCase) Query(ctx context.Context, f models.TradeFilter) (*models.TradePage, error) {
	return uc.store.Query(ctx, f)
}
