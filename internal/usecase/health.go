package usecase

import (
	"context"
	"time"

	domrepo "SmartBank/internal/domain/repository"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

type HealthReport struct {
	Status    string            `json:"status"`
	Database  string            `json:"database"`
	Message   string            `json:"message"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// HealthUseCase pings every configured backing store.
type HealthUseCase struct {
	checkers []domrepo.HealthChecker
	timeout  time.Duration
}

func NewHealthUseCase(checkers ...domrepo.HealthChecker) *HealthUseCase {
	out := make([]domrepo.HealthChecker, 0, len(checkers))
	for _, c := range checkers {
		if c != nil {
			out = append(out, c)
		}
	}
	return &HealthUseCase{checkers: out, timeout: 3 * time.Second}
}

func (uc *HealthUseCase) Check(ctx context.Context) HealthReport {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	rep := HealthReport{
		Status:    StatusHealthy,
		Database:  "connected",
		Message:   "API is operational",
		Checks:    make(map[string]string, len(uc.checkers)),
		Timestamp: time.Now().UTC(),
	}
	if len(uc.checkers) == 0 {
		rep.Database = "in-memory"
	}
	for _, c := range uc.checkers {
		if err := c.Health(ctx); err != nil {
			rep.Checks[c.Name()] = err.Error()
			rep.Status = StatusUnhealthy
			rep.Database = "disconnected"
			rep.Message = "API is experiencing issues"
			continue
		}
		rep.Checks[c.Name()] = "ok"
	}
	return rep
}
