package usecase

import (
	"context"
	"time"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	deps map[string]Pinger
}

// NewHealthUsecase reports on each named dependency; nil entries are skipped.
func NewHealthUsecase(deps map[string]Pinger) HealthUsecase {
	return &healthUsecase{deps: deps}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	for name, dep := range u.deps {
		if dep == nil {
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			status[name] = "down"
			status["status"] = "degraded"
			continue
		}
		status[name] = "ok"
	}
	return status
}
