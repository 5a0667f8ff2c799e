package usecase

import (
	"context"
	"time"

	"job-tracker-backend/internal/domain"
	"job-tracker-backend/pkg/logger"
)

type healthUsecase struct {
	store   string
	gateway domain.ApplicationGateway
}

func NewHealthUsecase(store string, gateway domain.ApplicationGateway) domain.HealthUsecase {
	return &healthUsecase{store: store, gateway: gateway}
}

// Check pings the store when the gateway supports it. Failure details stay in the logs.
func (u *healthUsecase) Check(ctx context.Context) domain.HealthStatus {
	status := domain.HealthStatus{Status: "healthy", Store: u.store}

	pinger, ok := u.gateway.(domain.Pinger)
	if !ok {
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := pinger.Ping(ctx); err != nil {
		logger.Log.Error("Store ping failed", "store", u.store, "error", err)
		status.Status = "unhealthy"
		status.Details = map[string]string{"store": "unreachable"}
		return status
	}
	status.Details = map[string]string{"store": "ok"}
	return status
}
