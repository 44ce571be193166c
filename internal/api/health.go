package api

import (
	"context"
	"net/http"

	"github.com/potarin/client-go/internal/executor"
	"github.com/potarin/client-go/internal/types"
)

// Health probes the backend's health route.
func Health(ctx context.Context, ex *executor.Executor, baseURL string) (*types.HealthStatus, error) {
	var out types.HealthStatus
	if err := ex.Do(ctx, http.MethodGet, baseURL+HealthPath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
