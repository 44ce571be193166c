package api

import (
	"context"
	"net/http"

	"github.com/potarin/client-go/internal/errors"
	"github.com/potarin/client-go/internal/executor"
	"github.com/potarin/client-go/internal/types"
)

// Details expands one suggestion into a full course with waypoints.
func Details(ctx context.Context, ex *executor.Executor, baseURL string, req types.DetailsRequest) (*types.DetailsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.NewClientError("details: "+err.Error(), err)
	}
	var out types.DetailsResponse
	if err := ex.Do(ctx, http.MethodPost, baseURL+DetailsPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
