package api

import (
	"context"
	"net/http"

	"github.com/potarin/client-go/internal/errors"
	"github.com/potarin/client-go/internal/executor"
	"github.com/potarin/client-go/internal/types"
)

// Suggestions asks the backend to generate course suggestions. Invalid
// input fails fast as a ClientError without consuming a network attempt.
func Suggestions(ctx context.Context, ex *executor.Executor, baseURL string, req types.SuggestionsRequest) (*types.SuggestionsResponse, error) {
	if err := req.Request.Validate(); err != nil {
		return nil, errors.NewClientError("suggestions: "+err.Error(), err)
	}
	var out types.SuggestionsResponse
	if err := ex.Do(ctx, http.MethodPost, baseURL+SuggestionsPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
