// Package api builds requests for the backend's three logical operations
// and decodes their payloads. All resilience behavior lives in the
// executor each function is handed.
package api

// Backend route paths, relative to the configured base URL.
const (
	HealthPath      = "/api/v1/health"
	SuggestionsPath = "/api/v1/suggestions"
	DetailsPath     = "/api/v1/details"
)
