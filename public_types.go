package client

import (
	"github.com/potarin/client-go/internal/breaker"
	"github.com/potarin/client-go/internal/types"
)

// Public type aliases so SDK consumers can import only the client package.
type (
	// Domain entities
	Position          = types.Position
	CoursePreferences = types.CoursePreferences
	CourseRequest     = types.CourseRequest
	Waypoint          = types.Waypoint
	CourseSuggestion  = types.CourseSuggestion
	CourseDetails     = types.CourseDetails
	Elevation         = types.Elevation
	ElevationPoint    = types.ElevationPoint

	// Responses
	SuggestionsResponse = types.SuggestionsResponse
	DetailsResponse     = types.DetailsResponse
	HealthStatus        = types.HealthStatus

	// Diagnostics
	BreakerSnapshot = breaker.Snapshot
)
