package types

// ------------------------------
// Request Types
// ------------------------------

// SuggestionsRequest is the body of POST /api/v1/suggestions.
type SuggestionsRequest struct {
	Request CourseRequest `json:"request"`
}

// DetailsRequest is the body of POST /api/v1/details. The backend expands
// the given suggestion into a full course with waypoints.
type DetailsRequest struct {
	CourseID   string           `json:"courseId"`
	Suggestion CourseSuggestion `json:"suggestion"`
}
