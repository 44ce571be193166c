package types

import (
	"encoding/json"
	"time"
)

// ------------------------------
// Response Types
// ------------------------------

// SuggestionsResponse is the payload of a successful suggestions call.
type SuggestionsResponse struct {
	Suggestions []CourseSuggestion `json:"suggestions"`
	RequestID   string             `json:"requestId"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

// DetailsResponse is the payload of a successful details call.
type DetailsResponse struct {
	Course      CourseDetails `json:"course"`
	RequestID   string        `json:"requestId"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	Status    string            `json:"status"`
	Message   string            `json:"message,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
	Version   string            `json:"version,omitempty"`
	Services  map[string]string `json:"services,omitempty"`
}

// OK reports whether the backend considers itself healthy.
func (h *HealthStatus) OK() bool { return h.Status == "ok" }

// ------------------------------
// Response Envelope
// ------------------------------

// ErrorBody is the backend's error object inside the envelope.
type ErrorBody struct {
	Code      string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Envelope is the backend's uniform response wrapper. Success payloads sit
// under Data; failures carry Error.
type Envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     *ErrorBody      `json:"error,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}
