// Package client is the Go SDK for the Potarin backend, the AI-backed
// walking/cycling/jogging course-suggestion service.
//
// It exposes three typed operations (Health, GetSuggestions, GetDetails)
// behind a resilient request layer: per-endpoint deadlines, exponential-
// backoff retry, and a circuit breaker per endpoint. Every failure
// surfaces as a single structured *Error carrying a Kind and a retryable
// flag.
//
//	c := client.New("https://api.potarin.example")
//	defer c.Close()
//
//	res, err := c.GetSuggestions(ctx, client.CourseRequest{
//		CourseType: "walking",
//		Distance:   "short",
//	})
//	if client.IsCircuitOpen(err) {
//		// backend is failing fast; show cached courses instead
//	}
//
// Reachability for UI feedback comes from IsReachable and the
// connectivity Monitor; Diagnostics exposes breaker state per endpoint.
package client
