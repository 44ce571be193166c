package types

import "fmt"

// Client-side pre-flight validation. The backend validates again; rejecting
// obviously bad input here avoids burning a network attempt on a guaranteed
// 400.

var (
	courseTypes      = map[string]bool{"walking": true, "cycling": true, "jogging": true}
	distanceClasses  = map[string]bool{"short": true, "medium": true, "long": true}
	sceneryKinds     = map[string]bool{"nature": true, "urban": true, "mixed": true}
	difficultyLevels = map[string]bool{"easy": true, "moderate": true, "hard": true}
)

// Validate checks enum and range constraints on a CourseRequest.
func (r *CourseRequest) Validate() error {
	if !courseTypes[r.CourseType] {
		return fmt.Errorf("courseType must be one of walking, cycling, jogging; got %q", r.CourseType)
	}
	if !distanceClasses[r.Distance] {
		return fmt.Errorf("distance must be one of short, medium, long; got %q", r.Distance)
	}
	if r.Location != nil {
		if err := r.Location.Validate(); err != nil {
			return err
		}
	}
	if p := r.Preferences; p != nil {
		if p.Scenery != nil && !sceneryKinds[*p.Scenery] {
			return fmt.Errorf("scenery must be one of nature, urban, mixed; got %q", *p.Scenery)
		}
		if p.Difficulty != nil && !difficultyLevels[*p.Difficulty] {
			return fmt.Errorf("difficulty must be one of easy, moderate, hard; got %q", *p.Difficulty)
		}
	}
	return nil
}

// Validate checks coordinate ranges.
func (p *Position) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude out of range: %v", p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude out of range: %v", p.Longitude)
	}
	return nil
}

// Validate checks that a details request carries a usable suggestion.
func (r *DetailsRequest) Validate() error {
	if r.CourseID == "" {
		return fmt.Errorf("courseId is required")
	}
	if r.Suggestion.ID == "" {
		return fmt.Errorf("suggestion.id is required")
	}
	return nil
}
