package types

// ------------------------------
// Core Domain Entities
// ------------------------------

// Position is a geographic coordinate.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CoursePreferences holds optional user preferences for course generation.
type CoursePreferences struct {
	Scenery    *string `json:"scenery,omitempty"`
	Difficulty *string `json:"difficulty,omitempty"`
	AvoidHills *bool   `json:"avoidHills,omitempty"`
}

// CourseRequest describes what kind of course the user wants.
type CourseRequest struct {
	CourseType  string             `json:"courseType"`
	Distance    string             `json:"distance"`
	Location    *Position          `json:"location,omitempty"`
	Preferences *CoursePreferences `json:"preferences,omitempty"`
}

// Waypoint is a point of interest along a route.
type Waypoint struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Position    Position `json:"position"`
	Type        string   `json:"type"`
}

// CourseSuggestion is one suggested course returned by the backend.
type CourseSuggestion struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Distance      float64  `json:"distance"`
	EstimatedTime int      `json:"estimatedTime"`
	Difficulty    string   `json:"difficulty"`
	CourseType    string   `json:"courseType"`
	StartPoint    Position `json:"startPoint"`
	Highlights    []string `json:"highlights"`
	Summary       string   `json:"summary"`
}

// ElevationPoint is one sample of a course's elevation profile.
type ElevationPoint struct {
	Distance  float64 `json:"distance"`
	Elevation float64 `json:"elevation"`
}

// Elevation holds elevation information for a course.
type Elevation struct {
	Gain    float64          `json:"gain"`
	Profile []ElevationPoint `json:"profile"`
}

// CourseDetails is the fully expanded form of a suggestion, including the
// route geometry the map layer renders.
type CourseDetails struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Distance      float64    `json:"distance"`
	EstimatedTime int        `json:"estimatedTime"`
	Difficulty    string     `json:"difficulty"`
	CourseType    string     `json:"courseType"`
	Waypoints     []Waypoint `json:"waypoints"`
	Polyline      *string    `json:"polyline,omitempty"`
	Elevation     *Elevation `json:"elevation,omitempty"`
}
