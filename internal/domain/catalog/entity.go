// internal/domain/catalog/entity.go
package catalog

// CourseOffering is a read-only snapshot of a course fetched from the backend.
type CourseOffering struct {
	CourseID   string            `json:"course_id"`
	CourseName string            `json:"course_name"`
	Location   string            `json:"location"`
	Hours      int               `json:"hours"`
	Price      int64             `json:"price"` // per person, integer currency units
	Sessions   []SessionOffering `json:"sessions"`
}

// SessionOffering is one scheduled run of a course. Remaining may be stale;
// the backend owns the authoritative seat count.
type SessionOffering struct {
	SessionID string `json:"session_id"`
	Date      string `json:"date"`
	Quota     int    `json:"quota"`
	Remaining int    `json:"remaining"`
}

// QuotaLevel classifies remaining seats for display
type QuotaLevel string

const (
	QuotaNone      QuotaLevel = "none"
	QuotaLow       QuotaLevel = "low"
	QuotaAvailable QuotaLevel = "available"
)

// LowQuotaThreshold is the remaining-seat count at or below which a session is shown as low.
const LowQuotaThreshold = 5

// LocationAll disables location filtering.
const LocationAll = "all"

// Session returns the session with the given ID.
func (c *CourseOffering) Session(sessionID string) (*SessionOffering, bool) {
	for i := range c.Sessions {
		if c.Sessions[i].SessionID == sessionID {
			return &c.Sessions[i], true
		}
	}
	return nil, false
}

// Level returns the display classification of the session's remaining seats.
func (s SessionOffering) Level() QuotaLevel {
	switch {
	case s.Remaining <= 0:
		return QuotaNone
	case s.Remaining <= LowQuotaThreshold:
		return QuotaLow
	default:
		return QuotaAvailable
	}
}

// Bookable reports whether at least one seat remains.
func (s SessionOffering) Bookable() bool {
	return s.Remaining > 0
}

// FilterByLocation returns the courses held at location, or all courses for LocationAll.
func FilterByLocation(courses []CourseOffering, location string) []CourseOffering {
	if location == "" || location == LocationAll {
		return courses
	}

	filtered := make([]CourseOffering, 0, len(courses))
	for _, c := range courses {
		if c.Location == location {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// Locations returns the distinct location tags in catalog order.
func Locations(courses []CourseOffering) []string {
	seen := make(map[string]bool)
	var locations []string
	for _, c := range courses {
		if !seen[c.Location] {
			seen[c.Location] = true
			locations = append(locations, c.Location)
		}
	}
	return locations
}
