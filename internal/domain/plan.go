package domain

import (
	"fmt"
	"regexp"
	"time"
)

// CourseStatus tags a planned course relative to the academic record.
type CourseStatus string

const (
	CourseEnrolled  CourseStatus = "enrolled"
	CourseCompleted CourseStatus = "completed"
	CoursePlanned   CourseStatus = "planned"
)

// CategoryPath is a hierarchical classification such as "Core" or
// "Core/Electives", identifying a column of the planning grid.
var categoryPathPattern = regexp.MustCompile(`^[^/](?:[^/]*(?:/[^/]+)*)?$`)

// ValidateCategoryPath rejects structurally invalid category paths: empty
// strings, leading/trailing separators and empty segments. A bad path is a
// programmer error, not a user-facing condition.
func ValidateCategoryPath(path string) error {
	if path == "" {
		return fmt.Errorf("category path is empty")
	}
	if !categoryPathPattern.MatchString(path) || path[len(path)-1] == '/' {
		return fmt.Errorf("invalid category path %q", path)
	}
	return nil
}

// Selection is a locally staged wishlist entry: a real course placed in a
// (semester, category) cell before it is confirmed against the backend.
type Selection struct {
	CourseID       string
	Semester       SemesterKey
	Category       string
	ShortName      string
	Classification string
	BigType        string
	Credits        int // hundredths of an ECTS
	Status         CourseStatus
	AddedAt        time.Time
}

// Placeholder reserves credits of a category in a planning cell without a
// real course behind it.
type Placeholder struct {
	ID        string
	Semester  SemesterKey
	Category  string
	Label     string
	Credits   float64 // decimal ECTS
	CreatedAt time.Time
}

// DefaultPlaceholderLabel is used when a placeholder is created without one.
const DefaultPlaceholderLabel = "Reserved"

// DisplayLabel returns the label, falling back to the default.
func (p Placeholder) DisplayLabel() string {
	if p.Label != "" {
		return p.Label
	}
	return DefaultPlaceholderLabel
}

// CustomGrade is a user-stored hypothetical grade for a course, keyed by the
// course's shortName, feeding the aggregator's simulated average.
type CustomGrade struct {
	ShortName string
	Grade     float64
	UpdatedAt time.Time
}
