// Package filter applies multi-field course filter specifications to
// catalog course lists. Every condition is permissive by default: an empty
// filter field passes everything, and a course missing the filtered field
// passes rather than fails.
package filter

import (
	"strings"

	"github.com/janmeier/studyplan/internal/domain"
)

// Spec is a filter over a course list. All fields are optional; zero-value
// fields impose no constraint.
type Spec struct {
	Classifications []string
	ECTS            []int // hundredths of an ECTS, matching RawCourse.Credits
	Lecturers       []string
	Ratings         []float64 // effective floor is the maximum of the list
	Languages       []string
	SearchTerm      string
}

// IsEmpty reports whether the spec imposes no constraint at all.
func (s Spec) IsEmpty() bool {
	return len(s.Classifications) == 0 && len(s.ECTS) == 0 && len(s.Lecturers) == 0 &&
		len(s.Ratings) == 0 && len(s.Languages) == 0 && s.SearchTerm == ""
}

// MinRating collapses the ratings list into a single floor. The UI only ever
// offers one threshold at a time; taking the max is the documented
// simplification, not a bug.
func (s Spec) MinRating() (float64, bool) {
	if len(s.Ratings) == 0 {
		return 0, false
	}
	floor := s.Ratings[0]
	for _, r := range s.Ratings[1:] {
		if r > floor {
			floor = r
		}
	}
	return floor, true
}

// Matches reports whether the course passes every condition of the spec.
func Matches(c domain.RawCourse, spec Spec) bool {
	return matchesClassification(c, spec) &&
		matchesECTS(c, spec) &&
		matchesLecturer(c, spec) &&
		matchesRating(c, spec) &&
		matchesLanguage(c, spec) &&
		matchesSearch(c, spec)
}

// Apply returns the subset of courses matching the spec, preserving order.
func Apply(courses []domain.RawCourse, spec Spec) []domain.RawCourse {
	if spec.IsEmpty() {
		return courses
	}
	filtered := make([]domain.RawCourse, 0, len(courses))
	for _, c := range courses {
		if Matches(c, spec) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func matchesClassification(c domain.RawCourse, spec Spec) bool {
	if len(spec.Classifications) == 0 {
		return true
	}
	for _, cl := range spec.Classifications {
		if c.Classification == cl {
			return true
		}
	}
	return false
}

func matchesECTS(c domain.RawCourse, spec Spec) bool {
	if len(spec.ECTS) == 0 {
		return true
	}
	if !c.Credits.Valid {
		return true
	}
	for _, e := range spec.ECTS {
		if int(c.Credits.Value) == e {
			return true
		}
	}
	return false
}

func matchesLecturer(c domain.RawCourse, spec Spec) bool {
	if len(spec.Lecturers) == 0 || len(c.Lecturers) == 0 {
		return true
	}
	for _, l := range c.Lecturers {
		for _, want := range spec.Lecturers {
			if l.DisplayName == want {
				return true
			}
		}
	}
	return false
}

func matchesRating(c domain.RawCourse, spec Spec) bool {
	floor, ok := spec.MinRating()
	if !ok || c.AvgRating == nil {
		// A missing rating never excludes a course.
		return true
	}
	return *c.AvgRating >= floor
}

func matchesLanguage(c domain.RawCourse, spec Spec) bool {
	if len(spec.Languages) == 0 {
		return true
	}
	for _, code := range spec.Languages {
		if c.CourseLanguage.Code == code {
			return true
		}
	}
	return false
}

func matchesSearch(c domain.RawCourse, spec Spec) bool {
	if spec.SearchTerm == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.ShortName), strings.ToLower(spec.SearchTerm))
}
