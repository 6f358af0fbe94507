package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/projection"
)

// TestNow is a fixed reference time: October 2025, i.e. the HS25 term.
var TestNow = time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC)

// Course options
type CourseOption func(*domain.RawCourse)

func WithRating(r float64) CourseOption {
	return func(c *domain.RawCourse) {
		c.AvgRating = &r
	}
}

func WithLecturer(name string) CourseOption {
	return func(c *domain.RawCourse) {
		c.Lecturers = append(c.Lecturers, domain.Lecturer{DisplayName: name})
	}
}

func WithClassification(cl string) CourseOption {
	return func(c *domain.RawCourse) {
		c.Classification = cl
	}
}

// NewTestCourse builds a catalog course with sensible defaults: 4 ECTS,
// core classification, English.
func NewTestCourse(id, shortName string, opts ...CourseOption) domain.RawCourse {
	c := domain.RawCourse{
		ID:             id,
		ShortName:      shortName,
		Classification: "core",
		BigType:        "core",
		Credits:        domain.Num(400),
		CourseLanguage: domain.CourseLanguage{Code: "en"},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewTestSelection builds a staged selection for the given course and semester.
func NewTestSelection(courseID string, semester domain.SemesterKey) domain.Selection {
	return domain.Selection{
		CourseID:       courseID,
		Semester:       semester,
		Category:       "Core",
		ShortName:      "Course " + courseID,
		Classification: "core",
		BigType:        "core",
		Credits:        400,
		Status:         domain.CoursePlanned,
		AddedAt:        TestNow,
	}
}

// NewTestPlaceholder builds a placeholder in the given cell.
func NewTestPlaceholder(semester domain.SemesterKey, category string) domain.Placeholder {
	return domain.Placeholder{
		ID:        uuid.New().String(),
		Semester:  semester,
		Category:  category,
		Label:     "Elective slot",
		Credits:   6,
		CreatedAt: TestNow,
	}
}

// NewTestTermList builds a term list covering FS24 through FS27 with HS25
// flagged current.
func NewTestTermList() []projection.TermInfo {
	keys := []domain.SemesterKey{"FS24", "HS24", "FS25", "HS25", "FS26", "HS26", "FS27"}
	out := make([]projection.TermInfo, 0, len(keys))
	for _, k := range keys {
		out = append(out, projection.TermInfo{
			ShortName: k,
			ID:        "term-" + string(k),
			CISID:     "cis-" + string(k),
			IsCurrent: k == "HS25",
		})
	}
	return out
}

// NewTestScorecardTree builds a small transcript tree: one graded group with
// two leaves and an unfilled thesis slot.
func NewTestScorecardTree() []domain.ScorecardItem {
	return []domain.ScorecardItem{
		{
			IsTitle:     true,
			Description: "Core Studies",
			Items: []domain.ScorecardItem{
				{SumOfCredits: domain.Num(4), Mark: domain.Num(5), ShortName: "Algo", Description: "Algorithms", Semester: "HS24"},
				{SumOfCredits: domain.Num(6), Mark: domain.Num(4.5), ShortName: "DB", Description: "Databases", Semester: "FS25"},
			},
		},
		{IsTitle: true, Description: "Thesis", MaxCredits: domain.Num(12)},
	}
}
