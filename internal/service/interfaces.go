package service

import (
	"context"

	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/filter"
	"github.com/janmeier/studyplan/internal/merge"
	"github.com/janmeier/studyplan/internal/planner"
	"github.com/janmeier/studyplan/internal/projection"
)

// SemesterView is the per-semester row of the academic overview.
type SemesterView struct {
	Key           domain.SemesterKey
	Status        domain.SemesterStatus
	IsFuture      bool
	Reference     domain.SemesterKey // set only for future semesters
	EnrolledECTS  float64
	SelectedECTS  float64
	ReservedECTS  float64
	Selections    []projection.EnrichedSelection
	Placeholders  []domain.Placeholder
	EnrolledCount int
}

type AcademicService interface {
	// RefreshTerms fetches the university term list, caches it locally and
	// recomputes each known semester's future/reference classification.
	RefreshTerms(ctx context.Context) ([]projection.TermInfo, error)
	// LoadCachedTerms restores the term list from the local cache, for
	// offline startup.
	LoadCachedTerms(ctx context.Context) error
	// CurrentTerm falls back to the date algebra when no term is flagged
	// current, so it always returns a usable key; TermsKnown distinguishes
	// a fresh session with no term data at all.
	CurrentTerm() domain.SemesterKey
	TermsKnown() bool
	// Overview derives the unified semester rows across all known semesters,
	// chronologically ordered.
	Overview(ctx context.Context) ([]SemesterView, error)
	SelectSemester(key domain.SemesterKey) error
}

type CatalogService interface {
	// Sync fetches enrollments, catalog and ratings for the semester into
	// its bucket. Future semesters pull the catalog of their reference
	// semester instead.
	Sync(ctx context.Context, semester domain.SemesterKey) error
	// Filter applies the spec to the semester's available courses and
	// publishes the result as the bucket's filtered list.
	Filter(semester domain.SemesterKey, spec filter.Spec) ([]domain.RawCourse, error)
	// Lookup finds a course by canonical ID in the semester's bucket.
	Lookup(semester domain.SemesterKey, courseID string) (domain.RawCourse, bool)
	// Enrolled returns the semester's confirmed enrollments.
	Enrolled(semester domain.SemesterKey) []domain.RawCourse
}

// ProgramTranscript is the aggregated transcript of one program of study.
type ProgramTranscript struct {
	Program        string
	Summary        domain.CreditSummary
	GradeAverage   float64
	SimulatedAvg   float64
	SemesterCredit map[domain.SemesterKey]float64
}

type TranscriptService interface {
	// Transcripts fetches the official scorecards and aggregates credits and
	// grade averages per program, applying stored hypothetical grades.
	Transcripts(ctx context.Context) ([]ProgramTranscript, error)
	// Merged reconciles the backend scorecards with locally staged
	// selections into the per-program, per-semester planning view.
	Merged(ctx context.Context) (merge.Scorecards, error)
	SetCustomGrade(ctx context.Context, shortName string, grade float64) error
	ClearCustomGrade(ctx context.Context, shortName string) error
	ListCustomGrades(ctx context.Context) ([]domain.CustomGrade, error)
}

type PlanService interface {
	// Hydrate loads persisted selections and placeholders into the session
	// store. Called once at startup.
	Hydrate(ctx context.Context) error
	AddCourse(ctx context.Context, courseID string, semester domain.SemesterKey, category string) (planner.Result, error)
	MoveCourse(ctx context.Context, courseID string, from, to domain.SemesterKey, toCategory string) (planner.Result, error)
	RemoveCourse(ctx context.Context, courseID string, semester domain.SemesterKey) (planner.Result, error)
	AddPlaceholder(ctx context.Context, semester domain.SemesterKey, category string, credits float64, label string) (string, planner.Result, error)
	RemovePlaceholder(ctx context.Context, id string, semester domain.SemesterKey) (planner.Result, error)
	MovePlaceholder(ctx context.Context, id string, from, to domain.SemesterKey, toCategory string) (planner.Result, error)
}
