package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/planner"
	"github.com/janmeier/studyplan/internal/projection"
	"github.com/janmeier/studyplan/internal/repository"
	"github.com/janmeier/studyplan/internal/store"
	"github.com/janmeier/studyplan/internal/testutil"
)

// stubClient serves canned API payloads.
type stubClient struct {
	terms       []projection.TermInfo
	catalogs    map[string][]domain.RawCourse // by cisID
	enrollments map[string][]domain.RawCourse // by termID
	scorecards  map[string][]domain.ScorecardItem
	ratings     map[string]float64
	err         error
}

func (c *stubClient) FetchTerms(context.Context) ([]projection.TermInfo, error) {
	return c.terms, c.err
}

func (c *stubClient) FetchEnrollments(_ context.Context, termID string) ([]domain.RawCourse, error) {
	return c.enrollments[termID], c.err
}

func (c *stubClient) FetchCatalog(_ context.Context, cisID string) ([]domain.RawCourse, error) {
	return c.catalogs[cisID], c.err
}

func (c *stubClient) FetchScorecards(context.Context) (map[string][]domain.ScorecardItem, error) {
	return c.scorecards, c.err
}

func (c *stubClient) FetchRatings(context.Context) (map[string]float64, error) {
	return c.ratings, c.err
}

// fixture wires the full service stack over an in-memory database and a
// stubbed API, with time frozen at testutil.TestNow.
type fixture struct {
	db           *sql.DB
	store        *store.CourseStore
	client       *stubClient
	selections   repository.SelectionRepo
	placeholders repository.PlaceholderRepo
	grades       repository.CustomGradeRepo
	terms        repository.TermRepo

	academic   AcademicService
	catalog    CatalogService
	transcript TranscriptService
	plan       PlanService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database := testutil.NewTestDB(t)
	st := store.NewCourseStore()
	now := func() time.Time { return testutil.TestNow }

	client := &stubClient{
		terms:       testutil.NewTestTermList(),
		catalogs:    make(map[string][]domain.RawCourse),
		enrollments: make(map[string][]domain.RawCourse),
		scorecards:  make(map[string][]domain.ScorecardItem),
		ratings:     make(map[string]float64),
	}

	selections := repository.NewSQLiteSelectionRepo(database)
	placeholders := repository.NewSQLitePlaceholderRepo(database)
	grades := repository.NewSQLiteCustomGradeRepo(database)
	terms := repository.NewSQLiteTermRepo(database)
	uow := testutil.NewTestUoW(database)

	engine := planner.NewEngine(st, selections, placeholders, uow, now)
	catalog := NewCatalogService(client, st, now)

	return &fixture{
		db:           database,
		store:        st,
		client:       client,
		selections:   selections,
		placeholders: placeholders,
		grades:       grades,
		terms:        terms,
		academic:     NewAcademicService(client, terms, st, now),
		catalog:      catalog,
		transcript:   NewTranscriptService(client, grades, selections),
		plan:         NewPlanService(engine, catalog, selections, placeholders, st),
	}
}

// seedCatalog places courses into a semester's bucket as if synced.
func (f *fixture) seedCatalog(semester domain.SemesterKey, courses ...domain.RawCourse) {
	fetched := testutil.TestNow
	f.store.UpdateBucket(semester, func(b *store.SemesterBucket) {
		b.Available = courses
		b.LastFetched = &fetched
	})
}
