package service

import (
	"context"
	"time"

	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/planner"
	"github.com/janmeier/studyplan/internal/repository"
	"github.com/janmeier/studyplan/internal/store"
)

type planService struct {
	engine       *planner.Engine
	catalog      CatalogService
	selections   repository.SelectionRepo
	placeholders repository.PlaceholderRepo
	store        *store.CourseStore
	observer     UseCaseObserver
}

// NewPlanService wraps the mutation engine with course resolution and
// startup hydration.
func NewPlanService(
	engine *planner.Engine,
	catalog CatalogService,
	selections repository.SelectionRepo,
	placeholders repository.PlaceholderRepo,
	st *store.CourseStore,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		engine:       engine,
		catalog:      catalog,
		selections:   selections,
		placeholders: placeholders,
		store:        st,
		observer:     useCaseObserverOrNoop(observers),
	}
}

func (s *planService) Hydrate(ctx context.Context) error {
	selections, err := s.selections.ListAll(ctx)
	if err != nil {
		return err
	}
	for semester, sels := range selections {
		sels := sels
		s.store.UpdateBucket(semester, func(b *store.SemesterBucket) {
			b.Selected = sels
		})
	}

	placeholders, err := s.placeholders.ListAll(ctx)
	if err != nil {
		return err
	}
	bySemester := make(map[domain.SemesterKey][]domain.Placeholder)
	for _, p := range placeholders {
		bySemester[p.Semester] = append(bySemester[p.Semester], p)
	}
	for semester, ps := range bySemester {
		ps := ps
		s.store.UpdateBucket(semester, func(b *store.SemesterBucket) {
			b.Placeholders = ps
		})
	}
	return nil
}

func (s *planService) AddCourse(ctx context.Context, courseID string, semester domain.SemesterKey, category string) (res planner.Result, err error) {
	defer s.observeMutation(ctx, "plan-add-course", courseID, semester, &res, &err)()

	course, ok := s.resolveCourse(courseID, semester)
	if !ok {
		return planner.Result{Reason: planner.ReasonCourseUnresolved}, nil
	}
	return s.engine.AddCourse(ctx, course, semester, category)
}

func (s *planService) MoveCourse(ctx context.Context, courseID string, from, to domain.SemesterKey, toCategory string) (res planner.Result, err error) {
	defer s.observeMutation(ctx, "plan-move-course", courseID, to, &res, &err)()
	return s.engine.MoveCourse(ctx, courseID, from, to, toCategory)
}

func (s *planService) RemoveCourse(ctx context.Context, courseID string, semester domain.SemesterKey) (res planner.Result, err error) {
	defer s.observeMutation(ctx, "plan-remove-course", courseID, semester, &res, &err)()
	return s.engine.RemoveCourse(ctx, courseID, semester)
}

func (s *planService) AddPlaceholder(ctx context.Context, semester domain.SemesterKey, category string, credits float64, label string) (id string, res planner.Result, err error) {
	defer s.observeMutation(ctx, "plan-add-placeholder", label, semester, &res, &err)()
	return s.engine.AddPlaceholder(ctx, semester, category, credits, label)
}

func (s *planService) RemovePlaceholder(ctx context.Context, id string, semester domain.SemesterKey) (res planner.Result, err error) {
	defer s.observeMutation(ctx, "plan-remove-placeholder", id, semester, &res, &err)()
	return s.engine.RemovePlaceholder(ctx, id, semester)
}

func (s *planService) MovePlaceholder(ctx context.Context, id string, from, to domain.SemesterKey, toCategory string) (res planner.Result, err error) {
	defer s.observeMutation(ctx, "plan-move-placeholder", id, to, &res, &err)()
	return s.engine.MovePlaceholder(ctx, id, from, to, toCategory)
}

// resolveCourse looks a course up in the target semester's bucket, then the
// bucket's reference semester, then the latest valid term.
func (s *planService) resolveCourse(courseID string, semester domain.SemesterKey) (domain.RawCourse, bool) {
	bucket, _ := s.store.Bucket(semester)
	candidates := []domain.SemesterKey{semester, bucket.ReferenceSemester, s.store.LatestValidTerm()}
	for _, sem := range candidates {
		if sem == "" {
			continue
		}
		if course, ok := s.catalog.Lookup(sem, courseID); ok {
			return course, true
		}
	}
	return domain.RawCourse{}, false
}

func (s *planService) observeMutation(ctx context.Context, name, subject string, semester domain.SemesterKey, res *planner.Result, err *error) func() {
	startedAt := time.Now().UTC()
	return func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   *err == nil && res.OK,
			Err:       *err,
			Fields: map[string]any{
				"subject":  subject,
				"semester": string(semester),
				"reason":   string(res.Reason),
			},
		})
	}
}
