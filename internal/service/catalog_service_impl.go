package service

import (
	"context"
	"fmt"
	"time"

	"github.com/janmeier/studyplan/internal/apiclient"
	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/filter"
	"github.com/janmeier/studyplan/internal/projection"
	"github.com/janmeier/studyplan/internal/store"
)

type catalogService struct {
	client   apiclient.Client
	store    *store.CourseStore
	now      func() time.Time
	observer UseCaseObserver
}

// NewCatalogService creates the course catalog sync and filter service.
// nowFn defaults to time.Now.
func NewCatalogService(
	client apiclient.Client,
	st *store.CourseStore,
	nowFn func() time.Time,
	observers ...UseCaseObserver,
) CatalogService {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &catalogService{
		client:   client,
		store:    st,
		now:      nowFn,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *catalogService) Sync(ctx context.Context, semester domain.SemesterKey) (err error) {
	startedAt := s.now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "sync-catalog",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"semester": string(semester)},
		})
	}()

	if _, err = domain.ParseSemester(semester); err != nil {
		return err
	}
	if domain.IsCompleted(semester, s.now()) {
		return fmt.Errorf("semester %s is completed, nothing to sync", semester)
	}

	terms := s.store.Terms()
	bucket, _ := s.store.Bucket(semester)

	// Future semesters have no catalog of their own yet; borrow the
	// reference semester's.
	catalogSemester := semester
	if bucket.IsFutureSemester && bucket.ReferenceSemester != "" {
		catalogSemester = bucket.ReferenceSemester
	}
	catalogTerm, termKnown := termByKey(terms, catalogSemester)
	if !termKnown {
		return fmt.Errorf("no term data for %s", catalogSemester)
	}

	available, err := s.client.FetchCatalog(ctx, catalogTerm.CISID)
	if err != nil {
		return fmt.Errorf("fetching catalog for %s: %w", catalogSemester, err)
	}

	// Enrollments always come from the semester's own term.
	var enrolled []domain.RawCourse
	if ownTerm, ok := termByKey(terms, semester); ok && domain.IsSyncable(semester, s.now()) {
		enrolled, err = s.client.FetchEnrollments(ctx, ownTerm.ID)
		if err != nil {
			return fmt.Errorf("fetching enrollments for %s: %w", semester, err)
		}
	}

	ratings, err := s.client.FetchRatings(ctx)
	if err != nil {
		return fmt.Errorf("fetching ratings: %w", err)
	}

	fetchedAt := s.now().UTC()
	s.store.UpdateBucket(semester, func(b *store.SemesterBucket) {
		b.Available = available
		if domain.IsSyncable(semester, fetchedAt) {
			b.Enrolled = enrolled
		}
		b.Ratings = ratings
		b.Filtered = nil
		b.LastFetched = &fetchedAt
	})
	return nil
}

func (s *catalogService) Filter(semester domain.SemesterKey, spec filter.Spec) ([]domain.RawCourse, error) {
	if _, err := domain.ParseSemester(semester); err != nil {
		return nil, err
	}
	bucket, existed := s.store.Bucket(semester)
	if !existed || bucket.LastFetched == nil {
		return nil, fmt.Errorf("no catalog loaded for %s, sync first", semester)
	}

	courses := projection.AttachRatings(bucket.Available, bucket.Ratings)
	out := filter.Apply(courses, spec)
	s.store.UpdateBucket(semester, func(b *store.SemesterBucket) {
		b.Filtered = out
	})
	return out, nil
}

func (s *catalogService) Lookup(semester domain.SemesterKey, courseID string) (domain.RawCourse, bool) {
	bucket, _ := s.store.Bucket(semester)
	return findInBucket(bucket, courseID)
}

func (s *catalogService) Enrolled(semester domain.SemesterKey) []domain.RawCourse {
	bucket, _ := s.store.Bucket(semester)
	return bucket.Enrolled
}
