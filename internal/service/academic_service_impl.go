package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/janmeier/studyplan/internal/apiclient"
	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/projection"
	"github.com/janmeier/studyplan/internal/repository"
	"github.com/janmeier/studyplan/internal/store"
)

type academicService struct {
	client   apiclient.Client
	terms    repository.TermRepo
	store    *store.CourseStore
	now      func() time.Time
	observer UseCaseObserver
}

// NewAcademicService creates the term and overview service. nowFn defaults
// to time.Now.
func NewAcademicService(
	client apiclient.Client,
	terms repository.TermRepo,
	st *store.CourseStore,
	nowFn func() time.Time,
	observers ...UseCaseObserver,
) AcademicService {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &academicService{
		client:   client,
		terms:    terms,
		store:    st,
		now:      nowFn,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *academicService) RefreshTerms(ctx context.Context) (terms []projection.TermInfo, err error) {
	startedAt := s.now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "refresh-terms",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"terms": len(terms)},
		})
	}()

	fetched, err := s.client.FetchTerms(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching terms: %w", err)
	}
	terms = projection.SortTerms(fetched)

	if err = s.terms.ReplaceAll(ctx, terms); err != nil {
		return nil, fmt.Errorf("caching terms: %w", err)
	}

	s.publishTerms(terms)
	return terms, nil
}

func (s *academicService) LoadCachedTerms(ctx context.Context) error {
	terms, err := s.terms.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("loading cached terms: %w", err)
	}
	if len(terms) == 0 {
		return nil
	}
	s.publishTerms(projection.SortTerms(terms))
	return nil
}

// publishTerms records the term list and reclassifies every semester bucket
// against the new latest valid term.
func (s *academicService) publishTerms(terms []projection.TermInfo) {
	latestValid := projection.CurrentTerm(terms, s.now())
	s.store.SetTerms(terms, latestValid)

	snap := s.store.Snapshot()
	keys := make(map[domain.SemesterKey]bool, len(snap.Semesters)+len(terms))
	for k := range snap.Semesters {
		keys[k] = true
	}
	for _, t := range terms {
		keys[t.ShortName] = true
	}

	for key := range keys {
		key := key
		s.store.UpdateBucket(key, func(b *store.SemesterBucket) {
			b.IsFutureSemester = projection.IsFutureSemester(key, terms, latestValid)
			b.ReferenceSemester = ""
			if b.IsFutureSemester {
				b.ReferenceSemester = projection.ReferenceSemester(key, terms, latestValid)
			}
			if t, ok := termByKey(terms, key); ok {
				b.CISID = t.CISID
			}
		})
	}
}

func (s *academicService) CurrentTerm() domain.SemesterKey {
	return projection.CurrentTerm(s.store.Terms(), s.now())
}

func (s *academicService) TermsKnown() bool {
	return len(s.store.Terms()) > 0
}

func (s *academicService) SelectSemester(key domain.SemesterKey) error {
	if _, err := domain.ParseSemester(key); err != nil {
		return err
	}
	s.store.SelectSemester(key)
	return nil
}

func (s *academicService) Overview(ctx context.Context) ([]SemesterView, error) {
	snap := s.store.Snapshot()
	now := s.now()
	current := projection.CurrentTerm(snap.Terms, now)

	keys := make([]domain.SemesterKey, 0, len(snap.Semesters))
	for k := range snap.Semesters {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return domain.CompareSemesters(keys[i], keys[j]) < 0
	})

	lookup := func(sem domain.SemesterKey, courseID string) (domain.RawCourse, bool) {
		return findInBucket(snap.Semesters[sem], courseID)
	}

	views := make([]SemesterView, 0, len(keys))
	for _, key := range keys {
		b := snap.Semesters[key]
		enriched := projection.EnrichSelections(b.Selected, key, b.ReferenceSemester, current, lookup)

		var enrolledECTS, selectedECTS, reservedECTS float64
		for _, c := range b.Enrolled {
			enrolledECTS += c.ECTS()
		}
		for _, e := range enriched {
			selectedECTS += e.CreditsECTS
		}
		for _, p := range b.Placeholders {
			reservedECTS += p.Credits
		}

		views = append(views, SemesterView{
			Key:           key,
			Status:        domain.StatusOf(key, now),
			IsFuture:      b.IsFutureSemester,
			Reference:     b.ReferenceSemester,
			EnrolledECTS:  enrolledECTS,
			SelectedECTS:  selectedECTS,
			ReservedECTS:  reservedECTS,
			Selections:    enriched,
			Placeholders:  b.Placeholders,
			EnrolledCount: len(b.Enrolled),
		})
	}
	return views, nil
}

func termByKey(terms []projection.TermInfo, key domain.SemesterKey) (projection.TermInfo, bool) {
	for _, t := range terms {
		if t.ShortName == key {
			return t, true
		}
	}
	return projection.TermInfo{}, false
}

// findInBucket resolves a canonical course ID against a bucket's available
// and enrolled lists.
func findInBucket(b store.SemesterBucket, courseID string) (domain.RawCourse, bool) {
	for _, list := range [][]domain.RawCourse{b.Available, b.Enrolled} {
		for i := range list {
			if domain.ResolveCourseID(&list[i]) == courseID {
				return list[i], true
			}
		}
	}
	return domain.RawCourse{}, false
}
