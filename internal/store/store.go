// Package store holds the session's unified course data: one bucket per
// semester, replaced wholesale on every update so readers always observe a
// consistent snapshot.
package store

import (
	"sync"
	"time"

	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/projection"
)

// SemesterBucket is the per-semester container of course lists and metadata.
// Buckets are treated as immutable once published; updates go through
// CourseStore with a fresh copy.
type SemesterBucket struct {
	Enrolled          []domain.RawCourse
	Available         []domain.RawCourse
	Selected          []domain.Selection
	Filtered          []domain.RawCourse
	Placeholders      []domain.Placeholder
	Ratings           map[string]float64
	LastFetched       *time.Time
	IsFutureSemester  bool
	ReferenceSemester domain.SemesterKey // empty unless IsFutureSemester
	CISID             string
}

// Clone returns a deep-enough copy for copy-on-write updates: slices and the
// ratings map are duplicated, course values are copied by value.
func (b SemesterBucket) Clone() SemesterBucket {
	out := b
	out.Enrolled = append([]domain.RawCourse(nil), b.Enrolled...)
	out.Available = append([]domain.RawCourse(nil), b.Available...)
	out.Selected = append([]domain.Selection(nil), b.Selected...)
	out.Filtered = append([]domain.RawCourse(nil), b.Filtered...)
	out.Placeholders = append([]domain.Placeholder(nil), b.Placeholders...)
	if b.Ratings != nil {
		out.Ratings = make(map[string]float64, len(b.Ratings))
		for k, v := range b.Ratings {
			out.Ratings[k] = v
		}
	}
	if b.LastFetched != nil {
		t := *b.LastFetched
		out.LastFetched = &t
	}
	return out
}

// UnifiedData is a snapshot of the whole aggregate.
type UnifiedData struct {
	SelectedSemester domain.SemesterKey
	LatestValidTerm  domain.SemesterKey
	Terms            []projection.TermInfo
	Semesters        map[domain.SemesterKey]SemesterBucket
}

// CourseStore is the single shared mutable resource of a session. All
// mutation happens through whole-bucket replacement under the lock; Snapshot
// hands out copies.
type CourseStore struct {
	mu   sync.RWMutex
	data UnifiedData
}

// NewCourseStore returns an empty store.
func NewCourseStore() *CourseStore {
	return &CourseStore{
		data: UnifiedData{
			Semesters: make(map[domain.SemesterKey]SemesterBucket),
		},
	}
}

// Snapshot returns a copy of the aggregate. Buckets share their underlying
// slices with the store, which is safe because published buckets are never
// mutated in place.
func (s *CourseStore) Snapshot() UnifiedData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.data
	out.Terms = append([]projection.TermInfo(nil), s.data.Terms...)
	out.Semesters = make(map[domain.SemesterKey]SemesterBucket, len(s.data.Semesters))
	for k, v := range s.data.Semesters {
		out.Semesters[k] = v
	}
	return out
}

// Bucket returns the bucket for key, creating an empty one on first
// reference. The second return is false when the bucket was just created.
func (s *CourseStore) Bucket(key domain.SemesterKey) (SemesterBucket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data.Semesters[key]
	if !ok {
		b = SemesterBucket{}
		s.data.Semesters[key] = b
	}
	return b, ok
}

// ReplaceBucket publishes a new bucket for key.
func (s *CourseStore) ReplaceBucket(key domain.SemesterKey, b SemesterBucket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Semesters[key] = b
}

// UpdateBucket applies fn to a clone of key's bucket (created empty if
// absent) and publishes the result atomically.
func (s *CourseStore) UpdateBucket(key domain.SemesterKey, fn func(b *SemesterBucket)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.data.Semesters[key].Clone()
	fn(&b)
	s.data.Semesters[key] = b
}

// SetTerms records the term list and the latest term with confirmed data.
func (s *CourseStore) SetTerms(terms []projection.TermInfo, latestValid domain.SemesterKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Terms = append([]projection.TermInfo(nil), terms...)
	s.data.LatestValidTerm = latestValid
}

// SelectSemester records the semester the user is looking at.
func (s *CourseStore) SelectSemester(key domain.SemesterKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.SelectedSemester = key
}

// SelectedSemester returns the currently selected semester key.
func (s *CourseStore) SelectedSemester() domain.SemesterKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.SelectedSemester
}

// LatestValidTerm returns the latest term with confirmed enrollment data.
func (s *CourseStore) LatestValidTerm() domain.SemesterKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.LatestValidTerm
}

// Terms returns a copy of the known term list.
func (s *CourseStore) Terms() []projection.TermInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]projection.TermInfo(nil), s.data.Terms...)
}
