// Package planner is the mutation engine for the curriculum plan: it moves
// courses and placeholders between (semester, category) cells, persists the
// staged state, and keeps the in-memory unified view in step. The one
// correctness-critical rule: no mutation may target a completed semester.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/janmeier/studyplan/internal/db"
	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/repository"
	"github.com/janmeier/studyplan/internal/store"
)

// RejectReason explains why a plan mutation was refused. Rejections are
// expected user-facing conditions, not errors.
type RejectReason string

const (
	ReasonNone               RejectReason = ""
	ReasonSemesterCompleted  RejectReason = "semester_completed"
	ReasonCourseUnresolved   RejectReason = "course_unresolved"
	ReasonPlaceholderUnknown RejectReason = "placeholder_unknown"
)

// Result is the outcome of a plan mutation. OK false carries the reason so
// callers can surface it without a try/catch-style error path.
type Result struct {
	OK     bool
	Reason RejectReason
}

func accepted() Result               { return Result{OK: true} }
func rejected(r RejectReason) Result { return Result{Reason: r} }

// Engine applies plan mutations. All operations are synchronous; persistence
// failures surface as errors, validation refusals as Results.
type Engine struct {
	store        *store.CourseStore
	selections   repository.SelectionRepo
	placeholders repository.PlaceholderRepo
	uow          db.UnitOfWork
	now          func() time.Time
}

// NewEngine creates a mutation engine over the given store and repos.
// nowFn defaults to time.Now.
func NewEngine(
	st *store.CourseStore,
	selections repository.SelectionRepo,
	placeholders repository.PlaceholderRepo,
	uow db.UnitOfWork,
	nowFn func() time.Time,
) *Engine {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Engine{
		store:        st,
		selections:   selections,
		placeholders: placeholders,
		uow:          uow,
		now:          nowFn,
	}
}

// AddCourse stages a course into the (semester, category) cell. Rejected
// when the semester is completed or the course has no resolvable identifier.
func (e *Engine) AddCourse(ctx context.Context, course domain.RawCourse, semester domain.SemesterKey, category string) (Result, error) {
	if err := domain.ValidateCategoryPath(category); err != nil {
		return Result{}, err
	}
	if domain.IsCompleted(semester, e.now()) {
		return rejected(ReasonSemesterCompleted), nil
	}
	id := domain.ResolveCourseID(&course)
	if id == "" {
		return rejected(ReasonCourseUnresolved), nil
	}

	credits := 0
	if course.Credits.Valid {
		credits = int(course.Credits.Value)
	}
	sel := domain.Selection{
		CourseID:       id,
		Semester:       semester,
		Category:       category,
		ShortName:      domain.CoalesceStr(course.ShortName, course.Title),
		Classification: course.Classification,
		BigType:        course.BigType,
		Credits:        credits,
		Status:         domain.CoursePlanned,
		AddedAt:        e.now().UTC(),
	}
	if err := e.selections.Add(ctx, &sel); err != nil {
		return Result{}, fmt.Errorf("staging course %s: %w", id, err)
	}

	e.store.UpdateBucket(semester, func(b *store.SemesterBucket) {
		b.Selected = upsertSelection(b.Selected, sel)
	})
	return accepted(), nil
}

// MoveCourse relocates a staged course between cells. Moving within the same
// semester is a successful no-op. Rejected when the target semester is
// completed; the source semester's status does not matter (withdrawing a
// stale staged entry is always allowed).
func (e *Engine) MoveCourse(ctx context.Context, courseID string, from, to domain.SemesterKey, toCategory string) (Result, error) {
	if err := domain.ValidateCategoryPath(toCategory); err != nil {
		return Result{}, err
	}
	if domain.IsCompleted(to, e.now()) {
		return rejected(ReasonSemesterCompleted), nil
	}
	if from == to {
		return accepted(), nil
	}

	var moved domain.Selection
	err := e.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSel := e.selections.WithTx(tx)
		existing, err := txSel.ListBySemester(ctx, from)
		if err != nil {
			return err
		}
		moved = domain.Selection{CourseID: courseID, ShortName: courseID}
		for _, sel := range existing {
			if sel.CourseID == courseID {
				moved = sel
				break
			}
		}
		if err := txSel.Remove(ctx, courseID, from); err != nil {
			return err
		}
		moved.Semester = to
		moved.Category = toCategory
		return txSel.Add(ctx, &moved)
	})
	if err != nil {
		return Result{}, fmt.Errorf("moving course %s: %w", courseID, err)
	}

	e.store.UpdateBucket(from, func(b *store.SemesterBucket) {
		b.Selected = removeSelection(b.Selected, courseID)
	})
	e.store.UpdateBucket(to, func(b *store.SemesterBucket) {
		b.Selected = upsertSelection(b.Selected, moved)
	})
	return accepted(), nil
}

// RemoveCourse withdraws a staged course from a semester. Removing an id
// that is not present is a no-op success, not an error.
func (e *Engine) RemoveCourse(ctx context.Context, courseID string, semester domain.SemesterKey) (Result, error) {
	if err := e.selections.Remove(ctx, courseID, semester); err != nil {
		return Result{}, fmt.Errorf("removing course %s: %w", courseID, err)
	}
	e.store.UpdateBucket(semester, func(b *store.SemesterBucket) {
		b.Selected = removeSelection(b.Selected, courseID)
	})
	return accepted(), nil
}

// AddPlaceholder reserves credits in a cell. Returns the fresh placeholder
// id on success; the id is empty when the mutation was rejected.
func (e *Engine) AddPlaceholder(ctx context.Context, semester domain.SemesterKey, category string, credits float64, label string) (string, Result, error) {
	if err := domain.ValidateCategoryPath(category); err != nil {
		return "", Result{}, err
	}
	if domain.IsCompleted(semester, e.now()) {
		return "", rejected(ReasonSemesterCompleted), nil
	}

	p := domain.Placeholder{
		ID:        uuid.New().String(),
		Semester:  semester,
		Category:  category,
		Label:     label,
		Credits:   credits,
		CreatedAt: e.now().UTC(),
	}
	if p.Label == "" {
		p.Label = domain.DefaultPlaceholderLabel
	}
	if err := e.placeholders.Create(ctx, &p); err != nil {
		return "", Result{}, fmt.Errorf("creating placeholder: %w", err)
	}

	e.store.UpdateBucket(semester, func(b *store.SemesterBucket) {
		b.Placeholders = append(b.Placeholders, p)
	})
	return p.ID, accepted(), nil
}

// RemovePlaceholder deletes a placeholder by id. The semester hint is
// best-effort cleanup context: removal succeeds whether or not it matches.
func (e *Engine) RemovePlaceholder(ctx context.Context, id string, semester domain.SemesterKey) (Result, error) {
	existing, err := e.placeholders.GetByID(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("looking up placeholder %s: %w", id, err)
	}
	if err := e.placeholders.Delete(ctx, id); err != nil {
		return Result{}, fmt.Errorf("deleting placeholder %s: %w", id, err)
	}

	// Scrub whichever bucket actually held it, falling back to the hint.
	target := semester
	if existing != nil {
		target = existing.Semester
	}
	if target != "" {
		e.store.UpdateBucket(target, func(b *store.SemesterBucket) {
			b.Placeholders = removePlaceholder(b.Placeholders, id)
		})
	}
	return accepted(), nil
}

// MovePlaceholder relocates a placeholder between cells under the same
// completed-semester guard as MoveCourse.
func (e *Engine) MovePlaceholder(ctx context.Context, id string, from, to domain.SemesterKey, toCategory string) (Result, error) {
	if err := domain.ValidateCategoryPath(toCategory); err != nil {
		return Result{}, err
	}
	if domain.IsCompleted(to, e.now()) {
		return rejected(ReasonSemesterCompleted), nil
	}
	if from == to {
		return accepted(), nil
	}

	existing, err := e.placeholders.GetByID(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("looking up placeholder %s: %w", id, err)
	}
	if existing == nil {
		return rejected(ReasonPlaceholderUnknown), nil
	}

	moved := *existing
	moved.Semester = to
	moved.Category = toCategory
	if err := e.placeholders.Update(ctx, &moved); err != nil {
		return Result{}, fmt.Errorf("moving placeholder %s: %w", id, err)
	}

	e.store.UpdateBucket(from, func(b *store.SemesterBucket) {
		b.Placeholders = removePlaceholder(b.Placeholders, id)
	})
	e.store.UpdateBucket(to, func(b *store.SemesterBucket) {
		b.Placeholders = append(b.Placeholders, moved)
	})
	return accepted(), nil
}

func upsertSelection(selections []domain.Selection, sel domain.Selection) []domain.Selection {
	for i := range selections {
		if selections[i].CourseID == sel.CourseID {
			selections[i] = sel
			return selections
		}
	}
	return append(selections, sel)
}

func removeSelection(selections []domain.Selection, courseID string) []domain.Selection {
	out := selections[:0]
	for _, sel := range selections {
		if sel.CourseID != courseID {
			out = append(out, sel)
		}
	}
	return out
}

func removePlaceholder(placeholders []domain.Placeholder, id string) []domain.Placeholder {
	out := placeholders[:0]
	for _, p := range placeholders {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
