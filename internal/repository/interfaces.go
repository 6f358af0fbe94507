package repository

import (
	"context"

	"github.com/janmeier/studyplan/internal/db"
	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/projection"
)

// SelectionRepo persists locally staged wishlist selections.
type SelectionRepo interface {
	Add(ctx context.Context, sel *domain.Selection) error
	Remove(ctx context.Context, courseID string, semester domain.SemesterKey) error
	ListBySemester(ctx context.Context, semester domain.SemesterKey) ([]domain.Selection, error)
	ListAll(ctx context.Context) (map[domain.SemesterKey][]domain.Selection, error)
	// WithTx returns a repo bound to the given transaction for use inside a
	// unit of work.
	WithTx(tx db.DBTX) SelectionRepo
}

// PlaceholderRepo persists planning-grid placeholders.
type PlaceholderRepo interface {
	Create(ctx context.Context, p *domain.Placeholder) error
	GetByID(ctx context.Context, id string) (*domain.Placeholder, error)
	ListBySemester(ctx context.Context, semester domain.SemesterKey) ([]domain.Placeholder, error)
	ListAll(ctx context.Context) ([]domain.Placeholder, error)
	Update(ctx context.Context, p *domain.Placeholder) error
	Delete(ctx context.Context, id string) error
	WithTx(tx db.DBTX) PlaceholderRepo
}

// CustomGradeRepo persists hypothetical grades for the transcript simulator.
type CustomGradeRepo interface {
	Upsert(ctx context.Context, g *domain.CustomGrade) error
	Delete(ctx context.Context, shortName string) error
	ListAll(ctx context.Context) ([]domain.CustomGrade, error)
}

// TermRepo caches the university term list locally.
type TermRepo interface {
	ReplaceAll(ctx context.Context, terms []projection.TermInfo) error
	ListAll(ctx context.Context) ([]projection.TermInfo, error)
}
