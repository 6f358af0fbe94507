package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/janmeier/studyplan/internal/db"
	"github.com/janmeier/studyplan/internal/domain"
)

// SQLitePlaceholderRepo implements PlaceholderRepo on a SQLite database.
type SQLitePlaceholderRepo struct {
	db db.DBTX
}

// NewSQLitePlaceholderRepo creates a new SQLitePlaceholderRepo.
func NewSQLitePlaceholderRepo(database *sql.DB) *SQLitePlaceholderRepo {
	return &SQLitePlaceholderRepo{db: database}
}

func (r *SQLitePlaceholderRepo) WithTx(tx db.DBTX) PlaceholderRepo {
	return &SQLitePlaceholderRepo{db: tx}
}

const placeholderColumns = `id, semester, category, label, credits, created_at`

func (r *SQLitePlaceholderRepo) Create(ctx context.Context, p *domain.Placeholder) error {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO placeholders (`+placeholderColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, string(p.Semester), p.Category, p.Label, p.Credits, createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting placeholder: %w", err)
	}
	return nil
}

func (r *SQLitePlaceholderRepo) GetByID(ctx context.Context, id string) (*domain.Placeholder, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+placeholderColumns+` FROM placeholders WHERE id = ?`, id)
	p, err := scanPlaceholder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *SQLitePlaceholderRepo) ListBySemester(ctx context.Context, semester domain.SemesterKey) ([]domain.Placeholder, error) {
	return r.list(ctx,
		`SELECT `+placeholderColumns+` FROM placeholders WHERE semester = ? ORDER BY created_at, id`,
		string(semester))
}

func (r *SQLitePlaceholderRepo) ListAll(ctx context.Context) ([]domain.Placeholder, error) {
	return r.list(ctx,
		`SELECT `+placeholderColumns+` FROM placeholders ORDER BY semester, created_at, id`)
}

func (r *SQLitePlaceholderRepo) Update(ctx context.Context, p *domain.Placeholder) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE placeholders SET semester = ?, category = ?, label = ?, credits = ? WHERE id = ?`,
		string(p.Semester), p.Category, p.Label, p.Credits, p.ID)
	if err != nil {
		return fmt.Errorf("updating placeholder: %w", err)
	}
	return nil
}

func (r *SQLitePlaceholderRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM placeholders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting placeholder: %w", err)
	}
	return nil
}

func (r *SQLitePlaceholderRepo) list(ctx context.Context, query string, args ...any) ([]domain.Placeholder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing placeholders: %w", err)
	}
	defer rows.Close()

	var out []domain.Placeholder
	for rows.Next() {
		var p domain.Placeholder
		var semester, createdAt string
		if err := rows.Scan(&p.ID, &semester, &p.Category, &p.Label, &p.Credits, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning placeholder: %w", err)
		}
		p.Semester = domain.SemesterKey(semester)
		p.CreatedAt = parseTime(createdAt)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating placeholders: %w", err)
	}
	return out, nil
}

func scanPlaceholder(row *sql.Row) (*domain.Placeholder, error) {
	var p domain.Placeholder
	var semester, createdAt string
	if err := row.Scan(&p.ID, &semester, &p.Category, &p.Label, &p.Credits, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning placeholder: %w", err)
	}
	p.Semester = domain.SemesterKey(semester)
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}
