package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/janmeier/studyplan/internal/domain"
)

// SQLiteCustomGradeRepo implements CustomGradeRepo on a SQLite database.
type SQLiteCustomGradeRepo struct {
	db *sql.DB
}

// NewSQLiteCustomGradeRepo creates a new SQLiteCustomGradeRepo.
func NewSQLiteCustomGradeRepo(database *sql.DB) *SQLiteCustomGradeRepo {
	return &SQLiteCustomGradeRepo{db: database}
}

func (r *SQLiteCustomGradeRepo) Upsert(ctx context.Context, g *domain.CustomGrade) error {
	updatedAt := g.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO custom_grades (short_name, grade, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(short_name) DO UPDATE SET grade = excluded.grade, updated_at = excluded.updated_at`,
		g.ShortName, g.Grade, updatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upserting custom grade: %w", err)
	}
	return nil
}

func (r *SQLiteCustomGradeRepo) Delete(ctx context.Context, shortName string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM custom_grades WHERE short_name = ?`, shortName)
	if err != nil {
		return fmt.Errorf("deleting custom grade: %w", err)
	}
	return nil
}

func (r *SQLiteCustomGradeRepo) ListAll(ctx context.Context) ([]domain.CustomGrade, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT short_name, grade, updated_at FROM custom_grades ORDER BY short_name`)
	if err != nil {
		return nil, fmt.Errorf("listing custom grades: %w", err)
	}
	defer rows.Close()

	var out []domain.CustomGrade
	for rows.Next() {
		var g domain.CustomGrade
		var updatedAt string
		if err := rows.Scan(&g.ShortName, &g.Grade, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning custom grade: %w", err)
		}
		g.UpdatedAt = parseTime(updatedAt)
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating custom grades: %w", err)
	}
	return out, nil
}
