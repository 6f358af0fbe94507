package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/janmeier/studyplan/internal/db"
	"github.com/janmeier/studyplan/internal/domain"
)

// SQLiteSelectionRepo implements SelectionRepo on a SQLite database.
type SQLiteSelectionRepo struct {
	db db.DBTX
}

// NewSQLiteSelectionRepo creates a new SQLiteSelectionRepo.
func NewSQLiteSelectionRepo(database *sql.DB) *SQLiteSelectionRepo {
	return &SQLiteSelectionRepo{db: database}
}

func (r *SQLiteSelectionRepo) WithTx(tx db.DBTX) SelectionRepo {
	return &SQLiteSelectionRepo{db: tx}
}

const selectionColumns = `course_id, semester, category, short_name, classification, big_type, credits, status, added_at`

func (r *SQLiteSelectionRepo) Add(ctx context.Context, sel *domain.Selection) error {
	query := `INSERT INTO selections (` + selectionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(course_id, semester) DO UPDATE SET
			category = excluded.category,
			short_name = excluded.short_name,
			classification = excluded.classification,
			big_type = excluded.big_type,
			credits = excluded.credits,
			status = excluded.status`
	status := sel.Status
	if status == "" {
		status = domain.CoursePlanned
	}
	addedAt := sel.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, query,
		sel.CourseID,
		string(sel.Semester),
		sel.Category,
		sel.ShortName,
		sel.Classification,
		sel.BigType,
		sel.Credits,
		string(status),
		addedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting selection: %w", err)
	}
	return nil
}

func (r *SQLiteSelectionRepo) Remove(ctx context.Context, courseID string, semester domain.SemesterKey) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM selections WHERE course_id = ? AND semester = ?`,
		courseID, string(semester))
	if err != nil {
		return fmt.Errorf("deleting selection: %w", err)
	}
	return nil
}

func (r *SQLiteSelectionRepo) ListBySemester(ctx context.Context, semester domain.SemesterKey) ([]domain.Selection, error) {
	query := `SELECT ` + selectionColumns + ` FROM selections WHERE semester = ? ORDER BY added_at, course_id`
	rows, err := r.db.QueryContext(ctx, query, string(semester))
	if err != nil {
		return nil, fmt.Errorf("listing selections: %w", err)
	}
	defer rows.Close()
	return scanSelections(rows)
}

func (r *SQLiteSelectionRepo) ListAll(ctx context.Context) (map[domain.SemesterKey][]domain.Selection, error) {
	query := `SELECT ` + selectionColumns + ` FROM selections ORDER BY semester, added_at, course_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing selections: %w", err)
	}
	defer rows.Close()

	all, err := scanSelections(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[domain.SemesterKey][]domain.Selection)
	for _, sel := range all {
		out[sel.Semester] = append(out[sel.Semester], sel)
	}
	return out, nil
}

func scanSelections(rows *sql.Rows) ([]domain.Selection, error) {
	var out []domain.Selection
	for rows.Next() {
		var sel domain.Selection
		var semester, status, addedAt string
		if err := rows.Scan(
			&sel.CourseID, &semester, &sel.Category, &sel.ShortName,
			&sel.Classification, &sel.BigType, &sel.Credits, &status, &addedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning selection: %w", err)
		}
		sel.Semester = domain.SemesterKey(semester)
		sel.Status = domain.CourseStatus(status)
		sel.AddedAt = parseTime(addedAt)
		out = append(out, sel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating selections: %w", err)
	}
	return out, nil
}
