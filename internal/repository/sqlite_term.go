package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/projection"
)

// SQLiteTermRepo caches the university term list for offline startup.
type SQLiteTermRepo struct {
	db *sql.DB
}

// NewSQLiteTermRepo creates a new SQLiteTermRepo.
func NewSQLiteTermRepo(database *sql.DB) *SQLiteTermRepo {
	return &SQLiteTermRepo{db: database}
}

func (r *SQLiteTermRepo) ReplaceAll(ctx context.Context, terms []projection.TermInfo) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning term replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM terms`); err != nil {
		return fmt.Errorf("clearing terms: %w", err)
	}
	for _, t := range terms {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO terms (short_name, term_id, cis_id, is_current) VALUES (?, ?, ?, ?)`,
			string(t.ShortName), t.ID, t.CISID, boolToInt(t.IsCurrent)); err != nil {
			return fmt.Errorf("inserting term %s: %w", t.ShortName, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing term replace: %w", err)
	}
	return nil
}

func (r *SQLiteTermRepo) ListAll(ctx context.Context) ([]projection.TermInfo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT short_name, term_id, cis_id, is_current FROM terms ORDER BY short_name`)
	if err != nil {
		return nil, fmt.Errorf("listing terms: %w", err)
	}
	defer rows.Close()

	var out []projection.TermInfo
	for rows.Next() {
		var t projection.TermInfo
		var shortName string
		var isCurrent int
		if err := rows.Scan(&shortName, &t.ID, &t.CISID, &isCurrent); err != nil {
			return nil, fmt.Errorf("scanning term: %w", err)
		}
		t.ShortName = domain.SemesterKey(shortName)
		t.IsCurrent = isCurrent != 0
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating terms: %w", err)
	}
	return out, nil
}
