package repository

import (
	"context"
	"testing"

	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func domainKey(s string) domain.SemesterKey { return domain.SemesterKey(s) }

func TestPlaceholderRepo_CreateAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlaceholderRepo(database)
	ctx := context.Background()

	p := testutil.NewTestPlaceholder("FS26", "Core")
	require.NoError(t, repo.Create(ctx, &p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Elective slot", got.Label)
	assert.Equal(t, 6.0, got.Credits)
	assert.Equal(t, domainKey("FS26"), got.Semester)
}

func TestPlaceholderRepo_GetByID_Missing(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlaceholderRepo(database)

	got, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err, "absence is not an error")
	assert.Nil(t, got)
}

func TestPlaceholderRepo_UpdateMovesCell(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlaceholderRepo(database)
	ctx := context.Background()

	p := testutil.NewTestPlaceholder("FS26", "Core")
	require.NoError(t, repo.Create(ctx, &p))

	p.Semester = "HS26"
	p.Category = "Electives"
	require.NoError(t, repo.Update(ctx, &p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domainKey("HS26"), got.Semester)
	assert.Equal(t, "Electives", got.Category)

	inOld, err := repo.ListBySemester(ctx, "FS26")
	require.NoError(t, err)
	assert.Empty(t, inOld, "placeholder belongs to exactly one cell")
}

func TestPlaceholderRepo_Delete(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlaceholderRepo(database)
	ctx := context.Background()

	p := testutil.NewTestPlaceholder("FS26", "Core")
	require.NoError(t, repo.Create(ctx, &p))
	require.NoError(t, repo.Delete(ctx, p.ID))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, repo.Delete(ctx, "ghost"), "deleting an absent id is a no-op")
}

func TestCustomGradeRepo_UpsertAndList(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteCustomGradeRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &domain.CustomGrade{ShortName: "Algo", Grade: 5.5}))
	require.NoError(t, repo.Upsert(ctx, &domain.CustomGrade{ShortName: "Algo", Grade: 4.5}))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 4.5, all[0].Grade)

	require.NoError(t, repo.Delete(ctx, "Algo"))
	all, err = repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTermRepo_ReplaceAllAndList(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTermRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, testutil.NewTestTermList()))

	got, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 7)

	current := 0
	for _, term := range got {
		if term.IsCurrent {
			current++
			assert.Equal(t, domainKey("HS25"), term.ShortName)
		}
	}
	assert.Equal(t, 1, current)

	// Replacing again must not accumulate rows.
	require.NoError(t, repo.ReplaceAll(ctx, testutil.NewTestTermList()[:3]))
	got, err = repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
