package repository

import (
	"context"
	"testing"
	"time"

	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomGradeRepo_UpsertHonorsCallerTimestamp(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteCustomGradeRepo(database)
	ctx := context.Background()

	stamp := time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, &domain.CustomGrade{
		ShortName: "Algo",
		Grade:     5.5,
		UpdatedAt: stamp,
	}))

	got, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Algo", got[0].ShortName)
	assert.InDelta(t, 5.5, got[0].Grade, 1e-9)
	assert.True(t, got[0].UpdatedAt.Equal(stamp), "stored %v, want %v", got[0].UpdatedAt, stamp)
}

func TestCustomGradeRepo_UpsertDefaultsZeroTimestamp(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteCustomGradeRepo(database)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	require.NoError(t, repo.Upsert(ctx, &domain.CustomGrade{ShortName: "DB", Grade: 4}))

	got, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].UpdatedAt.IsZero())
	assert.False(t, got[0].UpdatedAt.Before(before))
}

func TestCustomGradeRepo_UpsertReplacesAndDelete(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteCustomGradeRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &domain.CustomGrade{ShortName: "Algo", Grade: 4}))
	require.NoError(t, repo.Upsert(ctx, &domain.CustomGrade{ShortName: "Algo", Grade: 6}))

	got, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1, "same short name must not duplicate")
	assert.InDelta(t, 6.0, got[0].Grade, 1e-9)

	require.NoError(t, repo.Delete(ctx, "Algo"))
	got, err = repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
