package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janmeier/studyplan/internal/testutil"
)

func TestTranscripts_AggregatesPerProgram(t *testing.T) {
	f := newFixture(t)
	f.client.scorecards["master"] = testutil.NewTestScorecardTree()

	out, err := f.transcript.Transcripts(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)

	tr := out[0]
	assert.Equal(t, "master", tr.Program)
	// 4 + 6 graded leaves plus the 12-credit thesis slot.
	assert.InDelta(t, 22.0, tr.Summary.TotalCredits, 1e-9)
	assert.InDelta(t, 4.7, tr.GradeAverage, 1e-9)
	assert.InDelta(t, 4.0, tr.SemesterCredit["HS24"], 1e-9)
	assert.InDelta(t, 6.0, tr.SemesterCredit["FS25"], 1e-9)
}

func TestTranscripts_AppliesStoredCustomGrades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.client.scorecards["master"] = testutil.NewTestScorecardTree()

	require.NoError(t, f.transcript.SetCustomGrade(ctx, "Algo", 6))

	out, err := f.transcript.Transcripts(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)

	// (6*4 + 4.5*6) / 10; the official average is untouched.
	assert.InDelta(t, 5.1, out[0].SimulatedAvg, 1e-9)
	assert.InDelta(t, 4.7, out[0].GradeAverage, 1e-9)
}

func TestSetCustomGrade_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Error(t, f.transcript.SetCustomGrade(ctx, "", 5))
	assert.Error(t, f.transcript.SetCustomGrade(ctx, "Algo", 0.5))
	assert.Error(t, f.transcript.SetCustomGrade(ctx, "Algo", 6.5))
	assert.NoError(t, f.transcript.SetCustomGrade(ctx, "Algo", 4.25))
}

func TestClearCustomGrade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.transcript.SetCustomGrade(ctx, "Algo", 5.5))
	require.NoError(t, f.transcript.ClearCustomGrade(ctx, "Algo"))

	grades, err := f.transcript.ListCustomGrades(ctx)
	require.NoError(t, err)
	assert.Empty(t, grades)
}

func TestMerged_StagedSelectionsSurfaceOnMainProgramOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.client.scorecards["master"] = testutil.NewTestScorecardTree()
	f.client.scorecards["bachelor"] = nil

	sel := testutil.NewTestSelection("c-new", "HS26")
	require.NoError(t, f.selections.Add(ctx, &sel))

	merged, err := f.transcript.Merged(ctx)
	require.NoError(t, err)
	require.Len(t, merged, 2)

	// "master" wins main-program selection; its wishlist row survives.
	entries := merged["master"]["HS26"]
	require.Len(t, entries, 1)
	assert.Equal(t, "c-new", entries[0].ID)
	assert.True(t, entries[0].IsWishlist())

	// The other program shows only its own confirmed courses.
	assert.Empty(t, merged["bachelor"]["HS26"])

	// Confirmed rows survive untouched.
	hs24 := merged["master"]["HS24"]
	require.Len(t, hs24, 1)
	assert.Equal(t, "Algo", hs24[0].ID)
	assert.False(t, hs24[0].IsWishlist())
}

func TestMerged_ConfirmedEntriesKeepGrades(t *testing.T) {
	f := newFixture(t)
	f.client.scorecards["master"] = testutil.NewTestScorecardTree()

	merged, err := f.transcript.Merged(context.Background())
	require.NoError(t, err)

	fs25 := merged["master"]["FS25"]
	require.Len(t, fs25, 1)
	require.NotNil(t, fs25[0].Grade)
	assert.InDelta(t, 4.5, *fs25[0].Grade, 1e-9)
	assert.InDelta(t, 6.0, fs25[0].Credits, 1e-9)
}

