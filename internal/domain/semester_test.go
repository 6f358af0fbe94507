package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSemester(t *testing.T) {
	s, err := ParseSemester("FS25")
	require.NoError(t, err)
	assert.Equal(t, SeasonSpring, s.Season)
	assert.Equal(t, 25, s.Year)
	assert.Equal(t, SemesterKey("FS25"), s.Key())

	s, err = ParseSemester("HS99")
	require.NoError(t, err)
	assert.Equal(t, SeasonFall, s.Season)
	assert.Equal(t, 1999, s.FullYear())
}

func TestParseSemester_Invalid(t *testing.T) {
	for _, key := range []SemesterKey{"", "FS2025", "SS25", "fs25", "FS2", "XX"} {
		_, err := ParseSemester(key)
		assert.Error(t, err, "key=%s", key)
	}
}

func TestCompareSemesters(t *testing.T) {
	cases := []struct {
		a, b SemesterKey
		want int
	}{
		{"FS25", "FS25", 0},
		{"FS25", "HS25", -1},
		{"HS25", "FS25", 1},
		{"HS24", "FS25", -1},
		{"FS26", "HS25", 1},
		{"HS99", "FS00", -1}, // 1999 before 2000
		{"FS49", "HS50", 1},  // 2049 after 1950
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CompareSemesters(tc.a, tc.b), "%s vs %s", tc.a, tc.b)
	}
}

func TestCompareSemesters_StrictTotalOrder(t *testing.T) {
	keys := []SemesterKey{"FS23", "HS23", "FS24", "HS24", "FS25", "HS25", "FS26"}
	for i, a := range keys {
		assert.Equal(t, 0, CompareSemesters(a, a))
		for j, b := range keys {
			// Antisymmetry against the known ordering.
			switch {
			case i < j:
				assert.Equal(t, -1, CompareSemesters(a, b), "%s < %s", a, b)
				assert.Equal(t, 1, CompareSemesters(b, a))
			case i > j:
				assert.Equal(t, 1, CompareSemesters(a, b), "%s > %s", a, b)
			}
			// Transitivity over every triple.
			for _, c := range keys {
				if CompareSemesters(a, b) < 0 && CompareSemesters(b, c) < 0 {
					assert.Equal(t, -1, CompareSemesters(a, c), "%s < %s < %s", a, b, c)
				}
			}
		}
	}
}

func TestNextSemester(t *testing.T) {
	next, err := NextSemester("FS25")
	require.NoError(t, err)
	assert.Equal(t, SemesterKey("HS25"), next)

	next, err = NextSemester("HS25")
	require.NoError(t, err)
	assert.Equal(t, SemesterKey("FS26"), next)

	next, err = NextSemester("HS99")
	require.NoError(t, err)
	assert.Equal(t, SemesterKey("FS00"), next)

	_, err = NextSemester("bogus")
	assert.Error(t, err)
}

func TestCurrentSemester(t *testing.T) {
	cases := []struct {
		month time.Month
		year  int
		want  SemesterKey
	}{
		{time.January, 2025, "HS24"}, // fall term wraps the year boundary
		{time.February, 2025, "HS24"},
		{time.March, 2025, "FS25"},
		{time.June, 2025, "FS25"},
		{time.August, 2025, "FS25"},
		{time.September, 2025, "HS25"},
		{time.December, 2025, "HS25"},
	}
	for _, tc := range cases {
		now := time.Date(tc.year, tc.month, 15, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, tc.want, CurrentSemester(now), "month=%s", tc.month)
	}
}

func TestStatusOf(t *testing.T) {
	now := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC) // HS25
	assert.Equal(t, SemesterCompleted, StatusOf("FS25", now))
	assert.Equal(t, SemesterCurrent, StatusOf("HS25", now))
	assert.Equal(t, SemesterFuture, StatusOf("FS26", now))
}

func TestIsCompletedAndIsSyncable_MutuallyExclusive(t *testing.T) {
	now := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC) // HS25
	keys := []SemesterKey{"FS24", "HS24", "FS25", "HS25", "FS26", "HS26", "FS27"}
	for _, k := range keys {
		assert.False(t, IsCompleted(k, now) && IsSyncable(k, now),
			"%s cannot be both completed and syncable", k)
	}
}

func TestIsSyncable(t *testing.T) {
	now := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC) // HS25
	assert.True(t, IsSyncable("HS25", now), "current term")
	assert.True(t, IsSyncable("FS26", now), "immediate successor")
	assert.False(t, IsSyncable("HS26", now), "two terms ahead")
	assert.False(t, IsSyncable("FS25", now), "completed term")
}
