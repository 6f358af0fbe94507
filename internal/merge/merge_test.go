package merge

import (
	"math/rand"
	"testing"

	"github.com/janmeier/studyplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grade(v float64) *float64 { return &v }

func confirmedEntry(id string, bigType string) Entry {
	return Entry{Name: "Course " + id, Credits: 4, Type: "core", Grade: grade(5), ID: id, BigType: bigType}
}

func wishlistEntry(id string, bigType string) Entry {
	return Entry{Name: "Course " + id, Credits: 4, Type: "core" + WishlistSuffix, ID: id, BigType: bigType}
}

func selection(id string) domain.Selection {
	return domain.Selection{
		CourseID:       id,
		ShortName:      "Course " + id,
		Classification: "core",
		BigType:        "core",
		Credits:        400,
	}
}

func TestReconcile_RemovalPass(t *testing.T) {
	cards := Scorecards{
		"master": {
			"FS26": []Entry{confirmedEntry("c1", "core"), wishlistEntry("w1", "core"), wishlistEntry("w2", "core")},
		},
	}
	local := map[domain.SemesterKey][]domain.Selection{
		"FS26": {selection("w1")},
	}

	out := Reconcile(cards, local)
	entries := out["master"]["FS26"]
	ids := entryIDs(entries)
	assert.Contains(t, ids, "c1", "confirmed entries are never removed")
	assert.Contains(t, ids, "w1", "still-staged wishlist entry survives")
	assert.NotContains(t, ids, "w2", "withdrawn wishlist entry is dropped")
}

func TestReconcile_AdditionPassBroadcastsToAllPrograms(t *testing.T) {
	cards := Scorecards{
		"master":   {"FS26": []Entry{confirmedEntry("c1", "core")}},
		"bachelor": {"FS26": nil},
	}
	local := map[domain.SemesterKey][]domain.Selection{
		"FS26": {selection("new")},
	}

	out := Reconcile(cards, local)
	for program := range cards {
		assert.Contains(t, entryIDs(out[program]["FS26"]), "new", "program=%s", program)
	}

	added := findEntry(t, out["master"]["FS26"], "new")
	assert.Equal(t, "Course new", added.Name)
	assert.Equal(t, 4.0, added.Credits, "cents are converted to decimal ECTS")
	assert.Equal(t, "core"+WishlistSuffix, added.Type)
	assert.Nil(t, added.Grade)
}

func TestReconcile_AdditionPassDeduplicatesByID(t *testing.T) {
	cards := Scorecards{
		"master": {"FS26": []Entry{wishlistEntry("w1", "core")}},
	}
	local := map[domain.SemesterKey][]domain.Selection{
		"FS26": {selection("w1")},
	}

	out := Reconcile(cards, local)
	count := 0
	for _, e := range out["master"]["FS26"] {
		if e.ID == "w1" {
			count++
		}
	}
	assert.Equal(t, 1, count, "re-adding a staged selection must not duplicate")
}

func TestReconcile_RoundTrip(t *testing.T) {
	cards := Scorecards{
		"master":   {"FS26": []Entry{confirmedEntry("c1", "core")}},
		"bachelor": {"FS26": nil},
	}
	withSelection := map[domain.SemesterKey][]domain.Selection{"FS26": {selection("w1")}}
	withoutSelection := map[domain.SemesterKey][]domain.Selection{}

	added := Reconcile(cards, withSelection)
	removed := Reconcile(added, withoutSelection)
	for program := range cards {
		assert.NotContains(t, entryIDs(removed[program]["FS26"]), "w1", "program=%s", program)
	}

	restored := Reconcile(removed, withSelection)
	for program := range cards {
		count := 0
		for _, e := range restored[program]["FS26"] {
			if e.ID == "w1" {
				count++
			}
		}
		assert.Equal(t, 1, count, "program=%s: exactly one restored entry", program)
	}
}

func TestReconcile_ExerciseGroupCreditsZeroed(t *testing.T) {
	cards := Scorecards{
		"master": {"HS25": []Entry{
			{Name: "Algorithms", Credits: 6, ID: "a", BigType: "core"},
			{Name: "Algorithms Exercise Group 3", Credits: 6, ID: "b", BigType: "core"},
			{Name: "Übungsgruppe Statistik", Credits: 4, ID: "c", BigType: "core"},
		}},
	}

	out := Reconcile(cards, nil)
	entries := out["master"]["HS25"]
	assert.Equal(t, 6.0, findEntry(t, entries, "a").Credits)
	assert.Equal(t, 0.0, findEntry(t, entries, "b").Credits)
	assert.Equal(t, 0.0, findEntry(t, entries, "c").Credits)
}

func TestReconcile_SortsByBigTypePriority(t *testing.T) {
	cards := Scorecards{
		"master": {"HS25": []Entry{
			{Name: "Ctx", ID: "1", BigType: "contextual"},
			{Name: "Mystery", ID: "2", BigType: "something-else"},
			{Name: "Core", ID: "3", BigType: "core"},
			{Name: "Elective", ID: "4", BigType: "elective"},
		}},
	}

	out := Reconcile(cards, nil)
	got := entryIDs(out["master"]["HS25"])
	assert.Equal(t, []string{"3", "4", "1", "2"}, got)
}

func TestReconcile_SortIsStable(t *testing.T) {
	cards := Scorecards{
		"master": {"HS25": []Entry{
			{Name: "First", ID: "1", BigType: "core"},
			{Name: "Second", ID: "2", BigType: "core"},
			{Name: "Third", ID: "3", BigType: "core"},
		}},
	}
	out := Reconcile(cards, nil)
	assert.Equal(t, []string{"1", "2", "3"}, entryIDs(out["master"]["HS25"]))
}

func TestReconcile_DoesNotMutateInput(t *testing.T) {
	original := []Entry{wishlistEntry("w1", "core"), {Name: "Exercise Group", Credits: 3, ID: "e", BigType: "contextual"}}
	cards := Scorecards{"master": {"FS26": original}}

	Reconcile(cards, nil)

	assert.Equal(t, "w1", original[0].ID, "input slice untouched")
	assert.Equal(t, 3.0, original[1].Credits, "credit zeroing must not write through to input")
}

func TestReconcile_Idempotent(t *testing.T) {
	cards := Scorecards{
		"master": {"FS26": []Entry{confirmedEntry("c1", "core"), wishlistEntry("w1", "elective")}},
	}
	local := map[domain.SemesterKey][]domain.Selection{"FS26": {selection("w1"), selection("w2")}}

	once := Reconcile(cards, local)
	twice := Reconcile(once, local)
	assert.Equal(t, once, twice)
}

func TestReconcile_PropertyInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	bigTypes := []string{"core", "elective", "contextual", "odd"}

	for trial := 0; trial < 100; trial++ {
		cards := Scorecards{"master": {}}
		sem := domain.SemesterKey("FS26")
		n := rng.Intn(10)
		var entries []Entry
		for i := 0; i < n; i++ {
			e := confirmedEntry(string(rune('a'+i)), bigTypes[rng.Intn(len(bigTypes))])
			if rng.Intn(2) == 0 {
				e.Type += WishlistSuffix
			}
			entries = append(entries, e)
		}
		cards["master"][sem] = entries

		var local []domain.Selection
		for i := 0; i < rng.Intn(5); i++ {
			local = append(local, selection(string(rune('a'+rng.Intn(12)))))
		}

		out := Reconcile(cards, map[domain.SemesterKey][]domain.Selection{sem: local})
		merged := out["master"][sem]

		// No duplicate IDs within a semester.
		seen := map[string]int{}
		for _, e := range merged {
			seen[e.ID]++
		}
		for id, c := range seen {
			assert.LessOrEqual(t, c, 1, "trial %d: duplicate id %s", trial, id)
		}

		// Priorities are non-decreasing after the sort pass.
		for i := 1; i < len(merged); i++ {
			assert.LessOrEqual(t,
				BigTypePriority(merged[i-1].BigType), BigTypePriority(merged[i].BigType),
				"trial %d: sort order violated at %d", trial, i)
		}
	}
}

func TestRestrictWishlist_KeepsStagedRowsOnMainProgramOnly(t *testing.T) {
	cards := Scorecards{
		"master": {
			"FS26": []Entry{confirmedEntry("c1", "core"), wishlistEntry("w1", "core")},
		},
		"bachelor": {
			"FS26": []Entry{confirmedEntry("c2", "core"), wishlistEntry("w1", "core")},
		},
	}

	out := RestrictWishlist(cards, "master")

	assert.Equal(t, []string{"c1", "w1"}, entryIDs(out["master"]["FS26"]))
	assert.Equal(t, []string{"c2"}, entryIDs(out["bachelor"]["FS26"]))
}

func TestRestrictWishlist_DoesNotMutateInput(t *testing.T) {
	cards := Scorecards{
		"bachelor": {
			"FS26": []Entry{wishlistEntry("w1", "core"), confirmedEntry("c1", "core")},
		},
	}

	_ = RestrictWishlist(cards, "master")

	require.Len(t, cards["bachelor"]["FS26"], 2)
	assert.True(t, cards["bachelor"]["FS26"][0].IsWishlist())
}

func TestIsExerciseGroup(t *testing.T) {
	assert.True(t, IsExerciseGroup("Algorithms Exercise Group 2"))
	assert.True(t, IsExerciseGroup("exercise group"))
	assert.True(t, IsExerciseGroup("Übungsgruppe Analysis"))
	assert.True(t, IsExerciseGroup("Übung zu Datenbanken"))
	assert.False(t, IsExerciseGroup("Group Dynamics"))
	assert.False(t, IsExerciseGroup("Exercises in Style"))
}

func TestTotalCredits(t *testing.T) {
	entries := []Entry{{Credits: 4}, {Credits: 0}, {Credits: 6.5}}
	assert.Equal(t, 10.5, TotalCredits(entries))
}

func entryIDs(entries []Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func findEntry(t *testing.T, entries []Entry, id string) Entry {
	t.Helper()
	for _, e := range entries {
		if e.ID == id {
			return e
		}
	}
	require.Failf(t, "entry not found", "id=%s", id)
	return Entry{}
}
