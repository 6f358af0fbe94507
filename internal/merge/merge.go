// Package merge reconciles the three sources of a student's per-semester
// course list: backend-confirmed scorecard entries, backend wishlist
// entries, and locally staged selections. The reconciliation runs four
// passes per program (removal, addition, credit zeroing, stable sort) and
// always returns new maps, leaving its inputs untouched.
package merge

import (
	"regexp"
	"sort"
	"strings"

	"github.com/janmeier/studyplan/internal/domain"
)

// WishlistSuffix marks entries that originate from staged selections rather
// than confirmed scorecard data.
const WishlistSuffix = "-wishlist"

// Entry is one merged per-semester course row.
type Entry struct {
	Name          string                `json:"name"`
	Credits       float64               `json:"credits"` // decimal ECTS
	Type          string                `json:"type"`    // classification, "-wishlist" suffixed for staged entries
	Grade         *float64              `json:"grade"`
	ID            string                `json:"id"`
	BigType       string                `json:"big_type"`
	CalendarEntry []domain.CalendarSlot `json:"calendarEntry"`
}

// IsWishlist reports whether the entry is staged rather than confirmed.
func (e Entry) IsWishlist() bool {
	return strings.HasSuffix(e.Type, WishlistSuffix)
}

// Scorecards maps program -> semester -> merged entries.
type Scorecards map[string]map[domain.SemesterKey][]Entry

// bigTypePriority orders entries within a semester. Unknown types sort last.
var bigTypePriority = map[string]int{
	"core":       1,
	"elective":   2,
	"contextual": 3,
}

const unknownBigTypePriority = 999

// BigTypePriority returns the sort priority for a big_type (lower first).
func BigTypePriority(bigType string) int {
	if p, ok := bigTypePriority[bigType]; ok {
		return p
	}
	return unknownBigTypePriority
}

// Exercise groups are non-credit-bearing companions to a parent course;
// their credits must not double count.
var exerciseGroupPattern = regexp.MustCompile(`(?i)exercise group|übung(?:sgruppe)?`)

// IsExerciseGroup reports whether a course name denotes an exercise group.
func IsExerciseGroup(name string) bool {
	return exerciseGroupPattern.MatchString(name)
}

// Reconcile merges locally staged selections into the backend scorecards.
// Wishlist entries whose selection was withdrawn are dropped; selections not
// yet present are appended to every program (the user has not assigned them
// to one); exercise groups are zeroed; each semester is stably sorted by
// big_type priority. The input maps are never mutated.
func Reconcile(cards Scorecards, local map[domain.SemesterKey][]domain.Selection) Scorecards {
	out := make(Scorecards, len(cards))
	for program, semesters := range cards {
		outSemesters := make(map[domain.SemesterKey][]Entry, len(semesters))
		for sem, entries := range semesters {
			outSemesters[sem] = removeWithdrawn(entries, local[sem])
		}
		// Addition pass: broadcast staged selections to this program.
		for sem, selections := range local {
			outSemesters[sem] = appendMissing(outSemesters[sem], selections)
		}
		for sem, entries := range outSemesters {
			zeroExerciseGroups(entries)
			sortByBigType(entries)
			outSemesters[sem] = entries
		}
		out[program] = outSemesters
	}
	return out
}

// RestrictWishlist copies the scorecards, keeping wishlist entries only
// under mainProgram. Staged selections are broadcast to every program by
// Reconcile; cross-program views surface them on the main program alone,
// so the other programs show just their confirmed courses. The input is
// never mutated.
func RestrictWishlist(cards Scorecards, mainProgram string) Scorecards {
	out := make(Scorecards, len(cards))
	for program, semesters := range cards {
		outSemesters := make(map[domain.SemesterKey][]Entry, len(semesters))
		for sem, entries := range semesters {
			if program == mainProgram {
				outSemesters[sem] = append([]Entry(nil), entries...)
				continue
			}
			kept := make([]Entry, 0, len(entries))
			for _, e := range entries {
				if e.IsWishlist() {
					continue
				}
				kept = append(kept, e)
			}
			outSemesters[sem] = kept
		}
		out[program] = outSemesters
	}
	return out
}

// removeWithdrawn copies entries, dropping wishlist rows whose ID no longer
// appears among the semester's staged selections. Confirmed entries are
// never removed.
func removeWithdrawn(entries []Entry, selections []domain.Selection) []Entry {
	staged := make(map[string]bool, len(selections))
	for _, sel := range selections {
		staged[sel.CourseID] = true
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsWishlist() && !staged[e.ID] {
			continue
		}
		out = append(out, e)
	}
	return out
}

// appendMissing adds an entry for each staged selection not already present
// in the list, deduplicated by ID.
func appendMissing(entries []Entry, selections []domain.Selection) []Entry {
	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		present[e.ID] = true
	}
	for _, sel := range selections {
		if present[sel.CourseID] {
			continue
		}
		present[sel.CourseID] = true
		entries = append(entries, Entry{
			Name:    domain.CoalesceStr(sel.ShortName, sel.CourseID),
			Credits: float64(sel.Credits) / 100,
			Type:    sel.Classification + WishlistSuffix,
			Grade:   nil,
			ID:      sel.CourseID,
			BigType: sel.BigType,
		})
	}
	return entries
}

func zeroExerciseGroups(entries []Entry) {
	for i := range entries {
		if IsExerciseGroup(entries[i].Name) {
			entries[i].Credits = 0
		}
	}
}

func sortByBigType(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return BigTypePriority(entries[i].BigType) < BigTypePriority(entries[j].BigType)
	})
}

// TotalCredits sums the credits of a merged semester list.
func TotalCredits(entries []Entry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Credits
	}
	return total
}
