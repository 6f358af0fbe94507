// Package projection derives the unified per-semester academic view: which
// semesters are future relative to the latest term with confirmed data,
// which reference semester a future term borrows its catalog from, and how
// staged course selections are enriched with catalog data for display.
package projection

import (
	"sort"
	"strings"
	"time"

	"github.com/janmeier/studyplan/internal/domain"
)

// TermInfo is one entry of the university's term list.
type TermInfo struct {
	ShortName domain.SemesterKey `json:"shortName"`
	ID        string             `json:"id"`
	CISID     string             `json:"cisId"`
	IsCurrent bool               `json:"isCurrent"`
}

// SortTerms returns the terms in canonical chronological order without
// mutating the input.
func SortTerms(terms []TermInfo) []TermInfo {
	sorted := make([]TermInfo, len(terms))
	copy(sorted, terms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return domain.CompareSemesters(sorted[i].ShortName, sorted[j].ShortName) < 0
	})
	return sorted
}

// CurrentTerm picks the current semester. The API-supplied isCurrent flag is
// authoritative; the date-based algebra is only the fallback when no term
// carries the flag.
func CurrentTerm(terms []TermInfo, now time.Time) domain.SemesterKey {
	for _, t := range terms {
		if t.IsCurrent {
			return t.ShortName
		}
	}
	return domain.CurrentSemester(now)
}

// IsFutureSemester reports whether key sits strictly after latestValidTerm
// in the canonically sorted term list. Keys absent from the list are
// compared by the algebra directly.
func IsFutureSemester(key domain.SemesterKey, terms []TermInfo, latestValidTerm domain.SemesterKey) bool {
	sorted := SortTerms(terms)
	keyPos, keyFound := termPosition(sorted, key)
	latestPos, latestFound := termPosition(sorted, latestValidTerm)
	if keyFound && latestFound {
		return keyPos > latestPos
	}
	return domain.CompareSemesters(key, latestValidTerm) > 0
}

func termPosition(sorted []TermInfo, key domain.SemesterKey) (int, bool) {
	for i, t := range sorted {
		if t.ShortName == key {
			return i, true
		}
	}
	return 0, false
}

// ReferenceSemester picks the term a future semester borrows catalog data
// from: same season of the previous year if the term list knows it, else the
// opposite season of the previous year, else latestValidTerm.
func ReferenceSemester(key domain.SemesterKey, terms []TermInfo, latestValidTerm domain.SemesterKey) domain.SemesterKey {
	s, err := domain.ParseSemester(key)
	if err != nil {
		return latestValidTerm
	}
	prevYear := (s.Year + 99) % 100

	sameSeason := domain.Semester{Season: s.Season, Year: prevYear}.Key()
	if termListContains(terms, sameSeason) {
		return sameSeason
	}
	opposite := domain.SeasonFall
	if s.Season == domain.SeasonFall {
		opposite = domain.SeasonSpring
	}
	otherSeason := domain.Semester{Season: opposite, Year: prevYear}.Key()
	if termListContains(terms, otherSeason) {
		return otherSeason
	}
	return latestValidTerm
}

func termListContains(terms []TermInfo, key domain.SemesterKey) bool {
	for _, t := range terms {
		if t.ShortName == key {
			return true
		}
	}
	return false
}

// AttachRatings returns a copy of courses with AvgRating filled in from the
// ratings map wherever the course itself carries none. Courses already
// holding a rating keep it.
func AttachRatings(courses []domain.RawCourse, ratings map[string]float64) []domain.RawCourse {
	if len(ratings) == 0 {
		return courses
	}
	out := make([]domain.RawCourse, len(courses))
	copy(out, courses)
	for i := range out {
		if out[i].AvgRating != nil {
			continue
		}
		if r, ok := domain.RatingFor(&out[i], ratings); ok {
			out[i].AvgRating = &r
		}
	}
	return out
}

// Program identifies one program of study the student is enrolled in.
type Program struct {
	ID     string
	Name   string
	IsMain bool
}

// MainProgram selects the program whose staged selections are surfaced in
// cross-program views: an explicitly flagged main program first, else one
// whose identifier mentions "master", else "bachelor", else the first.
// Returns false when programs is empty.
func MainProgram(programs []Program) (Program, bool) {
	if len(programs) == 0 {
		return Program{}, false
	}
	for _, p := range programs {
		if p.IsMain {
			return p, true
		}
	}
	for _, substr := range []string{"master", "bachelor"} {
		for _, p := range programs {
			if containsFold(p.ID, substr) || containsFold(p.Name, substr) {
				return p, true
			}
		}
	}
	return programs[0], true
}

// EnrichedSelection is a staged course selection resolved against the
// available-course catalog for display.
type EnrichedSelection struct {
	CourseID       string
	Category       string
	ShortName      string
	Classification string
	CreditsECTS    float64
	IsEnriched     bool
}

// CatalogLookup finds a course by canonical ID in some semester's catalog.
type CatalogLookup func(semester domain.SemesterKey, courseID string) (domain.RawCourse, bool)

// EnrichSelections resolves each staged selection against the catalogs of,
// in order: its own semester, the semester's reference semester, and the
// current term. Selections that resolve nowhere still yield a minimal entry
// with IsEnriched false rather than being dropped.
func EnrichSelections(
	selections []domain.Selection,
	semester domain.SemesterKey,
	reference domain.SemesterKey,
	current domain.SemesterKey,
	lookup CatalogLookup,
) []EnrichedSelection {
	out := make([]EnrichedSelection, 0, len(selections))
	for _, sel := range selections {
		enriched := EnrichedSelection{
			CourseID:   sel.CourseID,
			Category:   sel.Category,
			ShortName:  domain.CoalesceStr(sel.ShortName, sel.CourseID),
			IsEnriched: false,
		}
		for _, sem := range []domain.SemesterKey{semester, reference, current} {
			if sem == "" || lookup == nil {
				continue
			}
			course, ok := lookup(sem, sel.CourseID)
			if !ok {
				continue
			}
			enriched.ShortName = domain.CoalesceStr(course.ShortName, course.Title, enriched.ShortName)
			enriched.Classification = course.Classification
			enriched.CreditsECTS = course.ECTS()
			enriched.IsEnriched = true
			break
		}
		if !enriched.IsEnriched && sel.Credits > 0 {
			enriched.CreditsECTS = float64(sel.Credits) / 100
			enriched.Classification = sel.Classification
		}
		out = append(out, enriched)
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
