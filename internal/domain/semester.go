package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// SemesterKey identifies an academic term as season plus two-digit year,
// e.g. "FS25" (spring 2025) or "HS24" (fall 2024).
type SemesterKey string

type Season string

const (
	SeasonSpring Season = "FS"
	SeasonFall   Season = "HS"
)

var semesterKeyPattern = regexp.MustCompile(`^(FS|HS)([0-9]{2})$`)

// Semester is the parsed form of a SemesterKey.
type Semester struct {
	Season Season
	Year   int // two-digit year as written in the key
}

// ParseSemester parses a key of the form FS{YY} or HS{YY}.
func ParseSemester(key SemesterKey) (Semester, error) {
	m := semesterKeyPattern.FindStringSubmatch(string(key))
	if m == nil {
		return Semester{}, fmt.Errorf("invalid semester key %q (want FS{YY} or HS{YY})", key)
	}
	year, _ := strconv.Atoi(m[2])
	return Semester{Season: Season(m[1]), Year: year}, nil
}

// Key returns the canonical string form of the semester.
func (s Semester) Key() SemesterKey {
	return SemesterKey(fmt.Sprintf("%s%02d", s.Season, s.Year))
}

// FullYear expands the two-digit year: values below 50 are 20xx, the rest 19xx.
func (s Semester) FullYear() int {
	if s.Year < 50 {
		return 2000 + s.Year
	}
	return 1900 + s.Year
}

// CompareSemesters orders two keys chronologically: full year first, then
// spring before fall within the same year. Returns -1, 0 or 1.
// Unparseable keys sort before everything else.
func CompareSemesters(a, b SemesterKey) int {
	sa, errA := ParseSemester(a)
	sb, errB := ParseSemester(b)
	if errA != nil || errB != nil {
		switch {
		case errA != nil && errB != nil:
			return 0
		case errA != nil:
			return -1
		default:
			return 1
		}
	}
	if sa.FullYear() != sb.FullYear() {
		if sa.FullYear() < sb.FullYear() {
			return -1
		}
		return 1
	}
	if sa.Season == sb.Season {
		return 0
	}
	if sa.Season == SeasonSpring {
		return -1
	}
	return 1
}

// NextSemester returns the immediate successor: FS{Y} -> HS{Y}, HS{Y} -> FS{Y+1}.
func NextSemester(key SemesterKey) (SemesterKey, error) {
	s, err := ParseSemester(key)
	if err != nil {
		return "", err
	}
	if s.Season == SeasonSpring {
		s.Season = SeasonFall
	} else {
		s.Season = SeasonSpring
		s.Year = (s.Year + 1) % 100
	}
	return s.Key(), nil
}

// CurrentSemester maps wall-clock time onto a term. September through
// December belong to the fall term of that year; January and February still
// belong to the fall term that started the previous calendar year; March
// through August belong to the spring term of the current year.
func CurrentSemester(now time.Time) SemesterKey {
	year := now.Year()
	switch m := now.Month(); {
	case m >= time.September:
		return Semester{Season: SeasonFall, Year: year % 100}.Key()
	case m <= time.February:
		return Semester{Season: SeasonFall, Year: (year - 1) % 100}.Key()
	default:
		return Semester{Season: SeasonSpring, Year: year % 100}.Key()
	}
}

// SemesterStatus classifies a term relative to wall-clock time.
type SemesterStatus string

const (
	SemesterCompleted SemesterStatus = "completed"
	SemesterCurrent   SemesterStatus = "current"
	SemesterFuture    SemesterStatus = "future"
)

// StatusOf classifies key against the current term derived from now.
func StatusOf(key SemesterKey, now time.Time) SemesterStatus {
	switch c := CompareSemesters(key, CurrentSemester(now)); {
	case c < 0:
		return SemesterCompleted
	case c == 0:
		return SemesterCurrent
	default:
		return SemesterFuture
	}
}

// IsCompleted reports whether key lies strictly before the current term.
// Completed semesters reject all plan mutations.
func IsCompleted(key SemesterKey, now time.Time) bool {
	return CompareSemesters(key, CurrentSemester(now)) < 0
}

// IsSyncable reports whether key may receive live enrollment syncing:
// only the current term and its immediate successor qualify.
func IsSyncable(key SemesterKey, now time.Time) bool {
	current := CurrentSemester(now)
	if key == current {
		return true
	}
	next, err := NextSemester(current)
	if err != nil {
		return false
	}
	return key == next
}
