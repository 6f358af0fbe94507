package domain

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// Numeric is a float that tolerates the scorecard API's mixed encodings:
// JSON numbers, numeric strings, empty strings, literal "NaN" and null.
// Unparseable input leaves Valid false and contributes nothing to sums.
type Numeric struct {
	Value float64
	Valid bool
}

func (n *Numeric) UnmarshalJSON(b []byte) error {
	n.Value, n.Valid = 0, false
	s := string(bytes.Trim(bytes.TrimSpace(b), `"`))
	if s == "" || s == "null" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n.Value, n.Valid = f, true
	return nil
}

func (n Numeric) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

// Num builds a valid Numeric, mainly for tests and fixtures.
func Num(v float64) Numeric {
	return Numeric{Value: v, Valid: true}
}

// ScorecardItem is a node in the official transcript tree. Title nodes group
// child items; a title node with no items is a placeholder category (an
// unfilled slot such as a thesis) whose MaxCredits count toward the total.
type ScorecardItem struct {
	IsTitle      bool            `json:"isTitle"`
	Items        []ScorecardItem `json:"items"`
	SumOfCredits Numeric         `json:"sumOfCredits"`
	Mark         Numeric         `json:"mark"`
	GradeText    string          `json:"gradeText"`
	Description  string          `json:"description"`
	ShortName    string          `json:"shortName"`
	MaxCredits   Numeric         `json:"maxCredits"`
	Semester     SemesterKey     `json:"semester"`
}

// CreditSummary holds the accumulated totals of a scorecard tree walk.
type CreditSummary struct {
	TotalCredits    float64
	GradeSum        float64 // sum of mark*credits over gradable leaves
	FilteredCredits float64 // credits of gradable leaves only
	CustomGradeSum  float64 // GradeSum with per-course overrides applied
	CustomECTSSum   float64 // same inclusion set as FilteredCredits
}

// GradeLookup supplies a hypothetical grade override for a course shortName.
type GradeLookup func(shortName string) (float64, bool)

// Categories whose credits never enter grade averages.
var ungradedCategories = map[string]bool{
	"Campus Credits":   true,
	"Practice Credits": true,
}

// AggregateCredits walks the scorecard tree and accumulates credit and grade
// totals. The walk never mutates items. Pass/fail leaves (GradeText
// containing "p") and the ungraded categories count toward TotalCredits but
// are excluded from every grade sum. An override from customGrade replaces
// the mark used for CustomGradeSum without changing which leaves count.
func AggregateCredits(items []ScorecardItem, customGrade GradeLookup) CreditSummary {
	var sum CreditSummary
	aggregateInto(&sum, items, customGrade)
	return sum
}

func aggregateInto(sum *CreditSummary, items []ScorecardItem, customGrade GradeLookup) {
	for i := range items {
		item := &items[i]
		if item.IsTitle {
			if len(item.Items) == 0 {
				// Placeholder category: reserved credits, no grade.
				if item.MaxCredits.Valid {
					sum.TotalCredits += item.MaxCredits.Value
				}
				continue
			}
			aggregateInto(sum, item.Items, customGrade)
			continue
		}

		if item.SumOfCredits.Valid {
			sum.TotalCredits += item.SumOfCredits.Value
		}
		if ungradedCategories[item.Description] || strings.Contains(strings.ToLower(item.GradeText), "p") {
			continue
		}
		if !item.SumOfCredits.Valid || !item.Mark.Valid {
			continue
		}
		credits := item.SumOfCredits.Value
		sum.FilteredCredits += credits
		sum.GradeSum += item.Mark.Value * credits

		mark := item.Mark.Value
		if customGrade != nil {
			if override, ok := customGrade(item.ShortName); ok {
				mark = override
			}
		}
		sum.CustomGradeSum += mark * credits
		sum.CustomECTSSum += credits
	}
}

// GradeAverage returns GradeSum / FilteredCredits, or 0 when no gradable
// credits were accumulated.
func (s CreditSummary) GradeAverage() float64 {
	if s.FilteredCredits == 0 {
		return 0
	}
	return s.GradeSum / s.FilteredCredits
}

// CustomGradeAverage returns CustomGradeSum / CustomECTSSum, or 0 when no
// gradable credits were accumulated.
func (s CreditSummary) CustomGradeAverage() float64 {
	if s.CustomECTSSum == 0 {
		return 0
	}
	return s.CustomGradeSum / s.CustomECTSSum
}

// SemesterCredits sums the credits of a flat leaf list, skipping items with
// no parseable credit value.
func SemesterCredits(items []ScorecardItem) float64 {
	var total float64
	for _, item := range items {
		if item.SumOfCredits.Valid {
			total += item.SumOfCredits.Value
		}
	}
	return total
}
