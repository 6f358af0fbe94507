package formatter

import (
	"fmt"
	"strings"

	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/merge"
	"github.com/janmeier/studyplan/internal/service"
)

// SemesterTable renders the academic overview as one row per semester.
func SemesterTable(views []service.SemesterView, selected domain.SemesterKey) string {
	headers := []string{"", "Semester", "Status", "Enrolled", "Planned", "Reserved"}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		marker := " "
		if v.Key == selected {
			marker = StyleHeader.Render("▸")
		}
		sem := string(v.Key)
		if v.IsFuture && v.Reference != "" {
			sem += StyleDim.Render(fmt.Sprintf(" (ref %s)", v.Reference))
		}
		rows = append(rows, []string{
			marker,
			sem,
			StatusIndicator(v.Status),
			fmt.Sprintf("%d / %s", v.EnrolledCount, ECTS(v.EnrolledECTS)),
			ECTS(v.SelectedECTS),
			ECTS(v.ReservedECTS),
		})
	}
	return RenderTable(headers, rows)
}

// SemesterDetail renders one semester's staged selections and placeholders.
func SemesterDetail(v service.SemesterView) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(string(v.Key)) + "  " + StatusIndicator(v.Status) + "\n\n")

	if len(v.Selections) == 0 && len(v.Placeholders) == 0 {
		b.WriteString(StyleDim.Render("Nothing planned yet.") + "\n")
		return b.String()
	}

	if len(v.Selections) > 0 {
		rows := make([][]string, 0, len(v.Selections))
		for _, sel := range v.Selections {
			name := sel.ShortName
			if !sel.IsEnriched {
				name += StyleDim.Render(" (not in catalog)")
			}
			rows = append(rows, []string{
				sel.CourseID,
				name,
				sel.Category,
				sel.Classification,
				ECTS(sel.CreditsECTS),
			})
		}
		b.WriteString(RenderTable([]string{"ID", "Course", "Category", "Type", "Credits"}, rows))
	}

	if len(v.Placeholders) > 0 {
		b.WriteString("\n" + StyleHeader.Render("Placeholders") + "\n")
		rows := make([][]string, 0, len(v.Placeholders))
		for _, p := range v.Placeholders {
			rows = append(rows, []string{shortID(p.ID), p.DisplayLabel(), p.Category, ECTS(p.Credits)})
		}
		b.WriteString(RenderTable([]string{"ID", "Label", "Category", "Credits"}, rows))
	}

	return b.String()
}

// CourseTable renders a filtered catalog listing.
func CourseTable(courses []domain.RawCourse) string {
	rows := make([][]string, 0, len(courses))
	for i := range courses {
		c := &courses[i]
		rows = append(rows, []string{
			domain.ResolveCourseID(c),
			domain.CoalesceStr(c.ShortName, c.Title, c.Name),
			c.Classification,
			ECTS(c.ECTS()),
			Rating(c.AvgRating),
			c.CourseLanguage.Code,
		})
	}
	return RenderTable([]string{"ID", "Course", "Type", "Credits", "Rating", "Lang"}, rows)
}

// MergedSemester renders one reconciled semester of a program's plan.
func MergedSemester(key domain.SemesterKey, entries []merge.Entry) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(string(key)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s total", ECTS(merge.TotalCredits(entries)))) + "\n")

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		grade := StyleDim.Render("–")
		if e.Grade != nil {
			grade = fmt.Sprintf("%.2f", *e.Grade)
		}
		name := e.Name
		if e.IsWishlist() {
			name = StylePurple.Render(name + " *")
		}
		rows = append(rows, []string{name, e.BigType, ECTS(e.Credits), grade})
	}
	b.WriteString(RenderTable([]string{"Course", "Type", "Credits", "Grade"}, rows))
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
