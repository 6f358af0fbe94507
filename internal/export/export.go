// Package export renders planning data into interchange formats: an iCalendar
// feed of a semester's course meetings and an Excel workbook of the merged
// study plan.
package export

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"

	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/merge"
	"github.com/janmeier/studyplan/internal/service"
)

// slotTimeLayouts covers the timestamp shapes the calendar source emits.
var slotTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseSlotTime(s string) (time.Time, error) {
	for _, layout := range slotTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized slot time %q", s)
}

// ICS serializes the scheduled meetings of the given courses as an
// iCalendar feed. Courses without calendar entries are skipped; slots with
// unparseable timestamps are skipped silently rather than failing the
// whole export.
func ICS(semester domain.SemesterKey, courses []domain.RawCourse) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//studyplan//calendar//EN")
	cal.SetXWRCalName(fmt.Sprintf("Courses %s", semester))

	events := 0
	for i := range courses {
		c := &courses[i]
		id := domain.ResolveCourseID(c)
		name := domain.CoalesceStr(c.ShortName, c.Title, c.Name, id)

		for j, slot := range c.CalendarEntry {
			start, err := parseSlotTime(slot.Start)
			if err != nil {
				continue
			}
			end, err := parseSlotTime(slot.End)
			if err != nil {
				end = start.Add(time.Hour)
			}

			event := cal.AddEvent(fmt.Sprintf("%s-%d@studyplan", id, j))
			event.SetStartAt(start)
			event.SetEndAt(end)
			event.SetSummary(name)
			if slot.Location != "" {
				event.SetLocation(slot.Location)
			}
			events++
		}
	}
	if events == 0 {
		return "", fmt.Errorf("no scheduled meetings found for %s", semester)
	}
	return cal.Serialize(), nil
}

// Workbook renders per-program transcript summaries and the merged plan
// into an xlsx workbook, one sheet per program.
func Workbook(transcripts []service.ProgramTranscript, merged merge.Scorecards) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	for _, tr := range transcripts {
		sheet := tr.Program
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return nil, fmt.Errorf("creating sheet %q: %w", sheet, err)
		}
		f.SetActiveSheet(idx)

		f.SetColWidth(sheet, "A", "A", 12)
		f.SetColWidth(sheet, "B", "B", 42)
		f.SetColWidth(sheet, "C", "E", 12)

		f.SetCellValue(sheet, "A1", fmt.Sprintf("Study plan: %s", tr.Program))
		f.MergeCell(sheet, "A1", "E1")
		f.SetCellStyle(sheet, "A1", "A1", headerStyle)

		f.SetCellValue(sheet, "A2", "Total credits")
		f.SetCellValue(sheet, "B2", tr.Summary.TotalCredits)
		f.SetCellValue(sheet, "A3", "Grade average")
		f.SetCellValue(sheet, "B3", tr.GradeAverage)
		if tr.SimulatedAvg != tr.GradeAverage {
			f.SetCellValue(sheet, "A4", "Simulated average")
			f.SetCellValue(sheet, "B4", tr.SimulatedAvg)
		}

		row := 6
		for _, col := range []struct{ col, title string }{
			{"A", "Semester"}, {"B", "Course"}, {"C", "Type"}, {"D", "Credits"}, {"E", "Grade"},
		} {
			cell := fmt.Sprintf("%s%d", col.col, row)
			f.SetCellValue(sheet, cell, col.title)
			f.SetCellStyle(sheet, cell, cell, headerStyle)
		}
		row++

		semesters := merged[tr.Program]
		keys := make([]domain.SemesterKey, 0, len(semesters))
		for k := range semesters {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			return domain.CompareSemesters(keys[i], keys[j]) < 0
		})

		for _, k := range keys {
			for _, e := range semesters[k] {
				name := e.Name
				if e.IsWishlist() {
					name += " (planned)"
				}
				f.SetCellValue(sheet, fmt.Sprintf("A%d", row), string(k))
				f.SetCellValue(sheet, fmt.Sprintf("B%d", row), name)
				f.SetCellValue(sheet, fmt.Sprintf("C%d", row), e.BigType)
				f.SetCellValue(sheet, fmt.Sprintf("D%d", row), e.Credits)
				if e.Grade != nil {
					f.SetCellValue(sheet, fmt.Sprintf("E%d", row), *e.Grade)
				}
				row++
			}
		}
	}

	if len(transcripts) > 0 {
		f.DeleteSheet("Sheet1")
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf, nil
}
