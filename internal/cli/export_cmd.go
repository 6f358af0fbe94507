package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/export"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export plan data to calendar and spreadsheet formats",
	}

	cmd.AddCommand(
		newExportICalCmd(app),
		newExportXLSXCmd(app),
	)

	return cmd
}

func newExportICalCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "ical [semester]",
		Short: "Write a semester's course meetings as an .ics file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			semester := app.Academic.CurrentTerm()
			if len(args) == 1 {
				semester = domain.SemesterKey(args[0])
			}
			if _, err := domain.ParseSemester(semester); err != nil {
				return err
			}

			courses, err := enrolledCourses(app, semester)
			if err != nil {
				return err
			}

			feed, err := export.ICS(semester, courses)
			if err != nil {
				return err
			}

			if out == "" {
				out = fmt.Sprintf("%s.ics", semester)
			}
			if err := os.WriteFile(out, []byte(feed), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Printf("Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output path (default <semester>.ics)")
	return cmd
}

func newExportXLSXCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Write the merged study plan as an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			transcripts, err := app.Transcript.Transcripts(ctx)
			if err != nil {
				return err
			}
			merged, err := app.Transcript.Merged(ctx)
			if err != nil {
				return err
			}

			buf, err := export.Workbook(transcripts, merged)
			if err != nil {
				return err
			}

			if out == "" {
				out = "studyplan.xlsx"
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Printf("Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output path (default studyplan.xlsx)")
	return cmd
}

// enrolledCourses returns the semester's enrolled courses, falling back to
// staged selections resolved against the catalog when nothing is enrolled.
func enrolledCourses(app *App, semester domain.SemesterKey) ([]domain.RawCourse, error) {
	if courses := app.Catalog.Enrolled(semester); len(courses) > 0 {
		return courses, nil
	}

	views, err := app.Academic.Overview(context.Background())
	if err != nil {
		return nil, err
	}
	var courses []domain.RawCourse
	for _, v := range views {
		if v.Key != semester {
			continue
		}
		for _, sel := range v.Selections {
			if c, ok := app.Catalog.Lookup(semester, sel.CourseID); ok {
				courses = append(courses, c)
			}
		}
	}
	return courses, nil
}
