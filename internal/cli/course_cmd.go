package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/janmeier/studyplan/internal/cli/formatter"
	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/filter"
)

func newCoursesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "Browse and filter the course catalog",
	}

	cmd.AddCommand(
		newCoursesListCmd(app),
		newCoursesBrowseCmd(app),
	)

	return cmd
}

// filterFlags binds the shared catalog filter flags onto a flag set.
func filterFlags(flags *pflag.FlagSet, spec *filter.Spec) {
	flags.StringSliceVar(&spec.Classifications, "classification", nil, "Keep only these classifications")
	flags.StringSliceVar(&spec.Lecturers, "lecturer", nil, "Keep only courses by these lecturers")
	flags.StringSliceVar(&spec.Languages, "language", nil, "Keep only these language codes")
	flags.Float64SliceVar(&spec.Ratings, "min-rating", nil, "Minimum average rating")
	flags.IntSliceVar(&spec.ECTS, "ects", nil, "Keep only these credit values (hundredths, e.g. 400 for 4 ECTS)")
	flags.StringVar(&spec.SearchTerm, "search", "", "Free-text search over course names")
}

func newCoursesListCmd(app *App) *cobra.Command {
	var spec filter.Spec

	cmd := &cobra.Command{
		Use:   "list [semester]",
		Short: "List catalog courses, optionally filtered",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			semester := app.Academic.CurrentTerm()
			if len(args) == 1 {
				semester = domain.SemesterKey(args[0])
			}

			courses, err := app.Catalog.Filter(semester, spec)
			if err != nil {
				return err
			}
			if len(courses) == 0 {
				fmt.Println("No courses match.")
				return nil
			}
			fmt.Print(formatter.CourseTable(courses))
			return nil
		},
	}

	filterFlags(cmd.Flags(), &spec)
	return cmd
}

func newCoursesBrowseCmd(app *App) *cobra.Command {
	var spec filter.Spec

	cmd := &cobra.Command{
		Use:   "browse [semester]",
		Short: "Interactively browse the catalog and stage courses",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("browse needs an interactive terminal, use 'courses list' instead")
			}

			semester := app.Academic.CurrentTerm()
			if len(args) == 1 {
				semester = domain.SemesterKey(args[0])
			}

			courses, err := app.Catalog.Filter(semester, spec)
			if err != nil {
				return err
			}
			if len(courses) == 0 {
				fmt.Println("No courses match.")
				return nil
			}

			model := newBrowseModel(app, semester, courses)
			final, err := tea.NewProgram(model).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(browseModel); ok && m.staged > 0 {
				fmt.Printf("Staged %d course(s) into %s\n", m.staged, semester)
			}
			return nil
		},
	}

	filterFlags(cmd.Flags(), &spec)
	return cmd
}
