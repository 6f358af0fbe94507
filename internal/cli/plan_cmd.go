package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/planner"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Stage, move and remove planned courses",
	}

	cmd.AddCommand(
		newPlanAddCmd(app),
		newPlanMoveCmd(app),
		newPlanRemoveCmd(app),
		newPlaceholderCmd(app),
	)

	return cmd
}

// reportResult prints the outcome of a plan mutation and maps refusals to a
// non-nil error so the process exit code reflects them.
func reportResult(res planner.Result, okMsg string) error {
	if res.OK {
		fmt.Println(okMsg)
		return nil
	}
	switch res.Reason {
	case planner.ReasonSemesterCompleted:
		return fmt.Errorf("refused: the target semester is already completed")
	case planner.ReasonCourseUnresolved:
		return fmt.Errorf("refused: course not found in any loaded catalog")
	case planner.ReasonPlaceholderUnknown:
		return fmt.Errorf("refused: no such placeholder")
	default:
		return fmt.Errorf("refused: %s", res.Reason)
	}
}

func newPlanAddCmd(app *App) *cobra.Command {
	var semester, category string

	cmd := &cobra.Command{
		Use:   "add <courseID>",
		Short: "Stage a course into a semester",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			courseID := args[0]

			if semester == "" || category == "" {
				if !app.interactive() {
					return fmt.Errorf("--semester and --category are required in non-interactive mode")
				}
				if err := planCellForm(app, &semester, &category).Run(); err != nil {
					return err
				}
			}

			res, err := app.Plan.AddCourse(context.Background(), courseID, domain.SemesterKey(semester), category)
			if err != nil {
				return err
			}
			return reportResult(res, fmt.Sprintf("Staged %s into %s / %s", courseID, semester, category))
		},
	}

	cmd.Flags().StringVar(&semester, "semester", "", "Target semester (e.g. HS26)")
	cmd.Flags().StringVar(&category, "category", "", "Category path (e.g. Core/Seminars)")
	return cmd
}

func newPlanMoveCmd(app *App) *cobra.Command {
	var from, to, category string

	cmd := &cobra.Command{
		Use:   "move <courseID>",
		Short: "Move a staged course to another semester",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Plan.MoveCourse(context.Background(), args[0], domain.SemesterKey(from), domain.SemesterKey(to), category)
			if err != nil {
				return err
			}
			return reportResult(res, fmt.Sprintf("Moved %s to %s", args[0], to))
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source semester")
	cmd.Flags().StringVar(&to, "to", "", "Target semester")
	cmd.Flags().StringVar(&category, "category", "", "Target category path")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newPlanRemoveCmd(app *App) *cobra.Command {
	var semester string

	cmd := &cobra.Command{
		Use:   "remove <courseID>",
		Short: "Withdraw a staged course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Plan.RemoveCourse(context.Background(), args[0], domain.SemesterKey(semester))
			if err != nil {
				return err
			}
			return reportResult(res, fmt.Sprintf("Removed %s from %s", args[0], semester))
		},
	}

	cmd.Flags().StringVar(&semester, "semester", "", "Semester the course is staged in")
	_ = cmd.MarkFlagRequired("semester")
	return cmd
}

func newPlaceholderCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "placeholder",
		Short: "Reserve credits without a concrete course",
	}

	cmd.AddCommand(
		newPlaceholderAddCmd(app),
		newPlaceholderMoveCmd(app),
		newPlaceholderRemoveCmd(app),
	)

	return cmd
}

func newPlaceholderAddCmd(app *App) *cobra.Command {
	var semester, category, label string
	var credits float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a placeholder to a planning cell",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, res, err := app.Plan.AddPlaceholder(context.Background(), domain.SemesterKey(semester), category, credits, label)
			if err != nil {
				return err
			}
			// id is empty when the engine refuses the add.
			short := id
			if len(short) > 8 {
				short = short[:8]
			}
			return reportResult(res, fmt.Sprintf("Added placeholder %s (%g ECTS) to %s / %s", short, credits, semester, category))
		},
	}

	cmd.Flags().StringVar(&semester, "semester", "", "Target semester")
	cmd.Flags().StringVar(&category, "category", "", "Category path")
	cmd.Flags().Float64Var(&credits, "credits", 0, "Reserved ECTS")
	cmd.Flags().StringVar(&label, "label", "", "Optional label")
	_ = cmd.MarkFlagRequired("semester")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("credits")
	return cmd
}

func newPlaceholderMoveCmd(app *App) *cobra.Command {
	var from, to, category string

	cmd := &cobra.Command{
		Use:   "move <placeholderID>",
		Short: "Move a placeholder to another semester",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Plan.MovePlaceholder(context.Background(), args[0], domain.SemesterKey(from), domain.SemesterKey(to), category)
			if err != nil {
				return err
			}
			return reportResult(res, fmt.Sprintf("Moved placeholder to %s", to))
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source semester")
	cmd.Flags().StringVar(&to, "to", "", "Target semester")
	cmd.Flags().StringVar(&category, "category", "", "Target category path")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newPlaceholderRemoveCmd(app *App) *cobra.Command {
	var semester string

	cmd := &cobra.Command{
		Use:   "remove <placeholderID>",
		Short: "Delete a placeholder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Plan.RemovePlaceholder(context.Background(), args[0], domain.SemesterKey(semester))
			if err != nil {
				return err
			}
			return reportResult(res, "Removed placeholder")
		},
	}

	cmd.Flags().StringVar(&semester, "semester", "", "Semester hint for lookup")
	return cmd
}

// planCellForm collects the target (semester, category) cell interactively.
func planCellForm(app *App, semester, category *string) *huh.Form {
	options := make([]huh.Option[string], 0, 8)
	for _, v := range upcomingSemesters(app) {
		options = append(options, huh.NewOption(string(v), string(v)))
	}

	semesterField := huh.NewInput().
		Title("Semester").
		Placeholder("HS26").
		Value(semester).
		Validate(func(s string) error {
			_, err := domain.ParseSemester(domain.SemesterKey(s))
			return err
		})

	var fields []huh.Field
	if len(options) > 0 {
		fields = append(fields, huh.NewSelect[string]().Title("Semester").Options(options...).Value(semester))
	} else {
		fields = append(fields, semesterField)
	}
	fields = append(fields, huh.NewInput().
		Title("Category").
		Placeholder("Core/Seminars").
		Value(category).
		Validate(func(s string) error { return domain.ValidateCategoryPath(s) }))

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(studyplanHuhTheme()).
		WithShowHelp(false)
}

// upcomingSemesters lists the current and future semesters for selection.
func upcomingSemesters(app *App) []domain.SemesterKey {
	views, err := app.Academic.Overview(context.Background())
	if err != nil {
		return nil
	}
	out := make([]domain.SemesterKey, 0, len(views))
	for _, v := range views {
		if v.Status != domain.SemesterCompleted {
			out = append(out, v.Key)
		}
	}
	return out
}
