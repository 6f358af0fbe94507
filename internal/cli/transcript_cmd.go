package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/janmeier/studyplan/internal/cli/formatter"
	"github.com/janmeier/studyplan/internal/domain"
)

func newTranscriptCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcript",
		Short: "Aggregate credits and grades from the official transcript",
	}

	cmd.AddCommand(
		newTranscriptShowCmd(app),
		newTranscriptMergedCmd(app),
	)

	return cmd
}

func newTranscriptShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show per-program credit totals and grade averages",
		RunE: func(cmd *cobra.Command, args []string) error {
			transcripts, err := app.Transcript.Transcripts(context.Background())
			if err != nil {
				return err
			}
			if len(transcripts) == 0 {
				fmt.Println("No scorecard data available.")
				return nil
			}

			for _, tr := range transcripts {
				fmt.Println(formatter.StyleHeader.Render(tr.Program))
				rows := [][]string{
					{"Total credits", formatter.ECTS(tr.Summary.TotalCredits)},
					{"Graded credits", formatter.ECTS(tr.Summary.FilteredCredits)},
					{"Grade average", formatter.Grade(tr.GradeAverage)},
				}
				if tr.SimulatedAvg != tr.GradeAverage {
					rows = append(rows, []string{"Simulated average", formatter.Grade(tr.SimulatedAvg)})
				}
				fmt.Print(formatter.RenderTable([]string{"Metric", "Value"}, rows))

				if len(tr.SemesterCredit) > 0 {
					keys := make([]domain.SemesterKey, 0, len(tr.SemesterCredit))
					for k := range tr.SemesterCredit {
						keys = append(keys, k)
					}
					sort.Slice(keys, func(i, j int) bool {
						return domain.CompareSemesters(keys[i], keys[j]) < 0
					})
					semRows := make([][]string, 0, len(keys))
					for _, k := range keys {
						semRows = append(semRows, []string{string(k), formatter.ECTS(tr.SemesterCredit[k])})
					}
					fmt.Print(formatter.RenderTable([]string{"Semester", "Credits"}, semRows))
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func newTranscriptMergedCmd(app *App) *cobra.Command {
	var program string

	cmd := &cobra.Command{
		Use:   "merged",
		Short: "Show the transcript merged with locally staged courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			merged, err := app.Transcript.Merged(context.Background())
			if err != nil {
				return err
			}
			if len(merged) == 0 {
				fmt.Println("No scorecard data available.")
				return nil
			}

			programs := make([]string, 0, len(merged))
			for p := range merged {
				if program != "" && p != program {
					continue
				}
				programs = append(programs, p)
			}
			sort.Strings(programs)
			if len(programs) == 0 {
				return fmt.Errorf("no such program %q", program)
			}

			for _, p := range programs {
				fmt.Println(formatter.StyleHeader.Render(p))
				semesters := merged[p]
				keys := make([]domain.SemesterKey, 0, len(semesters))
				for k := range semesters {
					keys = append(keys, k)
				}
				sort.Slice(keys, func(i, j int) bool {
					return domain.CompareSemesters(keys[i], keys[j]) < 0
				})
				for _, k := range keys {
					if len(semesters[k]) == 0 {
						continue
					}
					fmt.Print(formatter.MergedSemester(k, semesters[k]))
					fmt.Println()
				}
			}
			fmt.Println(formatter.StyleDim.Render("* staged locally, not yet confirmed"))
			return nil
		},
	}

	cmd.Flags().StringVar(&program, "program", "", "Limit output to one program")
	return cmd
}

func newGradeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Simulate grades for the transcript average",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <course> <grade>",
			Short: "Store a hypothetical grade for a course",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				grade, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					return fmt.Errorf("invalid grade %q: %w", args[1], err)
				}
				if err := app.Transcript.SetCustomGrade(context.Background(), args[0], grade); err != nil {
					return err
				}
				fmt.Printf("Simulating %s = %.2f\n", args[0], grade)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear <course>",
			Short: "Remove a hypothetical grade",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Transcript.ClearCustomGrade(context.Background(), args[0]); err != nil {
					return err
				}
				fmt.Printf("Cleared %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored hypothetical grades",
			RunE: func(cmd *cobra.Command, args []string) error {
				grades, err := app.Transcript.ListCustomGrades(context.Background())
				if err != nil {
					return err
				}
				if len(grades) == 0 {
					fmt.Println("No simulated grades.")
					return nil
				}
				rows := make([][]string, 0, len(grades))
				for _, g := range grades {
					rows = append(rows, []string{g.ShortName, fmt.Sprintf("%.2f", g.Grade)})
				}
				fmt.Print(formatter.RenderTable([]string{"Course", "Grade"}, rows))
				return nil
			},
		},
	)

	return cmd
}
