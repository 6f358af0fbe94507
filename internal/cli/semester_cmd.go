package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/janmeier/studyplan/internal/cli/formatter"
	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/service"
)

func newSemesterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "semester",
		Short: "Inspect and select semesters",
	}

	cmd.AddCommand(
		newSemesterListCmd(app),
		newSemesterShowCmd(app),
		newSemesterSelectCmd(app),
	)

	return cmd
}

func newSemesterListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the semester overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			views, err := app.Academic.Overview(ctx)
			if err != nil {
				return err
			}
			if len(views) == 0 {
				fmt.Println("No semesters known yet. Run 'studyplan sync' first.")
				return nil
			}
			fmt.Print(formatter.SemesterTable(views, app.Academic.CurrentTerm()))
			return nil
		},
	}
}

func newSemesterShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <semester>",
		Short: "Show one semester's plan in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := domain.SemesterKey(args[0])
			if _, err := domain.ParseSemester(key); err != nil {
				return err
			}
			views, err := app.Academic.Overview(context.Background())
			if err != nil {
				return err
			}
			for _, v := range views {
				if v.Key == key {
					fmt.Print(formatter.SemesterDetail(v))
					return nil
				}
			}
			fmt.Print(formatter.SemesterDetail(service.SemesterView{
				Key:    key,
				Status: domain.StatusOf(key, time.Now()),
			}))
			return nil
		},
	}
}

func newSemesterSelectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "select <semester>",
		Short: "Set the default semester for subsequent commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := domain.SemesterKey(args[0])
			if err := app.Academic.SelectSemester(key); err != nil {
				return err
			}
			fmt.Printf("Selected %s\n", key)
			return nil
		},
	}
}

func newSyncCmd(app *App) *cobra.Command {
	var withTerms bool

	cmd := &cobra.Command{
		Use:   "sync [semester]",
		Short: "Fetch terms, catalog and enrollments",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if withTerms || !app.Academic.TermsKnown() {
				terms, err := app.Academic.RefreshTerms(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Refreshed %d terms\n", len(terms))
			}

			semester := app.Academic.CurrentTerm()
			if len(args) == 1 {
				semester = domain.SemesterKey(args[0])
			}

			if err := app.Catalog.Sync(ctx, semester); err != nil {
				return err
			}
			fmt.Printf("Synced %s\n", semester)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withTerms, "terms", false, "Refresh the term list before syncing")
	return cmd
}
