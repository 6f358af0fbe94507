package cli

import (
	"github.com/janmeier/studyplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Academic   service.AcademicService
	Catalog    service.CatalogService
	Transcript service.TranscriptService
	Plan       service.PlanService

	// IsInteractive reports whether stdin is a terminal; interactive forms
	// and the course browser are disabled when it returns false.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "studyplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "studyplan",
		Short: "Study planner over the university course catalog",
	}

	root.AddCommand(
		newSemesterCmd(app),
		newSyncCmd(app),
		newCoursesCmd(app),
		newPlanCmd(app),
		newTranscriptCmd(app),
		newGradeCmd(app),
		newExportCmd(app),
	)

	return root
}
