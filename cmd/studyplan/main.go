package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/janmeier/studyplan/internal/apiclient"
	"github.com/janmeier/studyplan/internal/cli"
	"github.com/janmeier/studyplan/internal/db"
	"github.com/janmeier/studyplan/internal/planner"
	"github.com/janmeier/studyplan/internal/repository"
	"github.com/janmeier/studyplan/internal/service"
	"github.com/janmeier/studyplan/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.studyplan/studyplan.db
	dbPath := os.Getenv("STUDYPLAN_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".studyplan", "studyplan.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	selectionRepo := repository.NewSQLiteSelectionRepo(database)
	placeholderRepo := repository.NewSQLitePlaceholderRepo(database)
	gradeRepo := repository.NewSQLiteCustomGradeRepo(database)
	termRepo := repository.NewSQLiteTermRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	client := apiclient.NewClient(apiclient.LoadConfig())
	courseStore := store.NewCourseStore()
	engine := planner.NewEngine(courseStore, selectionRepo, placeholderRepo, uow, nil)

	// Use-case logging is opt-in; it writes slog lines to stderr.
	var observers []service.UseCaseObserver
	if os.Getenv("STUDYPLAN_LOG") != "" {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	catalogSvc := service.NewCatalogService(client, courseStore, nil, observers...)
	academicSvc := service.NewAcademicService(client, termRepo, courseStore, nil, observers...)
	planSvc := service.NewPlanService(engine, catalogSvc, selectionRepo, placeholderRepo, courseStore, observers...)

	app := &cli.App{
		Academic:   academicSvc,
		Catalog:    catalogSvc,
		Transcript: service.NewTranscriptService(client, gradeRepo, selectionRepo, observers...),
		Plan:       planSvc,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Restore cached terms and staged plan state before any command runs.
	ctx := context.Background()
	if err := academicSvc.LoadCachedTerms(ctx); err != nil {
		return fmt.Errorf("loading cached terms: %w", err)
	}
	if err := planSvc.Hydrate(ctx); err != nil {
		return fmt.Errorf("restoring staged plan: %w", err)
	}

	return cli.NewRootCmd(app).Execute()
}
