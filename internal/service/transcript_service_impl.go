package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/janmeier/studyplan/internal/apiclient"
	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/merge"
	"github.com/janmeier/studyplan/internal/projection"
	"github.com/janmeier/studyplan/internal/repository"
)

type transcriptService struct {
	client     apiclient.Client
	grades     repository.CustomGradeRepo
	selections repository.SelectionRepo
	observer   UseCaseObserver
}

// NewTranscriptService creates the scorecard aggregation and merge service.
func NewTranscriptService(
	client apiclient.Client,
	grades repository.CustomGradeRepo,
	selections repository.SelectionRepo,
	observers ...UseCaseObserver,
) TranscriptService {
	return &transcriptService{
		client:     client,
		grades:     grades,
		selections: selections,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *transcriptService) Transcripts(ctx context.Context) (out []ProgramTranscript, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "aggregate-transcripts",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"programs": len(out)},
		})
	}()

	cards, err := s.client.FetchScorecards(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching scorecards: %w", err)
	}
	lookup, err := s.gradeLookup(ctx)
	if err != nil {
		return nil, err
	}

	programs := make([]string, 0, len(cards))
	for p := range cards {
		programs = append(programs, p)
	}
	sort.Strings(programs)

	out = make([]ProgramTranscript, 0, len(programs))
	for _, program := range programs {
		items := cards[program]
		summary := domain.AggregateCredits(items, lookup)
		out = append(out, ProgramTranscript{
			Program:        program,
			Summary:        summary,
			GradeAverage:   summary.GradeAverage(),
			SimulatedAvg:   summary.CustomGradeAverage(),
			SemesterCredit: creditsBySemester(items),
		})
	}
	return out, nil
}

func (s *transcriptService) Merged(ctx context.Context) (merge.Scorecards, error) {
	cards, err := s.client.FetchScorecards(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching scorecards: %w", err)
	}
	local, err := s.selections.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading staged selections: %w", err)
	}
	merged := merge.Reconcile(toMergeScorecards(cards), local)

	// Staged courses belong to the student, not a program; surface them on
	// the main program only.
	if main, ok := projection.MainProgram(programList(merged)); ok {
		merged = merge.RestrictWishlist(merged, main.Name)
	}
	return merged, nil
}

// programList adapts the merged program keys for main-program selection,
// in deterministic order.
func programList(cards merge.Scorecards) []projection.Program {
	names := make([]string, 0, len(cards))
	for name := range cards {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]projection.Program, 0, len(names))
	for _, name := range names {
		out = append(out, projection.Program{ID: name, Name: name})
	}
	return out
}

func (s *transcriptService) SetCustomGrade(ctx context.Context, shortName string, grade float64) error {
	if shortName == "" {
		return fmt.Errorf("course short name is required")
	}
	if grade < 1 || grade > 6 {
		return fmt.Errorf("grade %.2f out of range [1, 6]", grade)
	}
	return s.grades.Upsert(ctx, &domain.CustomGrade{
		ShortName: shortName,
		Grade:     grade,
		UpdatedAt: time.Now().UTC(),
	})
}

func (s *transcriptService) ClearCustomGrade(ctx context.Context, shortName string) error {
	return s.grades.Delete(ctx, shortName)
}

func (s *transcriptService) ListCustomGrades(ctx context.Context) ([]domain.CustomGrade, error) {
	return s.grades.ListAll(ctx)
}

func (s *transcriptService) gradeLookup(ctx context.Context) (domain.GradeLookup, error) {
	stored, err := s.grades.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading custom grades: %w", err)
	}
	if len(stored) == 0 {
		return nil, nil
	}
	byName := make(map[string]float64, len(stored))
	for _, g := range stored {
		byName[g.ShortName] = g.Grade
	}
	return func(shortName string) (float64, bool) {
		g, ok := byName[shortName]
		return g, ok
	}, nil
}

// creditsBySemester walks the scorecard tree and sums leaf credits per
// semester. Leaves without a semester key are skipped.
func creditsBySemester(items []domain.ScorecardItem) map[domain.SemesterKey]float64 {
	bySemester := make(map[domain.SemesterKey][]domain.ScorecardItem)
	collectLeaves(items, bySemester)

	out := make(map[domain.SemesterKey]float64, len(bySemester))
	for sem, leaves := range bySemester {
		out[sem] = domain.SemesterCredits(leaves)
	}
	return out
}

func collectLeaves(items []domain.ScorecardItem, bySemester map[domain.SemesterKey][]domain.ScorecardItem) {
	for _, item := range items {
		if item.IsTitle {
			collectLeaves(item.Items, bySemester)
			continue
		}
		if item.Semester == "" {
			continue
		}
		bySemester[item.Semester] = append(bySemester[item.Semester], item)
	}
}

// toMergeScorecards flattens the official scorecard trees into the
// per-program, per-semester entry lists the reconciler works on.
func toMergeScorecards(cards map[string][]domain.ScorecardItem) merge.Scorecards {
	out := make(merge.Scorecards, len(cards))
	for program, items := range cards {
		bySemester := make(map[domain.SemesterKey][]domain.ScorecardItem)
		collectLeaves(items, bySemester)

		semesters := make(map[domain.SemesterKey][]merge.Entry, len(bySemester))
		for sem, leaves := range bySemester {
			entries := make([]merge.Entry, 0, len(leaves))
			for _, leaf := range leaves {
				var grade *float64
				if leaf.Mark.Valid {
					g := leaf.Mark.Value
					grade = &g
				}
				entries = append(entries, merge.Entry{
					Name:    domain.CoalesceStr(leaf.ShortName, leaf.Description),
					Credits: leaf.SumOfCredits.Value,
					Type:    leaf.Description,
					Grade:   grade,
					ID:      leaf.ShortName,
				})
			}
			semesters[sem] = entries
		}
		out[program] = semesters
	}
	return out
}
