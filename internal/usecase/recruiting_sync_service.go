package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/crimson-data/cfb-analytics/internal/domain/recruiting"
	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
)

// recruitingCallsPerYear covers recruits, the team class rank, and the
// position-group summary for one cycle.
const recruitingCallsPerYear = 3

// RecruitingSyncService ingests recruiting classes: individual recruits,
// the team's class rank, and per-position-group summaries.
type RecruitingSyncService struct {
	provider   RecruitingProvider
	recruiting recruiting.Repository
	logger     *logging.Logger
}

func NewRecruitingSyncService(provider RecruitingProvider, repo recruiting.Repository, logger *logging.Logger) *RecruitingSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RecruitingSyncService{provider: provider, recruiting: repo, logger: logger}
}

func (s *RecruitingSyncService) Sync(ctx context.Context, team string, startYear, endYear, callBudget int) (*RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "RecruitingSync")
	defer span.End()

	if strings.TrimSpace(team) == "" {
		return nil, ErrTeamRequired
	}
	if startYear > endYear || startYear <= 0 {
		return nil, fmt.Errorf("%w: %d..%d", ErrInvalidYearRange, startYear, endYear)
	}

	report := NewRunReport("ingest-recruiting", team, startYear, endYear, callBudget)
	defer report.Finish()

	lastYear := startYear - 1
	for year := startYear; year <= endYear; year++ {
		if !report.BudgetAllows(recruitingCallsPerYear) {
			report.BudgetExhausted = true
			s.logger.WarnContext(ctx, "call budget exhausted, stopping early",
				"job", report.Job, "next_year", year, "calls_made", report.CallsMade, "call_budget", report.CallBudget)
			break
		}
		s.syncYear(ctx, report, team, year)
		lastYear = year
	}

	if len(report.Errors) == 0 {
		report.AddCheck("recruiting_errors", ValidationPass, "no record errors")
	} else {
		report.AddCheck("recruiting_errors", ValidationWarn, "%d record errors accumulated", len(report.Errors))
	}
	s.validate(ctx, report, team, startYear, lastYear)
	return report, nil
}

// validate reads stored recruit counts back for each ingested cycle. Checks
// inform the summary; they never change the exit status.
func (s *RecruitingSyncService) validate(ctx context.Context, report *RunReport, team string, startYear, lastYear int) {
	if lastYear < startYear {
		return
	}

	var mu sync.Mutex
	var wg conc.WaitGroup
	for year := startYear; year <= lastYear; year++ {
		wg.Go(func() {
			count, err := s.recruiting.CountRecruitsByTeamYear(ctx, team, year)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				report.AddCheck(fmt.Sprintf("recruits_present_%d", year), ValidationFail, "count query failed: %v", err)
			case count == 0:
				report.AddCheck(fmt.Sprintf("recruits_present_%d", year), ValidationWarn, "no recruits stored for %s %d", team, year)
			default:
				report.AddCheck(fmt.Sprintf("recruits_present_%d", year), ValidationPass, "%d recruits stored", count)
			}
		})
	}
	wg.Wait()
}

func (s *RecruitingSyncService) syncYear(ctx context.Context, report *RunReport, team string, year int) {
	s.logger.InfoContext(ctx, "syncing recruiting cycle", "team", team, "year", year)

	report.AddCalls(1)
	recruits, err := s.provider.FetchRecruits(ctx, team, year)
	if err != nil {
		report.AddError(year, "recruits", err)
	} else {
		if err := s.recruiting.ClearTeamYear(ctx, team, year); err != nil {
			report.AddError(year, "recruits_clear", err)
		} else if len(recruits) > 0 {
			if written, err := s.recruiting.UpsertRecruits(ctx, recruits); err != nil {
				report.AddError(year, "recruits_upsert", err)
			} else {
				report.AddRows(written)
			}
		}
	}

	report.AddCalls(1)
	classes, err := s.provider.FetchTeamClasses(ctx, team, year)
	if err != nil {
		report.AddError(year, "team_classes", err)
	} else if len(classes) > 0 {
		if written, err := s.recruiting.UpsertTeamClasses(ctx, classes); err != nil {
			report.AddError(year, "team_classes_upsert", err)
		} else {
			report.AddRows(written)
		}
	}

	report.AddCalls(1)
	groups, err := s.provider.FetchPositionGroups(ctx, team, year)
	if err != nil {
		report.AddError(year, "position_groups", err)
	} else if len(groups) > 0 {
		if written, err := s.recruiting.UpsertPositionGroups(ctx, groups); err != nil {
			report.AddError(year, "position_groups_upsert", err)
		} else {
			report.AddRows(written)
		}
	}
}
