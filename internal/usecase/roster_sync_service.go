package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/crimson-data/cfb-analytics/internal/domain/roster"
	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
)

// Roster sizes outside this band usually mean a bad season load rather than
// a real roster, so the check flags them.
const (
	rosterCountFloor   = 50
	rosterCountCeiling = 150
)

// RosterSyncService ingests season rosters. Each season is cleared before
// the fresh insert so departed players do not linger.
type RosterSyncService struct {
	provider RosterProvider
	roster   roster.Repository
	logger   *logging.Logger
}

func NewRosterSyncService(provider RosterProvider, repo roster.Repository, logger *logging.Logger) *RosterSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RosterSyncService{provider: provider, roster: repo, logger: logger}
}

func (s *RosterSyncService) Sync(ctx context.Context, team string, startYear, endYear, callBudget int) (*RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterSync")
	defer span.End()

	if strings.TrimSpace(team) == "" {
		return nil, ErrTeamRequired
	}
	if startYear > endYear || startYear <= 0 {
		return nil, fmt.Errorf("%w: %d..%d", ErrInvalidYearRange, startYear, endYear)
	}

	report := NewRunReport("ingest-roster", team, startYear, endYear, callBudget)
	defer report.Finish()

	lastYear := startYear - 1
	for year := startYear; year <= endYear; year++ {
		if !report.BudgetAllows(1) {
			report.BudgetExhausted = true
			s.logger.WarnContext(ctx, "call budget exhausted, stopping early",
				"job", report.Job, "next_year", year, "calls_made", report.CallsMade, "call_budget", report.CallBudget)
			break
		}

		report.AddCalls(1)
		players, err := s.provider.FetchRoster(ctx, team, year)
		if err != nil {
			report.AddError(year, "roster", err)
			lastYear = year
			continue
		}

		if err := s.roster.ClearTeamSeason(ctx, team, year); err != nil {
			report.AddError(year, "roster_clear", err)
			lastYear = year
			continue
		}

		if len(players) > 0 {
			if written, err := s.roster.UpsertPlayers(ctx, players); err != nil {
				report.AddError(year, "roster_upsert", err)
			} else {
				report.AddRows(written)
			}
		}
		lastYear = year
	}

	s.validate(ctx, report, team, startYear, lastYear)
	return report, nil
}

func (s *RosterSyncService) validate(ctx context.Context, report *RunReport, team string, startYear, lastYear int) {
	if lastYear < startYear {
		return
	}

	var mu sync.Mutex
	var wg conc.WaitGroup
	for year := startYear; year <= lastYear; year++ {
		wg.Go(func() {
			count, err := s.roster.CountTeamSeason(ctx, team, year)

			mu.Lock()
			defer mu.Unlock()
			name := fmt.Sprintf("roster_size_%d", year)
			switch {
			case err != nil:
				report.AddCheck(name, ValidationFail, "count query failed: %v", err)
			case count == 0:
				report.AddCheck(name, ValidationWarn, "no roster rows for %s %d", team, year)
			case count < rosterCountFloor || count > rosterCountCeiling:
				report.AddCheck(name, ValidationWarn, "roster size %d outside expected %d-%d", count, rosterCountFloor, rosterCountCeiling)
			default:
				report.AddCheck(name, ValidationPass, "roster size %d", count)
			}
		})
	}
	wg.Wait()
}
