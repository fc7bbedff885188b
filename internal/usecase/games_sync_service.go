package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/crimson-data/cfb-analytics/internal/domain/game"
	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
)

// gamesCallsPerYear is the upstream spend for one season of the games
// family: one games call, one drives call, one plays call per regular week,
// and one postseason plays call.
const gamesCallsPerYear = 2 + game.RegularSeasonWeeks + 1

// GamesSyncService ingests games, drives, and plays for a team across a
// year range. Years ascend; a failed resource is recorded and the run moves
// on to the next one.
type GamesSyncService struct {
	provider GamesProvider
	games    game.Repository
	logger   *logging.Logger
}

func NewGamesSyncService(provider GamesProvider, games game.Repository, logger *logging.Logger) *GamesSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &GamesSyncService{provider: provider, games: games, logger: logger}
}

func (s *GamesSyncService) Sync(ctx context.Context, team string, startYear, endYear, callBudget int) (*RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "GamesSync")
	defer span.End()

	if strings.TrimSpace(team) == "" {
		return nil, ErrTeamRequired
	}
	if startYear > endYear || startYear <= 0 {
		return nil, fmt.Errorf("%w: %d..%d", ErrInvalidYearRange, startYear, endYear)
	}

	report := NewRunReport("ingest-games", team, startYear, endYear, callBudget)
	defer report.Finish()

	lastYear := startYear - 1
	for year := startYear; year <= endYear; year++ {
		if !report.BudgetAllows(gamesCallsPerYear) {
			report.BudgetExhausted = true
			s.logger.WarnContext(ctx, "call budget exhausted, stopping early",
				"job", report.Job, "next_year", year, "calls_made", report.CallsMade, "call_budget", report.CallBudget)
			break
		}
		s.syncYear(ctx, report, team, year)
		lastYear = year
	}

	s.validate(ctx, report, team, startYear, lastYear)
	return report, nil
}

func (s *GamesSyncService) syncYear(ctx context.Context, report *RunReport, team string, year int) {
	s.logger.InfoContext(ctx, "syncing games season", "team", team, "year", year)

	report.AddCalls(1)
	games, err := s.provider.FetchGames(ctx, team, year)
	if err != nil {
		report.AddError(year, "games", err)
	} else if len(games) > 0 {
		if written, err := s.games.UpsertGames(ctx, games); err != nil {
			report.AddError(year, "games_upsert", err)
		} else {
			report.AddRows(written)
		}
	}

	report.AddCalls(1)
	drives, err := s.provider.FetchDrives(ctx, team, year)
	if err != nil {
		report.AddError(year, "drives", err)
	} else if len(drives) > 0 {
		if written, err := s.games.UpsertDrives(ctx, drives); err != nil {
			report.AddError(year, "drives_upsert", err)
		} else {
			report.AddRows(written)
		}
	}

	var plays []game.Play
	for week := 1; week <= game.RegularSeasonWeeks; week++ {
		report.AddCalls(1)
		weekPlays, err := s.provider.FetchPlays(ctx, team, year, week, game.SeasonTypeRegular)
		if err != nil {
			report.AddError(year, fmt.Sprintf("plays_week_%d", week), err)
			continue
		}
		plays = append(plays, weekPlays...)
	}

	report.AddCalls(1)
	postPlays, err := s.provider.FetchPlays(ctx, team, year, 1, game.SeasonTypePostseason)
	if err != nil {
		report.AddError(year, "plays_postseason", err)
	} else {
		plays = append(plays, postPlays...)
	}

	if len(plays) > 0 {
		if written, err := s.games.UpsertPlays(ctx, plays); err != nil {
			report.AddError(year, "plays_upsert", err)
		} else {
			report.AddRows(written)
		}
	}
}

// validate runs the post-run checks concurrently. Checks inform the
// summary; they never change the exit status.
func (s *GamesSyncService) validate(ctx context.Context, report *RunReport, team string, startYear, lastYear int) {
	if lastYear < startYear {
		return
	}

	var mu sync.Mutex
	var wg conc.WaitGroup
	for year := startYear; year <= lastYear; year++ {
		wg.Go(func() {
			count, err := s.games.CountGamesBySeason(ctx, team, year)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				report.AddCheck(fmt.Sprintf("games_present_%d", year), ValidationFail, "count query failed: %v", err)
			case count == 0:
				report.AddCheck(fmt.Sprintf("games_present_%d", year), ValidationWarn, "no games stored for %s %d", team, year)
			default:
				report.AddCheck(fmt.Sprintf("games_present_%d", year), ValidationPass, "%d games stored", count)
			}
		})
	}
	wg.Wait()
}
