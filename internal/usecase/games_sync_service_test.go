package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-data/cfb-analytics/internal/domain/game"
	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
)

type stubGamesProvider struct {
	gamesCalls  int
	drivesCalls int
	playsCalls  int

	gamesErr      error
	drivesErr     error
	playsWeekErrs map[int]error
}

func (p *stubGamesProvider) FetchGames(_ context.Context, team string, year int) ([]game.Game, error) {
	p.gamesCalls++
	if p.gamesErr != nil {
		return nil, p.gamesErr
	}
	return []game.Game{{ID: int64(year*100 + 1), Season: year, HomeTeam: team, AwayTeam: "Kansas", SeasonType: game.SeasonTypeRegular}}, nil
}

func (p *stubGamesProvider) FetchDrives(_ context.Context, team string, year int) ([]game.Drive, error) {
	p.drivesCalls++
	if p.drivesErr != nil {
		return nil, p.drivesErr
	}
	return []game.Drive{{GameID: int64(year*100 + 1), DriveNumber: 1, Offense: team, Defense: "Kansas"}}, nil
}

func (p *stubGamesProvider) FetchPlays(_ context.Context, team string, year, week int, seasonType string) ([]game.Play, error) {
	p.playsCalls++
	if seasonType == game.SeasonTypeRegular {
		if err, ok := p.playsWeekErrs[week]; ok {
			return nil, err
		}
	}
	if week > 1 || seasonType == game.SeasonTypePostseason {
		return nil, nil
	}
	return []game.Play{{GameID: int64(year*100 + 1), DriveNumber: 1, PlayNumber: week, Offense: team, Defense: "Kansas"}}, nil
}

type stubGameRepo struct {
	games      map[int64]game.Game
	drives     int
	plays      int
	writeOrder []string

	upsertPlaysErr error
}

func newStubGameRepo() *stubGameRepo {
	return &stubGameRepo{games: make(map[int64]game.Game)}
}

func (r *stubGameRepo) UpsertGames(_ context.Context, games []game.Game) (int, error) {
	r.writeOrder = append(r.writeOrder, "games")
	for _, g := range games {
		r.games[g.ID] = g
	}
	return len(games), nil
}

func (r *stubGameRepo) UpsertDrives(_ context.Context, drives []game.Drive) (int, error) {
	r.writeOrder = append(r.writeOrder, "drives")
	r.drives += len(drives)
	return len(drives), nil
}

func (r *stubGameRepo) UpsertPlays(_ context.Context, plays []game.Play) (int, error) {
	if r.upsertPlaysErr != nil {
		return 0, r.upsertPlaysErr
	}
	r.writeOrder = append(r.writeOrder, "plays")
	r.plays += len(plays)
	return len(plays), nil
}

func (r *stubGameRepo) CountGamesBySeason(_ context.Context, _ string, season int) (int, error) {
	count := 0
	for _, g := range r.games {
		if g.Season == season {
			count++
		}
	}
	return count, nil
}

func TestGamesSyncSingleSeason(t *testing.T) {
	provider := &stubGamesProvider{}
	repo := newStubGameRepo()
	service := NewGamesSyncService(provider, repo, logging.NewNop())

	report, err := service.Sync(context.Background(), "Oklahoma", 2021, 2021, 200)
	require.NoError(t, err)

	assert.Equal(t, gamesCallsPerYear, report.CallsMade)
	assert.Equal(t, 1, provider.gamesCalls)
	assert.Equal(t, 1, provider.drivesCalls)
	assert.Equal(t, game.RegularSeasonWeeks+1, provider.playsCalls)
	assert.False(t, report.BudgetExhausted)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 3, report.RowsWritten) // one game, one drive, one play
	require.NoError(t, report.Err())

	require.Len(t, report.Checks, 1)
	assert.Equal(t, ValidationPass, report.Checks[0].Status)
}

func TestGamesSyncWritesDrivesBeforePlays(t *testing.T) {
	provider := &stubGamesProvider{}
	repo := newStubGameRepo()
	service := NewGamesSyncService(provider, repo, logging.NewNop())

	_, err := service.Sync(context.Background(), "Oklahoma", 2021, 2021, 200)
	require.NoError(t, err)

	// Plays reference drives by (game_id, drive_number), so the drive rows
	// must land first within a season.
	drivesAt, playsAt := -1, -1
	for i, write := range repo.writeOrder {
		switch write {
		case "drives":
			if drivesAt == -1 {
				drivesAt = i
			}
		case "plays":
			if playsAt == -1 {
				playsAt = i
			}
		}
	}
	require.NotEqual(t, -1, drivesAt)
	require.NotEqual(t, -1, playsAt)
	assert.Less(t, drivesAt, playsAt)
	assert.Equal(t, "games", repo.writeOrder[0])
}

func TestGamesSyncBudgetStopsBeforeYear(t *testing.T) {
	provider := &stubGamesProvider{}
	repo := newStubGameRepo()
	service := NewGamesSyncService(provider, repo, logging.NewNop())

	// Budget covers exactly one season, so 2022 never starts.
	report, err := service.Sync(context.Background(), "Oklahoma", 2021, 2022, gamesCallsPerYear)
	require.NoError(t, err)

	assert.True(t, report.BudgetExhausted)
	assert.Equal(t, gamesCallsPerYear, report.CallsMade)
	assert.Equal(t, 1, provider.gamesCalls)
	require.NoError(t, report.Err(), "a budget-truncated run with rows is still a success")

	// Validation only covers the season actually ingested.
	require.Len(t, report.Checks, 1)
}

func TestGamesSyncAccumulatesErrorsAndContinues(t *testing.T) {
	provider := &stubGamesProvider{
		drivesErr:     errors.New("upstream 502"),
		playsWeekErrs: map[int]error{9: errors.New("upstream 500")},
	}
	repo := newStubGameRepo()
	service := NewGamesSyncService(provider, repo, logging.NewNop())

	report, err := service.Sync(context.Background(), "Oklahoma", 2021, 2021, 200)
	require.NoError(t, err)

	// All calls still happen; the failures are recorded, not fatal.
	assert.Equal(t, gamesCallsPerYear, report.CallsMade)
	require.Len(t, report.Errors, 2)
	assert.Equal(t, "drives", report.Errors[0].Resource)
	assert.Equal(t, "plays_week_9", report.Errors[1].Resource)
	assert.Positive(t, report.RowsWritten)
	require.NoError(t, report.Err())
}

func TestGamesSyncUpsertFailureRecorded(t *testing.T) {
	provider := &stubGamesProvider{}
	repo := newStubGameRepo()
	repo.upsertPlaysErr = fmt.Errorf("constraint violation")
	service := NewGamesSyncService(provider, repo, logging.NewNop())

	report, err := service.Sync(context.Background(), "Oklahoma", 2021, 2021, 200)
	require.NoError(t, err)

	require.Len(t, report.Errors, 1)
	assert.Equal(t, "plays_upsert", report.Errors[0].Resource)
	assert.Equal(t, 0, repo.plays)
	assert.Equal(t, 2, report.RowsWritten)
}

func TestGamesSyncRejectsBadInput(t *testing.T) {
	service := NewGamesSyncService(&stubGamesProvider{}, newStubGameRepo(), logging.NewNop())

	_, err := service.Sync(context.Background(), "", 2021, 2021, 200)
	require.ErrorIs(t, err, ErrTeamRequired)

	_, err = service.Sync(context.Background(), "Oklahoma", 2022, 2021, 200)
	require.ErrorIs(t, err, ErrInvalidYearRange)
}
