package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
)

const backfillHeader = "id,season,week,season_type,neutral_site,conference_game,attendance,venue,home_team,home_conference,home_points,home_line_scores,away_team,away_conference,away_points,away_line_scores,excitement_index"

func TestGamesBackfillLoadsExport(t *testing.T) {
	export := strings.Join([]string{
		backfillHeader,
		`401520100,2023,1,regular,false,true,unknown,Memorial Stadium,Oklahoma,Big 12,35,"'[7, 14, 7, 7]'",Kansas,Big 12,20,"'[3, 7, 3, 7]'",5.4`,
		`401520101,2023,2,regular,false,true,NA,"Gaylord Family, Norman",Oklahoma,Big 12,28,"'[7, 7, 7, 7]'",Texas,Big 12,NA,NA,NaN`,
	}, "\n")

	repo := newStubGameRepo()
	service := NewGamesBackfillService(repo, logging.NewNop())

	report, err := service.Backfill(context.Background(), strings.NewReader(export))
	require.NoError(t, err)

	assert.Equal(t, 2, report.RowsWritten)
	assert.NoError(t, report.Err())
	require.Len(t, repo.games, 2)

	first := repo.games[401520100]
	// A non-numeric attendance value normalizes to null, never zero.
	assert.Nil(t, first.Attendance)
	assert.Equal(t, []int64{7, 14, 7, 7}, first.HomeLineScores)
	require.NotNil(t, first.ExcitementIndex)
	assert.InDelta(t, 5.4, *first.ExcitementIndex, 1e-9)

	second := repo.games[401520101]
	require.NotNil(t, second.Venue)
	assert.Equal(t, "Gaylord Family, Norman", *second.Venue)
	assert.Nil(t, second.AwayPoints)
	assert.Nil(t, second.AwayLineScores)
	assert.Nil(t, second.ExcitementIndex)
}

func TestGamesBackfillSkipsMalformedRows(t *testing.T) {
	export := strings.Join([]string{
		backfillHeader,
		`401520100,2023,1,regular,false,true,84000,Memorial Stadium,Oklahoma,Big 12,35,NA,Kansas,Big 12,20,NA,5.4`,
		`NA,2023,1,regular,false,true,84000,Memorial Stadium,Oklahoma,Big 12,35,NA,Kansas,Big 12,20,NA,5.4`,
		`too,few,fields`,
	}, "\n")

	repo := newStubGameRepo()
	service := NewGamesBackfillService(repo, logging.NewNop())

	report, err := service.Backfill(context.Background(), strings.NewReader(export))
	require.NoError(t, err)

	assert.Equal(t, 1, report.RowsWritten)
	assert.Len(t, report.Errors, 2)
	assert.NoError(t, report.Err())
}

func TestGamesBackfillRejectsBadHeader(t *testing.T) {
	service := NewGamesBackfillService(newStubGameRepo(), logging.NewNop())

	_, err := service.Backfill(context.Background(), strings.NewReader("id,season,bogus\n1,2023,x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")
}

func TestGamesBackfillEmptyExport(t *testing.T) {
	service := NewGamesBackfillService(newStubGameRepo(), logging.NewNop())

	_, err := service.Backfill(context.Background(), strings.NewReader(""))
	require.Error(t, err)

	report, err := service.Backfill(context.Background(), strings.NewReader(backfillHeader))
	require.NoError(t, err)
	assert.ErrorIs(t, report.Err(), ErrNoRowsWritten)
}
