package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-data/cfb-analytics/internal/domain/ranking"
	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
)

type stubRankingsProvider struct {
	calls   int
	yearErr map[int]error
}

func (p *stubRankingsProvider) FetchRankings(_ context.Context, year int) ([]ranking.Ranking, error) {
	p.calls++
	if err, ok := p.yearErr[year]; ok {
		return nil, err
	}
	return []ranking.Ranking{
		{Season: year, SeasonType: "regular", Week: 1, Poll: "AP Top 25", Rank: 1, School: "Alabama"},
		{Season: year, SeasonType: "regular", Week: 1, Poll: "AP Top 25", Rank: 2, School: "Oklahoma"},
	}, nil
}

type stubRankingRepo struct {
	rows map[string]ranking.Ranking
}

func newStubRankingRepo() *stubRankingRepo {
	return &stubRankingRepo{rows: make(map[string]ranking.Ranking)}
}

func (r *stubRankingRepo) UpsertRankings(_ context.Context, rankings []ranking.Ranking) (int, error) {
	for _, row := range rankings {
		key := fmt.Sprintf("%d|%d|%s|%s", row.Season, row.Week, row.Poll, row.School)
		r.rows[key] = row
	}
	return len(rankings), nil
}

func TestRankingsSyncUpserts(t *testing.T) {
	provider := &stubRankingsProvider{}
	repo := newStubRankingRepo()
	service := NewRankingsSyncService(provider, repo, logging.NewNop())

	report, err := service.Sync(context.Background(), 2021, 2022, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, report.CallsMade)
	assert.Equal(t, 4, report.RowsWritten)
	assert.Len(t, repo.rows, 4)
	require.NoError(t, report.Err())
}

func TestRankingsSyncIdempotent(t *testing.T) {
	provider := &stubRankingsProvider{}
	repo := newStubRankingRepo()
	service := NewRankingsSyncService(provider, repo, logging.NewNop())

	_, err := service.Sync(context.Background(), 2021, 2021, 10)
	require.NoError(t, err)
	_, err = service.Sync(context.Background(), 2021, 2021, 10)
	require.NoError(t, err)

	assert.Len(t, repo.rows, 2)
}

func TestRankingsSyncErrorAccumulates(t *testing.T) {
	provider := &stubRankingsProvider{yearErr: map[int]error{2021: errors.New("upstream 502")}}
	repo := newStubRankingRepo()
	service := NewRankingsSyncService(provider, repo, logging.NewNop())

	report, err := service.Sync(context.Background(), 2021, 2022, 10)
	require.NoError(t, err)

	require.Len(t, report.Errors, 1)
	assert.Equal(t, 2021, report.Errors[0].Year)
	assert.Equal(t, 2, report.RowsWritten)
}
