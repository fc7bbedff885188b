package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-data/cfb-analytics/internal/domain/recruiting"
	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
)

type stubRecruitingProvider struct {
	recruitCalls int
	classCalls   int
	groupCalls   int

	recruitErr map[int]error
}

func (p *stubRecruitingProvider) FetchRecruits(_ context.Context, team string, year int) ([]recruiting.Recruit, error) {
	p.recruitCalls++
	if err, ok := p.recruitErr[year]; ok {
		return nil, err
	}
	return []recruiting.Recruit{
		{ID: int64(year*10 + 1), Year: year, Name: "Recruit One", CommittedTo: &team},
		{ID: int64(year*10 + 2), Year: year, Name: "Recruit Two", CommittedTo: &team},
	}, nil
}

func (p *stubRecruitingProvider) FetchTeamClasses(_ context.Context, team string, year int) ([]recruiting.TeamClass, error) {
	p.classCalls++
	rank := 7
	return []recruiting.TeamClass{{Year: year, Team: team, Rank: &rank}}, nil
}

func (p *stubRecruitingProvider) FetchPositionGroups(_ context.Context, team string, year int) ([]recruiting.PositionGroup, error) {
	p.groupCalls++
	return []recruiting.PositionGroup{
		{Year: year, Team: team, PositionGroup: "QB"},
		{Year: year, Team: team, PositionGroup: "OL"},
	}, nil
}

type stubRecruitingRepo struct {
	cleared  [][2]any
	recruits int
	byYear   map[int]int
	classes  int
	groups   map[[3]any]recruiting.PositionGroup

	countErr error
}

func newStubRecruitingRepo() *stubRecruitingRepo {
	return &stubRecruitingRepo{
		byYear: make(map[int]int),
		groups: make(map[[3]any]recruiting.PositionGroup),
	}
}

func (r *stubRecruitingRepo) UpsertRecruits(_ context.Context, recruits []recruiting.Recruit) (int, error) {
	for _, rec := range recruits {
		r.byYear[rec.Year]++
	}
	r.recruits += len(recruits)
	return len(recruits), nil
}

func (r *stubRecruitingRepo) UpsertTeamClasses(_ context.Context, classes []recruiting.TeamClass) (int, error) {
	r.classes += len(classes)
	return len(classes), nil
}

func (r *stubRecruitingRepo) UpsertPositionGroups(_ context.Context, groups []recruiting.PositionGroup) (int, error) {
	for _, g := range groups {
		r.groups[[3]any{g.Year, g.Team, g.PositionGroup}] = g
	}
	return len(groups), nil
}

func (r *stubRecruitingRepo) ClearTeamYear(_ context.Context, team string, year int) error {
	r.cleared = append(r.cleared, [2]any{team, year})
	return nil
}

func (r *stubRecruitingRepo) CountRecruitsByTeamYear(_ context.Context, _ string, year int) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return r.byYear[year], nil
}

func TestRecruitingSyncFullCycle(t *testing.T) {
	provider := &stubRecruitingProvider{}
	repo := newStubRecruitingRepo()
	service := NewRecruitingSyncService(provider, repo, logging.NewNop())

	report, err := service.Sync(context.Background(), "Oklahoma", 2021, 2022, 100)
	require.NoError(t, err)

	assert.Equal(t, 2*recruitingCallsPerYear, report.CallsMade)
	assert.Equal(t, [][2]any{{"Oklahoma", 2021}, {"Oklahoma", 2022}}, repo.cleared)
	assert.Equal(t, 4, repo.recruits)
	assert.Equal(t, 2, repo.classes)
	assert.Len(t, repo.groups, 4)
	assert.Equal(t, 10, report.RowsWritten)
	require.NoError(t, report.Err())

	// Record-error check plus one stored-count check per cycle.
	require.Len(t, report.Checks, 3)
	for _, check := range report.Checks {
		assert.Equal(t, ValidationPass, check.Status, check.Name)
	}
}

func TestRecruitingSyncPositionGroupKeyIsComposite(t *testing.T) {
	provider := &stubRecruitingProvider{}
	repo := newStubRecruitingRepo()
	service := NewRecruitingSyncService(provider, repo, logging.NewNop())

	_, err := service.Sync(context.Background(), "Oklahoma", 2021, 2021, 100)
	require.NoError(t, err)
	_, err = service.Sync(context.Background(), "Oklahoma", 2021, 2021, 100)
	require.NoError(t, err)

	// Re-running the same cycle overwrites, never duplicates.
	assert.Len(t, repo.groups, 2)
	_, ok := repo.groups[[3]any{2021, "Oklahoma", "QB"}]
	assert.True(t, ok)
}

func TestRecruitingSyncRecruitErrorDoesNotBlockOtherResources(t *testing.T) {
	provider := &stubRecruitingProvider{
		recruitErr: map[int]error{2021: errors.New("upstream 500")},
	}
	repo := newStubRecruitingRepo()
	service := NewRecruitingSyncService(provider, repo, logging.NewNop())

	report, err := service.Sync(context.Background(), "Oklahoma", 2021, 2021, 100)
	require.NoError(t, err)

	require.Len(t, report.Errors, 1)
	assert.Equal(t, "recruits", report.Errors[0].Resource)
	// Failed recruit fetch leaves stored recruits untouched.
	assert.Empty(t, repo.cleared)
	// Class rank and position groups still landed.
	assert.Equal(t, 1, repo.classes)
	assert.Len(t, repo.groups, 2)
	assert.Equal(t, 3, report.RowsWritten)

	require.Len(t, report.Checks, 2)
	assert.Equal(t, ValidationWarn, report.Checks[0].Status)
	// Nothing landed in the store for the failed cycle.
	assert.Equal(t, "recruits_present_2021", report.Checks[1].Name)
	assert.Equal(t, ValidationWarn, report.Checks[1].Status)
}

func TestRecruitingSyncStoredCountChecks(t *testing.T) {
	provider := &stubRecruitingProvider{}
	repo := newStubRecruitingRepo()
	service := NewRecruitingSyncService(provider, repo, logging.NewNop())

	report, err := service.Sync(context.Background(), "Oklahoma", 2021, 2021, 100)
	require.NoError(t, err)

	require.Len(t, report.Checks, 2)
	assert.Equal(t, "recruits_present_2021", report.Checks[1].Name)
	assert.Equal(t, ValidationPass, report.Checks[1].Status)
	assert.Contains(t, report.Checks[1].Detail, "2 recruits stored")
}

func TestRecruitingSyncStoredCountQueryFailure(t *testing.T) {
	provider := &stubRecruitingProvider{}
	repo := newStubRecruitingRepo()
	repo.countErr = errors.New("connection reset")
	service := NewRecruitingSyncService(provider, repo, logging.NewNop())

	report, err := service.Sync(context.Background(), "Oklahoma", 2021, 2021, 100)
	require.NoError(t, err)

	require.Len(t, report.Checks, 2)
	assert.Equal(t, "recruits_present_2021", report.Checks[1].Name)
	assert.Equal(t, ValidationFail, report.Checks[1].Status)
	// A failed check never fails the run itself.
	require.NoError(t, report.Err())
}

func TestRecruitingSyncBudgetEnforced(t *testing.T) {
	provider := &stubRecruitingProvider{}
	repo := newStubRecruitingRepo()
	service := NewRecruitingSyncService(provider, repo, logging.NewNop())

	// 100-call budget covers 33 full cycles; year 34 never starts.
	report, err := service.Sync(context.Background(), "Oklahoma", 1990, 2024, 100)
	require.NoError(t, err)

	assert.Equal(t, 33, provider.recruitCalls)
	assert.Equal(t, 99, report.CallsMade)
	assert.True(t, report.BudgetExhausted)
}
