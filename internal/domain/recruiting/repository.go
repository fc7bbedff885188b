package recruiting

import "context"

type Repository interface {
	UpsertRecruits(ctx context.Context, recruits []Recruit) (int, error)
	UpsertTeamClasses(ctx context.Context, classes []TeamClass) (int, error)
	UpsertPositionGroups(ctx context.Context, groups []PositionGroup) (int, error)

	// ClearTeamYear removes a team's committed recruits for one cycle ahead
	// of a fresh load.
	ClearTeamYear(ctx context.Context, team string, year int) error

	// CountRecruitsByTeamYear reports how many committed recruits are stored
	// for one team and cycle.
	CountRecruitsByTeamYear(ctx context.Context, team string, year int) (int, error)
}
