package roster

import "context"

type Repository interface {
	UpsertPlayers(ctx context.Context, players []Player) (int, error)

	// ClearTeamSeason removes a team's roster for one season ahead of a
	// fresh load.
	ClearTeamSeason(ctx context.Context, team string, season int) error

	CountTeamSeason(ctx context.Context, team string, season int) (int, error)
}
