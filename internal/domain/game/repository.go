package game

import "context"

// Repository persists the games family. Upserts return the number of rows
// written so orchestrators can report totals.
type Repository interface {
	UpsertGames(ctx context.Context, games []Game) (int, error)
	UpsertDrives(ctx context.Context, drives []Drive) (int, error)
	UpsertPlays(ctx context.Context, plays []Play) (int, error)

	CountGamesBySeason(ctx context.Context, team string, season int) (int, error)
}
