package usecase

import (
	"context"

	"github.com/crimson-data/cfb-analytics/internal/domain/game"
	"github.com/crimson-data/cfb-analytics/internal/domain/ranking"
	"github.com/crimson-data/cfb-analytics/internal/domain/recruiting"
	"github.com/crimson-data/cfb-analytics/internal/domain/roster"
	"github.com/crimson-data/cfb-analytics/internal/domain/transfer"
)

// Provider interfaces are the slice of the upstream client each
// orchestrator needs. external/cfbd.Client satisfies all of them.

type GamesProvider interface {
	FetchGames(ctx context.Context, team string, year int) ([]game.Game, error)
	FetchDrives(ctx context.Context, team string, year int) ([]game.Drive, error)
	FetchPlays(ctx context.Context, team string, year, week int, seasonType string) ([]game.Play, error)
}

type RosterProvider interface {
	FetchRoster(ctx context.Context, team string, year int) ([]roster.Player, error)
}

type RecruitingProvider interface {
	FetchRecruits(ctx context.Context, team string, year int) ([]recruiting.Recruit, error)
	FetchTeamClasses(ctx context.Context, team string, year int) ([]recruiting.TeamClass, error)
	FetchPositionGroups(ctx context.Context, team string, year int) ([]recruiting.PositionGroup, error)
}

type TransferProvider interface {
	FetchTransferPortal(ctx context.Context, year int) ([]transfer.Transfer, error)
}

type RankingsProvider interface {
	FetchRankings(ctx context.Context, year int) ([]ranking.Ranking, error)
}
