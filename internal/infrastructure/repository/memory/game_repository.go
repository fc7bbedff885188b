package memory

import (
	"context"
	"sync"

	"github.com/crimson-data/cfb-analytics/internal/domain/game"
)

type driveKey struct {
	GameID      int64
	DriveNumber int
}

type playKey struct {
	GameID      int64
	DriveNumber int
	PlayNumber  int
}

// GameRepository is the in-memory games store. It backs tests and local
// experiments with the same upsert-by-natural-key semantics as Postgres.
type GameRepository struct {
	mu     sync.RWMutex
	games  map[int64]game.Game
	drives map[driveKey]game.Drive
	plays  map[playKey]game.Play
}

func NewGameRepository() *GameRepository {
	return &GameRepository{
		games:  make(map[int64]game.Game),
		drives: make(map[driveKey]game.Drive),
		plays:  make(map[playKey]game.Play),
	}
}

func (r *GameRepository) UpsertGames(_ context.Context, games []game.Game) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range games {
		r.games[g.ID] = g
	}
	return len(games), nil
}

func (r *GameRepository) UpsertDrives(_ context.Context, drives []game.Drive) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range drives {
		r.drives[driveKey{GameID: d.GameID, DriveNumber: d.DriveNumber}] = d
	}
	return len(drives), nil
}

func (r *GameRepository) UpsertPlays(_ context.Context, plays []game.Play) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range plays {
		r.plays[playKey{GameID: p.GameID, DriveNumber: p.DriveNumber, PlayNumber: p.PlayNumber}] = p
	}
	return len(plays), nil
}

func (r *GameRepository) CountGamesBySeason(_ context.Context, team string, season int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, g := range r.games {
		if g.Season == season && (g.HomeTeam == team || g.AwayTeam == team) {
			count++
		}
	}
	return count, nil
}

func (r *GameRepository) GameCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

func (r *GameRepository) DriveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.drives)
}

func (r *GameRepository) PlayCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plays)
}

// seasonPlays returns the team's offensive plays joined against stored
// games for the season filter.
func (r *GameRepository) seasonPlays(team string, season int) []game.Play {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []game.Play
	for _, p := range r.plays {
		g, ok := r.games[p.GameID]
		if !ok || g.Season != season || p.Offense != team {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *GameRepository) seasonDrives(team string, season int) []game.Drive {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []game.Drive
	for _, d := range r.drives {
		g, ok := r.games[d.GameID]
		if !ok || g.Season != season || d.Offense != team {
			continue
		}
		out = append(out, d)
	}
	return out
}
