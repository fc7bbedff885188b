package memory

import (
	"context"
	"sync"

	"github.com/crimson-data/cfb-analytics/internal/domain/roster"
)

type rosterKey struct {
	AthleteID string
	Season    int
	Team      string
}

type RosterRepository struct {
	mu      sync.RWMutex
	players map[rosterKey]roster.Player
}

func NewRosterRepository() *RosterRepository {
	return &RosterRepository{players: make(map[rosterKey]roster.Player)}
}

func (r *RosterRepository) UpsertPlayers(_ context.Context, players []roster.Player) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range players {
		r.players[rosterKey{AthleteID: p.AthleteID, Season: p.Season, Team: p.Team}] = p
	}
	return len(players), nil
}

func (r *RosterRepository) ClearTeamSeason(_ context.Context, team string, season int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.players {
		if key.Team == team && key.Season == season {
			delete(r.players, key)
		}
	}
	return nil
}

func (r *RosterRepository) CountTeamSeason(_ context.Context, team string, season int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for key := range r.players {
		if key.Team == team && key.Season == season {
			count++
		}
	}
	return count, nil
}

func (r *RosterRepository) Get(athleteID string, season int, team string) (roster.Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[rosterKey{AthleteID: athleteID, Season: season, Team: team}]
	return p, ok
}
