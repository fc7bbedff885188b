package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/crimson-data/cfb-analytics/internal/domain/roster"
	qb "github.com/crimson-data/cfb-analytics/internal/platform/querybuilder"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

type rosterRow struct {
	AthleteID   string  `db:"athlete_id"`
	Season      int     `db:"season"`
	Team        string  `db:"team"`
	FirstName   *string `db:"first_name"`
	LastName    *string `db:"last_name"`
	Jersey      *int    `db:"jersey"`
	Position    *string `db:"position"`
	Height      *int    `db:"height"`
	Weight      *int    `db:"weight"`
	Year        *int    `db:"year"`
	HomeCity    *string `db:"home_city"`
	HomeState   *string `db:"home_state"`
	HomeCountry *string `db:"home_country"`
}

func toRosterRow(p roster.Player) rosterRow {
	return rosterRow{
		AthleteID:   p.AthleteID,
		Season:      p.Season,
		Team:        p.Team,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Jersey:      p.Jersey,
		Position:    p.Position,
		Height:      p.Height,
		Weight:      p.Weight,
		Year:        p.Year,
		HomeCity:    p.HomeCity,
		HomeState:   p.HomeState,
		HomeCountry: p.HomeCountry,
	}
}

const rosterUpsertSuffix = `ON CONFLICT (athlete_id, season, team) DO UPDATE SET
	first_name = EXCLUDED.first_name,
	last_name = EXCLUDED.last_name,
	jersey = EXCLUDED.jersey,
	position = EXCLUDED.position,
	height = EXCLUDED.height,
	weight = EXCLUDED.weight,
	year = EXCLUDED.year,
	home_city = EXCLUDED.home_city,
	home_state = EXCLUDED.home_state,
	home_country = EXCLUDED.home_country`

func (r *RosterRepository) UpsertPlayers(ctx context.Context, players []roster.Player) (int, error) {
	if len(players) == 0 {
		return 0, nil
	}

	rows := make([]rosterRow, len(players))
	for i, p := range players {
		rows[i] = toRosterRow(p)
	}

	written := 0
	for _, batch := range chunkRows(rows, insertBatchSize) {
		query, args, err := qb.InsertModels("roster", batch, rosterUpsertSuffix)
		if err != nil {
			return written, fmt.Errorf("build roster upsert: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return written, fmt.Errorf("upsert roster batch of %d: %w", len(batch), err)
		}
		written += len(batch)
	}
	return written, nil
}

func (r *RosterRepository) ClearTeamSeason(ctx context.Context, team string, season int) error {
	query, args, err := qb.DeleteFrom("roster").
		Where(qb.Eq("team", team), qb.Eq("season", season)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build roster clear: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear roster %s %d: %w", team, season, err)
	}
	return nil
}

func (r *RosterRepository) CountTeamSeason(ctx context.Context, team string, season int) (int, error) {
	query, args, err := qb.Select("COUNT(*)").
		From("roster").
		Where(qb.Eq("team", team), qb.Eq("season", season)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build roster count: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count roster %s %d: %w", team, season, err)
	}
	return count, nil
}
