package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/crimson-data/cfb-analytics/internal/domain/game"
	qb "github.com/crimson-data/cfb-analytics/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

type gameRow struct {
	ID              int64         `db:"id"`
	Season          int           `db:"season"`
	Week            *int          `db:"week"`
	SeasonType      string        `db:"season_type"`
	StartDate       *time.Time    `db:"start_date"`
	NeutralSite     *bool         `db:"neutral_site"`
	ConferenceGame  *bool         `db:"conference_game"`
	Attendance      *int64        `db:"attendance"`
	VenueID         *int64        `db:"venue_id"`
	Venue           *string       `db:"venue"`
	HomeID          *int64        `db:"home_id"`
	HomeTeam        string        `db:"home_team"`
	HomeConference  *string       `db:"home_conference"`
	HomePoints      *int          `db:"home_points"`
	HomeLineScores  pq.Int64Array `db:"home_line_scores"`
	AwayID          *int64        `db:"away_id"`
	AwayTeam        string        `db:"away_team"`
	AwayConference  *string       `db:"away_conference"`
	AwayPoints      *int          `db:"away_points"`
	AwayLineScores  pq.Int64Array `db:"away_line_scores"`
	ExcitementIndex *float64      `db:"excitement_index"`
}

func toGameRow(g game.Game) gameRow {
	return gameRow{
		ID:              g.ID,
		Season:          g.Season,
		Week:            g.Week,
		SeasonType:      g.SeasonType,
		StartDate:       g.StartDate,
		NeutralSite:     g.NeutralSite,
		ConferenceGame:  g.ConferenceGame,
		Attendance:      g.Attendance,
		VenueID:         g.VenueID,
		Venue:           g.Venue,
		HomeID:          g.HomeID,
		HomeTeam:        g.HomeTeam,
		HomeConference:  g.HomeConference,
		HomePoints:      g.HomePoints,
		HomeLineScores:  pq.Int64Array(g.HomeLineScores),
		AwayID:          g.AwayID,
		AwayTeam:        g.AwayTeam,
		AwayConference:  g.AwayConference,
		AwayPoints:      g.AwayPoints,
		AwayLineScores:  pq.Int64Array(g.AwayLineScores),
		ExcitementIndex: g.ExcitementIndex,
	}
}

const gameUpsertSuffix = `ON CONFLICT (id) DO UPDATE SET
	season = EXCLUDED.season,
	week = EXCLUDED.week,
	season_type = EXCLUDED.season_type,
	start_date = EXCLUDED.start_date,
	neutral_site = EXCLUDED.neutral_site,
	conference_game = EXCLUDED.conference_game,
	attendance = EXCLUDED.attendance,
	venue_id = EXCLUDED.venue_id,
	venue = EXCLUDED.venue,
	home_id = EXCLUDED.home_id,
	home_team = EXCLUDED.home_team,
	home_conference = EXCLUDED.home_conference,
	home_points = EXCLUDED.home_points,
	home_line_scores = EXCLUDED.home_line_scores,
	away_id = EXCLUDED.away_id,
	away_team = EXCLUDED.away_team,
	away_conference = EXCLUDED.away_conference,
	away_points = EXCLUDED.away_points,
	away_line_scores = EXCLUDED.away_line_scores,
	excitement_index = EXCLUDED.excitement_index`

func (r *GameRepository) UpsertGames(ctx context.Context, games []game.Game) (int, error) {
	if len(games) == 0 {
		return 0, nil
	}

	rows := make([]gameRow, len(games))
	for i, g := range games {
		rows[i] = toGameRow(g)
	}

	written := 0
	for _, batch := range chunkRows(rows, insertBatchSize) {
		query, args, err := qb.InsertModels("games", batch, gameUpsertSuffix)
		if err != nil {
			return written, fmt.Errorf("build games upsert: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return written, fmt.Errorf("upsert games batch of %d: %w", len(batch), err)
		}
		written += len(batch)
	}
	return written, nil
}

type driveRow struct {
	GameID            int64   `db:"game_id"`
	DriveNumber       int     `db:"drive_number"`
	Offense           string  `db:"offense"`
	OffenseConference *string `db:"offense_conference"`
	Defense           string  `db:"defense"`
	DefenseConference *string `db:"defense_conference"`
	Scoring           *bool   `db:"scoring"`
	StartPeriod       *int    `db:"start_period"`
	StartYardsToGoal  *int    `db:"start_yards_to_goal"`
	EndPeriod         *int    `db:"end_period"`
	EndYardsToGoal    *int    `db:"end_yards_to_goal"`
	ElapsedSeconds    *int    `db:"elapsed_seconds"`
	PlayCount         *int    `db:"play_count"`
	Yards             *int    `db:"yards"`
	DriveResult       *string `db:"drive_result"`
	StartOffenseScore *int    `db:"start_offense_score"`
	EndOffenseScore   *int    `db:"end_offense_score"`
	StartDefenseScore *int    `db:"start_defense_score"`
	EndDefenseScore   *int    `db:"end_defense_score"`
}

func toDriveRow(d game.Drive) driveRow {
	return driveRow{
		GameID:            d.GameID,
		DriveNumber:       d.DriveNumber,
		Offense:           d.Offense,
		OffenseConference: d.OffenseConference,
		Defense:           d.Defense,
		DefenseConference: d.DefenseConference,
		Scoring:           d.Scoring,
		StartPeriod:       d.StartPeriod,
		StartYardsToGoal:  d.StartYardsToGoal,
		EndPeriod:         d.EndPeriod,
		EndYardsToGoal:    d.EndYardsToGoal,
		ElapsedSeconds:    d.ElapsedSeconds,
		PlayCount:         d.PlayCount,
		Yards:             d.Yards,
		DriveResult:       d.DriveResult,
		StartOffenseScore: d.StartOffenseScore,
		EndOffenseScore:   d.EndOffenseScore,
		StartDefenseScore: d.StartDefenseScore,
		EndDefenseScore:   d.EndDefenseScore,
	}
}

const driveUpsertSuffix = `ON CONFLICT (game_id, drive_number) DO UPDATE SET
	offense = EXCLUDED.offense,
	offense_conference = EXCLUDED.offense_conference,
	defense = EXCLUDED.defense,
	defense_conference = EXCLUDED.defense_conference,
	scoring = EXCLUDED.scoring,
	start_period = EXCLUDED.start_period,
	start_yards_to_goal = EXCLUDED.start_yards_to_goal,
	end_period = EXCLUDED.end_period,
	end_yards_to_goal = EXCLUDED.end_yards_to_goal,
	elapsed_seconds = EXCLUDED.elapsed_seconds,
	play_count = EXCLUDED.play_count,
	yards = EXCLUDED.yards,
	drive_result = EXCLUDED.drive_result,
	start_offense_score = EXCLUDED.start_offense_score,
	end_offense_score = EXCLUDED.end_offense_score,
	start_defense_score = EXCLUDED.start_defense_score,
	end_defense_score = EXCLUDED.end_defense_score`

func (r *GameRepository) UpsertDrives(ctx context.Context, drives []game.Drive) (int, error) {
	if len(drives) == 0 {
		return 0, nil
	}

	rows := make([]driveRow, len(drives))
	for i, d := range drives {
		rows[i] = toDriveRow(d)
	}

	written := 0
	for _, batch := range chunkRows(rows, insertBatchSize) {
		query, args, err := qb.InsertModels("drives", batch, driveUpsertSuffix)
		if err != nil {
			return written, fmt.Errorf("build drives upsert: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return written, fmt.Errorf("upsert drives batch of %d: %w", len(batch), err)
		}
		written += len(batch)
	}
	return written, nil
}

type playRow struct {
	GameID       int64    `db:"game_id"`
	DriveNumber  int      `db:"drive_number"`
	PlayNumber   int      `db:"play_number"`
	Offense      string   `db:"offense"`
	Defense      string   `db:"defense"`
	Period       *int     `db:"period"`
	ClockSeconds *int     `db:"clock_seconds"`
	OffenseScore *int     `db:"offense_score"`
	DefenseScore *int     `db:"defense_score"`
	YardsToGoal  *int     `db:"yards_to_goal"`
	Down         *int     `db:"down"`
	Distance     *int     `db:"distance"`
	YardsGained  *int     `db:"yards_gained"`
	PlayType     *string  `db:"play_type"`
	PlayText     *string  `db:"play_text"`
	PPA          *float64 `db:"ppa"`
	Scoring      *bool    `db:"scoring"`
}

func toPlayRow(p game.Play) playRow {
	return playRow{
		GameID:       p.GameID,
		DriveNumber:  p.DriveNumber,
		PlayNumber:   p.PlayNumber,
		Offense:      p.Offense,
		Defense:      p.Defense,
		Period:       p.Period,
		ClockSeconds: p.ClockSeconds,
		OffenseScore: p.OffenseScore,
		DefenseScore: p.DefenseScore,
		YardsToGoal:  p.YardsToGoal,
		Down:         p.Down,
		Distance:     p.Distance,
		YardsGained:  p.YardsGained,
		PlayType:     p.PlayType,
		PlayText:     p.PlayText,
		PPA:          p.PPA,
		Scoring:      p.Scoring,
	}
}

const playUpsertSuffix = `ON CONFLICT (game_id, drive_number, play_number) DO UPDATE SET
	offense = EXCLUDED.offense,
	defense = EXCLUDED.defense,
	period = EXCLUDED.period,
	clock_seconds = EXCLUDED.clock_seconds,
	offense_score = EXCLUDED.offense_score,
	defense_score = EXCLUDED.defense_score,
	yards_to_goal = EXCLUDED.yards_to_goal,
	down = EXCLUDED.down,
	distance = EXCLUDED.distance,
	yards_gained = EXCLUDED.yards_gained,
	play_type = EXCLUDED.play_type,
	play_text = EXCLUDED.play_text,
	ppa = EXCLUDED.ppa,
	scoring = EXCLUDED.scoring`

func (r *GameRepository) UpsertPlays(ctx context.Context, plays []game.Play) (int, error) {
	if len(plays) == 0 {
		return 0, nil
	}

	rows := make([]playRow, len(plays))
	for i, p := range plays {
		rows[i] = toPlayRow(p)
	}

	written := 0
	for _, batch := range chunkRows(rows, insertBatchSize) {
		query, args, err := qb.InsertModels("plays", batch, playUpsertSuffix)
		if err != nil {
			return written, fmt.Errorf("build plays upsert: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return written, fmt.Errorf("upsert plays batch of %d: %w", len(batch), err)
		}
		written += len(batch)
	}
	return written, nil
}

func (r *GameRepository) CountGamesBySeason(ctx context.Context, team string, season int) (int, error) {
	query, args, err := qb.Select("COUNT(*)").
		From("games").
		Where(
			qb.Eq("season", season),
			qb.Expr("(home_team = ? OR away_team = ?)", team, team),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build games count: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count games for %s %d: %w", team, season, err)
	}
	return count, nil
}
