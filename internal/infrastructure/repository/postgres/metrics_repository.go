package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/crimson-data/cfb-analytics/internal/domain/metrics"
)

// MetricsRepository computes derived metrics in SQL. Aggregates come back
// as nullable columns so empty seasons surface as null, never zero.
type MetricsRepository struct {
	db *sqlx.DB
}

func NewMetricsRepository(db *sqlx.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

// Play-type matching mirrors game.Play.IsRush and IsPass.
const epaQuery = `
SELECT
	AVG(p.ppa) AS overall_epa,
	COUNT(p.ppa) AS overall_plays,
	AVG(p.ppa) FILTER (WHERE LOWER(p.play_type) LIKE '%rush%') AS rush_epa,
	COUNT(p.ppa) FILTER (WHERE LOWER(p.play_type) LIKE '%rush%') AS rush_plays,
	AVG(p.ppa) FILTER (WHERE LOWER(p.play_type) LIKE '%pass%' OR LOWER(p.play_type) LIKE '%sack%') AS pass_epa,
	COUNT(p.ppa) FILTER (WHERE LOWER(p.play_type) LIKE '%pass%' OR LOWER(p.play_type) LIKE '%sack%') AS pass_plays
FROM plays p
JOIN games g ON g.id = p.game_id
WHERE p.offense = $1 AND g.season = $2 AND p.ppa IS NOT NULL`

func (r *MetricsRepository) TeamSeasonEPA(ctx context.Context, team string, season int) (*metrics.EPASummary, error) {
	var row struct {
		OverallEPA   sql.NullFloat64 `db:"overall_epa"`
		OverallPlays int             `db:"overall_plays"`
		RushEPA      sql.NullFloat64 `db:"rush_epa"`
		RushPlays    int             `db:"rush_plays"`
		PassEPA      sql.NullFloat64 `db:"pass_epa"`
		PassPlays    int             `db:"pass_plays"`
	}
	if err := r.db.GetContext(ctx, &row, epaQuery, team, season); err != nil {
		return nil, fmt.Errorf("epa query for %s %d: %w", team, season, err)
	}

	return &metrics.EPASummary{
		OverallEPA:   nullableFloat(row.OverallEPA),
		RushEPA:      nullableFloat(row.RushEPA),
		PassEPA:      nullableFloat(row.PassEPA),
		OverallPlays: row.OverallPlays,
		RushPlays:    row.RushPlays,
		PassPlays:    row.PassPlays,
	}, nil
}

// Bucket boundaries mirror metrics.DistanceBucket.
const successRateQuery = `
SELECT
	p.down AS down,
	CASE WHEN p.distance <= 3 THEN '1-3' WHEN p.distance <= 6 THEN '4-6' ELSE '7+' END AS distance_bucket,
	COUNT(*) AS plays,
	AVG(CASE WHEN p.ppa > 0 THEN 1.0 ELSE 0.0 END) AS success_rate
FROM plays p
JOIN games g ON g.id = p.game_id
WHERE p.offense = $1 AND g.season = $2
	AND p.down BETWEEN 1 AND 4
	AND p.distance IS NOT NULL
	AND p.ppa IS NOT NULL
GROUP BY 1, 2
ORDER BY 1, 2`

func (r *MetricsRepository) TeamSeasonSuccessRates(ctx context.Context, team string, season int) ([]metrics.SuccessRateCell, error) {
	var rows []struct {
		Down           int             `db:"down"`
		DistanceBucket string          `db:"distance_bucket"`
		Plays          int             `db:"plays"`
		SuccessRate    sql.NullFloat64 `db:"success_rate"`
	}
	if err := r.db.SelectContext(ctx, &rows, successRateQuery, team, season); err != nil {
		return nil, fmt.Errorf("success rate query for %s %d: %w", team, season, err)
	}

	cells := make([]metrics.SuccessRateCell, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, metrics.SuccessRateCell{
			Down:           row.Down,
			DistanceBucket: row.DistanceBucket,
			Plays:          row.Plays,
			SuccessRate:    nullableFloat(row.SuccessRate),
		})
	}
	return cells, nil
}

const explosivenessQuery = `
SELECT
	COUNT(*) AS total_plays,
	COUNT(*) FILTER (WHERE p.yards_gained >= 20) AS explosive_plays,
	AVG(CASE WHEN p.yards_gained >= 20 THEN 1.0 ELSE 0.0 END) AS overall_rate,
	AVG(CASE WHEN p.yards_gained >= 20 THEN 1.0 ELSE 0.0 END)
		FILTER (WHERE LOWER(p.play_type) LIKE '%rush%') AS rush_rate,
	AVG(CASE WHEN p.yards_gained >= 20 THEN 1.0 ELSE 0.0 END)
		FILTER (WHERE LOWER(p.play_type) LIKE '%pass%' OR LOWER(p.play_type) LIKE '%sack%') AS pass_rate
FROM plays p
JOIN games g ON g.id = p.game_id
WHERE p.offense = $1 AND g.season = $2 AND p.yards_gained IS NOT NULL`

func (r *MetricsRepository) TeamSeasonExplosiveness(ctx context.Context, team string, season int) (*metrics.Explosiveness, error) {
	var row struct {
		TotalPlays     int             `db:"total_plays"`
		ExplosivePlays int             `db:"explosive_plays"`
		OverallRate    sql.NullFloat64 `db:"overall_rate"`
		RushRate       sql.NullFloat64 `db:"rush_rate"`
		PassRate       sql.NullFloat64 `db:"pass_rate"`
	}
	if err := r.db.GetContext(ctx, &row, explosivenessQuery, team, season); err != nil {
		return nil, fmt.Errorf("explosiveness query for %s %d: %w", team, season, err)
	}

	return &metrics.Explosiveness{
		OverallRate:    nullableFloat(row.OverallRate),
		RushRate:       nullableFloat(row.RushRate),
		PassRate:       nullableFloat(row.PassRate),
		ExplosivePlays: row.ExplosivePlays,
		TotalPlays:     row.TotalPlays,
	}, nil
}

// Raw results come back ungrouped by category; folding into the canonical
// taxonomy happens in Go so the variant tables live in one place.
const driveOutcomesQuery = `
SELECT d.drive_result AS result, COUNT(*) AS drives
FROM drives d
JOIN games g ON g.id = d.game_id
WHERE d.offense = $1 AND g.season = $2 AND d.drive_result IS NOT NULL
GROUP BY d.drive_result`

func (r *MetricsRepository) TeamSeasonDriveOutcomes(ctx context.Context, team string, season int) (*metrics.DriveOutcomes, error) {
	var rows []struct {
		Result string `db:"result"`
		Drives int    `db:"drives"`
	}
	if err := r.db.SelectContext(ctx, &rows, driveOutcomesQuery, team, season); err != nil {
		return nil, fmt.Errorf("drive outcomes query for %s %d: %w", team, season, err)
	}

	out := &metrics.DriveOutcomes{}
	categories := make(map[string]int)
	scoring, giveaways := 0, 0
	for _, row := range rows {
		out.TotalDrives += row.Drives
		categories[metrics.ResultCategory(row.Result)] += row.Drives
		if metrics.IsScoringResult(row.Result) {
			scoring += row.Drives
		}
		if metrics.IsGiveawayResult(row.Result) {
			giveaways += row.Drives
		}
	}
	if out.TotalDrives == 0 {
		return out, nil
	}

	out.Outcomes = outcomeDistribution(categories, out.TotalDrives)
	scoringPct := float64(scoring) / float64(out.TotalDrives)
	giveawayPct := float64(giveaways) / float64(out.TotalDrives)
	out.ScoringPct = &scoringPct
	out.GiveawayPct = &giveawayPct
	return out, nil
}

func outcomeDistribution(categories map[string]int, totalDrives int) []metrics.DriveOutcome {
	out := make([]metrics.DriveOutcome, 0, len(categories))
	for category, drives := range categories {
		out = append(out, metrics.DriveOutcome{
			Result: category,
			Drives: drives,
			Share:  float64(drives) / float64(totalDrives),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Drives != out[j].Drives {
			return out[i].Drives > out[j].Drives
		}
		return out[i].Result < out[j].Result
	})
	return out
}

// Field position is clamped into [0, 100] before bucketing, mirroring
// metrics.FieldPositionBucket.
const pointsPerDriveQuery = `
SELECT
	CASE
		WHEN LEAST(GREATEST(d.start_yards_to_goal, 0), 100) <= 20 THEN '0-20'
		WHEN LEAST(GREATEST(d.start_yards_to_goal, 0), 100) <= 40 THEN '21-40'
		WHEN LEAST(GREATEST(d.start_yards_to_goal, 0), 100) <= 60 THEN '41-60'
		ELSE '61+'
	END AS bucket,
	COUNT(*) AS drives,
	SUM(GREATEST(COALESCE(d.end_offense_score, 0) - COALESCE(d.start_offense_score, 0), 0)) AS total_points
FROM drives d
JOIN games g ON g.id = d.game_id
WHERE d.offense = $1 AND g.season = $2 AND d.start_yards_to_goal IS NOT NULL
GROUP BY 1`

func (r *MetricsRepository) TeamSeasonPointsPerDrive(ctx context.Context, team string, season int) ([]metrics.FieldPositionPPD, error) {
	var rows []struct {
		Bucket      string `db:"bucket"`
		Drives      int    `db:"drives"`
		TotalPoints int    `db:"total_points"`
	}
	if err := r.db.SelectContext(ctx, &rows, pointsPerDriveQuery, team, season); err != nil {
		return nil, fmt.Errorf("points per drive query for %s %d: %w", team, season, err)
	}

	byBucket := make(map[string]metrics.FieldPositionPPD, len(rows))
	for _, row := range rows {
		ppd := float64(row.TotalPoints) / float64(row.Drives)
		byBucket[row.Bucket] = metrics.FieldPositionPPD{
			Bucket:         row.Bucket,
			Drives:         row.Drives,
			TotalPoints:    row.TotalPoints,
			PointsPerDrive: &ppd,
		}
	}

	// Stable bucket order, including empty buckets with null averages.
	out := make([]metrics.FieldPositionPPD, 0, len(metrics.FieldPositionBuckets))
	for _, bucket := range metrics.FieldPositionBuckets {
		if found, ok := byBucket[bucket]; ok {
			out = append(out, found)
			continue
		}
		out = append(out, metrics.FieldPositionPPD{Bucket: bucket})
	}
	return out, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	value := v.Float64
	return &value
}
