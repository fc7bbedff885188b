package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/crimson-data/cfb-analytics/internal/domain/recruiting"
	qb "github.com/crimson-data/cfb-analytics/internal/platform/querybuilder"
)

type RecruitingRepository struct {
	db *sqlx.DB
}

func NewRecruitingRepository(db *sqlx.DB) *RecruitingRepository {
	return &RecruitingRepository{db: db}
}

type recruitRow struct {
	ID            int64    `db:"id"`
	Year          int      `db:"year"`
	RecruitType   string   `db:"recruit_type"`
	Name          string   `db:"name"`
	AthleteID     *string  `db:"athlete_id"`
	School        *string  `db:"school"`
	CommittedTo   *string  `db:"committed_to"`
	Position      *string  `db:"position"`
	Ranking       *int     `db:"ranking"`
	Stars         *int     `db:"stars"`
	Rating        *float64 `db:"rating"`
	Height        *float64 `db:"height"`
	Weight        *int     `db:"weight"`
	City          *string  `db:"city"`
	StateProvince *string  `db:"state_province"`
	Country       *string  `db:"country"`
}

func toRecruitRow(rec recruiting.Recruit) recruitRow {
	return recruitRow{
		ID:            rec.ID,
		Year:          rec.Year,
		RecruitType:   rec.RecruitType,
		Name:          rec.Name,
		AthleteID:     rec.AthleteID,
		School:        rec.School,
		CommittedTo:   rec.CommittedTo,
		Position:      rec.Position,
		Ranking:       rec.Ranking,
		Stars:         rec.Stars,
		Rating:        rec.Rating,
		Height:        rec.Height,
		Weight:        rec.Weight,
		City:          rec.City,
		StateProvince: rec.StateProvince,
		Country:       rec.Country,
	}
}

const recruitUpsertSuffix = `ON CONFLICT (id) DO UPDATE SET
	year = EXCLUDED.year,
	recruit_type = EXCLUDED.recruit_type,
	name = EXCLUDED.name,
	athlete_id = EXCLUDED.athlete_id,
	school = EXCLUDED.school,
	committed_to = EXCLUDED.committed_to,
	position = EXCLUDED.position,
	ranking = EXCLUDED.ranking,
	stars = EXCLUDED.stars,
	rating = EXCLUDED.rating,
	height = EXCLUDED.height,
	weight = EXCLUDED.weight,
	city = EXCLUDED.city,
	state_province = EXCLUDED.state_province,
	country = EXCLUDED.country`

func (r *RecruitingRepository) UpsertRecruits(ctx context.Context, recruits []recruiting.Recruit) (int, error) {
	if len(recruits) == 0 {
		return 0, nil
	}

	rows := make([]recruitRow, len(recruits))
	for i, rec := range recruits {
		rows[i] = toRecruitRow(rec)
	}

	written := 0
	for _, batch := range chunkRows(rows, insertBatchSize) {
		query, args, err := qb.InsertModels("recruiting", batch, recruitUpsertSuffix)
		if err != nil {
			return written, fmt.Errorf("build recruiting upsert: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return written, fmt.Errorf("upsert recruiting batch of %d: %w", len(batch), err)
		}
		written += len(batch)
	}
	return written, nil
}

type teamClassRow struct {
	Year   int      `db:"year"`
	Team   string   `db:"team"`
	Rank   *int     `db:"rank"`
	Points *float64 `db:"points"`
}

const teamClassUpsertSuffix = `ON CONFLICT (year, team) DO UPDATE SET
	rank = EXCLUDED.rank,
	points = EXCLUDED.points`

func (r *RecruitingRepository) UpsertTeamClasses(ctx context.Context, classes []recruiting.TeamClass) (int, error) {
	if len(classes) == 0 {
		return 0, nil
	}

	rows := make([]teamClassRow, len(classes))
	for i, c := range classes {
		rows[i] = teamClassRow{Year: c.Year, Team: c.Team, Rank: c.Rank, Points: c.Points}
	}

	query, args, err := qb.InsertModels("recruiting_classes", rows, teamClassUpsertSuffix)
	if err != nil {
		return 0, fmt.Errorf("build recruiting classes upsert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("upsert recruiting classes: %w", err)
	}
	return len(rows), nil
}

type positionGroupRow struct {
	Year          int      `db:"year"`
	Team          string   `db:"team"`
	PositionGroup string   `db:"position_group"`
	AverageRating *float64 `db:"average_rating"`
	TotalRating   *float64 `db:"total_rating"`
	CommitCount   *int     `db:"commit_count"`
	AverageStars  *float64 `db:"average_stars"`
}

const positionGroupUpsertSuffix = `ON CONFLICT (year, team, position_group) DO UPDATE SET
	average_rating = EXCLUDED.average_rating,
	total_rating = EXCLUDED.total_rating,
	commit_count = EXCLUDED.commit_count,
	average_stars = EXCLUDED.average_stars`

func (r *RecruitingRepository) UpsertPositionGroups(ctx context.Context, groups []recruiting.PositionGroup) (int, error) {
	if len(groups) == 0 {
		return 0, nil
	}

	rows := make([]positionGroupRow, len(groups))
	for i, g := range groups {
		rows[i] = positionGroupRow{
			Year:          g.Year,
			Team:          g.Team,
			PositionGroup: g.PositionGroup,
			AverageRating: g.AverageRating,
			TotalRating:   g.TotalRating,
			CommitCount:   g.CommitCount,
			AverageStars:  g.AverageStars,
		}
	}

	query, args, err := qb.InsertModels("recruiting_position_groups", rows, positionGroupUpsertSuffix)
	if err != nil {
		return 0, fmt.Errorf("build position groups upsert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("upsert position groups: %w", err)
	}
	return len(rows), nil
}

// ClearTeamYear removes a team's committed recruits for one cycle. Matching
// on committed_to keeps recruits who signed elsewhere intact.
func (r *RecruitingRepository) ClearTeamYear(ctx context.Context, team string, year int) error {
	query, args, err := qb.DeleteFrom("recruiting").
		Where(qb.Eq("year", year), qb.EqFold("committed_to", team)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build recruiting clear: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear recruiting %s %d: %w", team, year, err)
	}
	return nil
}

func (r *RecruitingRepository) CountRecruitsByTeamYear(ctx context.Context, team string, year int) (int, error) {
	query, args, err := qb.Select("COUNT(*)").
		From("recruiting").
		Where(qb.Eq("year", year), qb.EqFold("committed_to", team)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build recruiting count: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count recruiting %s %d: %w", team, year, err)
	}
	return count, nil
}
