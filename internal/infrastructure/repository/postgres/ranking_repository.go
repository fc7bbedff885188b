package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/crimson-data/cfb-analytics/internal/domain/ranking"
	qb "github.com/crimson-data/cfb-analytics/internal/platform/querybuilder"
)

type RankingRepository struct {
	db *sqlx.DB
}

func NewRankingRepository(db *sqlx.DB) *RankingRepository {
	return &RankingRepository{db: db}
}

type rankingRow struct {
	Season          int     `db:"season"`
	SeasonType      string  `db:"season_type"`
	Week            int     `db:"week"`
	Poll            string  `db:"poll"`
	Rank            int     `db:"rank"`
	School          string  `db:"school"`
	Conference      *string `db:"conference"`
	FirstPlaceVotes *int    `db:"first_place_votes"`
	Points          *int    `db:"points"`
}

const rankingUpsertSuffix = `ON CONFLICT (season, week, poll, school) DO UPDATE SET
	season_type = EXCLUDED.season_type,
	rank = EXCLUDED.rank,
	conference = EXCLUDED.conference,
	first_place_votes = EXCLUDED.first_place_votes,
	points = EXCLUDED.points`

func (r *RankingRepository) UpsertRankings(ctx context.Context, rankings []ranking.Ranking) (int, error) {
	if len(rankings) == 0 {
		return 0, nil
	}

	rows := make([]rankingRow, len(rankings))
	for i, entry := range rankings {
		rows[i] = rankingRow{
			Season:          entry.Season,
			SeasonType:      entry.SeasonType,
			Week:            entry.Week,
			Poll:            entry.Poll,
			Rank:            entry.Rank,
			School:          entry.School,
			Conference:      entry.Conference,
			FirstPlaceVotes: entry.FirstPlaceVotes,
			Points:          entry.Points,
		}
	}

	written := 0
	for _, batch := range chunkRows(rows, insertBatchSize) {
		query, args, err := qb.InsertModels("rankings", batch, rankingUpsertSuffix)
		if err != nil {
			return written, fmt.Errorf("build rankings upsert: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return written, fmt.Errorf("upsert rankings batch of %d: %w", len(batch), err)
		}
		written += len(batch)
	}
	return written, nil
}
