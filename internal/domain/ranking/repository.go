package ranking

import "context"

type Repository interface {
	UpsertRankings(ctx context.Context, rankings []Ranking) (int, error)
}
