package transfer

import "context"

type Repository interface {
	InsertTransfers(ctx context.Context, transfers []Transfer) (int, error)

	// ClearSeason removes every transfer row for one season before the
	// clean re-insert.
	ClearSeason(ctx context.Context, season int) error
}
