package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/crimson-data/cfb-analytics/internal/domain/transfer"
	qb "github.com/crimson-data/cfb-analytics/internal/platform/querybuilder"
)

type TransferRepository struct {
	db *sqlx.DB
}

func NewTransferRepository(db *sqlx.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

type transferRow struct {
	Season       int        `db:"season"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	Position     *string    `db:"position"`
	Origin       *string    `db:"origin"`
	Destination  *string    `db:"destination"`
	TransferDate *time.Time `db:"transfer_date"`
	Rating       *float64   `db:"rating"`
	Stars        *int       `db:"stars"`
	Eligibility  *string    `db:"eligibility"`
}

func toTransferRow(t transfer.Transfer) transferRow {
	return transferRow{
		Season:       t.Season,
		FirstName:    t.FirstName,
		LastName:     t.LastName,
		Position:     t.Position,
		Origin:       t.Origin,
		Destination:  t.Destination,
		TransferDate: t.TransferDate,
		Rating:       t.Rating,
		Stars:        t.Stars,
		Eligibility:  t.Eligibility,
	}
}

// InsertTransfers is a plain insert; the surrogate id comes from the
// sequence and the season is expected to have been cleared first.
func (r *TransferRepository) InsertTransfers(ctx context.Context, transfers []transfer.Transfer) (int, error) {
	if len(transfers) == 0 {
		return 0, nil
	}

	rows := make([]transferRow, len(transfers))
	for i, t := range transfers {
		rows[i] = toTransferRow(t)
	}

	written := 0
	for _, batch := range chunkRows(rows, insertBatchSize) {
		query, args, err := qb.InsertModels("transfers", batch, "")
		if err != nil {
			return written, fmt.Errorf("build transfers insert: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return written, fmt.Errorf("insert transfers batch of %d: %w", len(batch), err)
		}
		written += len(batch)
	}
	return written, nil
}

func (r *TransferRepository) ClearSeason(ctx context.Context, season int) error {
	query, args, err := qb.DeleteFrom("transfers").
		Where(qb.Eq("season", season)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build transfers clear: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear transfers season %d: %w", season, err)
	}
	return nil
}
