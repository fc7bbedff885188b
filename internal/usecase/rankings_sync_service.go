package usecase

import (
	"context"
	"fmt"

	"github.com/crimson-data/cfb-analytics/internal/domain/ranking"
	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
)

// RankingsSyncService ingests weekly poll rankings for whole seasons. Every
// ranked school is kept, not just the target team, so cross-team queries
// stay possible.
type RankingsSyncService struct {
	provider RankingsProvider
	rankings ranking.Repository
	logger   *logging.Logger
}

func NewRankingsSyncService(provider RankingsProvider, repo ranking.Repository, logger *logging.Logger) *RankingsSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RankingsSyncService{provider: provider, rankings: repo, logger: logger}
}

func (s *RankingsSyncService) Sync(ctx context.Context, startYear, endYear, callBudget int) (*RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "RankingsSync")
	defer span.End()

	if startYear > endYear || startYear <= 0 {
		return nil, fmt.Errorf("%w: %d..%d", ErrInvalidYearRange, startYear, endYear)
	}

	report := NewRunReport("ingest-rankings", "", startYear, endYear, callBudget)
	defer report.Finish()

	for year := startYear; year <= endYear; year++ {
		if !report.BudgetAllows(1) {
			report.BudgetExhausted = true
			s.logger.WarnContext(ctx, "call budget exhausted, stopping early",
				"job", report.Job, "next_year", year, "calls_made", report.CallsMade, "call_budget", report.CallBudget)
			break
		}

		report.AddCalls(1)
		rankings, err := s.provider.FetchRankings(ctx, year)
		if err != nil {
			report.AddError(year, "rankings", err)
			continue
		}
		if len(rankings) == 0 {
			continue
		}

		if written, err := s.rankings.UpsertRankings(ctx, rankings); err != nil {
			report.AddError(year, "rankings_upsert", err)
		} else {
			report.AddRows(written)
		}
	}

	return report, nil
}
