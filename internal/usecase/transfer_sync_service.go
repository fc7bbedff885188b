package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/crimson-data/cfb-analytics/internal/domain/transfer"
	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
)

// TransferSyncService ingests transfer portal entries that touch one team.
// The upstream feed has no stable row identity, so every season is cleared
// and re-inserted rather than upserted.
type TransferSyncService struct {
	provider  TransferProvider
	transfers transfer.Repository
	logger    *logging.Logger
}

func NewTransferSyncService(provider TransferProvider, repo transfer.Repository, logger *logging.Logger) *TransferSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TransferSyncService{provider: provider, transfers: repo, logger: logger}
}

func (s *TransferSyncService) Sync(ctx context.Context, team string, startYear, endYear, callBudget int) (*RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "TransferSync")
	defer span.End()

	if strings.TrimSpace(team) == "" {
		return nil, ErrTeamRequired
	}
	if startYear > endYear || startYear <= 0 {
		return nil, fmt.Errorf("%w: %d..%d", ErrInvalidYearRange, startYear, endYear)
	}

	report := NewRunReport("ingest-transfers", team, startYear, endYear, callBudget)
	defer report.Finish()

	for year := startYear; year <= endYear; year++ {
		if !report.BudgetAllows(1) {
			report.BudgetExhausted = true
			s.logger.WarnContext(ctx, "call budget exhausted, stopping early",
				"job", report.Job, "next_year", year, "calls_made", report.CallsMade, "call_budget", report.CallBudget)
			break
		}

		report.AddCalls(1)
		entries, err := s.provider.FetchTransferPortal(ctx, year)
		if err != nil {
			report.AddError(year, "transfers", err)
			continue
		}

		relevant := FilterTransfersForTeam(entries, team)
		s.logger.InfoContext(ctx, "filtered transfer portal season",
			"team", team, "year", year, "total", len(entries), "relevant", len(relevant))

		if err := s.transfers.ClearSeason(ctx, year); err != nil {
			report.AddError(year, "transfers_clear", err)
			continue
		}
		if len(relevant) == 0 {
			continue
		}

		if written, err := s.transfers.InsertTransfers(ctx, relevant); err != nil {
			report.AddError(year, "transfers_insert", err)
		} else {
			report.AddRows(written)
		}
	}

	return report, nil
}

// FilterTransfersForTeam keeps entries where the team appears as origin or
// destination. Matching is case-insensitive; the feed is not consistent
// about school-name casing.
func FilterTransfersForTeam(entries []transfer.Transfer, team string) []transfer.Transfer {
	out := make([]transfer.Transfer, 0, len(entries))
	for _, entry := range entries {
		if matchesTeamFold(entry.Origin, team) || matchesTeamFold(entry.Destination, team) {
			out = append(out, entry)
		}
	}
	return out
}

func matchesTeamFold(school *string, team string) bool {
	return school != nil && strings.EqualFold(strings.TrimSpace(*school), strings.TrimSpace(team))
}
