package metrics

import "context"

// Repository computes derived metrics for one team-season. Implementations
// must return null aggregates, not zeros, when no qualifying rows exist.
type Repository interface {
	TeamSeasonEPA(ctx context.Context, team string, season int) (*EPASummary, error)
	TeamSeasonSuccessRates(ctx context.Context, team string, season int) ([]SuccessRateCell, error)
	TeamSeasonExplosiveness(ctx context.Context, team string, season int) (*Explosiveness, error)
	TeamSeasonDriveOutcomes(ctx context.Context, team string, season int) (*DriveOutcomes, error)
	TeamSeasonPointsPerDrive(ctx context.Context, team string, season int) ([]FieldPositionPPD, error)
}
