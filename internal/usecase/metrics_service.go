package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/crimson-data/cfb-analytics/internal/domain/metrics"
	"github.com/crimson-data/cfb-analytics/internal/platform/cache"
	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
)

const defaultMetricsPoolSize = 8

// MetricsService serves derived metrics. Reads only touch ingested rows, so
// they are safe to run concurrently; the season summary fans its five
// queries out on a shared worker pool.
type MetricsService struct {
	repo   metrics.Repository
	cache  *cache.Store
	pool   *ants.Pool
	logger *logging.Logger
}

func NewMetricsService(repo metrics.Repository, store *cache.Store, poolSize int, logger *logging.Logger) (*MetricsService, error) {
	if poolSize <= 0 {
		poolSize = defaultMetricsPoolSize
	}
	if logger == nil {
		logger = logging.Default()
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("metrics worker pool: %w", err)
	}

	return &MetricsService{repo: repo, cache: store, pool: pool, logger: logger}, nil
}

func (s *MetricsService) Close() {
	if s.pool != nil {
		s.pool.Release()
	}
}

func (s *MetricsService) TeamSeasonEPA(ctx context.Context, team string, season int) (*metrics.EPASummary, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamSeasonEPA")
	defer span.End()

	if err := validateMetricsInput(team, season); err != nil {
		return nil, err
	}

	return loadCached(ctx, s.cache, metricsKey("epa", team, season), func(ctx context.Context) (*metrics.EPASummary, error) {
		return s.repo.TeamSeasonEPA(ctx, team, season)
	})
}

func (s *MetricsService) TeamSeasonSuccessRates(ctx context.Context, team string, season int) ([]metrics.SuccessRateCell, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamSeasonSuccessRates")
	defer span.End()

	if err := validateMetricsInput(team, season); err != nil {
		return nil, err
	}

	return loadCached(ctx, s.cache, metricsKey("success", team, season), func(ctx context.Context) ([]metrics.SuccessRateCell, error) {
		return s.repo.TeamSeasonSuccessRates(ctx, team, season)
	})
}

func (s *MetricsService) TeamSeasonExplosiveness(ctx context.Context, team string, season int) (*metrics.Explosiveness, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamSeasonExplosiveness")
	defer span.End()

	if err := validateMetricsInput(team, season); err != nil {
		return nil, err
	}

	return loadCached(ctx, s.cache, metricsKey("explosiveness", team, season), func(ctx context.Context) (*metrics.Explosiveness, error) {
		return s.repo.TeamSeasonExplosiveness(ctx, team, season)
	})
}

func (s *MetricsService) TeamSeasonDriveOutcomes(ctx context.Context, team string, season int) (*metrics.DriveOutcomes, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamSeasonDriveOutcomes")
	defer span.End()

	if err := validateMetricsInput(team, season); err != nil {
		return nil, err
	}

	return loadCached(ctx, s.cache, metricsKey("drives", team, season), func(ctx context.Context) (*metrics.DriveOutcomes, error) {
		return s.repo.TeamSeasonDriveOutcomes(ctx, team, season)
	})
}

func (s *MetricsService) TeamSeasonPointsPerDrive(ctx context.Context, team string, season int) ([]metrics.FieldPositionPPD, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamSeasonPointsPerDrive")
	defer span.End()

	if err := validateMetricsInput(team, season); err != nil {
		return nil, err
	}

	return loadCached(ctx, s.cache, metricsKey("ppd", team, season), func(ctx context.Context) ([]metrics.FieldPositionPPD, error) {
		return s.repo.TeamSeasonPointsPerDrive(ctx, team, season)
	})
}

// TeamSeasonSummary computes every metric family for a team-season, fanned
// out across the worker pool. The first error wins; partial summaries are
// never returned.
func (s *MetricsService) TeamSeasonSummary(ctx context.Context, team string, season int) (*metrics.SeasonSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamSeasonSummary")
	defer span.End()

	if err := validateMetricsInput(team, season); err != nil {
		return nil, err
	}

	summary := &metrics.SeasonSummary{Team: team, Season: season}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	run := func(name string, task func(context.Context) error) {
		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			if err := task(ctx); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("%s: %w", name, err)
				}
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: submit: %w", name, submitErr)
			}
			mu.Unlock()
		}
	}

	run("epa", func(ctx context.Context) error {
		epa, err := s.TeamSeasonEPA(ctx, team, season)
		if err == nil {
			summary.EPA = epa
		}
		return err
	})
	run("success_rates", func(ctx context.Context) error {
		cells, err := s.TeamSeasonSuccessRates(ctx, team, season)
		if err == nil {
			summary.SuccessRates = cells
		}
		return err
	})
	run("explosiveness", func(ctx context.Context) error {
		explosiveness, err := s.TeamSeasonExplosiveness(ctx, team, season)
		if err == nil {
			summary.Explosiveness = explosiveness
		}
		return err
	})
	run("drive_outcomes", func(ctx context.Context) error {
		outcomes, err := s.TeamSeasonDriveOutcomes(ctx, team, season)
		if err == nil {
			summary.DriveOutcomes = outcomes
		}
		return err
	})
	run("points_per_drive", func(ctx context.Context) error {
		ppd, err := s.TeamSeasonPointsPerDrive(ctx, team, season)
		if err == nil {
			summary.PointsPerDrive = ppd
		}
		return err
	})

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return summary, nil
}

func validateMetricsInput(team string, season int) error {
	if strings.TrimSpace(team) == "" {
		return ErrTeamRequired
	}
	if season <= 0 {
		return ErrSeasonRequired
	}
	return nil
}

func metricsKey(kind, team string, season int) string {
	return fmt.Sprintf("metrics:%s:%s:%d", kind, strings.ToLower(team), season)
}

func loadCached[T any](ctx context.Context, store *cache.Store, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	value, err := store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("cache entry %s has unexpected type %T", key, value)
	}
	return typed, nil
}
