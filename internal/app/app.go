package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/crimson-data/cfb-analytics/external/cfbd"
	"github.com/crimson-data/cfb-analytics/internal/config"
	"github.com/crimson-data/cfb-analytics/internal/infrastructure/repository/postgres"
	"github.com/crimson-data/cfb-analytics/internal/interfaces/httpapi"
	"github.com/crimson-data/cfb-analytics/internal/observability"
	"github.com/crimson-data/cfb-analytics/internal/platform/cache"
	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
	"github.com/crimson-data/cfb-analytics/internal/platform/resilience"
	"github.com/crimson-data/cfb-analytics/internal/usecase"
)

// App wires configuration, observability, the upstream client, the store,
// and the services. Each binary builds one and uses the slice it needs.
type App struct {
	Config *config.Config
	Logger *logging.Logger
	DB     *sqlx.DB

	CFBD *cfbd.Client

	Games         *usecase.GamesSyncService
	GamesBackfill *usecase.GamesBackfillService
	Roster        *usecase.RosterSyncService
	Recruiting    *usecase.RecruitingSyncService
	Transfers     *usecase.TransferSyncService
	Rankings      *usecase.RankingsSyncService
	Metrics       *usecase.MetricsService

	shutdownUptrace func(context.Context) error
	stopPyroscope   func()
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewJSON(parseLogLevel(cfg.LogLevel))
	logging.SetDefault(logger)

	shutdownUptrace := observability.SetupUptrace(cfg, logger)
	stopPyroscope := observability.StartPyroscope(cfg, logger)
	observability.StartPprof(cfg, logger)

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("postgres connected", "dsn", RedactDBURL(cfg.DBURL))

	client, err := cfbd.NewClient(cfbd.ClientConfig{
		BaseURL:   cfg.CFBDBaseURL,
		APIKey:    cfg.CFBDAPIKey,
		Timeout:   cfg.CFBDTimeout,
		RateDelay: cfg.CFBDRateDelay,
		Breaker: resilience.BreakerConfig{
			Enabled:          cfg.CircuitEnabled,
			FailureThreshold: cfg.CircuitFailureThreshold,
			OpenTimeout:      cfg.CircuitOpenTimeout,
			HalfOpenMaxCalls: cfg.CircuitHalfOpenMaxCalls,
		},
	}, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("build cfbd client: %w", err)
	}

	gameRepo := postgres.NewGameRepository(db)
	rosterRepo := postgres.NewRosterRepository(db)
	recruitingRepo := postgres.NewRecruitingRepository(db)
	transferRepo := postgres.NewTransferRepository(db)
	rankingRepo := postgres.NewRankingRepository(db)
	metricsRepo := postgres.NewMetricsRepository(db)

	metricsService, err := usecase.NewMetricsService(metricsRepo, cache.NewStore(cfg.MetricsCacheTTL), 0, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("build metrics service: %w", err)
	}

	return &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		CFBD:   client,

		Games:         usecase.NewGamesSyncService(client, gameRepo, logger),
		GamesBackfill: usecase.NewGamesBackfillService(gameRepo, logger),
		Roster:        usecase.NewRosterSyncService(client, rosterRepo, logger),
		Recruiting:    usecase.NewRecruitingSyncService(client, recruitingRepo, logger),
		Transfers:     usecase.NewTransferSyncService(client, transferRepo, logger),
		Rankings:      usecase.NewRankingsSyncService(client, rankingRepo, logger),
		Metrics:       metricsService,

		shutdownUptrace: shutdownUptrace,
		stopPyroscope:   stopPyroscope,
	}, nil
}

// APIServer builds the metrics read server over the wired service.
func (a *App) APIServer() *httpapi.Server {
	return httpapi.NewServer(httpapi.ServerConfig{
		Addr:        a.Config.HTTPAddr,
		ServiceName: a.Config.AppName,
	}, a.Metrics, a.Logger)
}

func (a *App) Close(ctx context.Context) {
	if a.Metrics != nil {
		a.Metrics.Close()
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn("close postgres", "error", err)
		}
	}
	if a.stopPyroscope != nil {
		a.stopPyroscope()
	}
	if a.shutdownUptrace != nil {
		if err := a.shutdownUptrace(ctx); err != nil {
			a.Logger.Warn("shutdown uptrace", "error", err)
		}
	}
	_ = a.Logger.Sync()
}

func parseLogLevel(level string) logging.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
