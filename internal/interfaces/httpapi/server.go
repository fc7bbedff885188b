package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
)

type ServerConfig struct {
	Addr        string
	ServiceName string
}

// Server is the JSON read API over the derived metrics.
type Server struct {
	httpServer *http.Server
	logger     *logging.Logger
}

func NewServer(cfg ServerConfig, reader MetricsReader, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "cfb-analytics-api"
	}

	h := newHandler(reader, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/healthz", h.healthz)
	mux.Handle("GET /v1/teams/{team}/seasons/{year}/epa", h.teamSeason(h.epa))
	mux.Handle("GET /v1/teams/{team}/seasons/{year}/success-rates", h.teamSeason(h.successRates))
	mux.Handle("GET /v1/teams/{team}/seasons/{year}/explosiveness", h.teamSeason(h.explosiveness))
	mux.Handle("GET /v1/teams/{team}/seasons/{year}/drive-outcomes", h.teamSeason(h.driveOutcomes))
	mux.Handle("GET /v1/teams/{team}/seasons/{year}/points-per-drive", h.teamSeason(h.pointsPerDrive))
	mux.Handle("GET /v1/teams/{team}/seasons/{year}/summary", h.teamSeason(h.summary))

	root := chain(mux,
		requestTracing(cfg.ServiceName),
		requestLogging(logger),
		corsHeaders(),
		recoverPanic(logger),
	)

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           root,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       time.Minute,
		},
		logger: logger,
	}
}

// Handler exposes the routed handler stack, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
