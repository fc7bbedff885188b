package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/crimson-data/cfb-analytics/internal/domain/metrics"
	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
	"github.com/crimson-data/cfb-analytics/internal/usecase"
)

// MetricsReader is the read surface the API exposes. usecase.MetricsService
// satisfies it.
type MetricsReader interface {
	TeamSeasonEPA(ctx context.Context, team string, season int) (*metrics.EPASummary, error)
	TeamSeasonSuccessRates(ctx context.Context, team string, season int) ([]metrics.SuccessRateCell, error)
	TeamSeasonExplosiveness(ctx context.Context, team string, season int) (*metrics.Explosiveness, error)
	TeamSeasonDriveOutcomes(ctx context.Context, team string, season int) (*metrics.DriveOutcomes, error)
	TeamSeasonPointsPerDrive(ctx context.Context, team string, season int) ([]metrics.FieldPositionPPD, error)
	TeamSeasonSummary(ctx context.Context, team string, season int) (*metrics.SeasonSummary, error)
}

type handler struct {
	metrics  MetricsReader
	validate *validator.Validate
	logger   *logging.Logger
}

func newHandler(reader MetricsReader, logger *logging.Logger) *handler {
	return &handler{
		metrics:  reader,
		validate: validator.New(),
		logger:   logger,
	}
}

type teamSeasonParams struct {
	Team   string `validate:"required,max=100"`
	Season int    `validate:"required,gte=1869,lte=2100"`
}

func (h *handler) params(r *http.Request) (teamSeasonParams, error) {
	season, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		return teamSeasonParams{}, errors.New("year must be an integer")
	}

	params := teamSeasonParams{
		Team:   r.PathValue("team"),
		Season: season,
	}
	if err := h.validate.Struct(params); err != nil {
		return teamSeasonParams{}, err
	}
	return params, nil
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) teamSeason(fetch func(context.Context, string, int) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := h.params(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		data, err := fetch(r.Context(), params.Team, params.Season)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, data)
	}
}

func (h *handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, usecase.ErrTeamRequired), errors.Is(err, usecase.ErrSeasonRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "metrics read failed",
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "metrics query failed")
	}
}

func (h *handler) epa(ctx context.Context, team string, season int) (any, error) {
	return h.metrics.TeamSeasonEPA(ctx, team, season)
}

func (h *handler) successRates(ctx context.Context, team string, season int) (any, error) {
	return h.metrics.TeamSeasonSuccessRates(ctx, team, season)
}

func (h *handler) explosiveness(ctx context.Context, team string, season int) (any, error) {
	return h.metrics.TeamSeasonExplosiveness(ctx, team, season)
}

func (h *handler) driveOutcomes(ctx context.Context, team string, season int) (any, error) {
	return h.metrics.TeamSeasonDriveOutcomes(ctx, team, season)
}

func (h *handler) pointsPerDrive(ctx context.Context, team string, season int) (any, error) {
	return h.metrics.TeamSeasonPointsPerDrive(ctx, team, season)
}

func (h *handler) summary(ctx context.Context, team string, season int) (any, error) {
	return h.metrics.TeamSeasonSummary(ctx, team, season)
}
