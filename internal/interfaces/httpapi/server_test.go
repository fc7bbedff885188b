package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-data/cfb-analytics/internal/domain/game"
	"github.com/crimson-data/cfb-analytics/internal/infrastructure/repository/memory"
	"github.com/crimson-data/cfb-analytics/internal/platform/cache"
	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
	"github.com/crimson-data/cfb-analytics/internal/usecase"
)

func newTestServer(t *testing.T) (*Server, *memory.GameRepository) {
	t.Helper()

	store := memory.NewGameRepository()
	service, err := usecase.NewMetricsService(memory.NewMetricsRepository(store), cache.NewStore(0), 4, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(service.Close)

	return NewServer(ServerConfig{Addr: ":0"}, service, logging.NewNop()), store
}

func seedPlays(t *testing.T, store *memory.GameRepository) {
	t.Helper()
	ctx := context.Background()

	_, err := store.UpsertGames(ctx, []game.Game{
		{ID: 1, Season: 2021, HomeTeam: "Oklahoma", AwayTeam: "Kansas", SeasonType: game.SeasonTypeRegular},
	})
	require.NoError(t, err)

	ppa := 0.5
	playType := "Rush"
	_, err = store.UpsertPlays(ctx, []game.Play{
		{GameID: 1, DriveNumber: 1, PlayNumber: 1, Offense: "Oklahoma", Defense: "Kansas", PlayType: &playType, PPA: &ppa},
	})
	require.NoError(t, err)
}

func doRequest(t *testing.T, server *Server, path string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	envelope := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestHealthz(t *testing.T) {
	server, _ := newTestServer(t)

	rec, envelope := doRequest(t, server, "/v1/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"2.0"`, string(envelope["apiVersion"]))
	assert.JSONEq(t, `{"status":"ok"}`, string(envelope["data"]))
}

func TestTeamSeasonEPAEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	seedPlays(t, store)

	rec, envelope := doRequest(t, server, "/v1/teams/Oklahoma/seasons/2021/epa")
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		OverallEPA   *float64 `json:"overall_epa"`
		OverallPlays int      `json:"overall_plays"`
	}
	require.NoError(t, json.Unmarshal(envelope["data"], &data))
	require.NotNil(t, data.OverallEPA)
	assert.InDelta(t, 0.5, *data.OverallEPA, 1e-9)
	assert.Equal(t, 1, data.OverallPlays)
}

func TestTeamSeasonEPAEmptySeasonIsNull(t *testing.T) {
	server, _ := newTestServer(t)

	rec, envelope := doRequest(t, server, "/v1/teams/Oklahoma/seasons/1999/epa")
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		OverallEPA *float64 `json:"overall_epa"`
	}
	require.NoError(t, json.Unmarshal(envelope["data"], &data))
	assert.Nil(t, data.OverallEPA)
}

func TestTeamSeasonSummaryEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	seedPlays(t, store)

	rec, envelope := doRequest(t, server, "/v1/teams/Oklahoma/seasons/2021/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Team   string          `json:"team"`
		Season int             `json:"season"`
		EPA    json.RawMessage `json:"epa"`
	}
	require.NoError(t, json.Unmarshal(envelope["data"], &data))
	assert.Equal(t, "Oklahoma", data.Team)
	assert.Equal(t, 2021, data.Season)
	assert.NotEmpty(t, data.EPA)
}

func TestBadYearReturns400(t *testing.T) {
	server, _ := newTestServer(t)

	rec, envelope := doRequest(t, server, "/v1/teams/Oklahoma/seasons/not-a-year/epa")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, string(envelope["error"]), "year must be an integer")
}

func TestOutOfRangeYearReturns400(t *testing.T) {
	server, _ := newTestServer(t)

	rec, _ := doRequest(t, server, "/v1/teams/Oklahoma/seasons/1200/epa")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
