package cfbd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
	"github.com/crimson-data/cfb-analytics/internal/platform/resilience"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		BaseURL:   server.URL,
		APIKey:    "test-key",
		RateDelay: 100 * time.Millisecond,
	}, logging.NewNop())
	require.NoError(t, err)
	client.sleep = func(time.Duration) {}
	return client, server
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(ClientConfig{BaseURL: "http://localhost"}, nil)
	require.Error(t, err)
}

func TestFetchGamesSendsBearerAndParams(t *testing.T) {
	var gotAuth, gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "/games", r.URL.Path)
		w.Write([]byte(`[{"id":401309885,"season":2021,"week":1,"seasonType":"regular","homeTeam":"Oklahoma","awayTeam":"Tulane","homePoints":40,"awayPoints":35,"homeLineScores":[14,3,16,7],"startDate":"2021-09-04T16:00:00.000Z"}]`))
	}))

	games, err := client.FetchGames(context.Background(), "Oklahoma", 2021)
	require.NoError(t, err)
	require.Len(t, games, 1)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Contains(t, gotQuery, "team=Oklahoma")
	assert.Contains(t, gotQuery, "year=2021")
	assert.Contains(t, gotQuery, "seasonType=both")

	g := games[0]
	assert.Equal(t, int64(401309885), g.ID)
	assert.Equal(t, 2021, g.Season)
	assert.Equal(t, "Oklahoma", g.HomeTeam)
	require.NotNil(t, g.HomePoints)
	assert.Equal(t, 40, *g.HomePoints)
	assert.Equal(t, []int64{14, 3, 16, 7}, g.HomeLineScores)
	require.NotNil(t, g.StartDate)
	assert.Equal(t, 2021, g.StartDate.Year())
}

func TestFetchDrivesMapsElapsed(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/drives", r.URL.Path)
		w.Write([]byte(`[{"gameId":1,"driveNumber":3,"offense":"Oklahoma","defense":"Nebraska","elapsed":{"minutes":2,"seconds":41},"plays":6,"yards":75,"driveResult":"TD"}]`))
	}))

	drives, err := client.FetchDrives(context.Background(), "Oklahoma", 2021)
	require.NoError(t, err)
	require.Len(t, drives, 1)

	d := drives[0]
	require.NotNil(t, d.ElapsedSeconds)
	assert.Equal(t, 161, *d.ElapsedSeconds)
	require.NotNil(t, d.PlayCount)
	assert.Equal(t, 6, *d.PlayCount)
}

func TestFetchPlaysMapsClock(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/plays", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("week"))
		assert.Equal(t, SeasonTypeRegular, r.URL.Query().Get("seasonType"))
		w.Write([]byte(`[{"gameId":1,"driveNumber":2,"playNumber":4,"offense":"Oklahoma","defense":"Nebraska","clock":{"minutes":12,"seconds":30},"down":3,"distance":7,"yardsGained":21,"playType":"Pass Reception","ppa":0.87}]`))
	}))

	plays, err := client.FetchPlays(context.Background(), "Oklahoma", 2021, 3, SeasonTypeRegular)
	require.NoError(t, err)
	require.Len(t, plays, 1)

	p := plays[0]
	require.NotNil(t, p.ClockSeconds)
	assert.Equal(t, 750, *p.ClockSeconds)
	require.NotNil(t, p.PPA)
	assert.Equal(t, 0.87, *p.PPA)
	assert.True(t, p.IsPass())
}

func TestFetchRosterStampsSeasonAndStringifiesID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":4430820,"firstName":"Caleb","lastName":"Williams","team":"Oklahoma","jersey":13},{"id":"x-912","firstName":"Walk","lastName":"On","team":"Oklahoma"}]`))
	}))

	players, err := client.FetchRoster(context.Background(), "Oklahoma", 2021)
	require.NoError(t, err)
	require.Len(t, players, 2)

	assert.Equal(t, "4430820", players[0].AthleteID)
	assert.Equal(t, 2021, players[0].Season)
	assert.Equal(t, "x-912", players[1].AthleteID)
}

func TestFetchRankingsFlattensPolls(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"season":2021,"seasonType":"regular","week":1,"polls":[{"poll":"AP Top 25","ranks":[{"rank":1,"school":"Alabama","points":1548},{"rank":2,"school":"Oklahoma","points":1434}]},{"poll":"Coaches Poll","ranks":[{"rank":1,"school":"Alabama"}]}]}]`))
	}))

	rankings, err := client.FetchRankings(context.Background(), 2021)
	require.NoError(t, err)
	require.Len(t, rankings, 3)

	assert.Equal(t, "AP Top 25", rankings[0].Poll)
	assert.Equal(t, "Alabama", rankings[0].School)
	assert.Equal(t, "Oklahoma", rankings[1].School)
	assert.Equal(t, "Coaches Poll", rankings[2].Poll)
	assert.Equal(t, 1, rankings[2].Week)
}

func TestStatusErrorCarriesBodyAndNoRetry(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"year is required"}`))
	}))

	_, err := client.FetchGames(context.Background(), "Oklahoma", 2021)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "year is required")
	assert.False(t, IsTransient(err))
	assert.NotContains(t, err.Error(), "test-key")

	assert.Equal(t, int64(1), calls.Load(), "client must not retry")
}

func TestServerErrorIsTransient(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.FetchDrives(context.Background(), "Oklahoma", 2021)
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestRateDelayAppliedAfterEveryCall(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	var slept []time.Duration
	client.sleep = func(d time.Duration) { slept = append(slept, d) }

	_, err := client.FetchGames(context.Background(), "Oklahoma", 2021)
	require.NoError(t, err)
	_, err = client.FetchDrives(context.Background(), "Oklahoma", 2021)
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{100 * time.Millisecond, 100 * time.Millisecond}, slept)
}

func TestRateDelayAppliedAfterFailedCall(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	var slept int
	client.sleep = func(time.Duration) { slept++ }

	_, err := client.FetchGames(context.Background(), "Oklahoma", 2021)
	require.Error(t, err)
	assert.Equal(t, 1, slept)
}

func TestCircuitBreakerShortCircuits(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Breaker: resilience.BreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
		},
	}, logging.NewNop())
	require.NoError(t, err)
	client.sleep = func(time.Duration) {}

	for i := 0; i < 2; i++ {
		_, err := client.FetchGames(context.Background(), "Oklahoma", 2021)
		require.Error(t, err)
	}

	_, err = client.FetchGames(context.Background(), "Oklahoma", 2021)
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, int64(2), calls.Load())
}
