package cfbd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	cerrors "github.com/cockroachdb/errors"

	"github.com/crimson-data/cfb-analytics/internal/domain/game"
	"github.com/crimson-data/cfb-analytics/internal/domain/ranking"
	"github.com/crimson-data/cfb-analytics/internal/domain/recruiting"
	"github.com/crimson-data/cfb-analytics/internal/domain/roster"
	"github.com/crimson-data/cfb-analytics/internal/domain/transfer"
	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
	"github.com/crimson-data/cfb-analytics/internal/platform/resilience"
)

const (
	SeasonTypeRegular    = game.SeasonTypeRegular
	SeasonTypePostseason = game.SeasonTypePostseason

	maxErrorBodyBytes = 512
)

// ErrTransient marks upstream failures worth retrying on a later run. The
// client itself never retries; orchestrators record the failure and move on.
var ErrTransient = cerrors.New("cfbd: transient upstream error")

// StatusError is a non-2xx upstream response. The body is kept (truncated)
// because the feed puts its diagnostics there.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cfbd: unexpected status %d: %s", e.StatusCode, e.Body)
}

func IsTransient(err error) bool {
	return cerrors.Is(err, ErrTransient)
}

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// RateDelay is slept after every call, successful or not, to stay under
	// the upstream rate limit.
	RateDelay time.Duration

	Breaker resilience.BreakerConfig
}

// Client is the authenticated upstream data client. It makes exactly one
// HTTP request per fetch; callers own retry and budgeting policy.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	rateDelay  time.Duration
	breaker    *resilience.CircuitBreaker
	logger     *logging.Logger
	sleep      func(time.Duration)
}

func NewClient(cfg ClientConfig, logger *logging.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("cfbd: api key is required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("cfbd: base url is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		rateDelay:  cfg.RateDelay,
		breaker:    resilience.NewCircuitBreaker(cfg.Breaker),
		logger:     logger,
		sleep:      time.Sleep,
	}, nil
}

func (c *Client) FetchGames(ctx context.Context, team string, year int) ([]game.Game, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	query.Set("team", team)
	query.Set("seasonType", "both")

	var payload []gamePayload
	if err := c.getJSON(ctx, "/games", query, &payload); err != nil {
		return nil, err
	}

	games := make([]game.Game, 0, len(payload))
	for _, p := range payload {
		games = append(games, p.toDomain())
	}
	return games, nil
}

func (c *Client) FetchDrives(ctx context.Context, team string, year int) ([]game.Drive, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	query.Set("team", team)

	var payload []drivePayload
	if err := c.getJSON(ctx, "/drives", query, &payload); err != nil {
		return nil, err
	}

	drives := make([]game.Drive, 0, len(payload))
	for _, p := range payload {
		drives = append(drives, p.toDomain())
	}
	return drives, nil
}

// FetchPlays fetches one week of play data. The feed only serves plays week
// by week, which is why the games orchestrator walks weeks explicitly.
func (c *Client) FetchPlays(ctx context.Context, team string, year, week int, seasonType string) ([]game.Play, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	query.Set("week", strconv.Itoa(week))
	query.Set("team", team)
	query.Set("seasonType", seasonType)

	var payload []playPayload
	if err := c.getJSON(ctx, "/plays", query, &payload); err != nil {
		return nil, err
	}

	plays := make([]game.Play, 0, len(payload))
	for _, p := range payload {
		plays = append(plays, p.toDomain())
	}
	return plays, nil
}

func (c *Client) FetchRoster(ctx context.Context, team string, year int) ([]roster.Player, error) {
	query := url.Values{}
	query.Set("team", team)
	query.Set("year", strconv.Itoa(year))

	var payload []rosterPayload
	if err := c.getJSON(ctx, "/roster", query, &payload); err != nil {
		return nil, err
	}

	players := make([]roster.Player, 0, len(payload))
	for _, p := range payload {
		players = append(players, p.toDomain(year))
	}
	return players, nil
}

func (c *Client) FetchRecruits(ctx context.Context, team string, year int) ([]recruiting.Recruit, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	query.Set("team", team)

	var payload []recruitPayload
	if err := c.getJSON(ctx, "/recruiting/players", query, &payload); err != nil {
		return nil, err
	}

	recruits := make([]recruiting.Recruit, 0, len(payload))
	for _, p := range payload {
		recruits = append(recruits, p.toDomain())
	}
	return recruits, nil
}

func (c *Client) FetchTeamClasses(ctx context.Context, team string, year int) ([]recruiting.TeamClass, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	query.Set("team", team)

	var payload []teamClassPayload
	if err := c.getJSON(ctx, "/recruiting/teams", query, &payload); err != nil {
		return nil, err
	}

	classes := make([]recruiting.TeamClass, 0, len(payload))
	for _, p := range payload {
		classes = append(classes, p.toDomain())
	}
	return classes, nil
}

// FetchPositionGroups fetches one cycle's per-position recruiting summary.
// The feed omits the year from the response, so the requested year is
// stamped onto every row.
func (c *Client) FetchPositionGroups(ctx context.Context, team string, year int) ([]recruiting.PositionGroup, error) {
	query := url.Values{}
	query.Set("startYear", strconv.Itoa(year))
	query.Set("endYear", strconv.Itoa(year))
	query.Set("team", team)

	var payload []positionGroupPayload
	if err := c.getJSON(ctx, "/recruiting/groups", query, &payload); err != nil {
		return nil, err
	}

	groups := make([]recruiting.PositionGroup, 0, len(payload))
	for _, p := range payload {
		groups = append(groups, p.toDomain(year))
	}
	return groups, nil
}

func (c *Client) FetchTransferPortal(ctx context.Context, year int) ([]transfer.Transfer, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))

	var payload []transferPayload
	if err := c.getJSON(ctx, "/player/portal", query, &payload); err != nil {
		return nil, err
	}

	transfers := make([]transfer.Transfer, 0, len(payload))
	for _, p := range payload {
		transfers = append(transfers, p.toDomain(year))
	}
	return transfers, nil
}

func (c *Client) FetchRankings(ctx context.Context, year int) ([]ranking.Ranking, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))

	var payload []rankingWeekPayload
	if err := c.getJSON(ctx, "/rankings", query, &payload); err != nil {
		return nil, err
	}

	var rankings []ranking.Ranking
	for _, week := range payload {
		rankings = append(rankings, week.toDomain()...)
	}
	return rankings, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.breaker.Execute(func() error {
		defer c.pace()

		requestURL := c.baseURL + path
		if len(query) > 0 {
			requestURL += "?" + query.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return fmt.Errorf("cfbd: build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")

		started := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return cerrors.Mark(fmt.Errorf("cfbd: request %s: %w", path, err), ErrTransient)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return cerrors.Mark(fmt.Errorf("cfbd: read response %s: %w", path, err), ErrTransient)
		}

		c.logger.DebugContext(ctx, "cfbd call",
			"path", path,
			"query", query.Encode(),
			"status", resp.StatusCode,
			"elapsed", time.Since(started),
		)

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			statusErr := &StatusError{
				StatusCode: resp.StatusCode,
				Body:       truncate(string(body), maxErrorBodyBytes),
			}
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return cerrors.Mark(statusErr, ErrTransient)
			}
			return statusErr
		}

		if err := sonic.Unmarshal(body, out); err != nil {
			return fmt.Errorf("cfbd: decode %s: %w", path, err)
		}
		return nil
	})
}

// pace sleeps the fixed post-call delay. Every call pays it, including
// failures, so back-to-back error loops stay under the rate limit too.
func (c *Client) pace() {
	if c.rateDelay > 0 {
		c.sleep(c.rateDelay)
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
