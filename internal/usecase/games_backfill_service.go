package usecase

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/crimson-data/cfb-analytics/internal/domain/game"
	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
	"github.com/crimson-data/cfb-analytics/internal/platform/normalize"
)

// gamesCSVSchema is the column contract for historical game exports. The
// order matches the export header exactly; Backfill rejects files whose
// header disagrees.
var gamesCSVSchema = normalize.NewSchema(
	normalize.Column{Name: "id", Kind: normalize.KindInt},
	normalize.Column{Name: "season", Kind: normalize.KindInt},
	normalize.Column{Name: "week", Kind: normalize.KindInt},
	normalize.Column{Name: "season_type", Kind: normalize.KindString},
	normalize.Column{Name: "neutral_site", Kind: normalize.KindBool},
	normalize.Column{Name: "conference_game", Kind: normalize.KindBool},
	normalize.Column{Name: "attendance", Kind: normalize.KindInt},
	normalize.Column{Name: "venue", Kind: normalize.KindString},
	normalize.Column{Name: "home_team", Kind: normalize.KindString},
	normalize.Column{Name: "home_conference", Kind: normalize.KindString},
	normalize.Column{Name: "home_points", Kind: normalize.KindInt},
	normalize.Column{Name: "home_line_scores", Kind: normalize.KindIntList},
	normalize.Column{Name: "away_team", Kind: normalize.KindString},
	normalize.Column{Name: "away_conference", Kind: normalize.KindString},
	normalize.Column{Name: "away_points", Kind: normalize.KindInt},
	normalize.Column{Name: "away_line_scores", Kind: normalize.KindIntList},
	normalize.Column{Name: "excitement_index", Kind: normalize.KindFloat},
)

// GamesBackfillService loads historical seasons from a local CSV export
// instead of the upstream API, so deep history does not burn call budget.
type GamesBackfillService struct {
	games  game.Repository
	logger *logging.Logger
}

func NewGamesBackfillService(games game.Repository, logger *logging.Logger) *GamesBackfillService {
	if logger == nil {
		logger = logging.Default()
	}
	return &GamesBackfillService{games: games, logger: logger}
}

// Backfill reads the export line by line. A malformed record is reported
// and skipped; only a bad header aborts the run.
func (s *GamesBackfillService) Backfill(ctx context.Context, source io.Reader) (*RunReport, error) {
	report := NewRunReport("backfill-games", "", 0, 0, 0)
	defer report.Finish()

	scanner := bufio.NewScanner(source)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		return nil, fmt.Errorf("export is empty")
	}
	if err := checkHeader(scanner.Text(), gamesCSVSchema.Names()); err != nil {
		return nil, err
	}

	var games []game.Game
	line := 1
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		record, err := gamesCSVSchema.DecodeLine(text)
		if err != nil {
			report.AddError(0, fmt.Sprintf("csv_line_%d", line), err)
			continue
		}

		g, err := gameFromRecord(record)
		if err != nil {
			report.AddError(0, fmt.Sprintf("csv_line_%d", line), err)
			continue
		}
		games = append(games, g)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	if len(games) > 0 {
		written, err := s.games.UpsertGames(ctx, games)
		if err != nil {
			return nil, fmt.Errorf("upsert backfilled games: %w", err)
		}
		report.AddRows(written)
	}

	s.logger.InfoContext(ctx, "backfill finished",
		"games", len(games), "rows_written", report.RowsWritten, "record_errors", len(report.Errors))
	return report, nil
}

func checkHeader(line string, want []string) error {
	fields, err := normalize.SplitLine(line)
	if err != nil {
		return fmt.Errorf("parse header: %w", err)
	}
	if len(fields) != len(want) {
		return fmt.Errorf("header has %d columns, expected %d", len(fields), len(want))
	}
	for i, field := range fields {
		if !strings.EqualFold(strings.TrimSpace(field), want[i]) {
			return fmt.Errorf("header column %d is %q, expected %q", i+1, field, want[i])
		}
	}
	return nil
}

// gameFromRecord maps a normalized record onto the domain shape. Identity
// columns must survive normalization; everything else may be null.
func gameFromRecord(record normalize.Record) (game.Game, error) {
	id, ok := record["id"].(int64)
	if !ok {
		return game.Game{}, fmt.Errorf("missing game id")
	}
	season, ok := record["season"].(int64)
	if !ok {
		return game.Game{}, fmt.Errorf("missing season for game %d", id)
	}
	homeTeam, ok := record["home_team"].(string)
	if !ok || homeTeam == "" {
		return game.Game{}, fmt.Errorf("missing home team for game %d", id)
	}
	awayTeam, ok := record["away_team"].(string)
	if !ok || awayTeam == "" {
		return game.Game{}, fmt.Errorf("missing away team for game %d", id)
	}

	seasonType := game.SeasonTypeRegular
	if st, ok := record["season_type"].(string); ok && st != "" {
		seasonType = strings.ToLower(st)
	}

	return game.Game{
		ID:             id,
		Season:         int(season),
		Week:           recordInt(record, "week"),
		SeasonType:     seasonType,
		NeutralSite:    recordBool(record, "neutral_site"),
		ConferenceGame: recordBool(record, "conference_game"),
		Attendance:     recordInt64(record, "attendance"),
		Venue:          recordString(record, "venue"),

		HomeTeam:       homeTeam,
		HomeConference: recordString(record, "home_conference"),
		HomePoints:     recordInt(record, "home_points"),
		HomeLineScores: recordIntList(record, "home_line_scores"),

		AwayTeam:       awayTeam,
		AwayConference: recordString(record, "away_conference"),
		AwayPoints:     recordInt(record, "away_points"),
		AwayLineScores: recordIntList(record, "away_line_scores"),

		ExcitementIndex: recordFloat(record, "excitement_index"),
	}, nil
}

func recordInt(record normalize.Record, name string) *int {
	if v, ok := record[name].(int64); ok {
		value := int(v)
		return &value
	}
	return nil
}

func recordInt64(record normalize.Record, name string) *int64 {
	if v, ok := record[name].(int64); ok {
		value := v
		return &value
	}
	return nil
}

func recordFloat(record normalize.Record, name string) *float64 {
	if v, ok := record[name].(float64); ok {
		value := v
		return &value
	}
	return nil
}

func recordBool(record normalize.Record, name string) *bool {
	if v, ok := record[name].(bool); ok {
		value := v
		return &value
	}
	return nil
}

func recordString(record normalize.Record, name string) *string {
	if v, ok := record[name].(string); ok && v != "" {
		value := v
		return &value
	}
	return nil
}

func recordIntList(record normalize.Record, name string) []int64 {
	if v, ok := record[name].([]int64); ok {
		return v
	}
	return nil
}
