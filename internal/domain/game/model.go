package game

import (
	"strings"
	"time"
)

const (
	SeasonTypeRegular    = "regular"
	SeasonTypePostseason = "postseason"

	// RegularSeasonWeeks is the last regular-season week play data exists
	// for.
	RegularSeasonWeeks = 15
)

// Game is one scheduled or completed game. Nullable upstream columns stay
// pointers so the store can tell "unknown" from zero.
type Game struct {
	ID             int64
	Season         int
	Week           *int
	SeasonType     string
	StartDate      *time.Time
	NeutralSite    *bool
	ConferenceGame *bool
	Attendance     *int64
	VenueID        *int64
	Venue          *string

	HomeID         *int64
	HomeTeam       string
	HomeConference *string
	HomePoints     *int
	HomeLineScores []int64

	AwayID         *int64
	AwayTeam       string
	AwayConference *string
	AwayPoints     *int
	AwayLineScores []int64

	ExcitementIndex *float64
}

// Drive is one offensive possession, keyed by (game, drive number).
type Drive struct {
	GameID      int64
	DriveNumber int

	Offense           string
	OffenseConference *string
	Defense           string
	DefenseConference *string

	Scoring          *bool
	StartPeriod      *int
	StartYardsToGoal *int
	EndPeriod        *int
	EndYardsToGoal   *int
	ElapsedSeconds   *int
	PlayCount        *int
	Yards            *int
	DriveResult      *string

	StartOffenseScore *int
	EndOffenseScore   *int
	StartDefenseScore *int
	EndDefenseScore   *int
}

// Play is one snap, keyed by (game, drive number, play number).
type Play struct {
	GameID      int64
	DriveNumber int
	PlayNumber  int

	Offense string
	Defense string

	Period       *int
	ClockSeconds *int
	OffenseScore *int
	DefenseScore *int
	YardsToGoal  *int
	Down         *int
	Distance     *int
	YardsGained  *int
	PlayType     *string
	PlayText     *string
	PPA          *float64
	Scoring      *bool
}

// IsRush reports whether the play type names a rushing play.
func (p Play) IsRush() bool {
	return p.PlayType != nil && strings.Contains(strings.ToLower(*p.PlayType), "rush")
}

// IsPass reports whether the play type names a passing play. Sacks count as
// pass plays, matching how the upstream feed types them.
func (p Play) IsPass() bool {
	if p.PlayType == nil {
		return false
	}
	lower := strings.ToLower(*p.PlayType)
	return strings.Contains(lower, "pass") || strings.Contains(lower, "sack")
}

// TeamDisplayName picks the best human-facing label for a team. Mascot wins
// when present, then nickname, then the bare school name.
func TeamDisplayName(school, mascot, nickname string) string {
	if m := strings.TrimSpace(mascot); m != "" {
		return school + " " + m
	}
	if n := strings.TrimSpace(nickname); n != "" {
		return school + " " + n
	}
	return school
}
