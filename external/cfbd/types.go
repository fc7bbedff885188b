package cfbd

import (
	"strconv"
	"time"

	"github.com/crimson-data/cfb-analytics/internal/domain/game"
	"github.com/crimson-data/cfb-analytics/internal/domain/ranking"
	"github.com/crimson-data/cfb-analytics/internal/domain/recruiting"
	"github.com/crimson-data/cfb-analytics/internal/domain/roster"
	"github.com/crimson-data/cfb-analytics/internal/domain/transfer"
)

// Payload shapes mirror the upstream JSON field for field. Mapping into
// domain models happens in the toDomain helpers so the rest of the codebase
// never sees upstream naming.

type gamePayload struct {
	ID              int64    `json:"id"`
	Season          int      `json:"season"`
	Week            *int     `json:"week"`
	SeasonType      string   `json:"seasonType"`
	StartDate       *string  `json:"startDate"`
	NeutralSite     *bool    `json:"neutralSite"`
	ConferenceGame  *bool    `json:"conferenceGame"`
	Attendance      *int64   `json:"attendance"`
	VenueID         *int64   `json:"venueId"`
	Venue           *string  `json:"venue"`
	HomeID          *int64   `json:"homeId"`
	HomeTeam        string   `json:"homeTeam"`
	HomeConference  *string  `json:"homeConference"`
	HomePoints      *int     `json:"homePoints"`
	HomeLineScores  []int64  `json:"homeLineScores"`
	AwayID          *int64   `json:"awayId"`
	AwayTeam        string   `json:"awayTeam"`
	AwayConference  *string  `json:"awayConference"`
	AwayPoints      *int     `json:"awayPoints"`
	AwayLineScores  []int64  `json:"awayLineScores"`
	ExcitementIndex *float64 `json:"excitementIndex"`
}

func (p gamePayload) toDomain() game.Game {
	g := game.Game{
		ID:              p.ID,
		Season:          p.Season,
		Week:            p.Week,
		SeasonType:      p.SeasonType,
		NeutralSite:     p.NeutralSite,
		ConferenceGame:  p.ConferenceGame,
		Attendance:      p.Attendance,
		VenueID:         p.VenueID,
		Venue:           p.Venue,
		HomeID:          p.HomeID,
		HomeTeam:        p.HomeTeam,
		HomeConference:  p.HomeConference,
		HomePoints:      p.HomePoints,
		HomeLineScores:  p.HomeLineScores,
		AwayID:          p.AwayID,
		AwayTeam:        p.AwayTeam,
		AwayConference:  p.AwayConference,
		AwayPoints:      p.AwayPoints,
		AwayLineScores:  p.AwayLineScores,
		ExcitementIndex: p.ExcitementIndex,
	}
	if p.StartDate != nil {
		if ts, err := time.Parse(time.RFC3339, *p.StartDate); err == nil {
			g.StartDate = &ts
		}
	}
	return g
}

type drivePayload struct {
	GameID            int64        `json:"gameId"`
	DriveNumber       int          `json:"driveNumber"`
	Offense           string       `json:"offense"`
	OffenseConference *string      `json:"offenseConference"`
	Defense           string       `json:"defense"`
	DefenseConference *string      `json:"defenseConference"`
	Scoring           *bool        `json:"scoring"`
	StartPeriod       *int         `json:"startPeriod"`
	StartYardsToGoal  *int         `json:"startYardsToGoal"`
	EndPeriod         *int         `json:"endPeriod"`
	EndYardsToGoal    *int         `json:"endYardsToGoal"`
	Elapsed           clockPayload `json:"elapsed"`
	Plays             *int         `json:"plays"`
	Yards             *int         `json:"yards"`
	DriveResult       *string      `json:"driveResult"`
	StartOffenseScore *int         `json:"startOffenseScore"`
	EndOffenseScore   *int         `json:"endOffenseScore"`
	StartDefenseScore *int         `json:"startDefenseScore"`
	EndDefenseScore   *int         `json:"endDefenseScore"`
}

func (p drivePayload) toDomain() game.Drive {
	out := game.Drive{
		GameID:            p.GameID,
		DriveNumber:       p.DriveNumber,
		Offense:           p.Offense,
		OffenseConference: p.OffenseConference,
		Defense:           p.Defense,
		DefenseConference: p.DefenseConference,
		Scoring:           p.Scoring,
		StartPeriod:       p.StartPeriod,
		StartYardsToGoal:  p.StartYardsToGoal,
		EndPeriod:         p.EndPeriod,
		EndYardsToGoal:    p.EndYardsToGoal,
		PlayCount:         p.Plays,
		Yards:             p.Yards,
		DriveResult:       p.DriveResult,
		StartOffenseScore: p.StartOffenseScore,
		EndOffenseScore:   p.EndOffenseScore,
		StartDefenseScore: p.StartDefenseScore,
		EndDefenseScore:   p.EndDefenseScore,
	}
	if p.Elapsed.Minutes != nil || p.Elapsed.Seconds != nil {
		seconds := 0
		if p.Elapsed.Minutes != nil {
			seconds += *p.Elapsed.Minutes * 60
		}
		if p.Elapsed.Seconds != nil {
			seconds += *p.Elapsed.Seconds
		}
		out.ElapsedSeconds = &seconds
	}
	return out
}

type clockPayload struct {
	Minutes *int `json:"minutes"`
	Seconds *int `json:"seconds"`
}

type playPayload struct {
	GameID       int64        `json:"gameId"`
	DriveNumber  int          `json:"driveNumber"`
	PlayNumber   int          `json:"playNumber"`
	Offense      string       `json:"offense"`
	Defense      string       `json:"defense"`
	Period       *int         `json:"period"`
	Clock        clockPayload `json:"clock"`
	OffenseScore *int         `json:"offenseScore"`
	DefenseScore *int         `json:"defenseScore"`
	YardsToGoal  *int         `json:"yardsToGoal"`
	Down         *int         `json:"down"`
	Distance     *int         `json:"distance"`
	YardsGained  *int         `json:"yardsGained"`
	PlayType     *string      `json:"playType"`
	PlayText     *string      `json:"playText"`
	PPA          *float64     `json:"ppa"`
	Scoring      *bool        `json:"scoring"`
}

func (p playPayload) toDomain() game.Play {
	out := game.Play{
		GameID:       p.GameID,
		DriveNumber:  p.DriveNumber,
		PlayNumber:   p.PlayNumber,
		Offense:      p.Offense,
		Defense:      p.Defense,
		Period:       p.Period,
		OffenseScore: p.OffenseScore,
		DefenseScore: p.DefenseScore,
		YardsToGoal:  p.YardsToGoal,
		Down:         p.Down,
		Distance:     p.Distance,
		YardsGained:  p.YardsGained,
		PlayType:     p.PlayType,
		PlayText:     p.PlayText,
		PPA:          p.PPA,
		Scoring:      p.Scoring,
	}
	if p.Clock.Minutes != nil || p.Clock.Seconds != nil {
		seconds := 0
		if p.Clock.Minutes != nil {
			seconds += *p.Clock.Minutes * 60
		}
		if p.Clock.Seconds != nil {
			seconds += *p.Clock.Seconds
		}
		out.ClockSeconds = &seconds
	}
	return out
}

type rosterPayload struct {
	ID          any     `json:"id"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Team        string  `json:"team"`
	Jersey      *int    `json:"jersey"`
	Position    *string `json:"position"`
	Height      *int    `json:"height"`
	Weight      *int    `json:"weight"`
	Year        *int    `json:"year"`
	HomeCity    *string `json:"homeCity"`
	HomeState   *string `json:"homeState"`
	HomeCountry *string `json:"homeCountry"`
}

func (p rosterPayload) toDomain(season int) roster.Player {
	return roster.Player{
		AthleteID:   stringifyID(p.ID),
		Season:      season,
		Team:        p.Team,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Jersey:      p.Jersey,
		Position:    p.Position,
		Height:      p.Height,
		Weight:      p.Weight,
		Year:        p.Year,
		HomeCity:    p.HomeCity,
		HomeState:   p.HomeState,
		HomeCountry: p.HomeCountry,
	}
}

// stringifyID tolerates the athlete id arriving as either a JSON number or
// a string; the feed has shipped both over the years.
func stringifyID(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

type recruitPayload struct {
	ID            int64    `json:"id"`
	AthleteID     *string  `json:"athleteId"`
	RecruitType   string   `json:"recruitType"`
	Year          int      `json:"year"`
	Ranking       *int     `json:"ranking"`
	Name          string   `json:"name"`
	School        *string  `json:"school"`
	CommittedTo   *string  `json:"committedTo"`
	Position      *string  `json:"position"`
	Height        *float64 `json:"height"`
	Weight        *int     `json:"weight"`
	Stars         *int     `json:"stars"`
	Rating        *float64 `json:"rating"`
	City          *string  `json:"city"`
	StateProvince *string  `json:"stateProvince"`
	Country       *string  `json:"country"`
}

func (p recruitPayload) toDomain() recruiting.Recruit {
	return recruiting.Recruit{
		ID:            p.ID,
		AthleteID:     p.AthleteID,
		RecruitType:   p.RecruitType,
		Year:          p.Year,
		Ranking:       p.Ranking,
		Name:          p.Name,
		School:        p.School,
		CommittedTo:   p.CommittedTo,
		Position:      p.Position,
		Height:        p.Height,
		Weight:        p.Weight,
		Stars:         p.Stars,
		Rating:        p.Rating,
		City:          p.City,
		StateProvince: p.StateProvince,
		Country:       p.Country,
	}
}

type teamClassPayload struct {
	Year   int      `json:"year"`
	Rank   *int     `json:"rank"`
	Team   string   `json:"team"`
	Points *float64 `json:"points"`
}

func (p teamClassPayload) toDomain() recruiting.TeamClass {
	return recruiting.TeamClass{
		Year:   p.Year,
		Team:   p.Team,
		Rank:   p.Rank,
		Points: p.Points,
	}
}

type positionGroupPayload struct {
	Team          string   `json:"team"`
	PositionGroup string   `json:"positionGroup"`
	AverageRating *float64 `json:"averageRating"`
	TotalRating   *float64 `json:"totalRating"`
	Commits       *int     `json:"commits"`
	AverageStars  *float64 `json:"averageStars"`
}

func (p positionGroupPayload) toDomain(year int) recruiting.PositionGroup {
	return recruiting.PositionGroup{
		Year:          year,
		Team:          p.Team,
		PositionGroup: p.PositionGroup,
		AverageRating: p.AverageRating,
		TotalRating:   p.TotalRating,
		CommitCount:   p.Commits,
		AverageStars:  p.AverageStars,
	}
}

type transferPayload struct {
	Season       int      `json:"season"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Position     *string  `json:"position"`
	Origin       *string  `json:"origin"`
	Destination  *string  `json:"destination"`
	TransferDate *string  `json:"transferDate"`
	Rating       *float64 `json:"rating"`
	Stars        *int     `json:"stars"`
	Eligibility  *string  `json:"eligibility"`
}

func (p transferPayload) toDomain(season int) transfer.Transfer {
	out := transfer.Transfer{
		Season:      season,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Position:    p.Position,
		Origin:      p.Origin,
		Destination: p.Destination,
		Rating:      p.Rating,
		Stars:       p.Stars,
		Eligibility: p.Eligibility,
	}
	if p.Season != 0 {
		out.Season = p.Season
	}
	if p.TransferDate != nil {
		if ts, err := time.Parse(time.RFC3339, *p.TransferDate); err == nil {
			out.TransferDate = &ts
		}
	}
	return out
}

type rankedSchoolPayload struct {
	Rank            int     `json:"rank"`
	School          string  `json:"school"`
	Conference      *string `json:"conference"`
	FirstPlaceVotes *int    `json:"firstPlaceVotes"`
	Points          *int    `json:"points"`
}

type pollPayload struct {
	Poll  string                `json:"poll"`
	Ranks []rankedSchoolPayload `json:"ranks"`
}

type rankingWeekPayload struct {
	Season     int           `json:"season"`
	SeasonType string        `json:"seasonType"`
	Week       int           `json:"week"`
	Polls      []pollPayload `json:"polls"`
}

func (p rankingWeekPayload) toDomain() []ranking.Ranking {
	out := make([]ranking.Ranking, 0, len(p.Polls)*25)
	for _, poll := range p.Polls {
		for _, entry := range poll.Ranks {
			out = append(out, ranking.Ranking{
				Season:          p.Season,
				SeasonType:      p.SeasonType,
				Week:            p.Week,
				Poll:            poll.Poll,
				Rank:            entry.Rank,
				School:          entry.School,
				Conference:      entry.Conference,
				FirstPlaceVotes: entry.FirstPlaceVotes,
				Points:          entry.Points,
			})
		}
	}
	return out
}
