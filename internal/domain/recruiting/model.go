package recruiting

// Recruit is one recruiting prospect, keyed by the upstream recruit id.
type Recruit struct {
	ID          int64
	Year        int
	RecruitType string
	Name        string

	AthleteID     *string
	School        *string
	CommittedTo   *string
	Position      *string
	Ranking       *int
	Stars         *int
	Rating        *float64
	Height        *float64
	Weight        *int
	City          *string
	StateProvince *string
	Country       *string
}

// TeamClass is a team's overall class rank for one cycle.
type TeamClass struct {
	Year   int
	Team   string
	Rank   *int
	Points *float64
}

// PositionGroup is a team's per-position-group class summary for one cycle.
// The composite key (year, team, position group) identifies it.
type PositionGroup struct {
	Year          int
	Team          string
	PositionGroup string

	AverageRating *float64
	TotalRating   *float64
	CommitCount   *int
	AverageStars  *float64
}
