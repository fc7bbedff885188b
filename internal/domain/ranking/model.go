package ranking

// Ranking is one school's spot in one poll for one week, keyed by
// (season, week, poll, school).
type Ranking struct {
	Season     int
	SeasonType string
	Week       int
	Poll       string
	Rank       int
	School     string

	Conference      *string
	FirstPlaceVotes *int
	Points          *int
}
