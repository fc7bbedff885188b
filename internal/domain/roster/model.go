package roster

// Player is one athlete's roster entry for one season. The natural key is
// (athlete id, season, team); re-ingesting a season overwrites in place.
type Player struct {
	AthleteID string
	Season    int
	Team      string

	FirstName *string
	LastName  *string
	Jersey    *int
	Position  *string
	Height    *int
	Weight    *int
	Year      *int

	HomeCity    *string
	HomeState   *string
	HomeCountry *string
}
