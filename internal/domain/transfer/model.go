package transfer

import "time"

// Transfer is one portal entry. The upstream feed has no stable key, so a
// season is cleared and re-inserted on every run; identity stays inside the
// store and never surfaces here.
type Transfer struct {
	Season    int
	FirstName string
	LastName  string

	Position     *string
	Origin       *string
	Destination  *string
	TransferDate *time.Time
	Rating       *float64
	Stars        *int
	Eligibility  *string
}
