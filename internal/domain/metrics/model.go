package metrics

import "strings"

// ExplosiveYards is the yards-gained threshold at which a play counts as
// explosive.
const ExplosiveYards = 20

// EPASummary is average predicted points added per play. Averages are nil
// when no qualifying plays exist; they are never reported as zero.
type EPASummary struct {
	OverallEPA   *float64 `json:"overall_epa"`
	RushEPA      *float64 `json:"rush_epa"`
	PassEPA      *float64 `json:"pass_epa"`
	OverallPlays int      `json:"overall_plays"`
	RushPlays    int      `json:"rush_plays"`
	PassPlays    int      `json:"pass_plays"`
}

// SuccessRateCell is the success rate for one down and distance bucket.
type SuccessRateCell struct {
	Down           int      `json:"down"`
	DistanceBucket string   `json:"distance_bucket"`
	Plays          int      `json:"plays"`
	SuccessRate    *float64 `json:"success_rate"`
}

type Explosiveness struct {
	OverallRate    *float64 `json:"overall_rate"`
	RushRate       *float64 `json:"rush_rate"`
	PassRate       *float64 `json:"pass_rate"`
	ExplosivePlays int      `json:"explosive_plays"`
	TotalPlays     int      `json:"total_plays"`
}

type DriveOutcome struct {
	Result string  `json:"result"`
	Drives int     `json:"drives"`
	Share  float64 `json:"share"`
}

type DriveOutcomes struct {
	TotalDrives int            `json:"total_drives"`
	Outcomes    []DriveOutcome `json:"outcomes"`
	ScoringPct  *float64       `json:"scoring_pct"`
	GiveawayPct *float64       `json:"giveaway_pct"`
}

// FieldPositionPPD is points per drive for one starting-field-position
// bucket, measured in yards to goal.
type FieldPositionPPD struct {
	Bucket         string   `json:"bucket"`
	Drives         int      `json:"drives"`
	TotalPoints    int      `json:"total_points"`
	PointsPerDrive *float64 `json:"points_per_drive"`
}

// SeasonSummary bundles every derived metric family for one team-season.
type SeasonSummary struct {
	Team           string             `json:"team"`
	Season         int                `json:"season"`
	EPA            *EPASummary        `json:"epa"`
	SuccessRates   []SuccessRateCell  `json:"success_rates"`
	Explosiveness  *Explosiveness     `json:"explosiveness"`
	DriveOutcomes  *DriveOutcomes     `json:"drive_outcomes"`
	PointsPerDrive []FieldPositionPPD `json:"points_per_drive"`
}

var (
	DistanceBuckets      = []string{"1-3", "4-6", "7+"}
	FieldPositionBuckets = []string{"0-20", "21-40", "41-60", "61+"}
)

// ClampFieldPosition forces a yards-to-goal value into [0, 100]. Upstream
// drive rows occasionally carry out-of-range positions.
func ClampFieldPosition(yardsToGoal int) int {
	if yardsToGoal < 0 {
		return 0
	}
	if yardsToGoal > 100 {
		return 100
	}
	return yardsToGoal
}

// DistanceBucket maps yards-to-gain onto the short/medium/long buckets.
func DistanceBucket(distance int) string {
	switch {
	case distance <= 3:
		return "1-3"
	case distance <= 6:
		return "4-6"
	default:
		return "7+"
	}
}

// FieldPositionBucket maps a clamped starting yards-to-goal onto its bucket.
func FieldPositionBucket(yardsToGoal int) string {
	switch clamped := ClampFieldPosition(yardsToGoal); {
	case clamped <= 20:
		return "0-20"
	case clamped <= 40:
		return "21-40"
	case clamped <= 60:
		return "41-60"
	default:
		return "61+"
	}
}

// IsSuccess applies the success heuristic: positive predicted points added.
// Plays without a PPA value are excluded from success-rate denominators.
func IsSuccess(ppa *float64) bool {
	return ppa != nil && *ppa > 0
}

// IsExplosive reports whether a play gained at least ExplosiveYards.
func IsExplosive(yardsGained *int) bool {
	return yardsGained != nil && *yardsGained >= ExplosiveYards
}

var scoringResults = map[string]struct{}{
	"TD":         {},
	"RUSHING TD": {},
	"PASSING TD": {},
	"FG":         {},
	"MADE FG":    {},
}

var giveawayResults = map[string]struct{}{
	"INT":               {},
	"INT TD":            {},
	"FUMBLE":            {},
	"FUMBLE TD":         {},
	"FUMBLE RETURN TD":  {},
	"DOWNS":             {},
	"TURNOVER ON DOWNS": {},
}

func IsScoringResult(result string) bool {
	_, ok := scoringResults[strings.ToUpper(strings.TrimSpace(result))]
	return ok
}

func IsGiveawayResult(result string) bool {
	_, ok := giveawayResults[strings.ToUpper(strings.TrimSpace(result))]
	return ok
}

// Canonical drive-outcome categories. The upstream feed spells one outcome
// many ways (TD, RUSHING TD, PASSING TD); distributions aggregate on these.
const (
	ResultTouchdown = "TOUCHDOWN"
	ResultFieldGoal = "FIELD GOAL"
	ResultPunt      = "PUNT"
	ResultTurnover  = "TURNOVER"
	ResultDowns     = "DOWNS"
	ResultEndOfHalf = "END OF HALF"
	ResultOther     = "OTHER"
)

var resultCategories = map[string]string{
	"TD":                 ResultTouchdown,
	"RUSHING TD":         ResultTouchdown,
	"PASSING TD":         ResultTouchdown,
	"FG":                 ResultFieldGoal,
	"MADE FG":            ResultFieldGoal,
	"PUNT":               ResultPunt,
	"INT":                ResultTurnover,
	"INT TD":             ResultTurnover,
	"FUMBLE":             ResultTurnover,
	"FUMBLE TD":          ResultTurnover,
	"FUMBLE RETURN TD":   ResultTurnover,
	"DOWNS":              ResultDowns,
	"TURNOVER ON DOWNS":  ResultDowns,
	"END OF HALF":        ResultEndOfHalf,
	"END OF GAME":        ResultEndOfHalf,
	"END OF 4TH QUARTER": ResultEndOfHalf,
}

// ResultCategory maps a raw drive result onto its canonical category.
// Unrecognized results fall into OTHER rather than getting their own row.
func ResultCategory(result string) string {
	if category, ok := resultCategories[strings.ToUpper(strings.TrimSpace(result))]; ok {
		return category
	}
	return ResultOther
}
