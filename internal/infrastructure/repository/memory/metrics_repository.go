package memory

import (
	"context"
	"sort"

	"github.com/crimson-data/cfb-analytics/internal/domain/game"
	"github.com/crimson-data/cfb-analytics/internal/domain/metrics"
)

// MetricsRepository computes the derived metrics in Go over an in-memory
// games store. Semantics match the SQL implementation: averages over plays
// with data, null when nothing qualifies.
type MetricsRepository struct {
	store *GameRepository
}

func NewMetricsRepository(store *GameRepository) *MetricsRepository {
	return &MetricsRepository{store: store}
}

func (r *MetricsRepository) TeamSeasonEPA(_ context.Context, team string, season int) (*metrics.EPASummary, error) {
	summary := &metrics.EPASummary{}
	var overallSum, rushSum, passSum float64

	for _, p := range r.store.seasonPlays(team, season) {
		if p.PPA == nil {
			continue
		}
		summary.OverallPlays++
		overallSum += *p.PPA
		if p.IsRush() {
			summary.RushPlays++
			rushSum += *p.PPA
		}
		if p.IsPass() {
			summary.PassPlays++
			passSum += *p.PPA
		}
	}

	summary.OverallEPA = average(overallSum, summary.OverallPlays)
	summary.RushEPA = average(rushSum, summary.RushPlays)
	summary.PassEPA = average(passSum, summary.PassPlays)
	return summary, nil
}

func (r *MetricsRepository) TeamSeasonSuccessRates(_ context.Context, team string, season int) ([]metrics.SuccessRateCell, error) {
	type cellKey struct {
		down   int
		bucket string
	}
	plays := make(map[cellKey]int)
	successes := make(map[cellKey]int)

	for _, p := range r.store.seasonPlays(team, season) {
		if p.Down == nil || *p.Down < 1 || *p.Down > 4 || p.Distance == nil || p.PPA == nil {
			continue
		}
		key := cellKey{down: *p.Down, bucket: metrics.DistanceBucket(*p.Distance)}
		plays[key]++
		if metrics.IsSuccess(p.PPA) {
			successes[key]++
		}
	}

	cells := make([]metrics.SuccessRateCell, 0, len(plays))
	for key, count := range plays {
		rate := float64(successes[key]) / float64(count)
		cells = append(cells, metrics.SuccessRateCell{
			Down:           key.down,
			DistanceBucket: key.bucket,
			Plays:          count,
			SuccessRate:    &rate,
		})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Down != cells[j].Down {
			return cells[i].Down < cells[j].Down
		}
		return cells[i].DistanceBucket < cells[j].DistanceBucket
	})
	return cells, nil
}

func (r *MetricsRepository) TeamSeasonExplosiveness(_ context.Context, team string, season int) (*metrics.Explosiveness, error) {
	out := &metrics.Explosiveness{}
	rushTotal, rushExplosive := 0, 0
	passTotal, passExplosive := 0, 0

	for _, p := range r.store.seasonPlays(team, season) {
		if p.YardsGained == nil {
			continue
		}
		out.TotalPlays++
		explosive := metrics.IsExplosive(p.YardsGained)
		if explosive {
			out.ExplosivePlays++
		}
		if p.IsRush() {
			rushTotal++
			if explosive {
				rushExplosive++
			}
		}
		if p.IsPass() {
			passTotal++
			if explosive {
				passExplosive++
			}
		}
	}

	out.OverallRate = rate(out.ExplosivePlays, out.TotalPlays)
	out.RushRate = rate(rushExplosive, rushTotal)
	out.PassRate = rate(passExplosive, passTotal)
	return out, nil
}

func (r *MetricsRepository) TeamSeasonDriveOutcomes(_ context.Context, team string, season int) (*metrics.DriveOutcomes, error) {
	out := &metrics.DriveOutcomes{}
	categories := make(map[string]int)
	scoring, giveaways := 0, 0

	for _, d := range r.store.seasonDrives(team, season) {
		if d.DriveResult == nil {
			continue
		}
		out.TotalDrives++
		categories[metrics.ResultCategory(*d.DriveResult)]++
		if metrics.IsScoringResult(*d.DriveResult) {
			scoring++
		}
		if metrics.IsGiveawayResult(*d.DriveResult) {
			giveaways++
		}
	}
	if out.TotalDrives == 0 {
		return out, nil
	}

	for category, count := range categories {
		out.Outcomes = append(out.Outcomes, metrics.DriveOutcome{
			Result: category,
			Drives: count,
			Share:  float64(count) / float64(out.TotalDrives),
		})
	}
	sort.Slice(out.Outcomes, func(i, j int) bool {
		if out.Outcomes[i].Drives != out.Outcomes[j].Drives {
			return out.Outcomes[i].Drives > out.Outcomes[j].Drives
		}
		return out.Outcomes[i].Result < out.Outcomes[j].Result
	})

	out.ScoringPct = rate(scoring, out.TotalDrives)
	out.GiveawayPct = rate(giveaways, out.TotalDrives)
	return out, nil
}

func (r *MetricsRepository) TeamSeasonPointsPerDrive(_ context.Context, team string, season int) ([]metrics.FieldPositionPPD, error) {
	drivesByBucket := make(map[string]int)
	pointsByBucket := make(map[string]int)

	for _, d := range r.store.seasonDrives(team, season) {
		if d.StartYardsToGoal == nil {
			continue
		}
		bucket := metrics.FieldPositionBucket(*d.StartYardsToGoal)
		drivesByBucket[bucket]++
		pointsByBucket[bucket] += drivePoints(d)
	}

	out := make([]metrics.FieldPositionPPD, 0, len(metrics.FieldPositionBuckets))
	for _, bucket := range metrics.FieldPositionBuckets {
		entry := metrics.FieldPositionPPD{Bucket: bucket}
		if drives := drivesByBucket[bucket]; drives > 0 {
			entry.Drives = drives
			entry.TotalPoints = pointsByBucket[bucket]
			ppd := float64(entry.TotalPoints) / float64(drives)
			entry.PointsPerDrive = &ppd
		}
		out = append(out, entry)
	}
	return out, nil
}

func drivePoints(d game.Drive) int {
	start, end := 0, 0
	if d.StartOffenseScore != nil {
		start = *d.StartOffenseScore
	}
	if d.EndOffenseScore != nil {
		end = *d.EndOffenseScore
	}
	if end < start {
		return 0
	}
	return end - start
}

func average(sum float64, count int) *float64 {
	if count == 0 {
		return nil
	}
	avg := sum / float64(count)
	return &avg
}

func rate(hits, total int) *float64 {
	if total == 0 {
		return nil
	}
	value := float64(hits) / float64(total)
	return &value
}
