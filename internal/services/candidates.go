package services

import (
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"

	"swms-backend/internal/models"
	"swms-backend/internal/optimizer"
)

// SelectCandidates returns the bins eligible for collection: fill level
// at or above the warning threshold and a routable location. Ordering
// is irrelevant here; the optimizer imposes the visiting order. When
// nothing qualifies it returns ErrNoEligibleBins so callers short-
// circuit instead of calling the optimizer with an empty set.
func SelectCandidates(db *sqlx.DB, th Thresholds) ([]optimizer.Candidate, error) {
	var bins []models.Bin
	err := db.Select(&bins, `
		SELECT id, bin_id, fill_level, temperature_c, battery_level,
		       latitude, longitude, last_seen_at, created_at, updated_at
		FROM bins
		WHERE fill_level >= $1
	`, th.FillWarning)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate bins: %w", err)
	}

	candidates := FilterCandidates(bins, th)
	if len(candidates) == 0 {
		return nil, ErrNoEligibleBins
	}
	return candidates, nil
}

// FilterCandidates applies the eligibility rules to a bin set. Bins
// without a finite location are silently excluded; they cannot be
// routed, which is not an error.
func FilterCandidates(bins []models.Bin, th Thresholds) []optimizer.Candidate {
	candidates := make([]optimizer.Candidate, 0, len(bins))

	for _, bin := range bins {
		if bin.FillLevel < th.FillWarning {
			continue
		}
		if bin.Latitude == nil || bin.Longitude == nil {
			continue
		}
		if !finite(*bin.Latitude) || !finite(*bin.Longitude) {
			continue
		}

		priority := 1
		if bin.FillLevel >= th.FillCritical || bin.TemperatureC >= th.TempCritical {
			priority = 2
		}

		candidates = append(candidates, optimizer.Candidate{
			BinID:    bin.BinID,
			Location: models.Location{Lat: *bin.Latitude, Lng: *bin.Longitude},
			Priority: priority,
		})
	}

	return candidates
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
