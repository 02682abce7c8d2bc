package services

import (
	"testing"

	"swms-backend/internal/models"
)

// newestFirst builds a telemetry window from (fill, hoursAgo) pairs,
// newest first, anchored at an arbitrary fixed time.
func newestFirst(points ...[2]float64) []models.TelemetryRecord {
	const anchor = int64(1_700_000_000)
	records := make([]models.TelemetryRecord, 0, len(points))
	for _, p := range points {
		records = append(records, models.TelemetryRecord{
			BinID:      "BIN-001",
			FillLevel:  p[0],
			RecordedAt: anchor - int64(p[1]*3600),
		})
	}
	return records
}

func TestEstimateTimeToCriticalRisingTrend(t *testing.T) {
	// 40% -> 70% over 6 hours: slope 5%/h, eta (90-70)/5 = 4h.
	records := newestFirst([2]float64{70, 0}, [2]float64{55, 3}, [2]float64{40, 6})

	eta, ok := EstimateTimeToCritical(records, 90)
	if !ok {
		t.Fatal("expected an estimate")
	}
	if eta != 4 {
		t.Fatalf("eta = %v, want 4", eta)
	}
}

func TestEstimateTimeToCriticalTooFewSamples(t *testing.T) {
	records := newestFirst([2]float64{70, 0}, [2]float64{40, 6})

	if _, ok := EstimateTimeToCritical(records, 90); ok {
		t.Fatal("expected no estimate with 2 samples")
	}
}

func TestEstimateTimeToCriticalFlatOrFalling(t *testing.T) {
	flat := newestFirst([2]float64{50, 0}, [2]float64{50, 5}, [2]float64{50, 10})
	if _, ok := EstimateTimeToCritical(flat, 90); ok {
		t.Fatal("expected no estimate for flat fill")
	}

	falling := newestFirst([2]float64{30, 0}, [2]float64{50, 5}, [2]float64{70, 10})
	if _, ok := EstimateTimeToCritical(falling, 90); ok {
		t.Fatal("expected no estimate for falling fill")
	}

	// Slope exactly 0.1 is still "essentially flat".
	barely := newestFirst([2]float64{51, 0}, [2]float64{50.5, 5}, [2]float64{50, 10})
	if _, ok := EstimateTimeToCritical(barely, 90); ok {
		t.Fatal("expected no estimate at the minimum slope")
	}
}

func TestEstimateTimeToCriticalBeyondHorizon(t *testing.T) {
	// Slope 0.2%/h from 50%: eta (90-50)/0.2 = 200h, past the 96h horizon.
	records := newestFirst([2]float64{50, 0}, [2]float64{49, 5}, [2]float64{48, 10})

	if _, ok := EstimateTimeToCritical(records, 90); ok {
		t.Fatal("expected no estimate beyond the 96h horizon")
	}
}

func TestEstimateTimeToCriticalClampsShortWindows(t *testing.T) {
	// All samples within 10 minutes; elapsed clamps to 1h, so the
	// slope is 20%/h rather than 120%/h.
	records := newestFirst([2]float64{80, 0}, [2]float64{70, 0.08}, [2]float64{60, 0.16})

	eta, ok := EstimateTimeToCritical(records, 90)
	if !ok {
		t.Fatal("expected an estimate")
	}
	if eta != 0.5 {
		t.Fatalf("eta = %v, want 0.5 with elapsed clamped to 1h", eta)
	}
}

func TestEstimateTimeToCriticalRounding(t *testing.T) {
	// 60% -> 70% over 3h: slope 10/3, eta 20/(10/3) = 6h exactly; shift
	// the newest sample to force a non-round value.
	records := newestFirst([2]float64{71, 0}, [2]float64{65, 1.5}, [2]float64{60, 3})

	eta, ok := EstimateTimeToCritical(records, 90)
	if !ok {
		t.Fatal("expected an estimate")
	}
	// slope = 11/3 ≈ 3.667, eta = 19/3.667 ≈ 5.18 -> 5.2 after rounding.
	if eta != 5.2 {
		t.Fatalf("eta = %v, want 5.2", eta)
	}
}
