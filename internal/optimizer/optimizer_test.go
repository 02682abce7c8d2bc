package optimizer

import (
	"fmt"
	"testing"

	"swms-backend/internal/models"
)

func TestOptimizePriorityBeatsCloserBin(t *testing.T) {
	depot := models.Location{Lat: 0, Lng: 0}
	candidates := []Candidate{
		{BinID: "A", Location: models.Location{Lat: 1, Lng: 0}, Priority: 1},
		{BinID: "B", Location: models.Location{Lat: 0, Lng: 1}, Priority: 2},
	}

	// A scores 1 - 0.1 = 0.9, B scores 1 - 0.2 = 0.8, so B goes first.
	plan := Optimize(depot, candidates)

	if plan.Algorithm != AlgorithmName {
		t.Fatalf("algorithm = %q, want %q", plan.Algorithm, AlgorithmName)
	}
	if len(plan.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(plan.Stops))
	}
	if plan.Stops[0] != "B" || plan.Stops[1] != "A" {
		t.Fatalf("order = %v, want [B A]", plan.Stops)
	}
}

func TestOptimizeNearestNeighborOrder(t *testing.T) {
	depot := models.Location{Lat: 0, Lng: 0}
	candidates := []Candidate{
		{BinID: "far", Location: models.Location{Lat: 10, Lng: 0}, Priority: 1},
		{BinID: "near", Location: models.Location{Lat: 1, Lng: 0}, Priority: 1},
		{BinID: "mid", Location: models.Location{Lat: 5, Lng: 0}, Priority: 1},
	}

	plan := Optimize(depot, candidates)

	want := []string{"near", "mid", "far"}
	for i, id := range want {
		if plan.Stops[i] != id {
			t.Fatalf("stop %d = %q, want %q (full order %v)", i, plan.Stops[i], id, plan.Stops)
		}
	}
}

func TestOptimizeIsPermutation(t *testing.T) {
	depot := models.Location{Lat: -1.28, Lng: 36.81}
	var candidates []Candidate
	for i := 0; i < 25; i++ {
		candidates = append(candidates, Candidate{
			BinID:    fmt.Sprintf("BIN-%03d", i),
			Location: models.Location{Lat: float64(i%7) * 0.01, Lng: float64(i%5) * 0.02},
			Priority: 1 + i%2,
		})
	}

	plan := Optimize(depot, candidates)

	if len(plan.Stops) != len(candidates) {
		t.Fatalf("expected %d stops, got %d", len(candidates), len(plan.Stops))
	}
	seen := make(map[string]bool)
	for _, id := range plan.Stops {
		if seen[id] {
			t.Fatalf("duplicate stop %q", id)
		}
		seen[id] = true
	}
	for _, c := range candidates {
		if !seen[c.BinID] {
			t.Fatalf("missing candidate %q", c.BinID)
		}
	}
}

func TestOptimizeTieBreakFavorsHigherPriority(t *testing.T) {
	depot := models.Location{Lat: 0, Lng: 0}
	// Same location, same distance: the priority-descending pre-sort
	// must put the high-priority bin first on an exact score tie.
	candidates := []Candidate{
		{BinID: "low", Location: models.Location{Lat: 2, Lng: 0}, Priority: 1},
		{BinID: "high", Location: models.Location{Lat: 2, Lng: 0}, Priority: 2},
	}

	plan := Optimize(depot, candidates)

	if plan.Stops[0] != "high" {
		t.Fatalf("order = %v, want high first", plan.Stops)
	}
}

func TestOptimizeEmptyInput(t *testing.T) {
	plan := Optimize(models.Location{}, nil)
	if len(plan.Stops) != 0 {
		t.Fatalf("expected no stops, got %v", plan.Stops)
	}
	if plan.Algorithm != AlgorithmName {
		t.Fatalf("algorithm = %q, want %q", plan.Algorithm, AlgorithmName)
	}
}

func TestOptimizeDeterministic(t *testing.T) {
	depot := models.Location{Lat: 0, Lng: 0}
	candidates := []Candidate{
		{BinID: "a", Location: models.Location{Lat: 0.3, Lng: 0.1}, Priority: 2},
		{BinID: "b", Location: models.Location{Lat: 0.1, Lng: 0.4}, Priority: 1},
		{BinID: "c", Location: models.Location{Lat: 0.2, Lng: 0.2}, Priority: 2},
	}

	first := Optimize(depot, candidates)
	for i := 0; i < 10; i++ {
		again := Optimize(depot, candidates)
		for j := range first.Stops {
			if again.Stops[j] != first.Stops[j] {
				t.Fatalf("run %d produced %v, first run %v", i, again.Stops, first.Stops)
			}
		}
	}
}
