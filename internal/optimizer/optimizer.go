package optimizer

import (
	"math"
	"sort"

	"swms-backend/internal/models"
)

// AlgorithmName tags plans produced by this heuristic so a stronger
// solver can be swapped in behind the same contract later.
const AlgorithmName = "priority-nearest-neighbor"

// priorityWeight is subtracted per priority point from the distance
// score, biasing the greedy choice toward urgent bins.
const priorityWeight = 0.1

// Candidate is one routable bin with its collection priority
// (1 normal, 2 high).
type Candidate struct {
	BinID    string          `json:"binId"`
	Location models.Location `json:"location"`
	Priority int             `json:"priority"`
}

// Plan is a total visiting order over the candidate ids.
type Plan struct {
	Algorithm string   `json:"algorithm"`
	Stops     []string `json:"stops"`
}

// Optimize orders candidates with a priority-weighted nearest-neighbor
// heuristic starting from the depot. Each step picks the remaining
// candidate minimizing distance(current, bin) - priority*0.1, then
// moves there. O(n²), fine for single-vehicle bin counts.
//
// Ties keep the first-encountered candidate; remaining is pre-sorted
// by descending priority so ties favor urgent bins deterministically.
func Optimize(depot models.Location, candidates []Candidate) Plan {
	remaining := make([]Candidate, len(candidates))
	copy(remaining, candidates)
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].Priority > remaining[j].Priority
	})

	order := make([]string, 0, len(remaining))
	current := depot

	for len(remaining) > 0 {
		bestIdx := 0
		bestScore := math.Inf(1)

		for i, c := range remaining {
			score := planeDistance(current, c.Location) - float64(c.Priority)*priorityWeight
			if score < bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		next := remaining[bestIdx]
		order = append(order, next.BinID)
		current = next.Location
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return Plan{Algorithm: AlgorithmName, Stops: order}
}

// planeDistance treats raw lat/lng as planar coordinates. This is not
// geodesic distance; route outputs depend on it, so it stays as-is
// even though the error grows beyond city scale.
func planeDistance(a, b models.Location) float64 {
	dx := a.Lat - b.Lat
	dy := a.Lng - b.Lng
	return math.Sqrt(dx*dx + dy*dy)
}
