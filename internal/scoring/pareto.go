package scoring

// ParetoCandidate represents a bid scored across the trade-off dimensions.
type ParetoCandidate struct {
	ID      string  `json:"id"`
	Price   float64 `json:"price"`
	Quality float64 `json:"quality"`
	Delay   float64 `json:"delay"`
	Risk    float64 `json:"risk"`
}

// ParetoCandidateOf extracts the trade-off dimensions from a result.
func ParetoCandidateOf(id string, r ScoringResult) ParetoCandidate {
	return ParetoCandidate{
		ID:      id,
		Price:   float64(r.Breakdown[DimPrice]),
		Quality: float64(r.Breakdown[DimQuality]),
		Delay:   float64(r.Breakdown[DimDelay]),
		Risk:    float64(r.Breakdown[DimRisk]),
	}
}

// ComputeFrontier returns the Pareto-optimal candidates from the input set.
// All dimensions are scores, so higher is better everywhere.
// O(n^2) dominance check, fine for the number of bids on a mission.
func ComputeFrontier(candidates []ParetoCandidate) []ParetoCandidate {
	if len(candidates) <= 1 {
		return candidates
	}

	var frontier []ParetoCandidate
	for i := range candidates {
		dominated := false
		for j := range candidates {
			if i == j {
				continue
			}
			if dominates(candidates[j], candidates[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, candidates[i])
		}
	}
	return frontier
}

// dominates returns true if a is >= b everywhere and strictly better somewhere.
func dominates(a, b ParetoCandidate) bool {
	if a.Price < b.Price || a.Quality < b.Quality || a.Delay < b.Delay || a.Risk < b.Risk {
		return false
	}
	return a.Price > b.Price || a.Quality > b.Quality || a.Delay > b.Delay || a.Risk > b.Risk
}
