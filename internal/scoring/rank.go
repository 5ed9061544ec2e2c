package scoring

import "sort"

// ShortlistMinConfidence is the minimum confidence for automatic shortlisting.
const ShortlistMinConfidence = 80

// Shortlisted reports whether a result is strong enough to be put in front of
// the client without further review: excellent band, no anomalies and high
// confidence. A high score alone is never enough.
func Shortlisted(r ScoringResult) bool {
	return r.TotalScore >= ThresholdExcellent &&
		len(r.Anomalies) == 0 &&
		r.Confidence >= ShortlistMinConfidence
}

// Candidate is one bid to be ranked against its competitors.
type Candidate struct {
	ID    string `json:"id" yaml:"id"`
	Input Input  `json:"input" yaml:"input"`
}

// Ranked is a scored candidate with its position among competitors.
type Ranked struct {
	ID          string        `json:"id"`
	Position    int           `json:"position"`
	Result      ScoringResult `json:"result"`
	Shortlisted bool          `json:"shortlisted"`
	OnFrontier  bool          `json:"on_frontier"`
}

// RankResults orders already-scored results. Ties on total score are broken
// by confidence, then by fewer anomalies, then by ID, so the order is stable
// for identical inputs.
func RankResults(ids []string, results []ScoringResult) []Ranked {
	ranked := make([]Ranked, len(results))
	pareto := make([]ParetoCandidate, len(results))
	for i := range results {
		ranked[i] = Ranked{ID: ids[i], Result: results[i], Shortlisted: Shortlisted(results[i])}
		pareto[i] = ParetoCandidateOf(ids[i], results[i])
	}

	frontier := make(map[string]bool)
	for _, c := range ComputeFrontier(pareto) {
		frontier[c.ID] = true
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Result, ranked[j].Result
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if len(a.Anomalies) != len(b.Anomalies) {
			return len(a.Anomalies) < len(b.Anomalies)
		}
		return ranked[i].ID < ranked[j].ID
	})

	for i := range ranked {
		ranked[i].Position = i + 1
		ranked[i].OnFrontier = frontier[ranked[i].ID]
	}
	return ranked
}

// Rank scores every candidate with e and orders them. Invalid candidates are
// reported with their ID and nothing is ranked.
func (e *Engine) Rank(candidates []Candidate) ([]Ranked, error) {
	ids := make([]string, len(candidates))
	results := make([]ScoringResult, len(candidates))
	var errs RankErrors
	for i, c := range candidates {
		r, err := e.Evaluate(c.Input)
		if err != nil {
			errs = append(errs, CandidateError{ID: c.ID, Err: err})
			continue
		}
		ids[i] = c.ID
		results[i] = r
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return RankResults(ids, results), nil
}
