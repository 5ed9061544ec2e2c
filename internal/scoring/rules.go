package scoring

import "math"

// HeuristicRule boosts or penalizes scores when a cross-factor pattern holds.
// Apply receives scores already bounded to [0, 100].
type HeuristicRule struct {
	Name  string
	When  func(f Factors) bool
	Apply func(s Scores) Scores
}

// DefaultHeuristicRules returns the fixed, ordered adjustment table.
// Rules are independent and may stack on the same bid.
func DefaultHeuristicRules() []HeuristicRule {
	return []HeuristicRule{
		{
			Name: "excellence_bonus",
			When: func(f Factors) bool {
				return f.ProviderRating > 4.8 && f.ExperienceMatch > 20
			},
			Apply: func(s Scores) Scores {
				s.Quality = math.Min(100, s.Quality*1.10)
				s.Completion = math.Min(100, s.Completion*1.15)
				return s
			},
		},
		{
			Name: "reliability_bonus",
			When: func(f Factors) bool {
				return f.SuccessRate > 0.95 && f.ResponseTime < 2
			},
			Apply: func(s Scores) Scores {
				s.Risk = math.Min(100, s.Risk*1.20)
				return s
			},
		},
		{
			Name: "dumping_penalty",
			When: func(f Factors) bool {
				return f.PriceRatio < 0.4
			},
			Apply: func(s Scores) Scores {
				s.Completion = math.Max(0, s.Completion*0.70)
				s.Risk = math.Max(0, s.Risk*0.80)
				return s
			},
		},
	}
}

// ApplyHeuristics runs every matching rule in order and returns the adjusted
// scores with the names of the rules that fired.
func ApplyHeuristics(rules []HeuristicRule, f Factors, s Scores) (Scores, []string) {
	fired := []string{}
	for _, r := range rules {
		if !r.When(f) {
			continue
		}
		s = r.Apply(s).clamped()
		fired = append(fired, r.Name)
	}
	return s, fired
}

// AnomalyRule flags a suspicious pattern. Detect sees the raw factors and the
// fully adjusted scores.
type AnomalyRule struct {
	Tag    Anomaly
	Detect func(f Factors, s Scores) bool
}

// IncoherentVarianceThreshold is the population variance above which the
// adjusted dimension scores are considered mutually incoherent.
const IncoherentVarianceThreshold = 800.0

// DefaultAnomalyRules returns the ordered anomaly table.
func DefaultAnomalyRules() []AnomalyRule {
	return []AnomalyRule{
		{
			Tag: AnomalyPriceDumping,
			Detect: func(f Factors, _ Scores) bool {
				return f.PriceRatio < 0.3
			},
		},
		{
			Tag: AnomalyArtificialProfile,
			Detect: func(f Factors, _ Scores) bool {
				return f.ProviderRating == 5 && f.SuccessRate == 1 && f.ResponseTime < 0.5
			},
		},
		{
			Tag: AnomalyExperiencePriceGap,
			Detect: func(f Factors, _ Scores) bool {
				return f.ExperienceMatch > 50 && f.PriceRatio < 0.5
			},
		},
		{
			Tag: AnomalyIncoherentScores,
			Detect: func(_ Factors, s Scores) bool {
				return Variance(s) > IncoherentVarianceThreshold
			},
		},
	}
}

// DetectAnomalies returns the tags of every matching rule, in table order.
// The result is never nil.
func DetectAnomalies(rules []AnomalyRule, f Factors, s Scores) []Anomaly {
	out := []Anomaly{}
	for _, r := range rules {
		if r.Detect(f, s) {
			out = append(out, r.Tag)
		}
	}
	return out
}

// Variance is the population variance of the six dimension scores.
func Variance(s Scores) float64 {
	values := s.asList()
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(values))
}
