package scoring

import "math"

const (
	// BriefQualityLambda scales the quality adjustment driven by brief quality.
	BriefQualityLambda = 0.20
	// RichnessLambda scales the fit adjustment driven by brief richness.
	RichnessLambda = 0.15
	// MissingInfoRiskPenalty is removed from risk per missing brief item.
	MissingInfoRiskPenalty = 5.0
	// MissingInfoDelayPenalty is removed from delay once any brief item is missing.
	MissingInfoDelayPenalty = 3.0
)

// Standardize rescales quality, fit, risk and delay by how well-specified
// the mission brief was. A nil sd leaves the scores untouched.
func Standardize(s Scores, sd *StandardizationData) Scores {
	if sd == nil {
		return s
	}

	s.Quality = math.Min(100, s.Quality*(1+BriefQualityLambda*(sd.BriefQualityScore/100-0.5)))
	s.Fit = math.Min(100, s.Fit*(1+RichnessLambda*(sd.RichnessScore/100-0.5)))

	if sd.MissingInfoCount > 0 {
		s.Risk = math.Max(0, s.Risk-float64(sd.MissingInfoCount)*MissingInfoRiskPenalty)
		s.Delay = math.Max(0, s.Delay-MissingInfoDelayPenalty)
	}
	return s.clamped()
}
