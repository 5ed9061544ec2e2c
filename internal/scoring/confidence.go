package scoring

import "fmt"

// Mode selects how much signal the confidence and recommendation stages use.
type Mode string

const (
	// ModeAdvanced is the full estimator used for regular scoring.
	ModeAdvanced Mode = "advanced"
	// ModeBasic is a reduced estimator for low-data situations.
	ModeBasic Mode = "basic"
)

// ParseMode maps a config or request string to a Mode. Empty means advanced.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAdvanced:
		return ModeAdvanced, nil
	case ModeBasic:
		return ModeBasic, nil
	}
	return "", fmt.Errorf("unknown scoring mode %q", s)
}

const (
	MinConfidence = 30
	MaxConfidence = 95

	anomalyConfidencePenalty = 10
)

// Confidence is a heuristic trust indicator for a result, not a statistical interval.
func Confidence(f Factors, anomalies []Anomaly) int {
	c := 75
	if f.ExperienceMatch > 20 {
		c += 15
	}
	if f.ProviderRating >= 4.5 {
		c += 10
	}
	if f.PriceRatio > 0.6 && f.PriceRatio < 1.2 {
		c += 10
	}
	c -= anomalyConfidencePenalty * len(anomalies)
	return clampInt(c, MinConfidence, MaxConfidence)
}

// BasicConfidence is the low-data estimator: base 75, +10 for more than 10
// comparable missions, +10 for a rating of at least 4.5, +5 for a skills match
// of at least 80, capped at 95. Anomalies then cost 10 points each.
func BasicConfidence(f Factors, anomalies []Anomaly) int {
	c := 75
	if f.ExperienceMatch > 10 {
		c += 10
	}
	if f.ProviderRating >= 4.5 {
		c += 10
	}
	if f.SkillsMatch >= 80 {
		c += 5
	}
	c = min(c, MaxConfidence)
	c -= anomalyConfidencePenalty * len(anomalies)
	return clampInt(c, MinConfidence, MaxConfidence)
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
