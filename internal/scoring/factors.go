package scoring

import "math"

// --- Dimension scorers ---
//
// Each scorer is a total piecewise map from raw factors to [0, 100].
// Out-of-domain input lands on a range boundary instead of failing.

// PriceScore rewards bids at or slightly under the expected price and
// distrusts bids far below it.
func PriceScore(f Factors) FactorResult {
	r := f.PriceRatio
	switch {
	case r < 0.5 || r != r:
		return FactorResult{Name: DimPrice, Score: 20, Reason: "prix anormalement bas"}
	case r < 0.8:
		return FactorResult{Name: DimPrice, Score: 95, Reason: "prix compétitif"}
	case r <= 1.0:
		return FactorResult{Name: DimPrice, Score: 85, Reason: "dans le budget"}
	case r <= 1.2:
		return FactorResult{Name: DimPrice, Score: 70, Reason: "légèrement au-dessus du budget"}
	default:
		score := math.Max(30, 70-(r-1.2)*100)
		return FactorResult{Name: DimPrice, Score: clamp(score, 0, 100), Reason: "hors budget"}
	}
}

// QualityScore combines rating (up to 60 points) with comparable experience (up to 40).
func QualityScore(f Factors) FactorResult {
	rating := (f.ProviderRating / 5) * 60
	experience := math.Min(40, f.ExperienceMatch*2)
	return FactorResult{
		Name:   DimQuality,
		Score:  clamp(rating+experience, 0, 100),
		Reason: "note et expérience",
	}
}

// FitScore is a passthrough of the skills overlap percentage.
func FitScore(f Factors) FactorResult {
	return FactorResult{Name: DimFit, Score: clamp(f.SkillsMatch, 0, 100), Reason: "correspondance des compétences"}
}

// DelayScore rewards fast responders. responseTime is in hours.
func DelayScore(f Factors) FactorResult {
	h := f.ResponseTime
	switch {
	case h <= 1:
		return FactorResult{Name: DimDelay, Score: 100, Reason: "répond dans l'heure"}
	case h <= 4:
		return FactorResult{Name: DimDelay, Score: 90, Reason: "répond sous 4h"}
	case h <= 24:
		return FactorResult{Name: DimDelay, Score: 75, Reason: "répond dans la journée"}
	default:
		return FactorResult{Name: DimDelay, Score: clamp(math.Max(30, 75-h), 0, 100), Reason: "réponse lente"}
	}
}

// RiskScore is a safety score: higher means lower delivery risk.
func RiskScore(f Factors) FactorResult {
	score := f.SuccessRate*60 + (f.ProviderRating/5)*40
	return FactorResult{Name: DimRisk, Score: clamp(score, 0, 100), Reason: "taux de réussite et note"}
}

var complexityPenalty = map[Level]float64{
	LevelLow:    0,
	LevelMedium: -5,
	LevelHigh:   -10,
}

var urgencyPenalty = map[Level]float64{
	LevelLow:    5,
	LevelMedium: 0,
	LevelHigh:   -10,
}

// CompletionScore estimates the likelihood of delivery, bounded to [10, 95].
// Unknown levels contribute nothing.
func CompletionScore(f Factors) FactorResult {
	score := f.SuccessRate*70 + complexityPenalty[f.ComplexityLevel] + urgencyPenalty[f.UrgencyLevel]
	return FactorResult{Name: DimCompletion, Score: clamp(score, 10, 95), Reason: "taux de réussite ajusté à la complexité et à l'urgence"}
}

// ScoreDimensions runs all six scorers in aggregation order.
func ScoreDimensions(f Factors) []FactorResult {
	return []FactorResult{
		PriceScore(f),
		QualityScore(f),
		FitScore(f),
		DelayScore(f),
		RiskScore(f),
		CompletionScore(f),
	}
}

// scoresOf collects factor results into a Scores value.
func scoresOf(results []FactorResult) Scores {
	var s Scores
	for _, r := range results {
		switch r.Name {
		case DimPrice:
			s.Price = r.Score
		case DimQuality:
			s.Quality = r.Score
		case DimFit:
			s.Fit = r.Score
		case DimDelay:
			s.Delay = r.Score
		case DimRisk:
			s.Risk = r.Score
		case DimCompletion:
			s.Completion = r.Score
		}
	}
	return s
}
