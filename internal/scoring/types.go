package scoring

// Dimension names one of the six evaluation axes of a bid.
type Dimension string

const (
	DimPrice      Dimension = "price"
	DimQuality    Dimension = "quality"
	DimFit        Dimension = "fit"
	DimDelay      Dimension = "delay"
	DimRisk       Dimension = "risk"
	DimCompletion Dimension = "completion_probability"
)

// Dimensions lists every dimension in aggregation order.
var Dimensions = []Dimension{DimPrice, DimQuality, DimFit, DimDelay, DimRisk, DimCompletion}

// Level is a three-step qualitative scale used for complexity, urgency and market tension.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return true
	}
	return false
}

// Factors are the raw measurements about a bid, its provider and the mission.
type Factors struct {
	PriceRatio      float64 `json:"price_ratio" yaml:"price_ratio"`
	ProviderRating  float64 `json:"provider_rating" yaml:"provider_rating"`
	ExperienceMatch float64 `json:"experience_match" yaml:"experience_match"`
	SkillsMatch     float64 `json:"skills_match" yaml:"skills_match"`
	ResponseTime    float64 `json:"response_time" yaml:"response_time"`
	SuccessRate     float64 `json:"success_rate" yaml:"success_rate"`
	ComplexityLevel Level   `json:"complexity_level" yaml:"complexity_level"`
	UrgencyLevel    Level   `json:"urgency_level" yaml:"urgency_level"`
}

// MarketContext is opaque market state supplied by the caller.
type MarketContext struct {
	Tension          Level  `json:"tension,omitempty" yaml:"tension"`
	PriceVolatility  string `json:"price_volatility,omitempty" yaml:"price_volatility"`
	DemandTrend      string `json:"demand_trend,omitempty" yaml:"demand_trend"`
	CompetitionLevel Level  `json:"competition_level,omitempty" yaml:"competition_level"`
}

// StandardizationData describes how well-specified the mission brief was.
type StandardizationData struct {
	BriefQualityScore float64 `json:"brief_quality_score" yaml:"brief_quality_score"`
	RichnessScore     float64 `json:"richness_score" yaml:"richness_score"`
	MissingInfoCount  int     `json:"missing_info_count" yaml:"missing_info_count"`
}

// Input bundles everything needed to score a single bid.
// Nil optional parts skip their adjustment stage entirely.
type Input struct {
	Factors         Factors              `json:"factors" yaml:"factors"`
	Weights         *PartialWeights      `json:"weights,omitempty" yaml:"weights"`
	Market          *MarketContext       `json:"market,omitempty" yaml:"market"`
	Standardization *StandardizationData `json:"standardization,omitempty" yaml:"standardization"`
}

// Scores holds one value per dimension as it flows through the adjustment stages.
type Scores struct {
	Price      float64
	Quality    float64
	Fit        float64
	Delay      float64
	Risk       float64
	Completion float64
}

// Get returns the score for d.
func (s Scores) Get(d Dimension) float64 {
	switch d {
	case DimPrice:
		return s.Price
	case DimQuality:
		return s.Quality
	case DimFit:
		return s.Fit
	case DimDelay:
		return s.Delay
	case DimRisk:
		return s.Risk
	case DimCompletion:
		return s.Completion
	}
	return 0
}

func (s Scores) asList() []float64 {
	return []float64{s.Price, s.Quality, s.Fit, s.Delay, s.Risk, s.Completion}
}

// clamped bounds every dimension to [0, 100].
func (s Scores) clamped() Scores {
	return Scores{
		Price:      clamp(s.Price, 0, 100),
		Quality:    clamp(s.Quality, 0, 100),
		Fit:        clamp(s.Fit, 0, 100),
		Delay:      clamp(s.Delay, 0, 100),
		Risk:       clamp(s.Risk, 0, 100),
		Completion: clamp(s.Completion, 0, 100),
	}
}

// Anomaly is an advisory flag for a suspicious input or score pattern.
type Anomaly string

const (
	AnomalyPriceDumping       Anomaly = "PRIX_SUSPECT_DUMPING"
	AnomalyArtificialProfile  Anomaly = "PROFIL_SUSPECT_ARTIFICIEL"
	AnomalyExperiencePriceGap Anomaly = "INCOHERENCE_EXPERIENCE_PRIX"
	AnomalyIncoherentScores   Anomaly = "SCORES_INCOHERENTS"
)

// FactorResult captures one dimension's contribution to the total score.
type FactorResult struct {
	Name     Dimension `json:"name"`
	Score    float64   `json:"score"`
	Weight   float64   `json:"weight"`
	Weighted float64   `json:"weighted"`
	Reason   string    `json:"reason"`
}

// MarketInsights echoes the market context the result was computed against.
type MarketInsights struct {
	Tension          Level  `json:"tension,omitempty"`
	PriceVolatility  string `json:"price_volatility,omitempty"`
	DemandTrend      string `json:"demand_trend,omitempty"`
	CompetitionLevel Level  `json:"competition_level,omitempty"`
}

// ScoringResult is the complete output for one bid. Each call returns a fresh value.
type ScoringResult struct {
	TotalScore      int               `json:"total_score"`
	Band            Band              `json:"band"`
	Breakdown       map[Dimension]int `json:"breakdown"`
	Factors         []FactorResult    `json:"factors"`
	Weights         WeightSet         `json:"weights"`
	Explanations    []string          `json:"explanations"`
	Confidence      int               `json:"confidence"`
	Recommendations []string          `json:"recommendations"`
	Anomalies       []Anomaly         `json:"anomalies"`
	AppliedRules    []string          `json:"applied_rules"`
	MarketInsights  *MarketInsights   `json:"market_insights,omitempty"`
	Mode            Mode              `json:"mode"`
}

// clamp bounds v to [min, max]; NaN collapses to min.
func clamp(v, min, max float64) float64 {
	if v != v || v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
