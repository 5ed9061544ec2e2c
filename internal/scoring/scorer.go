package scoring

import "math"

// Options configures an Engine. The zero value uses DefaultWeights, advanced
// mode and the default rule tables.
type Options struct {
	Weights      *WeightSet
	Mode         Mode
	Heuristics   []HeuristicRule
	AnomalyRules []AnomalyRule
}

// Engine is the unified scoring engine. It holds read-only configuration
// only, so one Engine may serve any number of concurrent calls.
type Engine struct {
	weights      WeightSet
	mode         Mode
	heuristics   []HeuristicRule
	anomalyRules []AnomalyRule
}

// NewEngine creates an Engine from opts.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		weights:      DefaultWeights(),
		mode:         opts.Mode,
		heuristics:   opts.Heuristics,
		anomalyRules: opts.AnomalyRules,
	}
	if opts.Weights != nil {
		e.weights = *opts.Weights
	}
	if e.mode == "" {
		e.mode = ModeAdvanced
	}
	if e.heuristics == nil {
		e.heuristics = DefaultHeuristicRules()
	}
	if e.anomalyRules == nil {
		e.anomalyRules = DefaultAnomalyRules()
	}
	return e
}

// Weights returns a copy of the engine's base weight vector.
func (e *Engine) Weights() WeightSet { return e.weights }

// Mode returns the engine's confidence/recommendation mode.
func (e *Engine) Mode() Mode { return e.mode }

// Evaluate validates in and scores it. Validation failures are returned as
// ValidationErrors and no result is produced.
func (e *Engine) Evaluate(in Input) (ScoringResult, error) {
	if err := Validate(in); err != nil {
		return ScoringResult{}, err
	}
	return e.Score(in), nil
}

// Score computes the full result for one bid. It never fails: out-of-domain
// factors land on scorer boundaries.
func (e *Engine) Score(in Input) ScoringResult {
	f := in.Factors

	factors := ScoreDimensions(f)
	scores := scoresOf(factors).clamped()
	scores = Standardize(scores, in.Standardization)
	scores, fired := ApplyHeuristics(e.heuristics, f, scores)

	weights := AdaptiveWeights(ResolveWeights(e.weights, in.Weights), f, in.Market)

	anomalies := DetectAnomalies(e.anomalyRules, f, scores)

	result := ScoringResult{
		TotalScore:     Aggregate(scores, weights),
		Breakdown:      make(map[Dimension]int, len(Dimensions)),
		Weights:        weights,
		Explanations:   Explain(scores),
		Anomalies:      anomalies,
		AppliedRules:   fired,
		MarketInsights: marketInsights(in.Market),
		Mode:           e.mode,
	}
	result.Band = BandFromScore(result.TotalScore)

	for i := range factors {
		d := factors[i].Name
		factors[i].Score = scores.Get(d)
		factors[i].Weight = weights.Get(d)
		factors[i].Weighted = factors[i].Score * factors[i].Weight
		result.Breakdown[d] = int(math.Round(factors[i].Score))
	}
	result.Factors = factors

	if e.mode == ModeBasic {
		result.Confidence = BasicConfidence(f, anomalies)
		result.Recommendations = BasicRecommendations(scores)
	} else {
		result.Confidence = Confidence(f, anomalies)
		result.Recommendations = Recommend(f, scores, in.Market)
	}

	return result
}

// Aggregate is the weighted sum of the scores, rounded and bounded to [0, 100].
func Aggregate(s Scores, w WeightSet) int {
	var total float64
	for _, d := range Dimensions {
		total += s.Get(d) * w.Get(d)
	}
	return int(clamp(math.Round(total), 0, 100))
}

func marketInsights(m *MarketContext) *MarketInsights {
	if m == nil {
		return nil
	}
	return &MarketInsights{
		Tension:          m.Tension,
		PriceVolatility:  m.PriceVolatility,
		DemandTrend:      m.DemandTrend,
		CompetitionLevel: m.CompetitionLevel,
	}
}
