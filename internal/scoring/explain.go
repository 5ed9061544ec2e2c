package scoring

// MaxRecommendations caps the number of action items on a result.
const MaxRecommendations = 4

// Client-facing sentences. Result text is French, like the anomaly tags.
const (
	ExplainPriceHigh      = "Prix très compétitif par rapport au marché"
	ExplainPriceLow       = "Prix potentiellement problématique (trop bas ou trop élevé)"
	ExplainQualityHigh    = "Profil prestataire de haute qualité"
	ExplainQualityLow     = "Expérience limitée du prestataire"
	ExplainFitHigh        = "Excellente correspondance des compétences"
	ExplainFitLow         = "Correspondance partielle des compétences requises"
	ExplainCompletionHigh = "Forte probabilité de succès du projet"
	ExplainCompletionLow  = "Risques identifiés pour l'aboutissement"

	RecommendCheckFeasibility = "Vérifier la faisabilité de la mission à ce prix"
	RecommendNegotiatePrice   = "Négocier le prix en mettant en avant la qualité attendue"
	RecommendJustifyPrice     = "Vérifier la justification du prix proposé"
	RecommendCheckExperience  = "Évaluer l'expérience du prestataire pour ce type de projet"
	RecommendCheckSkills      = "S'assurer que les compétences correspondent aux besoins"
	RecommendMilestones       = "Prévoir des jalons et un suivi renforcé"
	RecommendDecideQuickly    = "Marché tendu : décider rapidement pour sécuriser ce prestataire"
	RecommendConfirmDelay     = "Confirmer la disponibilité et le délai compte tenu de l'urgence"
)

type explanationRule struct {
	dim       Dimension
	high, low float64
	highText  string
	lowText   string
}

var explanationRules = []explanationRule{
	{DimPrice, 85, 40, ExplainPriceHigh, ExplainPriceLow},
	{DimQuality, 80, 50, ExplainQualityHigh, ExplainQualityLow},
	{DimFit, 80, 50, ExplainFitHigh, ExplainFitLow},
	{DimCompletion, 80, 50, ExplainCompletionHigh, ExplainCompletionLow},
}

// Explain returns one sentence per dimension whose score crosses its high or
// low threshold. Mid-band dimensions produce nothing.
func Explain(s Scores) []string {
	out := []string{}
	for _, r := range explanationRules {
		v := s.Get(r.dim)
		switch {
		case v >= r.high:
			out = append(out, r.highText)
		case v <= r.low:
			out = append(out, r.lowText)
		}
	}
	return out
}

// Recommend builds prioritized action items for the client, truncated to
// MaxRecommendations.
func Recommend(f Factors, s Scores, market *MarketContext) []string {
	out := []string{}
	if s.Price < 60 {
		if f.PriceRatio < 0.4 {
			out = append(out, RecommendCheckFeasibility)
		} else {
			out = append(out, RecommendNegotiatePrice)
		}
	}
	out = append(out, profileRecommendations(s)...)
	if market != nil && market.Tension == LevelHigh {
		out = append(out, RecommendDecideQuickly)
	}
	if f.UrgencyLevel == LevelHigh && s.Delay < 80 {
		out = append(out, RecommendConfirmDelay)
	}
	return capRecommendations(out)
}

// BasicRecommendations is the low-data fallback: the four score triggers
// only, with no factor branching and no market or urgency context.
func BasicRecommendations(s Scores) []string {
	out := []string{}
	if s.Price < 60 {
		out = append(out, RecommendJustifyPrice)
	}
	return capRecommendations(append(out, profileRecommendations(s)...))
}

func profileRecommendations(s Scores) []string {
	var out []string
	if s.Quality < 70 {
		out = append(out, RecommendCheckExperience)
	}
	if s.Fit < 70 {
		out = append(out, RecommendCheckSkills)
	}
	if s.Completion < 60 {
		out = append(out, RecommendMilestones)
	}
	return out
}

func capRecommendations(recs []string) []string {
	if len(recs) > MaxRecommendations {
		return recs[:MaxRecommendations]
	}
	return recs
}
