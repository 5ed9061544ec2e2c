package scoring

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError describes one rejected input field.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// ValidationErrors collects every rejected field of an Input.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = v.Error()
	}
	return "invalid scoring input: " + strings.Join(parts, "; ")
}

type validator struct {
	errs ValidationErrors
}

func (v *validator) add(field, reason string) {
	v.errs = append(v.errs, ValidationError{Field: field, Reason: reason})
}

func (v *validator) finite(field string, x float64) bool {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		v.add(field, "must be a finite number")
		return false
	}
	return true
}

func (v *validator) between(field string, x, min, max float64) {
	if v.finite(field, x) && (x < min || x > max) {
		v.add(field, fmt.Sprintf("must be between %g and %g", min, max))
	}
}

func (v *validator) nonNegative(field string, x float64) {
	if v.finite(field, x) && x < 0 {
		v.add(field, "must be non-negative")
	}
}

func (v *validator) level(field string, l Level, optional bool) {
	if optional && l == "" {
		return
	}
	if !l.Valid() {
		v.add(field, "must be one of low, medium, high")
	}
}

func (v *validator) market(m *MarketContext) {
	if m == nil {
		return
	}
	v.level("market.tension", m.Tension, true)
	v.level("market.competition_level", m.CompetitionLevel, true)
}

// ValidateMarket checks a market context supplied on its own.
func ValidateMarket(m *MarketContext) error {
	v := &validator{}
	v.market(m)
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

// Validate checks an Input before it reaches the scorers. It returns
// ValidationErrors listing every problem, or nil.
func Validate(in Input) error {
	v := &validator{}
	f := in.Factors

	if v.finite("factors.price_ratio", f.PriceRatio) && f.PriceRatio <= 0 {
		v.add("factors.price_ratio", "must be greater than 0")
	}
	v.between("factors.provider_rating", f.ProviderRating, 0, 5)
	v.nonNegative("factors.experience_match", f.ExperienceMatch)
	v.between("factors.skills_match", f.SkillsMatch, 0, 100)
	v.nonNegative("factors.response_time", f.ResponseTime)
	v.between("factors.success_rate", f.SuccessRate, 0, 1)
	v.level("factors.complexity_level", f.ComplexityLevel, false)
	v.level("factors.urgency_level", f.UrgencyLevel, false)

	if w := in.Weights; w != nil {
		for _, e := range []struct {
			field string
			val   *float64
		}{
			{"weights.price", w.Price},
			{"weights.quality", w.Quality},
			{"weights.fit", w.Fit},
			{"weights.delay", w.Delay},
			{"weights.risk", w.Risk},
			{"weights.completion_probability", w.Completion},
		} {
			if e.val != nil {
				v.nonNegative(e.field, *e.val)
			}
		}
	}

	v.market(in.Market)

	if sd := in.Standardization; sd != nil {
		v.between("standardization.brief_quality_score", sd.BriefQualityScore, 0, 100)
		v.between("standardization.richness_score", sd.RichnessScore, 0, 100)
		if sd.MissingInfoCount < 0 {
			v.add("standardization.missing_info_count", "must be non-negative")
		}
	}

	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}
