package scoring

import (
	"fmt"
	"math"
)

// WeightSet defines the relative importance of each dimension.
// After normalization all weights sum to 1.0.
type WeightSet struct {
	Price      float64 `json:"price" yaml:"price"`
	Quality    float64 `json:"quality" yaml:"quality"`
	Fit        float64 `json:"fit" yaml:"fit"`
	Delay      float64 `json:"delay" yaml:"delay"`
	Risk       float64 `json:"risk" yaml:"risk"`
	Completion float64 `json:"completion_probability" yaml:"completion_probability"`
}

// PartialWeights overrides individual entries of a base WeightSet.
type PartialWeights struct {
	Price      *float64 `json:"price,omitempty" yaml:"price"`
	Quality    *float64 `json:"quality,omitempty" yaml:"quality"`
	Fit        *float64 `json:"fit,omitempty" yaml:"fit"`
	Delay      *float64 `json:"delay,omitempty" yaml:"delay"`
	Risk       *float64 `json:"risk,omitempty" yaml:"risk"`
	Completion *float64 `json:"completion_probability,omitempty" yaml:"completion_probability"`
}

// Preset names accepted by Preset.
const (
	PresetDefault        = "default"
	PresetClientFocused  = "client_focused"
	PresetQualityFocused = "quality_focused"
)

// DefaultWeights returns the balanced weight distribution.
func DefaultWeights() WeightSet {
	return WeightSet{
		Price:      0.25,
		Quality:    0.20,
		Fit:        0.20,
		Delay:      0.15,
		Risk:       0.10,
		Completion: 0.10,
	}
}

// ClientFocusedWeights favours price for budget-driven clients.
func ClientFocusedWeights() WeightSet {
	return WeightSet{
		Price:      0.35,
		Quality:    0.25,
		Fit:        0.15,
		Delay:      0.15,
		Risk:       0.05,
		Completion: 0.05,
	}
}

// QualityFocusedWeights favours provider quality and skills fit over price.
func QualityFocusedWeights() WeightSet {
	return WeightSet{
		Price:      0.15,
		Quality:    0.30,
		Fit:        0.25,
		Delay:      0.10,
		Risk:       0.10,
		Completion: 0.10,
	}
}

// Preset returns a copy of the named preset.
func Preset(name string) (WeightSet, error) {
	switch name {
	case "", PresetDefault:
		return DefaultWeights(), nil
	case PresetClientFocused:
		return ClientFocusedWeights(), nil
	case PresetQualityFocused:
		return QualityFocusedWeights(), nil
	}
	return WeightSet{}, fmt.Errorf("unknown weight preset %q", name)
}

// Presets returns every preset keyed by name.
func Presets() map[string]WeightSet {
	return map[string]WeightSet{
		PresetDefault:        DefaultWeights(),
		PresetClientFocused:  ClientFocusedWeights(),
		PresetQualityFocused: QualityFocusedWeights(),
	}
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() float64 {
	return w.Price + w.Quality + w.Fit + w.Delay + w.Risk + w.Completion
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w WeightSet) Validate() error {
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	for _, v := range w.asList() {
		if v < 0 {
			return fmt.Errorf("negative weight: %f", v)
		}
	}
	return nil
}

// Get returns the weight for d.
func (w WeightSet) Get(d Dimension) float64 {
	switch d {
	case DimPrice:
		return w.Price
	case DimQuality:
		return w.Quality
	case DimFit:
		return w.Fit
	case DimDelay:
		return w.Delay
	case DimRisk:
		return w.Risk
	case DimCompletion:
		return w.Completion
	}
	return 0
}

// Normalize divides every weight by the running total so the set sums to 1.
// A set with a non-positive total falls back to DefaultWeights.
func (w WeightSet) Normalize() WeightSet {
	total := w.Sum()
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return DefaultWeights()
	}
	return WeightSet{
		Price:      w.Price / total,
		Quality:    w.Quality / total,
		Fit:        w.Fit / total,
		Delay:      w.Delay / total,
		Risk:       w.Risk / total,
		Completion: w.Completion / total,
	}
}

func (w WeightSet) asList() []float64 {
	return []float64{w.Price, w.Quality, w.Fit, w.Delay, w.Risk, w.Completion}
}

// ResolveWeights applies partial overrides onto base and normalizes the result.
func ResolveWeights(base WeightSet, p *PartialWeights) WeightSet {
	if p != nil {
		override(&base.Price, p.Price)
		override(&base.Quality, p.Quality)
		override(&base.Fit, p.Fit)
		override(&base.Delay, p.Delay)
		override(&base.Risk, p.Risk)
		override(&base.Completion, p.Completion)
	}
	return base.Normalize()
}

func override(dst *float64, v *float64) {
	if v != nil && *v >= 0 {
		*dst = *v
	}
}

// AdaptiveWeights shifts importance toward the dimensions that matter in
// context. Each triggered stage renormalizes against the previous stage's output.
func AdaptiveWeights(base WeightSet, f Factors, market *MarketContext) WeightSet {
	w := base.Normalize()

	if f.UrgencyLevel == LevelHigh {
		w.Delay *= 1.5
		w.Price *= 0.8
		w = w.Normalize()
	}

	if f.ComplexityLevel == LevelHigh {
		w.Quality *= 1.3
		w.Fit *= 1.2
		w.Risk *= 1.4
		w = w.Normalize()
	}

	if market != nil && market.Tension == LevelHigh {
		w.Price *= 1.2
		w.Delay *= 1.3
		w = w.Normalize()
	}

	return w
}
