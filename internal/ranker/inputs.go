package ranker

import (
	"github.com/MikeSquared-Agency/Bidscore/internal/scoring"
	"github.com/MikeSquared-Agency/Bidscore/internal/store"
)

// Neutral brief values used when a mission was only partially analysed.
const (
	neutralBriefQuality = 50
	neutralRichness     = 50
)

// FactorsFromBid maps a stored bid and its mission onto scoring factors.
// A mission without a positive expected price yields a zero price ratio,
// which validation rejects.
func FactorsFromBid(m *store.Mission, b *store.Bid) scoring.Factors {
	var ratio float64
	if m.ExpectedPrice > 0 {
		ratio = b.Price / m.ExpectedPrice
	}
	return scoring.Factors{
		PriceRatio:      ratio,
		ProviderRating:  b.ProviderRating,
		ExperienceMatch: b.ExperienceMatch,
		SkillsMatch:     b.SkillsMatch,
		ResponseTime:    b.ResponseTimeHours,
		SuccessRate:     b.SuccessRate,
		ComplexityLevel: m.Complexity,
		UrgencyLevel:    m.Urgency,
	}
}

// StandardizationFromMission returns nil when the brief was never analysed.
func StandardizationFromMission(m *store.Mission) *scoring.StandardizationData {
	if m.BriefQualityScore == nil && m.RichnessScore == nil && m.MissingInfoCount == nil {
		return nil
	}
	sd := &scoring.StandardizationData{
		BriefQualityScore: neutralBriefQuality,
		RichnessScore:     neutralRichness,
	}
	if m.BriefQualityScore != nil {
		sd.BriefQualityScore = *m.BriefQualityScore
	}
	if m.RichnessScore != nil {
		sd.RichnessScore = *m.RichnessScore
	}
	if m.MissingInfoCount != nil {
		sd.MissingInfoCount = *m.MissingInfoCount
	}
	return sd
}

func buildInput(m *store.Mission, b *store.Bid, market *scoring.MarketContext) scoring.Input {
	return scoring.Input{
		Factors:         FactorsFromBid(m, b),
		Market:          market,
		Standardization: StandardizationFromMission(m),
	}
}
