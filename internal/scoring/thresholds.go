package scoring

// Score band thresholds, usable by callers for display and bucketing.
const (
	ThresholdExcellent = 85
	ThresholdGood      = 70
	ThresholdAverage   = 55
	ThresholdPoor      = 40
)

// Band is a display bucket for a total score.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandAverage   Band = "average"
	BandPoor      Band = "poor"
	BandCritical  Band = "critical"
)

// BandFromScore maps a total score to its band.
func BandFromScore(score int) Band {
	switch {
	case score >= ThresholdExcellent:
		return BandExcellent
	case score >= ThresholdGood:
		return BandGood
	case score >= ThresholdAverage:
		return BandAverage
	case score >= ThresholdPoor:
		return BandPoor
	default:
		return BandCritical
	}
}

// Competition buckets by number of bids on a mission. A mission above
// CompetitionHighMaxBids is still high competition.
const (
	CompetitionLowMaxBids    = 3
	CompetitionMediumMaxBids = 8
	CompetitionHighMaxBids   = 15
)

// Price multipliers associated with each competition level. They are
// published for callers that adjust budget guidance; the engine never
// applies them to a score.
const (
	CompetitionLowMultiplier    = 1.1
	CompetitionMediumMultiplier = 0.95
	CompetitionHighMultiplier   = 0.85
)

// CompetitionLevelFor buckets a bid count into a competition level.
func CompetitionLevelFor(bidCount int) Level {
	switch {
	case bidCount <= CompetitionLowMaxBids:
		return LevelLow
	case bidCount <= CompetitionMediumMaxBids:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// CompetitionMultiplier returns the multiplier for l, or 1 for an unknown level.
func CompetitionMultiplier(l Level) float64 {
	switch l {
	case LevelLow:
		return CompetitionLowMultiplier
	case LevelMedium:
		return CompetitionMediumMultiplier
	case LevelHigh:
		return CompetitionHighMultiplier
	}
	return 1
}
