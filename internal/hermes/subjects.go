package hermes

import "strings"

const (
	// SubjectBidSubmitted matches bids announced by the marketplace.
	SubjectBidSubmitted = "market.bid.*.submitted"
	SubjectScoringStats = "market.scoring.stats"

	StreamName   = "BIDSCORE_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

var StreamSubjects = []string{"market.bid.>", "market.mission.>", "market.scoring.>"}

func SubjectBidScored(bidID string) string         { return "market.bid." + bidID + ".scored" }
func SubjectBidAnomaly(bidID string) string        { return "market.bid." + bidID + ".anomaly" }
func SubjectMissionRanked(missionID string) string { return "market.mission." + missionID + ".ranked" }

// BidIDFromSubject extracts the bid ID from a market.bid.<id>.<event> subject.
func BidIDFromSubject(subject string) (string, bool) {
	parts := strings.Split(subject, ".")
	if len(parts) != 4 || parts[0] != "market" || parts[1] != "bid" || parts[2] == "" {
		return "", false
	}
	return parts[2], true
}
