package hermes

import (
	"time"

	"github.com/MikeSquared-Agency/Bidscore/internal/scoring"
)

// BidSubmittedEvent is published by the marketplace when a provider places a bid.
// The bid ID is also carried in the subject.
type BidSubmittedEvent struct {
	BidID     string                 `json:"bid_id"`
	MissionID string                 `json:"mission_id"`
	Market    *scoring.MarketContext `json:"market,omitempty"`
}

type BidScoredEvent struct {
	BidID      string                    `json:"bid_id"`
	MissionID  string                    `json:"mission_id"`
	TotalScore int                       `json:"total_score"`
	Band       scoring.Band              `json:"band"`
	Confidence int                       `json:"confidence"`
	Breakdown  map[scoring.Dimension]int `json:"breakdown"`
	Mode       scoring.Mode              `json:"mode"`
	ScoredAt   time.Time                 `json:"scored_at"`
}

type BidAnomalyEvent struct {
	BidID      string            `json:"bid_id"`
	MissionID  string            `json:"mission_id"`
	ProviderID string            `json:"provider_id"`
	Anomalies  []scoring.Anomaly `json:"anomalies"`
	TotalScore int               `json:"total_score"`
}

type RankedBid struct {
	BidID       string `json:"bid_id"`
	Position    int    `json:"position"`
	TotalScore  int    `json:"total_score"`
	Confidence  int    `json:"confidence"`
	Shortlisted bool   `json:"shortlisted"`
	OnFrontier  bool   `json:"on_frontier"`
}

type MissionRankedEvent struct {
	MissionID        string        `json:"mission_id"`
	BidCount         int           `json:"bid_count"`
	CompetitionLevel scoring.Level `json:"competition_level"`
	Ranking          []RankedBid   `json:"ranking"`
	Rejected         []string      `json:"rejected,omitempty"`
	RankedAt         time.Time     `json:"ranked_at"`
}

type StatsEvent struct {
	TotalScored   int       `json:"total_scored"`
	Shortlisted   int       `json:"shortlisted"`
	WithAnomalies int       `json:"with_anomalies"`
	AvgScore      float64   `json:"avg_score"`
	Timestamp     time.Time `json:"timestamp"`
}
