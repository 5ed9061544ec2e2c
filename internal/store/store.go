package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Bidscore/internal/scoring"
)

type MissionStatus string

const (
	MissionOpen      MissionStatus = "open"
	MissionAwarded   MissionStatus = "awarded"
	MissionClosed    MissionStatus = "closed"
	MissionCancelled MissionStatus = "cancelled"
)

type Mission struct {
	ID            uuid.UUID     `json:"mission_id"`
	Title         string        `json:"title"`
	ClientID      string        `json:"client_id"`
	ExpectedPrice float64       `json:"expected_price"`
	Complexity    scoring.Level `json:"complexity"`
	Urgency       scoring.Level `json:"urgency"`
	Status        MissionStatus `json:"status"`

	// Brief standardization, nil until the brief has been analysed
	BriefQualityScore *float64 `json:"brief_quality_score,omitempty"`
	RichnessScore     *float64 `json:"richness_score,omitempty"`
	MissingInfoCount  *int     `json:"missing_info_count,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Bid struct {
	ID                uuid.UUID `json:"bid_id"`
	MissionID         uuid.UUID `json:"mission_id"`
	ProviderID        string    `json:"provider_id"`
	Price             float64   `json:"price"`
	ProviderRating    float64   `json:"provider_rating"`
	ExperienceMatch   float64   `json:"experience_match"`
	SkillsMatch       float64   `json:"skills_match"`
	ResponseTimeHours float64   `json:"response_time_hours"`
	SuccessRate       float64   `json:"success_rate"`
	CreatedAt         time.Time `json:"created_at"`
}

// BidScore is the persisted scoring outcome for one bid.
type BidScore struct {
	BidID       uuid.UUID             `json:"bid_id"`
	MissionID   uuid.UUID             `json:"mission_id"`
	TotalScore  int                   `json:"total_score"`
	Confidence  int                   `json:"confidence"`
	Band        scoring.Band          `json:"band"`
	Anomalies   []scoring.Anomaly     `json:"anomalies"`
	Position    *int                  `json:"position,omitempty"`
	Shortlisted bool                  `json:"shortlisted"`
	OnFrontier  bool                  `json:"on_frontier"`
	Result      scoring.ScoringResult `json:"result"`
	ScoredAt    time.Time             `json:"scored_at"`
}

// BidRejection records a bid whose stored data failed validation. The
// background scorer skips it until its mission is updated again.
type BidRejection struct {
	BidID      uuid.UUID                `json:"bid_id"`
	MissionID  uuid.UUID                `json:"mission_id"`
	Fields     scoring.ValidationErrors `json:"fields"`
	RejectedAt time.Time                `json:"rejected_at"`
}

type ScoreStats struct {
	TotalScored   int     `json:"total_scored"`
	Shortlisted   int     `json:"shortlisted"`
	WithAnomalies int     `json:"with_anomalies"`
	AvgScore      float64 `json:"avg_score"`
}

// Store is the persistence boundary. Lookups return nil, nil when the row
// does not exist.
type Store interface {
	GetMission(ctx context.Context, id uuid.UUID) (*Mission, error)
	GetBid(ctx context.Context, id uuid.UUID) (*Bid, error)
	ListBidsForMission(ctx context.Context, missionID uuid.UUID) ([]*Bid, error)
	// ListUnscoredBids skips bids rejected since their mission's last update.
	ListUnscoredBids(ctx context.Context, limit int) ([]*Bid, error)

	SaveBidScore(ctx context.Context, s *BidScore) error
	GetBidScore(ctx context.Context, bidID uuid.UUID) (*BidScore, error)
	ListScoresForMission(ctx context.Context, missionID uuid.UUID) ([]*BidScore, error)
	SaveBidRejection(ctx context.Context, r *BidRejection) error

	GetStats(ctx context.Context) (*ScoreStats, error)

	Close() error
}
