package api

import (
	"net/http"
	"time"

	"github.com/MikeSquared-Agency/Bidscore/internal/scoring"
)

type explainResponse struct {
	BidID           string                    `json:"bid_id"`
	MissionID       string                    `json:"mission_id"`
	TotalScore      int                       `json:"total_score"`
	Band            scoring.Band              `json:"band"`
	Confidence      int                       `json:"confidence"`
	Position        *int                      `json:"position,omitempty"`
	Shortlisted     bool                      `json:"shortlisted"`
	OnFrontier      bool                      `json:"on_frontier"`
	Breakdown       map[scoring.Dimension]int `json:"breakdown"`
	Factors         []scoring.FactorResult    `json:"factors"`
	Weights         scoring.WeightSet         `json:"weights"`
	Explanations    []string                  `json:"explanations"`
	Recommendations []string                  `json:"recommendations"`
	Anomalies       []scoring.Anomaly         `json:"anomalies"`
	AppliedRules    []string                  `json:"applied_rules"`
	MarketInsights  *scoring.MarketInsights   `json:"market_insights,omitempty"`
	Mode            scoring.Mode              `json:"mode"`
	ScoredAt        time.Time                 `json:"scored_at"`
}

// Explain returns the persisted scoring breakdown for a bid.
// GET /api/v1/bids/{id}/score
func (h *BidsHandler) Explain(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence not configured")
		return
	}
	id, ok := parseID(w, r, "bid_id")
	if !ok {
		return
	}

	bs, err := h.store.GetBidScore(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if bs == nil {
		writeError(w, http.StatusNotFound, "bid score not found")
		return
	}

	res := bs.Result
	writeJSON(w, http.StatusOK, explainResponse{
		BidID:           bs.BidID.String(),
		MissionID:       bs.MissionID.String(),
		TotalScore:      bs.TotalScore,
		Band:            bs.Band,
		Confidence:      bs.Confidence,
		Position:        bs.Position,
		Shortlisted:     bs.Shortlisted,
		OnFrontier:      bs.OnFrontier,
		Breakdown:       res.Breakdown,
		Factors:         res.Factors,
		Weights:         res.Weights,
		Explanations:    res.Explanations,
		Recommendations: res.Recommendations,
		Anomalies:       bs.Anomalies,
		AppliedRules:    res.AppliedRules,
		MarketInsights:  res.MarketInsights,
		Mode:            res.Mode,
		ScoredAt:        bs.ScoredAt,
	})
}
