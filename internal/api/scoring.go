package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/MikeSquared-Agency/Bidscore/internal/metrics"
	"github.com/MikeSquared-Agency/Bidscore/internal/scoring"
)

// maxRankCandidates bounds the stateless ranking payload.
const maxRankCandidates = 500

type ScoringHandler struct {
	engine  *scoring.Engine
	metrics *metrics.Metrics
}

func NewScoringHandler(engine *scoring.Engine, m *metrics.Metrics) *ScoringHandler {
	return &ScoringHandler{engine: engine, metrics: m}
}

// engineSelection lets a request override the configured preset or mode.
type engineSelection struct {
	Preset string `json:"preset,omitempty"`
	Mode   string `json:"mode,omitempty"`
}

type evaluateRequest struct {
	scoring.Input
	engineSelection
}

type rankRequest struct {
	Candidates []scoring.Candidate `json:"candidates"`
	engineSelection
}

type candidateRejection struct {
	ID     string                   `json:"id"`
	Error  string                   `json:"error"`
	Fields scoring.ValidationErrors `json:"fields,omitempty"`
}

type rankResponse struct {
	Ranking []scoring.Ranked `json:"ranking"`
}

func (h *ScoringHandler) engineFor(sel engineSelection) (*scoring.Engine, error) {
	if sel.Preset == "" && sel.Mode == "" {
		return h.engine, nil
	}
	weights := h.engine.Weights()
	if sel.Preset != "" {
		w, err := scoring.Preset(sel.Preset)
		if err != nil {
			return nil, err
		}
		weights = w
	}
	mode := h.engine.Mode()
	if sel.Mode != "" {
		m, err := scoring.ParseMode(sel.Mode)
		if err != nil {
			return nil, err
		}
		mode = m
	}
	return scoring.NewEngine(scoring.Options{Weights: &weights, Mode: mode}), nil
}

// Evaluate scores one bid without touching persistence.
// POST /api/v1/scoring/evaluate
func (h *ScoringHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	engine, err := h.engineFor(req.engineSelection)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := engine.Evaluate(req.Input)
	if err != nil {
		var ve scoring.ValidationErrors
		if errors.As(err, &ve) {
			h.metrics.ObserveValidation(ve)
			writeValidation(w, ve)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.metrics.ObserveResult(result)
	writeJSON(w, http.StatusOK, result)
}

// Rank scores and orders competing bids supplied inline.
// POST /api/v1/scoring/rank
func (h *ScoringHandler) Rank(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Candidates) == 0 {
		writeError(w, http.StatusBadRequest, "candidates required")
		return
	}
	if len(req.Candidates) > maxRankCandidates {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d candidates per request", maxRankCandidates))
		return
	}
	seen := make(map[string]bool, len(req.Candidates))
	for _, c := range req.Candidates {
		if c.ID == "" {
			writeError(w, http.StatusBadRequest, "every candidate needs an id")
			return
		}
		if seen[c.ID] {
			writeError(w, http.StatusBadRequest, "duplicate candidate id "+c.ID)
			return
		}
		seen[c.ID] = true
	}

	engine, err := h.engineFor(req.engineSelection)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ranked, err := engine.Rank(req.Candidates)
	if err != nil {
		var re scoring.RankErrors
		if !errors.As(err, &re) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		rejections := make([]candidateRejection, len(re))
		for i, ce := range re {
			fields := ce.Fields()
			h.metrics.ObserveValidation(fields)
			rejections[i] = candidateRejection{ID: ce.ID, Error: ce.Err.Error(), Fields: fields}
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":      "invalid candidates",
			"candidates": rejections,
		})
		return
	}

	for _, rk := range ranked {
		h.metrics.ObserveResult(rk.Result)
	}
	writeJSON(w, http.StatusOK, rankResponse{Ranking: ranked})
}

type bandInfo struct {
	Band     scoring.Band `json:"band"`
	MinScore int          `json:"min_score"`
}

type competitionInfo struct {
	Level      scoring.Level `json:"level"`
	MaxBids    int           `json:"max_bids"`
	Multiplier float64       `json:"multiplier"`
}

type presetsResponse struct {
	Active      scoring.WeightSet            `json:"active"`
	Mode        scoring.Mode                 `json:"mode"`
	Presets     map[string]scoring.WeightSet `json:"presets"`
	Bands       []bandInfo                   `json:"bands"`
	Competition []competitionInfo            `json:"competition"`
}

// Presets describes the weight presets, band thresholds and competition buckets.
// GET /api/v1/scoring/presets
func (h *ScoringHandler) Presets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, presetsResponse{
		Active:  h.engine.Weights(),
		Mode:    h.engine.Mode(),
		Presets: scoring.Presets(),
		Bands: []bandInfo{
			{scoring.BandExcellent, scoring.ThresholdExcellent},
			{scoring.BandGood, scoring.ThresholdGood},
			{scoring.BandAverage, scoring.ThresholdAverage},
			{scoring.BandPoor, scoring.ThresholdPoor},
			{scoring.BandCritical, 0},
		},
		Competition: []competitionInfo{
			{scoring.LevelLow, scoring.CompetitionLowMaxBids, scoring.CompetitionLowMultiplier},
			{scoring.LevelMedium, scoring.CompetitionMediumMaxBids, scoring.CompetitionMediumMultiplier},
			{scoring.LevelHigh, scoring.CompetitionHighMaxBids, scoring.CompetitionHighMultiplier},
		},
	})
}
