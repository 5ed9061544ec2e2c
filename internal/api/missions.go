package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Bidscore/internal/ranker"
	"github.com/MikeSquared-Agency/Bidscore/internal/scoring"
	"github.com/MikeSquared-Agency/Bidscore/internal/store"
)

// marketRequest is the optional body of store-backed scoring calls.
type marketRequest struct {
	Market *scoring.MarketContext `json:"market,omitempty"`
}

// decodeMarket accepts an empty body as "no market context".
func decodeMarket(r *http.Request) (*scoring.MarketContext, error) {
	var req marketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	if err := scoring.ValidateMarket(req.Market); err != nil {
		return nil, err
	}
	return req.Market, nil
}

func parseID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func writeRankerError(w http.ResponseWriter, err error) {
	var ve scoring.ValidationErrors
	switch {
	case errors.Is(err, ranker.ErrMissionNotFound), errors.Is(err, ranker.ErrBidNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &ve):
		writeValidation(w, ve)
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeMarketError(w http.ResponseWriter, err error) {
	var ve scoring.ValidationErrors
	if errors.As(err, &ve) {
		writeValidation(w, ve)
		return
	}
	writeError(w, http.StatusBadRequest, "invalid request body")
}

type MissionsHandler struct {
	store  store.Store
	ranker *ranker.Ranker
}

func NewMissionsHandler(s store.Store, rk *ranker.Ranker) *MissionsHandler {
	return &MissionsHandler{store: s, ranker: rk}
}

type savedRankingResponse struct {
	MissionID string            `json:"mission_id"`
	Scores    []*store.BidScore `json:"scores"`
}

// Ranking returns the persisted scores of a mission, ranked bids first in
// position order.
// GET /api/v1/missions/{id}/ranking
func (h *MissionsHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence not configured")
		return
	}
	id, ok := parseID(w, r, "mission_id")
	if !ok {
		return
	}

	mission, err := h.store.GetMission(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if mission == nil {
		writeError(w, http.StatusNotFound, ranker.ErrMissionNotFound.Error())
		return
	}
	scores, err := h.store.ListScoresForMission(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if scores == nil {
		scores = []*store.BidScore{}
	}
	writeJSON(w, http.StatusOK, savedRankingResponse{MissionID: id.String(), Scores: scores})
}

// Rank scores and orders every bid of a stored mission.
// POST /api/v1/missions/{id}/rank
func (h *MissionsHandler) Rank(w http.ResponseWriter, r *http.Request) {
	if h.ranker == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence not configured")
		return
	}
	id, ok := parseID(w, r, "mission_id")
	if !ok {
		return
	}
	market, err := decodeMarket(r)
	if err != nil {
		writeMarketError(w, err)
		return
	}

	ranking, err := h.ranker.RankMission(r.Context(), id, market)
	if err != nil {
		writeRankerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}
