package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Bidscore/internal/ranker"
	"github.com/MikeSquared-Agency/Bidscore/internal/store"
)

type BidsHandler struct {
	store  store.Store
	ranker *ranker.Ranker
}

func NewBidsHandler(s store.Store, rk *ranker.Ranker) *BidsHandler {
	return &BidsHandler{store: s, ranker: rk}
}

// Score rescores a single stored bid.
// POST /api/v1/bids/{id}/score
func (h *BidsHandler) Score(w http.ResponseWriter, r *http.Request) {
	if h.ranker == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence not configured")
		return
	}
	id, ok := parseID(w, r, "bid_id")
	if !ok {
		return
	}
	market, err := decodeMarket(r)
	if err != nil {
		writeMarketError(w, err)
		return
	}

	bs, err := h.ranker.ScoreBid(r.Context(), id, market)
	if err != nil {
		writeRankerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}
