package ranker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Bidscore/internal/config"
	"github.com/MikeSquared-Agency/Bidscore/internal/hermes"
	"github.com/MikeSquared-Agency/Bidscore/internal/marketfeed"
	"github.com/MikeSquared-Agency/Bidscore/internal/metrics"
	"github.com/MikeSquared-Agency/Bidscore/internal/scoring"
	"github.com/MikeSquared-Agency/Bidscore/internal/store"
)

var (
	ErrMissionNotFound = errors.New("mission not found")
	ErrBidNotFound     = errors.New("bid not found")
)

// RejectedBid is a bid left out of a ranking because its data failed validation.
type RejectedBid struct {
	BidID  string                   `json:"bid_id"`
	Fields scoring.ValidationErrors `json:"fields"`
}

type MissionRanking struct {
	MissionID        uuid.UUID        `json:"mission_id"`
	CompetitionLevel scoring.Level    `json:"competition_level"`
	Ranking          []scoring.Ranked `json:"ranking"`
	Rejected         []RejectedBid    `json:"rejected"`
	RankedAt         time.Time        `json:"ranked_at"`
}

type Ranker struct {
	store   store.Store
	hermes  hermes.Client
	engine  *scoring.Engine
	metrics *metrics.Metrics
	feed    marketfeed.Client
	cfg     *config.Config
	logger  *slog.Logger

	// runCtx bounds work started from subscriptions; Stop cancels it.
	runCtx    context.Context
	cancelRun context.CancelFunc

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(s store.Store, h hermes.Client, engine *scoring.Engine, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) *Ranker {
	runCtx, cancel := context.WithCancel(context.Background())
	return &Ranker{
		store:     s,
		hermes:    h,
		engine:    engine,
		metrics:   m,
		cfg:       cfg,
		logger:    logger,
		runCtx:    runCtx,
		cancelRun: cancel,
		stopCh:    make(chan struct{}),
	}
}

func (r *Ranker) Engine() *scoring.Engine { return r.engine }

// SetMarketFeed enables market context lookups for calls that carry none.
func (r *Ranker) SetMarketFeed(c marketfeed.Client) { r.feed = c }

// resolveMarket prefers the caller's context and falls back to the feed.
// Feed failures are logged and scoring continues without market context.
func (r *Ranker) resolveMarket(ctx context.Context, missionID uuid.UUID, market *scoring.MarketContext) *scoring.MarketContext {
	if market != nil || r.feed == nil {
		return market
	}
	m, err := r.feed.MissionMarket(ctx, missionID)
	if err != nil {
		r.logger.Warn("market feed lookup failed", "mission_id", missionID, "error", err)
		return nil
	}
	return m
}

func (r *Ranker) Start(ctx context.Context) {
	r.wg.Add(1)
	go r.scoreLoop(ctx)
}

// Stop ends the background loop and cancels in-flight subscription work.
func (r *Ranker) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		r.cancelRun()
	})
	r.wg.Wait()
}

func (r *Ranker) scoreLoop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.processUnscored(ctx)
		}
	}
}

func (r *Ranker) processUnscored(ctx context.Context) {
	bids, err := r.store.ListUnscoredBids(ctx, r.cfg.Ranker.BatchSize)
	if err != nil {
		r.logger.Error("failed to list unscored bids", "error", err)
		return
	}
	if len(bids) == 0 {
		return
	}

	r.logger.Info("scoring pending bids", "count", len(bids))
	scored := 0
	for _, b := range bids {
		if _, err := r.ScoreBid(ctx, b.ID, nil); err != nil {
			r.logger.Warn("failed to score bid", "bid_id", b.ID, "mission_id", b.MissionID, "error", err)
			continue
		}
		scored++
	}
	if scored > 0 {
		r.publishStats(ctx)
	}
}

// ScoreBid scores one stored bid against its mission, persists the result and
// announces it. Validation failures are recorded as a rejection and returned
// wrapping scoring.ValidationErrors. Position and frontier membership from the
// last mission ranking are kept; rank the mission again to refresh them.
func (r *Ranker) ScoreBid(ctx context.Context, bidID uuid.UUID, market *scoring.MarketContext) (*store.BidScore, error) {
	bid, err := r.store.GetBid(ctx, bidID)
	if err != nil {
		return nil, fmt.Errorf("load bid: %w", err)
	}
	if bid == nil {
		return nil, ErrBidNotFound
	}
	mission, err := r.store.GetMission(ctx, bid.MissionID)
	if err != nil {
		return nil, fmt.Errorf("load mission: %w", err)
	}
	if mission == nil {
		return nil, ErrMissionNotFound
	}

	market = r.resolveMarket(ctx, mission.ID, market)
	result, err := r.evaluate(buildInput(mission, bid, market))
	if err != nil {
		var ve scoring.ValidationErrors
		if errors.As(err, &ve) {
			r.rejectBid(ctx, bid, ve)
		}
		return nil, fmt.Errorf("bid %s: %w", bidID, err)
	}
	prev, err := r.store.GetBidScore(ctx, bid.ID)
	if err != nil {
		return nil, fmt.Errorf("load previous score: %w", err)
	}

	bs := &store.BidScore{
		BidID:       bid.ID,
		MissionID:   bid.MissionID,
		TotalScore:  result.TotalScore,
		Confidence:  result.Confidence,
		Band:        result.Band,
		Anomalies:   result.Anomalies,
		Shortlisted: scoring.Shortlisted(result),
		Result:      result,
	}
	if prev != nil {
		bs.Position = prev.Position
		bs.OnFrontier = prev.OnFrontier
	}
	if err := r.store.SaveBidScore(ctx, bs); err != nil {
		return nil, fmt.Errorf("save score: %w", err)
	}

	r.publishScored(bid, bs)
	r.logger.Info("bid scored", "bid_id", bid.ID, "mission_id", bid.MissionID,
		"score", result.TotalScore, "band", result.Band, "confidence", result.Confidence, "anomalies", len(result.Anomalies))
	return bs, nil
}

// RankMission scores every bid on a mission and persists their positions.
// Bids with invalid data are reported as rejected and left out of the order.
func (r *Ranker) RankMission(ctx context.Context, missionID uuid.UUID, market *scoring.MarketContext) (*MissionRanking, error) {
	mission, err := r.store.GetMission(ctx, missionID)
	if err != nil {
		return nil, fmt.Errorf("load mission: %w", err)
	}
	if mission == nil {
		return nil, ErrMissionNotFound
	}
	bids, err := r.store.ListBidsForMission(ctx, missionID)
	if err != nil {
		return nil, fmt.Errorf("load bids: %w", err)
	}

	market = r.resolveMarket(ctx, missionID, market)
	mkt := scoring.MarketContext{}
	if market != nil {
		mkt = *market
	}
	if mkt.CompetitionLevel == "" {
		mkt.CompetitionLevel = scoring.CompetitionLevelFor(len(bids))
	}

	byID := make(map[string]*store.Bid, len(bids))
	var ids []string
	var results []scoring.ScoringResult
	rejected := []RejectedBid{}
	for _, b := range bids {
		result, err := r.evaluate(buildInput(mission, b, &mkt))
		if err != nil {
			var ve scoring.ValidationErrors
			if !errors.As(err, &ve) {
				return nil, fmt.Errorf("bid %s: %w", b.ID, err)
			}
			rejected = append(rejected, RejectedBid{BidID: b.ID.String(), Fields: ve})
			r.rejectBid(ctx, b, ve)
			r.logger.Warn("bid rejected from ranking", "bid_id", b.ID, "mission_id", missionID, "error", err)
			continue
		}
		id := b.ID.String()
		byID[id] = b
		ids = append(ids, id)
		results = append(results, result)
	}

	ranked := scoring.RankResults(ids, results)
	for _, rk := range ranked {
		pos := rk.Position
		bs := &store.BidScore{
			BidID:       byID[rk.ID].ID,
			MissionID:   missionID,
			TotalScore:  rk.Result.TotalScore,
			Confidence:  rk.Result.Confidence,
			Band:        rk.Result.Band,
			Anomalies:   rk.Result.Anomalies,
			Position:    &pos,
			Shortlisted: rk.Shortlisted,
			OnFrontier:  rk.OnFrontier,
			Result:      rk.Result,
		}
		if err := r.store.SaveBidScore(ctx, bs); err != nil {
			return nil, fmt.Errorf("save score for bid %s: %w", rk.ID, err)
		}
		r.publishScored(byID[rk.ID], bs)
	}

	ranking := &MissionRanking{
		MissionID:        missionID,
		CompetitionLevel: mkt.CompetitionLevel,
		Ranking:          ranked,
		Rejected:         rejected,
		RankedAt:         time.Now().UTC(),
	}
	r.metrics.MissionRanked()
	r.publishRanked(ranking, len(bids))
	r.logger.Info("mission ranked", "mission_id", missionID, "bids", len(bids),
		"ranked", len(ranked), "rejected", len(rejected), "competition", mkt.CompetitionLevel)
	return ranking, nil
}

func (r *Ranker) evaluate(in scoring.Input) (scoring.ScoringResult, error) {
	result, err := r.engine.Evaluate(in)
	if err != nil {
		var ve scoring.ValidationErrors
		if errors.As(err, &ve) {
			r.metrics.ObserveValidation(ve)
		}
		return scoring.ScoringResult{}, err
	}
	r.metrics.ObserveResult(result)
	return result, nil
}

// rejectBid records invalid stored data so the background loop stops
// picking the bid up until its mission changes.
func (r *Ranker) rejectBid(ctx context.Context, b *store.Bid, ve scoring.ValidationErrors) {
	err := r.store.SaveBidRejection(ctx, &store.BidRejection{BidID: b.ID, MissionID: b.MissionID, Fields: ve})
	if err != nil {
		r.logger.Warn("failed to record bid rejection", "bid_id", b.ID, "error", err)
	}
}

func (r *Ranker) publishScored(b *store.Bid, bs *store.BidScore) {
	if r.hermes == nil {
		return
	}
	bidID := b.ID.String()
	_ = r.hermes.Publish(hermes.SubjectBidScored(bidID), hermes.BidScoredEvent{
		BidID:      bidID,
		MissionID:  b.MissionID.String(),
		TotalScore: bs.TotalScore,
		Band:       bs.Band,
		Confidence: bs.Confidence,
		Breakdown:  bs.Result.Breakdown,
		Mode:       bs.Result.Mode,
		ScoredAt:   bs.ScoredAt,
	})
	if len(bs.Anomalies) > 0 {
		_ = r.hermes.Publish(hermes.SubjectBidAnomaly(bidID), hermes.BidAnomalyEvent{
			BidID:      bidID,
			MissionID:  b.MissionID.String(),
			ProviderID: b.ProviderID,
			Anomalies:  bs.Anomalies,
			TotalScore: bs.TotalScore,
		})
	}
}

func (r *Ranker) publishRanked(mr *MissionRanking, bidCount int) {
	if r.hermes == nil {
		return
	}
	evt := hermes.MissionRankedEvent{
		MissionID:        mr.MissionID.String(),
		BidCount:         bidCount,
		CompetitionLevel: mr.CompetitionLevel,
		Ranking:          make([]hermes.RankedBid, len(mr.Ranking)),
		RankedAt:         mr.RankedAt,
	}
	for i, rk := range mr.Ranking {
		evt.Ranking[i] = hermes.RankedBid{
			BidID:       rk.ID,
			Position:    rk.Position,
			TotalScore:  rk.Result.TotalScore,
			Confidence:  rk.Result.Confidence,
			Shortlisted: rk.Shortlisted,
			OnFrontier:  rk.OnFrontier,
		}
	}
	for _, rj := range mr.Rejected {
		evt.Rejected = append(evt.Rejected, rj.BidID)
	}
	_ = r.hermes.Publish(hermes.SubjectMissionRanked(evt.MissionID), evt)
}

func (r *Ranker) publishStats(ctx context.Context) {
	if r.hermes == nil {
		return
	}
	stats, err := r.store.GetStats(ctx)
	if err != nil {
		r.logger.Warn("failed to load score stats", "error", err)
		return
	}
	_ = r.hermes.Publish(hermes.SubjectScoringStats, hermes.StatsEvent{
		TotalScored:   stats.TotalScored,
		Shortlisted:   stats.Shortlisted,
		WithAnomalies: stats.WithAnomalies,
		AvgScore:      stats.AvgScore,
		Timestamp:     time.Now().UTC(),
	})
}

// SetupSubscriptions scores bids as soon as the marketplace announces them.
func (r *Ranker) SetupSubscriptions() {
	if r.hermes == nil {
		return
	}

	err := r.hermes.Subscribe(hermes.SubjectBidSubmitted, func(subject string, data []byte) {
		var evt hermes.BidSubmittedEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			r.logger.Warn("invalid bid submitted event", "subject", subject, "error", err)
			return
		}
		raw := evt.BidID
		if raw == "" {
			raw, _ = hermes.BidIDFromSubject(subject)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			r.logger.Warn("bid submitted event without valid bid id", "subject", subject, "bid_id", raw)
			return
		}
		if _, err := r.ScoreBid(r.runCtx, id, evt.Market); err != nil {
			r.logger.Warn("failed to score submitted bid", "bid_id", id, "error", err)
		}
	})
	if err != nil {
		r.logger.Error("failed to subscribe", "subject", hermes.SubjectBidSubmitted, "error", err)
	}
}
