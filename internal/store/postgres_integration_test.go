//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Bidscore/internal/scoring"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	t.Cleanup(func() {
		_, _ = s.pool.Exec(ctx, "TRUNCATE bid_rejections, bid_scores, bids, missions CASCADE")
		s.Close()
	})

	return s
}

func insertMission(t *testing.T, s *PostgresStore, status MissionStatus) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := s.pool.QueryRow(context.Background(), `
		INSERT INTO missions (title, client_id, expected_price, complexity, urgency, status, brief_quality_score)
		VALUES ('Checkout redesign', 'client-1', 1000, 'medium', 'low', $1, 70)
		RETURNING mission_id`, string(status)).Scan(&id)
	if err != nil {
		t.Fatalf("insert mission: %v", err)
	}
	return id
}

func insertBid(t *testing.T, s *PostgresStore, missionID uuid.UUID, provider string, price float64) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := s.pool.QueryRow(context.Background(), `
		INSERT INTO bids (mission_id, provider_id, price, provider_rating, experience_match,
			skills_match, response_time_hours, success_rate)
		VALUES ($1, $2, $3, 4.5, 25, 85, 2, 0.9)
		RETURNING bid_id`, missionID, provider, price).Scan(&id)
	if err != nil {
		t.Fatalf("insert bid: %v", err)
	}
	return id
}

func TestGetMissionAndBid(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	missionID := insertMission(t, s, MissionOpen)
	bidID := insertBid(t, s, missionID, "provider-a", 900)

	m, err := s.GetMission(ctx, missionID)
	if err != nil {
		t.Fatalf("GetMission failed: %v", err)
	}
	if m == nil {
		t.Fatal("expected mission, got nil")
	}
	if m.ExpectedPrice != 1000 || m.Complexity != scoring.LevelMedium {
		t.Errorf("unexpected mission %+v", m)
	}
	if m.BriefQualityScore == nil || *m.BriefQualityScore != 70 {
		t.Errorf("expected brief quality 70, got %v", m.BriefQualityScore)
	}
	if m.RichnessScore != nil {
		t.Errorf("expected nil richness, got %v", *m.RichnessScore)
	}

	b, err := s.GetBid(ctx, bidID)
	if err != nil {
		t.Fatalf("GetBid failed: %v", err)
	}
	if b == nil || b.ProviderID != "provider-a" || b.Price != 900 {
		t.Errorf("unexpected bid %+v", b)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	m, err := s.GetMission(ctx, uuid.New())
	if err != nil || m != nil {
		t.Errorf("expected nil, nil for missing mission, got %v, %v", m, err)
	}
	b, err := s.GetBid(ctx, uuid.New())
	if err != nil || b != nil {
		t.Errorf("expected nil, nil for missing bid, got %v, %v", b, err)
	}
	bs, err := s.GetBidScore(ctx, uuid.New())
	if err != nil || bs != nil {
		t.Errorf("expected nil, nil for missing score, got %v, %v", bs, err)
	}
}

func TestSaveBidScoreUpserts(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	missionID := insertMission(t, s, MissionOpen)
	bidID := insertBid(t, s, missionID, "provider-a", 250)

	bs := &BidScore{
		BidID:      bidID,
		MissionID:  missionID,
		TotalScore: 72,
		Confidence: 70,
		Band:       scoring.BandGood,
		Anomalies:  []scoring.Anomaly{scoring.AnomalyPriceDumping},
		Result:     scoring.ScoringResult{TotalScore: 72, Band: scoring.BandGood},
	}
	if err := s.SaveBidScore(ctx, bs); err != nil {
		t.Fatalf("SaveBidScore failed: %v", err)
	}
	if bs.ScoredAt.IsZero() {
		t.Fatal("expected ScoredAt to be set")
	}

	pos := 1
	bs.TotalScore = 80
	bs.Position = &pos
	bs.Shortlisted = true
	bs.Anomalies = nil
	if err := s.SaveBidScore(ctx, bs); err != nil {
		t.Fatalf("second SaveBidScore failed: %v", err)
	}

	got, err := s.GetBidScore(ctx, bidID)
	if err != nil {
		t.Fatalf("GetBidScore failed: %v", err)
	}
	if got.TotalScore != 80 || !got.Shortlisted || got.Position == nil || *got.Position != 1 {
		t.Errorf("expected updated score, got %+v", got)
	}
	if len(got.Anomalies) != 0 {
		t.Errorf("expected anomalies cleared, got %v", got.Anomalies)
	}
	if got.Result.Band != scoring.BandGood {
		t.Errorf("expected result round-trip, got %+v", got.Result)
	}
}

func TestListUnscoredBids(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	open := insertMission(t, s, MissionOpen)
	closed := insertMission(t, s, MissionClosed)
	scored := insertBid(t, s, open, "provider-a", 900)
	pending := insertBid(t, s, open, "provider-b", 950)
	insertBid(t, s, closed, "provider-c", 800)

	if err := s.SaveBidScore(ctx, &BidScore{
		BidID: scored, MissionID: open, TotalScore: 80, Confidence: 90, Band: scoring.BandGood,
	}); err != nil {
		t.Fatalf("SaveBidScore failed: %v", err)
	}

	bids, err := s.ListUnscoredBids(ctx, 10)
	if err != nil {
		t.Fatalf("ListUnscoredBids failed: %v", err)
	}
	if len(bids) != 1 || bids[0].ID != pending {
		t.Fatalf("expected only the pending bid, got %+v", bids)
	}

	all, err := s.ListBidsForMission(ctx, open)
	if err != nil {
		t.Fatalf("ListBidsForMission failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 bids, got %d", len(all))
	}
}

func TestBidRejectionExcludesUntilMissionChanges(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	mission := insertMission(t, s, MissionOpen)
	rejected := insertBid(t, s, mission, "provider-a", 900)
	pending := insertBid(t, s, mission, "provider-b", 950)

	rej := &BidRejection{
		BidID:     rejected,
		MissionID: mission,
		Fields:    scoring.ValidationErrors{{Field: "expected_price", Reason: "must be greater than 0"}},
	}
	if err := s.SaveBidRejection(ctx, rej); err != nil {
		t.Fatalf("SaveBidRejection failed: %v", err)
	}
	if rej.RejectedAt.IsZero() {
		t.Error("expected rejected_at to be set")
	}

	bids, err := s.ListUnscoredBids(ctx, 10)
	if err != nil {
		t.Fatalf("ListUnscoredBids failed: %v", err)
	}
	if len(bids) != 1 || bids[0].ID != pending {
		t.Fatalf("expected only the pending bid, got %+v", bids)
	}

	if _, err := s.pool.Exec(ctx,
		`UPDATE missions SET updated_at = NOW() + INTERVAL '1 minute' WHERE mission_id = $1`, mission); err != nil {
		t.Fatalf("touch mission: %v", err)
	}
	bids, err = s.ListUnscoredBids(ctx, 10)
	if err != nil {
		t.Fatalf("ListUnscoredBids failed: %v", err)
	}
	if len(bids) != 2 {
		t.Fatalf("expected the rejected bid to be retried after a mission update, got %d bids", len(bids))
	}

	if err := s.SaveBidScore(ctx, &BidScore{
		BidID: rejected, MissionID: mission, TotalScore: 70, Confidence: 80, Band: scoring.BandGood,
	}); err != nil {
		t.Fatalf("SaveBidScore failed: %v", err)
	}
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bid_rejections WHERE bid_id = $1`, rejected).Scan(&n); err != nil {
		t.Fatalf("count rejections: %v", err)
	}
	if n != 0 {
		t.Errorf("expected the rejection to be cleared once scored, got %d rows", n)
	}
}

func TestListScoresAndStats(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	missionID := insertMission(t, s, MissionOpen)
	a := insertBid(t, s, missionID, "provider-a", 900)
	b := insertBid(t, s, missionID, "provider-b", 300)

	first, second := 1, 2
	_ = s.SaveBidScore(ctx, &BidScore{BidID: b, MissionID: missionID, TotalScore: 60, Confidence: 70,
		Band: scoring.BandAverage, Anomalies: []scoring.Anomaly{scoring.AnomalyPriceDumping}, Position: &second})
	_ = s.SaveBidScore(ctx, &BidScore{BidID: a, MissionID: missionID, TotalScore: 90, Confidence: 95,
		Band: scoring.BandExcellent, Position: &first, Shortlisted: true})

	scores, err := s.ListScoresForMission(ctx, missionID)
	if err != nil {
		t.Fatalf("ListScoresForMission failed: %v", err)
	}
	if len(scores) != 2 || scores[0].BidID != a {
		t.Fatalf("expected position order, got %+v", scores)
	}

	stats, err := s.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.TotalScored != 2 || stats.Shortlisted != 1 || stats.WithAnomalies != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.AvgScore != 75 {
		t.Errorf("expected avg 75, got %f", stats.AvgScore)
	}
}
