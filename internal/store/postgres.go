package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/Bidscore/internal/scoring"
)

//go:embed schema.sql
var schemaSQL string

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Migrate creates the missions, bids and bid_scores tables when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const missionColumns = `mission_id, title, client_id, expected_price, complexity, urgency, status,
	brief_quality_score, richness_score, missing_info_count,
	created_at, updated_at`

const bidColumns = `bid_id, mission_id, provider_id, price,
	provider_rating, experience_match, skills_match, response_time_hours, success_rate,
	created_at`

const scoreColumns = `bid_id, mission_id, total_score, confidence, band, anomalies,
	position, shortlisted, on_frontier, result, scored_at`

func (s *PostgresStore) GetMission(ctx context.Context, id uuid.UUID) (*Mission, error) {
	m := &Mission{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+missionColumns+`
		FROM missions WHERE mission_id = $1`, id,
	).Scan(
		&m.ID, &m.Title, &m.ClientID, &m.ExpectedPrice, &m.Complexity, &m.Urgency, &m.Status,
		&m.BriefQualityScore, &m.RichnessScore, &m.MissingInfoCount,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get mission %s: %w", id, err)
	}
	return m, nil
}

func (s *PostgresStore) GetBid(ctx context.Context, id uuid.UUID) (*Bid, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+bidColumns+`
		FROM bids WHERE bid_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get bid %s: %w", id, err)
	}
	bids, err := scanBids(rows)
	if err != nil {
		return nil, err
	}
	if len(bids) == 0 {
		return nil, nil
	}
	return bids[0], nil
}

func (s *PostgresStore) ListBidsForMission(ctx context.Context, missionID uuid.UUID) ([]*Bid, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+bidColumns+`
		FROM bids WHERE mission_id = $1
		ORDER BY created_at, bid_id`, missionID)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	return scanBids(rows)
}

// ListUnscoredBids returns bids on open missions that have no score yet, oldest first.
// A rejected bid comes back only once its mission was updated after the rejection.
func (s *PostgresStore) ListUnscoredBids(ctx context.Context, limit int) ([]*Bid, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT b.bid_id, b.mission_id, b.provider_id, b.price,
			b.provider_rating, b.experience_match, b.skills_match, b.response_time_hours, b.success_rate,
			b.created_at
		FROM bids b
		JOIN missions m ON m.mission_id = b.mission_id
		LEFT JOIN bid_scores s ON s.bid_id = b.bid_id
		LEFT JOIN bid_rejections r ON r.bid_id = b.bid_id
		WHERE s.bid_id IS NULL AND m.status = 'open'
			AND (r.bid_id IS NULL OR r.rejected_at < m.updated_at)
		ORDER BY b.created_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unscored bids: %w", err)
	}
	return scanBids(rows)
}

// SaveBidScore upserts the score for a bid and clears any earlier rejection.
// Rescoring replaces the previous row.
func (s *PostgresStore) SaveBidScore(ctx context.Context, bs *BidScore) error {
	resultJSON, err := json.Marshal(bs.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	anomalies := make([]string, len(bs.Anomalies))
	for i, a := range bs.Anomalies {
		anomalies[i] = string(a)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO bid_scores (bid_id, mission_id, total_score, confidence, band, anomalies,
			position, shortlisted, on_frontier, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (bid_id) DO UPDATE SET
			total_score = EXCLUDED.total_score,
			confidence = EXCLUDED.confidence,
			band = EXCLUDED.band,
			anomalies = EXCLUDED.anomalies,
			position = EXCLUDED.position,
			shortlisted = EXCLUDED.shortlisted,
			on_frontier = EXCLUDED.on_frontier,
			result = EXCLUDED.result,
			scored_at = NOW()
		RETURNING scored_at`,
		bs.BidID, bs.MissionID, bs.TotalScore, bs.Confidence, string(bs.Band), anomalies,
		bs.Position, bs.Shortlisted, bs.OnFrontier, resultJSON,
	).Scan(&bs.ScoredAt)
	if err != nil {
		return fmt.Errorf("save score %s: %w", bs.BidID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM bid_rejections WHERE bid_id = $1`, bs.BidID); err != nil {
		return fmt.Errorf("clear rejection %s: %w", bs.BidID, err)
	}
	return tx.Commit(ctx)
}

// SaveBidRejection upserts the rejection of a bid, refreshing rejected_at.
func (s *PostgresStore) SaveBidRejection(ctx context.Context, r *BidRejection) error {
	fieldsJSON, err := json.Marshal(r.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO bid_rejections (bid_id, mission_id, fields)
		VALUES ($1, $2, $3)
		ON CONFLICT (bid_id) DO UPDATE SET
			fields = EXCLUDED.fields,
			rejected_at = NOW()
		RETURNING rejected_at`,
		r.BidID, r.MissionID, fieldsJSON,
	).Scan(&r.RejectedAt)
	if err != nil {
		return fmt.Errorf("save rejection %s: %w", r.BidID, err)
	}
	return nil
}

func (s *PostgresStore) GetBidScore(ctx context.Context, bidID uuid.UUID) (*BidScore, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+scoreColumns+`
		FROM bid_scores WHERE bid_id = $1`, bidID)
	if err != nil {
		return nil, fmt.Errorf("get bid score %s: %w", bidID, err)
	}
	scores, err := scanScores(rows)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, nil
	}
	return scores[0], nil
}

func (s *PostgresStore) ListScoresForMission(ctx context.Context, missionID uuid.UUID) ([]*BidScore, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+scoreColumns+`
		FROM bid_scores WHERE mission_id = $1
		ORDER BY position NULLS LAST, total_score DESC, bid_id`, missionID)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return scanScores(rows)
}

func (s *PostgresStore) GetStats(ctx context.Context) (*ScoreStats, error) {
	stats := &ScoreStats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN shortlisted THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN cardinality(anomalies) > 0 THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(total_score), 0)
		FROM bid_scores`,
	).Scan(&stats.TotalScored, &stats.Shortlisted, &stats.WithAnomalies, &stats.AvgScore)
	return stats, err
}

func scanBids(rows pgx.Rows) ([]*Bid, error) {
	defer rows.Close()
	var bids []*Bid
	for rows.Next() {
		b := &Bid{}
		if err := rows.Scan(
			&b.ID, &b.MissionID, &b.ProviderID, &b.Price,
			&b.ProviderRating, &b.ExperienceMatch, &b.SkillsMatch, &b.ResponseTimeHours, &b.SuccessRate,
			&b.CreatedAt,
		); err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}

func scanScores(rows pgx.Rows) ([]*BidScore, error) {
	defer rows.Close()
	var scores []*BidScore
	for rows.Next() {
		bs := &BidScore{}
		var band string
		var anomalies []string
		var resultJSON []byte
		if err := rows.Scan(
			&bs.BidID, &bs.MissionID, &bs.TotalScore, &bs.Confidence, &band, &anomalies,
			&bs.Position, &bs.Shortlisted, &bs.OnFrontier, &resultJSON, &bs.ScoredAt,
		); err != nil {
			return nil, err
		}
		bs.Band = scoring.Band(band)
		bs.Anomalies = make([]scoring.Anomaly, len(anomalies))
		for i, a := range anomalies {
			bs.Anomalies[i] = scoring.Anomaly(a)
		}
		if len(resultJSON) > 0 {
			if err := json.Unmarshal(resultJSON, &bs.Result); err != nil {
				return nil, fmt.Errorf("decode result for bid %s: %w", bs.BidID, err)
			}
		}
		scores = append(scores, bs)
	}
	return scores, rows.Err()
}
