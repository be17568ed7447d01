package repository

import (
	"context"
	"fmt"
	"time"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/pkg/clickhouse"
	"MarketLens/pkg/config"
)

var scoreHistorySchema = []string{
	`CREATE TABLE IF NOT EXISTS score_history (
		ts              DateTime,
		symbol          String,
		overall         Float64,
		financial_health Float64,
		valuation       Float64,
		growth          Float64,
		quality         Float64,
		momentum        Float64
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(ts)
	ORDER BY (symbol, ts)`,
}

// ClickHouseScoreHistory archives weekly score snapshots for offline
// analysis of score drift.
type ClickHouseScoreHistory struct {
	client *clickhouse.Client
}

func NewClickHouseScoreHistory(ctx context.Context, cfg *config.Config) (*ClickHouseScoreHistory, error) {
	client, err := clickhouse.NewClient(
		clickhouse.WithHost(cfg.ClickHouse.Host),
		clickhouse.WithPort(cfg.ClickHouse.Port),
		clickhouse.WithDatabase(cfg.ClickHouse.Database),
		clickhouse.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		clickhouse.WithMaxConnections(4, 2),
		clickhouse.WithTimeouts(cfg.ClickHouse.DialTimeout, 10*time.Second),
	)
	if err != nil {
		return nil, err
	}
	if err := client.InitSchema(ctx, scoreHistorySchema); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &ClickHouseScoreHistory{client: client}, nil
}

func (h *ClickHouseScoreHistory) AppendScores(ctx context.Context, scores []models.FundamentalScore) error {
	if len(scores) == 0 {
		return nil
	}

	tx, err := h.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("score history begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO score_history (ts, symbol, overall, financial_health, valuation, growth, quality, momentum)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("score history prepare: %w", err)
	}
	defer stmt.Close()

	for _, s := range scores {
		if _, err := stmt.ExecContext(ctx,
			s.LastUpdated, s.Symbol, s.Overall, s.FinancialHealth,
			s.Valuation, s.Growth, s.Quality, s.Momentum); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("score history insert %s: %w", s.Symbol, err)
		}
	}
	return tx.Commit()
}

func (h *ClickHouseScoreHistory) Close() error { return h.client.Close() }

// NoopScoreHistory stands in when ClickHouse is disabled.
type NoopScoreHistory struct{}

func (NoopScoreHistory) AppendScores(context.Context, []models.FundamentalScore) error { return nil }

var (
	_ drepo.ScoreHistory = (*ClickHouseScoreHistory)(nil)
	_ drepo.ScoreHistory = NoopScoreHistory{}
)
