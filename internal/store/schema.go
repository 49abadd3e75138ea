package store

import (
	"context"
	"fmt"
)

// InitSchema creates the relational tables if they do not exist yet.
func (s *Postgres) InitSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS teams (
			id BIGINT NOT NULL,
			season INTEGER NOT NULL,
			name VARCHAR(200) NOT NULL,
			country VARCHAR(100),
			venue_name VARCHAR(200),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (id, season)
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			id BIGSERIAL PRIMARY KEY,
			home_team_id BIGINT NOT NULL,
			away_team_id BIGINT NOT NULL,
			match_date TIMESTAMPTZ NOT NULL,
			season INTEGER NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'NS',
			corners_home INTEGER,
			corners_away INTEGER,
			goals_home INTEGER,
			goals_away INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_team_season
			ON matches (home_team_id, away_team_id, season, match_date DESC)`,
		`CREATE TABLE IF NOT EXISTS predictions (
			id UUID PRIMARY KEY,
			match_id BIGINT REFERENCES matches(id),
			home_team_id BIGINT NOT NULL,
			away_team_id BIGINT NOT NULL,
			season INTEGER NOT NULL,
			predicted_total DECIMAL(6, 2) NOT NULL,
			predicted_home DECIMAL(6, 2) NOT NULL,
			predicted_away DECIMAL(6, 2) NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS verifications (
			prediction_id UUID PRIMARY KEY REFERENCES predictions(id),
			actual_home INTEGER NOT NULL,
			actual_away INTEGER NOT NULL,
			actual_total INTEGER NOT NULL,
			home_correct BOOLEAN NOT NULL,
			away_correct BOOLEAN NOT NULL,
			total_margin DECIMAL(6, 2) NOT NULL,
			over_5_5_correct BOOLEAN NOT NULL,
			over_6_5_correct BOOLEAN NOT NULL,
			manual BOOLEAN NOT NULL DEFAULT FALSE,
			notes TEXT,
			verified_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS team_accuracy (
			team_id BIGINT NOT NULL,
			season INTEGER NOT NULL,
			prediction_type VARCHAR(50) NOT NULL,
			total_predictions INTEGER NOT NULL DEFAULT 0,
			correct_predictions INTEGER NOT NULL DEFAULT 0,
			last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (team_id, season, prediction_type)
		)`,
		`CREATE TABLE IF NOT EXISTS backtest_results (
			match_id BIGINT NOT NULL,
			run_id UUID NOT NULL,
			prediction_date TIMESTAMPTZ NOT NULL,
			match_date TIMESTAMPTZ NOT NULL,
			season INTEGER NOT NULL,
			home_team_id BIGINT NOT NULL,
			away_team_id BIGINT NOT NULL,
			home_team_name VARCHAR(200) NOT NULL,
			away_team_name VARCHAR(200) NOT NULL,
			predicted_total DECIMAL(6, 2) NOT NULL,
			predicted_home DECIMAL(6, 2) NOT NULL,
			predicted_away DECIMAL(6, 2) NOT NULL,
			confidence_5_5 DECIMAL(6, 2) NOT NULL,
			confidence_6_5 DECIMAL(6, 2) NOT NULL,
			actual_total INTEGER,
			over_5_5_correct BOOLEAN,
			over_6_5_correct BOOLEAN,
			accuracy DECIMAL(6, 2),
			PRIMARY KEY (match_id, run_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_backtest_date
			ON backtest_results (season, match_date)`,
	}
	for _, stmt := range ddl {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to init postgres schema: %w", err)
		}
	}
	return nil
}

// InitSchema creates the history table if it does not exist yet.
func (s *ClickHouseHistory) InitSchema(ctx context.Context) error {
	err := s.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS accuracy_history (
			team_id Int64,
			prediction_id String,
			season Int32,
			prediction_type LowCardinality(String),
			was_correct UInt8,
			margin_of_error Float64,
			confidence_level Float64,
			match_date DateTime
		) ENGINE = MergeTree()
		ORDER BY (team_id, season, match_date)
	`)
	if err != nil {
		return fmt.Errorf("failed to init clickhouse schema: %w", err)
	}
	return nil
}
