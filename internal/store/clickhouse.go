package store

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/cornerd/corners-api/internal/models"
)

// ClickHouseHistory is the append-only accuracy time series. ClickHouse
// suits it: rows are only ever inserted, and reads are team-scoped scans
// ordered by match date.
type ClickHouseHistory struct {
	conn driver.Conn
}

func NewClickHouseHistory(conn driver.Conn) *ClickHouseHistory {
	return &ClickHouseHistory{conn: conn}
}

func (s *ClickHouseHistory) AppendAccuracyHistory(ctx context.Context, rows []models.AccuracyHistoryRow) error {
	if len(rows) == 0 {
		return nil
	}
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO accuracy_history
			(team_id, prediction_id, season, prediction_type, was_correct,
			 margin_of_error, confidence_level, match_date)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare history batch: %w", err)
	}
	for _, r := range rows {
		correct := uint8(0)
		if r.WasCorrect {
			correct = 1
		}
		if err := batch.Append(r.TeamID, r.PredictionID, int32(r.Season), r.Metric,
			correct, r.MarginOfError, r.Confidence, r.MatchDate); err != nil {
			return fmt.Errorf("failed to append history row: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send history batch: %w", err)
	}
	return nil
}

// RecentTeamHistory returns the newest rows first.
func (s *ClickHouseHistory) RecentTeamHistory(ctx context.Context, teamID int64, season, limit int) ([]models.AccuracyHistoryRow, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT team_id, prediction_id, season, prediction_type, was_correct,
		       margin_of_error, confidence_level, match_date
		FROM accuracy_history
		WHERE team_id = ? AND season = ?
		ORDER BY match_date DESC
		LIMIT ?
	`, teamID, int32(season), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query accuracy history: %w", err)
	}
	defer rows.Close()

	var out []models.AccuracyHistoryRow
	for rows.Next() {
		var r models.AccuracyHistoryRow
		var season int32
		var correct uint8
		if err := rows.Scan(&r.TeamID, &r.PredictionID, &season, &r.Metric,
			&correct, &r.MarginOfError, &r.Confidence, &r.MatchDate); err != nil {
			return nil, err
		}
		r.Season = int(season)
		r.WasCorrect = correct == 1
		out = append(out, r)
	}
	return out, rows.Err()
}
