package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cornerd/corners-api/internal/models"
)

// Postgres holds the relational data: teams, matches, predictions,
// verifications, accuracy aggregates and backtest rows. Predictions are
// stored as a JSONB payload next to the indexed columns so the full
// analysis survives a round trip without a forty-column table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) GetTeam(ctx context.Context, teamID int64, season int) (*models.Team, error) {
	var t models.Team
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(country, ''), COALESCE(venue_name, ''), season, created_at
		FROM teams
		WHERE id = $1 AND season = $2
	`, teamID, season).Scan(&t.ID, &t.Name, &t.Country, &t.VenueName, &t.Season, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	return &t, nil
}

func (s *Postgres) RecentCompletedMatches(ctx context.Context, teamID int64, season, limit int, before *time.Time) ([]models.Match, error) {
	query := `
		SELECT id, home_team_id, away_team_id, match_date, season, status,
		       corners_home, corners_away, goals_home, goals_away
		FROM matches
		WHERE (home_team_id = $1 OR away_team_id = $1)
		  AND season = $2
		  AND status = 'FT'
		  AND corners_home IS NOT NULL AND corners_away IS NOT NULL`
	args := []any{teamID, season}
	if before != nil {
		query += ` AND match_date < $3`
		args = append(args, *before)
	}
	query += fmt.Sprintf(` ORDER BY match_date DESC LIMIT %d`, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches for team %d: %w", teamID, err)
	}
	defer rows.Close()
	return scanMatches(rows)
}

func (s *Postgres) MatchByTeams(ctx context.Context, homeID, awayID int64, season int) (*models.Match, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, home_team_id, away_team_id, match_date, season, status,
		       corners_home, corners_away, goals_home, goals_away
		FROM matches
		WHERE home_team_id = $1 AND away_team_id = $2 AND season = $3
		ORDER BY match_date DESC
		LIMIT 1
	`, homeID, awayID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	defer rows.Close()

	matches, err := scanMatches(rows)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return &matches[0], nil
}

func (s *Postgres) MeetingsBetween(ctx context.Context, teamA, teamB int64, seasons []int) ([]models.Match, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, home_team_id, away_team_id, match_date, season, status,
		       corners_home, corners_away, goals_home, goals_away
		FROM matches
		WHERE ((home_team_id = $1 AND away_team_id = $2)
		    OR (home_team_id = $2 AND away_team_id = $1))
		  AND season = ANY($3)
		  AND status = 'FT'
		ORDER BY match_date DESC
	`, teamA, teamB, seasons)
	if err != nil {
		return nil, fmt.Errorf("failed to get meetings: %w", err)
	}
	defer rows.Close()
	return scanMatches(rows)
}

func (s *Postgres) MatchDatesWithCorners(ctx context.Context, season int) ([]time.Time, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT match_date::date
		FROM matches
		WHERE season = $1 AND status = 'FT'
		  AND corners_home IS NOT NULL AND corners_away IS NOT NULL
		ORDER BY 1
	`, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get match dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (s *Postgres) MatchesOnDate(ctx context.Context, day time.Time, season int) ([]models.Match, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, home_team_id, away_team_id, match_date, season, status,
		       corners_home, corners_away, goals_home, goals_away
		FROM matches
		WHERE match_date::date = $1::date AND season = $2 AND status = 'FT'
		ORDER BY match_date
	`, day, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches on date: %w", err)
	}
	defer rows.Close()
	return scanMatches(rows)
}

func scanMatches(rows pgx.Rows) ([]models.Match, error) {
	var matches []models.Match
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.ID, &m.HomeTeamID, &m.AwayTeamID, &m.Date, &m.Season,
			&m.Status, &m.CornersHome, &m.CornersAway, &m.GoalsHome, &m.GoalsAway); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *Postgres) InsertPrediction(ctx context.Context, p *models.MatchPrediction) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode prediction: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO predictions (id, match_id, home_team_id, away_team_id, season,
		                         predicted_total, predicted_home, predicted_away,
		                         payload, created_at)
		VALUES ($1, NULLIF($2, 0), $3, $4, $5, $6, $7, $8, $9, $10)
	`, p.ID, p.MatchID, p.HomeTeamID, p.AwayTeamID, p.Season,
		p.PredictedTotalCorners, p.PredictedHomeCorners, p.PredictedAwayCorners,
		payload, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}
	return nil
}

func (s *Postgres) GetPrediction(ctx context.Context, id string) (*models.MatchPrediction, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `SELECT payload FROM predictions WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	var p models.MatchPrediction
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to decode prediction %s: %w", id, err)
	}
	return &p, nil
}

// UnverifiedPredictions returns predictions whose match has finished with
// corner data but which have no verification row yet.
func (s *Postgres) UnverifiedPredictions(ctx context.Context, season int) ([]models.UnverifiedPrediction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, m.corners_home, m.corners_away
		FROM predictions p
		JOIN matches m ON m.id = p.match_id
		LEFT JOIN verifications v ON v.prediction_id = p.id
		WHERE p.season = $1
		  AND m.status = 'FT'
		  AND m.corners_home IS NOT NULL AND m.corners_away IS NOT NULL
		  AND v.prediction_id IS NULL
		ORDER BY m.match_date
	`, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get unverified predictions: %w", err)
	}
	defer rows.Close()

	var pending []models.UnverifiedPrediction
	for rows.Next() {
		var u models.UnverifiedPrediction
		if err := rows.Scan(&u.PredictionID, &u.CornersHome, &u.CornersAway); err != nil {
			return nil, err
		}
		pending = append(pending, u)
	}
	return pending, rows.Err()
}

func (s *Postgres) InsertVerification(ctx context.Context, v *models.VerificationRecord) (bool, error) {
	ct, err := s.pool.Exec(ctx, `
		INSERT INTO verifications (prediction_id, actual_home, actual_away, actual_total,
		                           home_correct, away_correct, total_margin,
		                           over_5_5_correct, over_6_5_correct,
		                           manual, notes, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (prediction_id) DO NOTHING
	`, v.PredictionID, v.ActualHome, v.ActualAway, v.ActualTotal,
		v.HomeCorrect, v.AwayCorrect, v.TotalMargin,
		v.Over55, v.Over65, v.Manual, v.Notes, v.VerifiedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert verification: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

func (s *Postgres) VerifiedPredictions(ctx context.Context, season int) ([]models.VerifiedPrediction, error) {
	query := `
		SELECT p.payload,
		       v.prediction_id, v.actual_home, v.actual_away, v.actual_total,
		       v.home_correct, v.away_correct, v.total_margin,
		       v.over_5_5_correct, v.over_6_5_correct, v.manual,
		       COALESCE(v.notes, ''), v.verified_at
		FROM verifications v
		JOIN predictions p ON p.id = v.prediction_id`
	args := []any{}
	if season > 0 {
		query += ` WHERE p.season = $1`
		args = append(args, season)
	}
	query += ` ORDER BY v.verified_at`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get verified predictions: %w", err)
	}
	defer rows.Close()

	var out []models.VerifiedPrediction
	for rows.Next() {
		var vp models.VerifiedPrediction
		var payload []byte
		r := &vp.Record
		if err := rows.Scan(&payload,
			&r.PredictionID, &r.ActualHome, &r.ActualAway, &r.ActualTotal,
			&r.HomeCorrect, &r.AwayCorrect, &r.TotalMargin,
			&r.Over55, &r.Over65, &r.Manual, &r.Notes, &r.VerifiedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &vp.Prediction); err != nil {
			return nil, fmt.Errorf("failed to decode prediction %s: %w", r.PredictionID, err)
		}
		out = append(out, vp)
	}
	return out, rows.Err()
}

// UpsertTeamAccuracy bumps one (team, season, metric) counter pair. The
// increment happens inside the upsert so concurrent verifications never
// lose an update.
func (s *Postgres) UpsertTeamAccuracy(ctx context.Context, teamID int64, season int, metric string, correct bool) error {
	hit := 0
	if correct {
		hit = 1
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO team_accuracy (team_id, season, prediction_type, total_predictions, correct_predictions, last_updated)
		VALUES ($1, $2, $3, 1, $4, NOW())
		ON CONFLICT (team_id, season, prediction_type) DO UPDATE SET
			total_predictions = team_accuracy.total_predictions + 1,
			correct_predictions = team_accuracy.correct_predictions + $4,
			last_updated = NOW()
	`, teamID, season, metric, hit)
	if err != nil {
		return fmt.Errorf("failed to upsert team accuracy: %w", err)
	}
	return nil
}

func (s *Postgres) TeamAccuracy(ctx context.Context, teamID int64, season int) ([]models.TeamAccuracyStat, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT team_id, season, prediction_type, total_predictions, correct_predictions, last_updated
		FROM team_accuracy
		WHERE team_id = $1 AND season = $2
		ORDER BY prediction_type
	`, teamID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get team accuracy: %w", err)
	}
	defer rows.Close()

	var stats []models.TeamAccuracyStat
	for rows.Next() {
		var st models.TeamAccuracyStat
		if err := rows.Scan(&st.TeamID, &st.Season, &st.Metric, &st.Total, &st.Correct, &st.LastUpdated); err != nil {
			return nil, err
		}
		if st.Total > 0 {
			st.AccuracyPct = float64(st.Correct) / float64(st.Total) * 100
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func (s *Postgres) TeamAccuracyRanking(ctx context.Context, season int) ([]models.TeamAccuracySummary, error) {
	query := `
		SELECT t.name,
		       SUM(a.correct_predictions)::float / NULLIF(SUM(a.total_predictions), 0) * 100,
		       SUM(a.total_predictions)
		FROM team_accuracy a
		JOIN teams t ON t.id = a.team_id AND t.season = a.season`
	args := []any{}
	if season > 0 {
		query += ` WHERE a.season = $1`
		args = append(args, season)
	}
	query += `
		GROUP BY t.name
		HAVING SUM(a.total_predictions) > 0
		ORDER BY 2 DESC
		LIMIT 20`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get accuracy ranking: %w", err)
	}
	defer rows.Close()

	var ranking []models.TeamAccuracySummary
	for rows.Next() {
		var r models.TeamAccuracySummary
		if err := rows.Scan(&r.TeamName, &r.AvgAccuracy, &r.TotalPredictions); err != nil {
			return nil, err
		}
		ranking = append(ranking, r)
	}
	return ranking, rows.Err()
}

func (s *Postgres) InsertBacktestResults(ctx context.Context, results []models.BacktestResult) (int, error) {
	batch := &pgx.Batch{}
	for i := range results {
		r := &results[i]
		batch.Queue(`
			INSERT INTO backtest_results (match_id, run_id, prediction_date, match_date, season,
			                              home_team_id, away_team_id, home_team_name, away_team_name,
			                              predicted_total, predicted_home, predicted_away,
			                              confidence_5_5, confidence_6_5,
			                              actual_total, over_5_5_correct, over_6_5_correct, accuracy)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			ON CONFLICT (match_id, run_id) DO NOTHING
		`, r.MatchID, r.RunID, r.PredictionDate, r.MatchDate, r.Season,
			r.HomeTeamID, r.AwayTeamID, r.HomeTeamName, r.AwayTeamName,
			r.PredictedTotalCorners, r.PredictedHomeCorners, r.PredictedAwayCorners,
			r.Confidence55, r.Confidence65,
			r.ActualTotalCorners, r.Over55Correct, r.Over65Correct, r.Accuracy)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for range results {
		tag, err := br.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to insert backtest result: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func (s *Postgres) BacktestCountForDate(ctx context.Context, day time.Time, season int) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM backtest_results
		WHERE match_date::date = $1::date AND season = $2
	`, day, season).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count backtest rows: %w", err)
	}
	return count, nil
}

func (s *Postgres) BacktestSummary(ctx context.Context, season int) (*models.BacktestSummary, error) {
	var sum models.BacktestSummary
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(AVG(accuracy), 0),
		       COALESCE(AVG(CASE WHEN over_5_5_correct THEN 100.0 ELSE 0.0 END), 0),
		       COALESCE(AVG(CASE WHEN over_6_5_correct THEN 100.0 ELSE 0.0 END), 0),
		       COUNT(actual_total)
		FROM backtest_results
		WHERE season = $1
	`, season).Scan(&sum.TotalPredictions, &sum.AverageAccuracy,
		&sum.Over55HitRate, &sum.Over65HitRate, &sum.Verified)
	if err != nil {
		return nil, fmt.Errorf("failed to get backtest summary: %w", err)
	}
	return &sum, nil
}
