package logic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/cornerd/corners-api/internal/models"
)

// AccuracyService verifies predictions against real results and maintains
// the running accuracy aggregates plus the accuracy history time series.
type AccuracyService struct {
	store     Store
	history   HistoryStore
	log       *zap.SugaredLogger
	tolerance float64
}

func NewAccuracyService(store Store, history HistoryStore, log *zap.SugaredLogger, tolerance float64) *AccuracyService {
	return &AccuracyService{store: store, history: history, log: log, tolerance: tolerance}
}

// VerifyPrediction checks a stored prediction against the actual corner
// counts, persists the verification record, bumps both teams' aggregate
// counters and appends history rows. A prediction verifies at most once:
// a second call returns ErrAlreadyVerified without touching aggregates or
// history. The history append is best-effort: the verification stands even
// when the time series write fails. An aggregate failure returns an error
// with the record already persisted and some counters bumped; the guard
// above keeps a retry from re-running the bumps that did land.
func (s *AccuracyService) VerifyPrediction(ctx context.Context, predictionID string, actualHome, actualAway int, manual bool, notes string) (*models.VerificationRecord, error) {
	p, err := s.store.GetPrediction(ctx, predictionID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("prediction %s: %w", predictionID, ErrNotFound)
	}

	actualTotal := actualHome + actualAway
	record := &models.VerificationRecord{
		PredictionID: predictionID,
		ActualHome:   actualHome,
		ActualAway:   actualAway,
		ActualTotal:  actualTotal,
		HomeCorrect:  math.Abs(p.PredictedHomeCorners-float64(actualHome)) <= s.tolerance,
		AwayCorrect:  math.Abs(p.PredictedAwayCorners-float64(actualAway)) <= s.tolerance,
		TotalMargin:  math.Abs(p.PredictedTotalCorners - float64(actualTotal)),
		Over55:       lineCallCorrect(p.PredictedTotalCorners, actualTotal, 5.5),
		Over65:       lineCallCorrect(p.PredictedTotalCorners, actualTotal, 6.5),
		Manual:       manual,
		Notes:        notes,
		VerifiedAt:   time.Now().UTC(),
	}

	inserted, err := s.store.InsertVerification(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to store verification: %w", err)
	}
	if !inserted {
		return nil, fmt.Errorf("prediction %s: %w", predictionID, ErrAlreadyVerified)
	}

	if err := s.updateAggregates(ctx, p, record); err != nil {
		return nil, err
	}
	s.appendHistory(ctx, p, record)

	verificationsTotal.Inc()
	return record, nil
}

// updateAggregates bumps the per-team counters: each side's own corner
// estimate plus the shared line calls, counted for both teams.
func (s *AccuracyService) updateAggregates(ctx context.Context, p *models.MatchPrediction, r *models.VerificationRecord) error {
	type bump struct {
		teamID  int64
		metric  string
		correct bool
	}
	bumps := []bump{
		{p.HomeTeamID, models.MetricCornersWon, r.HomeCorrect},
		{p.AwayTeamID, models.MetricCornersWon, r.AwayCorrect},
	}
	for _, teamID := range []int64{p.HomeTeamID, p.AwayTeamID} {
		bumps = append(bumps,
			bump{teamID, models.MetricOver55, r.Over55},
			bump{teamID, models.MetricOver65, r.Over65},
		)
	}
	for _, b := range bumps {
		if err := s.store.UpsertTeamAccuracy(ctx, b.teamID, p.Season, b.metric, b.correct); err != nil {
			return fmt.Errorf("failed to update accuracy for team %d: %w", b.teamID, err)
		}
	}
	return nil
}

func (s *AccuracyService) appendHistory(ctx context.Context, p *models.MatchPrediction, r *models.VerificationRecord) {
	matchDate := p.CreatedAt
	if match, err := s.store.MatchByTeams(ctx, p.HomeTeamID, p.AwayTeamID, p.Season); err == nil && match != nil {
		matchDate = match.Date
	}

	confidence := 0.0
	if call := p.Call(5.5); call != nil {
		confidence = call.Confidence
	}

	rows := []models.AccuracyHistoryRow{
		{
			TeamID:        p.HomeTeamID,
			PredictionID:  p.ID,
			Season:        p.Season,
			Metric:        models.MetricCornersWon,
			WasCorrect:    r.HomeCorrect,
			MarginOfError: math.Abs(p.PredictedHomeCorners - float64(r.ActualHome)),
			Confidence:    confidence,
			MatchDate:     matchDate,
		},
		{
			TeamID:        p.AwayTeamID,
			PredictionID:  p.ID,
			Season:        p.Season,
			Metric:        models.MetricCornersWon,
			WasCorrect:    r.AwayCorrect,
			MarginOfError: math.Abs(p.PredictedAwayCorners - float64(r.ActualAway)),
			Confidence:    confidence,
			MatchDate:     matchDate,
		},
	}
	if err := s.history.AppendAccuracyHistory(ctx, rows); err != nil {
		s.log.Warnw("accuracy history append failed", "prediction_id", p.ID, "error", err)
	}
}

// BulkVerifySeason verifies every stored prediction whose match has
// finished but has no verification yet. One failure never aborts the
// batch; the report carries the counts.
func (s *AccuracyService) BulkVerifySeason(ctx context.Context, season int) (*models.BulkVerifyReport, error) {
	pending, err := s.store.UnverifiedPredictions(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list unverified predictions: %w", err)
	}

	report := &models.BulkVerifyReport{Season: season, Total: len(pending)}
	for _, u := range pending {
		if _, err := s.VerifyPrediction(ctx, u.PredictionID, u.CornersHome, u.CornersAway, false, ""); err != nil {
			if errors.Is(err, ErrAlreadyVerified) {
				// Lost a race with a manual verification; nothing to redo.
				s.log.Debugw("prediction verified concurrently", "prediction_id", u.PredictionID)
				continue
			}
			s.log.Errorw("bulk verification failed", "prediction_id", u.PredictionID, "error", err)
			verificationsFailed.Inc()
			report.Errors++
			continue
		}
		report.Verified++
	}
	return report, nil
}

// TeamReport builds the per-team accuracy view: running aggregates by
// metric plus the recent trend from the history series.
func (s *AccuracyService) TeamReport(ctx context.Context, teamID int64, season int) (*models.TeamAccuracyReport, error) {
	stats, err := s.store.TeamAccuracy(ctx, teamID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load team accuracy: %w", err)
	}

	report := &models.TeamAccuracyReport{
		TeamID:      teamID,
		Season:      season,
		ByMetric:    make(map[string]models.TeamAccuracyStat, len(stats)),
		RecentTrend: models.TrendInsufficientData,
	}

	var totalCorrect int
	for _, stat := range stats {
		report.ByMetric[stat.Metric] = stat
		report.TotalPredictions += stat.Total
		totalCorrect += stat.Correct
	}
	if report.TotalPredictions > 0 {
		report.OverallAccuracy = float64(totalCorrect) / float64(report.TotalPredictions) * 100
	}
	report.Difficulty = accuracyDifficulty(report.OverallAccuracy)

	recent, err := s.history.RecentTeamHistory(ctx, teamID, season, 10)
	if err != nil {
		s.log.Warnw("recent accuracy history unavailable", "team_id", teamID, "error", err)
		return report, nil
	}
	report.RecentTrend, report.RecentAccuracy = recentAccuracyTrend(recent)

	return report, nil
}

// recentAccuracyTrend splits the last results (newest first) in half and
// compares the halves with a 10-point threshold.
func recentAccuracyTrend(rows []models.AccuracyHistoryRow) (trend string, recentAccuracy float64) {
	if len(rows) == 0 {
		return models.TrendInsufficientData, 0
	}
	correct := 0
	for _, r := range rows {
		if r.WasCorrect {
			correct++
		}
	}
	recentAccuracy = float64(correct) / float64(len(rows)) * 100

	if len(rows) < 5 {
		return models.TrendInsufficientData, recentAccuracy
	}

	newer, older := rows[:len(rows)/2], rows[len(rows)/2:]
	diff := hitPct(newer) - hitPct(older)
	switch {
	case diff > 10:
		return models.TrendImproving, recentAccuracy
	case diff < -10:
		return models.TrendDeclining, recentAccuracy
	default:
		return models.TrendStable, recentAccuracy
	}
}

func hitPct(rows []models.AccuracyHistoryRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	correct := 0
	for _, r := range rows {
		if r.WasCorrect {
			correct++
		}
	}
	return float64(correct) / float64(len(rows)) * 100
}

func accuracyDifficulty(accuracyPct float64) string {
	switch {
	case accuracyPct >= 80:
		return "Easy to predict"
	case accuracyPct >= 65:
		return "Moderate difficulty"
	default:
		return "Difficult to predict"
	}
}

// Overview aggregates every verification in a season (season 0 = all)
// into the system-wide report.
func (s *AccuracyService) Overview(ctx context.Context, season int) (*models.AccuracyOverview, error) {
	verified, err := s.store.VerifiedPredictions(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load verified predictions: %w", err)
	}

	overview := &models.AccuracyOverview{
		Season:            season,
		TotalPredictions:  len(verified),
		PerformanceRating: "Insufficient Data",
	}
	if len(verified) == 0 {
		return overview, nil
	}

	var over55, over65 int
	var marginSum float64
	for i := range verified {
		r := &verified[i].Record
		if r.Over55 {
			over55++
		}
		if r.Over65 {
			over65++
		}
		marginSum += r.TotalMargin
	}

	n := float64(len(verified))
	overview.Over55Accuracy = float64(over55) / n * 100
	overview.Over65Accuracy = float64(over65) / n * 100
	overview.AverageMargin = marginSum / n
	overview.PerformanceRating = overviewRating(overview.Over55Accuracy, overview.Over65Accuracy, overview.AverageMargin)

	ranking, err := s.store.TeamAccuracyRanking(ctx, season)
	if err != nil {
		s.log.Warnw("team accuracy ranking unavailable", "season", season, "error", err)
	} else {
		overview.TeamAccuracies = ranking
	}

	return overview, nil
}

func overviewRating(over55Acc, over65Acc, avgMargin float64) string {
	avgLine := (over55Acc + over65Acc) / 2
	switch {
	case avgLine >= 80 && avgMargin <= 1.5:
		return "Excellent"
	case avgLine >= 70 && avgMargin <= 2.0:
		return "Good"
	case avgLine >= 60 && avgMargin <= 2.5:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}
