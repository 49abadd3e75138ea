package logic

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cornerd/corners-api/internal/models"
)

// BacktestService replays the prediction pipeline over historical matches
// with a cutoff at each match's own date, so no information from the match
// or anything later leaks into the inputs.
type BacktestService struct {
	store  Store
	engine *PredictionService
	log    *zap.SugaredLogger
}

func NewBacktestService(store Store, engine *PredictionService, log *zap.SugaredLogger) *BacktestService {
	return &BacktestService{store: store, engine: engine, log: log}
}

// RunDate backtests every corner-recorded match played on the given day.
// Matches that fail to predict are skipped, not fatal.
func (s *BacktestService) RunDate(ctx context.Context, day time.Time, season int) ([]models.BacktestResult, error) {
	start := time.Now()
	defer func() {
		backtestBatchDuration.Observe(time.Since(start).Seconds())
	}()

	matches, err := s.store.MatchesOnDate(ctx, day, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches for %s: %w", day.Format("2006-01-02"), err)
	}

	runID := uuid.NewString()
	results := make([]models.BacktestResult, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		if m.CornersHome == nil || m.CornersAway == nil {
			continue
		}
		cutoff := m.Date
		p, err := s.engine.PredictMatch(ctx, m.HomeTeamID, m.AwayTeamID, season, PredictOptions{
			Cutoff:  &cutoff,
			NoStore: true,
		})
		if err != nil {
			s.log.Debugw("backtest prediction skipped",
				"match_id", m.ID, "home", m.HomeTeamID, "away", m.AwayTeamID, "error", err)
			continue
		}
		results = append(results, s.scoreResult(runID, m, p))
	}

	if len(results) > 0 {
		if _, err := s.store.InsertBacktestResults(ctx, results); err != nil {
			return nil, fmt.Errorf("failed to store backtest results: %w", err)
		}
	}
	return results, nil
}

func (s *BacktestService) scoreResult(runID string, m *models.Match, p *models.MatchPrediction) models.BacktestResult {
	r := models.BacktestResult{
		MatchID:        m.ID,
		RunID:          runID,
		PredictionDate: m.Date,
		MatchDate:      m.Date,
		Season:         p.Season,
		HomeTeamID:     p.HomeTeamID,
		AwayTeamID:     p.AwayTeamID,
		HomeTeamName:   p.HomeTeamName,
		AwayTeamName:   p.AwayTeamName,

		PredictedTotalCorners: p.PredictedTotalCorners,
		PredictedHomeCorners:  p.PredictedHomeCorners,
		PredictedAwayCorners:  p.PredictedAwayCorners,
	}
	if call := p.Call(5.5); call != nil {
		r.Confidence55 = call.Confidence
	}
	if call := p.Call(6.5); call != nil {
		r.Confidence65 = call.Confidence
	}

	actual := m.TotalCorners()
	over55 := lineCallCorrect(p.PredictedTotalCorners, actual, 5.5)
	over65 := lineCallCorrect(p.PredictedTotalCorners, actual, 6.5)
	accuracy := math.Max(0, 100-math.Abs(p.PredictedTotalCorners-float64(actual))*20)

	r.ActualTotalCorners = &actual
	r.Over55Correct = &over55
	r.Over65Correct = &over65
	r.Accuracy = &accuracy
	return r
}

// RunSeason backtests the whole season date by date, oldest first. Dates
// that already hold backtest rows are skipped so the run is resumable;
// maxDates <= 0 means no limit.
func (s *BacktestService) RunSeason(ctx context.Context, season, maxDates int) (*models.BacktestBatchReport, error) {
	dates, err := s.store.MatchDatesWithCorners(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list match dates: %w", err)
	}

	report := &models.BacktestBatchReport{Season: season, DatesAvailable: len(dates)}
	for _, day := range dates {
		if maxDates > 0 && report.DatesProcessed >= maxDates {
			break
		}
		existing, err := s.store.BacktestCountForDate(ctx, day, season)
		if err != nil {
			return nil, fmt.Errorf("failed to check backtest coverage: %w", err)
		}
		if existing > 0 {
			continue
		}
		report.DatesProcessed++

		results, err := s.RunDate(ctx, day, season)
		if err != nil {
			s.log.Errorw("backtest date failed", "date", day.Format("2006-01-02"), "error", err)
			report.FailedDates++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", day.Format("2006-01-02"), err))
			continue
		}
		report.SuccessfulDates++
		report.TotalPredictions += len(results)
	}

	s.log.Infow("season backtest finished",
		"season", season,
		"dates_processed", report.DatesProcessed,
		"predictions", report.TotalPredictions,
		"failed_dates", report.FailedDates)
	return report, nil
}

// Summary aggregates all stored backtest rows for a season.
func (s *BacktestService) Summary(ctx context.Context, season int) (*models.BacktestSummary, error) {
	summary, err := s.store.BacktestSummary(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load backtest summary: %w", err)
	}
	return summary, nil
}
