package logic

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/cornerd/corners-api/internal/models"
)

type backtestFixture struct {
	*predictionFixture
	service *BacktestService
	stored  []models.BacktestResult
	cutoffs []*time.Time
}

func newBacktestFixture(histories map[int64][]models.Match) *backtestFixture {
	f := &backtestFixture{predictionFixture: newPredictionFixture(histories, nil)}

	base := f.store.RecentCompletedMatchesFunc
	f.store.RecentCompletedMatchesFunc = func(ctx context.Context, teamID int64, season, limit int, before *time.Time) ([]models.Match, error) {
		f.cutoffs = append(f.cutoffs, before)
		return base(ctx, teamID, season, limit, before)
	}
	f.store.InsertBacktestResultsFunc = func(ctx context.Context, rows []models.BacktestResult) (int, error) {
		f.stored = append(f.stored, rows...)
		return len(rows), nil
	}
	f.service = NewBacktestService(f.store, f.predictionFixture.service, testLogger())
	return f
}

func TestRunDate(t *testing.T) {
	day := time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC)
	playable := completedMatch(10, 1, 2, day, 5, 4)
	noCorners := completedMatch(11, 1, 2, day, 0, 0)
	noCorners.CornersHome, noCorners.CornersAway = nil, nil
	noHistory := completedMatch(12, 7, 8, day, 6, 6)

	f := newBacktestFixture(map[int64][]models.Match{
		1: matchHistory(1, 10, 8),
		2: matchHistory(2, 8, 8),
	})
	f.store.MatchesOnDateFunc = func(ctx context.Context, d time.Time, season int) ([]models.Match, error) {
		return []models.Match{playable, noCorners, noHistory}, nil
	}

	results, err := f.service.RunDate(context.Background(), day, 2025)
	if err != nil {
		t.Fatalf("RunDate: %v", err)
	}

	// Only the match with corner data and enough team history survives.
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.MatchID != 10 || r.RunID == "" {
		t.Errorf("result identity = match %d run %q", r.MatchID, r.RunID)
	}
	if len(f.stored) != 1 {
		t.Errorf("stored %d rows, want 1", len(f.stored))
	}
	if len(f.inserted) != 0 {
		t.Error("backtest predictions must not reach the predictions table")
	}

	// Every history read carries the match's own date as its cutoff.
	if len(f.cutoffs) == 0 {
		t.Fatal("no history reads recorded")
	}
	for _, cutoff := range f.cutoffs {
		if cutoff == nil || !cutoff.Equal(day) {
			t.Errorf("history cutoff = %v, want %v", cutoff, day)
		}
	}

	if r.ActualTotalCorners == nil || *r.ActualTotalCorners != 9 {
		t.Fatalf("ActualTotalCorners = %v, want 9", r.ActualTotalCorners)
	}
	if r.Over55Correct == nil || r.Over65Correct == nil || r.Accuracy == nil {
		t.Fatal("scored fields should all be set")
	}
	wantAccuracy := math.Max(0, 100-math.Abs(r.PredictedTotalCorners-9)*20)
	if math.Abs(*r.Accuracy-wantAccuracy) > 1e-9 {
		t.Errorf("Accuracy = %v, want %v", *r.Accuracy, wantAccuracy)
	}
	if r.Confidence55 == 0 {
		t.Error("Confidence55 should come from the 5.5 line call")
	}
}

func TestRunSeason(t *testing.T) {
	days := []time.Time{
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
	}

	f := newBacktestFixture(map[int64][]models.Match{
		1: matchHistory(1, 10, 8),
		2: matchHistory(2, 8, 8),
	})
	f.store.MatchDatesWithCornersFunc = func(ctx context.Context, season int) ([]time.Time, error) {
		return days, nil
	}
	f.store.BacktestCountForDateFunc = func(ctx context.Context, day time.Time, season int) (int, error) {
		if day.Equal(days[1]) {
			return 4, nil
		}
		return 0, nil
	}
	f.store.MatchesOnDateFunc = func(ctx context.Context, day time.Time, season int) ([]models.Match, error) {
		return []models.Match{completedMatch(int64(day.Day()), 1, 2, day, 5, 4)}, nil
	}

	report, err := f.service.RunSeason(context.Background(), 2025, 0)
	if err != nil {
		t.Fatalf("RunSeason: %v", err)
	}
	if report.DatesAvailable != 3 {
		t.Errorf("DatesAvailable = %d, want 3", report.DatesAvailable)
	}
	// The second date already holds rows and is skipped without counting.
	if report.DatesProcessed != 2 || report.SuccessfulDates != 2 {
		t.Errorf("processed/successful = %d/%d, want 2/2", report.DatesProcessed, report.SuccessfulDates)
	}
	if report.TotalPredictions != 2 {
		t.Errorf("TotalPredictions = %d, want 2", report.TotalPredictions)
	}
	if report.FailedDates != 0 || len(report.Errors) != 0 {
		t.Errorf("unexpected failures: %+v", report)
	}
}

func TestRunSeasonMaxDates(t *testing.T) {
	f := newBacktestFixture(map[int64][]models.Match{
		1: matchHistory(1, 10, 8),
		2: matchHistory(2, 8, 8),
	})
	f.store.MatchDatesWithCornersFunc = func(ctx context.Context, season int) ([]time.Time, error) {
		return []time.Time{
			time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 4, 8, 0, 0, 0, 0, time.UTC),
		}, nil
	}
	f.store.MatchesOnDateFunc = func(ctx context.Context, day time.Time, season int) ([]models.Match, error) {
		return []models.Match{completedMatch(1, 1, 2, day, 5, 4)}, nil
	}

	report, err := f.service.RunSeason(context.Background(), 2025, 1)
	if err != nil {
		t.Fatalf("RunSeason: %v", err)
	}
	if report.DatesProcessed != 1 {
		t.Errorf("DatesProcessed = %d, want 1", report.DatesProcessed)
	}
}

func TestRunSeasonFailedDateContinues(t *testing.T) {
	broken := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	healthy := time.Date(2025, 4, 8, 0, 0, 0, 0, time.UTC)

	f := newBacktestFixture(map[int64][]models.Match{
		1: matchHistory(1, 10, 8),
		2: matchHistory(2, 8, 8),
	})
	f.store.MatchDatesWithCornersFunc = func(ctx context.Context, season int) ([]time.Time, error) {
		return []time.Time{broken, healthy}, nil
	}
	f.store.MatchesOnDateFunc = func(ctx context.Context, day time.Time, season int) ([]models.Match, error) {
		if day.Equal(broken) {
			return nil, errors.New("partition offline")
		}
		return []models.Match{completedMatch(1, 1, 2, day, 5, 4)}, nil
	}

	report, err := f.service.RunSeason(context.Background(), 2025, 0)
	if err != nil {
		t.Fatalf("one bad date should not abort the season: %v", err)
	}
	if report.FailedDates != 1 || report.SuccessfulDates != 1 {
		t.Errorf("failed/successful = %d/%d, want 1/1", report.FailedDates, report.SuccessfulDates)
	}
	if len(report.Errors) != 1 || !strings.HasPrefix(report.Errors[0], "2025-04-01:") {
		t.Errorf("Errors = %v", report.Errors)
	}
}

func TestBacktestSummary(t *testing.T) {
	want := &models.BacktestSummary{TotalPredictions: 40, AverageAccuracy: 82.5}
	f := newBacktestFixture(nil)
	f.store.BacktestSummaryFunc = func(ctx context.Context, season int) (*models.BacktestSummary, error) {
		return want, nil
	}

	got, err := f.service.Summary(context.Background(), 2025)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if got != want {
		t.Error("Summary should return the stored aggregate unchanged")
	}
}
