package handlers

import (
	"context"
	"time"

	"github.com/cornerd/corners-api/internal/logic"
	"github.com/cornerd/corners-api/internal/models"
)

// MockTeamAnalyzer
type MockTeamAnalyzer struct {
	AnalyzeTeamFunc func(ctx context.Context, teamID int64, season int, cutoff *time.Time) (*models.TeamProfile, error)
}

func (m *MockTeamAnalyzer) AnalyzeTeam(ctx context.Context, teamID int64, season int, cutoff *time.Time) (*models.TeamProfile, error) {
	if m.AnalyzeTeamFunc != nil {
		return m.AnalyzeTeamFunc(ctx, teamID, season, cutoff)
	}
	return &models.TeamProfile{TeamID: teamID, TeamName: "Mock FC", Season: season}, nil
}

// MockPredictor
type MockPredictor struct {
	PredictMatchFunc func(ctx context.Context, homeID, awayID int64, season int, opts logic.PredictOptions) (*models.MatchPrediction, error)
}

func (m *MockPredictor) PredictMatch(ctx context.Context, homeID, awayID int64, season int, opts logic.PredictOptions) (*models.MatchPrediction, error) {
	if m.PredictMatchFunc != nil {
		return m.PredictMatchFunc(ctx, homeID, awayID, season, opts)
	}
	return &models.MatchPrediction{HomeTeamID: homeID, AwayTeamID: awayID, Season: season}, nil
}

// MockAccuracyTracker
type MockAccuracyTracker struct {
	VerifyPredictionFunc func(ctx context.Context, predictionID string, actualHome, actualAway int, manual bool, notes string) (*models.VerificationRecord, error)
	BulkVerifySeasonFunc func(ctx context.Context, season int) (*models.BulkVerifyReport, error)
	TeamReportFunc       func(ctx context.Context, teamID int64, season int) (*models.TeamAccuracyReport, error)
	OverviewFunc         func(ctx context.Context, season int) (*models.AccuracyOverview, error)
}

func (m *MockAccuracyTracker) VerifyPrediction(ctx context.Context, predictionID string, actualHome, actualAway int, manual bool, notes string) (*models.VerificationRecord, error) {
	if m.VerifyPredictionFunc != nil {
		return m.VerifyPredictionFunc(ctx, predictionID, actualHome, actualAway, manual, notes)
	}
	return &models.VerificationRecord{PredictionID: predictionID}, nil
}

func (m *MockAccuracyTracker) BulkVerifySeason(ctx context.Context, season int) (*models.BulkVerifyReport, error) {
	if m.BulkVerifySeasonFunc != nil {
		return m.BulkVerifySeasonFunc(ctx, season)
	}
	return &models.BulkVerifyReport{Season: season}, nil
}

func (m *MockAccuracyTracker) TeamReport(ctx context.Context, teamID int64, season int) (*models.TeamAccuracyReport, error) {
	if m.TeamReportFunc != nil {
		return m.TeamReportFunc(ctx, teamID, season)
	}
	return &models.TeamAccuracyReport{TeamID: teamID, Season: season}, nil
}

func (m *MockAccuracyTracker) Overview(ctx context.Context, season int) (*models.AccuracyOverview, error) {
	if m.OverviewFunc != nil {
		return m.OverviewFunc(ctx, season)
	}
	return &models.AccuracyOverview{Season: season}, nil
}

// MockPredictionValidator
type MockPredictionValidator struct {
	ValidateFunc        func(ctx context.Context, predictionID string, actualHome, actualAway int, notes string) (*models.ValidationResult, error)
	SummarizeSeasonFunc func(ctx context.Context, season int) (*models.ValidationSummary, error)
}

func (m *MockPredictionValidator) Validate(ctx context.Context, predictionID string, actualHome, actualAway int, notes string) (*models.ValidationResult, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, predictionID, actualHome, actualAway, notes)
	}
	return &models.ValidationResult{PredictionID: predictionID}, nil
}

func (m *MockPredictionValidator) SummarizeSeason(ctx context.Context, season int) (*models.ValidationSummary, error) {
	if m.SummarizeSeasonFunc != nil {
		return m.SummarizeSeasonFunc(ctx, season)
	}
	return &models.ValidationSummary{}, nil
}

// MockBacktester
type MockBacktester struct {
	RunDateFunc   func(ctx context.Context, day time.Time, season int) ([]models.BacktestResult, error)
	RunSeasonFunc func(ctx context.Context, season, maxDates int) (*models.BacktestBatchReport, error)
	SummaryFunc   func(ctx context.Context, season int) (*models.BacktestSummary, error)
}

func (m *MockBacktester) RunDate(ctx context.Context, day time.Time, season int) ([]models.BacktestResult, error) {
	if m.RunDateFunc != nil {
		return m.RunDateFunc(ctx, day, season)
	}
	return nil, nil
}

func (m *MockBacktester) RunSeason(ctx context.Context, season, maxDates int) (*models.BacktestBatchReport, error) {
	if m.RunSeasonFunc != nil {
		return m.RunSeasonFunc(ctx, season, maxDates)
	}
	return &models.BacktestBatchReport{Season: season}, nil
}

func (m *MockBacktester) Summary(ctx context.Context, season int) (*models.BacktestSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, season)
	}
	return &models.BacktestSummary{}, nil
}
