package models

import "time"

// BacktestResult is one leakage-free replayed prediction: the pipeline ran
// with a cutoff of the match's own date, so only earlier data was visible.
type BacktestResult struct {
	MatchID        int64     `json:"match_id"`
	RunID          string    `json:"run_id"`
	PredictionDate time.Time `json:"prediction_date"` // cutoff used
	MatchDate      time.Time `json:"match_date"`
	Season         int       `json:"season"`

	HomeTeamID   int64  `json:"home_team_id"`
	AwayTeamID   int64  `json:"away_team_id"`
	HomeTeamName string `json:"home_team_name"`
	AwayTeamName string `json:"away_team_name"`

	PredictedTotalCorners float64 `json:"predicted_total_corners"`
	PredictedHomeCorners  float64 `json:"predicted_home_corners"`
	PredictedAwayCorners  float64 `json:"predicted_away_corners"`
	Confidence55          float64 `json:"confidence_5_5"`
	Confidence65          float64 `json:"confidence_6_5"`

	ActualTotalCorners *int     `json:"actual_total_corners,omitempty"`
	Over55Correct      *bool    `json:"over_5_5_correct,omitempty"`
	Over65Correct      *bool    `json:"over_6_5_correct,omitempty"`
	Accuracy           *float64 `json:"prediction_accuracy,omitempty"`
}

// BacktestBatchReport summarizes a multi-date backtest run.
type BacktestBatchReport struct {
	Season           int      `json:"season"`
	DatesAvailable   int      `json:"dates_available"`
	DatesProcessed   int      `json:"dates_processed"`
	SuccessfulDates  int      `json:"successful_dates"`
	FailedDates      int      `json:"failed_dates"`
	TotalPredictions int      `json:"total_predictions"`
	Errors           []string `json:"errors,omitempty"`
}

// BacktestSummary aggregates stored backtest rows.
type BacktestSummary struct {
	TotalPredictions int     `json:"total_predictions"`
	AverageAccuracy  float64 `json:"average_accuracy"`
	Over55HitRate    float64 `json:"over_5_5_success_rate"`
	Over65HitRate    float64 `json:"over_6_5_success_rate"`
	Verified         int     `json:"verified_predictions"`
}
