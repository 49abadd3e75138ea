package models

import "time"

// Accuracy metric kinds tracked per team.
const (
	MetricCornersWon = "corners_won"
	MetricOver55     = "over_5_5"
	MetricOver65     = "over_6_5"
)

// VerificationRecord is the one-to-one result of checking a stored
// prediction against the real corner counts. Immutable once written.
type VerificationRecord struct {
	PredictionID string    `json:"prediction_id"`
	ActualHome   int       `json:"actual_home_corners"`
	ActualAway   int       `json:"actual_away_corners"`
	ActualTotal  int       `json:"actual_total_corners"`
	HomeCorrect  bool      `json:"home_prediction_correct"`
	AwayCorrect  bool      `json:"away_prediction_correct"`
	TotalMargin  float64   `json:"total_prediction_margin"`
	Over55       bool      `json:"over_5_5_correct"`
	Over65       bool      `json:"over_6_5_correct"`
	Manual       bool      `json:"verified_manually"`
	Notes        string    `json:"notes,omitempty"`
	VerifiedAt   time.Time `json:"verified_at"`
}

// ValidationResult is the full scoring of one prediction against its
// actual outcome, including calibration.
type ValidationResult struct {
	PredictionID string `json:"prediction_id"`
	HomeTeamName string `json:"home_team_name"`
	AwayTeamName string `json:"away_team_name"`
	Season       int    `json:"season"`

	ActualTotalCorners    int     `json:"actual_total_corners"`
	PredictedTotalCorners float64 `json:"predicted_total_corners"`
	TotalCornersError     float64 `json:"total_corners_error"`

	ActualHomeCorners    int     `json:"actual_home_corners"`
	PredictedHomeCorners float64 `json:"predicted_home_corners"`
	HomeCornersError     float64 `json:"home_corners_error"`

	ActualAwayCorners    int     `json:"actual_away_corners"`
	PredictedAwayCorners float64 `json:"predicted_away_corners"`
	AwayCornersError     float64 `json:"away_corners_error"`

	Over55Correct bool `json:"over_5_5_correct"`
	Over65Correct bool `json:"over_6_5_correct"`
	Over75Correct bool `json:"over_7_5_correct"`

	TotalWithinTolerance    bool    `json:"total_accuracy_within_tolerance"`
	IndividualAccuracyScore float64 `json:"individual_accuracy_score"` // 0-100
	LineAccuracyScore       float64 `json:"line_accuracy_score"`       // 0-100
	CalibrationScore        float64 `json:"confidence_calibration_score"`

	QualityActual string `json:"prediction_quality_actual"`
	Notes         string `json:"validation_notes,omitempty"`
}

// ValidationSummary aggregates many validation results to judge the
// estimator itself.
type ValidationSummary struct {
	TotalValidated int    `json:"total_predictions_validated"`
	Period         string `json:"validation_period"`

	TotalCornersMAE    float64 `json:"total_corners_mae"`
	TotalCornersRMSE   float64 `json:"total_corners_rmse"`
	WithinTolerancePct float64 `json:"within_tolerance_percentage"`

	Over55Accuracy float64 `json:"over_5_5_accuracy"`
	Over65Accuracy float64 `json:"over_6_5_accuracy"`
	Over75Accuracy float64 `json:"over_7_5_accuracy"`

	AvgCalibration float64 `json:"avg_confidence_calibration"`
	Overconfident  int     `json:"overconfident_predictions"`
	Underconfident int     `json:"underconfident_predictions"`

	Excellent int `json:"excellent_predictions"`
	Good      int `json:"good_predictions"`
	Fair      int `json:"fair_predictions"`
	Poor      int `json:"poor_predictions"`

	PerformanceRating string   `json:"model_performance_rating"`
	Recommendations   []string `json:"improvement_recommendations"`
}

// TeamAccuracyStat is the running aggregate per (team, season, metric).
type TeamAccuracyStat struct {
	TeamID      int64     `json:"team_id"`
	Season      int       `json:"season"`
	Metric      string    `json:"prediction_type"`
	Total       int       `json:"total_predictions"`
	Correct     int       `json:"correct_predictions"`
	AccuracyPct float64   `json:"accuracy_percentage"`
	LastUpdated time.Time `json:"last_updated"`
}

// AccuracyHistoryRow is one time-series entry, appended per verified
// prediction per team.
type AccuracyHistoryRow struct {
	TeamID        int64     `json:"team_id"`
	PredictionID  string    `json:"prediction_id"`
	Season        int       `json:"season"`
	Metric        string    `json:"prediction_type"`
	WasCorrect    bool      `json:"was_correct"`
	MarginOfError float64   `json:"margin_of_error"`
	Confidence    float64   `json:"confidence_level"`
	MatchDate     time.Time `json:"match_date"`
}

// TeamAccuracyReport is the per-team view over the aggregates plus a
// recent trend from the history series.
type TeamAccuracyReport struct {
	TeamID           int64                       `json:"team_id"`
	Season           int                         `json:"season"`
	OverallAccuracy  float64                     `json:"overall_accuracy"`
	TotalPredictions int                         `json:"total_predictions"`
	ByMetric         map[string]TeamAccuracyStat `json:"stats_by_type"`
	RecentTrend      string                      `json:"recent_trend"`
	RecentAccuracy   float64                     `json:"recent_accuracy"`
	Difficulty       string                      `json:"difficulty_classification"`
}

// TeamAccuracySummary is one row of the system overview ranking.
type TeamAccuracySummary struct {
	TeamName         string  `json:"team_name"`
	AvgAccuracy      float64 `json:"avg_accuracy"`
	TotalPredictions int     `json:"total_predictions"`
}

// AccuracyOverview is the system-wide accuracy report.
type AccuracyOverview struct {
	Season            int                   `json:"season,omitempty"`
	TotalPredictions  int                   `json:"total_predictions"`
	Over55Accuracy    float64               `json:"over_5_5_accuracy"`
	Over65Accuracy    float64               `json:"over_6_5_accuracy"`
	AverageMargin     float64               `json:"average_margin"`
	TeamAccuracies    []TeamAccuracySummary `json:"team_accuracies"`
	PerformanceRating string                `json:"performance_rating"`
}

// VerifiedPrediction couples a stored prediction with its verification
// record for aggregate reporting.
type VerifiedPrediction struct {
	Prediction MatchPrediction    `json:"prediction"`
	Record     VerificationRecord `json:"record"`
}

// UnverifiedPrediction is a stored prediction whose match has finished but
// has no verification yet; the actual corners come from the match row.
type UnverifiedPrediction struct {
	PredictionID string `json:"prediction_id"`
	CornersHome  int    `json:"corners_home"`
	CornersAway  int    `json:"corners_away"`
}

// BulkVerifyReport counts the outcome of a verify-all-unverified run.
type BulkVerifyReport struct {
	Season   int `json:"season"`
	Verified int `json:"verified_count"`
	Errors   int `json:"error_count"`
	Total    int `json:"total_processed"`
}
