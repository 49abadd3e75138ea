package models

import "time"

// Trend labels produced by the slope test in the team analyzer.
const (
	TrendImproving        = "improving"
	TrendDeclining        = "declining"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// Prediction difficulty classes derived from consistency.
const (
	DifficultyEasy      = "Easy"
	DifficultyModerate  = "Moderate"
	DifficultyDifficult = "Difficult"
)

// SeriesStats describes one corner series (won or conceded) over the
// analysis window. Values run oldest to newest.
type SeriesStats struct {
	Values        []int   `json:"values"`
	WeightedAvg   float64 `json:"weighted_avg"`
	Median        float64 `json:"median"`
	Std           float64 `json:"std"`
	Min           int     `json:"min"`
	Max           int     `json:"max"`
	Consistency   float64 `json:"consistency"` // 0-100, higher = steadier
	Trend         string  `json:"trend"`
	Reliability90 float64 `json:"reliability_90"`
	RecentForm    []int   `json:"recent_form"` // up to the last 5 values
}

// VenueAverages is the home or away half of a team's venue split.
type VenueAverages struct {
	Matches     int     `json:"matches"`
	WonAvg      float64 `json:"corners_won_avg"`
	ConcededAvg float64 `json:"corners_conceded_avg"`
}

// FormAnalysis compares the last five games against the five before them.
type FormAnalysis struct {
	Status            string  `json:"status"` // "ok", "limited_data", "insufficient_data"
	RecentWonAvg      float64 `json:"recent_won_avg,omitempty"`
	RecentConcededAvg float64 `json:"recent_conceded_avg,omitempty"`
	WonTrend          string  `json:"won_trend,omitempty"`
	ConcededTrend     string  `json:"conceded_trend,omitempty"`
	OverallForm       string  `json:"overall_form,omitempty"` // "good", "poor", "mixed"
}

// TeamProfile is the full statistical profile for one team in one season,
// recomputed on every analysis call. Cutoff, when set, is the exclusive
// upper bound on match dates that fed the profile.
type TeamProfile struct {
	TeamID          int64      `json:"team_id"`
	TeamName        string     `json:"team_name"`
	Season          int        `json:"season"`
	MatchesAnalyzed int        `json:"matches_analyzed"`
	AnalyzedAt      time.Time  `json:"analyzed_at"`
	Cutoff          *time.Time `json:"cutoff,omitempty"`

	Won      SeriesStats `json:"corners_won"`
	Conceded SeriesStats `json:"corners_conceded"`

	HomeSplit     VenueAverages      `json:"home_split"`
	AwaySplit     VenueAverages      `json:"away_split"`
	MonthlyTotals map[string]float64 `json:"monthly_totals"` // "2025-04" -> avg total corners
	Form          FormAnalysis       `json:"form"`
	Difficulty    string             `json:"prediction_difficulty"`
}

// OverallConsistency averages the won and conceded consistency scores.
func (p *TeamProfile) OverallConsistency() float64 {
	return (p.Won.Consistency + p.Conceded.Consistency) / 2
}
