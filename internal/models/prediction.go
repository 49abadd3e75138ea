package models

import "time"

// Lines are the corner betting lines the system quotes confidence for.
var Lines = []float64{5.5, 6.5, 7.5, 8.5}

// LineKey renders a line value as a confidence-map key ("over_5_5").
func LineKey(line float64) string {
	switch line {
	case 5.5:
		return "over_5_5"
	case 6.5:
		return "over_6_5"
	case 7.5:
		return "over_7_5"
	case 8.5:
		return "over_8_5"
	}
	return ""
}

// ConsistencyAnalysis is the match-level combination of two team profiles:
// the prediction draft before adjustment analyzers run.
type ConsistencyAnalysis struct {
	HomeTeamID   int64     `json:"home_team_id"`
	AwayTeamID   int64     `json:"away_team_id"`
	HomeTeamName string    `json:"home_team_name"`
	AwayTeamName string    `json:"away_team_name"`
	Season       int       `json:"season"`
	AnalyzedAt   time.Time `json:"analyzed_at"`

	HomeWonConsistency      float64 `json:"home_corners_won_consistency"`
	HomeConcededConsistency float64 `json:"home_corners_conceded_consistency"`
	HomeOverallConsistency  float64 `json:"home_overall_consistency"`
	HomeDifficulty          string  `json:"home_prediction_difficulty"`
	HomeReliability90       float64 `json:"home_reliability_90"`

	AwayWonConsistency      float64 `json:"away_corners_won_consistency"`
	AwayConcededConsistency float64 `json:"away_corners_conceded_consistency"`
	AwayOverallConsistency  float64 `json:"away_overall_consistency"`
	AwayDifficulty          string  `json:"away_prediction_difficulty"`
	AwayReliability90       float64 `json:"away_reliability_90"`

	PredictedTotalCorners float64 `json:"predicted_total_corners"`
	PredictedHomeCorners  float64 `json:"predicted_home_corners"`
	PredictedAwayCorners  float64 `json:"predicted_away_corners"`
	MatchConsistency      float64 `json:"match_consistency_score"`

	// Confidence keyed by LineKey; adjustment analyzers may rewrite the
	// values in place, nothing else mutates the draft after construction.
	Confidence map[string]float64 `json:"prediction_confidence"`

	HomeMatches int `json:"home_matches_analyzed"`
	AwayMatches int `json:"away_matches_analyzed"`
}

// Head-to-head reliability labels. "Insufficient" means the matchup history
// must not adjust the prediction.
const (
	H2HReliabilityHigh         = "High"
	H2HReliabilityMedium       = "Medium"
	H2HReliabilityLow          = "Low"
	H2HReliabilityInsufficient = "Insufficient"
)

// HeadToHeadAnalysis summarizes prior meetings between two specific teams.
type HeadToHeadAnalysis struct {
	HomeTeamID int64 `json:"home_team_id"`
	AwayTeamID int64 `json:"away_team_id"`
	Season     int   `json:"season"`

	TotalMeetings       int   `json:"total_meetings"`
	MeetingsWithCorners int   `json:"meetings_with_corner_data"`
	SeasonsAnalyzed     []int `json:"seasons_analyzed"`

	AvgTotalCorners float64 `json:"avg_total_corners"`
	AvgHomeCorners  float64 `json:"avg_home_corners"`
	AvgAwayCorners  float64 `json:"avg_away_corners"`
	Consistency     float64 `json:"h2h_consistency"`
	MinTotal        int     `json:"min_total_corners"`
	MaxTotal        int     `json:"max_total_corners"`

	RecentTrend      string  `json:"recent_trend"` // "increasing", "decreasing", "stable"
	HomeAdvantage    float64 `json:"home_advantage_factor"`
	Reliability      string  `json:"h2h_reliability"`
	AdjustmentFactor float64 `json:"h2h_adjustment_factor"`
	ConfidenceBoost  float64 `json:"confidence_boost"`
}

// GoalsPrediction is the BTTS/scoring sub-prediction attached to a match
// prediction. It is advisory: failure to compute one never fails the
// corner prediction.
type GoalsPrediction struct {
	HomeScoreProbability float64 `json:"home_team_score_probability"`
	AwayScoreProbability float64 `json:"away_team_score_probability"`
	BTTSProbability      float64 `json:"btts_probability"`
	Reliability          string  `json:"reliability"`
	ConfidenceBoost      float64 `json:"confidence_boost"`
	Reasoning            string  `json:"reasoning,omitempty"`
}

// LineCall is one over/under call with its confidence.
type LineCall struct {
	Line       float64 `json:"line"`
	Over       bool    `json:"over"`
	Confidence float64 `json:"confidence"`
}

// MatchPrediction is the final assembled prediction. ID, MatchID and
// CreatedAt are set when the prediction is persisted; a backtest
// prediction leaves them zero.
type MatchPrediction struct {
	ID        string    `json:"id,omitempty"`
	MatchID   int64     `json:"match_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`

	HomeTeamID   int64  `json:"home_team_id"`
	AwayTeamID   int64  `json:"away_team_id"`
	HomeTeamName string `json:"home_team_name"`
	AwayTeamName string `json:"away_team_name"`
	Season       int    `json:"season"`

	PredictedTotalCorners float64 `json:"predicted_total_corners"`
	PredictedHomeCorners  float64 `json:"predicted_home_corners"`
	PredictedAwayCorners  float64 `json:"predicted_away_corners"`

	LineCalls []LineCall `json:"line_calls"`

	ExpectedMin       float64 `json:"expected_total_min"`
	ExpectedMax       float64 `json:"expected_total_max"`
	MostLikelyOutcome string  `json:"most_likely_outcome"`

	PredictionQuality     string  `json:"prediction_quality"` // Excellent/Good/Fair/Poor
	StatisticalConfidence float64 `json:"statistical_confidence"`
	DataReliability       string  `json:"data_reliability"` // Excellent/Good/Fair/Poor

	ConsistencyScore float64 `json:"consistency_score"`
	HomeTeamForm     string  `json:"home_team_form"`
	AwayTeamForm     string  `json:"away_team_form"`

	HeadToHeadApplied bool             `json:"head_to_head_applied"`
	Goals             *GoalsPrediction `json:"goal_predictions,omitempty"`

	AnalysisSummary string `json:"analysis_summary"`
	Recommendation  string `json:"recommendation"`
}

// Call returns the line call for the given line, or nil.
func (p *MatchPrediction) Call(line float64) *LineCall {
	for i := range p.LineCalls {
		if p.LineCalls[i].Line == line {
			return &p.LineCalls[i]
		}
	}
	return nil
}
