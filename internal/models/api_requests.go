package models

type PredictMatchRequest struct {
	HomeTeamID int64 `json:"home_team_id" validate:"required,gt=0"`
	AwayTeamID int64 `json:"away_team_id" validate:"required,gt=0,nefield=HomeTeamID"`
	Season     int   `json:"season" validate:"required,gte=2000"`
	NoStore    bool  `json:"no_store"`
}

type VerifyPredictionRequest struct {
	ActualHomeCorners *int   `json:"actual_home_corners" validate:"required,gte=0"`
	ActualAwayCorners *int   `json:"actual_away_corners" validate:"required,gte=0"`
	Manual            bool   `json:"manual"`
	Notes             string `json:"notes"`
}

type RunBacktestRequest struct {
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"` // single date; empty = whole season
	Season   int    `json:"season" validate:"required,gte=2000"`
	MaxDates int    `json:"max_dates" validate:"gte=0"`
}

type CompareTeamsRequest struct {
	TeamA  int64 `json:"team_a" validate:"required,gt=0"`
	TeamB  int64 `json:"team_b" validate:"required,gt=0,nefield=TeamA"`
	Season int   `json:"season" validate:"required,gte=2000"`
}
