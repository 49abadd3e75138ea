package models

import "time"

// Team is one club in one season. Teams are re-registered per season so
// promoted/relegated sides never leak history across seasons.
type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country,omitempty"`
	VenueName string    `json:"venue_name,omitempty"`
	Season    int       `json:"season"`
	CreatedAt time.Time `json:"created_at"`
}

// Match is an immutable historical fact. Corner counts are nil until the
// match has finished and stats have been ingested.
type Match struct {
	ID          int64     `json:"id"`
	HomeTeamID  int64     `json:"home_team_id"`
	AwayTeamID  int64     `json:"away_team_id"`
	Date        time.Time `json:"match_date"`
	Season      int       `json:"season"`
	Status      string    `json:"status"` // "FT" once completed
	CornersHome *int      `json:"corners_home,omitempty"`
	CornersAway *int      `json:"corners_away,omitempty"`
	GoalsHome   *int      `json:"goals_home,omitempty"`
	GoalsAway   *int      `json:"goals_away,omitempty"`
}

// Completed reports whether the match finished with corner data recorded.
func (m *Match) Completed() bool {
	return m.Status == "FT" && m.CornersHome != nil && m.CornersAway != nil
}

// TotalCorners returns home+away corners, or 0 when not yet recorded.
func (m *Match) TotalCorners() int {
	if m.CornersHome == nil || m.CornersAway == nil {
		return 0
	}
	return *m.CornersHome + *m.CornersAway
}
