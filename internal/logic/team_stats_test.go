package logic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cornerd/corners-api/internal/models"
)

func TestAnalyzeTeamInsufficientData(t *testing.T) {
	store := &MockStore{
		RecentCompletedMatchesFunc: func(ctx context.Context, teamID int64, season, limit int, before *time.Time) ([]models.Match, error) {
			return []models.Match{
				completedMatch(1, teamID, 99, time.Now(), 5, 4),
				completedMatch(2, 98, teamID, time.Now(), 3, 6),
			}, nil
		},
	}
	s := NewTeamStatsService(store, nil, testLogger(), 3, 20, 0)

	_, err := s.AnalyzeTeam(context.Background(), 1, 2025, nil)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestAnalyzeTeamUnknownTeam(t *testing.T) {
	store := &MockStore{
		GetTeamFunc: func(ctx context.Context, teamID int64, season int) (*models.Team, error) {
			return nil, nil
		},
	}
	s := NewTeamStatsService(store, nil, testLogger(), 3, 20, 0)

	_, err := s.AnalyzeTeam(context.Background(), 7, 2025, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAnalyzeTeamProfile(t *testing.T) {
	base := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)
	teamID := int64(1)
	// Newest first, as the store contract requires. The team always wins
	// 6 corners and concedes 4.
	var matches []models.Match
	for i := 0; i < 6; i++ {
		date := base.AddDate(0, 0, -7*i)
		if i%2 == 0 {
			matches = append(matches, completedMatch(int64(i+1), teamID, 50, date, 6, 4))
		} else {
			matches = append(matches, completedMatch(int64(i+1), 50, teamID, date, 4, 6))
		}
	}

	store := &MockStore{
		GetTeamFunc: func(ctx context.Context, id int64, season int) (*models.Team, error) {
			return &models.Team{ID: id, Name: "Arsenal", Season: season}, nil
		},
		RecentCompletedMatchesFunc: func(ctx context.Context, id int64, season, limit int, before *time.Time) ([]models.Match, error) {
			return matches, nil
		},
	}
	s := NewTeamStatsService(store, nil, testLogger(), 3, 20, 0)

	profile, err := s.AnalyzeTeam(context.Background(), teamID, 2025, nil)
	if err != nil {
		t.Fatalf("AnalyzeTeam: %v", err)
	}

	if profile.TeamName != "Arsenal" {
		t.Errorf("TeamName = %q, want Arsenal", profile.TeamName)
	}
	if profile.MatchesAnalyzed != 6 {
		t.Errorf("MatchesAnalyzed = %d, want 6", profile.MatchesAnalyzed)
	}
	if profile.Won.WeightedAvg != 6 {
		t.Errorf("Won.WeightedAvg = %v, want 6", profile.Won.WeightedAvg)
	}
	if profile.Conceded.WeightedAvg != 4 {
		t.Errorf("Conceded.WeightedAvg = %v, want 4", profile.Conceded.WeightedAvg)
	}
	if profile.Won.Consistency != 100 {
		t.Errorf("Won.Consistency = %v, want 100", profile.Won.Consistency)
	}
	if profile.Difficulty != models.DifficultyEasy {
		t.Errorf("Difficulty = %q, want %q", profile.Difficulty, models.DifficultyEasy)
	}
	if profile.HomeSplit.Matches != 3 || profile.AwaySplit.Matches != 3 {
		t.Errorf("venue split = %d/%d, want 3/3", profile.HomeSplit.Matches, profile.AwaySplit.Matches)
	}
	if profile.HomeSplit.WonAvg != 6 || profile.AwaySplit.WonAvg != 6 {
		t.Errorf("venue won averages = %v/%v, want 6/6", profile.HomeSplit.WonAvg, profile.AwaySplit.WonAvg)
	}
}

func TestAnalyzeRecentForm(t *testing.T) {
	tests := []struct {
		name       string
		won        []int
		conceded   []int
		wantStatus string
		wantForm   string
	}{
		{
			name:       "TooFewGames",
			won:        []int{5, 6, 7},
			conceded:   []int{4, 4, 4},
			wantStatus: "insufficient_data",
		},
		{
			name:       "LimitedData",
			won:        []int{5, 6, 7, 6, 5, 6},
			conceded:   []int{4, 4, 4, 4, 4, 4},
			wantStatus: "limited_data",
		},
		{
			name:       "GoodForm",
			won:        []int{3, 3, 3, 3, 3, 7, 7, 7, 7, 7},
			conceded:   []int{6, 6, 6, 6, 6, 2, 2, 2, 2, 2},
			wantStatus: "ok",
			wantForm:   "good",
		},
		{
			name:       "PoorForm",
			won:        []int{7, 7, 7, 7, 7, 3, 3, 3, 3, 3},
			conceded:   []int{2, 2, 2, 2, 2, 6, 6, 6, 6, 6},
			wantStatus: "ok",
			wantForm:   "poor",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := analyzeRecentForm(tt.won, tt.conceded)
			if form.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", form.Status, tt.wantStatus)
			}
			if tt.wantForm != "" && form.OverallForm != tt.wantForm {
				t.Errorf("OverallForm = %q, want %q", form.OverallForm, tt.wantForm)
			}
		})
	}
}

func TestMonthlyTotals(t *testing.T) {
	matches := []models.Match{
		completedMatch(1, 1, 2, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), 4, 4),
		completedMatch(2, 2, 1, time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC), 6, 6),
		completedMatch(3, 1, 3, time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC), 3, 2),
	}
	totals := monthlyTotals(matches)
	if got := totals["2025-01"]; got != 10 {
		t.Errorf("January = %v, want 10", got)
	}
	if got := totals["2025-02"]; got != 5 {
		t.Errorf("February = %v, want 5", got)
	}
}
