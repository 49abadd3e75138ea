package logic

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cornerd/corners-api/internal/models"
)

func goalMatch(id, homeID, awayID int64, date time.Time, goalsHome, goalsAway int) models.Match {
	m := completedMatch(id, homeID, awayID, date, 5, 4)
	m.GoalsHome = intPtr(goalsHome)
	m.GoalsAway = intPtr(goalsAway)
	return m
}

func goalHistory(teamID int64, games int, scores, concedes bool) []models.Match {
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	var matches []models.Match
	for i := 0; i < games; i++ {
		forGoals, againstGoals := 0, 0
		if scores {
			forGoals = 2
		}
		if concedes {
			againstGoals = 1
		}
		matches = append(matches, goalMatch(int64(i+1), teamID, 99, base.AddDate(0, 0, -7*i), forGoals, againstGoals))
	}
	return matches
}

func TestGoalsPredict(t *testing.T) {
	histories := map[int64][]models.Match{
		1: goalHistory(1, 10, true, false), // always scores, never concedes
		2: goalHistory(2, 10, true, true),  // always scores, always concedes
	}
	store := &MockStore{
		RecentCompletedMatchesFunc: func(ctx context.Context, teamID int64, season, limit int, before *time.Time) ([]models.Match, error) {
			return histories[teamID], nil
		},
	}
	s := NewGoalsService(store, testLogger(), 20)

	prediction, err := s.Predict(context.Background(), 1, 2, 2025, nil)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	// Home scores 100% and the opponent concedes 100%: probability 100.
	if prediction.HomeScoreProbability != 100 {
		t.Errorf("HomeScoreProbability = %v, want 100", prediction.HomeScoreProbability)
	}
	// Away scores 100% but team 1 never concedes; the blend sits between.
	if prediction.AwayScoreProbability >= 100 || prediction.AwayScoreProbability <= 0 {
		t.Errorf("AwayScoreProbability = %v, want inside (0, 100)", prediction.AwayScoreProbability)
	}
	wantBTTS := prediction.HomeScoreProbability * prediction.AwayScoreProbability / 100
	if math.Abs(prediction.BTTSProbability-wantBTTS) > 1e-9 {
		t.Errorf("BTTSProbability = %v, want %v", prediction.BTTSProbability, wantBTTS)
	}
	if prediction.Reliability != "Good" {
		t.Errorf("Reliability = %q, want Good for 10 games", prediction.Reliability)
	}
}

func TestGoalsPredictNoHistory(t *testing.T) {
	store := &MockStore{}
	s := NewGoalsService(store, testLogger(), 20)

	_, err := s.Predict(context.Background(), 1, 2, 2025, nil)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestClassifyAttack(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{85, strengthVeryStrong},
		{70, strengthStrong},
		{50, strengthAverage},
		{35, strengthWeak},
		{10, strengthVeryWeak},
	}
	for _, tt := range tests {
		if got := classifyAttack(tt.rate); got != tt.want {
			t.Errorf("classifyAttack(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestClassifyDefense(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{10, strengthVeryStrong},
		{30, strengthStrong},
		{50, strengthAverage},
		{65, strengthWeak},
		{90, strengthVeryWeak},
	}
	for _, tt := range tests {
		if got := classifyDefense(tt.rate); got != tt.want {
			t.Errorf("classifyDefense(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestWeightMatrixNormalized(t *testing.T) {
	for attack, row := range weightMatrix {
		for defense, w := range row {
			if math.Abs(w.attack+w.defense-1) > 1e-9 {
				t.Errorf("weights[%s][%s] = %v+%v, want sum 1", attack, defense, w.attack, w.defense)
			}
		}
	}
}

func TestAdjustForSampleSize(t *testing.T) {
	base := weightPair{attack: 0.8, defense: 0.2}

	// Plenty of games: untouched.
	if got := adjustForSampleSize(base, 10, 10); got != base {
		t.Errorf("large sample adjusted to %v, want %v", got, base)
	}

	// Thin sample pulls toward 0.5/0.5 but keeps the ordering.
	got := adjustForSampleSize(base, 3, 10)
	if got.attack >= base.attack || got.attack <= 0.5 {
		t.Errorf("thin sample attack = %v, want between 0.5 and %v", got.attack, base.attack)
	}
	if math.Abs(got.attack+got.defense-1) > 1e-9 {
		t.Errorf("adjusted weights sum = %v, want 1", got.attack+got.defense)
	}

	// Under 5 games shrinks harder than under 8.
	softer := adjustForSampleSize(base, 6, 10)
	if got.attack >= softer.attack {
		t.Errorf("shrink under 5 games (%v) should pull harder than under 8 (%v)", got.attack, softer.attack)
	}
}

func TestWeightConfidenceBoost(t *testing.T) {
	tests := []struct {
		w    weightPair
		want float64
	}{
		{weightPair{0.8, 0.2}, 1.15},
		{weightPair{0.2, 0.8}, 1.15},
		{weightPair{0.65, 0.35}, 1.10},
		{weightPair{0.6, 0.4}, 1.05},
		{weightPair{0.5, 0.5}, 1.0},
	}
	for _, tt := range tests {
		if got := weightConfidenceBoost(tt.w); got != tt.want {
			t.Errorf("weightConfidenceBoost(%v) = %v, want %v", tt.w, got, tt.want)
		}
	}
}
