package logic

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cornerd/corners-api/internal/models"
)

// GoalsService produces the BTTS sub-prediction attached to corner
// predictions. It shares the corner window but reads goal counts.
type GoalsService struct {
	store    Store
	log      *zap.SugaredLogger
	maxGames int
}

func NewGoalsService(store Store, log *zap.SugaredLogger, maxGames int) *GoalsService {
	return &GoalsService{store: store, log: log, maxGames: maxGames}
}

type goalRates struct {
	games        int
	scoresRate   float64 // % of games scoring 1+
	concedesRate float64 // % of games conceding 1+
	goalsPerGame float64
	concededAvg  float64
}

// Predict estimates each side's probability to score and the combined
// both-teams-to-score probability, using the strength-matchup weight
// matrix. Either team lacking goal data fails with ErrInsufficientData.
func (s *GoalsService) Predict(ctx context.Context, homeID, awayID int64, season int, cutoff *time.Time) (*models.GoalsPrediction, error) {
	home, err := s.teamGoalRates(ctx, homeID, season, cutoff)
	if err != nil {
		return nil, err
	}
	away, err := s.teamGoalRates(ctx, awayID, season, cutoff)
	if err != nil {
		return nil, err
	}
	if home.games == 0 || away.games == 0 {
		return nil, fmt.Errorf("goal history missing: %w", ErrInsufficientData)
	}

	homeProb, homeBoost, homeDesc := scoringProbability(home, away)
	awayProb, awayBoost, awayDesc := scoringProbability(away, home)

	minGames := home.games
	if away.games < minGames {
		minGames = away.games
	}

	return &models.GoalsPrediction{
		HomeScoreProbability: homeProb,
		AwayScoreProbability: awayProb,
		BTTSProbability:      homeProb * awayProb / 100,
		Reliability:          goalDataQuality(minGames),
		ConfidenceBoost:      (homeBoost + awayBoost) / 2,
		Reasoning:            fmt.Sprintf("home: %s; away: %s", homeDesc, awayDesc),
	}, nil
}

// scoringProbability blends a team's scoring rate with the opponent's
// conceding rate using the matchup weights.
func scoringProbability(attacker, defender goalRates) (prob, boost float64, desc string) {
	w := dynamicWeights(attacker.scoresRate, defender.concedesRate)
	w = adjustForSampleSize(w, attacker.games, defender.games)

	prob = attacker.scoresRate*w.attack + defender.concedesRate*w.defense
	boost = weightConfidenceBoost(w)
	desc = fmt.Sprintf("%s attack vs %s defense (%.0f%%/%.0f%%)",
		classifyAttack(attacker.scoresRate), classifyDefense(defender.concedesRate),
		w.attack*100, w.defense*100)
	return prob, boost, desc
}

func (s *GoalsService) teamGoalRates(ctx context.Context, teamID int64, season int, cutoff *time.Time) (goalRates, error) {
	matches, err := s.store.RecentCompletedMatches(ctx, teamID, season, s.maxGames, cutoff)
	if err != nil {
		return goalRates{}, fmt.Errorf("failed to load goal history for team %d: %w", teamID, err)
	}

	var r goalRates
	var scored, conceded, scoredTotal, concededTotal int
	for _, m := range matches {
		if m.GoalsHome == nil || m.GoalsAway == nil {
			continue
		}
		var forGoals, againstGoals int
		if m.HomeTeamID == teamID {
			forGoals, againstGoals = *m.GoalsHome, *m.GoalsAway
		} else {
			forGoals, againstGoals = *m.GoalsAway, *m.GoalsHome
		}
		r.games++
		scoredTotal += forGoals
		concededTotal += againstGoals
		if forGoals >= 1 {
			scored++
		}
		if againstGoals >= 1 {
			conceded++
		}
	}
	if r.games > 0 {
		r.scoresRate = float64(scored) / float64(r.games) * 100
		r.concedesRate = float64(conceded) / float64(r.games) * 100
		r.goalsPerGame = float64(scoredTotal) / float64(r.games)
		r.concededAvg = float64(concededTotal) / float64(r.games)
	}
	return r, nil
}

func goalDataQuality(games int) string {
	switch {
	case games >= 15:
		return "Excellent"
	case games >= 10:
		return "Good"
	case games >= 5:
		return "Fair"
	default:
		return "Poor"
	}
}
