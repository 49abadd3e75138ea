package logic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cornerd/corners-api/internal/models"
)

// Estimator blend weights: direct averaging, consistency-weighted,
// trend-adjusted.
const (
	weightDirect      = 0.4
	weightConsistency = 0.4
	weightTrend       = 0.2

	homeAdvantage = 0.1
	decayRate     = 0.05
	venueWeight   = 1.3
	venueMinGames = 3
)

var errNoWeight = errors.New("no usable weight mass")

// ConsistencyService combines two team profiles into a match-level
// prediction draft with per-line confidence values.
type ConsistencyService struct {
	store    Store
	teams    *TeamStatsService
	log      *zap.SugaredLogger
	maxGames int
}

func NewConsistencyService(store Store, teams *TeamStatsService, log *zap.SugaredLogger, maxGames int) *ConsistencyService {
	return &ConsistencyService{store: store, teams: teams, log: log, maxGames: maxGames}
}

// AnalyzeMatch builds the prediction draft for home vs away. Both team
// profiles are computed concurrently; either team lacking history fails the
// whole analysis with ErrInsufficientData.
func (s *ConsistencyService) AnalyzeMatch(ctx context.Context, homeID, awayID int64, season int, cutoff *time.Time) (*models.ConsistencyAnalysis, error) {
	var home, away *models.TeamProfile

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.teams.AnalyzeTeam(gctx, homeID, season, cutoff)
		if err != nil {
			return fmt.Errorf("home team: %w", err)
		}
		home = p
		return nil
	})
	g.Go(func() error {
		p, err := s.teams.AnalyzeTeam(gctx, awayID, season, cutoff)
		if err != nil {
			return fmt.Errorf("away team: %w", err)
		}
		away = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	predictedHome, predictedAway := blendEstimates(home, away)

	analysis := &models.ConsistencyAnalysis{
		HomeTeamID:   homeID,
		AwayTeamID:   awayID,
		HomeTeamName: home.TeamName,
		AwayTeamName: away.TeamName,
		Season:       season,
		AnalyzedAt:   time.Now().UTC(),

		HomeWonConsistency:      home.Won.Consistency,
		HomeConcededConsistency: home.Conceded.Consistency,
		HomeOverallConsistency:  home.OverallConsistency(),
		HomeDifficulty:          home.Difficulty,
		HomeReliability90:       home.Won.Reliability90,

		AwayWonConsistency:      away.Won.Consistency,
		AwayConcededConsistency: away.Conceded.Consistency,
		AwayOverallConsistency:  away.OverallConsistency(),
		AwayDifficulty:          away.Difficulty,
		AwayReliability90:       away.Won.Reliability90,

		PredictedHomeCorners:  predictedHome,
		PredictedAwayCorners:  predictedAway,
		PredictedTotalCorners: predictedHome + predictedAway,
		MatchConsistency:      matchConsistency(home, away),

		HomeMatches: home.MatchesAnalyzed,
		AwayMatches: away.MatchesAnalyzed,
	}

	confidence, err := s.lineConfidences(ctx, homeID, awayID, season, cutoff, home.MatchesAnalyzed, away.MatchesAnalyzed)
	if err != nil {
		return nil, err
	}
	analysis.Confidence = confidence

	return analysis, nil
}

// blendEstimates combines three estimators with the fixed weights and
// applies the home-advantage multiplier.
func blendEstimates(home, away *models.TeamProfile) (predictedHome, predictedAway float64) {
	directHome := (home.Won.WeightedAvg + away.Conceded.WeightedAvg) / 2
	directAway := (away.Won.WeightedAvg + home.Conceded.WeightedAvg) / 2

	// Consistency weights: steadier series pull the blend toward the
	// team's own average rather than what the opponent concedes.
	homeWeight := (home.Won.Consistency + away.Conceded.Consistency) / 200
	awayWeight := (away.Won.Consistency + home.Conceded.Consistency) / 200
	if total := homeWeight + awayWeight; total > 0 {
		homeWeight /= total
		awayWeight /= total
	} else {
		homeWeight, awayWeight = 0.5, 0.5
	}

	weightedHome := home.Won.WeightedAvg*homeWeight + away.Conceded.WeightedAvg*(1-homeWeight)
	weightedAway := away.Won.WeightedAvg*awayWeight + home.Conceded.WeightedAvg*(1-awayWeight)

	trendHome := directHome + trendAdjustment(home.Won.Trend)
	trendAway := directAway + trendAdjustment(away.Won.Trend)

	predictedHome = directHome*weightDirect + weightedHome*weightConsistency + trendHome*weightTrend
	predictedAway = directAway*weightDirect + weightedAway*weightConsistency + trendAway*weightTrend

	predictedHome *= 1 + homeAdvantage
	predictedAway *= 1 - homeAdvantage*0.5
	return predictedHome, predictedAway
}

func trendAdjustment(trend string) float64 {
	switch trend {
	case models.TrendImproving:
		return 0.3
	case models.TrendDeclining:
		return -0.3
	default:
		return 0
	}
}

// matchConsistency is the equal-weighted mean of the four component
// consistency scores.
func matchConsistency(home, away *models.TeamProfile) float64 {
	return (home.Won.Consistency + home.Conceded.Consistency +
		away.Won.Consistency + away.Conceded.Consistency) / 4
}

// lineConfidences computes the confidence for every quoted line from both
// teams' historical hit rates. The venue-aware weighting is the primary
// path; when it cannot produce a rate the plain time-decay rate is used
// instead and the degradation is logged.
func (s *ConsistencyService) lineConfidences(ctx context.Context, homeID, awayID int64, season int, cutoff *time.Time, homeGames, awayGames int) (map[string]float64, error) {
	homeMatches, err := s.store.RecentCompletedMatches(ctx, homeID, season, s.maxGames, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to load home line history: %w", err)
	}
	awayMatches, err := s.store.RecentCompletedMatches(ctx, awayID, season, s.maxGames, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to load away line history: %w", err)
	}

	minGames := homeGames
	if awayGames < minGames {
		minGames = awayGames
	}
	samplePenalty := math.Min(float64(minGames), 7) / 7

	pure := (pureLineRate(homeMatches, 5.5) + pureLineRate(awayMatches, 5.5)) / 2
	consistencyFactor := 0.8 + (pure/100)*0.2
	if homeGames < 5 || awayGames < 5 {
		consistencyFactor *= 0.85
	}

	out := make(map[string]float64, len(models.Lines))
	for _, line := range models.Lines {
		homeRate := s.weightedHitRate(homeMatches, homeID, line, true)
		awayRate := s.weightedHitRate(awayMatches, awayID, line, false)
		base := (homeRate + awayRate) / 2

		confidence := base * samplePenalty * consistencyFactor
		out[models.LineKey(line)] = math.Max(5, confidence)
	}
	return out, nil
}

// weightedHitRate runs the venue-aware computation and falls back to plain
// time decay when it degrades.
func (s *ConsistencyService) weightedHitRate(matches []models.Match, teamID int64, line float64, atHome bool) float64 {
	rate, err := venueWeightedHitRate(matches, teamID, line, atHome)
	if err != nil {
		s.log.Debugw("venue weighting degraded to time decay",
			"team_id", teamID, "line", line, "error", err)
		return timeDecayHitRate(matches, line)
	}
	return rate
}

// venueWeightedHitRate weights each game by exponential recency decay and
// boosts games at the relevant venue by 1.3 once at least 3 such games are
// observed. Matches must be ordered newest first.
func venueWeightedHitRate(matches []models.Match, teamID int64, line float64, atHome bool) (float64, error) {
	relevantVenueGames := 0
	for _, m := range matches {
		if (m.HomeTeamID == teamID) == atHome {
			relevantVenueGames++
		}
	}
	venueUsable := relevantVenueGames >= venueMinGames

	var hitMass, totalMass float64
	for i, m := range matches {
		if m.CornersHome == nil || m.CornersAway == nil {
			continue
		}
		w := math.Exp(-decayRate * float64(i))
		if venueUsable && (m.HomeTeamID == teamID) == atHome {
			w *= venueWeight
		}
		totalMass += w
		if float64(m.TotalCorners()) > line {
			hitMass += w
		}
	}
	if totalMass == 0 {
		return 0, errNoWeight
	}
	return hitMass / totalMass * 100, nil
}

// timeDecayHitRate is the defined fallback: recency decay only, no venue
// weighting.
func timeDecayHitRate(matches []models.Match, line float64) float64 {
	var hitMass, totalMass float64
	for i, m := range matches {
		if m.CornersHome == nil || m.CornersAway == nil {
			continue
		}
		w := math.Exp(-decayRate * float64(i))
		totalMass += w
		if float64(m.TotalCorners()) > line {
			hitMass += w
		}
	}
	if totalMass == 0 {
		return 0
	}
	return hitMass / totalMass * 100
}

// pureLineRate is the unweighted historical hit rate at a line, independent
// of opponent and venue.
func pureLineRate(matches []models.Match, line float64) float64 {
	if len(matches) == 0 {
		return 0
	}
	hits := 0
	counted := 0
	for _, m := range matches {
		if m.CornersHome == nil || m.CornersAway == nil {
			continue
		}
		counted++
		if float64(m.TotalCorners()) > line {
			hits++
		}
	}
	if counted == 0 {
		return 0
	}
	return float64(hits) / float64(counted) * 100
}
