package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cornerd/corners-api/internal/models"
)

type TeamStatsService struct {
	store    Store
	cache    ProfileCache
	log      *zap.SugaredLogger
	minGames int
	maxGames int
	cacheTTL time.Duration
}

func NewTeamStatsService(store Store, cache ProfileCache, log *zap.SugaredLogger, minGames, maxGames int, cacheTTL time.Duration) *TeamStatsService {
	return &TeamStatsService{
		store:    store,
		cache:    cache,
		log:      log,
		minGames: minGames,
		maxGames: maxGames,
		cacheTTL: cacheTTL,
	}
}

// AnalyzeTeam builds the full statistical profile for a team in a season.
// A non-nil cutoff restricts the analysis to matches strictly before it, so
// backtests see only what was known at the time. Profiles without a cutoff
// are cached in Redis; cache failures fall through to recomputation.
func (s *TeamStatsService) AnalyzeTeam(ctx context.Context, teamID int64, season int, cutoff *time.Time) (*models.TeamProfile, error) {
	cacheKey := ""
	if cutoff == nil && s.cache != nil {
		cacheKey = fmt.Sprintf("profile:%d:%d", season, teamID)
		if raw, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var cached models.TeamProfile
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	team, err := s.store.GetTeam(ctx, teamID, season)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, fmt.Errorf("team %d season %d: %w", teamID, season, ErrNotFound)
	}

	// Newest first from the store; reversed below for recency weighting.
	matches, err := s.store.RecentCompletedMatches(ctx, teamID, season, s.maxGames, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches for team %d: %w", teamID, err)
	}
	if len(matches) < s.minGames {
		return nil, fmt.Errorf("team %d has %d matches, need %d: %w", teamID, len(matches), s.minGames, ErrInsufficientData)
	}

	ordered := make([]models.Match, len(matches))
	for i := range matches {
		ordered[len(matches)-1-i] = matches[i]
	}

	won, conceded := cornerSeries(ordered, teamID)

	profile := &models.TeamProfile{
		TeamID:          teamID,
		TeamName:        team.Name,
		Season:          season,
		MatchesAnalyzed: len(ordered),
		AnalyzedAt:      time.Now().UTC(),
		Cutoff:          cutoff,

		Won:      buildSeriesStats(won),
		Conceded: buildSeriesStats(conceded),

		MonthlyTotals: monthlyTotals(ordered),
		Form:          analyzeRecentForm(won, conceded),
	}
	profile.HomeSplit, profile.AwaySplit = venueSplit(ordered, teamID)
	profile.Difficulty = classifyDifficulty(profile.Won.Consistency, profile.Conceded.Consistency)

	if cacheKey != "" {
		if raw, err := json.Marshal(profile); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, s.cacheTTL).Err(); err != nil {
				s.log.Debugw("profile cache write failed", "team_id", teamID, "error", err)
			}
		}
	}

	return profile, nil
}

// cornerSeries splits each match's corners into won/conceded from the
// team's perspective. Matches must be ordered oldest to newest.
func cornerSeries(matches []models.Match, teamID int64) (won, conceded []int) {
	won = make([]int, 0, len(matches))
	conceded = make([]int, 0, len(matches))
	for _, m := range matches {
		if m.CornersHome == nil || m.CornersAway == nil {
			continue
		}
		if m.HomeTeamID == teamID {
			won = append(won, *m.CornersHome)
			conceded = append(conceded, *m.CornersAway)
		} else {
			won = append(won, *m.CornersAway)
			conceded = append(conceded, *m.CornersHome)
		}
	}
	return won, conceded
}

func buildSeriesStats(values []int) models.SeriesStats {
	lo, hi := minMax(values)
	recent := values
	if len(values) > 5 {
		recent = values[len(values)-5:]
	}
	return models.SeriesStats{
		Values:        values,
		WeightedAvg:   weightedAverage(values),
		Median:        median(values),
		Std:           populationStd(values),
		Min:           lo,
		Max:           hi,
		Consistency:   consistencyScore(values),
		Trend:         trendLabel(values),
		Reliability90: reliabilityThreshold(values, 0.90),
		RecentForm:    recent,
	}
}

func venueSplit(matches []models.Match, teamID int64) (home, away models.VenueAverages) {
	var homeWon, homeConceded, awayWon, awayConceded []int
	for _, m := range matches {
		if m.CornersHome == nil || m.CornersAway == nil {
			continue
		}
		if m.HomeTeamID == teamID {
			homeWon = append(homeWon, *m.CornersHome)
			homeConceded = append(homeConceded, *m.CornersAway)
		} else {
			awayWon = append(awayWon, *m.CornersAway)
			awayConceded = append(awayConceded, *m.CornersHome)
		}
	}
	home = models.VenueAverages{Matches: len(homeWon), WonAvg: mean(homeWon), ConcededAvg: mean(homeConceded)}
	away = models.VenueAverages{Matches: len(awayWon), WonAvg: mean(awayWon), ConcededAvg: mean(awayConceded)}
	return home, away
}

// monthlyTotals averages total match corners per calendar month played.
func monthlyTotals(matches []models.Match) map[string]float64 {
	buckets := make(map[string][]int)
	for _, m := range matches {
		if m.CornersHome == nil || m.CornersAway == nil {
			continue
		}
		key := m.Date.Format("2006-01")
		buckets[key] = append(buckets[key], m.TotalCorners())
	}
	out := make(map[string]float64, len(buckets))
	for month, totals := range buckets {
		out[month] = mean(totals)
	}
	return out
}

// analyzeRecentForm compares the last 5 games against the 5 before them.
// For conceded corners a drop is an improvement.
func analyzeRecentForm(won, conceded []int) models.FormAnalysis {
	if len(won) < 5 {
		return models.FormAnalysis{Status: "insufficient_data"}
	}

	recentWon := won[len(won)-5:]
	recentConceded := conceded[len(conceded)-5:]

	if len(won) < 10 {
		return models.FormAnalysis{
			Status:            "limited_data",
			RecentWonAvg:      mean(recentWon),
			RecentConcededAvg: mean(recentConceded),
		}
	}

	earlierWon := won[len(won)-10 : len(won)-5]
	earlierConceded := conceded[len(conceded)-10 : len(conceded)-5]

	wonDelta := mean(recentWon) - mean(earlierWon)
	concededDelta := mean(earlierConceded) - mean(recentConceded)

	overall := "mixed"
	switch {
	case wonDelta > 0 && concededDelta > 0:
		overall = "good"
	case wonDelta < 0 && concededDelta < 0:
		overall = "poor"
	}

	return models.FormAnalysis{
		Status:            "ok",
		RecentWonAvg:      mean(recentWon),
		RecentConcededAvg: mean(recentConceded),
		WonTrend:          formTrend(wonDelta),
		ConcededTrend:     formTrend(concededDelta),
		OverallForm:       overall,
	}
}

func formTrend(delta float64) string {
	switch {
	case delta > 0.5:
		return models.TrendImproving
	case delta < -0.5:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

func classifyDifficulty(wonConsistency, concededConsistency float64) string {
	avg := (wonConsistency + concededConsistency) / 2
	switch {
	case avg >= 75:
		return models.DifficultyEasy
	case avg >= 60:
		return models.DifficultyModerate
	default:
		return models.DifficultyDifficult
	}
}
