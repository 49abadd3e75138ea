package logic

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cornerd/corners-api/internal/models"
)

const (
	h2hMinMeetings     = 2
	h2hSeasonsLookback = 3
)

// HeadToHeadService analyzes prior meetings between two specific teams.
// Meetings are drawn from completed seasons only, so the signal is immune
// to in-season leakage and needs no cutoff parameter.
type HeadToHeadService struct {
	store Store
	log   *zap.SugaredLogger
}

func NewHeadToHeadService(store Store, log *zap.SugaredLogger) *HeadToHeadService {
	return &HeadToHeadService{store: store, log: log}
}

// Analyze summarizes the matchup history. Fewer than 2 prior meetings with
// corner data is a valid non-adjusting outcome, returned as
// ErrInsufficientData.
func (s *HeadToHeadService) Analyze(ctx context.Context, homeID, awayID int64, season int) (*models.HeadToHeadAnalysis, error) {
	seasons := make([]int, 0, h2hSeasonsLookback)
	for y := season - h2hSeasonsLookback; y < season; y++ {
		seasons = append(seasons, y)
	}

	// Newest first.
	meetings, err := s.store.MeetingsBetween(ctx, homeID, awayID, seasons)
	if err != nil {
		return nil, fmt.Errorf("failed to load meetings: %w", err)
	}
	if len(meetings) < h2hMinMeetings {
		return nil, fmt.Errorf("%d prior meetings, need %d: %w", len(meetings), h2hMinMeetings, ErrInsufficientData)
	}

	withCorners := make([]models.Match, 0, len(meetings))
	seasonSet := make(map[int]struct{})
	mostRecentSeason := 0
	for _, m := range meetings {
		seasonSet[m.Season] = struct{}{}
		if m.Season > mostRecentSeason {
			mostRecentSeason = m.Season
		}
		if m.CornersHome != nil && m.CornersAway != nil {
			withCorners = append(withCorners, m)
		}
	}
	seasonsAnalyzed := make([]int, 0, len(seasonSet))
	for y := season - h2hSeasonsLookback; y < season; y++ {
		if _, ok := seasonSet[y]; ok {
			seasonsAnalyzed = append(seasonsAnalyzed, y)
		}
	}

	totals, homeCorners, awayCorners := h2hCornerSeries(withCorners, homeID)

	analysis := &models.HeadToHeadAnalysis{
		HomeTeamID:          homeID,
		AwayTeamID:          awayID,
		Season:              season,
		TotalMeetings:       len(meetings),
		MeetingsWithCorners: len(withCorners),
		SeasonsAnalyzed:     seasonsAnalyzed,

		AvgTotalCorners: mean(totals),
		AvgHomeCorners:  mean(homeCorners),
		AvgAwayCorners:  mean(awayCorners),
		Consistency:     h2hConsistency(totals),

		RecentTrend:   h2hRecentTrend(totals),
		HomeAdvantage: h2hHomeAdvantage(withCorners, homeID),
		Reliability:   h2hReliability(len(withCorners), season-mostRecentSeason),
	}
	if len(totals) > 0 {
		analysis.MinTotal, analysis.MaxTotal = minMax(totals)
	}
	analysis.AdjustmentFactor, analysis.ConfidenceBoost = h2hAdjustment(len(withCorners), analysis.Consistency)

	return analysis, nil
}

// adjustedTotal blends the base prediction with the matchup average by the
// adjustment factor, then applies the matchup-specific home advantage. An
// Insufficient analysis leaves the base untouched.
func adjustedTotal(h *models.HeadToHeadAnalysis, base float64) float64 {
	if h == nil || h.Reliability == models.H2HReliabilityInsufficient {
		return base
	}
	blended := base*(1-h.AdjustmentFactor) + h.AvgTotalCorners*h.AdjustmentFactor
	return blended * h.HomeAdvantage
}

// h2hCornerSeries maps each meeting's corners onto the current home team's
// perspective, whichever side it played that day.
func h2hCornerSeries(meetings []models.Match, homeID int64) (totals, homeCorners, awayCorners []int) {
	for _, m := range meetings {
		totals = append(totals, m.TotalCorners())
		if m.HomeTeamID == homeID {
			homeCorners = append(homeCorners, *m.CornersHome)
			awayCorners = append(awayCorners, *m.CornersAway)
		} else {
			homeCorners = append(homeCorners, *m.CornersAway)
			awayCorners = append(awayCorners, *m.CornersHome)
		}
	}
	return totals, homeCorners, awayCorners
}

func h2hConsistency(totals []int) float64 {
	if len(totals) < 2 {
		return 50
	}
	m := mean(totals)
	if m == 0 {
		return 0
	}
	cv := populationStd(totals) / m
	return clamp(100-cv*100, 0, 100)
}

// h2hRecentTrend looks at the last three meetings' totals in chronological
// order and compares overlapping pair averages.
func h2hRecentTrend(totals []int) string {
	if len(totals) < 3 {
		return models.TrendInsufficientData
	}
	recent := []int{totals[2], totals[1], totals[0]}
	diff := mean(recent[1:]) - mean(recent[:2])
	switch {
	case diff > 1.0:
		return "increasing"
	case diff < -1.0:
		return "decreasing"
	default:
		return "stable"
	}
}

// h2hHomeAdvantage is the ratio of the current home side's corners when
// hosting this opponent to its corners when visiting, clamped to [0.8, 1.3].
func h2hHomeAdvantage(meetings []models.Match, homeID int64) float64 {
	if len(meetings) < 2 {
		return 1.0
	}
	var hosting, visiting []int
	for _, m := range meetings {
		if m.HomeTeamID == homeID {
			hosting = append(hosting, *m.CornersHome)
		} else {
			visiting = append(visiting, *m.CornersAway)
		}
	}
	if len(hosting) == 0 || len(visiting) == 0 {
		return 1.0
	}
	avgVisiting := mean(visiting)
	if avgVisiting == 0 {
		return 1.2
	}
	return clamp(mean(hosting)/avgVisiting, 0.8, 1.3)
}

func h2hReliability(cornerMeetings, seasonsSinceLast int) string {
	switch {
	case cornerMeetings >= 4 && seasonsSinceLast <= 1:
		return models.H2HReliabilityHigh
	case cornerMeetings >= 3 && seasonsSinceLast <= 2:
		return models.H2HReliabilityMedium
	case cornerMeetings >= 2 && seasonsSinceLast <= 3:
		return models.H2HReliabilityLow
	default:
		return models.H2HReliabilityInsufficient
	}
}

// h2hAdjustment derives how much weight the matchup history carries
// (0.1 to 0.4) and the flat confidence boost it earns.
func h2hAdjustment(cornerMeetings int, consistency float64) (factor, boost float64) {
	meetingFactor := clamp(float64(cornerMeetings)/5, 0, 1)
	factor = 0.1 + meetingFactor*(consistency/100)*0.3

	switch {
	case consistency >= 80 && cornerMeetings >= 4:
		boost = 10
	case consistency >= 70 && cornerMeetings >= 3:
		boost = 5
	case consistency >= 60 && cornerMeetings >= 2:
		boost = 2
	}
	return factor, boost
}
