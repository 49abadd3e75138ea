package logic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cornerd/corners-api/internal/models"
)

// PredictOptions tunes a single prediction run. NoStore skips persistence
// (used by backtests); Cutoff restricts the visible history.
type PredictOptions struct {
	Cutoff  *time.Time
	NoStore bool
}

// PredictionService assembles the final prediction from the consistency
// draft and the adjustment analyzers.
type PredictionService struct {
	store         Store
	teams         *TeamStatsService
	consistency   *ConsistencyService
	headToHead    *HeadToHeadService
	goals         *GoalsService
	log           *zap.SugaredLogger
	capConfidence bool
}

func NewPredictionService(store Store, teams *TeamStatsService, consistency *ConsistencyService, h2h *HeadToHeadService, goals *GoalsService, log *zap.SugaredLogger, capConfidence bool) *PredictionService {
	return &PredictionService{
		store:         store,
		teams:         teams,
		consistency:   consistency,
		headToHead:    h2h,
		goals:         goals,
		log:           log,
		capConfidence: capConfidence,
	}
}

// PredictMatch runs the full pipeline: draft, head-to-head adjustment,
// goals attachment, derived fields, optional persistence.
func (s *PredictionService) PredictMatch(ctx context.Context, homeID, awayID int64, season int, opts PredictOptions) (*models.MatchPrediction, error) {
	draft, err := s.consistency.AnalyzeMatch(ctx, homeID, awayID, season, opts.Cutoff)
	if err != nil {
		return nil, err
	}

	statConfidence := statisticalConfidence(draft.MatchConsistency)

	p := &models.MatchPrediction{
		HomeTeamID:   homeID,
		AwayTeamID:   awayID,
		HomeTeamName: draft.HomeTeamName,
		AwayTeamName: draft.AwayTeamName,
		Season:       season,

		PredictedTotalCorners: draft.PredictedTotalCorners,
		PredictedHomeCorners:  draft.PredictedHomeCorners,
		PredictedAwayCorners:  draft.PredictedAwayCorners,

		StatisticalConfidence: statConfidence,
		ConsistencyScore:      draft.MatchConsistency,
	}

	s.applyHeadToHead(ctx, p, draft)

	if goals, err := s.goals.Predict(ctx, homeID, awayID, season, opts.Cutoff); err != nil {
		s.log.Infow("goals sub-prediction omitted",
			"home_id", homeID, "away_id", awayID, "error", err)
	} else {
		p.Goals = goals
	}

	p.LineCalls = buildLineCalls(p.PredictedTotalCorners, draft.Confidence)
	p.ExpectedMin, p.ExpectedMax = expectedRange(p.PredictedTotalCorners, statConfidence)
	p.MostLikelyOutcome = outcomeBucket(p.PredictedTotalCorners)
	p.PredictionQuality = classifyQuality(statConfidence, draft.MatchConsistency)
	p.DataReliability = dataReliability(draft.HomeMatches, draft.AwayMatches)
	p.HomeTeamForm, p.AwayTeamForm = s.teamForms(ctx, homeID, awayID, season, opts.Cutoff)
	p.AnalysisSummary = analysisSummary(p)
	p.Recommendation = recommendation(p)

	predictionsGenerated.Inc()

	if !opts.NoStore {
		p.ID = uuid.NewString()
		p.CreatedAt = time.Now().UTC()
		if match, err := s.store.MatchByTeams(ctx, homeID, awayID, season); err == nil && match != nil {
			p.MatchID = match.ID
		}
		if err := s.store.InsertPrediction(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to store prediction: %w", err)
		}
		predictionsStored.Inc()
	}

	return p, nil
}

// applyHeadToHead blends the matchup history into the totals and boosts
// line confidences. Insufficient history skips the adjustment quietly;
// storage failures only log because the base prediction is still valid.
func (s *PredictionService) applyHeadToHead(ctx context.Context, p *models.MatchPrediction, draft *models.ConsistencyAnalysis) {
	h2h, err := s.headToHead.Analyze(ctx, p.HomeTeamID, p.AwayTeamID, p.Season)
	if err != nil {
		if !errors.Is(err, ErrInsufficientData) {
			s.log.Warnw("head-to-head analysis unavailable",
				"home_id", p.HomeTeamID, "away_id", p.AwayTeamID, "error", err)
		}
		return
	}
	if h2h.Reliability == models.H2HReliabilityInsufficient {
		return
	}

	adjusted := adjustedTotal(h2h, p.PredictedTotalCorners)
	// Rescale both sides so the additive invariant survives adjustment.
	if p.PredictedTotalCorners > 0 {
		ratio := adjusted / p.PredictedTotalCorners
		p.PredictedHomeCorners *= ratio
		p.PredictedAwayCorners *= ratio
	}
	p.PredictedTotalCorners = adjusted

	for key, confidence := range draft.Confidence {
		boosted := confidence + h2h.ConfidenceBoost
		if s.capConfidence && boosted > 100 {
			boosted = 100
		}
		draft.Confidence[key] = boosted
	}
	p.HeadToHeadApplied = true
}

// statisticalConfidence is the geometric mean of the consistency factor,
// a data-availability placeholder and a fixed model-reliability factor,
// kept within [5, 95].
func statisticalConfidence(matchConsistency float64) float64 {
	factors := []float64{matchConsistency / 100, 0.6, 0.8}
	product := 1.0
	for _, f := range factors {
		product *= f
	}
	confidence := math.Pow(product, 1/float64(len(factors))) * 100
	return clamp(confidence, 5, 95)
}

func buildLineCalls(predictedTotal float64, confidence map[string]float64) []models.LineCall {
	calls := make([]models.LineCall, 0, len(models.Lines))
	for _, line := range models.Lines {
		calls = append(calls, models.LineCall{
			Line:       line,
			Over:       predictedTotal > line,
			Confidence: confidence[models.LineKey(line)],
		})
	}
	return calls
}

// expectedRange is the rough 95% interval: lower confidence widens the
// assumed spread.
func expectedRange(predictedTotal, statConfidence float64) (lo, hi float64) {
	adjustedStd := 2.5 * (2 - statConfidence/100)
	lo = math.Max(0, predictedTotal-1.96*adjustedStd)
	hi = predictedTotal + 1.96*adjustedStd
	return lo, hi
}

func outcomeBucket(total float64) string {
	switch {
	case total >= 12:
		return "High-scoring match (12+ corners)"
	case total >= 9:
		return "Above-average corners (9-11)"
	case total >= 7:
		return "Average corner count (7-8)"
	case total >= 5:
		return "Below-average corners (5-6)"
	default:
		return "Low-scoring match (<5 corners)"
	}
}

func classifyQuality(statConfidence, consistency float64) string {
	switch {
	case statConfidence >= 80 && consistency >= 75:
		return "Excellent"
	case statConfidence >= 70 && consistency >= 65:
		return "Good"
	case statConfidence >= 60 && consistency >= 55:
		return "Fair"
	default:
		return "Poor"
	}
}

func dataReliability(homeMatches, awayMatches int) string {
	minMatches := homeMatches
	if awayMatches < minMatches {
		minMatches = awayMatches
	}
	switch {
	case minMatches >= 15:
		return "Excellent"
	case minMatches >= 11:
		return "Good"
	case minMatches >= 7:
		return "Fair"
	default:
		return "Poor"
	}
}

// teamForms reuses the cached profiles for qualitative form labels. Any
// failure reads as Unknown rather than failing the prediction.
func (s *PredictionService) teamForms(ctx context.Context, homeID, awayID int64, season int, cutoff *time.Time) (homeForm, awayForm string) {
	homeForm, awayForm = "Unknown", "Unknown"
	if home, err := s.teams.AnalyzeTeam(ctx, homeID, season, cutoff); err == nil {
		homeForm = classifyForm(home.Won.Trend, home.Won.Consistency)
	}
	if away, err := s.teams.AnalyzeTeam(ctx, awayID, season, cutoff); err == nil {
		awayForm = classifyForm(away.Won.Trend, away.Won.Consistency)
	}
	return homeForm, awayForm
}

func classifyForm(trend string, consistency float64) string {
	switch {
	case trend == models.TrendImproving && consistency >= 70:
		return "Excellent"
	case trend == models.TrendImproving || (trend == models.TrendStable && consistency >= 75):
		return "Good"
	case trend == models.TrendStable || (trend == models.TrendDeclining && consistency >= 60):
		return "Fair"
	default:
		return "Poor"
	}
}

func analysisSummary(p *models.MatchPrediction) string {
	points := []string{
		fmt.Sprintf("Expected total corners: %.1f", p.PredictedTotalCorners),
		fmt.Sprintf("Match consistency score: %.1f%%", p.ConsistencyScore),
		fmt.Sprintf("Statistical confidence: %.1f%%", p.StatisticalConfidence),
		fmt.Sprintf("Prediction quality: %s", p.PredictionQuality),
	}
	if call := p.Call(6.5); call != nil && call.Confidence >= 70 {
		points = append(points, fmt.Sprintf("Strong confidence in Over 6.5 corners (%.1f%%)", call.Confidence))
	} else if call := p.Call(5.5); call != nil && call.Confidence >= 70 {
		points = append(points, fmt.Sprintf("Strong confidence in Over 5.5 corners (%.1f%%)", call.Confidence))
	}
	return strings.Join(points, " | ")
}

func recommendation(p *models.MatchPrediction) string {
	calls := append([]models.LineCall(nil), p.LineCalls...)
	sort.Slice(calls, func(i, j int) bool { return calls[i].Line < calls[j].Line })

	var picks []string
	for _, call := range calls {
		if !call.Over {
			continue
		}
		switch {
		case call.Confidence >= 75:
			picks = append(picks, fmt.Sprintf("STRONG: Over %.1f corners (%.1f%% confidence)", call.Line, call.Confidence))
		case call.Confidence >= 65:
			picks = append(picks, fmt.Sprintf("MODERATE: Over %.1f corners (%.1f%% confidence)", call.Line, call.Confidence))
		}
	}

	quality := fmt.Sprintf("Lower confidence prediction (%s)", p.PredictionQuality)
	if p.PredictionQuality == "Excellent" || p.PredictionQuality == "Good" {
		quality = fmt.Sprintf("High-quality prediction (%s)", p.PredictionQuality)
	}

	if len(picks) == 0 {
		return "No strong betting opportunities identified | " + quality
	}
	return strings.Join(picks, "; ") + " | " + quality
}
