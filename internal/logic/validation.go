package logic

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cornerd/corners-api/internal/models"
)

// ValidationService scores stored predictions against actual outcomes and
// aggregates the scores to judge the estimator itself. Scoring is pure;
// persistence of verification records is AccuracyService's job.
type ValidationService struct {
	store     Store
	log       *zap.SugaredLogger
	tolerance float64
}

func NewValidationService(store Store, log *zap.SugaredLogger, tolerance float64) *ValidationService {
	return &ValidationService{store: store, log: log, tolerance: tolerance}
}

// Validate scores one prediction against the actual corner counts.
func (s *ValidationService) Validate(ctx context.Context, predictionID string, actualHome, actualAway int, notes string) (*models.ValidationResult, error) {
	p, err := s.store.GetPrediction(ctx, predictionID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("prediction %s: %w", predictionID, ErrNotFound)
	}
	result := scorePrediction(p, actualHome, actualAway, s.tolerance)
	result.Notes = notes
	return result, nil
}

// SummarizeSeason rescores every verified prediction in a season and
// aggregates the results. Individual scoring failures are logged and
// skipped so one bad row cannot sink the report.
func (s *ValidationService) SummarizeSeason(ctx context.Context, season int) (*models.ValidationSummary, error) {
	verified, err := s.store.VerifiedPredictions(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load verified predictions: %w", err)
	}

	results := make([]models.ValidationResult, 0, len(verified))
	for i := range verified {
		v := &verified[i]
		results = append(results, *scorePrediction(&v.Prediction, v.Record.ActualHome, v.Record.ActualAway, s.tolerance))
	}
	return Summarize(results, fmt.Sprintf("Season %d", season)), nil
}

// scorePrediction computes every per-prediction accuracy measure. Each
// corner of individual error costs 20 points; calibration rewards stated
// confidence when the call was right and punishes it when wrong.
func scorePrediction(p *models.MatchPrediction, actualHome, actualAway int, tolerance float64) *models.ValidationResult {
	actualTotal := actualHome + actualAway

	totalError := math.Abs(p.PredictedTotalCorners - float64(actualTotal))
	homeError := math.Abs(p.PredictedHomeCorners - float64(actualHome))
	awayError := math.Abs(p.PredictedAwayCorners - float64(actualAway))

	over55 := lineCallCorrect(p.PredictedTotalCorners, actualTotal, 5.5)
	over65 := lineCallCorrect(p.PredictedTotalCorners, actualTotal, 6.5)
	over75 := lineCallCorrect(p.PredictedTotalCorners, actualTotal, 7.5)

	homeAccuracy := math.Max(0, 100-homeError*20)
	awayAccuracy := math.Max(0, 100-awayError*20)
	individualScore := (homeAccuracy + awayAccuracy) / 2

	correctLines := 0
	for _, ok := range []bool{over55, over65, over75} {
		if ok {
			correctLines++
		}
	}
	lineScore := float64(correctLines) / 3 * 100

	calibration := calibrationScore(p, actualTotal)

	return &models.ValidationResult{
		PredictionID: p.ID,
		HomeTeamName: p.HomeTeamName,
		AwayTeamName: p.AwayTeamName,
		Season:       p.Season,

		ActualTotalCorners:    actualTotal,
		PredictedTotalCorners: p.PredictedTotalCorners,
		TotalCornersError:     totalError,

		ActualHomeCorners:    actualHome,
		PredictedHomeCorners: p.PredictedHomeCorners,
		HomeCornersError:     homeError,

		ActualAwayCorners:    actualAway,
		PredictedAwayCorners: p.PredictedAwayCorners,
		AwayCornersError:     awayError,

		Over55Correct: over55,
		Over65Correct: over65,
		Over75Correct: over75,

		TotalWithinTolerance:    totalError <= tolerance,
		IndividualAccuracyScore: individualScore,
		LineAccuracyScore:       lineScore,
		CalibrationScore:        calibration,

		QualityActual: actualQuality(totalError, individualScore, lineScore),
	}
}

func lineCallCorrect(predictedTotal float64, actualTotal int, line float64) bool {
	return (predictedTotal > line) == (float64(actualTotal) > line)
}

// calibrationScore averages over the 5.5 and 6.5 lines: a correct call
// scores the stated confidence, a wrong call scores 100 minus it.
func calibrationScore(p *models.MatchPrediction, actualTotal int) float64 {
	var scores []float64
	for _, line := range []float64{5.5, 6.5} {
		call := p.Call(line)
		if call == nil {
			continue
		}
		if lineCallCorrect(p.PredictedTotalCorners, actualTotal, line) {
			scores = append(scores, call.Confidence)
		} else {
			scores = append(scores, 100-call.Confidence)
		}
	}
	return meanFloat(scores)
}

func actualQuality(totalError, individualScore, lineScore float64) string {
	switch {
	case totalError <= 1 && individualScore >= 80 && lineScore >= 80:
		return "Excellent"
	case totalError <= 2 && individualScore >= 60 && lineScore >= 60:
		return "Good"
	case totalError <= 3 && individualScore >= 40 && lineScore >= 40:
		return "Fair"
	default:
		return "Poor"
	}
}

// Summarize aggregates many validation results into the model-level view.
func Summarize(results []models.ValidationResult, period string) *models.ValidationSummary {
	summary := &models.ValidationSummary{
		TotalValidated:    len(results),
		Period:            period,
		PerformanceRating: "Insufficient Data",
	}
	if len(results) == 0 {
		return summary
	}

	var sumErr, sumSqErr, sumCalibration float64
	for _, r := range results {
		sumErr += r.TotalCornersError
		sumSqErr += r.TotalCornersError * r.TotalCornersError
		sumCalibration += r.CalibrationScore

		if r.TotalWithinTolerance {
			summary.WithinTolerancePct++
		}
		if r.Over55Correct {
			summary.Over55Accuracy++
		}
		if r.Over65Correct {
			summary.Over65Accuracy++
		}
		if r.Over75Correct {
			summary.Over75Accuracy++
		}
		if r.CalibrationScore < 50 {
			summary.Overconfident++
		}
		if r.CalibrationScore > 80 && r.TotalCornersError > 2 {
			summary.Underconfident++
		}
		switch r.QualityActual {
		case "Excellent":
			summary.Excellent++
		case "Good":
			summary.Good++
		case "Fair":
			summary.Fair++
		default:
			summary.Poor++
		}
	}

	n := float64(len(results))
	summary.TotalCornersMAE = sumErr / n
	summary.TotalCornersRMSE = math.Sqrt(sumSqErr / n)
	summary.WithinTolerancePct = summary.WithinTolerancePct / n * 100
	summary.Over55Accuracy = summary.Over55Accuracy / n * 100
	summary.Over65Accuracy = summary.Over65Accuracy / n * 100
	summary.Over75Accuracy = summary.Over75Accuracy / n * 100
	summary.AvgCalibration = sumCalibration / n

	summary.PerformanceRating = performanceRating(summary.TotalCornersMAE,
		summary.Over55Accuracy, summary.Over65Accuracy, summary.AvgCalibration)
	summary.Recommendations = improvementRecommendations(summary)

	return summary
}

// performanceRating is a weighted blend of inverse MAE, line accuracies
// and calibration.
func performanceRating(mae, over55Acc, over65Acc, calibration float64) string {
	score := (100-mae*10)*0.3 + over55Acc*0.3 + over65Acc*0.25 + calibration*0.15
	switch {
	case score >= 85:
		return "Excellent"
	case score >= 75:
		return "Good"
	case score >= 65:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

func improvementRecommendations(s *models.ValidationSummary) []string {
	var recs []string
	if s.TotalCornersMAE > 2.0 {
		recs = append(recs, "Consider improving total corners prediction accuracy - high mean absolute error")
	}
	if s.Over55Accuracy < 70 {
		recs = append(recs, "Improve Over 5.5 corners line predictions - accuracy below target")
	}
	if s.Over65Accuracy < 65 {
		recs = append(recs, "Improve Over 6.5 corners line predictions - accuracy below target")
	}
	if s.AvgCalibration < 60 {
		recs = append(recs, "Improve confidence calibration - predictions are poorly calibrated")
	}
	if s.Poor > s.Good+s.Excellent {
		recs = append(recs, "Overall prediction quality needs improvement - too many poor predictions")
	}
	if len(recs) == 0 {
		recs = append(recs, "Model performance is satisfactory - continue monitoring")
	}
	return recs
}
