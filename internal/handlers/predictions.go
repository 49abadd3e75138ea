package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cornerd/corners-api/internal/logic"
	"github.com/cornerd/corners-api/internal/models"
)

// PredictMatch runs the full pipeline for a fixture and stores the result
// @Summary Predict Match Corners
// @Description Generate a corner prediction for a home/away pairing
// @Tags Predictions
// @Accept json
// @Produce json
// @Param body body models.PredictMatchRequest true "Fixture"
// @Success 200 {object} models.MatchPrediction
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 422 {object} map[string]string "Insufficient Data"
// @Router /predictions [post]
func (h *Handler) PredictMatch(w http.ResponseWriter, r *http.Request) {
	var req models.PredictMatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize)).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	prediction, err := h.prediction.PredictMatch(r.Context(), req.HomeTeamID, req.AwayTeamID, req.Season,
		logic.PredictOptions{NoStore: req.NoStore})
	if err != nil {
		h.serviceError(w, err, "Failed to generate prediction")
		return
	}

	h.jsonResponse(w, http.StatusOK, prediction)
}

// ValidatePrediction scores a stored prediction against the actual result
// without touching the accuracy aggregates
// @Summary Validate Prediction
// @Description Score a prediction against the actual corner counts
// @Tags Predictions
// @Accept json
// @Produce json
// @Param id path string true "Prediction ID"
// @Param body body models.VerifyPredictionRequest true "Actual corners"
// @Success 200 {object} models.ValidationResult
// @Failure 404 {object} map[string]string "Unknown Prediction"
// @Router /predictions/{id}/validate [post]
func (h *Handler) ValidatePrediction(w http.ResponseWriter, r *http.Request) {
	predictionID := chi.URLParam(r, "id")

	var req models.VerifyPredictionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize)).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.validation.Validate(r.Context(), predictionID,
		*req.ActualHomeCorners, *req.ActualAwayCorners, req.Notes)
	if err != nil {
		h.serviceError(w, err, "Failed to validate prediction")
		return
	}

	h.jsonResponse(w, http.StatusOK, result)
}

// GetValidationSummary aggregates all validations for a season
// @Summary Validation Summary
// @Description Judge the estimator itself over a season of verified predictions
// @Tags Predictions
// @Produce json
// @Param season query int false "Season year (0 = all)"
// @Success 200 {object} models.ValidationSummary
// @Router /validation/summary [get]
func (h *Handler) GetValidationSummary(w http.ResponseWriter, r *http.Request) {
	season := queryInt(r, "season", 0)

	summary, err := h.validation.SummarizeSeason(r.Context(), season)
	if err != nil {
		h.serviceError(w, err, "Failed to summarize validations")
		return
	}

	h.jsonResponse(w, http.StatusOK, summary)
}
