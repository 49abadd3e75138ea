package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cornerd/corners-api/internal/models"
)

// VerifyPrediction checks a stored prediction against the actual result and
// updates the accuracy aggregates
// @Summary Verify Prediction
// @Description Record the actual corner counts for a predicted match
// @Tags Accuracy
// @Accept json
// @Produce json
// @Param id path string true "Prediction ID"
// @Param body body models.VerifyPredictionRequest true "Actual corners"
// @Success 200 {object} models.VerificationRecord
// @Failure 404 {object} map[string]string "Unknown Prediction"
// @Router /predictions/{id}/verify [post]
func (h *Handler) VerifyPrediction(w http.ResponseWriter, r *http.Request) {
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

	record, err := h.accuracy.VerifyPrediction(r.Context(), predictionID,
		*req.ActualHomeCorners, *req.ActualAwayCorners, req.Manual, req.Notes)
	if err != nil {
		h.serviceError(w, err, "Failed to verify prediction")
		return
	}

	h.jsonResponse(w, http.StatusOK, record)
}

// BulkVerifySeason verifies every pending prediction with a finished match
// @Summary Bulk Verify Season
// @Description Verify all unverified predictions whose matches have finished
// @Tags Accuracy
// @Produce json
// @Param season path int true "Season year"
// @Success 200 {object} models.BulkVerifyReport
// @Router /verify/season/{season} [post]
func (h *Handler) BulkVerifySeason(w http.ResponseWriter, r *http.Request) {
	season, err := strconv.Atoi(chi.URLParam(r, "season"))
	if err != nil || season < 2000 {
		h.errorResponse(w, http.StatusBadRequest, "Invalid season")
		return
	}

	report, err := h.accuracy.BulkVerifySeason(r.Context(), season)
	if err != nil {
		h.serviceError(w, err, "Failed to run bulk verification")
		return
	}

	h.jsonResponse(w, http.StatusOK, report)
}

// GetTeamAccuracy returns the accuracy report for one team
// @Summary Team Accuracy Report
// @Description Get per-metric accuracy, recent trend and difficulty for a team
// @Tags Accuracy
// @Produce json
// @Param id path int true "Team ID"
// @Param season query int true "Season year"
// @Success 200 {object} models.TeamAccuracyReport
// @Router /accuracy/teams/{id} [get]
func (h *Handler) GetTeamAccuracy(w http.ResponseWriter, r *http.Request) {
	teamID, ok := urlParamInt64(r, "id")
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "Invalid team ID")
		return
	}
	season := queryInt(r, "season", 0)
	if season < 2000 {
		h.errorResponse(w, http.StatusBadRequest, "season query parameter is required")
		return
	}

	report, err := h.accuracy.TeamReport(r.Context(), teamID, season)
	if err != nil {
		h.serviceError(w, err, "Failed to build team accuracy report")
		return
	}

	h.jsonResponse(w, http.StatusOK, report)
}

// GetAccuracyOverview returns the system-wide accuracy report
// @Summary Accuracy Overview
// @Description Get line accuracies, average margin and team ranking
// @Tags Accuracy
// @Produce json
// @Param season query int false "Season year (0 = all)"
// @Success 200 {object} models.AccuracyOverview
// @Router /accuracy/overview [get]
func (h *Handler) GetAccuracyOverview(w http.ResponseWriter, r *http.Request) {
	season := queryInt(r, "season", 0)

	overview, err := h.accuracy.Overview(r.Context(), season)
	if err != nil {
		h.serviceError(w, err, "Failed to build accuracy overview")
		return
	}

	h.jsonResponse(w, http.StatusOK, overview)
}
