package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cornerd/corners-api/internal/models"
)

// RunBacktest replays the pipeline over historical matches
// @Summary Run Backtest
// @Description Backtest one date, or the whole season when no date is given
// @Tags Backtest
// @Accept json
// @Produce json
// @Param body body models.RunBacktestRequest true "Backtest scope"
// @Success 200 {object} models.BacktestBatchReport
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /backtests/run [post]
func (h *Handler) RunBacktest(w http.ResponseWriter, r *http.Request) {
	var req models.RunBacktestRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize)).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Date != "" {
		day, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			h.errorResponse(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		results, err := h.backtest.RunDate(r.Context(), day, req.Season)
		if err != nil {
			h.serviceError(w, err, "Failed to run backtest")
			return
		}
		h.jsonResponse(w, http.StatusOK, map[string]interface{}{
			"season":      req.Season,
			"date":        req.Date,
			"predictions": len(results),
			"results":     results,
		})
		return
	}

	report, err := h.backtest.RunSeason(r.Context(), req.Season, req.MaxDates)
	if err != nil {
		h.serviceError(w, err, "Failed to run season backtest")
		return
	}

	h.jsonResponse(w, http.StatusOK, report)
}

// GetBacktestSummary aggregates stored backtest rows for a season
// @Summary Backtest Summary
// @Description Get hit rates and average accuracy over stored backtest rows
// @Tags Backtest
// @Produce json
// @Param season query int true "Season year"
// @Success 200 {object} models.BacktestSummary
// @Router /backtests/summary [get]
func (h *Handler) GetBacktestSummary(w http.ResponseWriter, r *http.Request) {
	season := queryInt(r, "season", 0)
	if season < 2000 {
		h.errorResponse(w, http.StatusBadRequest, "season query parameter is required")
		return
	}

	summary, err := h.backtest.Summary(r.Context(), season)
	if err != nil {
		h.serviceError(w, err, "Failed to load backtest summary")
		return
	}

	h.jsonResponse(w, http.StatusOK, summary)
}
