package handlers

import (
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cornerd/corners-api/internal/models"
)

// ============================================================================
// TEAM ANALYSIS ENDPOINTS
// ============================================================================

// GetTeamAnalysis returns the full corner profile for one team
// @Summary Team Corner Analysis
// @Description Get recency-weighted corner averages, consistency and trend for a team
// @Tags Teams
// @Produce json
// @Param id path int true "Team ID"
// @Param season query int true "Season year"
// @Success 200 {object} models.TeamProfile
// @Failure 404 {object} map[string]string "Unknown Team"
// @Failure 422 {object} map[string]string "Insufficient Data"
// @Router /teams/{id}/analysis [get]
func (h *Handler) GetTeamAnalysis(w http.ResponseWriter, r *http.Request) {
	teamID, ok := urlParamInt64(r, "id")
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "Invalid team ID")
		return
	}
	season := queryInt(r, "season", time.Now().Year())

	profile, err := h.teams.AnalyzeTeam(r.Context(), teamID, season, nil)
	if err != nil {
		h.serviceError(w, err, "Failed to analyze team")
		return
	}

	h.jsonResponse(w, http.StatusOK, profile)
}

// CompareTeams returns both teams' profiles side by side
// @Summary Compare Teams
// @Description Get corner profiles for two teams in one response
// @Tags Teams
// @Produce json
// @Param team_a query int true "First team ID"
// @Param team_b query int true "Second team ID"
// @Param season query int true "Season year"
// @Success 200 {object} map[string]models.TeamProfile
// @Failure 422 {object} map[string]string "Insufficient Data"
// @Router /teams/compare [get]
func (h *Handler) CompareTeams(w http.ResponseWriter, r *http.Request) {
	teamA := int64(queryInt(r, "team_a", 0))
	teamB := int64(queryInt(r, "team_b", 0))
	if teamA <= 0 || teamB <= 0 || teamA == teamB {
		h.errorResponse(w, http.StatusBadRequest, "team_a and team_b must be distinct team IDs")
		return
	}
	season := queryInt(r, "season", time.Now().Year())

	var profileA, profileB *models.TeamProfile
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		profileA, err = h.teams.AnalyzeTeam(ctx, teamA, season, nil)
		return err
	})
	g.Go(func() error {
		var err error
		profileB, err = h.teams.AnalyzeTeam(ctx, teamB, season, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		h.serviceError(w, err, "Failed to compare teams")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]*models.TeamProfile{
		"team_a": profileA,
		"team_b": profileB,
	})
}
