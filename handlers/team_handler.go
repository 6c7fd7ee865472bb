package handlers

import (
	"net/http"

	"github.com/iqasport/referee-hub-sub000/middleware"
	"github.com/iqasport/referee-hub-sub000/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(ts services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: ts}
}

// GetByID handles GET /ngbs/{ngbID}/teams/{teamID}.
func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.GetUserIDFromContext(r.Context()); err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	ngbID, err := intURLParam(r, "ngbID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := intURLParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetTeam(r.Context(), ngbID, teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
