package handlers

import (
	"errors"
	"net/http"

	"github.com/iqasport/referee-hub-sub000/middleware"
	"github.com/iqasport/referee-hub-sub000/services"
)

type ManagerHandler struct {
	managerService services.ManagerService
}

func NewManagerHandler(ms services.ManagerService) *ManagerHandler {
	return &ManagerHandler{managerService: ms}
}

type addManagerInput struct {
	Email           string `json:"email"`
	CreateIfMissing bool   `json:"create_if_missing"`
}

// AddTournamentManager handles POST /tournaments/{tournamentID}/managers.
func (h *ManagerHandler) AddTournamentManager(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	tournamentID, err := intURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input addManagerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Email == "" {
		badRequestResponse(w, r, errors.New("email is required"))
		return
	}

	result, err := h.managerService.AddTournamentManager(r.Context(), tournamentID, currentUserID, input.Email, input.CreateIfMissing)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemoveTournamentManager handles DELETE /tournaments/{tournamentID}/managers/{userID}.
func (h *ManagerHandler) RemoveTournamentManager(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	tournamentID, err := intURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := intURLParam(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.managerService.RemoveTournamentManager(r.Context(), tournamentID, currentUserID, userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "manager removed"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTournamentManagers handles GET /tournaments/{tournamentID}/managers.
func (h *ManagerHandler) ListTournamentManagers(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	tournamentID, err := intURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	managers, err := h.managerService.ListTournamentManagers(r.Context(), tournamentID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"managers": managers}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AddTeamManager handles POST /ngbs/{ngbID}/teams/{teamID}/managers.
func (h *ManagerHandler) AddTeamManager(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
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

	var input addManagerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Email == "" {
		badRequestResponse(w, r, errors.New("email is required"))
		return
	}

	result, err := h.managerService.AddTeamManager(r.Context(), ngbID, teamID, currentUserID, input.Email, input.CreateIfMissing)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemoveTeamManager handles DELETE /ngbs/{ngbID}/teams/{teamID}/managers/{userID}.
func (h *ManagerHandler) RemoveTeamManager(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
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
	userID, err := intURLParam(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.managerService.RemoveTeamManager(r.Context(), ngbID, teamID, currentUserID, userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "manager removed"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTeamManagers handles GET /ngbs/{ngbID}/teams/{teamID}/managers.
func (h *ManagerHandler) ListTeamManagers(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
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

	managers, err := h.managerService.ListTeamManagers(r.Context(), ngbID, teamID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"managers": managers}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
