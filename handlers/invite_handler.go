package handlers

import (
	"errors"
	"net/http"

	"github.com/iqasport/referee-hub-sub000/middleware"
	"github.com/iqasport/referee-hub-sub000/services"
)

type InviteHandler struct {
	inviteService services.InviteService
}

func NewInviteHandler(is services.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: is}
}

// Create handles POST /tournaments/{tournamentID}/invites. The same
// endpoint serves both directions of the negotiation: a tournament manager
// inviting a team, or a team manager requesting to join.
func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var input struct {
		TeamID int `json:"team_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.TeamID <= 0 {
		badRequestResponse(w, r, errors.New("team_id is required"))
		return
	}

	invite, err := h.inviteService.CreateInvite(r.Context(), tournamentID, input.TeamID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"invite": invite}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Respond handles POST /tournaments/{tournamentID}/invites/{teamID}. The
// body carries the responder's verdict for their side of the invite.
func (h *InviteHandler) Respond(w http.ResponseWriter, r *http.Request) {
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
	teamID, err := intURLParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Approve *bool `json:"approve"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Approve == nil {
		badRequestResponse(w, r, errors.New("approve is required"))
		return
	}

	invite, err := h.inviteService.RespondToInvite(r.Context(), tournamentID, teamID, currentUserID, *input.Approve)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"invite": invite}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List handles GET /tournaments/{tournamentID}/invites.
func (h *InviteHandler) List(w http.ResponseWriter, r *http.Request) {
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

	invites, err := h.inviteService.ListInvites(r.Context(), tournamentID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"invites": invites}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListForTeam handles GET /ngbs/{ngbID}/teams/{teamID}/tournamentInvites.
func (h *InviteHandler) ListForTeam(w http.ResponseWriter, r *http.Request) {
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

	invites, err := h.inviteService.ListTeamInvites(r.Context(), ngbID, teamID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"invites": invites}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
