package handlers

import (
	"errors"
	"net/http"

	"github.com/iqasport/referee-hub-sub000/middleware"
	"github.com/iqasport/referee-hub-sub000/models"
	"github.com/iqasport/referee-hub-sub000/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(us services.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// GetProfile handles GET /users/me.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	user, err := h.userService.GetProfile(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadAvatar handles POST /users/me/avatar. The body is the raw image;
// Content-Type selects the stored extension.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("Content-Type header is required"))
		return
	}

	const maxAvatarBytes = 5 << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)

	user, err := h.userService.UploadAvatar(r.Context(), currentUserID, contentType, r.Body)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetGender handles GET /users/me/gender.
func (h *UserHandler) GetGender(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	record, err := h.userService.GetMyGender(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"gender_record": record}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetGender handles PUT /users/me/gender.
func (h *UserHandler) SetGender(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input struct {
		Gender string `json:"gender"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Gender == "" {
		badRequestResponse(w, r, errors.New("gender is required"))
		return
	}

	record, err := h.userService.SetMyGender(r.Context(), currentUserID, input.Gender)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"gender_record": record}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteGender handles DELETE /users/me/gender.
func (h *UserHandler) DeleteGender(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	record, err := h.userService.DeleteMyGender(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"gender_record": record}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListCertifications handles GET /users/me/certifications.
func (h *UserHandler) ListCertifications(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	certifications, err := h.userService.ListMyCertifications(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"certifications": certifications}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordCertification handles POST /users/me/certifications.
func (h *UserHandler) RecordCertification(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input struct {
		Level models.CertificationLevel `json:"level"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Level == "" {
		badRequestResponse(w, r, errors.New("level is required"))
		return
	}

	certifications, err := h.userService.RecordCertification(r.Context(), currentUserID, input.Level)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"certifications": certifications}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
