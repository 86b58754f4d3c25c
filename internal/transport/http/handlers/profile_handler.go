package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/reactivities-app/backend/internal/service"
	"github.com/reactivities-app/backend/internal/transport/http/middleware"
	"github.com/reactivities-app/backend/pkg/validator"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	profile, err := h.profileService.Get(r.Context(), callerID, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		} else {
			log.Printf("ERROR get profile: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Edit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.EditProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateEditProfile(input.DisplayName); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	if err := h.profileService.Edit(r.Context(), userID, input); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		} else {
			log.Printf("ERROR edit profile: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProfileHandler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	observerID := middleware.GetUserID(r.Context())
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	if err := h.profileService.ToggleFollow(r.Context(), observerID, targetID); err != nil {
		switch {
		case errors.Is(err, service.ErrCannotFollowSelf):
			writeError(w, http.StatusBadRequest, "CANNOT_FOLLOW_SELF", "Cannot follow yourself")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		default:
			log.Printf("ERROR toggle follow: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProfileHandler) ListFollowers(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	profiles, err := h.profileService.ListFollowers(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR list followers: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

func (h *ProfileHandler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	profiles, err := h.profileService.ListFollowing(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR list following: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

// ListActivities returns a user's activities filtered by past, hosting or
// upcoming (the default).
func (h *ProfileHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	filter := r.URL.Query().Get("filter")

	activities, err := h.profileService.ListActivities(r.Context(), userID, filter)
	if err != nil {
		log.Printf("ERROR list user activities: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, activities)
}

func (h *ProfileHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.AddPhotoInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidatePhoto(input.URL, input.PublicID); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	photo, err := h.profileService.AddPhoto(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		} else {
			log.Printf("ERROR add photo: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, photo)
}

func (h *ProfileHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	photos, err := h.profileService.ListPhotos(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR list photos: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, photos)
}

func (h *ProfileHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	photoID, err := uuid.Parse(r.PathValue("photoId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid photo ID")
		return
	}

	if err := h.profileService.DeletePhoto(r.Context(), userID, photoID); err != nil {
		switch {
		case errors.Is(err, service.ErrPhotoNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Photo not found")
		case errors.Is(err, service.ErrNotPhotoOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the photo owner can delete it")
		case errors.Is(err, service.ErrMainPhoto):
			writeError(w, http.StatusBadRequest, "MAIN_PHOTO", "Cannot delete the main photo")
		default:
			log.Printf("ERROR delete photo: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProfileHandler) SetMainPhoto(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	photoID, err := uuid.Parse(r.PathValue("photoId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid photo ID")
		return
	}

	if err := h.profileService.SetMainPhoto(r.Context(), userID, photoID); err != nil {
		switch {
		case errors.Is(err, service.ErrPhotoNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Photo not found")
		case errors.Is(err, service.ErrNotPhotoOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the photo owner can set it as main")
		default:
			log.Printf("ERROR set main photo: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
