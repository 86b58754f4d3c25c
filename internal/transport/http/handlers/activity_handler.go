package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/reactivities-app/backend/internal/service"
	"github.com/reactivities-app/backend/internal/transport/http/middleware"
	"github.com/reactivities-app/backend/pkg/validator"
)

type ActivityHandler struct {
	activityService *service.ActivityService
}

func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// List serves one cursor page of the feed.
// Query params: cursor (RFC3339), pageSize, filter (isGoing|isHost).
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())

	var cursor *time.Time
	if cursorStr := r.URL.Query().Get("cursor"); cursorStr != "" {
		t, err := time.Parse(time.RFC3339, cursorStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_CURSOR", "Cursor must be an RFC3339 timestamp")
			return
		}
		cursor = &t
	}

	pageSize := 0
	if sizeStr := r.URL.Query().Get("pageSize"); sizeStr != "" {
		if n, err := strconv.Atoi(sizeStr); err == nil {
			pageSize = n
		}
	}

	filter := r.URL.Query().Get("filter")

	page, err := h.activityService.ListFeed(r.Context(), callerID, cursor, pageSize, filter)
	if err != nil {
		log.Printf("ERROR list activities: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())
	activityID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid activity ID")
		return
	}

	details, err := h.activityService.GetDetails(r.Context(), callerID, activityID)
	if err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Activity not found")
		} else {
			log.Printf("ERROR get activity: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, details)
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.ActivityInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateActivity(input.Title, input.Description, input.Category, input.City, input.Venue, input.Date); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	activity, err := h.activityService.Create(r.Context(), userID, input)
	if err != nil {
		log.Printf("ERROR create activity: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusCreated, activity)
}

func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	activityID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid activity ID")
		return
	}

	var input service.ActivityInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateActivity(input.Title, input.Description, input.Category, input.City, input.Venue, input.Date); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	activity, err := h.activityService.Update(r.Context(), userID, activityID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotHost):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the host can edit this activity")
		case errors.Is(err, service.ErrActivityNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Activity not found")
		default:
			log.Printf("ERROR update activity: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, activity)
}

func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	activityID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid activity ID")
		return
	}

	if err := h.activityService.Delete(r.Context(), userID, activityID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotHost):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the host can delete this activity")
		case errors.Is(err, service.ErrActivityNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Activity not found")
		default:
			log.Printf("ERROR delete activity: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ActivityHandler) ToggleAttendance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	activityID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid activity ID")
		return
	}

	if err := h.activityService.ToggleAttendance(r.Context(), userID, activityID); err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Activity not found")
		case errors.Is(err, service.ErrHostCannotLeave):
			writeError(w, http.StatusBadRequest, "HOST_CANNOT_LEAVE", "The host cannot leave their own activity")
		default:
			log.Printf("ERROR toggle attendance: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
