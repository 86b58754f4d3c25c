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

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	activityID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid activity ID")
		return
	}

	var input struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateComment(input.Body); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	comment, err := h.commentService.Add(r.Context(), userID, activityID, input.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Activity not found")
		case errors.Is(err, service.ErrCommentNotSaved):
			writeError(w, http.StatusBadRequest, "COMMENT_NOT_SAVED", "Failed to add comment")
		default:
			log.Printf("ERROR add comment: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	activityID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid activity ID")
		return
	}

	comments, err := h.commentService.ListByActivity(r.Context(), activityID)
	if err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Activity not found")
		} else {
			log.Printf("ERROR list comments: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, comments)
}
