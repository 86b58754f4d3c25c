package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reactivities-app/backend/internal/domain"
	"github.com/reactivities-app/backend/internal/observability"
	"github.com/reactivities-app/backend/internal/repository"
)

var ErrCommentNotSaved = errors.New("failed to add comment")

// Notifier broadcasts real-time events to connected clients.
type Notifier interface {
	NotifyNewComment(comment *domain.Comment)
}

type CommentService struct {
	commentRepo  repository.CommentRepository
	activityRepo repository.ActivityRepository
	notifier     Notifier
}

func NewCommentService(commentRepo repository.CommentRepository, activityRepo repository.ActivityRepository) *CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		activityRepo: activityRepo,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *CommentService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Add appends a comment to an activity and returns it with the author's
// display fields resolved.
func (s *CommentService) Add(ctx context.Context, authorID, activityID uuid.UUID, body string) (*domain.Comment, error) {
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	comment := &domain.Comment{
		ID:         uuid.New(),
		ActivityID: activityID,
		AuthorID:   authorID,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, ErrCommentNotSaved
		}
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	full, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	if full == nil {
		return nil, ErrCommentNotSaved
	}

	if s.notifier != nil {
		s.notifier.NotifyNewComment(full)
	}

	observability.IncCommentsAdded()
	return full, nil
}

// ListByActivity returns an activity's comments, newest first.
func (s *CommentService) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]domain.Comment, error) {
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	comments, err := s.commentRepo.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}
