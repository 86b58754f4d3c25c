package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/reactivities-app/backend/internal/domain"
)

// ErrDuplicate is returned when an insert hits a uniqueness constraint.
// Toggle commands treat it as "someone else already toggled it".
var ErrDuplicate = errors.New("duplicate row")

// ErrNoRowsAffected is returned when a write committed but changed nothing.
var ErrNoRowsAffected = errors.New("no rows affected")

// FeedQuery describes one page request of the activity feed.
// CallerID may be uuid.Nil for anonymous browsing.
type FeedQuery struct {
	CallerID uuid.UUID
	From     time.Time
	Limit    int
	Filter   string // "", "isGoing" or "isHost"
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, displayName string, bio *string) error
	SetImageURL(ctx context.Context, id uuid.UUID, url string) error
}

type ActivityRepository interface {
	// Create persists the activity and its host attendee row atomically.
	Create(ctx context.Context, activity *domain.Activity, host *domain.Attendee) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error)
	Update(ctx context.Context, activity *domain.Activity) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListFeed(ctx context.Context, q FeedQuery) ([]domain.ActivityListItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter string, now time.Time) ([]domain.Activity, error)
	AddAttendee(ctx context.Context, attendee *domain.Attendee) error
	RemoveAttendee(ctx context.Context, userID, activityID uuid.UUID) error
	GetAttendee(ctx context.Context, userID, activityID uuid.UUID) (*domain.Attendee, error)
	ListAttendees(ctx context.Context, activityID uuid.UUID) ([]domain.Attendee, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListByActivity(ctx context.Context, activityID uuid.UUID) ([]domain.Comment, error)
}

type FollowingRepository interface {
	Get(ctx context.Context, observerID, targetID uuid.UUID) (*domain.UserFollowing, error)
	Create(ctx context.Context, following *domain.UserFollowing) error
	Delete(ctx context.Context, observerID, targetID uuid.UUID) error
	ListFollowers(ctx context.Context, targetID uuid.UUID) ([]domain.Profile, error)
	ListFollowing(ctx context.Context, observerID uuid.UUID) ([]domain.Profile, error)
	Counts(ctx context.Context, userID uuid.UUID) (followers int, following int, err error)
}

type PhotoRepository interface {
	Create(ctx context.Context, photo *domain.Photo) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Photo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
