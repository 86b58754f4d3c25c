package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserFollowing is a directed edge: observer follows target.
type UserFollowing struct {
	ObserverID   uuid.UUID `json:"observer_id"`
	TargetID     uuid.UUID `json:"target_id"`
	DateFollowed time.Time `json:"date_followed"`
}

// Profile is the public view of a user, annotated for the current caller.
type Profile struct {
	ID             uuid.UUID `json:"id"`
	DisplayName    string    `json:"display_name"`
	Bio            *string   `json:"bio,omitempty"`
	ImageURL       *string   `json:"image_url,omitempty"`
	FollowersCount int       `json:"followers_count"`
	FollowingCount int       `json:"following_count"`
	Following      bool      `json:"following"`
}
