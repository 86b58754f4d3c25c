package domain

import (
	"time"

	"github.com/google/uuid"
)

type Activity struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	City        string    `json:"city"`
	Venue       string    `json:"venue"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Attendee links a user to an activity. The composite key (UserID, ActivityID)
// is the uniqueness guarantee for racing RSVPs.
type Attendee struct {
	UserID     uuid.UUID `json:"user_id"`
	ActivityID uuid.UUID `json:"activity_id"`
	IsHost     bool      `json:"is_host"`
	DateJoined time.Time `json:"date_joined"`
	// Joined fields
	DisplayName string  `json:"display_name,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// ActivityListItem is a feed row annotated with the caller's relationship to
// the activity so the client needs no second round trip.
type ActivityListItem struct {
	Activity
	IsGoing         bool      `json:"is_going"`
	IsHost          bool      `json:"is_host"`
	HostID          uuid.UUID `json:"host_id"`
	HostDisplayName string    `json:"host_display_name"`
	AttendeeCount   int       `json:"attendee_count"`
}

type ActivityDetails struct {
	ActivityListItem
	Attendees []Attendee `json:"attendees"`
}
