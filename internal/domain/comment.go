package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment is append-only: no edit or delete.
type Comment struct {
	ID         uuid.UUID `json:"id"`
	ActivityID uuid.UUID `json:"activity_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
	// Joined fields
	AuthorDisplayName string  `json:"author_display_name,omitempty"`
	AuthorImageURL    *string `json:"author_image_url,omitempty"`
}
