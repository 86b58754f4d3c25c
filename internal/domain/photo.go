package domain

import (
	"time"

	"github.com/google/uuid"
)

type Photo struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	URL       string    `json:"url"`
	PublicID  string    `json:"public_id"`
	CreatedAt time.Time `json:"created_at"`
}
