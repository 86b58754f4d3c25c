package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/reactivities-app/backend/internal/domain"
)

// Event types - Client → Server
const (
	EventTypeActivitySubscribe   = "activity.subscribe"
	EventTypeActivityUnsubscribe = "activity.unsubscribe"
	EventTypePing                = "ping"
)

// Event types - Server → Client
const (
	EventTypeCommentNew = "comment.new"
	EventTypePresence   = "presence"
	EventTypePong       = "pong"
	EventTypeError      = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type       string          `json:"type"`
	ActivityID *uuid.UUID      `json:"activity_id,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Timestamp  int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type ActivityPayload struct {
	ActivityID uuid.UUID `json:"activity_id"`
}

// --- Server → Client payloads ---

type CommentPayload struct {
	Comment domain.Comment `json:"comment"`
}

type PresencePayload struct {
	UserID uuid.UUID `json:"user_id"`
	Status string    `json:"status"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// NewEvent builds an Event with a marshaled payload and current timestamp.
func NewEvent(eventType string, activityID *uuid.UUID, payload any) (*Event, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	return &Event{
		Type:       eventType,
		ActivityID: activityID,
		Payload:    raw,
		Timestamp:  time.Now().UnixMilli(),
	}, nil
}
