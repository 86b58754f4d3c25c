package ws

import (
	"log"

	"github.com/reactivities-app/backend/internal/domain"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyNewComment(comment *domain.Comment) {
	evt, err := NewEvent(EventTypeCommentNew, &comment.ActivityID, CommentPayload{Comment: *comment})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToActivity(comment.ActivityID, evt, nil)
}
