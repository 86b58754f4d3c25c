package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBufSize  = 256
)

// Client represents a single WebSocket connection.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID

	// subscribedActivities tracks which comment streams this client follows.
	subscribedActivities map[uuid.UUID]struct{}
	mu                   sync.RWMutex

	send chan []byte
	done chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		hub:                  hub,
		conn:                 conn,
		userID:               userID,
		subscribedActivities: make(map[uuid.UUID]struct{}),
		send:                 make(chan []byte, sendBufSize),
		done:                 make(chan struct{}),
	}
}

// IsSubscribed checks if this client follows an activity's comment stream.
func (c *Client) IsSubscribed(activityID uuid.UUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.subscribedActivities[activityID]
	return ok
}

// Subscribe adds an activity subscription.
func (c *Client) Subscribe(activityID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribedActivities[activityID] = struct{}{}
}

// Unsubscribe removes an activity subscription.
func (c *Client) Unsubscribe(activityID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subscribedActivities, activityID)
}

// ReadPump reads messages from the WebSocket and routes them to the Hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var event Event
		err := wsjson.Read(context.Background(), c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Printf("ws: client %s disconnected", c.userID)
			} else {
				log.Printf("ws: read error from %s: %v", c.userID, err)
			}
			return
		}

		c.handleEvent(&event)
	}
}

// WritePump writes messages from the send channel to the WebSocket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				log.Printf("ws: write error to %s: %v", c.userID, err)
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				log.Printf("ws: ping error to %s: %v", c.userID, err)
				return
			}

		case <-c.done:
			return
		}
	}
}

// handleEvent routes an incoming client event.
func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventTypeActivitySubscribe:
		var p ActivityPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("invalid activity.subscribe payload")
			return
		}
		c.Subscribe(p.ActivityID)
		log.Printf("ws: %s subscribed to activity %s", c.userID, p.ActivityID)

	case EventTypeActivityUnsubscribe:
		var p ActivityPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("invalid activity.unsubscribe payload")
			return
		}
		c.Unsubscribe(p.ActivityID)
		log.Printf("ws: %s unsubscribed from activity %s", c.userID, p.ActivityID)

	case EventTypePing:
		c.sendPong()

	default:
		c.sendError("unknown event type: " + event.Type)
	}
}

func (c *Client) sendPong() {
	data, _ := json.Marshal(Event{Type: EventTypePong})
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendError(message string) {
	evt, err := NewEvent(EventTypeError, nil, ErrorPayload{Message: message})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
