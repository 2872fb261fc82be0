package ws

import (
	"encoding/json"
	"time"
)

// BoardUpdatedEvent tells subscribed clients that the job board changed and
// they should re-query. It carries no board data: the fresh listing is the
// source of truth, not the event.
type BoardUpdatedEvent struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// Notifier adapts the hub to the board service's notification port.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) BoardChanged() {
	if n == nil || n.hub == nil {
		return
	}

	evt := BoardUpdatedEvent{
		Type:      "board_updated",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}
