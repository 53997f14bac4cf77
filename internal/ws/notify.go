package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type MatchProgressEvent struct {
	Type      string `json:"type"`
	Direction string `json:"direction"`
	ID        string `json:"id"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Timestamp string `json:"timestamp"`
}

// MatchNotifier publishes pipeline progress to the hub. It satisfies the
// pipeline's Notifier interface.
type MatchNotifier struct {
	hub *Hub
}

func NewMatchNotifier(hub *Hub) *MatchNotifier {
	return &MatchNotifier{hub: hub}
}

func (n *MatchNotifier) MatchProgress(direction string, id uuid.UUID, processed, total, succeeded, failed int) {
	n.publish("match_progress", direction, id, processed, total, succeeded, failed)
}

func (n *MatchNotifier) MatchCompleted(direction string, id uuid.UUID, total, succeeded, failed int) {
	n.publish("match_completed", direction, id, total, total, succeeded, failed)
}

func (n *MatchNotifier) publish(eventType, direction string, id uuid.UUID, processed, total, succeeded, failed int) {
	if n == nil || n.hub == nil {
		return
	}

	evt := MatchProgressEvent{
		Type:      eventType,
		Direction: direction,
		ID:        id.String(),
		Processed: processed,
		Total:     total,
		Succeeded: succeeded,
		Failed:    failed,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}
