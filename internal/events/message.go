package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/salonbook/salon-scheduler/internal/audit"
)

// Message is the envelope published to brokers for every domain event.
type Message struct {
	ID         uuid.UUID   `json:"id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Event      audit.Event `json:"event"`
}

func encode(ev audit.Event, now time.Time) ([]byte, error) {
	return json.Marshal(Message{
		ID:         uuid.New(),
		OccurredAt: now.UTC(),
		Event:      ev,
	})
}
