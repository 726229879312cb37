package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonbook/salon-scheduler/internal/audit"
)

func TestEncodeWrapsEventInEnvelope(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	id := uuid.New()

	payload, err := encode(audit.Event{
		SalonID:  uuid.New(),
		Action:   "review_created",
		Entity:   "review",
		EntityID: &id,
		Metadata: map[string]any{"rating": 5},
	}, now)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(payload, &raw))

	assert.Equal(t, "2026-03-10T15:00:00Z", raw["occurred_at"])
	ev := raw["event"].(map[string]any)
	assert.Equal(t, "review_created", ev["action"])
	assert.Equal(t, id.String(), ev["entity_id"])
	assert.NotContains(t, ev, "actor_id")
}
