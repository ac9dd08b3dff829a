package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const EventTrendingUpdated = "trending_updated"

type TrendingUpdatedEvent struct {
	Type      string      `json:"type"`
	Kind      string      `json:"kind"`
	Limit     int         `json:"limit"`
	JobIDs    []uuid.UUID `json:"job_ids"`
	Timestamp string      `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

// NotifyTrendingUpdated tells subscribers that a feed was recomputed.
// It is a no-op until a default hub is set.
func NotifyTrendingUpdated(kind string, limit int, ids []uuid.UUID) {
	h := defaultHub.Load()
	if h == nil {
		return
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}

	evt := TrendingUpdatedEvent{
		Type:      EventTrendingUpdated,
		Kind:      kind,
		Limit:     limit,
		JobIDs:    ids,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(b)
}
