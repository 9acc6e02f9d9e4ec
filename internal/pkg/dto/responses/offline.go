package responses

import (
	"time"

	"github.com/goccy/go-json"
)

type OfflineAction struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Table     string          `json:"table,omitempty"`
	TargetID  string          `json:"target_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type EnqueueOfflineAction struct {
	Action OfflineAction `json:"action"`
	Queued bool          `json:"queued"`
}

type SyncReport struct {
	Succeeded  []string  `json:"succeeded"`
	Failed     []string  `json:"failed"`
	Skipped    []string  `json:"skipped"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type CachedValue struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}
