package requests

import (
	"time"

	"github.com/goccy/go-json"
)

type EnqueueOfflineAction struct {
	ID        string          `json:"id" validate:"omitempty,max=64"`
	Type      string          `json:"type" validate:"required,max=64"`
	Table     string          `json:"table" validate:"omitempty,max=64"`
	TargetID  string          `json:"target_id" validate:"omitempty,max=64"`
	Data      json.RawMessage `json:"data"`
	Timestamp *time.Time      `json:"timestamp"`
}

type CacheValue struct {
	Key        string          `json:"-" validate:"required,max=128"`
	Value      json.RawMessage `json:"value" validate:"required"`
	TTLMinutes int             `json:"ttl_minutes" validate:"required,gt=0"`
}
