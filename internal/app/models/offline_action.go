package models

import (
	"time"

	"github.com/goccy/go-json"
)

// OfflineAction is one deferred write, owned by the user whose session captured it.
type OfflineAction struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Type      string          `json:"type"`
	Table     string          `json:"table,omitempty"`
	TargetID  string          `json:"target_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Sequence  int64           `json:"sequence"`
}

// CacheEntry is how a cached value sits in the store. Expiry is checked on read only.
type CacheEntry struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (e CacheEntry) ExpiredAt(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
