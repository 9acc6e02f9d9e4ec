package models

import "time"

type SyncState string

const (
	SyncStateIdle    SyncState = "idle"
	SyncStateSyncing SyncState = "syncing"
)

type SyncReport struct {
	Succeeded  []string
	Failed     []string
	Skipped    []string
	StartedAt  time.Time
	FinishedAt time.Time
}
