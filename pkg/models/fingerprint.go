package models

import "time"

// CacheEntry is the persisted memory of one successful stream match.
// The composite key (GroupID, StreamID, StreamName) is the stream's
// fingerprint; at most one entry exists per fingerprint.
type CacheEntry struct {
	GroupID            string    `json:"group_id"`
	StreamID           string    `json:"stream_id"`
	StreamName         string    `json:"stream_name"`
	EventID            string    `json:"event_id"`
	League             string    `json:"league"`
	Snapshot           *Event    `json:"snapshot"` // event as matched; static identity fields come from here
	LastSeenGeneration int64     `json:"last_seen_generation"`
	MatchedAt          time.Time `json:"matched_at"`
}

// CacheStats is an introspection snapshot of the fingerprint store
type CacheStats struct {
	Size       int64 `json:"size"`
	Generation int64 `json:"generation"`
}
