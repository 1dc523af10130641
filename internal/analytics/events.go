package analytics

import "time"

type EventType string

const (
	EventSearch    EventType = "search"
	EventIndexFile EventType = "index_file"
)

// SearchEvent describes one answered query.
type SearchEvent struct {
	Type      EventType `json:"type"`
	Query     string    `json:"query"`
	Result    string    `json:"result"`
	Count     int       `json:"count"`
	LatencyUs int64     `json:"latency_us"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// IndexEvent describes one completed indexing pass.
type IndexEvent struct {
	Type      EventType `json:"type"`
	File      string    `json:"file"`
	Backend   string    `json:"backend"`
	Words     int64     `json:"words"`
	Terms     int       `json:"terms"`
	Lines     int       `json:"lines"`
	LatencyMs int64     `json:"latency_ms"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}
