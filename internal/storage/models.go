package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Event is one analytics event tied to a session.
type Event struct {
	ID        string
	SessionID string
	Type      string
	DataJSON  string // JSON object stored as text
	CreatedAt time.Time
}

// SessionSummary is the listing row for recent sessions.
type SessionSummary struct {
	ID        string    `json:"session_id"`
	Stage     string    `json:"stage"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Analytics aggregates activity over a reporting window.
type Analytics struct {
	Sessions    int            `json:"sessions"`
	Messages    int            `json:"messages"`
	EventCounts map[string]int `json:"event_counts"`
}
