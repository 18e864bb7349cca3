package models

import "time"

// ConversationTurn is a Session Store row: one request/response pair.
type ConversationTurn struct {
	ID         int64         `json:"id"`
	SessionID  string        `json:"session_id"`
	Query      string        `json:"query"`
	Response   string        `json:"response"`
	SQL        string        `json:"sql"`
	SemanticIR *SemanticIR   `json:"semantic_ir,omitempty"`
	Metrics    map[string]any `json:"metrics,omitempty"`
	Chart      map[string]any `json:"chart,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// SessionMetadata tracks per-session activity for the lifecycle sweeper.
type SessionMetadata struct {
	SessionID    string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	IsActive     bool      `json:"is_active"`
	TotalQueries int       `json:"total_queries"`
}
