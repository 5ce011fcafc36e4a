package entity

import "time"

// Conversation is the persisted mirror of one chat session. One row per
// session id, overwritten in place on every turn.
type Conversation struct {
	ID        int64     `json:"id"`
	LeadID    *int64    `json:"lead_id,omitempty"`
	SessionID string    `json:"session_id"`
	Messages  string    `json:"messages"` // role-tagged message list, JSON blob
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
