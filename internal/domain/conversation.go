package domain

import "time"

// ConversationRecord is the persisted per-user, per-session memory of prior dialogue.
type ConversationRecord struct {
	UserID       string
	SessionID    string
	Conversation string
	UpdatedAt    time.Time
}

// Valid reports whether both identity components are present.
func (r ConversationRecord) Valid() bool {
	return r.UserID != "" && r.SessionID != ""
}
