package repository

import (
	"context"

	"travel-assistant/internal/domain"
)

// ConversationStore persists conversation memory keyed by (userId, sessionId).
// Get reports found=false with a nil error when no record exists.
type ConversationStore interface {
	Get(ctx context.Context, userID, sessionID string) (domain.ConversationRecord, bool, error)
	Put(ctx context.Context, rec domain.ConversationRecord) error
}

var (
	_ ConversationStore = (*Client)(nil)
	_ ConversationStore = (*RedisStore)(nil)
)
