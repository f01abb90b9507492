package usecase

import (
	"context"
	"errors"
	"time"

	"travel-assistant/internal/domain"
	"travel-assistant/internal/params"
)

// MemoryStore persists one conversation record per (userId, sessionId).
type MemoryStore interface {
	Get(ctx context.Context, userID, sessionID string) (domain.ConversationRecord, bool, error)
	Put(ctx context.Context, rec domain.ConversationRecord) error
}

// MemoryFound is the /get_memory body for an existing record.
type MemoryFound struct {
	Status      string `json:"status"`
	History     string `json:"history"`
	LastUpdated string `json:"last_updated"`
}

type MemoryMessage struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// MemoryService loads and saves conversation memory for the agent.
type MemoryService struct {
	store MemoryStore
	now   func() time.Time
}

// NewMemoryService creates a MemoryService. A nil now uses time.Now.
func NewMemoryService(store MemoryStore, now func() time.Time) (*MemoryService, error) {
	if store == nil {
		return nil, errors.New("usecase: memory store must not be nil")
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryService{store: store, now: now}, nil
}

// Load handles /get_memory. An absent record is a normal not_found answer.
func (s *MemoryService) Load(ctx context.Context, p params.Map) (any, error) {
	userID, sessionID, err := memoryKey(p)
	if err != nil {
		return nil, err
	}
	rec, found, err := s.store.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, newError(ErrorPersistenceFailure, "memory_load_error", err)
	}
	if !found {
		return MemoryMessage{Status: MemoryStatusNotFound, Message: MsgMemoryNotFound}, nil
	}
	last := ""
	if !rec.UpdatedAt.IsZero() {
		last = rec.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return MemoryFound{Status: MemoryStatusFound, History: rec.Conversation, LastUpdated: last}, nil
}

// Save handles /save_memory. It overwrites any earlier record for the key.
func (s *MemoryService) Save(ctx context.Context, p params.Map) (any, error) {
	userID, sessionID, err := memoryKey(p)
	if err != nil {
		return nil, err
	}
	if missing := p.Missing("conversation"); len(missing) > 0 {
		return nil, missingParameter(missing...)
	}
	rec := domain.ConversationRecord{
		UserID:       userID,
		SessionID:    sessionID,
		Conversation: p.Get("conversation"),
		UpdatedAt:    s.now().UTC(),
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, newError(ErrorPersistenceFailure, "memory_save_error", err)
	}
	return MemoryMessage{Status: MemoryStatusSuccess, Message: MsgMemorySaved}, nil
}

func memoryKey(p params.Map) (string, string, error) {
	if missing := p.Missing("userId", "sessionId"); len(missing) > 0 {
		return "", "", missingParameter(missing...)
	}
	return p.GetOr("userId", ""), p.GetOr("sessionId", ""), nil
}
