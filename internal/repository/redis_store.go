package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"travel-assistant/internal/domain"
)

const memoryPrefix = "memory:"

// redisAPI is the subset of *redis.Client used by RedisStore.
type redisAPI interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type redisRecord struct {
	UserID       string `json:"userId"`
	SessionID    string `json:"sessionId"`
	Conversation string `json:"conversation"`
	UpdatedAt    string `json:"updatedAt"`
}

// RedisStore keeps one JSON document per (userId, sessionId). Records do not
// expire unless a TTL is given.
type RedisStore struct {
	rdb redisAPI
	ttl time.Duration
}

// NewRedisStore creates a RedisStore. A zero ttl keeps records forever.
func NewRedisStore(rdb redisAPI, ttl time.Duration) (*RedisStore, error) {
	if rdb == nil {
		return nil, errors.New("repository: redis client must not be nil")
	}
	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

// memoryKey escapes both parts so that no two distinct (userId, sessionId)
// pairs share a key.
func memoryKey(userID, sessionID string) string {
	return memoryPrefix + url.QueryEscape(userID) + ":" + url.QueryEscape(sessionID)
}

// Get loads the record for (userID, sessionID). A missing key is not an error.
func (s *RedisStore) Get(ctx context.Context, userID, sessionID string) (domain.ConversationRecord, bool, error) {
	if userID == "" || sessionID == "" {
		return domain.ConversationRecord{}, false, errors.New("repository: Get: userId and sessionId are required")
	}
	data, err := s.rdb.Get(ctx, memoryKey(userID, sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ConversationRecord{}, false, nil
	}
	if err != nil {
		return domain.ConversationRecord{}, false, fmt.Errorf("repository: redis get: %w", err)
	}

	var r redisRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return domain.ConversationRecord{}, false, fmt.Errorf("repository: redis decode: %w", err)
	}
	if r.UserID != userID || r.SessionID != sessionID {
		return domain.ConversationRecord{}, false, fmt.Errorf("repository: redis record under %q belongs to another conversation", memoryKey(userID, sessionID))
	}
	rec := domain.ConversationRecord{UserID: r.UserID, SessionID: r.SessionID, Conversation: r.Conversation}
	if r.UpdatedAt != "" {
		ts, err := parseTimestamp(r.UpdatedAt)
		if err != nil {
			return domain.ConversationRecord{}, false, err
		}
		rec.UpdatedAt = ts
	}
	return rec, true, nil
}

// Put replaces any existing record with the same key.
func (s *RedisStore) Put(ctx context.Context, rec domain.ConversationRecord) error {
	if !rec.Valid() {
		return errors.New("repository: Put: userId and sessionId are required")
	}
	data, err := json.Marshal(redisRecord{
		UserID:       rec.UserID,
		SessionID:    rec.SessionID,
		Conversation: rec.Conversation,
		UpdatedAt:    formatTimestamp(rec.UpdatedAt),
	})
	if err != nil {
		return fmt.Errorf("repository: redis encode: %w", err)
	}
	if err := s.rdb.Set(ctx, memoryKey(rec.UserID, rec.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("repository: redis set: %w", err)
	}
	return nil
}
