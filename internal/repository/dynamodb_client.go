package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"travel-assistant/internal/domain"
)

const (
	attrUserID       = "userId"
	attrSessionID    = "sessionId"
	attrConversation = "conversation"
	attrUpdatedAt    = "updatedAt"
)

// Timestamps are written as RFC 3339 in UTC. Older rows may carry a naive
// ISO-8601 value without zone, which is read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// dynamodbAPI is the minimal DynamoDB interface required by Client.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Client stores conversation memory in a DynamoDB table whose key is
// (userId HASH, sessionId RANGE).
type Client struct {
	api       dynamodbAPI
	tableName string
}

// New creates a new repository Client for tableName.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName}, nil
}

// Get loads the record for (userID, sessionID). A missing item reports
// found=false with no error.
func (c *Client) Get(ctx context.Context, userID, sessionID string) (domain.ConversationRecord, bool, error) {
	if userID == "" || sessionID == "" {
		return domain.ConversationRecord{}, false, errors.New("repository: Get: userId and sessionId are required")
	}
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.tableName),
		Key:            recordKey(userID, sessionID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.ConversationRecord{}, false, fmt.Errorf("repository: Get: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return domain.ConversationRecord{}, false, nil
	}
	rec, err := itemToRecord(out.Item)
	if err != nil {
		return domain.ConversationRecord{}, false, fmt.Errorf("repository: Get decode: %w", err)
	}
	return rec, true, nil
}

// Put replaces any existing record with the same key.
func (c *Client) Put(ctx context.Context, rec domain.ConversationRecord) error {
	if !rec.Valid() {
		return errors.New("repository: Put: userId and sessionId are required")
	}
	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      recordItem(rec),
	})
	if err != nil {
		return fmt.Errorf("repository: Put: %w", err)
	}
	return nil
}

func recordKey(userID, sessionID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrUserID:    &types.AttributeValueMemberS{Value: userID},
		attrSessionID: &types.AttributeValueMemberS{Value: sessionID},
	}
}

func recordItem(rec domain.ConversationRecord) map[string]types.AttributeValue {
	item := recordKey(rec.UserID, rec.SessionID)
	item[attrConversation] = &types.AttributeValueMemberS{Value: rec.Conversation}
	item[attrUpdatedAt] = &types.AttributeValueMemberS{Value: formatTimestamp(rec.UpdatedAt)}
	return item
}

func itemToRecord(item map[string]types.AttributeValue) (domain.ConversationRecord, error) {
	userID, err := strAttr(item, attrUserID)
	if err != nil {
		return domain.ConversationRecord{}, err
	}
	sessionID, err := strAttr(item, attrSessionID)
	if err != nil {
		return domain.ConversationRecord{}, err
	}
	conversation, _ := strAttr(item, attrConversation) // allow empty
	rec := domain.ConversationRecord{UserID: userID, SessionID: sessionID, Conversation: conversation}

	if raw, err := strAttr(item, attrUpdatedAt); err == nil {
		ts, err := parseTimestamp(raw)
		if err != nil {
			return domain.ConversationRecord{}, err
		}
		rec.UpdatedAt = ts
	}
	return rec, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("repository: attribute %q has unrecognised timestamp %q", attrUpdatedAt, raw)
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}
