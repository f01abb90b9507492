package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"travel-assistant/internal/domain"
)

type fakeDynamo struct {
	getOut       *dynamodb.GetItemOutput
	getErr       error
	putErr       error
	lastGetInput *dynamodb.GetItemInput
	lastPutInput *dynamodb.PutItemInput
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.lastGetInput = in
	return f.getOut, f.getErr
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPutInput = in
	return &dynamodb.PutItemOutput{}, f.putErr
}

func makeItem(userID, sessionID, conversation, updatedAt string) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		attrUserID:       &types.AttributeValueMemberS{Value: userID},
		attrSessionID:    &types.AttributeValueMemberS{Value: sessionID},
		attrConversation: &types.AttributeValueMemberS{Value: conversation},
	}
	if updatedAt != "" {
		item[attrUpdatedAt] = &types.AttributeValueMemberS{Value: updatedAt}
	}
	return item
}

func mustNewClient(t *testing.T, db *fakeDynamo) *Client {
	t.Helper()
	c, err := New(db, "TravelAgentMemory")
	require.NoError(t, err)
	return c
}

func TestGet_Found(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{
		Item: makeItem("u1", "s1", "上次聊到京都", "2026-02-27T12:00:00.5Z"),
	}}
	c := mustNewClient(t, db)

	rec, found, err := c.Get(context.Background(), "u1", "s1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "上次聊到京都", rec.Conversation)
	require.Equal(t, time.Date(2026, 2, 27, 12, 0, 0, 500_000_000, time.UTC), rec.UpdatedAt)

	require.Equal(t, "TravelAgentMemory", *db.lastGetInput.TableName)
	require.Equal(t, "u1", db.lastGetInput.Key[attrUserID].(*types.AttributeValueMemberS).Value)
	require.Equal(t, "s1", db.lastGetInput.Key[attrSessionID].(*types.AttributeValueMemberS).Value)
	require.True(t, *db.lastGetInput.ConsistentRead)
}

func TestGet_NaiveTimestamp(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{
		Item: makeItem("u1", "s1", "c", "2025-12-31T08:15:30.123456"),
	}}
	rec, found, err := mustNewClient(t, db).Get(context.Background(), "u1", "s1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, time.Date(2025, 12, 31, 8, 15, 30, 123456000, time.UTC), rec.UpdatedAt)
}

func TestGet_NotFound(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{}}
	_, found, err := mustNewClient(t, db).Get(context.Background(), "u1", "s1")
	require.NoError(t, err)
	require.False(t, found)
}

func TestGet_DynamoError(t *testing.T) {
	db := &fakeDynamo{getErr: errors.New("ResourceNotFoundException")}
	_, _, err := mustNewClient(t, db).Get(context.Background(), "u1", "s1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "repository: Get")
}

func TestGet_MalformedItem(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
		attrUserID:    &types.AttributeValueMemberN{Value: "1"},
		attrSessionID: &types.AttributeValueMemberS{Value: "s1"},
	}}}
	_, _, err := mustNewClient(t, db).Get(context.Background(), "u1", "s1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a string")

	db.getOut.Item = makeItem("u1", "s1", "c", "yesterday")
	_, _, err = mustNewClient(t, db).Get(context.Background(), "u1", "s1")
	require.ErrorContains(t, err, "timestamp")
}

func TestGet_RequiresKeys(t *testing.T) {
	db := &fakeDynamo{}
	_, _, err := mustNewClient(t, db).Get(context.Background(), "", "s1")
	require.Error(t, err)
	require.Nil(t, db.lastGetInput)
}

func TestPut_HappyPath(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db)
	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.FixedZone("JST", 9*3600))

	err := c.Put(context.Background(), domain.ConversationRecord{
		UserID: "u1", SessionID: "s1", Conversation: "聊到大阪", UpdatedAt: ts,
	})
	require.NoError(t, err)
	item := db.lastPutInput.Item
	require.Equal(t, "u1", item[attrUserID].(*types.AttributeValueMemberS).Value)
	require.Equal(t, "s1", item[attrSessionID].(*types.AttributeValueMemberS).Value)
	require.Equal(t, "聊到大阪", item[attrConversation].(*types.AttributeValueMemberS).Value)
	require.Equal(t, "2026-03-01T00:00:00Z", item[attrUpdatedAt].(*types.AttributeValueMemberS).Value)
	require.Nil(t, db.lastPutInput.ConditionExpression, "save is an unconditional upsert")
}

func TestPut_MissingKeys(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db)
	require.Error(t, c.Put(context.Background(), domain.ConversationRecord{SessionID: "s1"}))
	require.Error(t, c.Put(context.Background(), domain.ConversationRecord{UserID: "u1"}))
	require.Nil(t, db.lastPutInput)
}

func TestPut_DynamoError(t *testing.T) {
	db := &fakeDynamo{putErr: errors.New("ProvisionedThroughputExceededException")}
	err := mustNewClient(t, db).Put(context.Background(), domain.ConversationRecord{UserID: "u", SessionID: "s"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "repository: Put")
}

func TestNew_NilAPI(t *testing.T) {
	_, err := New(nil, "test-table")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be nil")
}

func TestNew_EmptyTableName(t *testing.T) {
	_, err := New(&fakeDynamo{}, " ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be empty")
}
