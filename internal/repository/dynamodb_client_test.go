package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"deskmate/internal/domain"
)

type fakeDynamo struct {
	queryOuts   []*dynamodb.QueryOutput
	queryErr    error
	txErr       error
	queryInputs []dynamodb.QueryInput
	lastTxInput *dynamodb.TransactWriteItemsInput
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queryInputs = append(f.queryInputs, *in)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if len(f.queryOuts) == 0 {
		return &dynamodb.QueryOutput{}, nil
	}
	out := f.queryOuts[0]
	f.queryOuts = f.queryOuts[1:]
	return out, nil
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.lastTxInput = in
	return &dynamodb.TransactWriteItemsOutput{}, f.txErr
}

func makeItem(sk string, role domain.Role, text string, ts time.Time) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":             &types.AttributeValueMemberS{Value: "CONV#c1"},
		"SK":             &types.AttributeValueMemberS{Value: sk},
		"conversationId": &types.AttributeValueMemberS{Value: "c1"},
		"role":           &types.AttributeValueMemberS{Value: string(role)},
		"text":           &types.AttributeValueMemberS{Value: text},
		"ts":             &types.AttributeValueMemberS{Value: ts.Format(time.RFC3339Nano)},
	}
}

func newTestClient(t *testing.T, f *fakeDynamo) *Client {
	t.Helper()
	c, err := New(f, "deskmate-state")
	require.NoError(t, err)
	c.now = func() time.Time { return time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC) }
	return c
}

func sVal(t *testing.T, item map[string]types.AttributeValue, key string) string {
	t.Helper()
	v, ok := item[key].(*types.AttributeValueMemberS)
	require.True(t, ok, key)
	return v.Value
}

// ---------------------------------------------------------------------------
// AppendTurns
// ---------------------------------------------------------------------------

func TestAppendTurns_WritesMessagesAndMetaInOneTransaction(t *testing.T) {
	f := &fakeDynamo{}
	c := newTestClient(t, f)

	userAt := time.Date(2025, 5, 1, 9, 59, 59, 0, time.UTC)
	err := c.AppendTurns(context.Background(), "c1",
		domain.Turn{Role: domain.RoleUser, Text: "hello", Timestamp: userAt},
		domain.Turn{Role: domain.RoleAssistant, Text: "hi there"},
	)
	require.NoError(t, err)
	require.NotNil(t, f.lastTxInput)

	items := f.lastTxInput.TransactItems
	require.Len(t, items, 3)

	first := items[0].Put
	require.NotNil(t, first)
	require.Equal(t, "deskmate-state", *first.TableName)
	require.Equal(t, "CONV#c1", sVal(t, first.Item, "PK"))
	require.Equal(t, "MSG#2025-05-01T10:00:00.000000000Z#000", sVal(t, first.Item, "SK"))
	require.Equal(t, "user", sVal(t, first.Item, "role"))
	require.Equal(t, "hello", sVal(t, first.Item, "text"))
	require.Equal(t, userAt.Format(time.RFC3339Nano), sVal(t, first.Item, "ts"))
	require.Contains(t, *first.ConditionExpression, "attribute_not_exists")

	second := items[1].Put
	require.Equal(t, "MSG#2025-05-01T10:00:00.000000000Z#001", sVal(t, second.Item, "SK"))
	require.Equal(t, "assistant", sVal(t, second.Item, "role"))

	meta := items[2].Update
	require.NotNil(t, meta)
	require.Equal(t, "META#", sVal(t, meta.Key, "SK"))
	require.Contains(t, *meta.UpdateExpression, "ADD turns :n")
	n, ok := meta.ExpressionAttributeValues[":n"].(*types.AttributeValueMemberN)
	require.True(t, ok)
	require.Equal(t, "2", n.Value)
}

func TestAppendTurns_NoTurnsIsNoop(t *testing.T) {
	f := &fakeDynamo{}
	require.NoError(t, newTestClient(t, f).AppendTurns(context.Background(), "c1"))
	require.Nil(t, f.lastTxInput)
}

func TestAppendTurns_MissingConversationID(t *testing.T) {
	f := &fakeDynamo{}
	err := newTestClient(t, f).AppendTurns(context.Background(), " ", domain.Turn{Role: domain.RoleUser, Text: "x"})
	require.Error(t, err)
	require.Nil(t, f.lastTxInput)
}

func TestAppendTurns_DynamoError(t *testing.T) {
	f := &fakeDynamo{txErr: errors.New("conditional check failed")}
	err := newTestClient(t, f).AppendTurns(context.Background(), "c1", domain.Turn{Role: domain.RoleUser, Text: "x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "repository: AppendTurns")
}

// ---------------------------------------------------------------------------
// GetHistory
// ---------------------------------------------------------------------------

func TestGetHistory_ReordersDescendingResultsToChronological(t *testing.T) {
	t0 := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	f := &fakeDynamo{queryOuts: []*dynamodb.QueryOutput{{
		Items: []map[string]types.AttributeValue{
			makeItem("MSG#3", domain.RoleAssistant, "hi there", t0.Add(2*time.Second)),
			makeItem("MSG#2", domain.RoleUser, "hello", t0.Add(time.Second)),
			makeItem("MSG#1", domain.RoleAssistant, "welcome", t0),
		},
	}}}
	turns, err := newTestClient(t, f).GetHistory(context.Background(), "c1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	require.Equal(t, "welcome", turns[0].Text)
	require.Equal(t, domain.RoleUser, turns[1].Role)
	require.Equal(t, "hi there", turns[2].Text)
	require.True(t, turns[2].Timestamp.Equal(t0.Add(2*time.Second)))
}

func TestGetHistory_KeyConditionExpression(t *testing.T) {
	f := &fakeDynamo{}
	_, err := newTestClient(t, f).GetHistory(context.Background(), "c1", 5)
	require.NoError(t, err)
	require.Len(t, f.queryInputs, 1)
	in := f.queryInputs[0]
	require.Equal(t, "PK = :pk AND begins_with(SK, :prefix)", *in.KeyConditionExpression)
	require.False(t, *in.ScanIndexForward)
	require.Equal(t, int32(5), *in.Limit)
	require.Equal(t, "CONV#c1", in.ExpressionAttributeValues[":pk"].(*types.AttributeValueMemberS).Value)
}

func TestGetHistory_PaginatesWhenUnlimited(t *testing.T) {
	t0 := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	f := &fakeDynamo{queryOuts: []*dynamodb.QueryOutput{
		{
			Items:            []map[string]types.AttributeValue{makeItem("MSG#2", domain.RoleAssistant, "b", t0.Add(time.Second))},
			LastEvaluatedKey: map[string]types.AttributeValue{"PK": &types.AttributeValueMemberS{Value: "CONV#c1"}},
		},
		{
			Items: []map[string]types.AttributeValue{makeItem("MSG#1", domain.RoleUser, "a", t0)},
		},
	}}
	turns, err := newTestClient(t, f).GetHistory(context.Background(), "c1", 0)
	require.NoError(t, err)
	require.Len(t, f.queryInputs, 2)
	require.Nil(t, f.queryInputs[0].Limit)
	require.NotEmpty(t, f.queryInputs[1].ExclusiveStartKey)
	require.Equal(t, []string{"a", "b"}, []string{turns[0].Text, turns[1].Text})
}

func TestGetHistory_EmptyResult(t *testing.T) {
	turns, err := newTestClient(t, &fakeDynamo{}).GetHistory(context.Background(), "c1", 10)
	require.NoError(t, err)
	require.Empty(t, turns)
}

func TestGetHistory_QueryError(t *testing.T) {
	_, err := newTestClient(t, &fakeDynamo{queryErr: errors.New("throttled")}).GetHistory(context.Background(), "c1", 10)
	require.Error(t, err)
	require.Contains(t, err.Error(), "GetHistory query")
}

func TestGetHistory_MalformedItem_MissingRole(t *testing.T) {
	item := makeItem("MSG#1", domain.RoleUser, "hello", time.Now())
	delete(item, "role")
	f := &fakeDynamo{queryOuts: []*dynamodb.QueryOutput{{Items: []map[string]types.AttributeValue{item}}}}
	_, err := newTestClient(t, f).GetHistory(context.Background(), "c1", 10)
	require.Error(t, err)
	require.Contains(t, err.Error(), `"role"`)
}

func TestGetHistory_MalformedTimestamp(t *testing.T) {
	item := makeItem("MSG#1", domain.RoleUser, "hello", time.Now())
	item["ts"] = &types.AttributeValueMemberS{Value: "yesterday"}
	f := &fakeDynamo{queryOuts: []*dynamodb.QueryOutput{{Items: []map[string]types.AttributeValue{item}}}}
	_, err := newTestClient(t, f).GetHistory(context.Background(), "c1", 10)
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func TestNewMessage_Fields(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	msg := NewMessage("c1", domain.Turn{Role: domain.RoleUser, Text: "hi"}, 1, now)
	require.Equal(t, "CONV#c1", msg.PK)
	require.Equal(t, "MSG#2025-05-01T10:00:00.000000000Z#001", msg.SK)
	require.Equal(t, now, msg.Timestamp)
	require.Equal(t, now.Add(30*24*time.Hour).Unix(), msg.TTL)
}

func TestMsgSK_SortsByTime(t *testing.T) {
	a := msgSK(time.Date(2025, 5, 1, 10, 0, 0, 100_000_000, time.UTC), 0)
	b := msgSK(time.Date(2025, 5, 1, 10, 0, 0, 120_000_000, time.UTC), 0)
	c := msgSK(time.Date(2025, 5, 1, 10, 0, 0, 120_000_000, time.UTC), 1)
	require.Less(t, a, b)
	require.Less(t, b, c)
}

func TestConvPK(t *testing.T) {
	require.Equal(t, "CONV#abc", convPK("abc"))
}

func TestNew_NilAPI(t *testing.T) {
	_, err := New(nil, "tbl")
	require.Error(t, err)
	require.Contains(t, err.Error(), "nil")
}

func TestNew_EmptyTableName(t *testing.T) {
	_, err := New(&fakeDynamo{}, "  ")
	require.Error(t, err)
}
