package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"deskmate/internal/domain"
)

const (
	skPrefixMsg = "MSG#"
	skMeta      = "META#"
	ttlDuration = 30 * 24 * time.Hour // 30-day TTL

	// sortableNano keeps a fixed width so sort keys order lexically by time.
	sortableNano = "2006-01-02T15:04:05.000000000Z"

	// maxTransactItems is the DynamoDB per-transaction item limit.
	maxTransactItems = 100
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Client wraps a DynamoDB table holding conversation transcripts.
type Client struct {
	api       dynamodbAPI
	tableName string
	now       func() time.Time
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName, now: time.Now}, nil
}

// convPK returns the DynamoDB partition key for a conversation.
func convPK(conversationID string) string {
	return "CONV#" + conversationID
}

// msgSK returns the sort key for the seq-th message written at ts.
func msgSK(ts time.Time, seq int) string {
	return fmt.Sprintf("%s%s#%03d", skPrefixMsg, ts.UTC().Format(sortableNano), seq)
}

// ttlValue returns a Unix timestamp 30 days after now.
func ttlValue(now time.Time) int64 {
	return now.Add(ttlDuration).Unix()
}

// AppendTurns writes turns and bumps the conversation metadata in one
// transaction, so a transcript never holds half of an exchange.
func (c *Client) AppendTurns(ctx context.Context, conversationID string, turns ...domain.Turn) error {
	if strings.TrimSpace(conversationID) == "" {
		return errors.New("repository: AppendTurns: conversation id is required")
	}
	if len(turns) == 0 {
		return nil
	}
	if len(turns)+1 > maxTransactItems {
		return fmt.Errorf("repository: AppendTurns: %d turns exceed the transaction limit", len(turns))
	}

	now := c.now().UTC()
	items := make([]types.TransactWriteItem, 0, len(turns)+1)
	for i, t := range turns {
		msg := NewMessage(conversationID, t, i, now)
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(c.tableName),
				Item:                messageItem(msg),
				ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
			},
		})
	}
	items = append(items, types.TransactWriteItem{Update: c.metaUpdate(conversationID, len(turns), now)})

	if _, err := c.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		return fmt.Errorf("repository: AppendTurns: %w", err)
	}
	return nil
}

func (c *Client) metaUpdate(conversationID string, added int, now time.Time) *types.Update {
	return &types.Update{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: convPK(conversationID)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
		UpdateExpression:         aws.String("SET conversationId = :cid, lastActivity = :la, #ttl = :ttl ADD turns :n"),
		ExpressionAttributeNames: map[string]string{"#ttl": "ttl"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid": &types.AttributeValueMemberS{Value: conversationID},
			":la":  &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":ttl": &types.AttributeValueMemberN{Value: strconv.FormatInt(ttlValue(now), 10)},
			":n":   &types.AttributeValueMemberN{Value: strconv.Itoa(added)},
		},
	}
}

// GetHistory returns up to limit of the most recent turns, oldest first.
// A limit <= 0 returns the whole transcript.
func (c *Client) GetHistory(ctx context.Context, conversationID string, limit int) ([]domain.Turn, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: convPK(conversationID)},
			":prefix": &types.AttributeValueMemberS{Value: skPrefixMsg},
		},
		// Read newest first so LIMIT favors the most recent context.
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		in.Limit = aws.Int32(int32(limit))
	}

	var turns []domain.Turn
	for {
		out, err := c.api.Query(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("repository: GetHistory query: %w", err)
		}
		for _, item := range out.Items {
			msg, err := itemToMessage(item)
			if err != nil {
				return nil, fmt.Errorf("repository: GetHistory unmarshal: %w", err)
			}
			turns = append(turns, msg.Turn())
		}
		if len(out.LastEvaluatedKey) == 0 || (limit > 0 && len(turns) >= limit) {
			break
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
	if limit > 0 && len(turns) > limit {
		turns = turns[:limit]
	}

	// Reverse to chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// NewMessage constructs the record for the seq-th turn of a write at now.
// The turn's own timestamp is kept when set.
func NewMessage(conversationID string, t domain.Turn, seq int, now time.Time) domain.Message {
	ts := t.Timestamp
	if ts.IsZero() {
		ts = now
	}
	return domain.Message{
		PK:             convPK(conversationID),
		SK:             msgSK(now, seq),
		ConversationID: conversationID,
		Role:           t.Role,
		Text:           t.Text,
		Timestamp:      ts.UTC(),
		TTL:            ttlValue(now),
	}
}

// itemToMessage converts a DynamoDB attribute map to a Message.
func itemToMessage(item map[string]types.AttributeValue) (domain.Message, error) {
	pk, err := strAttr(item, "PK")
	if err != nil {
		return domain.Message{}, err
	}
	sk, err := strAttr(item, "SK")
	if err != nil {
		return domain.Message{}, err
	}
	role, err := strAttr(item, "role")
	if err != nil {
		return domain.Message{}, err
	}
	text, err := strAttr(item, "text")
	if err != nil {
		return domain.Message{}, err
	}
	conversationID, _ := strAttr(item, "conversationId") // allow empty

	var ts time.Time
	if raw, err := strAttr(item, "ts"); err == nil {
		if ts, err = time.Parse(time.RFC3339Nano, raw); err != nil {
			return domain.Message{}, fmt.Errorf("repository: parse attribute %q: %w", "ts", err)
		}
	}

	return domain.Message{
		PK:             pk,
		SK:             sk,
		ConversationID: conversationID,
		Role:           domain.Role(role),
		Text:           text,
		Timestamp:      ts,
	}, nil
}

func messageItem(msg domain.Message) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":             &types.AttributeValueMemberS{Value: msg.PK},
		"SK":             &types.AttributeValueMemberS{Value: msg.SK},
		"conversationId": &types.AttributeValueMemberS{Value: msg.ConversationID},
		"role":           &types.AttributeValueMemberS{Value: string(msg.Role)},
		"text":           &types.AttributeValueMemberS{Value: msg.Text},
		"ts":             &types.AttributeValueMemberS{Value: msg.Timestamp.Format(time.RFC3339Nano)},
		"ttl":            &types.AttributeValueMemberN{Value: strconv.FormatInt(msg.TTL, 10)},
	}
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
