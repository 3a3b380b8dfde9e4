package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"travelbuddy_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConversationStore is the durable side of the chat core. Insert must
// admit a single winner per pair key and report ErrConflict to every
// loser.
type ConversationStore interface {
	Insert(ctx context.Context, c models.Conversation) error
	GetByPair(ctx context.Context, pairID string) (models.Conversation, error)
	GetByID(ctx context.Context, conversationID string) (models.Conversation, error)
	ListByParticipant(ctx context.Context, userID string) ([]models.Conversation, error)
	AppendMessage(ctx context.Context, m models.Message) error
	SetLastMessage(ctx context.Context, pairID, text, at string) error
	ListMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error)
}

// ConversationService owns two-party conversations: lazy get-or-create
// by unordered pair, append-only message log, denormalized
// last-message summary.
type ConversationService struct {
	Store  ConversationStore
	Logger *zap.SugaredLogger

	now func() time.Time
}

func NewConversationService(store ConversationStore, logger *zap.SugaredLogger) *ConversationService {
	return &ConversationService{Store: store, Logger: logger, now: time.Now}
}

// GetOrCreate returns the conversation for the unordered pair
// {userA, userB}, creating an empty one on first contact. Two
// simultaneous first contacts race on the conditional insert; the
// loser resolves to the winner's record.
func (s *ConversationService) GetOrCreate(ctx context.Context, userA, userB string) (models.Conversation, error) {
	if userA == "" || userB == "" {
		return models.Conversation{}, fmt.Errorf("%w: both participants are required", ErrInvalidRequest)
	}
	if userA == userB {
		return models.Conversation{}, fmt.Errorf("%w: cannot start a conversation with yourself", ErrInvalidRequest)
	}

	pairID := models.PairID(userA, userB)
	c, err := s.Store.GetByPair(ctx, pairID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.Conversation{}, err
	}

	a, b := models.OrderPair(userA, userB)
	c = models.Conversation{
		PairID:         pairID,
		ConversationID: uuid.New().String(),
		UserA:          a,
		UserB:          b,
		CreatedAt:      s.now().UTC().Format(models.TimeLayout),
	}

	err = s.Store.Insert(ctx, c)
	if errors.Is(err, ErrConflict) {
		// Lost the first-contact race; the winner's record is authoritative.
		return s.Store.GetByPair(ctx, pairID)
	}
	if err != nil {
		return models.Conversation{}, err
	}

	s.Logger.Infow("conversation created", "conversationId", c.ConversationID)
	return c, nil
}

// Append stores a message and updates the conversation's last-message
// summary. Fails with ErrNotFound for an unknown conversation and
// ErrForbidden when the sender is not a participant; neither mutates
// the log.
func (s *ConversationService) Append(ctx context.Context, conversationID, senderID, body string) (models.Message, error) {
	if strings.TrimSpace(body) == "" {
		return models.Message{}, fmt.Errorf("%w: message body is required", ErrInvalidRequest)
	}

	c, err := s.Store.GetByID(ctx, conversationID)
	if err != nil {
		return models.Message{}, err
	}
	if !c.HasParticipant(senderID) {
		return models.Message{}, fmt.Errorf("%w: sender is not a participant", ErrForbidden)
	}

	m := models.Message{
		ConversationID: conversationID,
		MessageID:      uuid.New().String(),
		SenderID:       senderID,
		Content:        body,
		CreatedAt:      s.now().UTC().Format(models.TimeLayout),
	}
	if err := s.Store.AppendMessage(ctx, m); err != nil {
		return models.Message{}, err
	}
	if err := s.Store.SetLastMessage(ctx, c.PairID, m.Content, m.CreatedAt); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// ListForUser returns the caller's conversations, most recently active
// first. Conversations with no messages yet sort by creation time.
func (s *ConversationService) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	convs, err := s.Store.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(convs, func(i, j int) bool {
		return lastActivity(convs[i]).After(lastActivity(convs[j]))
	})
	return convs, nil
}

// ListMessages returns the conversation's message log in insertion
// order, capped at limit. The caller must be a participant.
func (s *ConversationService) ListMessages(ctx context.Context, conversationID, callerID string, limit int) ([]models.Message, error) {
	c, err := s.Store.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !c.HasParticipant(callerID) {
		return nil, fmt.Errorf("%w: caller is not a participant", ErrForbidden)
	}
	if limit <= 0 {
		limit = 50
	}
	return s.Store.ListMessages(ctx, conversationID, limit)
}

func lastActivity(c models.Conversation) time.Time {
	stamp := c.LastMessageTime
	if stamp == "" {
		stamp = c.CreatedAt
	}
	t, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DynamoConversationStore persists conversations in the Conversations
// table (pair key partition, conversationId GSI) and messages in the
// Messages table (conversationId partition, createdAt range).
type DynamoConversationStore struct {
	Dynamo *DynamoService
}

func (st *DynamoConversationStore) Insert(ctx context.Context, c models.Conversation) error {
	err := st.Dynamo.PutItemIfAbsent(ctx, models.ConversationsTable, c, "pairId")
	if errors.Is(err, ErrConditionFailed) {
		return ErrConflict
	}
	return err
}

func (st *DynamoConversationStore) GetByPair(ctx context.Context, pairID string) (models.Conversation, error) {
	key := map[string]types.AttributeValue{
		"pairId": &types.AttributeValueMemberS{Value: pairID},
	}
	item, err := st.Dynamo.GetItem(ctx, models.ConversationsTable, key)
	if err != nil {
		return models.Conversation{}, err
	}

	var c models.Conversation
	if err := attributevalue.UnmarshalMap(item, &c); err != nil {
		return models.Conversation{}, fmt.Errorf("failed to parse conversation: %w", err)
	}
	return c, nil
}

func (st *DynamoConversationStore) GetByID(ctx context.Context, conversationID string) (models.Conversation, error) {
	keyCondition := "conversationId = :id"
	expressionValues := map[string]types.AttributeValue{
		":id": &types.AttributeValueMemberS{Value: conversationID},
	}

	items, err := st.Dynamo.QueryItemsWithIndex(ctx, models.ConversationsTable, "conversationId-index", keyCondition, expressionValues, nil, 1)
	if err != nil {
		return models.Conversation{}, err
	}
	if len(items) == 0 {
		return models.Conversation{}, ErrNotFound
	}

	var c models.Conversation
	if err := attributevalue.UnmarshalMap(items[0], &c); err != nil {
		return models.Conversation{}, fmt.Errorf("failed to parse conversation: %w", err)
	}
	return c, nil
}

func (st *DynamoConversationStore) ListByParticipant(ctx context.Context, userID string) ([]models.Conversation, error) {
	var convs []models.Conversation
	for _, index := range []string{"userA-index", "userB-index"} {
		attr := strings.TrimSuffix(index, "-index")
		keyCondition := fmt.Sprintf("%s = :u", attr)
		expressionValues := map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: userID},
		}

		items, err := st.Dynamo.QueryItemsWithIndex(ctx, models.ConversationsTable, index, keyCondition, expressionValues, nil, 100)
		if err != nil {
			return nil, err
		}

		var page []models.Conversation
		if err := attributevalue.UnmarshalListOfMaps(items, &page); err != nil {
			return nil, fmt.Errorf("failed to parse conversations: %w", err)
		}
		convs = append(convs, page...)
	}
	return convs, nil
}

func (st *DynamoConversationStore) AppendMessage(ctx context.Context, m models.Message) error {
	return st.Dynamo.PutItem(ctx, models.MessagesTable, m)
}

func (st *DynamoConversationStore) SetLastMessage(ctx context.Context, pairID, text, at string) error {
	key := map[string]types.AttributeValue{
		"pairId": &types.AttributeValueMemberS{Value: pairID},
	}
	updateExpression := "SET lastMessage = :m, lastMessageTime = :t"
	expressionValues := map[string]types.AttributeValue{
		":m": &types.AttributeValueMemberS{Value: text},
		":t": &types.AttributeValueMemberS{Value: at},
	}

	_, err := st.Dynamo.UpdateItem(ctx, models.ConversationsTable, updateExpression, key, expressionValues, nil)
	return err
}

func (st *DynamoConversationStore) ListMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	keyCondition := "#conversationId = :id"
	expressionValues := map[string]types.AttributeValue{
		":id": &types.AttributeValueMemberS{Value: conversationID},
	}
	expressionNames := map[string]string{
		"#conversationId": "conversationId",
	}

	items, err := st.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, expressionNames, int32(limit), false)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}
	return messages, nil
}
