package models

// Conversation is a two-party message thread. The pair key is the
// normalized "smaller#larger" combination of the participant ids, so
// lookups are order-independent and at most one conversation can exist
// per pair.
type Conversation struct {
	PairID          string `dynamodbav:"pairId" json:"-"`
	ConversationID  string `dynamodbav:"conversationId" json:"conversationId"`
	UserA           string `dynamodbav:"userA" json:"userA"`
	UserB           string `dynamodbav:"userB" json:"userB"`
	LastMessage     string `dynamodbav:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	LastMessageTime string `dynamodbav:"lastMessageTime,omitempty" json:"lastMessageTime,omitempty"`
	CreatedAt       string `dynamodbav:"createdAt" json:"createdAt"`
}

// Message belongs to exactly one conversation and is immutable once
// stored. CreatedAt doubles as the range key in the Messages table.
type Message struct {
	ConversationID string `dynamodbav:"conversationId" json:"conversationId"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
	MessageID      string `dynamodbav:"messageId" json:"messageId"`
	SenderID       string `dynamodbav:"senderId" json:"senderId"`
	Content        string `dynamodbav:"content" json:"content"`
}

// PairID returns the normalized pair key for two user ids.
func PairID(a, b string) string {
	a, b = OrderPair(a, b)
	return a + "#" + b
}

// OrderPair returns the two ids in lexicographic order.
func OrderPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// HasParticipant reports whether userID is one of the two participants.
func (c Conversation) HasParticipant(userID string) bool {
	return userID == c.UserA || userID == c.UserB
}

// ConversationsTable is the DynamoDB table name for conversations
const ConversationsTable = "Conversations"

// MessagesTable is the DynamoDB table name for conversation messages
const MessagesTable = "Messages"
