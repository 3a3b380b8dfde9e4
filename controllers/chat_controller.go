package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"travelbuddy_server/services"
	"travelbuddy_server/socket"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ChatPublisher pushes a persisted message to the conversation's room.
type ChatPublisher interface {
	PublishMessage(roomID string, ev socket.MessageEvent)
}

// ChatController exposes the conversation store over HTTP and feeds
// the realtime router after successful appends.
type ChatController struct {
	Conversations *services.ConversationService
	Publisher     ChatPublisher
	Logger        *zap.SugaredLogger
}

// NewChatController initializes the chat controller
func NewChatController(conversations *services.ConversationService, publisher ChatPublisher, logger *zap.SugaredLogger) *ChatController {
	return &ChatController{Conversations: conversations, Publisher: publisher, Logger: logger}
}

// HandleListConversations returns the caller's conversations, most
// recently active first.
func (c *ChatController) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	conversations, err := c.Conversations.ListForUser(r.Context(), id.UserID)
	if err != nil {
		WriteServiceError(c.Logger, w, err)
		return
	}
	WriteJSON(w, http.StatusOK, conversations)
}

// HandleGetOrCreate returns the conversation between the caller and
// the addressed user, creating it on first contact.
func (c *ChatController) HandleGetOrCreate(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	otherUser := mux.Vars(r)["userId"]

	conversation, err := c.Conversations.GetOrCreate(r.Context(), id.UserID, otherUser)
	if err != nil {
		WriteServiceError(c.Logger, w, err)
		return
	}
	WriteJSON(w, http.StatusOK, conversation)
}

// HandleGetMessages returns the conversation's message history in
// insertion order.
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	chatID := mux.Vars(r)["chatId"]

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	messages, err := c.Conversations.ListMessages(r.Context(), chatID, id.UserID, limit)
	if err != nil {
		WriteServiceError(c.Logger, w, err)
		return
	}
	WriteJSON(w, http.StatusOK, messages)
}

// HandleSendMessage appends a message and publishes it to the
// conversation's room. The publish is fire-and-forget; a dropped
// realtime event is reconciled by the client refetching history.
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	chatID := mux.Vars(r)["chatId"]

	var request struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	message, err := c.Conversations.Append(r.Context(), chatID, id.UserID, request.Message)
	if err != nil {
		WriteServiceError(c.Logger, w, err)
		return
	}

	c.Publisher.PublishMessage(chatID, socket.MessageEvent{
		RoomID:     chatID,
		Sender:     id.UserID,
		SenderName: id.Name,
		Message:    message.Content,
		Timestamp:  message.CreatedAt,
	})

	WriteJSON(w, http.StatusOK, message)
}
