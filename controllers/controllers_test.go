package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"travelbuddy_server/models"
	"travelbuddy_server/services"
	"travelbuddy_server/socket"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memConversationStore backs controller tests with an in-memory
// services.ConversationStore.
type memConversationStore struct {
	byPair   map[string]models.Conversation
	messages map[string][]models.Message
}

func newMemConversationStore() *memConversationStore {
	return &memConversationStore{
		byPair:   map[string]models.Conversation{},
		messages: map[string][]models.Message{},
	}
}

func (s *memConversationStore) Insert(_ context.Context, c models.Conversation) error {
	if _, ok := s.byPair[c.PairID]; ok {
		return services.ErrConflict
	}
	s.byPair[c.PairID] = c
	return nil
}

func (s *memConversationStore) GetByPair(_ context.Context, pairID string) (models.Conversation, error) {
	c, ok := s.byPair[pairID]
	if !ok {
		return models.Conversation{}, services.ErrNotFound
	}
	return c, nil
}

func (s *memConversationStore) GetByID(_ context.Context, conversationID string) (models.Conversation, error) {
	for _, c := range s.byPair {
		if c.ConversationID == conversationID {
			return c, nil
		}
	}
	return models.Conversation{}, services.ErrNotFound
}

func (s *memConversationStore) ListByParticipant(_ context.Context, userID string) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, c := range s.byPair {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memConversationStore) AppendMessage(_ context.Context, m models.Message) error {
	s.messages[m.ConversationID] = append(s.messages[m.ConversationID], m)
	return nil
}

func (s *memConversationStore) SetLastMessage(_ context.Context, pairID, text, at string) error {
	c := s.byPair[pairID]
	c.LastMessage = text
	c.LastMessageTime = at
	s.byPair[pairID] = c
	return nil
}

func (s *memConversationStore) ListMessages(_ context.Context, conversationID string, limit int) ([]models.Message, error) {
	msgs := s.messages[conversationID]
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

type capturingPublisher struct {
	events []socket.MessageEvent
}

func (p *capturingPublisher) PublishMessage(_ string, ev socket.MessageEvent) {
	p.events = append(p.events, ev)
}

func newChatRouter(t *testing.T) (*mux.Router, *memConversationStore, *capturingPublisher) {
	t.Helper()
	store := newMemConversationStore()
	publisher := &capturingPublisher{}
	logger := zap.NewNop().Sugar()

	controller := NewChatController(services.NewConversationService(store, logger), publisher, logger)

	r := mux.NewRouter()
	chat := r.PathPrefix("/api/chat").Subrouter()
	chat.Use(RequireIdentity)
	chat.HandleFunc("/{userId}", controller.HandleGetOrCreate).Methods("GET")
	chat.HandleFunc("/{chatId}/message", controller.HandleSendMessage).Methods("POST")
	return r, store, publisher
}

func TestRequireIdentityRejectsAnonymous(t *testing.T) {
	router, _, _ := newChatRouter(t)

	req := httptest.NewRequest("GET", "/api/chat/bob", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireIdentityAttachesCaller(t *testing.T) {
	var got Identity
	handler := RequireIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest("GET", "/anything", nil)
	req.Header.Set("X-User-ID", "alice")
	req.Header.Set("X-User-Name", "Alice")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, Identity{UserID: "alice", Name: "Alice"}, got)
}

func TestGetOrCreateConversationOverHTTP(t *testing.T) {
	router, store, _ := newChatRouter(t)

	req := httptest.NewRequest("GET", "/api/chat/bob", nil)
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var c models.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	require.Equal(t, "alice", c.UserA)
	require.Equal(t, "bob", c.UserB)
	require.Len(t, store.byPair, 1)
}

func TestSendMessagePersistsAndPublishes(t *testing.T) {
	router, store, publisher := newChatRouter(t)

	seed := models.Conversation{
		PairID:         models.PairID("alice", "bob"),
		ConversationID: "conv-1",
		UserA:          "alice",
		UserB:          "bob",
	}
	store.byPair[seed.PairID] = seed

	body := bytes.NewBufferString(`{"message":"see you at the gate"}`)
	req := httptest.NewRequest("POST", "/api/chat/conv-1/message", body)
	req.Header.Set("X-User-ID", "alice")
	req.Header.Set("X-User-Name", "Alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.messages["conv-1"], 1)

	require.Len(t, publisher.events, 1)
	ev := publisher.events[0]
	require.Equal(t, "conv-1", ev.RoomID)
	require.Equal(t, "alice", ev.Sender)
	require.Equal(t, "Alice", ev.SenderName)
	require.Equal(t, "see you at the gate", ev.Message)
	require.NotEmpty(t, ev.Timestamp)
}

func TestSendMessageByOutsiderIsForbidden(t *testing.T) {
	router, store, publisher := newChatRouter(t)

	seed := models.Conversation{
		PairID:         models.PairID("alice", "bob"),
		ConversationID: "conv-1",
		UserA:          "alice",
		UserB:          "bob",
	}
	store.byPair[seed.PairID] = seed

	body := bytes.NewBufferString(`{"message":"hi"}`)
	req := httptest.NewRequest("POST", "/api/chat/conv-1/message", body)
	req.Header.Set("X-User-ID", "mallory")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Empty(t, store.messages["conv-1"])
	require.Empty(t, publisher.events)
}

func TestWriteServiceErrorMapping(t *testing.T) {
	logger := zap.NewNop().Sugar()
	cases := []struct {
		err  error
		code int
	}{
		{services.ErrInvalidRequest, http.StatusBadRequest},
		{services.ErrNotMember, http.StatusBadRequest},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrFull, http.StatusConflict},
		{services.ErrInvalidState, http.StatusConflict},
		{services.ErrConflict, http.StatusConflict},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteServiceError(logger, rec, tc.err)
		require.Equal(t, tc.code, rec.Code, tc.err.Error())
	}

	rec := httptest.NewRecorder()
	WriteServiceError(logger, rec, context.DeadlineExceeded)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFullErrorCarriesDistinctCode(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(zap.NewNop().Sugar(), rec, services.ErrFull)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "full", body["code"])
}
