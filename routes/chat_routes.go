package routes

import (
	"travelbuddy_server/controllers"
	"travelbuddy_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RegisterChatRoutes sets up routes for chat-related operations under /api/chat
func RegisterChatRoutes(r *mux.Router, conversations *services.ConversationService, publisher controllers.ChatPublisher, logger *zap.SugaredLogger) {
	controller := controllers.NewChatController(conversations, publisher, logger)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.Use(controllers.RequireIdentity)

	chatRouter.HandleFunc("", controller.HandleListConversations).Methods("GET")
	chatRouter.HandleFunc("/{userId}", controller.HandleGetOrCreate).Methods("GET")
	chatRouter.HandleFunc("/{chatId}/messages", controller.HandleGetMessages).Methods("GET")
	chatRouter.HandleFunc("/{chatId}/message", controller.HandleSendMessage).Methods("POST")
}
