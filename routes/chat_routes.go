package routes

import (
	"barterhub_server/controllers"
	"barterhub_server/services"
	"barterhub_server/utils"

	"github.com/gorilla/mux"

	socketio "github.com/googollee/go-socket.io"
)

// RegisterChatRoutes sets up routes for chat conversations under /api/chats.
// Every chat route requires an authenticated caller.
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService, socket *socketio.Server) {
	controller := controllers.NewChatController(chatService, socket)

	chatRouter := r.PathPrefix("/api/chats").Subrouter()
	chatRouter.Use(utils.AuthMiddleware)
	chatRouter.HandleFunc("", controller.CreateChat).Methods("POST")
	chatRouter.HandleFunc("/user/{userId}", controller.GetChatsForUser).Methods("GET")
	chatRouter.HandleFunc("/{chatId}", controller.GetChatByID).Methods("GET")
	chatRouter.HandleFunc("/{chatId}", controller.DeleteChat).Methods("DELETE")
	chatRouter.HandleFunc("/{chatId}/messages", controller.AddMessage).Methods("POST")
	chatRouter.HandleFunc("/{chatId}/messages", controller.GetMessages).Methods("GET")
}
