package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"barterhub_server/services"
	"barterhub_server/utils"

	socketio "github.com/googollee/go-socket.io"
	"github.com/gorilla/mux"
)

// ChatController handles requests related to conversations and messages
type ChatController struct {
	ChatService *services.ChatService
	Socket      *socketio.Server
}

// NewChatController creates a new instance of ChatController
func NewChatController(chatService *services.ChatService, socket *socketio.Server) *ChatController {
	return &ChatController{ChatService: chatService, Socket: socket}
}

// CreateChat handles conversation creation. For direct chats the call is
// idempotent and may return an existing conversation.
func (c *ChatController) CreateChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Participants []string `json:"participants"`
		Name         string   `json:"name"`
		Type         string   `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Printf("Failed to decode create-chat payload: %v", err)
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	chat, err := c.ChatService.CreateChat(r.Context(), payload.Participants, payload.Name, payload.Type, utils.CallerID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusCreated, chat)
}

// GetChatByID fetches a single conversation for one of its participants
func (c *ChatController) GetChatByID(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]

	chat, err := c.ChatService.GetChatByID(r.Context(), chatID, utils.CallerID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, chat)
}

// GetChatsForUser lists the caller's own conversations
func (c *ChatController) GetChatsForUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	chats, err := c.ChatService.GetChatsForUser(r.Context(), userID, utils.CallerID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, chats)
}

// AddMessage appends a message to a conversation and broadcasts it to the
// conversation's socket room, best-effort.
func (c *ChatController) AddMessage(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Printf("Failed to decode message payload: %v", err)
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	message, err := c.ChatService.AddMessage(r.Context(), chatID, payload.Text, utils.CallerID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if c.Socket != nil {
		c.Socket.BroadcastToRoom("/", chatID, "newMessage", message)
	}

	WriteJSONResponse(w, http.StatusCreated, message)
}

// GetMessages lists a conversation's messages chronologically
func (c *ChatController) GetMessages(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]

	messages, err := c.ChatService.GetMessages(r.Context(), chatID, utils.CallerID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, messages)
}

// DeleteChat deletes a conversation and its messages
func (c *ChatController) DeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]

	if err := c.ChatService.DeleteChat(r.Context(), chatID, utils.CallerID(r)); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
