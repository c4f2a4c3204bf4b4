package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// NewSocketServer initializes and returns a new Socket.IO server
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(conn socketio.Conn) error {
		log.Println("✅ Socket connected:", conn.ID())
		return nil
	})

	// Clients join a room per chat to receive newMessage broadcasts
	server.OnEvent("/", "join", func(conn socketio.Conn, data map[string]string) {
		chatID := data["chatId"]
		if chatID == "" {
			log.Println("❌ Invalid chatId in join request")
			return
		}
		log.Printf("👥 Socket %s joined chat %s\n", conn.ID(), chatID)
		conn.Join(chatID)
	})

	server.OnEvent("/", "leave", func(conn socketio.Conn, data map[string]string) {
		chatID := data["chatId"]
		if chatID == "" {
			return
		}
		log.Printf("👋 Socket %s left chat %s\n", conn.ID(), chatID)
		conn.Leave(chatID)
	})

	server.OnError("/", func(conn socketio.Conn, err error) {
		log.Println("⚠️ Socket error:", err)
	})

	server.OnDisconnect("/", func(conn socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", conn.ID(), reason)
	})

	return server
}
