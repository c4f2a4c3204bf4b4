package models

// LastMessage is the denormalized summary of the newest message in a
// conversation, refreshed on every append.
type LastMessage struct {
	SenderID  string `dynamodbav:"senderId" json:"senderId"`
	Text      string `dynamodbav:"text" json:"text"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// ChatConversation is a direct or group chat. Direct conversations use a
// deterministic id derived from the sorted participant pair, which makes
// repeated creation between the same two users idempotent.
type ChatConversation struct {
	ID           string       `dynamodbav:"id" json:"id"`
	Participants []string     `dynamodbav:"participants" json:"participants"`
	Type         string       `dynamodbav:"type" json:"type"`
	Name         string       `dynamodbav:"name,omitempty" json:"name,omitempty"`
	CreatedAt    string       `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt    string       `dynamodbav:"updatedAt" json:"updatedAt"`
	LastMessage  *LastMessage `dynamodbav:"lastMessage,omitempty" json:"lastMessage,omitempty"`
}

// ChatMessage is an append-only message inside a conversation. Sender display
// fields are write-time snapshots of the sender's profile.
type ChatMessage struct {
	ID                    string `dynamodbav:"id" json:"id"`
	ChatID                string `dynamodbav:"chatId" json:"chatId"`
	SenderID              string `dynamodbav:"senderId" json:"senderId"`
	Text                  string `dynamodbav:"text" json:"text" validate:"required"`
	CreatedAt             string `dynamodbav:"createdAt" json:"createdAt"`
	SenderDisplayName     string `dynamodbav:"senderDisplayName,omitempty" json:"senderDisplayName,omitempty"`
	SenderProfileImageURL string `dynamodbav:"senderProfileImageUrl,omitempty" json:"senderProfileImageUrl,omitempty"`
}

// ChatsTable is the DynamoDB table name for chat conversations
const ChatsTable = "Chats"

// ChatMessagesTable is the DynamoDB table name for chat messages
const ChatMessagesTable = "ChatMessages"
