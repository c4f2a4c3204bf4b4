package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"barterhub_server/models"
	"barterhub_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

type ChatService struct {
	Dynamo   DynamoAPI
	Profiles *UserProfileService
}

func chatKey(chatID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: chatID},
	}
}

// DirectChatID derives the deterministic conversation id for a participant
// pair: the two ids sorted lexicographically and joined with an underscore.
// Using the same id for either argument order makes direct-chat creation
// idempotent.
func DirectChatID(userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join(pair, "_")
}

// CreateChat creates a conversation on the caller's behalf; the caller must
// be one of the participants. Direct chats need exactly two participants and
// reuse the existing conversation when one already exists between the pair;
// group chats need a non-empty name and get a generated id.
func (cs *ChatService) CreateChat(ctx context.Context, participants []string, name string, chatType string, callerID string) (*models.ChatConversation, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: participants list cannot be empty", ErrInvalidInput)
	}
	if chatType != models.ChatTypeDirect && chatType != models.ChatTypeGroup {
		return nil, fmt.Errorf("%w: chat type must be direct or group", ErrInvalidInput)
	}
	if !containsUser(participants, callerID) {
		return nil, fmt.Errorf("%w: callers can only create chats they participate in", ErrForbidden)
	}

	var chatID string
	if chatType == models.ChatTypeDirect {
		if len(participants) != 2 {
			return nil, fmt.Errorf("%w: direct chats must have exactly two participants", ErrInvalidInput)
		}
		chatID = DirectChatID(participants[0], participants[1])

		existing, err := cs.getChat(ctx, chatID)
		if err == nil {
			log.Printf("Direct chat already exists for id %s. Returning existing conversation.", chatID)
			return existing, nil
		}
		if !isNotFound(err) {
			return nil, err
		}

		// Direct conversations carry no name.
		name = ""
	} else {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: group chats must have a name", ErrInvalidInput)
		}
		chatID = uuid.New().String()
	}

	now := nowISO()
	chat := models.ChatConversation{
		ID:           chatID,
		Participants: participants,
		Type:         chatType,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := cs.Dynamo.PutItem(ctx, models.ChatsTable, chat); err != nil {
		return nil, err
	}
	log.Printf("Created %s chat %s", chatType, chatID)
	return &chat, nil
}

func (cs *ChatService) getChat(ctx context.Context, chatID string) (*models.ChatConversation, error) {
	item, err := cs.Dynamo.GetItem(ctx, models.ChatsTable, chatKey(chatID))
	if err != nil {
		return nil, err
	}

	var chat models.ChatConversation
	if err := attributevalue.UnmarshalMap(item, &chat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat: %w", err)
	}
	return &chat, nil
}

// GetChatByID fetches a single conversation; callers must be participants.
func (cs *ChatService) GetChatByID(ctx context.Context, chatID string, callerID string) (*models.ChatConversation, error) {
	chat, err := cs.getChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(chat, callerID) {
		return nil, fmt.Errorf("%w: only participants can view a chat", ErrForbidden)
	}
	return chat, nil
}

// GetChatsForUser lists every conversation the user participates in, most
// recently active first. Callers may only list their own conversations.
func (cs *ChatService) GetChatsForUser(ctx context.Context, userID string, callerID string) ([]models.ChatConversation, error) {
	if userID != callerID {
		return nil, fmt.Errorf("%w: callers can only list their own chats", ErrForbidden)
	}

	items, err := cs.Dynamo.ScanItems(ctx, models.ChatsTable, nil, "participants", []string{userID}, "updatedAt", true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chats: %w", err)
	}

	var chats []models.ChatConversation
	if err := attributevalue.UnmarshalListOfMaps(items, &chats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chats: %w", err)
	}
	return chats, nil
}

func containsUser(userIDs []string, userID string) bool {
	for _, candidate := range userIDs {
		if candidate == userID {
			return true
		}
	}
	return false
}

func isParticipant(chat *models.ChatConversation, userID string) bool {
	return containsUser(chat.Participants, userID)
}

// AddMessage appends a message to a conversation the caller participates in,
// snapshotting the sender's display data onto it and refreshing the parent's
// lastMessage summary and updatedAt.
func (cs *ChatService) AddMessage(ctx context.Context, chatID string, text string, callerID string) (*models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: message text is required", ErrInvalidInput)
	}

	chat, err := cs.getChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(chat, callerID) {
		return nil, fmt.Errorf("%w: only participants can send messages", ErrForbidden)
	}

	message := models.ChatMessage{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		SenderID:  callerID,
		Text:      text,
		CreatedAt: nowISO(),
	}

	profile, err := cs.Profiles.GetUserProfile(ctx, callerID)
	switch {
	case err == nil:
		message.SenderDisplayName = profile.DisplayName
		message.SenderProfileImageURL = profile.ProfileImageURL
	case isNotFound(err):
		log.Printf("Sender profile not found for %s. Message will carry a placeholder name.", callerID)
		message.SenderDisplayName = models.UnknownUserName
	default:
		return nil, err
	}

	if err := cs.Dynamo.PutItem(ctx, models.ChatMessagesTable, message); err != nil {
		return nil, err
	}

	updateExpression := "SET #lastMessage = :lastMessage, #updatedAt = :updatedAt"
	lastMessage, err := attributevalue.Marshal(models.LastMessage{
		SenderID:  message.SenderID,
		Text:      message.Text,
		CreatedAt: message.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal last message: %w", err)
	}
	_, err = cs.Dynamo.UpdateItem(ctx, models.ChatsTable, updateExpression, chatKey(chatID),
		map[string]types.AttributeValue{
			":lastMessage": lastMessage,
			":updatedAt":   &types.AttributeValueMemberS{Value: nowISO()},
		},
		map[string]string{
			"#lastMessage": "lastMessage",
			"#updatedAt":   "updatedAt",
		})
	if err != nil {
		return nil, err
	}

	log.Printf("Added message %s to chat %s", message.ID, chatID)
	return &message, nil
}

// GetMessages lists a conversation's messages chronologically; callers must
// be participants.
func (cs *ChatService) GetMessages(ctx context.Context, chatID string, callerID string) ([]models.ChatMessage, error) {
	chat, err := cs.getChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(chat, callerID) {
		return nil, fmt.Errorf("%w: only participants can read messages", ErrForbidden)
	}

	items, err := cs.Dynamo.ScanItems(ctx, models.ChatMessagesTable, map[string]string{"chatId": chatID}, "", nil, "createdAt", false)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.ChatMessage
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	return messages, nil
}

// DeleteChat deletes a conversation and all of its messages; messages go
// first so a failure cannot orphan them behind a missing conversation.
func (cs *ChatService) DeleteChat(ctx context.Context, chatID string, callerID string) error {
	chat, err := cs.getChat(ctx, chatID)
	if err != nil {
		return err
	}
	if !isParticipant(chat, callerID) {
		return fmt.Errorf("%w: only participants can delete a chat", ErrForbidden)
	}

	items, err := cs.Dynamo.ScanItems(ctx, models.ChatMessagesTable, map[string]string{"chatId": chatID}, "", nil, "", false)
	if err != nil {
		return fmt.Errorf("failed to fetch messages for deletion: %w", err)
	}

	if len(items) > 0 {
		writeRequests := make([]types.WriteRequest, 0, len(items))
		for _, item := range items {
			messageID := utils.ExtractString(item, "id")
			if messageID == "" {
				continue
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: messageID},
					},
				},
			})
		}
		if err := cs.Dynamo.BatchWriteItems(ctx, models.ChatMessagesTable, writeRequests); err != nil {
			return err
		}
		log.Printf("Deleted %d messages for chat %s", len(writeRequests), chatID)
	}

	if err := cs.Dynamo.DeleteItem(ctx, models.ChatsTable, chatKey(chatID)); err != nil {
		return err
	}
	log.Printf("Deleted chat %s", chatID)
	return nil
}
