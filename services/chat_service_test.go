package services

import (
	"context"
	"errors"
	"testing"

	"barterhub_server/models"
)

func newChatEnv() (*ChatService, *fakeDynamo) {
	dynamo := newFakeDynamo()
	profiles := &UserProfileService{Dynamo: dynamo, Media: &fakeMedia{}}
	return &ChatService{Dynamo: dynamo, Profiles: profiles}, dynamo
}

func TestDirectChatIDOrderIndependent(t *testing.T) {
	if got := DirectChatID("bob", "alice"); got != "alice_bob" {
		t.Fatalf("DirectChatID(bob, alice) = %q, want alice_bob", got)
	}
	if DirectChatID("alice", "bob") != DirectChatID("bob", "alice") {
		t.Fatal("expected the same id for either participant order")
	}
}

func TestCreateDirectChatIdempotent(t *testing.T) {
	service, dynamo := newChatEnv()

	first, err := service.CreateChat(context.Background(), []string{"alice", "bob"}, "", models.ChatTypeDirect, "alice")
	if err != nil {
		t.Fatalf("first CreateChat: %v", err)
	}
	second, err := service.CreateChat(context.Background(), []string{"bob", "alice"}, "", models.ChatTypeDirect, "bob")
	if err != nil {
		t.Fatalf("second CreateChat: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected the same conversation, got %s and %s", first.ID, second.ID)
	}
	if first.CreatedAt != second.CreatedAt {
		t.Fatalf("expected the existing conversation back, got differing creation times")
	}
	if dynamo.count(models.ChatsTable) != 1 {
		t.Fatalf("expected a single stored conversation, got %d", dynamo.count(models.ChatsTable))
	}
}

func TestCreateChatValidation(t *testing.T) {
	service, _ := newChatEnv()

	if _, err := service.CreateChat(context.Background(), []string{"alice"}, "", models.ChatTypeDirect, "alice"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a one-person direct chat, got %v", err)
	}
	if _, err := service.CreateChat(context.Background(), []string{"alice", "bob", "carol"}, "  ", models.ChatTypeGroup, "alice"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an unnamed group chat, got %v", err)
	}
	if _, err := service.CreateChat(context.Background(), []string{"alice", "bob"}, "", "broadcast", "alice"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an unknown chat type, got %v", err)
	}
}

func TestCreateChatCallerMustBeParticipant(t *testing.T) {
	service, dynamo := newChatEnv()

	if _, err := service.CreateChat(context.Background(), []string{"alice", "bob"}, "", models.ChatTypeDirect, "mallory"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden creating a direct chat between two other users, got %v", err)
	}
	if _, err := service.CreateChat(context.Background(), []string{"alice", "bob"}, "Tool shed", models.ChatTypeGroup, "mallory"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden creating a group chat for others, got %v", err)
	}
	if dynamo.count(models.ChatsTable) != 0 {
		t.Fatalf("expected no conversation to be seeded by an outsider, got %d", dynamo.count(models.ChatsTable))
	}

	// The pair's own deterministic id must still be free to claim.
	chat, err := service.CreateChat(context.Background(), []string{"alice", "bob"}, "", models.ChatTypeDirect, "alice")
	if err != nil {
		t.Fatalf("CreateChat by a participant: %v", err)
	}
	if chat.ID != DirectChatID("alice", "bob") {
		t.Fatalf("expected the deterministic pair id, got %s", chat.ID)
	}
}

func TestCreateGroupChat(t *testing.T) {
	service, _ := newChatEnv()

	chat, err := service.CreateChat(context.Background(), []string{"alice", "bob", "carol"}, "Tool shed", models.ChatTypeGroup, "alice")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if chat.Name != "Tool shed" || chat.Type != models.ChatTypeGroup {
		t.Fatalf("unexpected group chat %+v", chat)
	}
	if chat.ID == "" || chat.ID == DirectChatID("alice", "bob") {
		t.Fatalf("expected a generated group id, got %q", chat.ID)
	}
}

func TestGetChatByIDParticipantOnly(t *testing.T) {
	service, dynamo := newChatEnv()
	seedProfile(dynamo, models.UserProfile{UserID: "alice", DisplayName: "Alice"})

	chat, err := service.CreateChat(context.Background(), []string{"alice", "bob"}, "", models.ChatTypeDirect, "alice")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if _, err := service.AddMessage(context.Background(), chat.ID, "meet at the flea market", "alice"); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}

	if _, err := service.GetChatByID(context.Background(), chat.ID, "mallory"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for an outsider reading a conversation, got %v", err)
	}

	fetched, err := service.GetChatByID(context.Background(), chat.ID, "bob")
	if err != nil {
		t.Fatalf("participant fetch: %v", err)
	}
	if fetched.LastMessage == nil || fetched.LastMessage.Text != "meet at the flea market" {
		t.Fatalf("expected the participant to see the lastMessage summary, got %+v", fetched.LastMessage)
	}
}

func TestAddMessageUpdatesConversation(t *testing.T) {
	service, dynamo := newChatEnv()
	seedProfile(dynamo, models.UserProfile{UserID: "alice", DisplayName: "Alice"})

	chat, err := service.CreateChat(context.Background(), []string{"alice", "bob"}, "", models.ChatTypeDirect, "alice")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	message, err := service.AddMessage(context.Background(), chat.ID, "Still have the ladder?", "alice")
	if err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if message.SenderDisplayName != "Alice" {
		t.Fatalf("expected sender snapshot, got %+v", message)
	}

	refreshed, err := service.GetChatByID(context.Background(), chat.ID, "alice")
	if err != nil {
		t.Fatalf("GetChatByID: %v", err)
	}
	if refreshed.LastMessage == nil || refreshed.LastMessage.Text != "Still have the ladder?" {
		t.Fatalf("expected lastMessage summary, got %+v", refreshed.LastMessage)
	}
	if refreshed.UpdatedAt < chat.UpdatedAt {
		t.Fatalf("expected updatedAt to move forward, got %s then %s", chat.UpdatedAt, refreshed.UpdatedAt)
	}
}

func TestAddMessageParticipantOnly(t *testing.T) {
	service, _ := newChatEnv()

	chat, err := service.CreateChat(context.Background(), []string{"alice", "bob"}, "", models.ChatTypeDirect, "alice")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	if _, err := service.AddMessage(context.Background(), chat.ID, "hi", "mallory"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for an outsider, got %v", err)
	}
	if _, err := service.AddMessage(context.Background(), chat.ID, "   ", "alice"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank text, got %v", err)
	}
}

func TestGetMessagesChronologicalAndParticipantOnly(t *testing.T) {
	service, dynamo := newChatEnv()
	seedProfile(dynamo, models.UserProfile{UserID: "alice", DisplayName: "Alice"})
	seedProfile(dynamo, models.UserProfile{UserID: "bob", DisplayName: "Bob"})

	chat, err := service.CreateChat(context.Background(), []string{"alice", "bob"}, "", models.ChatTypeDirect, "alice")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	for i, text := range []string{"first", "second", "third"} {
		sender := "alice"
		if i%2 == 1 {
			sender = "bob"
		}
		if _, err := service.AddMessage(context.Background(), chat.ID, text, sender); err != nil {
			t.Fatalf("AddMessage %q: %v", text, err)
		}
	}

	messages, err := service.GetMessages(context.Background(), chat.ID, "bob")
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if len(messages) != 3 || messages[0].Text != "first" || messages[2].Text != "third" {
		t.Fatalf("expected chronological order, got %+v", messages)
	}

	if _, err := service.GetMessages(context.Background(), chat.ID, "mallory"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for an outsider, got %v", err)
	}
}

func TestGetChatsForUserMostRecentFirst(t *testing.T) {
	service, dynamo := newChatEnv()
	seedProfile(dynamo, models.UserProfile{UserID: "alice", DisplayName: "Alice"})

	older := models.ChatConversation{ID: "older", Participants: []string{"alice", "bob"}, Type: models.ChatTypeDirect, CreatedAt: "2024-05-01T10:00:00Z", UpdatedAt: "2024-05-01T10:00:00Z"}
	newer := models.ChatConversation{ID: "newer", Participants: []string{"alice", "carol"}, Type: models.ChatTypeDirect, CreatedAt: "2024-05-02T10:00:00Z", UpdatedAt: "2024-05-02T10:00:00Z"}
	other := models.ChatConversation{ID: "other", Participants: []string{"bob", "carol"}, Type: models.ChatTypeDirect, CreatedAt: "2024-05-03T10:00:00Z", UpdatedAt: "2024-05-03T10:00:00Z"}
	for _, chat := range []models.ChatConversation{older, newer, other} {
		if err := dynamo.PutItem(context.Background(), models.ChatsTable, chat); err != nil {
			t.Fatalf("seed chat %s: %v", chat.ID, err)
		}
	}

	chats, err := service.GetChatsForUser(context.Background(), "alice", "alice")
	if err != nil {
		t.Fatalf("GetChatsForUser: %v", err)
	}
	if len(chats) != 2 || chats[0].ID != "newer" || chats[1].ID != "older" {
		t.Fatalf("expected [newer older], got %+v", chats)
	}
}

func TestGetChatsForUserSelfOnly(t *testing.T) {
	service, dynamo := newChatEnv()

	seeded := models.ChatConversation{ID: "alice_bob", Participants: []string{"alice", "bob"}, Type: models.ChatTypeDirect, CreatedAt: "2024-05-01T10:00:00Z", UpdatedAt: "2024-05-01T10:00:00Z"}
	if err := dynamo.PutItem(context.Background(), models.ChatsTable, seeded); err != nil {
		t.Fatalf("seed chat: %v", err)
	}

	if _, err := service.GetChatsForUser(context.Background(), "alice", "mallory"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden listing another user's chats, got %v", err)
	}
}

func TestDeleteChatCascadesToMessages(t *testing.T) {
	service, dynamo := newChatEnv()
	seedProfile(dynamo, models.UserProfile{UserID: "alice", DisplayName: "Alice"})

	chat, err := service.CreateChat(context.Background(), []string{"alice", "bob"}, "", models.ChatTypeDirect, "alice")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	for _, text := range []string{"one", "two"} {
		if _, err := service.AddMessage(context.Background(), chat.ID, text, "alice"); err != nil {
			t.Fatalf("AddMessage %q: %v", text, err)
		}
	}

	if err := service.DeleteChat(context.Background(), chat.ID, "mallory"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for an outsider, got %v", err)
	}
	if err := service.DeleteChat(context.Background(), chat.ID, "alice"); err != nil {
		t.Fatalf("DeleteChat: %v", err)
	}

	if _, err := service.GetChatByID(context.Background(), chat.ID, "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected conversation to be gone, got %v", err)
	}
	if dynamo.count(models.ChatMessagesTable) != 0 {
		t.Fatalf("expected all messages deleted, got %d left", dynamo.count(models.ChatMessagesTable))
	}
}
