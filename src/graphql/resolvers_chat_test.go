package graphql

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/apimgr/community/src/models"
)

func (env *testEnv) seedDirectChat(org *models.Organization, participants ...*models.User) *models.DirectChat {
	chat := &models.DirectChat{
		ID:             primitive.NewObjectID(),
		OrganizationID: org.ID,
		CreatorID:      participants[0].ID,
	}
	for _, p := range participants {
		chat.Participants = append(chat.Participants, p.ID)
	}
	env.direct.chats[chat.ID] = chat
	return chat
}

func (env *testEnv) seedGroupChat(org *models.Organization, participants ...*models.User) *models.GroupChat {
	chat := &models.GroupChat{
		ID:             primitive.NewObjectID(),
		Title:          "chat-" + primitive.NewObjectID().Hex()[:8],
		OrganizationID: org.ID,
		CreatorID:      participants[0].ID,
	}
	for _, p := range participants {
		chat.Participants = append(chat.Participants, p.ID)
	}
	env.group.chats[chat.ID] = chat
	return chat
}

func TestCreateDirectChat(t *testing.T) {
	env := newTestEnv()
	creator := env.seedUser(models.RoleUser)
	org := env.seedOrganization(creator)
	member := env.seedMember(org)

	chat, err := env.resolver.CreateDirectChat(env.ctxFor(creator), org.ID, []primitive.ObjectID{member.ID})
	if err != nil {
		t.Fatalf("CreateDirectChat: %v", err)
	}
	if len(chat.Participants) != 2 || !chat.HasParticipant(creator.ID) || !chat.HasParticipant(member.ID) {
		t.Errorf("participants = %v", chat.Participants)
	}
}

func TestCreateDirectChat_ParticipantMustBeMember(t *testing.T) {
	env := newTestEnv()
	creator := env.seedUser(models.RoleUser)
	org := env.seedOrganization(creator)
	outsider := env.seedUser(models.RoleUser)

	if _, err := env.resolver.CreateDirectChat(env.ctxFor(creator), org.ID, []primitive.ObjectID{outsider.ID}); !errors.Is(err, ErrNotMember) {
		t.Errorf("err = %v, want ErrNotMember", err)
	}
}

func TestRemoveDirectChat(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser(models.RoleUser)
	org := env.seedOrganization(admin)
	a := env.seedMember(org)
	b := env.seedMember(org)
	chat := env.seedDirectChat(org, a, b)
	for i := 0; i < 3; i++ {
		id := primitive.NewObjectID()
		env.direct.messages[id] = &models.DirectChatMessage{ID: id, ChatID: chat.ID, SenderID: a.ID, Body: "m"}
	}
	otherChat := env.seedDirectChat(org, admin, a)
	otherMsg := primitive.NewObjectID()
	env.direct.messages[otherMsg] = &models.DirectChatMessage{ID: otherMsg, ChatID: otherChat.ID, SenderID: admin.ID, Body: "keep"}

	snapshot, err := env.resolver.RemoveDirectChat(env.ctxFor(admin), chat.ID, org.ID)
	if err != nil {
		t.Fatalf("RemoveDirectChat: %v", err)
	}
	if snapshot.ID != chat.ID {
		t.Errorf("snapshot ID = %s, want %s", snapshot.ID.Hex(), chat.ID.Hex())
	}
	if _, ok := env.direct.chats[chat.ID]; ok {
		t.Error("chat document still present")
	}
	// Only the removed chat's messages go; the sibling chat keeps its own.
	if len(env.direct.messages) != 1 {
		t.Errorf("messages remaining = %d, want 1", len(env.direct.messages))
	}
	if _, ok := env.direct.chats[otherChat.ID]; !ok {
		t.Error("unrelated chat deleted")
	}
}

func TestRemoveDirectChat_WrongOrganization(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser(models.RoleUser)
	org := env.seedOrganization(admin)
	otherOrg := env.seedOrganization(admin)
	a := env.seedMember(org)
	chat := env.seedDirectChat(org, admin, a)

	if _, err := env.resolver.RemoveDirectChat(env.ctxFor(admin), chat.ID, otherOrg.ID); !errors.Is(err, ErrChatNotFound) {
		t.Errorf("err = %v, want ErrChatNotFound", err)
	}
}

func TestRemoveDirectChat_NotAdmin(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser(models.RoleUser)
	org := env.seedOrganization(admin)
	a := env.seedMember(org)
	b := env.seedMember(org)
	chat := env.seedDirectChat(org, a, b)

	// Even a participant cannot remove the chat without admin rights.
	if _, err := env.resolver.RemoveDirectChat(env.ctxFor(a), chat.ID, org.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("err = %v, want ErrNotAuthorized", err)
	}
}

func TestRemoveGroupChat(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser(models.RoleUser)
	org := env.seedOrganization(admin)
	a := env.seedMember(org)
	chat := env.seedGroupChat(org, a, admin)
	for i := 0; i < 2; i++ {
		id := primitive.NewObjectID()
		env.group.messages[id] = &models.GroupChatMessage{ID: id, ChatID: chat.ID, SenderID: a.ID, Body: "m"}
	}

	snapshot, err := env.resolver.RemoveGroupChat(env.ctxFor(admin), chat.ID)
	if err != nil {
		t.Fatalf("RemoveGroupChat: %v", err)
	}
	if snapshot.ID != chat.ID || snapshot.Title != chat.Title {
		t.Errorf("snapshot = %+v", snapshot)
	}
	if len(env.group.chats) != 0 || len(env.group.messages) != 0 {
		t.Error("group chat or messages still present")
	}
}

func TestSendMessageToDirectChat(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser(models.RoleUser)
	org := env.seedOrganization(admin)
	a := env.seedMember(org)
	b := env.seedMember(org)
	chat := env.seedDirectChat(org, a, b)

	msg, err := env.resolver.SendMessageToDirectChat(env.ctxFor(a), chat.ID, "hello")
	if err != nil {
		t.Fatalf("SendMessageToDirectChat: %v", err)
	}
	if msg.Body != "hello" || msg.SenderID != a.ID {
		t.Errorf("message = %+v", msg)
	}
	if len(env.direct.messages) != 1 {
		t.Errorf("stored messages = %d, want 1", len(env.direct.messages))
	}

	// Broadcast went to the other participant only.
	if len(env.hub.targets) != 1 {
		t.Fatalf("publish calls = %d, want 1", len(env.hub.targets))
	}
	if got := env.hub.targets[0]; len(got) != 1 || got[0] != b.ID.Hex() {
		t.Errorf("publish targets = %v, want [%s]", got, b.ID.Hex())
	}
	if env.hub.events[0] != eventDirectMessage {
		t.Errorf("event = %q, want %q", env.hub.events[0], eventDirectMessage)
	}
}

func TestSendMessageToGroupChat_NonParticipant(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser(models.RoleUser)
	org := env.seedOrganization(admin)
	a := env.seedMember(org)
	b := env.seedMember(org)
	chat := env.seedGroupChat(org, a, b)
	outsider := env.seedMember(org)

	if _, err := env.resolver.SendMessageToGroupChat(env.ctxFor(outsider), chat.ID, "hi"); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("err = %v, want ErrNotAuthorized", err)
	}
	if len(env.hub.targets) != 0 {
		t.Error("broadcast sent despite rejection")
	}
}
