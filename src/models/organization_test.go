package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOrganization_Membership(t *testing.T) {
	admin := primitive.NewObjectID()
	member := primitive.NewObjectID()
	blocked := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	org := &Organization{
		CreatorID:    admin,
		Members:      []primitive.ObjectID{admin, member},
		Admins:       []primitive.ObjectID{admin},
		BlockedUsers: []primitive.ObjectID{blocked},
	}

	tests := []struct {
		name    string
		userID  primitive.ObjectID
		admin   bool
		member  bool
		blocked bool
		creator bool
	}{
		{"creator and admin", admin, true, true, false, true},
		{"plain member", member, false, true, false, false},
		{"blocked user", blocked, false, false, true, false},
		{"stranger", stranger, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := org.IsAdmin(tt.userID); got != tt.admin {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.admin)
			}
			if got := org.IsMember(tt.userID); got != tt.member {
				t.Errorf("IsMember() = %v, want %v", got, tt.member)
			}
			if got := org.IsBlocked(tt.userID); got != tt.blocked {
				t.Errorf("IsBlocked() = %v, want %v", got, tt.blocked)
			}
			if got := org.IsCreator(tt.userID); got != tt.creator {
				t.Errorf("IsCreator() = %v, want %v", got, tt.creator)
			}
		})
	}
}

func TestEvent_Helpers(t *testing.T) {
	creator := primitive.NewObjectID()
	registrant := primitive.NewObjectID()

	event := &Event{
		CreatorID:   creator,
		Registrants: []primitive.ObjectID{creator, registrant},
	}

	if !event.IsCreator(creator) {
		t.Error("IsCreator() = false for creator")
	}
	if event.IsCreator(registrant) {
		t.Error("IsCreator() = true for non-creator")
	}
	if !event.HasRegistrant(registrant) {
		t.Error("HasRegistrant() = false for registrant")
	}
	if event.HasRegistrant(primitive.NewObjectID()) {
		t.Error("HasRegistrant() = true for stranger")
	}
}

func TestChat_HasParticipant(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	direct := &DirectChat{Participants: []primitive.ObjectID{a, b}}
	if !direct.HasParticipant(a) || !direct.HasParticipant(b) {
		t.Error("DirectChat.HasParticipant() = false for participant")
	}
	if direct.HasParticipant(primitive.NewObjectID()) {
		t.Error("DirectChat.HasParticipant() = true for stranger")
	}

	group := &GroupChat{Participants: []primitive.ObjectID{a}}
	if !group.HasParticipant(a) {
		t.Error("GroupChat.HasParticipant() = false for participant")
	}
	if group.HasParticipant(b) {
		t.Error("GroupChat.HasParticipant() = true for stranger")
	}
}

func TestToken_IsExpired(t *testing.T) {
	live := &Token{ExpiresAt: time.Now().Add(time.Hour)}
	if live.IsExpired() {
		t.Error("IsExpired() = true for live token")
	}

	expired := &Token{ExpiresAt: time.Now().Add(-time.Hour)}
	if !expired.IsExpired() {
		t.Error("IsExpired() = false for expired token")
	}
}

func TestUser_IsSuperAdmin(t *testing.T) {
	if (&User{Role: RoleUser}).IsSuperAdmin() {
		t.Error("IsSuperAdmin() = true for regular user")
	}
	if !(&User{Role: RoleSuperAdmin}).IsSuperAdmin() {
		t.Error("IsSuperAdmin() = false for superadmin")
	}
}
