package graphql

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/apimgr/community/src/metrics"
	"github.com/apimgr/community/src/models"
)

// Websocket event names pushed through the chat hub.
const (
	eventDirectMessage = "DIRECT_CHAT_MESSAGE"
	eventGroupMessage  = "GROUP_CHAT_MESSAGE"
)

// CreateDirectChat opens a direct chat between the acting user and the
// given participants inside an organization they all belong to.
func (r *Resolver) CreateDirectChat(ctx context.Context, orgID primitive.ObjectID, participantIDs []primitive.ObjectID) (*models.DirectChat, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	org, err := r.organizationByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !org.IsMember(actor.ID) {
		return nil, ErrNotMember
	}

	participants := []primitive.ObjectID{actor.ID}
	for _, id := range participantIDs {
		if id == actor.ID {
			continue
		}
		user, err := r.Users.GetByID(ctx, id)
		if err != nil {
			return nil, notFound(err, ErrUserNotFound)
		}
		if !org.IsMember(user.ID) {
			return nil, ErrNotMember
		}
		participants = append(participants, user.ID)
	}

	chat := &models.DirectChat{
		OrganizationID: orgID,
		CreatorID:      actor.ID,
		Participants:   participants,
	}
	if err := r.DirectChats.Create(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// CreateGroupChat opens a titled group chat inside an organization.
func (r *Resolver) CreateGroupChat(ctx context.Context, orgID primitive.ObjectID, title string, participantIDs []primitive.ObjectID) (*models.GroupChat, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	org, err := r.organizationByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !org.IsMember(actor.ID) {
		return nil, ErrNotMember
	}

	participants := []primitive.ObjectID{actor.ID}
	for _, id := range participantIDs {
		if id == actor.ID {
			continue
		}
		user, err := r.Users.GetByID(ctx, id)
		if err != nil {
			return nil, notFound(err, ErrUserNotFound)
		}
		if !org.IsMember(user.ID) {
			return nil, ErrNotMember
		}
		participants = append(participants, user.ID)
	}

	chat := &models.GroupChat{
		Title:          title,
		OrganizationID: orgID,
		CreatorID:      actor.ID,
		Participants:   participants,
	}
	if err := r.GroupChats.Create(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// RemoveDirectChat deletes a direct chat and all of its messages on
// behalf of an admin of the owning organization. Messages go first, the
// chat document second. Returns the chat as it stood before deletion.
func (r *Resolver) RemoveDirectChat(ctx context.Context, chatID, orgID primitive.ObjectID) (*models.DirectChat, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	chat, err := r.DirectChats.GetByID(ctx, chatID)
	if err != nil {
		return nil, notFound(err, ErrChatNotFound)
	}
	if chat.OrganizationID != orgID {
		return nil, ErrChatNotFound
	}
	if _, err := r.requireOrgAdmin(ctx, actor, orgID); err != nil {
		return nil, err
	}

	var msgCount int64
	err = r.withTxn(ctx, func(ctx context.Context) error {
		n, err := r.DirectChats.DeleteMessagesByChat(ctx, chat.ID)
		if err != nil {
			return err
		}
		msgCount = n
		_, err = r.DirectChats.Delete(ctx, chat.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.CascadeDeleted("direct_chat_messages", msgCount)
	metrics.CascadeDeleted("direct_chats", 1)
	r.logger().Info("direct chat removed",
		zap.String("chat", chat.ID.Hex()),
		zap.String("organization", orgID.Hex()),
		zap.Int64("messages", msgCount))
	return chat, nil
}

// RemoveGroupChat deletes a group chat and all of its messages on
// behalf of an admin of the owning organization. Returns the chat as it
// stood before deletion.
func (r *Resolver) RemoveGroupChat(ctx context.Context, chatID primitive.ObjectID) (*models.GroupChat, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	chat, err := r.GroupChats.GetByID(ctx, chatID)
	if err != nil {
		return nil, notFound(err, ErrChatNotFound)
	}
	if _, err := r.requireOrgAdmin(ctx, actor, chat.OrganizationID); err != nil {
		return nil, err
	}

	var msgCount int64
	err = r.withTxn(ctx, func(ctx context.Context) error {
		n, err := r.GroupChats.DeleteMessagesByChat(ctx, chat.ID)
		if err != nil {
			return err
		}
		msgCount = n
		_, err = r.GroupChats.Delete(ctx, chat.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.CascadeDeleted("group_chat_messages", msgCount)
	metrics.CascadeDeleted("group_chats", 1)
	r.logger().Info("group chat removed",
		zap.String("chat", chat.ID.Hex()),
		zap.String("organization", chat.OrganizationID.Hex()),
		zap.Int64("messages", msgCount))
	return chat, nil
}

// SendMessageToDirectChat stores a message and pushes it to the other
// participants' websocket connections.
func (r *Resolver) SendMessageToDirectChat(ctx context.Context, chatID primitive.ObjectID, body string) (*models.DirectChatMessage, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	chat, err := r.DirectChats.GetByID(ctx, chatID)
	if err != nil {
		return nil, notFound(err, ErrChatNotFound)
	}
	if !chat.HasParticipant(actor.ID) {
		return nil, ErrNotAuthorized
	}

	msg := &models.DirectChatMessage{
		ChatID:   chat.ID,
		SenderID: actor.ID,
		Body:     body,
		SentAt:   time.Now().UTC(),
	}
	if err := r.DirectChats.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	r.publishToParticipants(chat.Participants, actor.ID, eventDirectMessage, directChatMessageToMap(msg))
	return msg, nil
}

// SendMessageToGroupChat stores a message and pushes it to the other
// participants' websocket connections.
func (r *Resolver) SendMessageToGroupChat(ctx context.Context, chatID primitive.ObjectID, body string) (*models.GroupChatMessage, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	chat, err := r.GroupChats.GetByID(ctx, chatID)
	if err != nil {
		return nil, notFound(err, ErrChatNotFound)
	}
	if !chat.HasParticipant(actor.ID) {
		return nil, ErrNotAuthorized
	}

	msg := &models.GroupChatMessage{
		ChatID:   chat.ID,
		SenderID: actor.ID,
		Body:     body,
		SentAt:   time.Now().UTC(),
	}
	if err := r.GroupChats.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	r.publishToParticipants(chat.Participants, actor.ID, eventGroupMessage, groupChatMessageToMap(msg))
	return msg, nil
}

func (r *Resolver) publishToParticipants(participants []primitive.ObjectID, sender primitive.ObjectID, event string, payload interface{}) {
	if r.Hub == nil {
		return
	}
	targets := make([]string, 0, len(participants))
	for _, id := range participants {
		if id == sender {
			continue
		}
		targets = append(targets, id.Hex())
	}
	if len(targets) > 0 {
		r.Hub.PublishToUsers(targets, event, payload)
	}
}
