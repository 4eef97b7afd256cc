package graphql

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/apimgr/community/src/models"
)

// Me returns the authenticated user's own document.
func (r *Resolver) Me(ctx context.Context) (*models.User, error) {
	return r.currentUser(ctx)
}

// UserByID looks up any user. Requires authentication.
func (r *Resolver) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if _, err := r.currentUser(ctx); err != nil {
		return nil, err
	}
	user, err := r.Users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

// OrganizationByID resolves a single organization, served from the
// short-lived cache when warm.
func (r *Resolver) OrganizationByID(ctx context.Context, id primitive.ObjectID) (*models.Organization, error) {
	return r.cachedOrganization(ctx, id)
}

// Organizations lists organizations visible in search, newest first.
func (r *Resolver) Organizations(ctx context.Context) ([]*models.Organization, error) {
	return r.Orgs.List(ctx)
}

// EventsByOrganization lists an organization's events by start time.
func (r *Resolver) EventsByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]*models.Event, error) {
	if _, err := r.organizationByID(ctx, orgID); err != nil {
		return nil, err
	}
	return r.Events.ListByOrganization(ctx, orgID)
}

// MembershipRequestsByOrganization lists pending requests. Admin only.
func (r *Resolver) MembershipRequestsByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]*models.MembershipRequest, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := r.requireOrgAdmin(ctx, actor, orgID); err != nil {
		return nil, err
	}
	return r.Requests.ListByOrganization(ctx, orgID)
}

// DirectChatsByUser lists the acting user's own direct chats.
func (r *Resolver) DirectChatsByUser(ctx context.Context) ([]*models.DirectChat, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return r.DirectChats.ListByUser(ctx, actor.ID)
}

// DirectChatMessages lists a chat's messages for a participant.
func (r *Resolver) DirectChatMessages(ctx context.Context, chatID primitive.ObjectID) ([]*models.DirectChatMessage, error) {
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
	return r.DirectChats.ListMessages(ctx, chatID)
}

// GroupChatsByOrganization lists an organization's group chats for its
// members.
func (r *Resolver) GroupChatsByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]*models.GroupChat, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	org, err := r.organizationByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !actor.IsSuperAdmin() && !org.IsMember(actor.ID) {
		return nil, ErrNotMember
	}
	return r.GroupChats.ListByOrganization(ctx, orgID)
}

// GroupChatMessages lists a group chat's messages for a participant.
func (r *Resolver) GroupChatMessages(ctx context.Context, chatID primitive.ObjectID) ([]*models.GroupChatMessage, error) {
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
	return r.GroupChats.ListMessages(ctx, chatID)
}
