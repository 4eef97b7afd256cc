package graphql

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/apimgr/community/src/metrics"
	"github.com/apimgr/community/src/models"
)

// CreateOrganizationInput carries the fields of the createOrganization
// mutation.
type CreateOrganizationInput struct {
	Name            string
	Description     string
	IsPublic        bool
	VisibleInSearch bool
}

// CreateOrganization creates an organization with the acting user as
// creator, first member and first admin.
func (r *Resolver) CreateOrganization(ctx context.Context, input CreateOrganizationInput) (*models.Organization, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	org := &models.Organization{
		Name:            input.Name,
		Description:     input.Description,
		IsPublic:        input.IsPublic,
		VisibleInSearch: input.VisibleInSearch,
		CreatorID:       actor.ID,
	}
	err = r.withTxn(ctx, func(ctx context.Context) error {
		if err := r.Orgs.Create(ctx, org); err != nil {
			return err
		}
		return r.Users.RecordCreatedOrganization(ctx, actor.ID, org.ID)
	})
	if err != nil {
		return nil, err
	}
	r.logger().Info("organization created",
		zap.String("organization", org.ID.Hex()),
		zap.String("creator", actor.ID.Hex()))
	return org, nil
}

// RemoveOrganization deletes an organization and everything beneath it:
// events, chats with their messages, membership requests, and the
// references every affected user holds. Only the creator or a platform
// admin may do this. Children go first so a failed run never leaves
// orphans pointing at a missing parent.
func (r *Resolver) RemoveOrganization(ctx context.Context, orgID primitive.ObjectID) (*models.Organization, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	org, err := r.organizationByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !actor.IsSuperAdmin() && !org.IsCreator(actor.ID) {
		return nil, ErrNotAuthorized
	}

	err = r.withTxn(ctx, func(ctx context.Context) error {
		eventIDs, err := r.Events.DeleteByOrganization(ctx, orgID)
		if err != nil {
			return err
		}
		metrics.CascadeDeleted("events", int64(len(eventIDs)))
		if len(eventIDs) > 0 {
			if _, err := r.Users.PullEventRefsMany(ctx, eventIDs); err != nil {
				return err
			}
		}

		dcChats, dcMsgs, err := r.DirectChats.DeleteByOrganization(ctx, orgID)
		if err != nil {
			return err
		}
		metrics.CascadeDeleted("direct_chats", dcChats)
		metrics.CascadeDeleted("direct_chat_messages", dcMsgs)

		gcChats, gcMsgs, err := r.GroupChats.DeleteByOrganization(ctx, orgID)
		if err != nil {
			return err
		}
		metrics.CascadeDeleted("group_chats", gcChats)
		metrics.CascadeDeleted("group_chat_messages", gcMsgs)

		if len(org.MembershipRequests) > 0 {
			if _, err := r.Users.PullMembershipRequests(ctx, org.MembershipRequests); err != nil {
				return err
			}
		}
		reqCount, err := r.Requests.DeleteByOrganization(ctx, orgID)
		if err != nil {
			return err
		}
		metrics.CascadeDeleted("membership_requests", reqCount)

		if _, err := r.Users.PullOrganizationRefs(ctx, orgID); err != nil {
			return err
		}

		if _, err := r.Orgs.Delete(ctx, orgID); err != nil {
			return err
		}
		metrics.CascadeDeleted("organizations", 1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.invalidateOrganization(orgID)
	r.logger().Info("organization removed",
		zap.String("organization", orgID.Hex()),
		zap.String("actor", actor.ID.Hex()))
	return org, nil
}

// JoinOrganization adds the acting user directly to a public
// organization. Private organizations require a membership request.
func (r *Resolver) JoinOrganization(ctx context.Context, orgID primitive.ObjectID) (*models.Organization, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	org, err := r.organizationByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org.IsBlocked(actor.ID) {
		return nil, ErrUserBlocked
	}
	if org.IsMember(actor.ID) {
		return nil, ErrAlreadyMember
	}
	if !org.IsPublic {
		return nil, ErrOrganizationNotPublic
	}
	err = r.withTxn(ctx, func(ctx context.Context) error {
		if err := r.Orgs.AddMember(ctx, orgID, actor.ID); err != nil {
			return err
		}
		return r.Users.AddJoinedOrganization(ctx, actor.ID, orgID)
	})
	if err != nil {
		return nil, err
	}
	r.invalidateOrganization(orgID)
	return r.organizationByID(ctx, orgID)
}

// LeaveOrganization removes the acting user's own membership. The
// creator cannot leave; they must remove the organization instead.
func (r *Resolver) LeaveOrganization(ctx context.Context, orgID primitive.ObjectID) (*models.Organization, error) {
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
	if org.IsCreator(actor.ID) {
		return nil, ErrCannotRemoveCreator
	}
	err = r.withTxn(ctx, func(ctx context.Context) error {
		if err := r.Orgs.RemoveMember(ctx, orgID, actor.ID); err != nil {
			return err
		}
		return r.Users.RemoveJoinedOrganization(ctx, actor.ID, orgID)
	})
	if err != nil {
		return nil, err
	}
	r.invalidateOrganization(orgID)
	return r.organizationByID(ctx, orgID)
}

// RemoveMember evicts a member on behalf of an organization admin.
// Admins cannot be evicted, the creator cannot be evicted, and admins
// remove themselves through LeaveOrganization. Returns the organization
// after the removal.
func (r *Resolver) RemoveMember(ctx context.Context, orgID, userID primitive.ObjectID) (*models.Organization, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	org, err := r.requireOrgAdmin(ctx, actor, orgID)
	if err != nil {
		return nil, err
	}
	target, err := r.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if !org.IsMember(target.ID) {
		return nil, ErrNotMember
	}
	if target.ID == actor.ID {
		return nil, ErrCannotRemoveSelf
	}
	if org.IsCreator(target.ID) {
		return nil, ErrCannotRemoveCreator
	}
	if org.IsAdmin(target.ID) {
		return nil, ErrCannotRemoveAdmin
	}

	err = r.withTxn(ctx, func(ctx context.Context) error {
		if err := r.Orgs.RemoveMember(ctx, orgID, target.ID); err != nil {
			return err
		}
		return r.Users.RemoveJoinedOrganization(ctx, target.ID, orgID)
	})
	if err != nil {
		return nil, err
	}
	r.invalidateOrganization(orgID)
	r.logger().Info("member removed",
		zap.String("organization", orgID.Hex()),
		zap.String("member", target.ID.Hex()),
		zap.String("admin", actor.ID.Hex()))
	return r.organizationByID(ctx, orgID)
}

// BlockUser blocks a user from an organization, evicting them if they
// are currently a member.
func (r *Resolver) BlockUser(ctx context.Context, orgID, userID primitive.ObjectID) (*models.Organization, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	org, err := r.requireOrgAdmin(ctx, actor, orgID)
	if err != nil {
		return nil, err
	}
	target, err := r.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if org.IsCreator(target.ID) || org.IsAdmin(target.ID) {
		return nil, ErrNotAuthorized
	}
	wasMember := org.IsMember(target.ID)
	err = r.withTxn(ctx, func(ctx context.Context) error {
		if err := r.Orgs.BlockUser(ctx, orgID, target.ID); err != nil {
			return err
		}
		if wasMember {
			return r.Users.RemoveJoinedOrganization(ctx, target.ID, orgID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.invalidateOrganization(orgID)
	return r.organizationByID(ctx, orgID)
}

// UnblockUser lifts a block. The user may join or request membership
// again afterwards.
func (r *Resolver) UnblockUser(ctx context.Context, orgID, userID primitive.ObjectID) (*models.Organization, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	org, err := r.requireOrgAdmin(ctx, actor, orgID)
	if err != nil {
		return nil, err
	}
	if !org.IsBlocked(userID) {
		return r.organizationByID(ctx, orgID)
	}
	if err := r.Orgs.UnblockUser(ctx, orgID, userID); err != nil {
		return nil, err
	}
	r.invalidateOrganization(orgID)
	return r.organizationByID(ctx, orgID)
}
