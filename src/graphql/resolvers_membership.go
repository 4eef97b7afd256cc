package graphql

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/apimgr/community/src/metrics"
	"github.com/apimgr/community/src/models"
)

// SendMembershipRequest files a request to join an organization and
// records it on both the organization and the requesting user.
func (r *Resolver) SendMembershipRequest(ctx context.Context, orgID primitive.ObjectID) (*models.MembershipRequest, error) {
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
	if _, err := r.Requests.GetByUserAndOrganization(ctx, actor.ID, orgID); err == nil {
		return nil, ErrRequestAlreadySent
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	req := &models.MembershipRequest{
		UserID:         actor.ID,
		OrganizationID: orgID,
		CreatedAt:      time.Now().UTC(),
	}
	err = r.withTxn(ctx, func(ctx context.Context) error {
		if err := r.Requests.Create(ctx, req); err != nil {
			return err
		}
		if err := r.Orgs.PushMembershipRequest(ctx, orgID, req.ID); err != nil {
			return err
		}
		return r.Users.PushMembershipRequest(ctx, actor.ID, req.ID)
	})
	if err != nil {
		return nil, err
	}
	r.invalidateOrganization(orgID)
	return req, nil
}

// AcceptMembershipRequest admits the requesting user as a member and
// removes the request from every document that references it.
func (r *Resolver) AcceptMembershipRequest(ctx context.Context, requestID primitive.ObjectID) (*models.MembershipRequest, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	req, err := r.Requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, notFound(err, ErrMembershipRequestNotFound)
	}
	if _, err := r.requireOrgAdmin(ctx, actor, req.OrganizationID); err != nil {
		return nil, err
	}
	if _, err := r.Users.GetByID(ctx, req.UserID); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	err = r.withTxn(ctx, func(ctx context.Context) error {
		if _, err := r.Requests.Delete(ctx, req.ID); err != nil {
			return err
		}
		if err := r.Orgs.PullMembershipRequest(ctx, req.OrganizationID, req.ID); err != nil {
			return err
		}
		if err := r.Users.PullMembershipRequest(ctx, req.UserID, req.ID); err != nil {
			return err
		}
		if err := r.Orgs.AddMember(ctx, req.OrganizationID, req.UserID); err != nil {
			return err
		}
		return r.Users.AddJoinedOrganization(ctx, req.UserID, req.OrganizationID)
	})
	if err != nil {
		return nil, err
	}
	r.invalidateOrganization(req.OrganizationID)
	r.logger().Info("membership request accepted",
		zap.String("request", req.ID.Hex()),
		zap.String("organization", req.OrganizationID.Hex()),
		zap.String("user", req.UserID.Hex()))
	return req, nil
}

// RejectMembershipRequest deletes a pending request on behalf of an
// organization admin. The request document is removed and the reference
// arrays on the organization and the requesting user are pruned. The
// returned snapshot reflects the request as it stood before deletion.
func (r *Resolver) RejectMembershipRequest(ctx context.Context, requestID primitive.ObjectID) (*models.MembershipRequest, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	req, err := r.Requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, notFound(err, ErrMembershipRequestNotFound)
	}
	if _, err := r.requireOrgAdmin(ctx, actor, req.OrganizationID); err != nil {
		return nil, err
	}
	if _, err := r.Users.GetByID(ctx, req.UserID); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	err = r.withTxn(ctx, func(ctx context.Context) error {
		if _, err := r.Requests.Delete(ctx, req.ID); err != nil {
			return err
		}
		if err := r.Orgs.PullMembershipRequest(ctx, req.OrganizationID, req.ID); err != nil {
			return err
		}
		return r.Users.PullMembershipRequest(ctx, req.UserID, req.ID)
	})
	if err != nil {
		return nil, err
	}
	r.invalidateOrganization(req.OrganizationID)
	metrics.CascadeDeleted("membership_requests", 1)
	r.logger().Info("membership request rejected",
		zap.String("request", req.ID.Hex()),
		zap.String("organization", req.OrganizationID.Hex()),
		zap.String("admin", actor.ID.Hex()))
	return req, nil
}

// CancelMembershipRequest lets the requesting user withdraw their own
// pending request.
func (r *Resolver) CancelMembershipRequest(ctx context.Context, requestID primitive.ObjectID) (*models.MembershipRequest, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	req, err := r.Requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, notFound(err, ErrMembershipRequestNotFound)
	}
	if req.UserID != actor.ID {
		return nil, ErrNotAuthorized
	}

	err = r.withTxn(ctx, func(ctx context.Context) error {
		if _, err := r.Requests.Delete(ctx, req.ID); err != nil {
			return err
		}
		if err := r.Orgs.PullMembershipRequest(ctx, req.OrganizationID, req.ID); err != nil {
			return err
		}
		return r.Users.PullMembershipRequest(ctx, actor.ID, req.ID)
	})
	if err != nil {
		return nil, err
	}
	r.invalidateOrganization(req.OrganizationID)
	return req, nil
}
