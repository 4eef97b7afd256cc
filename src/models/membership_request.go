package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/apimgr/community/src/database"
)

// MembershipRequest represents a pending request to join an organization
type MembershipRequest struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"user_id"`
	OrganizationID primitive.ObjectID `bson:"organizationId" json:"organization_id"`
	CreatedAt      time.Time          `bson:"createdAt" json:"created_at"`
}

// MembershipRequestModel handles membership request document operations
type MembershipRequestModel struct {
	DB *mongo.Database
}

func (m *MembershipRequestModel) collection() *mongo.Collection {
	return m.DB.Collection(database.CollectionMembershipRequests)
}

// GetByID returns the membership request with the given id
func (m *MembershipRequestModel) GetByID(ctx context.Context, id primitive.ObjectID) (*MembershipRequest, error) {
	var req MembershipRequest
	err := m.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GetByUserAndOrganization returns the pending request a user has for an
// organization, if any
func (m *MembershipRequestModel) GetByUserAndOrganization(ctx context.Context, userID, orgID primitive.ObjectID) (*MembershipRequest, error) {
	var req MembershipRequest
	err := m.collection().FindOne(ctx, bson.M{"userId": userID, "organizationId": orgID}).Decode(&req)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByOrganization returns all pending requests for an organization
func (m *MembershipRequestModel) ListByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]*MembershipRequest, error) {
	cursor, err := m.collection().Find(ctx, bson.M{"organizationId": orgID})
	if err != nil {
		return nil, err
	}
	var requests []*MembershipRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// Create inserts a new membership request
func (m *MembershipRequestModel) Create(ctx context.Context, req *MembershipRequest) error {
	req.CreatedAt = time.Now().UTC()

	res, err := m.collection().InsertOne(ctx, req)
	if err != nil {
		return err
	}
	req.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Delete removes a membership request document
func (m *MembershipRequestModel) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := m.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByOrganization removes all requests for an organization.
// Used by the organization cascade.
func (m *MembershipRequestModel) DeleteByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	res, err := m.collection().DeleteMany(ctx, bson.M{"organizationId": orgID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteOlderThan removes requests created before the cutoff. Returns the
// removed requests so callers can prune back-references.
func (m *MembershipRequestModel) DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]*MembershipRequest, error) {
	filter := bson.M{"createdAt": bson.M{"$lt": cutoff}}

	cursor, err := m.collection().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var stale []*MembershipRequest
	if err := cursor.All(ctx, &stale); err != nil {
		return nil, err
	}
	if len(stale) == 0 {
		return nil, nil
	}

	if _, err := m.collection().DeleteMany(ctx, filter); err != nil {
		return nil, err
	}
	return stale, nil
}
