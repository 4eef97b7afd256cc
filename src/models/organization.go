package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/apimgr/community/src/database"
)

// Organization represents a community organization.
// members, admins, membershipRequests and blockedUsers are back-reference
// arrays; the matching state lives on users and membership_requests.
type Organization struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name               string               `bson:"name" json:"name"`
	Description        string               `bson:"description" json:"description"`
	IsPublic           bool                 `bson:"isPublic" json:"is_public"`
	VisibleInSearch    bool                 `bson:"visibleInSearch" json:"visible_in_search"`
	CreatorID          primitive.ObjectID   `bson:"creatorId" json:"creator_id"`
	Members            []primitive.ObjectID `bson:"members" json:"members"`
	Admins             []primitive.ObjectID `bson:"admins" json:"admins"`
	MembershipRequests []primitive.ObjectID `bson:"membershipRequests" json:"membership_requests"`
	BlockedUsers       []primitive.ObjectID `bson:"blockedUsers" json:"blocked_users"`
	CreatedAt          time.Time            `bson:"createdAt" json:"created_at"`
	UpdatedAt          time.Time            `bson:"updatedAt" json:"updated_at"`
}

// IsAdmin reports whether the given user administers this organization
func (o *Organization) IsAdmin(userID primitive.ObjectID) bool {
	return containsID(o.Admins, userID)
}

// IsMember reports whether the given user is a member of this organization
func (o *Organization) IsMember(userID primitive.ObjectID) bool {
	return containsID(o.Members, userID)
}

// IsBlocked reports whether the given user is on the organization block list
func (o *Organization) IsBlocked(userID primitive.ObjectID) bool {
	return containsID(o.BlockedUsers, userID)
}

// IsCreator reports whether the given user created this organization
func (o *Organization) IsCreator(userID primitive.ObjectID) bool {
	return o.CreatorID == userID
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// OrganizationModel handles organization document operations
type OrganizationModel struct {
	DB *mongo.Database
}

func (m *OrganizationModel) collection() *mongo.Collection {
	return m.DB.Collection(database.CollectionOrganizations)
}

// GetByID returns the organization with the given id
func (m *OrganizationModel) GetByID(ctx context.Context, id primitive.ObjectID) (*Organization, error) {
	var org Organization
	err := m.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// List returns organizations visible in search, newest first
func (m *OrganizationModel) List(ctx context.Context) ([]*Organization, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.collection().Find(ctx, bson.M{"visibleInSearch": true}, opts)
	if err != nil {
		return nil, err
	}
	var orgs []*Organization
	if err := cursor.All(ctx, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// Create inserts a new organization with its creator as member and admin
func (m *OrganizationModel) Create(ctx context.Context, org *Organization) error {
	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now
	if org.Members == nil {
		org.Members = []primitive.ObjectID{org.CreatorID}
	}
	if org.Admins == nil {
		org.Admins = []primitive.ObjectID{org.CreatorID}
	}
	if org.MembershipRequests == nil {
		org.MembershipRequests = []primitive.ObjectID{}
	}
	if org.BlockedUsers == nil {
		org.BlockedUsers = []primitive.ObjectID{}
	}

	res, err := m.collection().InsertOne(ctx, org)
	if err != nil {
		return err
	}
	org.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Delete removes the organization document
func (m *OrganizationModel) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := m.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// AddMember adds a user to the organization member list
func (m *OrganizationModel) AddMember(ctx context.Context, orgID, userID primitive.ObjectID) error {
	_, err := m.collection().UpdateByID(ctx, orgID, bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      touch(),
	})
	return err
}

// RemoveMember removes a user from the organization member list
func (m *OrganizationModel) RemoveMember(ctx context.Context, orgID, userID primitive.ObjectID) error {
	_, err := m.collection().UpdateByID(ctx, orgID, bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  touch(),
	})
	return err
}

// PushMembershipRequest records a pending request on the organization
func (m *OrganizationModel) PushMembershipRequest(ctx context.Context, orgID, requestID primitive.ObjectID) error {
	_, err := m.collection().UpdateByID(ctx, orgID, bson.M{
		"$addToSet": bson.M{"membershipRequests": requestID},
		"$set":      touch(),
	})
	return err
}

// PullMembershipRequest removes a request back-reference from the organization
func (m *OrganizationModel) PullMembershipRequest(ctx context.Context, orgID, requestID primitive.ObjectID) error {
	_, err := m.collection().UpdateByID(ctx, orgID, bson.M{
		"$pull": bson.M{"membershipRequests": requestID},
		"$set":  touch(),
	})
	return err
}

// BlockUser adds a user to the block list and drops them from members
func (m *OrganizationModel) BlockUser(ctx context.Context, orgID, userID primitive.ObjectID) error {
	// Two updates: $addToSet and $pull cannot target the same document keys in
	// one update when arrays differ, but these touch different fields
	_, err := m.collection().UpdateByID(ctx, orgID, bson.M{
		"$addToSet": bson.M{"blockedUsers": userID},
		"$pull":     bson.M{"members": userID},
		"$set":      touch(),
	})
	return err
}

// UnblockUser removes a user from the block list
func (m *OrganizationModel) UnblockUser(ctx context.Context, orgID, userID primitive.ObjectID) error {
	_, err := m.collection().UpdateByID(ctx, orgID, bson.M{
		"$pull": bson.M{"blockedUsers": userID},
		"$set":  touch(),
	})
	return err
}
