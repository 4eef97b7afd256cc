// Package models provides the document models stored in MongoDB
package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/apimgr/community/src/database"
)

// User roles
const (
	RoleUser       = "user"
	RoleSuperAdmin = "superadmin"
)

// User represents a user account.
// The back-reference arrays mirror membership state held on other collections;
// cascade deletes must prune them together with the referenced documents.
type User struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username             string               `bson:"username" json:"username"`
	Email                string               `bson:"email" json:"email"`
	PasswordHash         string               `bson:"passwordHash" json:"-"` // Never serialize password hash
	Role                 string               `bson:"role" json:"role"`
	JoinedOrganizations  []primitive.ObjectID `bson:"joinedOrganizations" json:"joined_organizations"`
	CreatedOrganizations []primitive.ObjectID `bson:"createdOrganizations" json:"created_organizations"`
	AdminFor             []primitive.ObjectID `bson:"adminFor" json:"admin_for"`
	MembershipRequests   []primitive.ObjectID `bson:"membershipRequests" json:"membership_requests"`
	CreatedEvents        []primitive.ObjectID `bson:"createdEvents" json:"created_events"`
	RegisteredEvents     []primitive.ObjectID `bson:"registeredEvents" json:"registered_events"`
	CreatedAt            time.Time            `bson:"createdAt" json:"created_at"`
	UpdatedAt            time.Time            `bson:"updatedAt" json:"updated_at"`
}

// IsSuperAdmin reports whether the user holds the platform-wide admin role
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// UserModel handles user document operations
type UserModel struct {
	DB *mongo.Database
}

func (m *UserModel) collection() *mongo.Collection {
	return m.DB.Collection(database.CollectionUsers)
}

// GetByID returns the user with the given id
func (m *UserModel) GetByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var user User
	err := m.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns the user with the given email address
func (m *UserModel) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := m.collection().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user and fills in its id and timestamps
func (m *UserModel) Create(ctx context.Context, user *User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = RoleUser
	}

	res, err := m.collection().InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// touch is the $set applied alongside every array update
func touch() bson.M {
	return bson.M{"updatedAt": time.Now().UTC()}
}

// PushMembershipRequest records a pending request on the user document
func (m *UserModel) PushMembershipRequest(ctx context.Context, userID, requestID primitive.ObjectID) error {
	_, err := m.collection().UpdateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{"membershipRequests": requestID},
		"$set":      touch(),
	})
	return err
}

// PullMembershipRequest removes a request back-reference from the user document
func (m *UserModel) PullMembershipRequest(ctx context.Context, userID, requestID primitive.ObjectID) error {
	_, err := m.collection().UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"membershipRequests": requestID},
		"$set":  touch(),
	})
	return err
}

// PullMembershipRequests removes a batch of request back-references from every
// user that holds one. Used by the organization cascade.
func (m *UserModel) PullMembershipRequests(ctx context.Context, requestIDs []primitive.ObjectID) (int64, error) {
	if len(requestIDs) == 0 {
		return 0, nil
	}
	res, err := m.collection().UpdateMany(ctx,
		bson.M{"membershipRequests": bson.M{"$in": requestIDs}},
		bson.M{
			"$pull": bson.M{"membershipRequests": bson.M{"$in": requestIDs}},
			"$set":  touch(),
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// AddJoinedOrganization records org membership on the user document
func (m *UserModel) AddJoinedOrganization(ctx context.Context, userID, orgID primitive.ObjectID) error {
	_, err := m.collection().UpdateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{"joinedOrganizations": orgID},
		"$set":      touch(),
	})
	return err
}

// RemoveJoinedOrganization removes org membership from the user document
func (m *UserModel) RemoveJoinedOrganization(ctx context.Context, userID, orgID primitive.ObjectID) error {
	_, err := m.collection().UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"joinedOrganizations": orgID},
		"$set":  touch(),
	})
	return err
}

// RecordCreatedOrganization marks the user as creator, admin and member of a
// freshly created organization
func (m *UserModel) RecordCreatedOrganization(ctx context.Context, userID, orgID primitive.ObjectID) error {
	_, err := m.collection().UpdateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{
			"createdOrganizations": orgID,
			"adminFor":             orgID,
			"joinedOrganizations":  orgID,
		},
		"$set": touch(),
	})
	return err
}

// PullOrganizationRefs prunes every reference to the organization from all
// user documents. Used by the organization cascade.
func (m *UserModel) PullOrganizationRefs(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	res, err := m.collection().UpdateMany(ctx,
		bson.M{"$or": []bson.M{
			{"joinedOrganizations": orgID},
			{"createdOrganizations": orgID},
			{"adminFor": orgID},
		}},
		bson.M{
			"$pull": bson.M{
				"joinedOrganizations":  orgID,
				"createdOrganizations": orgID,
				"adminFor":             orgID,
			},
			"$set": touch(),
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// AddCreatedEvent records an event created by the user
func (m *UserModel) AddCreatedEvent(ctx context.Context, userID, eventID primitive.ObjectID) error {
	_, err := m.collection().UpdateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{
			"createdEvents":    eventID,
			"registeredEvents": eventID,
		},
		"$set": touch(),
	})
	return err
}

// AddRegisteredEvent records an event registration on the user document
func (m *UserModel) AddRegisteredEvent(ctx context.Context, userID, eventID primitive.ObjectID) error {
	_, err := m.collection().UpdateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{"registeredEvents": eventID},
		"$set":      touch(),
	})
	return err
}

// RemoveRegisteredEvent removes an event registration from the user document
func (m *UserModel) RemoveRegisteredEvent(ctx context.Context, userID, eventID primitive.ObjectID) error {
	_, err := m.collection().UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"registeredEvents": eventID},
		"$set":  touch(),
	})
	return err
}

// PullEventRefs prunes the event from createdEvents and registeredEvents of
// every user. Used by the event cascade.
func (m *UserModel) PullEventRefs(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	res, err := m.collection().UpdateMany(ctx,
		bson.M{"$or": []bson.M{
			{"createdEvents": eventID},
			{"registeredEvents": eventID},
		}},
		bson.M{
			"$pull": bson.M{
				"createdEvents":    eventID,
				"registeredEvents": eventID,
			},
			"$set": touch(),
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// PullEventRefsMany is the batch variant used by the organization cascade
func (m *UserModel) PullEventRefsMany(ctx context.Context, eventIDs []primitive.ObjectID) (int64, error) {
	if len(eventIDs) == 0 {
		return 0, nil
	}
	res, err := m.collection().UpdateMany(ctx,
		bson.M{"$or": []bson.M{
			{"createdEvents": bson.M{"$in": eventIDs}},
			{"registeredEvents": bson.M{"$in": eventIDs}},
		}},
		bson.M{
			"$pull": bson.M{
				"createdEvents":    bson.M{"$in": eventIDs},
				"registeredEvents": bson.M{"$in": eventIDs},
			},
			"$set": touch(),
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
