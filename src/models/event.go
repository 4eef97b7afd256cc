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

// Event represents an event run by an organization
type Event struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title          string               `bson:"title" json:"title"`
	Description    string               `bson:"description" json:"description"`
	OrganizationID primitive.ObjectID   `bson:"organizationId" json:"organization_id"`
	CreatorID      primitive.ObjectID   `bson:"creatorId" json:"creator_id"`
	Registrants    []primitive.ObjectID `bson:"registrants" json:"registrants"`
	Location       string               `bson:"location,omitempty" json:"location,omitempty"`
	StartAt        time.Time            `bson:"startAt" json:"start_at"`
	EndAt          time.Time            `bson:"endAt" json:"end_at"`
	AllDay         bool                 `bson:"allDay" json:"all_day"`
	CreatedAt      time.Time            `bson:"createdAt" json:"created_at"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updated_at"`
}

// IsCreator reports whether the given user created this event
func (e *Event) IsCreator(userID primitive.ObjectID) bool {
	return e.CreatorID == userID
}

// HasRegistrant reports whether the given user is registered for this event
func (e *Event) HasRegistrant(userID primitive.ObjectID) bool {
	return containsID(e.Registrants, userID)
}

// EventModel handles event document operations
type EventModel struct {
	DB *mongo.Database
}

func (m *EventModel) collection() *mongo.Collection {
	return m.DB.Collection(database.CollectionEvents)
}

// GetByID returns the event with the given id
func (m *EventModel) GetByID(ctx context.Context, id primitive.ObjectID) (*Event, error) {
	var event Event
	err := m.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListByOrganization returns all events of an organization, soonest first
func (m *EventModel) ListByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]*Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startAt", Value: 1}})
	cursor, err := m.collection().Find(ctx, bson.M{"organizationId": orgID}, opts)
	if err != nil {
		return nil, err
	}
	var events []*Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Create inserts a new event with its creator as first registrant
func (m *EventModel) Create(ctx context.Context, event *Event) error {
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Registrants == nil {
		event.Registrants = []primitive.ObjectID{event.CreatorID}
	}

	res, err := m.collection().InsertOne(ctx, event)
	if err != nil {
		return err
	}
	event.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Delete removes the event document
func (m *EventModel) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := m.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByOrganization removes all events of an organization and returns
// their ids so callers can prune user back-references.
func (m *EventModel) DeleteByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := m.collection().Find(ctx, bson.M{"organizationId": orgID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}

	if _, err := m.collection().DeleteMany(ctx, bson.M{"organizationId": orgID}); err != nil {
		return nil, err
	}
	return ids, nil
}

// AddRegistrant registers a user for the event
func (m *EventModel) AddRegistrant(ctx context.Context, eventID, userID primitive.ObjectID) error {
	_, err := m.collection().UpdateByID(ctx, eventID, bson.M{
		"$addToSet": bson.M{"registrants": userID},
		"$set":      touch(),
	})
	return err
}

// RemoveRegistrant unregisters a user from the event
func (m *EventModel) RemoveRegistrant(ctx context.Context, eventID, userID primitive.ObjectID) error {
	_, err := m.collection().UpdateByID(ctx, eventID, bson.M{
		"$pull": bson.M{"registrants": userID},
		"$set":  touch(),
	})
	return err
}
