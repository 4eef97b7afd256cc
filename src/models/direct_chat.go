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

// DirectChat represents a two-party chat under an organization
type DirectChat struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID   `bson:"organizationId" json:"organization_id"`
	CreatorID      primitive.ObjectID   `bson:"creatorId" json:"creator_id"`
	Participants   []primitive.ObjectID `bson:"participants" json:"participants"`
	CreatedAt      time.Time            `bson:"createdAt" json:"created_at"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updated_at"`
}

// HasParticipant reports whether the given user takes part in this chat
func (c *DirectChat) HasParticipant(userID primitive.ObjectID) bool {
	return containsID(c.Participants, userID)
}

// DirectChatMessage represents one message in a direct chat
type DirectChatMessage struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatID   primitive.ObjectID `bson:"chatId" json:"chat_id"`
	SenderID primitive.ObjectID `bson:"senderId" json:"sender_id"`
	Body     string             `bson:"body" json:"body"`
	SentAt   time.Time          `bson:"sentAt" json:"sent_at"`
}

// DirectChatModel handles direct chat document operations
type DirectChatModel struct {
	DB *mongo.Database
}

func (m *DirectChatModel) collection() *mongo.Collection {
	return m.DB.Collection(database.CollectionDirectChats)
}

func (m *DirectChatModel) messages() *mongo.Collection {
	return m.DB.Collection(database.CollectionDirectChatMessages)
}

// GetByID returns the direct chat with the given id
func (m *DirectChatModel) GetByID(ctx context.Context, id primitive.ObjectID) (*DirectChat, error) {
	var chat DirectChat
	err := m.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// ListByUser returns all direct chats a user participates in
func (m *DirectChatModel) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*DirectChat, error) {
	cursor, err := m.collection().Find(ctx, bson.M{"participants": userID})
	if err != nil {
		return nil, err
	}
	var chats []*DirectChat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// Create inserts a new direct chat
func (m *DirectChatModel) Create(ctx context.Context, chat *DirectChat) error {
	now := time.Now().UTC()
	chat.CreatedAt = now
	chat.UpdatedAt = now

	res, err := m.collection().InsertOne(ctx, chat)
	if err != nil {
		return err
	}
	chat.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Delete removes the direct chat document
func (m *DirectChatModel) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := m.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByOrganization removes all direct chats of an organization along with
// their messages. Returns (chats deleted, messages deleted).
func (m *DirectChatModel) DeleteByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, int64, error) {
	cursor, err := m.collection().Find(ctx, bson.M{"organizationId": orgID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return 0, 0, err
	}
	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return 0, 0, err
	}
	if len(docs) == 0 {
		return 0, 0, nil
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}

	msgRes, err := m.messages().DeleteMany(ctx, bson.M{"chatId": bson.M{"$in": ids}})
	if err != nil {
		return 0, 0, err
	}
	chatRes, err := m.collection().DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, msgRes.DeletedCount, err
	}
	return chatRes.DeletedCount, msgRes.DeletedCount, nil
}

// CreateMessage inserts a new message into a direct chat
func (m *DirectChatModel) CreateMessage(ctx context.Context, msg *DirectChatMessage) error {
	msg.SentAt = time.Now().UTC()

	res, err := m.messages().InsertOne(ctx, msg)
	if err != nil {
		return err
	}
	msg.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// ListMessages returns a chat's messages oldest first
func (m *DirectChatModel) ListMessages(ctx context.Context, chatID primitive.ObjectID) ([]*DirectChatMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sentAt", Value: 1}})
	cursor, err := m.messages().Find(ctx, bson.M{"chatId": chatID}, opts)
	if err != nil {
		return nil, err
	}
	var msgs []*DirectChatMessage
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// DeleteMessagesByChat removes all messages of a chat. Used by the chat cascade.
func (m *DirectChatModel) DeleteMessagesByChat(ctx context.Context, chatID primitive.ObjectID) (int64, error) {
	res, err := m.messages().DeleteMany(ctx, bson.M{"chatId": chatID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
