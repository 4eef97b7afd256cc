package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/apimgr/community/src/database"
)

// Token lifetime for issued API tokens
const TokenLifetime = 30 * 24 * time.Hour

// Token represents an opaque API bearer token
type Token struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Token      string             `bson:"token" json:"-"` // Never serialize the credential
	UserID     primitive.ObjectID `bson:"userId" json:"user_id"`
	CreatedAt  time.Time          `bson:"createdAt" json:"created_at"`
	ExpiresAt  time.Time          `bson:"expiresAt" json:"expires_at"`
	LastUsedAt time.Time          `bson:"lastUsedAt" json:"last_used_at"`
}

// IsExpired checks if the token has expired
func (t *Token) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// TokenModel handles API token document operations
type TokenModel struct {
	DB *mongo.Database
}

func (m *TokenModel) collection() *mongo.Collection {
	return m.DB.Collection(database.CollectionTokens)
}

// Create inserts a new token for a user
func (m *TokenModel) Create(ctx context.Context, token string, userID primitive.ObjectID) (*Token, error) {
	now := time.Now().UTC()
	doc := &Token{
		Token:      token,
		UserID:     userID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(TokenLifetime),
		LastUsedAt: now,
	}

	res, err := m.collection().InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc, nil
}

// GetByToken returns the token document for a bearer credential.
// Expired tokens are treated as missing.
func (m *TokenModel) GetByToken(ctx context.Context, token string) (*Token, error) {
	var doc Token
	err := m.collection().FindOne(ctx, bson.M{
		"token":     token,
		"expiresAt": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateLastUsed bumps the last-used timestamp, best effort
func (m *TokenModel) UpdateLastUsed(ctx context.Context, id primitive.ObjectID) error {
	_, err := m.collection().UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"lastUsedAt": time.Now().UTC()},
	})
	return err
}

// DeleteExpired removes expired tokens. Run periodically by the scheduler.
func (m *TokenModel) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := m.collection().DeleteMany(ctx, bson.M{
		"expiresAt": bson.M{"$lt": time.Now().UTC()},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
