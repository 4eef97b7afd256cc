package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique and lookup indexes the resolvers rely on.
// CreateMany is idempotent, so this is safe to run on every startup.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		CollectionTokens: {
			{
				Keys:    bson.D{{Key: "token", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "userId", Value: 1}},
			},
		},
		CollectionMembershipRequests: {
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "organizationId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "organizationId", Value: 1}},
			},
		},
		CollectionEvents: {
			{
				Keys: bson.D{{Key: "organizationId", Value: 1}},
			},
		},
		CollectionDirectChats: {
			{
				Keys: bson.D{{Key: "organizationId", Value: 1}},
			},
			{
				Keys: bson.D{{Key: "participants", Value: 1}},
			},
		},
		CollectionDirectChatMessages: {
			{
				Keys: bson.D{{Key: "chatId", Value: 1}},
			},
		},
		CollectionGroupChats: {
			{
				Keys: bson.D{{Key: "organizationId", Value: 1}},
			},
		},
		CollectionGroupChatMessages: {
			{
				Keys: bson.D{{Key: "chatId", Value: 1}},
			},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}

	return nil
}
