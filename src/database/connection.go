// Package database manages the MongoDB connection shared by all stores
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names
const (
	CollectionUsers              = "users"
	CollectionOrganizations      = "organizations"
	CollectionMembershipRequests = "membership_requests"
	CollectionEvents             = "events"
	CollectionDirectChats        = "direct_chats"
	CollectionDirectChatMessages = "direct_chat_messages"
	CollectionGroupChats         = "group_chats"
	CollectionGroupChatMessages  = "group_chat_messages"
	CollectionTokens             = "tokens"
)

// Connection timeouts
const (
	ConnectTimeout = 10 * time.Second
	PingTimeout    = 5 * time.Second
)

// DB wraps the mongo client and the application database
type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Connect establishes the MongoDB connection and verifies it with a ping
func Connect(ctx context.Context, uri, dbName string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(50).
		SetRetryWrites(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, PingTimeout)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &DB{
		Client:   client,
		Database: client.Database(dbName),
	}, nil
}

// Ping verifies the connection is still alive (used by /healthz)
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	return db.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB
func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}
