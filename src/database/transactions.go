package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a MongoDB transaction when the deployment
// supports one (replica set). On standalone deployments transactions fail with
// IllegalOperation; in that case the same steps run sequentially as best-effort
// cleanup, matching the cascade ordering guarantees documented on each caller.
func (db *DB) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := db.Client.StartSession()
	if err != nil {
		// No sessions available (old server or standalone): run directly
		return fn(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && isTransactionUnsupported(err) {
		return fn(ctx)
	}
	return err
}

// isTransactionUnsupported detects standalone deployments where multi-document
// transactions are not available
func isTransactionUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if ok := asCommandError(err, &cmdErr); ok {
		// 20: IllegalOperation ("Transaction numbers are only allowed on a replica set member or mongos")
		return cmdErr.Code == 20
	}
	return false
}

func asCommandError(err error, target *mongo.CommandError) bool {
	for err != nil {
		if ce, ok := err.(mongo.CommandError); ok {
			*target = ce
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
