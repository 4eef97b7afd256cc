package scheduler

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/apimgr/community/src/metrics"
	"github.com/apimgr/community/src/models"
)

const (
	taskTimeout = 2 * time.Minute

	// Requests untouched for this long are swept
	staleRequestAge = 90 * 24 * time.Hour
)

// Narrow store surfaces the maintenance tasks need.
type expiredTokenStore interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

type staleRequestStore interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]*models.MembershipRequest, error)
}

type orgRequestPruner interface {
	PullMembershipRequest(ctx context.Context, orgID, requestID primitive.ObjectID) error
}

type userRequestPruner interface {
	PullMembershipRequest(ctx context.Context, userID, requestID primitive.ObjectID) error
}

// RegisterMaintenanceTasks wires the standing maintenance jobs.
func RegisterMaintenanceTasks(s *Scheduler, db *mongo.Database, log *zap.Logger) error {
	tokens := &models.TokenModel{DB: db}
	requests := &models.MembershipRequestModel{DB: db}
	orgs := &models.OrganizationModel{DB: db}
	users := &models.UserModel{DB: db}

	if err := s.AddTask("cleanup-expired-tokens", "@hourly", cleanupExpiredTokens(tokens, log)); err != nil {
		return err
	}
	return s.AddTask("cleanup-stale-membership-requests", "0 3 * * *", sweepStaleRequests(requests, orgs, users, log))
}

func cleanupExpiredTokens(tokens expiredTokenStore, log *zap.Logger) func() error {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()

		removed, err := tokens.DeleteExpired(ctx)
		if err != nil {
			return err
		}
		if removed > 0 {
			log.Info("expired tokens removed", zap.Int64("count", removed))
		}
		return nil
	}
}

func sweepStaleRequests(requests staleRequestStore, orgs orgRequestPruner, users userRequestPruner, log *zap.Logger) func() error {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()

		cutoff := time.Now().UTC().Add(-staleRequestAge)
		removed, err := requests.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return err
		}
		if len(removed) == 0 {
			return nil
		}

		// Prune the dangling references the deleted requests leave behind
		for _, req := range removed {
			if err := orgs.PullMembershipRequest(ctx, req.OrganizationID, req.ID); err != nil {
				return err
			}
			if err := users.PullMembershipRequest(ctx, req.UserID, req.ID); err != nil {
				return err
			}
		}
		metrics.CascadeDeleted("membership_requests", int64(len(removed)))
		log.Info("stale membership requests removed", zap.Int("count", len(removed)))
		return nil
	}
}
