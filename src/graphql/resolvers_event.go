package graphql

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/apimgr/community/src/metrics"
	"github.com/apimgr/community/src/models"
)

// CreateEventInput carries the fields of the createEvent mutation.
type CreateEventInput struct {
	OrganizationID primitive.ObjectID
	Title          string
	Description    string
	Location       string
	StartAt        time.Time
	EndAt          time.Time
	AllDay         bool
}

// CreateEvent creates an event under an organization the acting user
// belongs to. The creator is registered automatically.
func (r *Resolver) CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	org, err := r.organizationByID(ctx, input.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !actor.IsSuperAdmin() && !org.IsMember(actor.ID) {
		return nil, ErrNotMember
	}

	event := &models.Event{
		Title:          input.Title,
		Description:    input.Description,
		OrganizationID: org.ID,
		CreatorID:      actor.ID,
		Location:       input.Location,
		StartAt:        input.StartAt,
		EndAt:          input.EndAt,
		AllDay:         input.AllDay,
	}
	err = r.withTxn(ctx, func(ctx context.Context) error {
		if err := r.Events.Create(ctx, event); err != nil {
			return err
		}
		return r.Users.AddCreatedEvent(ctx, actor.ID, event.ID)
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// RemoveEvent deletes an event and prunes it from the created and
// registered lists of every user. Allowed for the event creator, an
// admin of the owning organization, or a platform admin. Returns the
// event as it stood before deletion.
func (r *Resolver) RemoveEvent(ctx context.Context, eventID primitive.ObjectID) (*models.Event, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	event, err := r.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, notFound(err, ErrEventNotFound)
	}
	org, err := r.organizationByID(ctx, event.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !actor.IsSuperAdmin() && !org.IsAdmin(actor.ID) && !event.IsCreator(actor.ID) {
		return nil, ErrNotAuthorized
	}

	err = r.withTxn(ctx, func(ctx context.Context) error {
		if _, err := r.Events.Delete(ctx, event.ID); err != nil {
			return err
		}
		_, err := r.Users.PullEventRefs(ctx, event.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.CascadeDeleted("events", 1)
	r.logger().Info("event removed",
		zap.String("event", event.ID.Hex()),
		zap.String("organization", org.ID.Hex()),
		zap.String("actor", actor.ID.Hex()))
	return event, nil
}

// RegisterForEvent adds the acting user to an event's registrant list.
func (r *Resolver) RegisterForEvent(ctx context.Context, eventID primitive.ObjectID) (*models.Event, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	event, err := r.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, notFound(err, ErrEventNotFound)
	}
	org, err := r.organizationByID(ctx, event.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !org.IsMember(actor.ID) {
		return nil, ErrNotMember
	}
	if event.HasRegistrant(actor.ID) {
		return event, nil
	}
	err = r.withTxn(ctx, func(ctx context.Context) error {
		if err := r.Events.AddRegistrant(ctx, event.ID, actor.ID); err != nil {
			return err
		}
		return r.Users.AddRegisteredEvent(ctx, actor.ID, event.ID)
	})
	if err != nil {
		return nil, err
	}
	event, err = r.Events.GetByID(ctx, event.ID)
	if err != nil {
		return nil, notFound(err, ErrEventNotFound)
	}
	return event, nil
}

// UnregisterForEvent removes the acting user from an event's registrant
// list. The creator stays registered.
func (r *Resolver) UnregisterForEvent(ctx context.Context, eventID primitive.ObjectID) (*models.Event, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	event, err := r.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, notFound(err, ErrEventNotFound)
	}
	if event.IsCreator(actor.ID) {
		return nil, ErrNotAuthorized
	}
	if !event.HasRegistrant(actor.ID) {
		return event, nil
	}
	err = r.withTxn(ctx, func(ctx context.Context) error {
		if err := r.Events.RemoveRegistrant(ctx, event.ID, actor.ID); err != nil {
			return err
		}
		return r.Users.RemoveRegisteredEvent(ctx, actor.ID, event.ID)
	})
	if err != nil {
		return nil, err
	}
	event, err = r.Events.GetByID(ctx, event.ID)
	if err != nil {
		return nil, notFound(err, ErrEventNotFound)
	}
	return event, nil
}
