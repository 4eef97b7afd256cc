package graphql

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/apimgr/community/src/models"
)

// Store interfaces narrow the model types to what the resolvers use.
// Tests substitute in-memory fakes.

type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	PushMembershipRequest(ctx context.Context, userID, requestID primitive.ObjectID) error
	PullMembershipRequest(ctx context.Context, userID, requestID primitive.ObjectID) error
	PullMembershipRequests(ctx context.Context, requestIDs []primitive.ObjectID) (int64, error)
	AddJoinedOrganization(ctx context.Context, userID, orgID primitive.ObjectID) error
	RemoveJoinedOrganization(ctx context.Context, userID, orgID primitive.ObjectID) error
	RecordCreatedOrganization(ctx context.Context, userID, orgID primitive.ObjectID) error
	PullOrganizationRefs(ctx context.Context, orgID primitive.ObjectID) (int64, error)
	AddCreatedEvent(ctx context.Context, userID, eventID primitive.ObjectID) error
	AddRegisteredEvent(ctx context.Context, userID, eventID primitive.ObjectID) error
	RemoveRegisteredEvent(ctx context.Context, userID, eventID primitive.ObjectID) error
	PullEventRefs(ctx context.Context, eventID primitive.ObjectID) (int64, error)
	PullEventRefsMany(ctx context.Context, eventIDs []primitive.ObjectID) (int64, error)
}

type OrganizationStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Organization, error)
	List(ctx context.Context) ([]*models.Organization, error)
	Create(ctx context.Context, org *models.Organization) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	AddMember(ctx context.Context, orgID, userID primitive.ObjectID) error
	RemoveMember(ctx context.Context, orgID, userID primitive.ObjectID) error
	PushMembershipRequest(ctx context.Context, orgID, requestID primitive.ObjectID) error
	PullMembershipRequest(ctx context.Context, orgID, requestID primitive.ObjectID) error
	BlockUser(ctx context.Context, orgID, userID primitive.ObjectID) error
	UnblockUser(ctx context.Context, orgID, userID primitive.ObjectID) error
}

type MembershipRequestStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.MembershipRequest, error)
	GetByUserAndOrganization(ctx context.Context, userID, orgID primitive.ObjectID) (*models.MembershipRequest, error)
	ListByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]*models.MembershipRequest, error)
	Create(ctx context.Context, req *models.MembershipRequest) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	DeleteByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error)
}

type EventStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	ListByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	DeleteByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]primitive.ObjectID, error)
	AddRegistrant(ctx context.Context, eventID, userID primitive.ObjectID) error
	RemoveRegistrant(ctx context.Context, eventID, userID primitive.ObjectID) error
}

type DirectChatStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.DirectChat, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.DirectChat, error)
	Create(ctx context.Context, chat *models.DirectChat) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	DeleteByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, int64, error)
	CreateMessage(ctx context.Context, msg *models.DirectChatMessage) error
	ListMessages(ctx context.Context, chatID primitive.ObjectID) ([]*models.DirectChatMessage, error)
	DeleteMessagesByChat(ctx context.Context, chatID primitive.ObjectID) (int64, error)
}

type GroupChatStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.GroupChat, error)
	ListByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]*models.GroupChat, error)
	Create(ctx context.Context, chat *models.GroupChat) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	DeleteByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, int64, error)
	CreateMessage(ctx context.Context, msg *models.GroupChatMessage) error
	ListMessages(ctx context.Context, chatID primitive.ObjectID) ([]*models.GroupChatMessage, error)
	DeleteMessagesByChat(ctx context.Context, chatID primitive.ObjectID) (int64, error)
}

type TokenStore interface {
	Create(ctx context.Context, token string, userID primitive.ObjectID) (*models.Token, error)
}

// ChatPublisher pushes chat events to connected websocket clients.
type ChatPublisher interface {
	PublishToUsers(userIDs []string, event string, payload interface{})
}

// TxnRunner executes fn inside a transaction when the deployment supports
// one, falling back to direct execution otherwise.
type TxnRunner func(ctx context.Context, fn func(ctx context.Context) error) error

const orgCacheTTL = 30 * time.Second

// Resolver implements every query and mutation in the schema.
type Resolver struct {
	Users       UserStore
	Orgs        OrganizationStore
	Requests    MembershipRequestStore
	Events      EventStore
	DirectChats DirectChatStore
	GroupChats  GroupChatStore
	Tokens      TokenStore

	Hub ChatPublisher
	Txn TxnRunner
	Log *zap.Logger

	// orgCache keeps recently resolved organizations for read queries.
	// Mutations always hit the database and invalidate on change.
	orgCache *gocache.Cache
}

// NewResolver wires the resolver against live Mongo-backed models.
func NewResolver(db *mongo.Database, txn TxnRunner, hub ChatPublisher, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		Users:       &models.UserModel{DB: db},
		Orgs:        &models.OrganizationModel{DB: db},
		Requests:    &models.MembershipRequestModel{DB: db},
		Events:      &models.EventModel{DB: db},
		DirectChats: &models.DirectChatModel{DB: db},
		GroupChats:  &models.GroupChatModel{DB: db},
		Tokens:      &models.TokenModel{DB: db},
		Hub:         hub,
		Txn:         txn,
		Log:         log,
		orgCache:    gocache.New(orgCacheTTL, 2*orgCacheTTL),
	}
}

func (r *Resolver) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// withTxn runs fn through the configured transaction runner, or directly
// when none is set (tests, standalone deployments).
func (r *Resolver) withTxn(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.Txn == nil {
		return fn(ctx)
	}
	return r.Txn(ctx, fn)
}

// currentUser resolves the acting user from the request context. Every
// authenticated operation re-reads the user document so role and
// membership checks see current state.
func (r *Resolver) currentUser(ctx context.Context) (*models.User, error) {
	id, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	user, err := r.Users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (r *Resolver) organizationByID(ctx context.Context, id primitive.ObjectID) (*models.Organization, error) {
	org, err := r.Orgs.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrOrganizationNotFound)
	}
	return org, nil
}

// cachedOrganization serves read queries from the short-lived cache.
func (r *Resolver) cachedOrganization(ctx context.Context, id primitive.ObjectID) (*models.Organization, error) {
	if r.orgCache != nil {
		if v, ok := r.orgCache.Get(id.Hex()); ok {
			return v.(*models.Organization), nil
		}
	}
	org, err := r.organizationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.orgCache != nil {
		r.orgCache.Set(id.Hex(), org, gocache.DefaultExpiration)
	}
	return org, nil
}

func (r *Resolver) invalidateOrganization(id primitive.ObjectID) {
	if r.orgCache != nil {
		r.orgCache.Delete(id.Hex())
	}
}

// requireOrgAdmin resolves the organization and verifies the acting user
// administers it. Platform admins pass regardless of membership.
func (r *Resolver) requireOrgAdmin(ctx context.Context, actor *models.User, orgID primitive.ObjectID) (*models.Organization, error) {
	org, err := r.organizationByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !actor.IsSuperAdmin() && !org.IsAdmin(actor.ID) {
		return nil, ErrNotAuthorized
	}
	return org, nil
}

func parseObjectID(raw interface{}) (primitive.ObjectID, error) {
	s, ok := raw.(string)
	if !ok {
		return primitive.NilObjectID, ErrInvalidID
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}
