package graphql

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/apimgr/community/src/models"
)

// In-memory stores backing resolver tests. Behavior mirrors the Mongo
// models: missing documents surface mongo.ErrNoDocuments, reference
// pulls are idempotent.

func removeID(ids []primitive.ObjectID, target primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

func appendUnique(ids []primitive.ObjectID, target primitive.ObjectID) []primitive.ObjectID {
	for _, id := range ids {
		if id == target {
			return ids
		}
	}
	return append(ids, target)
}

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (s *fakeUserStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *fakeUserStore) PushMembershipRequest(_ context.Context, userID, requestID primitive.ObjectID) error {
	u, ok := s.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.MembershipRequests = appendUnique(u.MembershipRequests, requestID)
	return nil
}

func (s *fakeUserStore) PullMembershipRequest(_ context.Context, userID, requestID primitive.ObjectID) error {
	u, ok := s.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.MembershipRequests = removeID(u.MembershipRequests, requestID)
	return nil
}

func (s *fakeUserStore) PullMembershipRequests(_ context.Context, requestIDs []primitive.ObjectID) (int64, error) {
	var modified int64
	for _, u := range s.users {
		before := len(u.MembershipRequests)
		for _, reqID := range requestIDs {
			u.MembershipRequests = removeID(u.MembershipRequests, reqID)
		}
		if len(u.MembershipRequests) != before {
			modified++
		}
	}
	return modified, nil
}

func (s *fakeUserStore) AddJoinedOrganization(_ context.Context, userID, orgID primitive.ObjectID) error {
	u, ok := s.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.JoinedOrganizations = appendUnique(u.JoinedOrganizations, orgID)
	return nil
}

func (s *fakeUserStore) RemoveJoinedOrganization(_ context.Context, userID, orgID primitive.ObjectID) error {
	u, ok := s.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.JoinedOrganizations = removeID(u.JoinedOrganizations, orgID)
	return nil
}

func (s *fakeUserStore) RecordCreatedOrganization(_ context.Context, userID, orgID primitive.ObjectID) error {
	u, ok := s.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.CreatedOrganizations = appendUnique(u.CreatedOrganizations, orgID)
	u.AdminFor = appendUnique(u.AdminFor, orgID)
	u.JoinedOrganizations = appendUnique(u.JoinedOrganizations, orgID)
	return nil
}

func (s *fakeUserStore) PullOrganizationRefs(_ context.Context, orgID primitive.ObjectID) (int64, error) {
	var modified int64
	for _, u := range s.users {
		before := len(u.JoinedOrganizations) + len(u.CreatedOrganizations) + len(u.AdminFor)
		u.JoinedOrganizations = removeID(u.JoinedOrganizations, orgID)
		u.CreatedOrganizations = removeID(u.CreatedOrganizations, orgID)
		u.AdminFor = removeID(u.AdminFor, orgID)
		if len(u.JoinedOrganizations)+len(u.CreatedOrganizations)+len(u.AdminFor) != before {
			modified++
		}
	}
	return modified, nil
}

func (s *fakeUserStore) AddCreatedEvent(_ context.Context, userID, eventID primitive.ObjectID) error {
	u, ok := s.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.CreatedEvents = appendUnique(u.CreatedEvents, eventID)
	u.RegisteredEvents = appendUnique(u.RegisteredEvents, eventID)
	return nil
}

func (s *fakeUserStore) AddRegisteredEvent(_ context.Context, userID, eventID primitive.ObjectID) error {
	u, ok := s.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.RegisteredEvents = appendUnique(u.RegisteredEvents, eventID)
	return nil
}

func (s *fakeUserStore) RemoveRegisteredEvent(_ context.Context, userID, eventID primitive.ObjectID) error {
	u, ok := s.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.RegisteredEvents = removeID(u.RegisteredEvents, eventID)
	return nil
}

func (s *fakeUserStore) PullEventRefs(_ context.Context, eventID primitive.ObjectID) (int64, error) {
	return s.PullEventRefsMany(context.Background(), []primitive.ObjectID{eventID})
}

func (s *fakeUserStore) PullEventRefsMany(_ context.Context, eventIDs []primitive.ObjectID) (int64, error) {
	var modified int64
	for _, u := range s.users {
		before := len(u.CreatedEvents) + len(u.RegisteredEvents)
		for _, id := range eventIDs {
			u.CreatedEvents = removeID(u.CreatedEvents, id)
			u.RegisteredEvents = removeID(u.RegisteredEvents, id)
		}
		if len(u.CreatedEvents)+len(u.RegisteredEvents) != before {
			modified++
		}
	}
	return modified, nil
}

type fakeOrgStore struct {
	orgs map[primitive.ObjectID]*models.Organization
}

func newFakeOrgStore() *fakeOrgStore {
	return &fakeOrgStore{orgs: make(map[primitive.ObjectID]*models.Organization)}
}

func (s *fakeOrgStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Organization, error) {
	o, ok := s.orgs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *o
	return &cp, nil
}

func (s *fakeOrgStore) List(_ context.Context) ([]*models.Organization, error) {
	out := make([]*models.Organization, 0, len(s.orgs))
	for _, o := range s.orgs {
		if o.VisibleInSearch {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeOrgStore) Create(_ context.Context, org *models.Organization) error {
	if org.ID.IsZero() {
		org.ID = primitive.NewObjectID()
	}
	org.Members = appendUnique(org.Members, org.CreatorID)
	org.Admins = appendUnique(org.Admins, org.CreatorID)
	if org.CreatedAt.IsZero() {
		org.CreatedAt = time.Now().UTC()
	}
	cp := *org
	s.orgs[org.ID] = &cp
	return nil
}

func (s *fakeOrgStore) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := s.orgs[id]; !ok {
		return 0, nil
	}
	delete(s.orgs, id)
	return 1, nil
}

func (s *fakeOrgStore) AddMember(_ context.Context, orgID, userID primitive.ObjectID) error {
	o, ok := s.orgs[orgID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	o.Members = appendUnique(o.Members, userID)
	return nil
}

func (s *fakeOrgStore) RemoveMember(_ context.Context, orgID, userID primitive.ObjectID) error {
	o, ok := s.orgs[orgID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	o.Members = removeID(o.Members, userID)
	return nil
}

func (s *fakeOrgStore) PushMembershipRequest(_ context.Context, orgID, requestID primitive.ObjectID) error {
	o, ok := s.orgs[orgID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	o.MembershipRequests = appendUnique(o.MembershipRequests, requestID)
	return nil
}

func (s *fakeOrgStore) PullMembershipRequest(_ context.Context, orgID, requestID primitive.ObjectID) error {
	o, ok := s.orgs[orgID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	o.MembershipRequests = removeID(o.MembershipRequests, requestID)
	return nil
}

func (s *fakeOrgStore) BlockUser(_ context.Context, orgID, userID primitive.ObjectID) error {
	o, ok := s.orgs[orgID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	o.BlockedUsers = appendUnique(o.BlockedUsers, userID)
	o.Members = removeID(o.Members, userID)
	return nil
}

func (s *fakeOrgStore) UnblockUser(_ context.Context, orgID, userID primitive.ObjectID) error {
	o, ok := s.orgs[orgID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	o.BlockedUsers = removeID(o.BlockedUsers, userID)
	return nil
}

type fakeRequestStore struct {
	requests map[primitive.ObjectID]*models.MembershipRequest
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: make(map[primitive.ObjectID]*models.MembershipRequest)}
}

func (s *fakeRequestStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.MembershipRequest, error) {
	r, ok := s.requests[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *r
	return &cp, nil
}

func (s *fakeRequestStore) GetByUserAndOrganization(_ context.Context, userID, orgID primitive.ObjectID) (*models.MembershipRequest, error) {
	for _, r := range s.requests {
		if r.UserID == userID && r.OrganizationID == orgID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeRequestStore) ListByOrganization(_ context.Context, orgID primitive.ObjectID) ([]*models.MembershipRequest, error) {
	var out []*models.MembershipRequest
	for _, r := range s.requests {
		if r.OrganizationID == orgID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeRequestStore) Create(_ context.Context, req *models.MembershipRequest) error {
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	cp := *req
	s.requests[req.ID] = &cp
	return nil
}

func (s *fakeRequestStore) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := s.requests[id]; !ok {
		return 0, nil
	}
	delete(s.requests, id)
	return 1, nil
}

func (s *fakeRequestStore) DeleteByOrganization(_ context.Context, orgID primitive.ObjectID) (int64, error) {
	var n int64
	for id, r := range s.requests {
		if r.OrganizationID == orgID {
			delete(s.requests, id)
			n++
		}
	}
	return n, nil
}

type fakeEventStore struct {
	events map[primitive.ObjectID]*models.Event
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[primitive.ObjectID]*models.Event)}
}

func (s *fakeEventStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Event, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *e
	return &cp, nil
}

func (s *fakeEventStore) ListByOrganization(_ context.Context, orgID primitive.ObjectID) ([]*models.Event, error) {
	var out []*models.Event
	for _, e := range s.events {
		if e.OrganizationID == orgID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (s *fakeEventStore) Create(_ context.Context, event *models.Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	event.Registrants = appendUnique(event.Registrants, event.CreatorID)
	cp := *event
	s.events[event.ID] = &cp
	return nil
}

func (s *fakeEventStore) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := s.events[id]; !ok {
		return 0, nil
	}
	delete(s.events, id)
	return 1, nil
}

func (s *fakeEventStore) DeleteByOrganization(_ context.Context, orgID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for id, e := range s.events {
		if e.OrganizationID == orgID {
			ids = append(ids, id)
			delete(s.events, id)
		}
	}
	return ids, nil
}

func (s *fakeEventStore) AddRegistrant(_ context.Context, eventID, userID primitive.ObjectID) error {
	e, ok := s.events[eventID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	e.Registrants = appendUnique(e.Registrants, userID)
	return nil
}

func (s *fakeEventStore) RemoveRegistrant(_ context.Context, eventID, userID primitive.ObjectID) error {
	e, ok := s.events[eventID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	e.Registrants = removeID(e.Registrants, userID)
	return nil
}

type fakeDirectChatStore struct {
	chats    map[primitive.ObjectID]*models.DirectChat
	messages map[primitive.ObjectID]*models.DirectChatMessage
}

func newFakeDirectChatStore() *fakeDirectChatStore {
	return &fakeDirectChatStore{
		chats:    make(map[primitive.ObjectID]*models.DirectChat),
		messages: make(map[primitive.ObjectID]*models.DirectChatMessage),
	}
}

func (s *fakeDirectChatStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.DirectChat, error) {
	c, ok := s.chats[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *c
	return &cp, nil
}

func (s *fakeDirectChatStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]*models.DirectChat, error) {
	var out []*models.DirectChat
	for _, c := range s.chats {
		if c.HasParticipant(userID) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeDirectChatStore) Create(_ context.Context, chat *models.DirectChat) error {
	if chat.ID.IsZero() {
		chat.ID = primitive.NewObjectID()
	}
	cp := *chat
	s.chats[chat.ID] = &cp
	return nil
}

func (s *fakeDirectChatStore) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := s.chats[id]; !ok {
		return 0, nil
	}
	delete(s.chats, id)
	return 1, nil
}

func (s *fakeDirectChatStore) DeleteByOrganization(_ context.Context, orgID primitive.ObjectID) (int64, int64, error) {
	var chats, msgs int64
	for id, c := range s.chats {
		if c.OrganizationID != orgID {
			continue
		}
		for mid, m := range s.messages {
			if m.ChatID == id {
				delete(s.messages, mid)
				msgs++
			}
		}
		delete(s.chats, id)
		chats++
	}
	return chats, msgs, nil
}

func (s *fakeDirectChatStore) CreateMessage(_ context.Context, msg *models.DirectChatMessage) error {
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	cp := *msg
	s.messages[msg.ID] = &cp
	return nil
}

func (s *fakeDirectChatStore) ListMessages(_ context.Context, chatID primitive.ObjectID) ([]*models.DirectChatMessage, error) {
	var out []*models.DirectChatMessage
	for _, m := range s.messages {
		if m.ChatID == chatID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}

func (s *fakeDirectChatStore) DeleteMessagesByChat(_ context.Context, chatID primitive.ObjectID) (int64, error) {
	var n int64
	for id, m := range s.messages {
		if m.ChatID == chatID {
			delete(s.messages, id)
			n++
		}
	}
	return n, nil
}

type fakeGroupChatStore struct {
	chats    map[primitive.ObjectID]*models.GroupChat
	messages map[primitive.ObjectID]*models.GroupChatMessage
}

func newFakeGroupChatStore() *fakeGroupChatStore {
	return &fakeGroupChatStore{
		chats:    make(map[primitive.ObjectID]*models.GroupChat),
		messages: make(map[primitive.ObjectID]*models.GroupChatMessage),
	}
}

func (s *fakeGroupChatStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.GroupChat, error) {
	c, ok := s.chats[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *c
	return &cp, nil
}

func (s *fakeGroupChatStore) ListByOrganization(_ context.Context, orgID primitive.ObjectID) ([]*models.GroupChat, error) {
	var out []*models.GroupChat
	for _, c := range s.chats {
		if c.OrganizationID == orgID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeGroupChatStore) Create(_ context.Context, chat *models.GroupChat) error {
	if chat.ID.IsZero() {
		chat.ID = primitive.NewObjectID()
	}
	cp := *chat
	s.chats[chat.ID] = &cp
	return nil
}

func (s *fakeGroupChatStore) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := s.chats[id]; !ok {
		return 0, nil
	}
	delete(s.chats, id)
	return 1, nil
}

func (s *fakeGroupChatStore) DeleteByOrganization(_ context.Context, orgID primitive.ObjectID) (int64, int64, error) {
	var chats, msgs int64
	for id, c := range s.chats {
		if c.OrganizationID != orgID {
			continue
		}
		for mid, m := range s.messages {
			if m.ChatID == id {
				delete(s.messages, mid)
				msgs++
			}
		}
		delete(s.chats, id)
		chats++
	}
	return chats, msgs, nil
}

func (s *fakeGroupChatStore) CreateMessage(_ context.Context, msg *models.GroupChatMessage) error {
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	cp := *msg
	s.messages[msg.ID] = &cp
	return nil
}

func (s *fakeGroupChatStore) ListMessages(_ context.Context, chatID primitive.ObjectID) ([]*models.GroupChatMessage, error) {
	var out []*models.GroupChatMessage
	for _, m := range s.messages {
		if m.ChatID == chatID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}

func (s *fakeGroupChatStore) DeleteMessagesByChat(_ context.Context, chatID primitive.ObjectID) (int64, error) {
	var n int64
	for id, m := range s.messages {
		if m.ChatID == chatID {
			delete(s.messages, id)
			n++
		}
	}
	return n, nil
}

type fakeTokenStore struct {
	tokens map[string]*models.Token
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*models.Token)}
}

func (s *fakeTokenStore) Create(_ context.Context, token string, userID primitive.ObjectID) (*models.Token, error) {
	t := &models.Token{
		ID:        primitive.NewObjectID(),
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(models.TokenLifetime),
	}
	s.tokens[token] = t
	return t, nil
}

type fakePublisher struct {
	targets [][]string
	events  []string
}

func (p *fakePublisher) PublishToUsers(userIDs []string, event string, _ interface{}) {
	p.targets = append(p.targets, userIDs)
	p.events = append(p.events, event)
}

// testEnv bundles a resolver with its fakes and seed helpers.
type testEnv struct {
	resolver *Resolver
	users    *fakeUserStore
	orgs     *fakeOrgStore
	requests *fakeRequestStore
	events   *fakeEventStore
	direct   *fakeDirectChatStore
	group    *fakeGroupChatStore
	tokens   *fakeTokenStore
	hub      *fakePublisher
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:    newFakeUserStore(),
		orgs:     newFakeOrgStore(),
		requests: newFakeRequestStore(),
		events:   newFakeEventStore(),
		direct:   newFakeDirectChatStore(),
		group:    newFakeGroupChatStore(),
		tokens:   newFakeTokenStore(),
		hub:      &fakePublisher{},
	}
	env.resolver = &Resolver{
		Users:       env.users,
		Orgs:        env.orgs,
		Requests:    env.requests,
		Events:      env.events,
		DirectChats: env.direct,
		GroupChats:  env.group,
		Tokens:      env.tokens,
		Hub:         env.hub,
	}
	return env
}

func (env *testEnv) seedUser(role string) *models.User {
	user := &models.User{
		ID:       primitive.NewObjectID(),
		Username: "user-" + primitive.NewObjectID().Hex()[:8],
		Email:    primitive.NewObjectID().Hex() + "@example.com",
		Role:     role,
	}
	env.users.users[user.ID] = user
	return user
}

// seedOrganization creates an organization whose creator is also its
// first member and admin, mirroring what CreateOrganization persists.
func (env *testEnv) seedOrganization(creator *models.User) *models.Organization {
	org := &models.Organization{
		ID:              primitive.NewObjectID(),
		Name:            "org-" + primitive.NewObjectID().Hex()[:8],
		IsPublic:        true,
		VisibleInSearch: true,
		CreatorID:       creator.ID,
		Members:         []primitive.ObjectID{creator.ID},
		Admins:          []primitive.ObjectID{creator.ID},
		CreatedAt:       time.Now().UTC(),
	}
	env.orgs.orgs[org.ID] = org
	creator.CreatedOrganizations = appendUnique(creator.CreatedOrganizations, org.ID)
	creator.AdminFor = appendUnique(creator.AdminFor, org.ID)
	creator.JoinedOrganizations = appendUnique(creator.JoinedOrganizations, org.ID)
	return org
}

func (env *testEnv) seedMember(org *models.Organization) *models.User {
	user := env.seedUser(models.RoleUser)
	org.Members = appendUnique(org.Members, user.ID)
	user.JoinedOrganizations = appendUnique(user.JoinedOrganizations, org.ID)
	return user
}

func (env *testEnv) seedMembershipRequest(user *models.User, org *models.Organization) *models.MembershipRequest {
	req := &models.MembershipRequest{
		ID:             primitive.NewObjectID(),
		UserID:         user.ID,
		OrganizationID: org.ID,
		CreatedAt:      time.Now().UTC(),
	}
	env.requests.requests[req.ID] = req
	org.MembershipRequests = appendUnique(org.MembershipRequests, req.ID)
	user.MembershipRequests = appendUnique(user.MembershipRequests, req.ID)
	return req
}

func (env *testEnv) ctxFor(user *models.User) context.Context {
	return WithUserID(context.Background(), user.ID)
}
