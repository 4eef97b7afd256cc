package graphql

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/apimgr/community/src/metrics"
)

// BuildSchema assembles the full query and mutation schema against the
// resolver.
func BuildSchema(r *Resolver) (graphql.Schema, error) {
	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type:        userType,
				Description: "The authenticated user's own account",
				Resolve: op("me", func(p graphql.ResolveParams) (interface{}, error) {
					user, err := r.Me(p.Context)
					if err != nil {
						return nil, err
					}
					return userToMap(user), nil
				}),
			},
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("user", func(p graphql.ResolveParams) (interface{}, error) {
					id, err := parseObjectID(p.Args["id"])
					if err != nil {
						return nil, err
					}
					user, err := r.UserByID(p.Context, id)
					if err != nil {
						return nil, err
					}
					return userToMap(user), nil
				}),
			},
			"organization": &graphql.Field{
				Type: organizationType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("organization", func(p graphql.ResolveParams) (interface{}, error) {
					id, err := parseObjectID(p.Args["id"])
					if err != nil {
						return nil, err
					}
					org, err := r.OrganizationByID(p.Context, id)
					if err != nil {
						return nil, err
					}
					return organizationToMap(org), nil
				}),
			},
			"organizations": &graphql.Field{
				Type:        graphql.NewList(organizationType),
				Description: "Organizations visible in search, newest first",
				Resolve: op("organizations", func(p graphql.ResolveParams) (interface{}, error) {
					orgs, err := r.Organizations(p.Context)
					if err != nil {
						return nil, err
					}
					out := make([]interface{}, 0, len(orgs))
					for _, o := range orgs {
						out = append(out, organizationToMap(o))
					}
					return out, nil
				}),
			},
			"eventsByOrganization": &graphql.Field{
				Type: graphql.NewList(eventType),
				Args: graphql.FieldConfigArgument{
					"organizationId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("eventsByOrganization", func(p graphql.ResolveParams) (interface{}, error) {
					orgID, err := parseObjectID(p.Args["organizationId"])
					if err != nil {
						return nil, err
					}
					events, err := r.EventsByOrganization(p.Context, orgID)
					if err != nil {
						return nil, err
					}
					out := make([]interface{}, 0, len(events))
					for _, e := range events {
						out = append(out, eventToMap(e))
					}
					return out, nil
				}),
			},
			"membershipRequestsByOrganization": &graphql.Field{
				Type: graphql.NewList(membershipRequestType),
				Args: graphql.FieldConfigArgument{
					"organizationId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("membershipRequestsByOrganization", func(p graphql.ResolveParams) (interface{}, error) {
					orgID, err := parseObjectID(p.Args["organizationId"])
					if err != nil {
						return nil, err
					}
					reqs, err := r.MembershipRequestsByOrganization(p.Context, orgID)
					if err != nil {
						return nil, err
					}
					out := make([]interface{}, 0, len(reqs))
					for _, req := range reqs {
						out = append(out, membershipRequestToMap(req))
					}
					return out, nil
				}),
			},
			"directChatsByUser": &graphql.Field{
				Type: graphql.NewList(directChatType),
				Resolve: op("directChatsByUser", func(p graphql.ResolveParams) (interface{}, error) {
					chats, err := r.DirectChatsByUser(p.Context)
					if err != nil {
						return nil, err
					}
					out := make([]interface{}, 0, len(chats))
					for _, c := range chats {
						out = append(out, directChatToMap(c))
					}
					return out, nil
				}),
			},
			"directChatMessages": &graphql.Field{
				Type: graphql.NewList(directChatMessageType),
				Args: graphql.FieldConfigArgument{
					"chatId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("directChatMessages", func(p graphql.ResolveParams) (interface{}, error) {
					chatID, err := parseObjectID(p.Args["chatId"])
					if err != nil {
						return nil, err
					}
					msgs, err := r.DirectChatMessages(p.Context, chatID)
					if err != nil {
						return nil, err
					}
					out := make([]interface{}, 0, len(msgs))
					for _, m := range msgs {
						out = append(out, directChatMessageToMap(m))
					}
					return out, nil
				}),
			},
			"groupChatsByOrganization": &graphql.Field{
				Type: graphql.NewList(groupChatType),
				Args: graphql.FieldConfigArgument{
					"organizationId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("groupChatsByOrganization", func(p graphql.ResolveParams) (interface{}, error) {
					orgID, err := parseObjectID(p.Args["organizationId"])
					if err != nil {
						return nil, err
					}
					chats, err := r.GroupChatsByOrganization(p.Context, orgID)
					if err != nil {
						return nil, err
					}
					out := make([]interface{}, 0, len(chats))
					for _, c := range chats {
						out = append(out, groupChatToMap(c))
					}
					return out, nil
				}),
			},
			"groupChatMessages": &graphql.Field{
				Type: graphql.NewList(groupChatMessageType),
				Args: graphql.FieldConfigArgument{
					"chatId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("groupChatMessages", func(p graphql.ResolveParams) (interface{}, error) {
					chatID, err := parseObjectID(p.Args["chatId"])
					if err != nil {
						return nil, err
					}
					msgs, err := r.GroupChatMessages(p.Context, chatID)
					if err != nil {
						return nil, err
					}
					out := make([]interface{}, 0, len(msgs))
					for _, m := range msgs {
						out = append(out, groupChatMessageToMap(m))
					}
					return out, nil
				}),
			},
		},
	})

	rootMutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"signUp": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: op("signUp", func(p graphql.ResolveParams) (interface{}, error) {
					payload, err := r.SignUp(p.Context,
						stringArg(p, "username"), stringArg(p, "email"), stringArg(p, "password"))
					if err != nil {
						metrics.RecordAuthAttempt("signup", "failure")
						return nil, err
					}
					metrics.RecordAuthAttempt("signup", "success")
					return authPayloadToMap(payload), nil
				}),
			},
			"login": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: op("login", func(p graphql.ResolveParams) (interface{}, error) {
					payload, err := r.Login(p.Context, stringArg(p, "email"), stringArg(p, "password"))
					if err != nil {
						metrics.RecordAuthAttempt("login", "failure")
						return nil, err
					}
					metrics.RecordAuthAttempt("login", "success")
					return authPayloadToMap(payload), nil
				}),
			},
			"createOrganization": &graphql.Field{
				Type: organizationType,
				Args: graphql.FieldConfigArgument{
					"name":            &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"description":     &graphql.ArgumentConfig{Type: graphql.String},
					"isPublic":        &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: true},
					"visibleInSearch": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: true},
				},
				Resolve: op("createOrganization", func(p graphql.ResolveParams) (interface{}, error) {
					org, err := r.CreateOrganization(p.Context, CreateOrganizationInput{
						Name:            stringArg(p, "name"),
						Description:     stringArg(p, "description"),
						IsPublic:        boolArg(p, "isPublic"),
						VisibleInSearch: boolArg(p, "visibleInSearch"),
					})
					if err != nil {
						return nil, err
					}
					return organizationToMap(org), nil
				}),
			},
			"removeOrganization": &graphql.Field{
				Type: organizationType,
				Args: graphql.FieldConfigArgument{
					"organizationId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("removeOrganization", func(p graphql.ResolveParams) (interface{}, error) {
					orgID, err := parseObjectID(p.Args["organizationId"])
					if err != nil {
						return nil, err
					}
					org, err := r.RemoveOrganization(p.Context, orgID)
					if err != nil {
						return nil, err
					}
					return organizationToMap(org), nil
				}),
			},
			"joinOrganization": &graphql.Field{
				Type: organizationType,
				Args: graphql.FieldConfigArgument{
					"organizationId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("joinOrganization", func(p graphql.ResolveParams) (interface{}, error) {
					orgID, err := parseObjectID(p.Args["organizationId"])
					if err != nil {
						return nil, err
					}
					org, err := r.JoinOrganization(p.Context, orgID)
					if err != nil {
						return nil, err
					}
					return organizationToMap(org), nil
				}),
			},
			"leaveOrganization": &graphql.Field{
				Type: organizationType,
				Args: graphql.FieldConfigArgument{
					"organizationId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("leaveOrganization", func(p graphql.ResolveParams) (interface{}, error) {
					orgID, err := parseObjectID(p.Args["organizationId"])
					if err != nil {
						return nil, err
					}
					org, err := r.LeaveOrganization(p.Context, orgID)
					if err != nil {
						return nil, err
					}
					return organizationToMap(org), nil
				}),
			},
			"sendMembershipRequest": &graphql.Field{
				Type: membershipRequestType,
				Args: graphql.FieldConfigArgument{
					"organizationId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("sendMembershipRequest", func(p graphql.ResolveParams) (interface{}, error) {
					orgID, err := parseObjectID(p.Args["organizationId"])
					if err != nil {
						return nil, err
					}
					req, err := r.SendMembershipRequest(p.Context, orgID)
					if err != nil {
						return nil, err
					}
					return membershipRequestToMap(req), nil
				}),
			},
			"acceptMembershipRequest": &graphql.Field{
				Type: membershipRequestType,
				Args: graphql.FieldConfigArgument{
					"membershipRequestId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("acceptMembershipRequest", func(p graphql.ResolveParams) (interface{}, error) {
					reqID, err := parseObjectID(p.Args["membershipRequestId"])
					if err != nil {
						return nil, err
					}
					req, err := r.AcceptMembershipRequest(p.Context, reqID)
					if err != nil {
						return nil, err
					}
					return membershipRequestToMap(req), nil
				}),
			},
			"rejectMembershipRequest": &graphql.Field{
				Type:        membershipRequestType,
				Description: "Delete a pending membership request. Returns the request as it stood before deletion.",
				Args: graphql.FieldConfigArgument{
					"membershipRequestId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("rejectMembershipRequest", func(p graphql.ResolveParams) (interface{}, error) {
					reqID, err := parseObjectID(p.Args["membershipRequestId"])
					if err != nil {
						return nil, err
					}
					req, err := r.RejectMembershipRequest(p.Context, reqID)
					if err != nil {
						return nil, err
					}
					return membershipRequestToMap(req), nil
				}),
			},
			"cancelMembershipRequest": &graphql.Field{
				Type: membershipRequestType,
				Args: graphql.FieldConfigArgument{
					"membershipRequestId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("cancelMembershipRequest", func(p graphql.ResolveParams) (interface{}, error) {
					reqID, err := parseObjectID(p.Args["membershipRequestId"])
					if err != nil {
						return nil, err
					}
					req, err := r.CancelMembershipRequest(p.Context, reqID)
					if err != nil {
						return nil, err
					}
					return membershipRequestToMap(req), nil
				}),
			},
			"removeMember": &graphql.Field{
				Type: organizationType,
				Args: graphql.FieldConfigArgument{
					"organizationId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"userId":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("removeMember", func(p graphql.ResolveParams) (interface{}, error) {
					orgID, err := parseObjectID(p.Args["organizationId"])
					if err != nil {
						return nil, err
					}
					userID, err := parseObjectID(p.Args["userId"])
					if err != nil {
						return nil, err
					}
					org, err := r.RemoveMember(p.Context, orgID, userID)
					if err != nil {
						return nil, err
					}
					return organizationToMap(org), nil
				}),
			},
			"blockUser": &graphql.Field{
				Type: organizationType,
				Args: graphql.FieldConfigArgument{
					"organizationId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"userId":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("blockUser", func(p graphql.ResolveParams) (interface{}, error) {
					orgID, err := parseObjectID(p.Args["organizationId"])
					if err != nil {
						return nil, err
					}
					userID, err := parseObjectID(p.Args["userId"])
					if err != nil {
						return nil, err
					}
					org, err := r.BlockUser(p.Context, orgID, userID)
					if err != nil {
						return nil, err
					}
					return organizationToMap(org), nil
				}),
			},
			"unblockUser": &graphql.Field{
				Type: organizationType,
				Args: graphql.FieldConfigArgument{
					"organizationId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"userId":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("unblockUser", func(p graphql.ResolveParams) (interface{}, error) {
					orgID, err := parseObjectID(p.Args["organizationId"])
					if err != nil {
						return nil, err
					}
					userID, err := parseObjectID(p.Args["userId"])
					if err != nil {
						return nil, err
					}
					org, err := r.UnblockUser(p.Context, orgID, userID)
					if err != nil {
						return nil, err
					}
					return organizationToMap(org), nil
				}),
			},
			"createEvent": &graphql.Field{
				Type: eventType,
				Args: graphql.FieldConfigArgument{
					"organizationId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"title":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"description":    &graphql.ArgumentConfig{Type: graphql.String},
					"location":       &graphql.ArgumentConfig{Type: graphql.String},
					"startAt":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"endAt":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"allDay":         &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: op("createEvent", func(p graphql.ResolveParams) (interface{}, error) {
					orgID, err := parseObjectID(p.Args["organizationId"])
					if err != nil {
						return nil, err
					}
					startAt, err := timeArg(p, "startAt")
					if err != nil {
						return nil, err
					}
					endAt, err := timeArg(p, "endAt")
					if err != nil {
						return nil, err
					}
					event, err := r.CreateEvent(p.Context, CreateEventInput{
						OrganizationID: orgID,
						Title:          stringArg(p, "title"),
						Description:    stringArg(p, "description"),
						Location:       stringArg(p, "location"),
						StartAt:        startAt,
						EndAt:          endAt,
						AllDay:         boolArg(p, "allDay"),
					})
					if err != nil {
						return nil, err
					}
					return eventToMap(event), nil
				}),
			},
			"removeEvent": &graphql.Field{
				Type:        eventType,
				Description: "Delete an event. Returns the event as it stood before deletion.",
				Args: graphql.FieldConfigArgument{
					"eventId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("removeEvent", func(p graphql.ResolveParams) (interface{}, error) {
					eventID, err := parseObjectID(p.Args["eventId"])
					if err != nil {
						return nil, err
					}
					event, err := r.RemoveEvent(p.Context, eventID)
					if err != nil {
						return nil, err
					}
					return eventToMap(event), nil
				}),
			},
			"registerForEvent": &graphql.Field{
				Type: eventType,
				Args: graphql.FieldConfigArgument{
					"eventId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("registerForEvent", func(p graphql.ResolveParams) (interface{}, error) {
					eventID, err := parseObjectID(p.Args["eventId"])
					if err != nil {
						return nil, err
					}
					event, err := r.RegisterForEvent(p.Context, eventID)
					if err != nil {
						return nil, err
					}
					return eventToMap(event), nil
				}),
			},
			"unregisterForEvent": &graphql.Field{
				Type: eventType,
				Args: graphql.FieldConfigArgument{
					"eventId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("unregisterForEvent", func(p graphql.ResolveParams) (interface{}, error) {
					eventID, err := parseObjectID(p.Args["eventId"])
					if err != nil {
						return nil, err
					}
					event, err := r.UnregisterForEvent(p.Context, eventID)
					if err != nil {
						return nil, err
					}
					return eventToMap(event), nil
				}),
			},
			"createDirectChat": &graphql.Field{
				Type: directChatType,
				Args: graphql.FieldConfigArgument{
					"organizationId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"participantIds": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
				},
				Resolve: op("createDirectChat", func(p graphql.ResolveParams) (interface{}, error) {
					orgID, err := parseObjectID(p.Args["organizationId"])
					if err != nil {
						return nil, err
					}
					participants, err := parseObjectIDList(p.Args["participantIds"])
					if err != nil {
						return nil, err
					}
					chat, err := r.CreateDirectChat(p.Context, orgID, participants)
					if err != nil {
						return nil, err
					}
					return directChatToMap(chat), nil
				}),
			},
			"createGroupChat": &graphql.Field{
				Type: groupChatType,
				Args: graphql.FieldConfigArgument{
					"organizationId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"title":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"participantIds": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
				},
				Resolve: op("createGroupChat", func(p graphql.ResolveParams) (interface{}, error) {
					orgID, err := parseObjectID(p.Args["organizationId"])
					if err != nil {
						return nil, err
					}
					participants, err := parseObjectIDList(p.Args["participantIds"])
					if err != nil {
						return nil, err
					}
					chat, err := r.CreateGroupChat(p.Context, orgID, stringArg(p, "title"), participants)
					if err != nil {
						return nil, err
					}
					return groupChatToMap(chat), nil
				}),
			},
			"removeDirectChat": &graphql.Field{
				Type:        directChatType,
				Description: "Delete a direct chat and its messages. Returns the chat as it stood before deletion.",
				Args: graphql.FieldConfigArgument{
					"chatId":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"organizationId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("removeDirectChat", func(p graphql.ResolveParams) (interface{}, error) {
					chatID, err := parseObjectID(p.Args["chatId"])
					if err != nil {
						return nil, err
					}
					orgID, err := parseObjectID(p.Args["organizationId"])
					if err != nil {
						return nil, err
					}
					chat, err := r.RemoveDirectChat(p.Context, chatID, orgID)
					if err != nil {
						return nil, err
					}
					return directChatToMap(chat), nil
				}),
			},
			"removeGroupChat": &graphql.Field{
				Type:        groupChatType,
				Description: "Delete a group chat and its messages. Returns the chat as it stood before deletion.",
				Args: graphql.FieldConfigArgument{
					"chatId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: op("removeGroupChat", func(p graphql.ResolveParams) (interface{}, error) {
					chatID, err := parseObjectID(p.Args["chatId"])
					if err != nil {
						return nil, err
					}
					chat, err := r.RemoveGroupChat(p.Context, chatID)
					if err != nil {
						return nil, err
					}
					return groupChatToMap(chat), nil
				}),
			},
			"sendMessageToDirectChat": &graphql.Field{
				Type: directChatMessageType,
				Args: graphql.FieldConfigArgument{
					"chatId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"body":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: op("sendMessageToDirectChat", func(p graphql.ResolveParams) (interface{}, error) {
					chatID, err := parseObjectID(p.Args["chatId"])
					if err != nil {
						return nil, err
					}
					msg, err := r.SendMessageToDirectChat(p.Context, chatID, stringArg(p, "body"))
					if err != nil {
						return nil, err
					}
					return directChatMessageToMap(msg), nil
				}),
			},
			"sendMessageToGroupChat": &graphql.Field{
				Type: groupChatMessageType,
				Args: graphql.FieldConfigArgument{
					"chatId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"body":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: op("sendMessageToGroupChat", func(p graphql.ResolveParams) (interface{}, error) {
					chatID, err := parseObjectID(p.Args["chatId"])
					if err != nil {
						return nil, err
					}
					msg, err := r.SendMessageToGroupChat(p.Context, chatID, stringArg(p, "body"))
					if err != nil {
						return nil, err
					}
					return groupChatMessageToMap(msg), nil
				}),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    rootQuery,
		Mutation: rootMutation,
	})
}

// NewHandler wraps the schema in an HTTP handler. GraphiQL is enabled
// outside production mode.
func NewHandler(schema graphql.Schema, graphiql bool) *handler.Handler {
	return handler.New(&handler.Config{
		Schema:   &schema,
		Pretty:   true,
		GraphiQL: graphiql,
	})
}

// RegisterRoutes mounts the GraphQL endpoint on the router.
func RegisterRoutes(router gin.IRouter, h http.Handler) {
	endpoint := gin.WrapH(h)
	router.POST("/graphql", endpoint)
	router.GET("/graphql", endpoint)
}

// op wraps a resolver with operation metrics.
func op(name string, fn graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		out, err := fn(p)
		if err != nil {
			metrics.GraphQLObserved(name, "error")
			return nil, err
		}
		metrics.GraphQLObserved(name, "ok")
		return out, nil
	}
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

func boolArg(p graphql.ResolveParams, name string) bool {
	b, _ := p.Args[name].(bool)
	return b
}

func timeArg(p graphql.ResolveParams, name string) (time.Time, error) {
	s, _ := p.Args[name].(string)
	return time.Parse(time.RFC3339, s)
}

func parseObjectIDList(raw interface{}) ([]primitive.ObjectID, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, ErrInvalidID
	}
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		id, err := parseObjectID(item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func authPayloadToMap(payload *AuthPayload) map[string]interface{} {
	if payload == nil {
		return nil
	}
	return map[string]interface{}{
		"token": payload.Token,
		"user":  userToMap(payload.User),
	}
}
