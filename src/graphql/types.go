package graphql

import (
	"github.com/graphql-go/graphql"
)

// Object types returned by the schema. Converters in convert.go produce
// maps keyed to these field names, so the default resolver applies.

var idListType = graphql.NewList(graphql.NewNonNull(graphql.ID))

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":                   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"username":             &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":                &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"role":                 &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"joinedOrganizations":  &graphql.Field{Type: idListType},
		"createdOrganizations": &graphql.Field{Type: idListType},
		"adminFor":             &graphql.Field{Type: idListType},
		"membershipRequests":   &graphql.Field{Type: idListType},
		"createdEvents":        &graphql.Field{Type: idListType},
		"registeredEvents":     &graphql.Field{Type: idListType},
		"createdAt":            &graphql.Field{Type: graphql.String},
	},
})

var organizationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Organization",
	Fields: graphql.Fields{
		"id":                 &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":               &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description":        &graphql.Field{Type: graphql.String},
		"isPublic":           &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"visibleInSearch":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"creatorId":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"members":            &graphql.Field{Type: idListType},
		"admins":             &graphql.Field{Type: idListType},
		"membershipRequests": &graphql.Field{Type: idListType},
		"blockedUsers":       &graphql.Field{Type: idListType},
		"createdAt":          &graphql.Field{Type: graphql.String},
	},
})

var membershipRequestType = graphql.NewObject(graphql.ObjectConfig{
	Name: "MembershipRequest",
	Fields: graphql.Fields{
		"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"userId":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"organizationId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"createdAt":      &graphql.Field{Type: graphql.String},
	},
})

var eventType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Event",
	Fields: graphql.Fields{
		"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"title":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description":    &graphql.Field{Type: graphql.String},
		"organizationId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"creatorId":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"registrants":    &graphql.Field{Type: idListType},
		"location":       &graphql.Field{Type: graphql.String},
		"startAt":        &graphql.Field{Type: graphql.String},
		"endAt":          &graphql.Field{Type: graphql.String},
		"allDay":         &graphql.Field{Type: graphql.Boolean},
		"createdAt":      &graphql.Field{Type: graphql.String},
	},
})

var directChatType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DirectChat",
	Fields: graphql.Fields{
		"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"organizationId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"creatorId":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"participants":   &graphql.Field{Type: idListType},
		"createdAt":      &graphql.Field{Type: graphql.String},
	},
})

var directChatMessageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DirectChatMessage",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"chatId":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"senderId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"body":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"sentAt":   &graphql.Field{Type: graphql.String},
	},
})

var groupChatType = graphql.NewObject(graphql.ObjectConfig{
	Name: "GroupChat",
	Fields: graphql.Fields{
		"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"title":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"organizationId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"creatorId":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"participants":   &graphql.Field{Type: idListType},
		"createdAt":      &graphql.Field{Type: graphql.String},
	},
})

var groupChatMessageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "GroupChatMessage",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"chatId":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"senderId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"body":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"sentAt":   &graphql.Field{Type: graphql.String},
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"user":  &graphql.Field{Type: graphql.NewNonNull(userType)},
	},
})
