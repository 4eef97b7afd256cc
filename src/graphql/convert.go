package graphql

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/apimgr/community/src/models"
)

// Converters shape model documents into the maps the schema's default
// field resolver reads. IDs become hex strings, times become RFC 3339.

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func userToMap(u *models.User) map[string]interface{} {
	if u == nil {
		return nil
	}
	return map[string]interface{}{
		"id":                   u.ID.Hex(),
		"username":             u.Username,
		"email":                u.Email,
		"role":                 u.Role,
		"joinedOrganizations":  hexIDs(u.JoinedOrganizations),
		"createdOrganizations": hexIDs(u.CreatedOrganizations),
		"adminFor":             hexIDs(u.AdminFor),
		"membershipRequests":   hexIDs(u.MembershipRequests),
		"createdEvents":        hexIDs(u.CreatedEvents),
		"registeredEvents":     hexIDs(u.RegisteredEvents),
		"createdAt":            formatTime(u.CreatedAt),
	}
}

func organizationToMap(o *models.Organization) map[string]interface{} {
	if o == nil {
		return nil
	}
	return map[string]interface{}{
		"id":                 o.ID.Hex(),
		"name":               o.Name,
		"description":        o.Description,
		"isPublic":           o.IsPublic,
		"visibleInSearch":    o.VisibleInSearch,
		"creatorId":          o.CreatorID.Hex(),
		"members":            hexIDs(o.Members),
		"admins":             hexIDs(o.Admins),
		"membershipRequests": hexIDs(o.MembershipRequests),
		"blockedUsers":       hexIDs(o.BlockedUsers),
		"createdAt":          formatTime(o.CreatedAt),
	}
}

func membershipRequestToMap(r *models.MembershipRequest) map[string]interface{} {
	if r == nil {
		return nil
	}
	return map[string]interface{}{
		"id":             r.ID.Hex(),
		"userId":         r.UserID.Hex(),
		"organizationId": r.OrganizationID.Hex(),
		"createdAt":      formatTime(r.CreatedAt),
	}
}

func eventToMap(e *models.Event) map[string]interface{} {
	if e == nil {
		return nil
	}
	return map[string]interface{}{
		"id":             e.ID.Hex(),
		"title":          e.Title,
		"description":    e.Description,
		"organizationId": e.OrganizationID.Hex(),
		"creatorId":      e.CreatorID.Hex(),
		"registrants":    hexIDs(e.Registrants),
		"location":       e.Location,
		"startAt":        formatTime(e.StartAt),
		"endAt":          formatTime(e.EndAt),
		"allDay":         e.AllDay,
		"createdAt":      formatTime(e.CreatedAt),
	}
}

func directChatToMap(c *models.DirectChat) map[string]interface{} {
	if c == nil {
		return nil
	}
	return map[string]interface{}{
		"id":             c.ID.Hex(),
		"organizationId": c.OrganizationID.Hex(),
		"creatorId":      c.CreatorID.Hex(),
		"participants":   hexIDs(c.Participants),
		"createdAt":      formatTime(c.CreatedAt),
	}
}

func directChatMessageToMap(m *models.DirectChatMessage) map[string]interface{} {
	if m == nil {
		return nil
	}
	return map[string]interface{}{
		"id":       m.ID.Hex(),
		"chatId":   m.ChatID.Hex(),
		"senderId": m.SenderID.Hex(),
		"body":     m.Body,
		"sentAt":   formatTime(m.SentAt),
	}
}

func groupChatToMap(c *models.GroupChat) map[string]interface{} {
	if c == nil {
		return nil
	}
	return map[string]interface{}{
		"id":             c.ID.Hex(),
		"title":          c.Title,
		"organizationId": c.OrganizationID.Hex(),
		"creatorId":      c.CreatorID.Hex(),
		"participants":   hexIDs(c.Participants),
		"createdAt":      formatTime(c.CreatedAt),
	}
}

func groupChatMessageToMap(m *models.GroupChatMessage) map[string]interface{} {
	if m == nil {
		return nil
	}
	return map[string]interface{}{
		"id":       m.ID.Hex(),
		"chatId":   m.ChatID.Hex(),
		"senderId": m.SenderID.Hex(),
		"body":     m.Body,
		"sentAt":   formatTime(m.SentAt),
	}
}
