package graphql

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// Sentinel errors surfaced to GraphQL clients. Resolvers wrap them with
// operation context; tests and callers match with errors.Is.
var (
	ErrUnauthenticated           = errors.New("user is not authenticated")
	ErrNotAuthorized             = errors.New("user is not authorized for this operation")
	ErrInvalidID                 = errors.New("invalid id")
	ErrUserNotFound              = errors.New("user not found")
	ErrOrganizationNotFound      = errors.New("organization not found")
	ErrMembershipRequestNotFound = errors.New("membership request not found")
	ErrEventNotFound             = errors.New("event not found")
	ErrChatNotFound              = errors.New("chat not found")
	ErrEmailTaken                = errors.New("email address already registered")
	ErrInvalidCredentials        = errors.New("invalid email or password")
	ErrAlreadyMember             = errors.New("user is already a member of the organization")
	ErrNotMember                 = errors.New("user is not a member of the organization")
	ErrRequestAlreadySent        = errors.New("membership request already sent")
	ErrUserBlocked               = errors.New("user is blocked by the organization")
	ErrOrganizationNotPublic     = errors.New("organization is not public")
	ErrCannotRemoveAdmin         = errors.New("administrators cannot be removed as members")
	ErrCannotRemoveCreator       = errors.New("the organization creator cannot be removed")
	ErrCannotRemoveSelf          = errors.New("use leaveOrganization to remove yourself")
)

// notFound maps a store lookup error to the matching sentinel
func notFound(err, sentinel error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return sentinel
	}
	return err
}
