package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/apimgr/community/src/graphql"
	"github.com/apimgr/community/src/models"
)

const UserContextKey = "user"

// TokenReader resolves bearer tokens. Satisfied by models.TokenModel.
type TokenReader interface {
	GetByToken(ctx context.Context, token string) (*models.Token, error)
	UpdateLastUsed(ctx context.Context, id primitive.ObjectID) error
}

// UserReader resolves authenticated users. Satisfied by models.UserModel.
type UserReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Auth validates the Authorization bearer token and places the user on
// both the gin context and the request context. With required=false the
// request continues anonymously when no token is presented; a token
// that is present but invalid is always rejected.
func Auth(tokens TokenReader, users UserReader, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if required {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
				c.Abort()
				return
			}
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			c.Abort()
			return
		}

		token, err := tokens.GetByToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}
		user, err := users.GetByID(c.Request.Context(), token.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		// Last-used bookkeeping must not block the request
		go tokens.UpdateLastUsed(context.Background(), token.ID)

		c.Set(UserContextKey, user)
		c.Request = c.Request.WithContext(graphql.WithUserID(c.Request.Context(), user.ID))
		c.Next()
	}
}

// CurrentUser fetches the authenticated user from the gin context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
