package graphql

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/apimgr/community/src/models"
	"github.com/apimgr/community/src/utils"
)

// AuthPayload is returned by signUp and login.
type AuthPayload struct {
	Token string
	User  *models.User
}

// SignUp registers a new account and issues an API token.
func (r *Resolver) SignUp(ctx context.Context, username, email, password string) (*AuthPayload, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || len(password) < 8 {
		return nil, errors.New("username, email and a password of at least 8 characters are required")
	}

	if _, err := r.Users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := r.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := r.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}
	r.logger().Info("user signed up", zap.String("user", user.ID.Hex()))
	return &AuthPayload{Token: token, User: user}, nil
}

// Login verifies credentials and issues a fresh API token.
func (r *Resolver) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := r.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := r.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthPayload{Token: token, User: user}, nil
}

func (r *Resolver) issueToken(ctx context.Context, user *models.User) (string, error) {
	token, err := utils.GenerateAPIToken()
	if err != nil {
		return "", err
	}
	if _, err := r.Tokens.Create(ctx, token, user.ID); err != nil {
		return "", err
	}
	return token, nil
}
