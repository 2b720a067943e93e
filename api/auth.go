package api

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mindhaven-app/mindhaven-api/databases"
	"github.com/mindhaven-app/mindhaven-api/models"
)

type contextKey int

const (
	identityKey contextKey = iota
	authErrKey
	requestIDKey
)

// Authenticator resolves an inbound request's caller identity from its
// Authorization header. It is purely advisory; enforcement happens in the
// helpers below, called by each operation.
type Authenticator struct {
	Tokens *TokenService
	UDB    databases.UserDatabase
}

// Resolve turns an Authorization header value into a user. An empty header
// resolves to no identity and no error; anything present must verify.
func (a *Authenticator) Resolve(ctx context.Context, header string) (*models.User, error) {
	if header == "" {
		return nil, nil
	}

	token, err := ExtractToken(header)
	if err != nil {
		return nil, err
	}
	userID, err := a.Tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, models.NewError(models.CodeUserLookupFailed, "malformed user id in token")
	}
	user, err := a.UDB.FindOne(ctx, bson.M{"_id": oid})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewError(models.CodeUserNotFound, "user not found")
		}
		return nil, models.NewError(models.CodeUserLookupFailed, "failed to look up user")
	}
	return user, nil
}

// WithIdentity stores the resolved caller (or the resolution error) on the
// request context for the operation layer.
func WithIdentity(ctx context.Context, user *models.User, err error) context.Context {
	ctx = context.WithValue(ctx, identityKey, user)
	return context.WithValue(ctx, authErrKey, err)
}

// OptionalAuth returns the caller identity, or nil for anonymous requests.
// Used by operations with public + enhanced-when-authenticated behavior.
func OptionalAuth(ctx context.Context) *models.User {
	user, _ := ctx.Value(identityKey).(*models.User)
	return user
}

// RequireAuthentication returns the caller identity or an error: the original
// token failure when one occurred, Unauthorized when no token was sent.
func RequireAuthentication(ctx context.Context) (*models.User, error) {
	if err, _ := ctx.Value(authErrKey).(error); err != nil {
		return nil, err
	}
	user, _ := ctx.Value(identityKey).(*models.User)
	if user == nil {
		return nil, models.NewError(models.CodeUnauthenticated, "authentication required")
	}
	return user, nil
}

// ValidateUserOwnership fails unless the actor is the target user.
func ValidateUserOwnership(actorID, targetID primitive.ObjectID, action string) error {
	if actorID != targetID {
		return models.NewError(models.CodeForbidden, fmt.Sprintf("not allowed to %s for another user", action))
	}
	return nil
}

// ValidateNotSelfAction fails when the actor targets themselves, e.g. filing
// a report against oneself.
func ValidateNotSelfAction(actorID, targetID primitive.ObjectID, action string) error {
	if actorID == targetID {
		return models.NewError(models.CodeInvalidAction, fmt.Sprintf("cannot %s yourself", action))
	}
	return nil
}

// RequestIDFrom returns the correlation id stamped by the middleware.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
