package composables

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/org-portal/pkg/configuration"
	"github.com/iota-uz/org-portal/pkg/constants"
)

var ErrNoUser = errors.New("no user found in context")

// Role is the flat access trichotomy carried by bearer tokens.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleGuest  Role = "guest"
)

// User is the authenticated principal attached by the auth middleware.
type User struct {
	Subject string
	Role    Role
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, constants.UserKey, u)
}

func UseUser(ctx context.Context) (User, error) {
	u, ok := ctx.Value(constants.UserKey).(User)
	if !ok {
		return User{}, ErrNoUser
	}
	return u, nil
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

func UseLogger(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(configuration.Use().Logger())
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.RequestIDKey, id)
}

func UseRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(constants.RequestIDKey).(string); ok {
		return id
	}
	return ""
}
