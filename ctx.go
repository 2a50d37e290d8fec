package jwtauth

import (
	"context"

	"github.com/goliatone/go-router"
)

type contextKey string

const (
	userContextKey contextKey = "jwtauth:user"
)

// AuthUserKey is the locals key the authenticated user is stored under.
const AuthUserKey = "auth_user"

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user stored in the context.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok && user != nil
}

// AuthenticatedUser returns the user stored in request locals by a
// successful authentication.
func AuthenticatedUser(ctx router.Context, localsKey ...string) (*User, bool) {
	key := AuthUserKey
	if len(localsKey) > 0 && localsKey[0] != "" {
		key = localsKey[0]
	}
	user, ok := ctx.Locals(key).(*User)
	return user, ok && user != nil
}

// DecodedPayload returns the verified token payload stored in request
// locals by a successful authentication.
func DecodedPayload(ctx router.Context, contextKey string) (TokenPayload, bool) {
	if contextKey == "" {
		contextKey = DefaultContextKey
	}
	payload, ok := ctx.Locals(contextKey).(TokenPayload)
	return payload, ok && payload != nil
}

// JWTAuthenticatedPredicate reports whether the request was authenticated
// via JWT. The authenticator accepts a custom predicate so callers can layer
// their own notion of "JWT authenticated" on top of the default.
type JWTAuthenticatedPredicate func(ctx router.Context) bool

// DefaultJWTAuthenticatedPredicate reports true when a decoded payload is
// present in request locals under the default context key. Authenticators
// built through NewAuthenticator use their configured context key instead.
func DefaultJWTAuthenticatedPredicate(ctx router.Context) bool {
	_, ok := DecodedPayload(ctx, DefaultContextKey)
	return ok
}
