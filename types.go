package jwtauth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// TokenDecoder verifies and decodes a raw JWT into its payload claims.
// Implementations own signature verification; callers treat any returned
// error as part of the decode failure domain.
type TokenDecoder interface {
	Decode(ctx context.Context, tokenString string) (TokenPayload, error)
}

// TokenDecoderFunc adapts a function into a TokenDecoder.
type TokenDecoderFunc func(ctx context.Context, tokenString string) (TokenPayload, error)

// Decode satisfies the TokenDecoder interface.
func (f TokenDecoderFunc) Decode(ctx context.Context, tokenString string) (TokenPayload, error) {
	if f == nil {
		return nil, ErrUnableToDecodeToken
	}
	return f(ctx, tokenString)
}

// UserStore is the backing store for user records. Find-or-create atomicity
// and unique-constraint races are the store's concern; callers treat any
// error from it as a persistence failure and do not retry.
type UserStore interface {
	GetOrCreateByUsername(ctx context.Context, username string) (*User, error)
	Save(ctx context.Context, user *User) (*User, error)
}

// Config holds authenticator options
type Config interface {
	GetUserAttributeMapping() map[string]string
	GetMergeableUserAttributes() []string
	GetForgivingJWTCookies() bool
	GetJWTVsSessionUserCheck() bool
	GetJWTCookieName() string
	GetAuthScheme() string
	GetContextKey() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] JWTAUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] JWTAUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] JWTAUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] JWTAUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
