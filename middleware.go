package jwtauth

import (
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// MiddlewareConfig controls how authentication outcomes map onto HTTP
// responses.
type MiddlewareConfig struct {
	// Skip defines a function to skip the middleware
	Skip func(router.Context) bool

	// RequireAuthenticated rejects requests that defer instead of letting
	// them fall through to the next handler.
	RequireAuthenticated bool

	// ErrorHandler renders authentication failures
	ErrorHandler router.ErrorHandler
}

// Middleware adapts the authenticator into router middleware. Failed
// attempts are rendered by the error handler; deferred attempts continue
// down the chain unless RequireAuthenticated is set.
func Middleware(a *Authenticator, config ...MiddlewareConfig) router.MiddlewareFunc {
	cfg := middlewareDefault(config...)

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return ctx.Next()
			}

			result, err := a.Authenticate(ctx)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			if result == nil && cfg.RequireAuthenticated {
				return cfg.ErrorHandler(ctx, ErrAuthenticationFailed)
			}

			return ctx.Next()
		}
	}
}

func middlewareDefault(config ...MiddlewareConfig) MiddlewareConfig {
	cfg := MiddlewareConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultAuthErrorHandler
	}

	return cfg
}

func defaultAuthErrorHandler(ctx router.Context, err error) error {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		switch richErr.Category {
		case errors.CategoryAuthz:
			return ctx.Status(router.StatusForbidden).SendString("forbidden")
		case errors.CategoryAuth:
			return ctx.Status(router.StatusUnauthorized).SendString("unauthorized")
		}
	}
	return ctx.Status(router.StatusUnauthorized).SendString("unauthorized")
}
