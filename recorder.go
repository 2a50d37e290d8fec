package jwtauth

import (
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// Outcome values recorded under the AttrAuthResult attribute. Exactly one
// terminal outcome is recorded per authentication attempt.
const (
	ResultNotApplicable     = "n/a"
	ResultSuccessAuthHeader = "success-auth-header"
	ResultFailedAuthHeader  = "failed-auth-header"
	ResultSuccessCookie     = "success-cookie"
	ResultFailedCookie      = "failed-cookie"
	ResultForgivenFailure   = "forgiven-failure"
	ResultUserMismatch      = "user-mismatch-failure"
)

// Attribute names recorded during authentication.
const (
	AttrAuthResult          = "jwt_auth_result"
	AttrAuthFailed          = "jwt_auth_failed"
	AttrForgivingEnabled    = "is_forgiving_jwt_cookies_enabled"
	AttrSessionCheckEnabled = "is_jwt_vs_session_user_check_enabled"
	AttrSessionUserID       = "jwt_auth_session_user_id"
	AttrSessionUserMismatch = "jwt_auth_and_session_user_mismatch"
	AttrFailedCookieUserID  = "failed_jwt_cookie_user_id"
)

// AttributeRecorder receives diagnostic attributes emitted while a request
// is authenticated. Implementations typically forward to a metrics or
// monitoring pipeline.
type AttributeRecorder interface {
	Record(ctx router.Context, name string, value any)
}

// AttributeRecorderFunc adapts a function to the AttributeRecorder
// interface.
type AttributeRecorderFunc func(ctx router.Context, name string, value any)

func (f AttributeRecorderFunc) Record(ctx router.Context, name string, value any) {
	f(ctx, name, value)
}

type noopRecorder struct{}

func (noopRecorder) Record(router.Context, string, any) {}

// LocalsRecorder stores attributes in the request's locals under their own
// names, making them available to downstream handlers and access logs.
type LocalsRecorder struct{}

func (LocalsRecorder) Record(ctx router.Context, name string, value any) {
	ctx.Locals(name, value)
}

// LoggingRecorder writes attributes to a logger. Intended for development
// and debugging, not production traffic.
type LoggingRecorder struct {
	Logger Logger
}

func (l LoggingRecorder) Record(ctx router.Context, name string, value any) {
	logger := l.Logger
	if logger == nil {
		logger = &defLogger{}
	}
	switch value.(type) {
	case string, bool, int, int64, float64:
		logger.Debug("auth attribute %s=%v", name, value)
	default:
		logger.Debug("auth attribute %s=%s", name, print.MaybePrettyJSON(value))
	}
}

// MultiRecorder fans attributes out to several recorders.
type MultiRecorder []AttributeRecorder

func (m MultiRecorder) Record(ctx router.Context, name string, value any) {
	for _, r := range m {
		if r != nil {
			r.Record(ctx, name, value)
		}
	}
}
