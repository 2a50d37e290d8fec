package jwtauth

import "github.com/goliatone/go-router"

// SessionUserKey is the locals key the default session resolver reads.
const SessionUserKey = "session_user_id"

// SessionUserResolver reports the user id attached to the request's session,
// or empty when no session user is present.
type SessionUserResolver func(ctx router.Context) string

// DefaultSessionUserResolver reads the session user id from request locals.
// Numeric ids are rendered the same way token user_id claims are.
func DefaultSessionUserResolver(ctx router.Context) string {
	id, _ := renderUserID(ctx.Locals(SessionUserKey))
	return id
}

// SessionConsistencyChecker detects requests whose session belongs to a
// different user than the JWT. A mismatch usually means a stale cookie from
// a previous login is still being sent.
type SessionConsistencyChecker struct {
	resolver SessionUserResolver
	recorder AttributeRecorder
}

// NewSessionConsistencyChecker builds a checker with the default locals
// based session resolver.
func NewSessionConsistencyChecker() *SessionConsistencyChecker {
	return &SessionConsistencyChecker{
		resolver: DefaultSessionUserResolver,
		recorder: noopRecorder{},
	}
}

// WithResolver replaces how the session user is looked up.
func (s *SessionConsistencyChecker) WithResolver(fn SessionUserResolver) *SessionConsistencyChecker {
	if fn != nil {
		s.resolver = fn
	}
	return s
}

// WithRecorder replaces the attribute recorder.
func (s *SessionConsistencyChecker) WithRecorder(recorder AttributeRecorder) *SessionConsistencyChecker {
	if recorder != nil {
		s.recorder = recorder
	}
	return s
}

// Check compares the session user against the JWT user id and reports
// whether they differ. A request with no session user never mismatches.
// The session user id is recorded whenever a session user is present.
func (s *SessionConsistencyChecker) Check(ctx router.Context, jwtUserID string) bool {
	sessionUserID := s.resolver(ctx)
	if sessionUserID == "" {
		return false
	}

	s.recorder.Record(ctx, AttrSessionUserID, sessionUserID)

	if jwtUserID == "" || sessionUserID == jwtUserID {
		return false
	}

	s.recorder.Record(ctx, AttrSessionUserMismatch, true)
	return true
}
