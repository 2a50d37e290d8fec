package jwtauth

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-router"
)

// AuthResult is the outcome of a successful authentication attempt.
type AuthResult struct {
	User    *User
	Payload TokenPayload
	Token   string
}

type credentialSource int

const (
	sourceNone credentialSource = iota
	sourceHeader
	sourceCookie
)

// Authenticator resolves a request's identity from a JWT presented either
// in the Authorization header or in a cookie.
//
// Authenticate returns (result, nil) on success, (nil, nil) when no
// applicable credential was presented or the failure was forgiven, and
// (nil, err) on a hard failure.
type Authenticator struct {
	decoder   TokenDecoder
	resolver  *CredentialResolver
	csrf      CSRFEnforcer
	checker   *SessionConsistencyChecker
	recorder  AttributeRecorder
	config    Config
	logger    Logger
	jwtAuthed JWTAuthenticatedPredicate
}

// NewAuthenticator wires an authenticator from its collaborators. CSRF
// enforcement, session checking, and attribute recording start as no-ops
// and are enabled through the With builders.
func NewAuthenticator(decoder TokenDecoder, store UserStore, config Config) *Authenticator {
	logger := &defLogger{}
	return &Authenticator{
		decoder:   decoder,
		resolver:  NewCredentialResolver(store, config).WithLogger(logger),
		csrf:      CSRFEnforcerFunc(func(router.Context) error { return nil }),
		checker:   NewSessionConsistencyChecker(),
		recorder:  noopRecorder{},
		config:    config,
		logger:    logger,
		jwtAuthed: func(ctx router.Context) bool {
			_, ok := DecodedPayload(ctx, config.GetContextKey())
			return ok
		},
	}
}

// WithLogger replaces the authenticator's logger.
func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	if logger != nil {
		a.logger = logger
		a.resolver.WithLogger(logger)
	}
	return a
}

// WithCSRF installs the enforcer run on the cookie path before decoding.
func (a *Authenticator) WithCSRF(enforcer CSRFEnforcer) *Authenticator {
	if enforcer != nil {
		a.csrf = enforcer
	}
	return a
}

// WithRecorder installs the diagnostic attribute recorder.
func (a *Authenticator) WithRecorder(recorder AttributeRecorder) *Authenticator {
	if recorder != nil {
		a.recorder = recorder
		a.checker.WithRecorder(recorder)
	}
	return a
}

// WithSessionChecker replaces the session consistency checker.
func (a *Authenticator) WithSessionChecker(checker *SessionConsistencyChecker) *Authenticator {
	if checker != nil {
		a.checker = checker
		a.checker.WithRecorder(a.recorder)
	}
	return a
}

// WithCredentialResolver replaces the credential resolver.
func (a *Authenticator) WithCredentialResolver(resolver *CredentialResolver) *Authenticator {
	if resolver != nil {
		a.resolver = resolver
	}
	return a
}

// WithAuthenticatedPredicate replaces how the module decides whether a
// request was JWT authenticated.
func (a *Authenticator) WithAuthenticatedPredicate(fn JWTAuthenticatedPredicate) *Authenticator {
	if fn != nil {
		a.jwtAuthed = fn
	}
	return a
}

// IsJWTAuthenticated reports whether the request carries a JWT established
// identity, using the configured predicate.
func (a *Authenticator) IsJWTAuthenticated(ctx router.Context) bool {
	return a.jwtAuthed(ctx)
}

// DecodedJWT returns the verified payload stored for the request, but only
// when the configured predicate agrees the request was JWT authenticated.
func (a *Authenticator) DecodedJWT(ctx router.Context) (TokenPayload, bool) {
	if !a.jwtAuthed(ctx) {
		return nil, false
	}
	return DecodedPayload(ctx, a.config.GetContextKey())
}

// Authenticate resolves the request's identity. Exactly one jwt_auth_result
// attribute is recorded per call.
func (a *Authenticator) Authenticate(ctx router.Context) (*AuthResult, error) {
	raw, source := a.credentials(ctx)
	if source == sourceNone {
		a.recorder.Record(ctx, AttrAuthResult, ResultNotApplicable)
		return nil, nil
	}

	a.recorder.Record(ctx, AttrForgivingEnabled, a.config.GetForgivingJWTCookies())

	if source == sourceHeader {
		return a.authenticateHeader(ctx, raw)
	}
	return a.authenticateCookie(ctx, raw)
}

// credentials picks the credential source. The cookie marker wins over the
// Authorization header; a JWT scheme header wins over nothing. Bearer and
// other schemes are left for downstream authenticators.
func (a *Authenticator) credentials(ctx router.Context) (string, credentialSource) {
	if ctx.GetString(UseJWTCookieHeader, "") != "" {
		if cookie := ctx.Cookies(a.config.GetJWTCookieName()); cookie != "" {
			return cookie, sourceCookie
		}
	}

	header := ctx.GetString(router.HeaderAuthorization, "")
	if header != "" {
		scheme := a.config.GetAuthScheme()
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], scheme) && parts[1] != "" {
			return parts[1], sourceHeader
		}
	}

	return "", sourceNone
}

func (a *Authenticator) authenticateHeader(ctx router.Context, raw string) (*AuthResult, error) {
	result, err := a.resolve(ctx, raw)
	if err != nil {
		a.logger.Debug("JWT header authentication failed: %v", DeepestTokenError(err))
		a.recorder.Record(ctx, AttrAuthResult, ResultFailedAuthHeader)
		return nil, err
	}

	a.recorder.Record(ctx, AttrAuthResult, ResultSuccessAuthHeader)
	a.storeIdentity(ctx, result)
	a.checkSession(ctx, jwtUserID(result.User, result.Payload))
	return result, nil
}

func (a *Authenticator) authenticateCookie(ctx router.Context, raw string) (*AuthResult, error) {
	result, err := a.resolveCookie(ctx, raw)
	if err == nil {
		a.recorder.Record(ctx, AttrAuthResult, ResultSuccessCookie)
		a.storeIdentity(ctx, result)
		a.checkSession(ctx, jwtUserID(result.User, result.Payload))
		return result, nil
	}

	deepest := DeepestTokenError(err)
	a.logger.Debug("JWT cookie authentication failed: %v", deepest)
	a.recorder.Record(ctx, AttrAuthFailed, fmt.Sprintf("Exception:%v", deepest))

	mismatch := a.failedCookieMismatch(ctx, raw)

	if a.config.GetForgivingJWTCookies() {
		if mismatch {
			a.recorder.Record(ctx, AttrAuthResult, ResultUserMismatch)
		} else {
			a.recorder.Record(ctx, AttrAuthResult, ResultForgivenFailure)
		}
		return nil, nil
	}

	a.recorder.Record(ctx, AttrAuthResult, ResultFailedCookie)
	return nil, err
}

func (a *Authenticator) resolveCookie(ctx router.Context, raw string) (*AuthResult, error) {
	if err := a.csrf.Enforce(ctx); err != nil {
		return nil, err
	}
	return a.resolve(ctx, raw)
}

func (a *Authenticator) resolve(ctx router.Context, raw string) (*AuthResult, error) {
	payload, err := a.decoder.Decode(ctx.Context(), raw)
	if err != nil {
		return nil, err
	}

	user, err := a.resolver.Resolve(ctx.Context(), payload)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Payload: payload, Token: raw}, nil
}

func (a *Authenticator) storeIdentity(ctx router.Context, result *AuthResult) {
	ctx.Locals(a.config.GetContextKey(), result.Payload)
	ctx.Locals(AuthUserKey, result.User)
	ctx.SetContext(WithUser(ctx.Context(), result.User))
}

// checkSession runs the session consistency check after an identity was
// established. Mismatches are recorded but never block authentication.
func (a *Authenticator) checkSession(ctx router.Context, jwtUserID string) {
	enabled := a.config.GetJWTVsSessionUserCheck()
	a.recorder.Record(ctx, AttrSessionCheckEnabled, enabled)
	if !enabled {
		return
	}
	a.checker.Check(ctx, jwtUserID)
}

// failedCookieMismatch runs the session check against the user id pulled
// from the rejected cookie. The cookie no longer verifies, so the id comes
// from an unverified parse; when even that fails the literal decode-error
// tag takes its place.
func (a *Authenticator) failedCookieMismatch(ctx router.Context, raw string) bool {
	enabled := a.config.GetJWTVsSessionUserCheck()
	a.recorder.Record(ctx, AttrSessionCheckEnabled, enabled)
	if !enabled {
		return false
	}

	failedID := "decode-error"
	if payload, err := UnverifiedPayload(raw); err == nil {
		if id, ok := payload.UserID(); ok {
			failedID = id
		}
	}

	mismatch := a.checker.Check(ctx, failedID)
	if mismatch {
		a.recorder.Record(ctx, AttrFailedCookieUserID, failedID)
	}
	return mismatch
}

// jwtUserID picks the identity used for session comparison. The user_id
// claim wins; accounts created without one fall back to the record id.
func jwtUserID(user *User, payload TokenPayload) string {
	if id, ok := payload.UserID(); ok {
		return id
	}
	if user != nil {
		return user.ID.String()
	}
	return ""
}
