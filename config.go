package jwtauth

// DefaultJWTCookieName is the cookie the authenticator inspects when the
// cookie marker header is present.
const DefaultJWTCookieName = "jwt-cookie"

// DefaultAuthScheme is the Authorization header scheme the authenticator
// claims. Bearer tokens are deliberately left for other authenticators.
const DefaultAuthScheme = "JWT"

// DefaultContextKey is where the decoded payload is stored in request locals.
const DefaultContextKey = "jwt_payload"

// UseJWTCookieHeader is the request marker instructing the authenticator to
// resolve credentials from the JWT cookie instead of the Authorization header.
const UseJWTCookieHeader = "X-Use-JWT-Cookie"

// DefaultAttributeMapping is the claim to user-field mapping applied when no
// mapping is configured. Note the unconfigured path sources is_staff from the
// administrator claim; configured mappings use claim names as-is. This
// asymmetry is kept for backward compatibility with existing token issuers.
var DefaultAttributeMapping = map[string]string{
	"email":         "email",
	"administrator": "is_staff",
}

// SimpleConfig is a plain value implementation of Config.
type SimpleConfig struct {
	UserAttributeMapping    map[string]string
	MergeableUserAttributes []string
	ForgivingJWTCookies     bool
	JWTVsSessionUserCheck   bool
	JWTCookieName           string
	AuthScheme              string
	ContextKey              string
}

var _ Config = SimpleConfig{}

func (c SimpleConfig) GetUserAttributeMapping() map[string]string {
	return c.UserAttributeMapping
}

func (c SimpleConfig) GetMergeableUserAttributes() []string {
	return c.MergeableUserAttributes
}

func (c SimpleConfig) GetForgivingJWTCookies() bool {
	return c.ForgivingJWTCookies
}

func (c SimpleConfig) GetJWTVsSessionUserCheck() bool {
	return c.JWTVsSessionUserCheck
}

func (c SimpleConfig) GetJWTCookieName() string {
	if c.JWTCookieName == "" {
		return DefaultJWTCookieName
	}
	return c.JWTCookieName
}

func (c SimpleConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return DefaultAuthScheme
	}
	return c.AuthScheme
}

func (c SimpleConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return DefaultContextKey
	}
	return c.ContextKey
}
