package jwtauth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// CSRFEnforcer guards cookie backed authentication against cross site
// request forgery. Enforce runs before the JWT cookie is decoded.
type CSRFEnforcer interface {
	Enforce(ctx router.Context) error
}

// CSRFEnforcerFunc adapts a function to the CSRFEnforcer interface.
type CSRFEnforcerFunc func(ctx router.Context) error

func (f CSRFEnforcerFunc) Enforce(ctx router.Context) error {
	return f(ctx)
}

// DefaultCSRFFormField is the form field checked for the CSRF token.
const DefaultCSRFFormField = "_token"

// DefaultCSRFHeader is the request header checked for the CSRF token.
const DefaultCSRFHeader = "X-CSRF-Token"

var csrfSafeMethods = []string{"GET", "HEAD", "OPTIONS", "TRACE"}

// StatelessCSRF validates double submit tokens signed with an HMAC key, so
// no server side token storage is needed. Tokens carry their issue time and
// the session key they were minted for.
type StatelessCSRF struct {
	secureKey  []byte
	formField  string
	headerName string
	expiration time.Duration
}

// NewStatelessCSRF builds an enforcer around the given signing key. The key
// must be at least 32 bytes.
func NewStatelessCSRF(secureKey []byte) (*StatelessCSRF, error) {
	if len(secureKey) < 32 {
		return nil, errors.New("CSRF secure key must be at least 32 bytes", errors.CategoryValidation).
			WithMetadata(map[string]any{"key_length": len(secureKey)})
	}
	return &StatelessCSRF{
		secureKey:  secureKey,
		formField:  DefaultCSRFFormField,
		headerName: DefaultCSRFHeader,
		expiration: 24 * time.Hour,
	}, nil
}

// WithExpiration sets how long issued tokens stay valid. Zero disables the
// age check.
func (c *StatelessCSRF) WithExpiration(d time.Duration) *StatelessCSRF {
	c.expiration = d
	return c
}

// WithLookup overrides the form field and header checked for tokens.
func (c *StatelessCSRF) WithLookup(formField, headerName string) *StatelessCSRF {
	if formField != "" {
		c.formField = formField
	}
	if headerName != "" {
		c.headerName = headerName
	}
	return c
}

// GenerateToken mints a token bound to the request's session key.
func (c *StatelessCSRF) GenerateToken(ctx router.Context) (string, error) {
	nonce := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "unable to generate CSRF nonce")
	}

	payload := fmt.Sprintf("%d:%s:%s", time.Now().UTC().Unix(), hex.EncodeToString(nonce), csrfSessionKey(ctx))

	mac := hmac.New(sha256.New, c.secureKey)
	mac.Write([]byte(payload))
	signature := mac.Sum(nil)

	token := fmt.Sprintf("%s:%s", payload, hex.EncodeToString(signature))
	return base64.RawURLEncoding.EncodeToString([]byte(token)), nil
}

// Enforce validates the request's CSRF token. Safe methods pass without a
// token.
func (c *StatelessCSRF) Enforce(ctx router.Context) error {
	method := strings.ToUpper(ctx.Method())
	if slices.Contains(csrfSafeMethods, method) {
		return nil
	}

	token := ctx.FormValue(c.formField)
	if token == "" {
		token = ctx.GetString(c.headerName, "")
	}
	if token == "" {
		return csrfMismatch("token missing")
	}

	return c.validate(ctx, token)
}

func (c *StatelessCSRF) validate(ctx router.Context, token string) error {
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return csrfMismatch("token encoding invalid")
	}

	parts := strings.Split(string(decoded), ":")
	if len(parts) != 4 {
		return csrfMismatch("token format invalid")
	}

	timestampStr, nonceHex, sessionFromToken, signatureHex := parts[0], parts[1], parts[2], parts[3]

	timestamp, err := strconv.ParseInt(timestampStr, 10, 64)
	if err != nil {
		return csrfMismatch("token timestamp invalid")
	}

	if _, err := hex.DecodeString(nonceHex); err != nil {
		return csrfMismatch("token nonce invalid")
	}

	signature, err := hex.DecodeString(signatureHex)
	if err != nil {
		return csrfMismatch("token signature invalid")
	}

	mac := hmac.New(sha256.New, c.secureKey)
	mac.Write([]byte(strings.Join(parts[:3], ":")))
	if !hmac.Equal(signature, mac.Sum(nil)) {
		return csrfMismatch("token signature mismatch")
	}

	if subtle.ConstantTimeCompare([]byte(sessionFromToken), []byte(csrfSessionKey(ctx))) != 1 {
		return csrfMismatch("token session mismatch")
	}

	if c.expiration > 0 {
		expiresAt := time.Unix(timestamp, 0).Add(c.expiration)
		if time.Now().UTC().After(expiresAt) {
			return csrfMismatch("token expired")
		}
	}

	return nil
}

func csrfMismatch(reason string) error {
	clone := ErrCSRFValidationFailed.Clone()
	if clone == nil {
		return ErrCSRFValidationFailed
	}
	clone.Source = ErrCSRFValidationFailed
	return clone.WithMetadata(map[string]any{"reason": reason})
}

// csrfSessionKey binds a token to the caller. Session and user identifiers
// take precedence over the client IP.
func csrfSessionKey(ctx router.Context) string {
	if sessionID := ctx.Locals("session_id"); sessionID != nil {
		if id, ok := sessionID.(string); ok && id != "" {
			return "csrf_" + id
		}
	}

	if userID := ctx.Locals("user_id"); userID != nil {
		if id, ok := userID.(string); ok && id != "" {
			return "csrf_user_" + id
		}
	}

	return "csrf_ip_" + ctx.IP()
}
