package jwtauth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPayload is the decoded claim set of a verified JWT.
type TokenPayload map[string]any

// PayloadFromClaims converts golang-jwt claims into a TokenPayload.
func PayloadFromClaims(claims jwt.MapClaims) TokenPayload {
	out := make(TokenPayload, len(claims))
	for k, v := range claims {
		out[k] = v
	}
	return out
}

// Username returns the subject identity carried by the token. The username
// claim wins over preferred_username when both are present.
func (p TokenPayload) Username() (string, bool) {
	if v, ok := p.StringClaim("username"); ok && v != "" {
		return v, true
	}
	if v, ok := p.StringClaim("preferred_username"); ok && v != "" {
		return v, true
	}
	return "", false
}

// UserID returns the user_id claim rendered as a string, regardless of the
// numeric type the issuer encoded it with.
func (p TokenPayload) UserID() (string, bool) {
	return renderUserID(p["user_id"])
}

// renderUserID normalizes an id of any issuer encoding to its string form.
func renderUserID(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	switch id := v.(type) {
	case string:
		return id, id != ""
	case float64:
		return fmt.Sprintf("%.0f", id), true
	case int:
		return fmt.Sprintf("%d", id), true
	case int64:
		return fmt.Sprintf("%d", id), true
	default:
		return fmt.Sprintf("%v", id), true
	}
}

// StringClaim returns the claim as a string when present and of string type.
func (p TokenPayload) StringClaim(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// BoolClaim returns the claim as a bool when present and of bool type.
func (p TokenPayload) BoolClaim(key string) (bool, bool) {
	v, ok := p[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Claim returns the raw claim value.
func (p TokenPayload) Claim(key string) (any, bool) {
	v, ok := p[key]
	return v, ok
}
