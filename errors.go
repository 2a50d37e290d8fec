package jwtauth

import (
	stderrors "errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

var (
	// ErrUnableToDecodeToken is returned when a raw token cannot be verified.
	ErrUnableToDecodeToken = errors.New("unable to decode token", errors.CategoryAuth).
				WithTextCode("AUTH_TOKEN_DECODE").
				WithCode(errors.CodeUnauthorized)

	// ErrMissingUsernameClaim is returned when a verified payload carries no
	// username or preferred_username claim.
	ErrMissingUsernameClaim = errors.New("token payload is missing a username claim", errors.CategoryAuth).
				WithTextCode("AUTH_MISSING_USERNAME").
				WithCode(errors.CodeUnauthorized)

	// ErrAuthenticationFailed is the generic credential resolution failure.
	ErrAuthenticationFailed = errors.New("authentication failed", errors.CategoryAuth).
				WithTextCode("AUTH_FAILED").
				WithCode(errors.CodeUnauthorized)

	// ErrCSRFValidationFailed is returned when the cookie path rejects a
	// request before the token is ever decoded.
	ErrCSRFValidationFailed = errors.New("CSRF validation failed", errors.CategoryAuthz).
				WithTextCode("AUTH_CSRF_FAILED").
				WithCode(errors.CodeForbidden)
)

// tokenSentinels is the family of decode failures recognized by the
// exception classifier.
var tokenSentinels = []error{
	jwt.ErrTokenMalformed,
	jwt.ErrTokenUnverifiable,
	jwt.ErrTokenSignatureInvalid,
	jwt.ErrTokenExpired,
	jwt.ErrTokenNotValidYet,
	jwt.ErrTokenUsedBeforeIssued,
	jwt.ErrTokenInvalidAudience,
	jwt.ErrTokenInvalidIssuer,
	jwt.ErrTokenInvalidSubject,
	jwt.ErrTokenInvalidClaims,
	jwt.ErrTokenInvalidId,
	jwt.ErrTokenRequiredClaimMissing,
	jwt.ErrInvalidKey,
	jwt.ErrInvalidKeyType,
}

// IsTokenDecodeError reports whether err belongs to the token decode failure
// family.
func IsTokenDecodeError(err error) bool {
	if err == nil {
		return false
	}
	for _, sentinel := range tokenSentinels {
		if stderrors.Is(err, sentinel) {
			return true
		}
	}
	return stderrors.Is(err, ErrUnableToDecodeToken)
}

// DeepestTokenError walks err's wrap chain and returns the decode failure
// closest to the root cause. Wrapping layers added while the error bubbled up
// are discarded so callers see the original reason the token was rejected.
// When no link of the chain is a decode failure, err is returned unchanged.
func DeepestTokenError(err error) error {
	if err == nil {
		return nil
	}
	deepest := err
	found := IsTokenDecodeError(err)
	for e := stderrors.Unwrap(err); e != nil; e = stderrors.Unwrap(e) {
		if IsTokenDecodeError(e) {
			deepest = e
			found = true
		}
	}
	if !found {
		return err
	}
	return deepest
}

// IsTokenExpiredError reports whether the token was rejected for being past
// its expiry.
func IsTokenExpiredError(err error) bool {
	return stderrors.Is(err, jwt.ErrTokenExpired)
}

// IsMalformedTokenError reports whether the raw token could not be parsed at
// all.
func IsMalformedTokenError(err error) bool {
	return stderrors.Is(err, jwt.ErrTokenMalformed)
}
