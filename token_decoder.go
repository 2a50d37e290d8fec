package jwtauth

import (
	"context"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// HMACTokenDecoder verifies tokens signed with a shared secret.
type HMACTokenDecoder struct {
	secret  []byte
	methods []string
	parser  *jwt.Parser
}

// NewHMACTokenDecoder builds a decoder for HS256 tokens.
func NewHMACTokenDecoder(secret []byte) *HMACTokenDecoder {
	methods := []string{"HS256"}
	return &HMACTokenDecoder{
		secret:  secret,
		methods: methods,
		parser:  jwt.NewParser(jwt.WithValidMethods(methods)),
	}
}

// Decode verifies the raw token and returns its claim set.
func (d *HMACTokenDecoder) Decode(ctx context.Context, raw string) (TokenPayload, error) {
	return decodeWithKeyfunc(d.parser, raw, func(t *jwt.Token) (any, error) {
		return d.secret, nil
	})
}

// JWKSTokenDecoder verifies tokens against a remote JWKS endpoint.
type JWKSTokenDecoder struct {
	jwks   *keyfunc.JWKS
	parser *jwt.Parser
}

// NewJWKSTokenDecoder fetches the JWKS from url and keeps it refreshed in
// the background until the context is canceled.
func NewJWKSTokenDecoder(ctx context.Context, url string) (*JWKSTokenDecoder, error) {
	jwks, err := keyfunc.Get(url, keyfunc.Options{
		Ctx: ctx,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to fetch JWKS").
			WithMetadata(map[string]any{"url": url})
	}
	return &JWKSTokenDecoder{
		jwks:   jwks,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"RS256", "RS384", "RS512", "ES256"})),
	}, nil
}

// Decode verifies the raw token against the current JWKS key set.
func (d *JWKSTokenDecoder) Decode(ctx context.Context, raw string) (TokenPayload, error) {
	return decodeWithKeyfunc(d.parser, raw, d.jwks.Keyfunc)
}

func decodeWithKeyfunc(parser *jwt.Parser, raw string, kf jwt.Keyfunc) (TokenPayload, error) {
	claims := jwt.MapClaims{}
	token, err := parser.ParseWithClaims(raw, claims, kf)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryAuth, "unable to decode token").
			WithTextCode("AUTH_TOKEN_DECODE").
			WithCode(errors.CodeUnauthorized)
	}
	if !token.Valid {
		return nil, ErrUnableToDecodeToken
	}
	return PayloadFromClaims(claims), nil
}

// UnverifiedPayload parses the raw token without checking its signature.
// Used only for diagnostics on already rejected tokens.
func UnverifiedPayload(raw string) (TokenPayload, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, errors.Wrap(err, errors.CategoryAuth, "unable to parse token").
			WithCode(errors.CodeUnauthorized)
	}
	return PayloadFromClaims(claims), nil
}
