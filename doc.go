// Package jwtauth resolves HTTP request identities from JSON Web Tokens.
//
// Tokens are accepted from the Authorization header under the JWT scheme or
// from a cookie when the request carries the cookie marker header. On
// success the authenticator finds or creates a local user record and keeps
// mapped claims in sync with the token payload. Cookie backed requests go
// through CSRF enforcement before the token is decoded, and may run in a
// forgiving mode where failures defer to downstream authenticators instead
// of rejecting the request.
//
// Every authentication attempt emits diagnostic attributes through an
// AttributeRecorder, including exactly one terminal jwt_auth_result tag.
package jwtauth
