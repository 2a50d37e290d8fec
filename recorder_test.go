package jwtauth_test

import (
	"testing"

	jwtauth "github.com/goliatone/go-jwt-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalsRecorder(t *testing.T) {
	ctx := newAuthContext()

	recorder := jwtauth.LocalsRecorder{}
	recorder.Record(ctx, jwtauth.AttrAuthResult, jwtauth.ResultSuccessCookie)
	recorder.Record(ctx, jwtauth.AttrForgivingEnabled, true)

	assert.Equal(t, jwtauth.ResultSuccessCookie, ctx.LocalsMock[jwtauth.AttrAuthResult])
	assert.Equal(t, true, ctx.LocalsMock[jwtauth.AttrForgivingEnabled])
}

func TestLoggingRecorder(t *testing.T) {
	ctx := newAuthContext()
	logger := &captureLogger{}
	recorder := jwtauth.LoggingRecorder{Logger: logger}

	recorder.Record(ctx, jwtauth.AttrAuthResult, jwtauth.ResultNotApplicable)
	recorder.Record(ctx, jwtauth.AttrSessionUserMismatch, true)
	recorder.Record(ctx, "claims", map[string]any{"browser": "Chrome"})

	lines := logger.all()
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "jwt_auth_result=n/a")
	assert.Contains(t, lines[1], "jwt_auth_and_session_user_mismatch=true")
	assert.Contains(t, lines[2], "claims=")
	assert.Contains(t, lines[2], "browser")
	assert.Contains(t, lines[2], "Chrome")
}

func TestMultiRecorder(t *testing.T) {
	ctx := newAuthContext()
	first := &capturingRecorder{}
	second := &capturingRecorder{}

	recorder := jwtauth.MultiRecorder{first, nil, second}
	recorder.Record(ctx, jwtauth.AttrAuthResult, jwtauth.ResultSuccessAuthHeader)

	for _, r := range []*capturingRecorder{first, second} {
		value, ok := r.last(jwtauth.AttrAuthResult)
		require.True(t, ok)
		assert.Equal(t, jwtauth.ResultSuccessAuthHeader, value)
	}
}
