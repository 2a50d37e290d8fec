package jwtauth_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jwtauth "github.com/goliatone/go-jwt-auth"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var testSigningKey = []byte("test-secret-key-for-jwt-auth-tests")

// signToken builds a signed HS256 token. An expiration one hour out is added
// unless the claims carry their own.
func signToken(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()

	if claims["exp"] == nil {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// newAuthContext returns a mock request context with the expectations every
// authentication path needs.
func newAuthContext() *router.MockContext {
	ctx := router.NewMockContext()
	ctx.On("Context").Return(context.Background()).Maybe()
	ctx.On("SetContext", mock.Anything).Maybe()
	ctx.On("Locals", mock.Anything, mock.Anything).Return(nil).Maybe()
	ctx.On("Method").Return("POST").Maybe()
	ctx.On("IP").Return("127.0.0.1").Maybe()
	return ctx
}

// captureLogger collects formatted log lines.
type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *captureLogger) log(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *captureLogger) Debug(format string, args ...any) { l.log(format, args...) }
func (l *captureLogger) Info(format string, args ...any)  { l.log(format, args...) }
func (l *captureLogger) Warn(format string, args ...any)  { l.log(format, args...) }
func (l *captureLogger) Error(format string, args ...any) { l.log(format, args...) }

func (l *captureLogger) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.lines...)
}

type recordedAttr struct {
	Name  string
	Value any
}

// capturingRecorder collects every attribute recorded during a test.
type capturingRecorder struct {
	mu    sync.Mutex
	attrs []recordedAttr
}

func (c *capturingRecorder) Record(ctx router.Context, name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attrs = append(c.attrs, recordedAttr{Name: name, Value: value})
}

// last returns the most recent value recorded under name.
func (c *capturingRecorder) last(name string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.attrs) - 1; i >= 0; i-- {
		if c.attrs[i].Name == name {
			return c.attrs[i].Value, true
		}
	}
	return nil, false
}

func (c *capturingRecorder) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, a := range c.attrs {
		if a.Name == name {
			n++
		}
	}
	return n
}

// memoryStore is an in memory UserStore.
type memoryStore struct {
	mu    sync.Mutex
	users map[string]*jwtauth.User
	saves int

	getOrCreateErr error
	saveErr        error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[string]*jwtauth.User{}}
}

func (s *memoryStore) GetOrCreateByUsername(ctx context.Context, username string) (*jwtauth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getOrCreateErr != nil {
		return nil, s.getOrCreateErr
	}

	if user, ok := s.users[username]; ok {
		return user, nil
	}

	user := &jwtauth.User{
		ID:       uuid.New(),
		Username: username,
		Email:    "",
		IsStaff:  false,
	}
	s.users[username] = user
	return user, nil
}

func (s *memoryStore) Save(ctx context.Context, user *jwtauth.User) (*jwtauth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return nil, s.saveErr
	}

	s.saves++
	s.users[user.Username] = user
	return user, nil
}

// MockTokenDecoder implements jwtauth.TokenDecoder
type MockTokenDecoder struct {
	mock.Mock
}

func (m *MockTokenDecoder) Decode(ctx context.Context, tokenString string) (jwtauth.TokenPayload, error) {
	args := m.Called(ctx, tokenString)
	payload, _ := args.Get(0).(jwtauth.TokenPayload)
	return payload, args.Error(1)
}

// MockCSRFEnforcer implements jwtauth.CSRFEnforcer
type MockCSRFEnforcer struct {
	mock.Mock
}

func (m *MockCSRFEnforcer) Enforce(ctx router.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
