package jwt_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexsupport/backend-api/internal/jwt"
)

const secret = "test-secret"

func TestIssueAndSubject(t *testing.T) {
	svc := jwt.New(secret, time.Minute)
	ctx := context.Background()

	token, err := svc.Issue(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.Subject(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestSubject_InvalidOutcomesCollapse(t *testing.T) {
	svc := jwt.New(secret, time.Minute)
	ctx := context.Background()

	sign := func(secretKey string, method jwtlib.SigningMethod, key any, claims jwtlib.MapClaims) string {
		t.Helper()
		if key == nil {
			key = []byte(secretKey)
		}
		s, err := jwtlib.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	now := time.Now()

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "malformed token",
			token: "not.a.jwt",
		},
		{
			name: "wrong secret",
			token: sign("other-secret", jwtlib.SigningMethodHS256, nil, jwtlib.MapClaims{
				"sub": "alice", "exp": now.Add(time.Minute).Unix(),
			}),
		},
		{
			name: "expired",
			token: sign(secret, jwtlib.SigningMethodHS256, nil, jwtlib.MapClaims{
				"sub": "alice", "exp": now.Add(-time.Second).Unix(),
			}),
		},
		{
			name: "missing subject",
			token: sign(secret, jwtlib.SigningMethodHS256, nil, jwtlib.MapClaims{
				"exp": now.Add(time.Minute).Unix(),
			}),
		},
		{
			name: "unsigned token",
			token: sign(secret, jwtlib.SigningMethodNone, jwtlib.UnsafeAllowNoneSignatureType, jwtlib.MapClaims{
				"sub": "alice", "exp": now.Add(time.Minute).Unix(),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := svc.Subject(ctx, tt.token)
			// Every failure mode must be indistinguishable.
			assert.ErrorIs(t, err, jwt.ErrInvalidToken)
			assert.Empty(t, subject)
		})
	}
}

func TestSubject_AcceptedUntilExpiry(t *testing.T) {
	svc := jwt.New(secret, time.Minute)
	ctx := context.Background()

	// exp claims carry second precision, so the instant lands 1-2 seconds
	// ahead of now and the first check has at least a second of headroom.
	expUnix := time.Now().Add(2 * time.Second).Unix()
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub": "bob",
		"exp": expUnix,
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	subject, err := svc.Subject(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "bob", subject)

	time.Sleep(time.Until(time.Unix(expUnix, 0)) + 500*time.Millisecond)

	_, err = svc.Subject(ctx, token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestNew_DefaultTTL(t *testing.T) {
	svc := jwt.New(secret, 0)
	assert.Equal(t, 15*time.Minute, svc.TTL())

	svc = jwt.New(secret, 7*24*time.Hour)
	assert.Equal(t, 7*24*time.Hour, svc.TTL())
}

func TestFromRequest(t *testing.T) {
	svc := jwt.New(secret, time.Minute)
	ctx := context.Background()

	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   bool
	}{
		{name: "missing header", header: "", wantErr: true},
		{name: "not bearer", header: "Basic abc", wantErr: true},
		{name: "no token part", header: "Bearer", wantErr: true},
		{name: "valid", header: "Bearer sometoken", wantToken: "sometoken"},
		{name: "lowercase scheme", header: "bearer sometoken", wantToken: "sometoken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			token, err := svc.FromRequest(ctx, r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}
