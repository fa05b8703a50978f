package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrausse/billable/internal/auth"
)

var secret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := auth.GenerateToken(userID, secret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := auth.UserIDFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestUserIDFromToken_Invalid(t *testing.T) {
	type testCase struct {
		name  string
		token func(t *testing.T) string
	}

	tests := []testCase{
		{
			name:  "Garbage",
			token: func(*testing.T) string { return "not-a-token" },
		},
		{
			name: "WrongSecret",
			token: func(t *testing.T) string {
				token, err := auth.GenerateToken(uuid.New(), []byte("other-secret"), time.Hour)
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "Expired",
			token: func(t *testing.T) string {
				token, err := auth.GenerateToken(uuid.New(), secret, -time.Minute)
				require.NoError(t, err)
				return token
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.UserIDFromToken(tt.token(t), secret)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestMiddleware(t *testing.T) {
	svc := auth.NewService(nil, string(secret), time.Hour)

	userID := uuid.New()

	token, err := auth.GenerateToken(userID, secret, time.Hour)
	require.NoError(t, err)

	var gotUserID uuid.UUID

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.UserID(r.Context())
		require.True(t, ok)

		gotUserID = id

		w.WriteHeader(http.StatusOK)
	})

	t.Run("ValidToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		svc.Middleware(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, gotUserID)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		rec := httptest.NewRecorder()
		svc.Middleware(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", token)

		rec := httptest.NewRecorder()
		svc.Middleware(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("BadToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")

		rec := httptest.NewRecorder()
		svc.Middleware(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
