package middlewares

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cortexsupport/backend-api/internal/models"
)

func TestAuthMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	activeUser := &models.UserDB{
		ID:       primitive.NewObjectID(),
		Username: "alice",
	}
	disabledUser := &models.UserDB{
		ID:       primitive.NewObjectID(),
		Username: "mallory",
		Disabled: true,
	}

	tests := []struct {
		name             string
		mockSetup        func(tok *MockTokener, users *MockUserLoader)
		expectedStatus   int
		expectedCode     string
		expectNextCalled bool
	}{
		{
			name: "missing bearer header",
			mockSetup: func(tok *MockTokener, users *MockUserLoader) {
				tok.EXPECT().FromRequest(gomock.Any(), gomock.Any()).
					Return("", errors.New("authorization header missing"))
			},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "unauthenticated",
		},
		{
			name: "invalid token",
			mockSetup: func(tok *MockTokener, users *MockUserLoader) {
				tok.EXPECT().FromRequest(gomock.Any(), gomock.Any()).Return("sometoken", nil)
				tok.EXPECT().Subject(gomock.Any(), "sometoken").
					Return("", errors.New("invalid token"))
			},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "unauthenticated",
		},
		{
			name: "subject resolves to no user",
			mockSetup: func(tok *MockTokener, users *MockUserLoader) {
				tok.EXPECT().FromRequest(gomock.Any(), gomock.Any()).Return("sometoken", nil)
				tok.EXPECT().Subject(gomock.Any(), "sometoken").Return("ghost", nil)
				users.EXPECT().GetByUsername(gomock.Any(), "ghost").Return(nil, nil)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "unauthenticated",
		},
		{
			name: "loader failure",
			mockSetup: func(tok *MockTokener, users *MockUserLoader) {
				tok.EXPECT().FromRequest(gomock.Any(), gomock.Any()).Return("sometoken", nil)
				tok.EXPECT().Subject(gomock.Any(), "sometoken").Return("alice", nil)
				users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "internal_server_error",
		},
		{
			name: "disabled user",
			mockSetup: func(tok *MockTokener, users *MockUserLoader) {
				tok.EXPECT().FromRequest(gomock.Any(), gomock.Any()).Return("sometoken", nil)
				tok.EXPECT().Subject(gomock.Any(), "sometoken").Return("mallory", nil)
				users.EXPECT().GetByUsername(gomock.Any(), "mallory").Return(disabledUser, nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "inactive_user",
		},
		{
			name: "valid token",
			mockSetup: func(tok *MockTokener, users *MockUserLoader) {
				tok.EXPECT().FromRequest(gomock.Any(), gomock.Any()).Return("validtoken", nil)
				tok.EXPECT().Subject(gomock.Any(), "validtoken").Return("alice", nil)
				users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(activeUser, nil)
			},
			expectedStatus:   http.StatusOK,
			expectNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTokener := NewMockTokener(ctrl)
			mockUsers := NewMockUserLoader(ctrl)
			tt.mockSetup(mockTokener, mockUsers)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				// The loaded user must be available to the handler.
				assert.Equal(t, activeUser, UserFromContext(r.Context()))
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			rec := httptest.NewRecorder()

			Auth(mockTokener, mockUsers)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectNextCalled, nextCalled)

			if tt.expectedCode != "" {
				var resp models.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedCode, resp.Code)
			}
		})
	}
}

func TestAuthMiddleware_IndistinguishableFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Missing header, bad token and unknown subject must produce
	// byte-identical responses.
	responses := make([]string, 0, 3)

	setups := []func(tok *MockTokener, users *MockUserLoader){
		func(tok *MockTokener, users *MockUserLoader) {
			tok.EXPECT().FromRequest(gomock.Any(), gomock.Any()).Return("", errors.New("missing"))
		},
		func(tok *MockTokener, users *MockUserLoader) {
			tok.EXPECT().FromRequest(gomock.Any(), gomock.Any()).Return("t", nil)
			tok.EXPECT().Subject(gomock.Any(), "t").Return("", errors.New("invalid"))
		},
		func(tok *MockTokener, users *MockUserLoader) {
			tok.EXPECT().FromRequest(gomock.Any(), gomock.Any()).Return("t", nil)
			tok.EXPECT().Subject(gomock.Any(), "t").Return("ghost", nil)
			users.EXPECT().GetByUsername(gomock.Any(), "ghost").Return(nil, nil)
		},
	}

	for _, setup := range setups {
		mockTokener := NewMockTokener(ctrl)
		mockUsers := NewMockUserLoader(ctrl)
		setup(mockTokener, mockUsers)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		Auth(mockTokener, mockUsers)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		responses = append(responses, rec.Body.String())
	}

	assert.Equal(t, responses[0], responses[1])
	assert.Equal(t, responses[1], responses[2])
}

func TestUserFromContext_Absent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, UserFromContext(req.Context()))
}
