package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cortexsupport/backend-api/internal/middlewares"
	"github.com/cortexsupport/backend-api/internal/models"
	"github.com/cortexsupport/backend-api/internal/services"
)

func authedRequest(t *testing.T, method, target string, body []byte, user *models.UserDB) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	return req.WithContext(middlewares.WithUser(req.Context(), user))
}

func testUser() *models.UserDB {
	return &models.UserDB{
		ID:       primitive.NewObjectID(),
		Email:    "alice@example.com",
		Username: "alice",
		Role:     models.RoleUser,
	}
}

func TestGetMeHandler(t *testing.T) {
	user := testUser()

	req := authedRequest(t, http.MethodGet, "/api/v1/users/me", nil, user)
	rec := httptest.NewRecorder()

	NewGetMeHandler()(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, user.ID.Hex(), resp.ID)
	assert.Equal(t, user.Username, resp.Username)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUpdateMeHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := testUser()
	newEmail := "new@example.com"

	tests := []struct {
		name         string
		body         any
		rawBody      string
		mockSetup    func(m *MockUserUpdater)
		expectedCode int
		expectedErr  string
	}{
		{
			name: "success",
			body: models.UserUpdate{Email: &newEmail},
			mockSetup: func(m *MockUserUpdater) {
				m.EXPECT().
					Update(gomock.Any(), user.ID.Hex(), models.UserUpdate{Email: &newEmail}).
					Return(&models.UserResponse{ID: user.ID.Hex(), Email: newEmail, Username: user.Username}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "empty partial still succeeds",
			body: models.UserUpdate{},
			mockSetup: func(m *MockUserUpdater) {
				m.EXPECT().
					Update(gomock.Any(), user.ID.Hex(), models.UserUpdate{}).
					Return(&models.UserResponse{ID: user.ID.Hex(), Email: user.Email, Username: user.Username}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "email conflict",
			body: models.UserUpdate{Email: &newEmail},
			mockSetup: func(m *MockUserUpdater) {
				m.EXPECT().
					Update(gomock.Any(), user.ID.Hex(), gomock.Any()).
					Return(nil, services.ErrEmailTaken)
			},
			expectedCode: http.StatusConflict,
			expectedErr:  "conflict",
		},
		{
			name: "short password fails validation",
			body: func() models.UserUpdate {
				p := "short"
				return models.UserUpdate{Password: &p}
			}(),
			expectedCode: http.StatusUnprocessableEntity,
			expectedErr:  "validation_error",
		},
		{
			name:         "invalid json",
			rawBody:      "{not json",
			expectedCode: http.StatusUnprocessableEntity,
			expectedErr:  "validation_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockUserUpdater(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			var body []byte
			if tt.rawBody != "" {
				body = []byte(tt.rawBody)
			} else {
				body, _ = json.Marshal(tt.body)
			}

			req := authedRequest(t, http.MethodPut, "/api/v1/users/me", body, user)
			rec := httptest.NewRecorder()

			NewUpdateMeHandler(mockSvc)(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.expectedErr != "" {
				var resp models.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedErr, resp.Code)
			}
		})
	}
}

func TestDeleteMeHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := testUser()

	t.Run("success", func(t *testing.T) {
		mockSvc := NewMockUserDeleter(ctrl)
		mockSvc.EXPECT().Delete(gomock.Any(), user.ID.Hex()).Return(nil)

		req := authedRequest(t, http.MethodDelete, "/api/v1/users/me", nil, user)
		rec := httptest.NewRecorder()

		NewDeleteMeHandler(mockSvc)(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("already deleted", func(t *testing.T) {
		mockSvc := NewMockUserDeleter(ctrl)
		mockSvc.EXPECT().Delete(gomock.Any(), user.ID.Hex()).Return(services.ErrUserNotFound)

		req := authedRequest(t, http.MethodDelete, "/api/v1/users/me", nil, user)
		rec := httptest.NewRecorder()

		NewDeleteMeHandler(mockSvc)(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
