package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexsupport/backend-api/internal/models"
	"github.com/cortexsupport/backend-api/internal/services"
)

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		form         url.Values
		mockSetup    func(m *MockLoginer)
		expectedCode int
		expectedErr  string
	}{
		{
			name: "success",
			form: url.Values{"username": {"alice"}, "password": {"longenough123"}},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "alice", "longenough123").
					Return(&models.Token{AccessToken: "token123", TokenType: "bearer"}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "bad credentials",
			form: url.Values{"username": {"alice"}, "password": {"wrong"}},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().Login(gomock.Any(), "alice", "wrong").Return(nil, services.ErrInvalidCredentials)
			},
			expectedCode: http.StatusUnauthorized,
			expectedErr:  "invalid_credentials",
		},
		{
			name:         "missing fields",
			form:         url.Values{},
			expectedCode: http.StatusUnprocessableEntity,
			expectedErr:  "validation_error",
		},
		{
			name: "internal server error",
			form: url.Values{"username": {"alice"}, "password": {"longenough123"}},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().Login(gomock.Any(), "alice", "longenough123").Return(nil, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  "internal_server_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockLoginer(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login/access-token",
				strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()

			NewLoginHandler(mockSvc)(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)

			if tt.expectedErr != "" {
				var resp models.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedErr, resp.Code)
				return
			}

			var token models.Token
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))
			assert.Equal(t, "token123", token.AccessToken)
			assert.Equal(t, "bearer", token.TokenType)
		})
	}
}
