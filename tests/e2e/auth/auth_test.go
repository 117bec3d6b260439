//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"obsidian/internal/domain/user"
	reqdto "obsidian/internal/handler/dto/request"
	resdto "obsidian/internal/handler/dto/response"
	"obsidian/tests/common/dbtest"
	"obsidian/tests/common/httptest"
	"obsidian/tests/e2e"
	"obsidian/tests/e2e/common/helper"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/api/auth/register"
	loginURL    = "/api/auth/login"
	logoutURL   = "/api/auth/logout"
	refreshURL  = "/api/auth/refresh"
	meURL       = "/api/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) TestRegister() {
	s.Run("registers and can immediately log in", func() {
		t := s.T()

		reqBody := reqdto.RegisterRequest{Email: "newshopper@example.com", Password: helper.TestPassword}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reqBody, "")
		require.Equal(t, http.StatusCreated, w.Code)

		var registerRes resdto.RegisterResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &registerRes))
		require.NotEmpty(t, registerRes.UserID)

		helper.LoginUser(t, s.Router, "newshopper@example.com", helper.TestPassword)
	})

	s.Run("duplicate email is rejected", func() {
		t := s.T()

		reqBody := reqdto.RegisterRequest{Email: "dupe@example.com", Password: helper.TestPassword}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reqBody, "")
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reqBody, "")
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("email uniqueness is case insensitive", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL,
			reqdto.RegisterRequest{Email: "Shopper@Example.COM", Password: helper.TestPassword}, "")
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL,
			reqdto.RegisterRequest{Email: "shopper@example.com", Password: helper.TestPassword}, "")
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("weak password is rejected", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL,
			reqdto.RegisterRequest{Email: "weak@example.com", Password: "short"}, "")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		setup          func(t *testing.T)
		email          string
		password       string
		expectedStatus int
	}{
		{
			name: "valid credentials",
			setup: func(t *testing.T) {
				dbtest.CreateTestUser(t, s.DB, "shopper@example.com", string(user.RoleCustomer))
			},
			email:          "shopper@example.com",
			password:       helper.TestPassword,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown user",
			setup:          func(t *testing.T) {},
			email:          "nobody@example.com",
			password:       helper.TestPassword,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			setup: func(t *testing.T) {
				dbtest.CreateTestUser(t, s.DB, "shopper@example.com", string(user.RoleCustomer))
			},
			email:          "shopper@example.com",
			password:       "wrongpassword",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "inactive account",
			setup: func(t *testing.T) {
				dbtest.CreateTestUser(t, s.DB, "inactive@example.com", string(user.RoleCustomer))
				_, err := s.DB.Exec(t.Context(), "UPDATE users SET is_active = false WHERE email = 'inactive@example.com'")
				require.NoError(t, err)
			},
			email:          "inactive@example.com",
			password:       helper.TestPassword,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "empty email",
			setup:          func(t *testing.T) {},
			email:          "",
			password:       helper.TestPassword,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()
			tt.setup(t)

			reqBody := reqdto.LoginRequest{Email: tt.email, Password: tt.password}
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, reqBody, "")
			require.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var loginRes resdto.LoginResponse
				require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &loginRes))
				require.NotEmpty(t, loginRes.AccessToken)
				require.NotEmpty(t, loginRes.RefreshToken)

				var lastLogin any
				err := s.DB.QueryRow(t.Context(), "SELECT last_login FROM users WHERE email = $1", tt.email).Scan(&lastLogin)
				require.NoError(t, err)
				require.NotNil(t, lastLogin, "last_login was not updated")
			}
		})
	}
}

func (s *authSuite) TestRefresh() {
	s.Run("valid refresh token rotates the pair", func() {
		t := s.T()
		dbtest.CreateTestUser(t, s.DB, "shopper@example.com", string(user.RoleCustomer))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			reqdto.LoginRequest{Email: "shopper@example.com", Password: helper.TestPassword}, "")
		require.Equal(t, http.StatusOK, w.Code)
		var loginRes resdto.LoginResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &loginRes))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL,
			reqdto.RefreshRequest{RefreshToken: loginRes.RefreshToken}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var refreshRes resdto.RefreshResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &refreshRes))
		require.NotEmpty(t, refreshRes.AccessToken)
		require.NotEmpty(t, refreshRes.RefreshToken)
	})

	s.Run("invalid refresh token is rejected", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL,
			reqdto.RefreshRequest{RefreshToken: "invalid-refresh-token"}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("missing refresh token is rejected", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL, map[string]any{}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func (s *authSuite) TestLogoutAndMe() {
	s.Run("me returns the authenticated user", func() {
		t := s.T()
		_, token := helper.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var userRes resdto.UserResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &userRes))
		require.Equal(t, "admin@example.com", userRes.Email)
		require.Equal(t, string(user.RoleAdmin), userRes.Role)
		require.NotContains(t, w.Body.String(), "password")
	})

	s.Run("logout clears the session", func() {
		t := s.T()
		_, token := helper.CreateAndLogin(t, s.DB, s.Router, "shopper@example.com", string(user.RoleCustomer))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, logoutURL, nil, token)
		require.Equal(t, http.StatusNoContent, w.Code)
	})

	s.Run("protected endpoints reject missing tokens", func() {
		t := s.T()

		for _, endpoint := range []struct {
			method string
			path   string
		}{
			{http.MethodPost, logoutURL},
			{http.MethodGet, meURL},
		} {
			w := httptest.PerformRequest(t, s.Router, endpoint.method, endpoint.path, nil, "")
			require.Equal(t, http.StatusUnauthorized, w.Code)
		}
	})

	s.Run("invalid token is rejected", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, "invalid-token")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
