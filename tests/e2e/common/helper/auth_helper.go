//go:build e2e

package helper

import (
	"net/http"
	"testing"

	reqdto "obsidian/internal/handler/dto/request"
	resdto "obsidian/internal/handler/dto/response"
	"obsidian/tests/common/dbtest"
	"obsidian/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const TestPassword = "password123"

// LoginUser authenticates through the real endpoint and returns the access token.
func LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	reqBody := reqdto.LoginRequest{Email: email, Password: password}
	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login", reqBody, "")
	require.Equal(t, http.StatusOK, w.Code, "login failed for %s", email)

	var loginRes resdto.LoginResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &loginRes))
	require.NotEmpty(t, loginRes.AccessToken)

	return loginRes.AccessToken
}

// CreateAndLogin inserts a user row directly and logs in through the endpoint.
func CreateAndLogin(t *testing.T, db dbtest.DBLike, router *gin.Engine, email, role string) (uuid.UUID, string) {
	t.Helper()

	userID := dbtest.CreateTestUser(t, db, email, role)
	token := LoginUser(t, router, email, TestPassword)
	return userID, token
}
