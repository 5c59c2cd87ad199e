//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"tool-rental/internal/handler/dto/request"
	"tool-rental/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// LoginEmployee logs in with an employee id and PIN and returns the session cookie value.
func LoginEmployee(t *testing.T, router *gin.Engine, cookieName string, employeeID int64, pin string) string {
	t.Helper()
	return login(t, router, cookieName, request.LoginRequest{EmployeeID: employeeID, PinCode: pin})
}

// LoginAdmin logs in as the local admin.
func LoginAdmin(t *testing.T, router *gin.Engine, cookieName, username, password string) string {
	t.Helper()
	return login(t, router, cookieName, request.LoginRequest{Username: username, Password: password})
}

func login(t *testing.T, router *gin.Engine, cookieName string, req request.LoginRequest) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login", req, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	sessionCookie := httptest.ExtractCookie(w, cookieName)
	require.NotNil(t, sessionCookie, "session cookie not found")
	require.NotEmpty(t, sessionCookie.Value, "session cookie is empty")

	return sessionCookie.Value
}

func LogoutUser(t *testing.T, router *gin.Engine, cookies []*http.Cookie) {
	t.Helper()

	w := httptest.PerformRequestWithCookies(t, router, http.MethodPost, "/api/auth/logout", nil, cookies, "")
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
}
