//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"tool-rental/internal/domain/user"
	"tool-rental/internal/handler/dto/request"
	"tool-rental/internal/handler/dto/response"
	"tool-rental/tests/common/authtest"
	"tool-rental/tests/common/dbtest"
	"tool-rental/tests/common/httptest"
	"tool-rental/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	loginURL  = "/api/auth/login"
	logoutURL = "/api/auth/logout"
	meURL     = "/api/auth/me"
	usersURL  = "/api/auth/users"
)

type authSuite struct {
	e2e.SharedSuite
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	dbtest.CreateTestAccount(s.T(), s.DB, 2001, string(user.RoleUser))
	dbtest.CreateTestAccount(s.T(), s.DB, 2002, string(user.RoleUser))
	dbtest.DeactivateAccount(s.T(), s.DB, 2002)
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		req            request.LoginRequest
		expectedStatus int
		localAdmin     bool
	}{
		{
			name:           "employee with default PIN",
			req:            request.LoginRequest{EmployeeID: 2001, PinCode: "1234"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "local admin",
			req:            request.LoginRequest{Username: "admin", Password: "admin-test-pin"},
			expectedStatus: http.StatusOK,
			localAdmin:     true,
		},
		{
			name:           "wrong PIN",
			req:            request.LoginRequest{EmployeeID: 2001, PinCode: "9999"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown employee",
			req:            request.LoginRequest{EmployeeID: 3999, PinCode: "1234"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "inactive account",
			req:            request.LoginRequest{EmployeeID: 2002, PinCode: "1234"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong admin password",
			req:            request.LoginRequest{Username: "admin", Password: "nope"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "no identity",
			req:            request.LoginRequest{PinCode: "1234"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, tt.req, "")
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var res response.LoginResponse
				require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
				require.NotEmpty(t, res.Token)
				require.Equal(t, tt.localAdmin, res.User.IsLocalAdmin)
				require.NotNil(t, httptest.ExtractCookie(w, s.Config.Session.CookieName))

				if !tt.localAdmin {
					actions := loginAudit(t, s, tt.req.EmployeeID)
					require.Contains(t, actions, "LoginSuccess")
				}
			}
		})
	}
}

func (s *authSuite) TestLogout() {
	s.Run("revoked token is rejected afterwards", func() {
		t := s.T()

		token := authtest.LoginEmployee(t, s.Router, s.Config.Session.CookieName, 2001, "1234")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, logoutURL, nil, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("logout without a session succeeds", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, logoutURL, nil, "")
		require.Equal(s.T(), http.StatusNoContent, w.Code)
	})
}

func (s *authSuite) TestMe() {
	s.Run("employee", func() {
		t := s.T()

		token := authtest.LoginEmployee(t, s.Router, s.Config.Session.CookieName, 2001, "1234")
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)

		var res response.PrincipalResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
		require.Equal(t, int64(2001), res.EmployeeID)
		require.Equal(t, string(user.RoleUser), res.Role)
		require.True(t, res.Rights.Checkout)
		require.False(t, res.Rights.ManageUsers)
	})

	s.Run("invalid token", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, meURL, nil, "invalid-token")
		require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})

	s.Run("no token", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, meURL, nil, "")
		require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})
}

func (s *authSuite) TestLoginUsers() {
	s.Run("lists active accounts only", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, usersURL, nil, "")

		var res []response.LoginUserResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)

		ids := make([]int64, 0, len(res))
		for _, u := range res {
			ids = append(ids, u.EmployeeID)
		}
		require.Contains(t, ids, int64(2001))
		require.NotContains(t, ids, int64(2002))
	})
}

func (s *authSuite) TestRightsEnforced() {
	s.Run("user without manageUsers", func() {
		t := s.T()

		token := authtest.LoginEmployee(t, s.Router, s.Config.Session.CookieName, 2001, "1234")
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/admin/users", nil, token)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	s.Run("local admin", func() {
		t := s.T()

		token := authtest.LoginAdmin(t, s.Router, s.Config.Session.CookieName, "admin", "admin-test-pin")
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/admin/users", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})
}

func loginAudit(t *testing.T, s *authSuite, employeeID int64) []string {
	t.Helper()

	rows, err := s.DB.Query(t.Context(),
		"SELECT action FROM audit_logs WHERE entity_type = 'Auth' AND user_id = $1 ORDER BY id", employeeID)
	require.NoError(t, err)
	defer rows.Close()

	var actions []string
	for rows.Next() {
		var a string
		require.NoError(t, rows.Scan(&a))
		actions = append(actions, a)
	}
	require.NoError(t, rows.Err())
	return actions
}
