//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"tool-rental/internal/domain/auth"
	"tool-rental/internal/domain/user"
	"tool-rental/internal/handler/api"
	"tool-rental/internal/handler/middleware"
	resdto "tool-rental/internal/handler/dto/response"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/config"
	"tool-rental/internal/pkg/errs"
	"tool-rental/internal/usecase/commands"
	"tool-rental/internal/usecase/queries"
	"tool-rental/tests/common/builder"
	"tool-rental/tests/common/httptest"
	"tool-rental/tests/common/testutil"
	commandsmock "tool-rental/tests/mock/commands"
	queriesmock "tool-rental/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockAuthCommands
	mockQueries  *queriesmock.MockUserQueries
	clock        *clock.MockClock
	cfg          config.Config
	handler      *api.AuthHandler
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAuthCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockUserQueries(s.mockCtrl)
	s.clock = clock.NewMockClock(time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC))
	s.cfg = config.NewTestConfig()
	s.handler = api.NewAuthHandler(s.mockCommands, s.mockQueries, s.clock, s.cfg)

	s.router.POST("/auth/login", s.handler.Login)
	s.router.POST("/auth/logout", s.handler.Logout)
	s.router.GET("/auth/users", s.handler.Users)
	s.router.GET("/auth/me", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			middleware.SetPrincipal(c, manager)
		}
		s.handler.Me(c)
	})
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) loginResult() *commands.LoginResult {
	return &commands.LoginResult{
		Token:     "signed-session",
		ExpiresAt: s.clock.Now().Add(12 * time.Hour),
		Principal: auth.Principal{
			EmployeeID:  4711,
			DisplayName: "JD - Jane Doe",
			Name:        "Jane Doe",
			Initials:    "JD",
			Role:        user.RoleUser,
			Rights:      user.BaselineRights(user.RoleUser),
		},
	}
}

func (s *AuthHandlerTestSuite) TestLogin() {
	url := "/auth/login"
	reqBody := builder.NewAuthBuilder().BuildDTO()

	s.Run("success: PIN login sets the session cookie", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in commands.LoginInput) (*commands.LoginResult, error) {
				s.Equal(int64(4711), in.EmployeeID)
				s.Equal("1234", in.Password)
				s.Empty(in.Username)
				s.NotEmpty(in.ClientIP)
				return s.loginResult(), nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body resdto.LoginResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("signed-session", body.Token)
		s.Equal("JD - Jane Doe", body.User.DisplayName)
		s.True(body.User.Rights.Checkout)
		s.False(body.User.Rights.ManageUsers)

		cookie := httptest.ExtractCookie(rec, s.cfg.Session.CookieName)
		s.Require().NotNil(cookie)
		s.Equal("signed-session", cookie.Value)
		s.Equal(int((12 * time.Hour).Seconds()), cookie.MaxAge)
		s.True(cookie.HttpOnly)
	})

	s.Run("success: admin login passes the password", func() {
		admin := builder.NewAuthBuilder().AsAdmin("admin", "admin-test-pin").BuildDTO()
		s.mockCommands.EXPECT().Login(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in commands.LoginInput) (*commands.LoginResult, error) {
				s.Equal("admin", in.Username)
				s.Equal("admin-test-pin", in.Password)
				return s.loginResult(), nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, admin, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 on a malformed body", func() {
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("employeeID", "abc"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "invalid credentials",
				commandsError:  commands.ErrInvalidCredentials,
				expectedStatus: http.StatusUnauthorized,
				expectedMsg:    "invalid credentials",
			},
			{
				name:           "missing identity",
				commandsError:  commands.ErrMissingIdentity,
				expectedStatus: http.StatusBadRequest,
			},
			{
				name:           "internal server error",
				commandsError:  errs.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, tc.commandsError)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
				s.Nil(httptest.ExtractCookie(rec, s.cfg.Session.CookieName))
			})
		}
	})

	s.Run("error: 429 with Retry-After while locked out", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(&commands.LockedOutError{RetryAfter: 600}, errs.ErrTooManyAttempts))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusTooManyRequests, "too many login attempts")
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Retry-After": "600"})
	})
}

func (s *AuthHandlerTestSuite) TestLogout() {
	s.Run("success: revokes the bearer token and clears the cookie", func() {
		s.mockCommands.EXPECT().Logout(gomock.Any(), "signed-session").Return(nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/auth/logout", nil, "signed-session")

		s.Equal(http.StatusNoContent, rec.Code)
		cookie := httptest.ExtractCookie(rec, s.cfg.Session.CookieName)
		s.Require().NotNil(cookie)
		s.Empty(cookie.Value)
		s.Negative(cookie.MaxAge)
	})

	s.Run("success: reads the token from the cookie", func() {
		s.mockCommands.EXPECT().Logout(gomock.Any(), "from-cookie").Return(nil)

		cookies := []*http.Cookie{{Name: s.cfg.Session.CookieName, Value: "from-cookie"}}
		rec := httptest.PerformRequestWithCookies(s.T(), s.router, http.MethodPost, "/auth/logout", nil, cookies, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 503 when revocation storage is down", func() {
		s.mockCommands.EXPECT().Logout(gomock.Any(), "signed-session").
			Return(errs.Mark(errs.New("failed to store revoked session"), errs.ErrServiceUnavailable))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/auth/logout", nil, "signed-session")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusServiceUnavailable, "")
	})
}

func (s *AuthHandlerTestSuite) TestMe() {
	s.Run("success: returns the session principal", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/auth/me", nil, "signed-session")

		var body resdto.PrincipalResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(manager.EmployeeID, body.EmployeeID)
		s.Equal("Admin", body.Role)
		s.True(body.Rights.ManageUsers)
	})

	s.Run("error: 401 without a principal", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/auth/me", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "")
	})
}

func (s *AuthHandlerTestSuite) TestUsers() {
	s.mockQueries.EXPECT().LoginUsers(gomock.Any()).Return([]queries.AuthUserView{
		{EmployeeID: 4711, DisplayName: "JD - Jane Doe"},
		{EmployeeID: 4712, DisplayName: "MM - Max Muster"},
	}, nil)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/auth/users", nil, "")

	var body []resdto.LoginUserResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.Equal([]resdto.LoginUserResponse{
		{EmployeeID: 4711, DisplayName: "JD - Jane Doe"},
		{EmployeeID: 4712, DisplayName: "MM - Max Muster"},
	}, body)
}
