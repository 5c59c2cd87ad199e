package api

import (
	"net/http"

	reqdto "tool-rental/internal/handler/dto/request"
	resdto "tool-rental/internal/handler/dto/response"
	"tool-rental/internal/handler/httperr"
	"tool-rental/internal/handler/middleware"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/config"
	"tool-rental/internal/pkg/cookie"
	"tool-rental/internal/usecase/commands"
	"tool-rental/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	cmds    commands.AuthCommands
	users   queries.UserQueries
	session config.SessionConfig
	clock   clock.Clock
}

func NewAuthHandler(cmds commands.AuthCommands, users queries.UserQueries, clk clock.Clock, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		cmds:    cmds,
		users:   users,
		session: cfg.Session,
		clock:   clk,
	}
}

// @Summary Login
// @Description Login with the local admin username and password, or with an employee id and PIN
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.cmds.Login(c.Request.Context(), req.ToInput(c.ClientIP()))
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	ttl := result.ExpiresAt.Sub(h.clock.Now())
	if ttl <= 0 {
		ttl = h.session.TTL
	}
	cookie.SetSessionCookie(c, h.session, result.Token, ttl)
	c.JSON(http.StatusOK, resdto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      resdto.FromPrincipal(result.Principal),
	})
}

// @Summary Logout
// @Description Revoke the current session and clear the session cookie
// @Tags auth
// @Security SessionToken
// @Success 204 "No Content"
// @Failure 503 {object} httperr.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.SessionToken(c, h.session)
	if err := h.cmds.Logout(c.Request.Context(), token); err != nil {
		httperr.Abort(c, err)
		return
	}
	cookie.ClearSessionCookie(c, h.session)
	c.Status(http.StatusNoContent)
}

// @Summary Current user
// @Tags auth
// @Security SessionToken
// @Produce json
// @Success 200 {object} resdto.PrincipalResponse
// @Failure 401 {object} httperr.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resdto.FromPrincipal(p))
}

// @Summary Login users
// @Description Active provisioned users for the login picker
// @Tags auth
// @Produce json
// @Success 200 {array} resdto.LoginUserResponse
// @Router /auth/users [get]
func (h *AuthHandler) Users(c *gin.Context) {
	views, err := h.users.LoginUsers(c.Request.Context())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromLoginUsers(views))
}
