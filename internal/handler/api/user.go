package api

import (
	"net/http"

	reqdto "tool-rental/internal/handler/dto/request"
	resdto "tool-rental/internal/handler/dto/response"
	"tool-rental/internal/handler/httperr"
	"tool-rental/internal/usecase/commands"
	"tool-rental/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	cmds      commands.UserCommands
	q         queries.UserQueries
	employees queries.EmployeeQueries
}

func NewUserHandler(cmds commands.UserCommands, q queries.UserQueries, employees queries.EmployeeQueries) *UserHandler {
	return &UserHandler{cmds: cmds, q: q, employees: employees}
}

// @Summary List users
// @Description Directory employees merged with their access records
// @Tags admin
// @Produce json
// @Security SessionToken
// @Success 200 {array} resdto.UserResponse
// @Failure 403 {object} httperr.Response
// @Router /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	views, err := h.q.List(c.Request.Context())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp, err := resdto.FromUserViews(views)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Grant access
// @Tags admin
// @Accept json
// @Produce json
// @Security SessionToken
// @Param request body reqdto.CreateUserRequest true "Access record"
// @Success 201 {object} resdto.UserResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}
	var req reqdto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	account, err := h.cmds.Create(c.Request.Context(), req.ToInput(), actor)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	h.respond(c, http.StatusCreated, account.EmployeeID())
}

// @Summary Update access
// @Description Change role, rights or PIN of an access record
// @Tags admin
// @Accept json
// @Produce json
// @Security SessionToken
// @Param employeeID path int true "Employee ID"
// @Param request body reqdto.UpdateUserRequest true "Changes"
// @Success 200 {object} resdto.UserResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/users/{employeeID} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "employeeID")
	if !ok {
		return
	}
	actor, ok := principal(c)
	if !ok {
		return
	}
	var req reqdto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.cmds.Update(c.Request.Context(), id, req.ToInput(), actor); err != nil {
		httperr.Abort(c, err)
		return
	}
	h.respond(c, http.StatusOK, id)
}

// @Summary Revoke access
// @Tags admin
// @Security SessionToken
// @Param employeeID path int true "Employee ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/users/{employeeID} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "employeeID")
	if !ok {
		return
	}
	actor, ok := principal(c)
	if !ok {
		return
	}
	if err := h.cmds.Delete(c.Request.Context(), id, actor); err != nil {
		httperr.Abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List employees
// @Description Employee directory sorted by name
// @Tags employees
// @Produce json
// @Security SessionToken
// @Param refresh query bool false "Bypass the cache"
// @Success 200 {array} resdto.EmployeeResponse
// @Failure 503 {object} httperr.Response
// @Router /employees [get]
func (h *UserHandler) Employees(c *gin.Context) {
	entries, err := h.employees.List(c.Request.Context(), c.Query("refresh") == "true")
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromEmployees(entries))
}

// @Summary Directory status
// @Tags employees
// @Produce json
// @Security SessionToken
// @Success 200 {object} resdto.DirectoryStatusResponse
// @Router /employees/status [get]
func (h *UserHandler) EmployeeStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.employees.Status())
}

func (h *UserHandler) respond(c *gin.Context, status int, employeeID int64) {
	view, err := h.q.Get(c.Request.Context(), employeeID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp, err := resdto.FromUserView(view)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(status, resp)
}
