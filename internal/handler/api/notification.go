package api

import (
	"net/http"

	resdto "tool-rental/internal/handler/dto/response"
	"tool-rental/internal/handler/httperr"
	"tool-rental/internal/usecase/commands"
	"tool-rental/internal/usecase/queries"
	"tool-rental/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	cmds commands.NotificationCommands
	q    queries.NotificationQueries
}

func NewNotificationHandler(cmds commands.NotificationCommands, q queries.NotificationQueries) *NotificationHandler {
	return &NotificationHandler{cmds: cmds, q: q}
}

// @Summary Run reminder sweep
// @Description Enqueue due-soon and overdue reminders now
// @Tags notifications
// @Produce json
// @Security SessionToken
// @Success 200 {object} resdto.NotificationRunResponse
// @Router /notifications/run [post]
func (h *NotificationHandler) Run(c *gin.Context) {
	created, err := h.cmds.Sweep(c.Request.Context())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.NotificationRunResponse{Created: created})
}

// @Summary Pending notifications
// @Tags notifications
// @Produce json
// @Security SessionToken
// @Param limit query int false "Max items (default 500)"
// @Success 200 {object} resdto.NotificationListResponse
// @Router /notifications/pending [get]
func (h *NotificationHandler) Pending(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	items, err := h.q.Pending(c.Request.Context(), limit)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	if items == nil {
		items = []shared.Notification{}
	}
	c.JSON(http.StatusOK, resdto.NotificationListResponse{Notifications: items})
}
