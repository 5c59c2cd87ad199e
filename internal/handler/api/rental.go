package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tool-rental/internal/domain/auth"
	reqdto "tool-rental/internal/handler/dto/request"
	resdto "tool-rental/internal/handler/dto/response"
	"tool-rental/internal/handler/httperr"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/errs"
	"tool-rental/internal/usecase/commands"
	"tool-rental/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type RentalHandler struct {
	cmds commands.RentalCommands
	q    queries.RentalQueries
}

func NewRentalHandler(cmds commands.RentalCommands, q queries.RentalQueries) *RentalHandler {
	return &RentalHandler{cmds: cmds, q: q}
}

// @Summary Create rental
// @Description Create an offer or a reservation. Lines start unassigned.
// @Tags rentals
// @Accept json
// @Produce json
// @Security SessionToken
// @Param request body reqdto.CreateRentalRequest true "Create rental request"
// @Success 201 {object} resdto.RentalResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /rentals [post]
func (h *RentalHandler) Create(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}
	var req reqdto.CreateRentalRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	result, err := h.cmds.Create(c.Request.Context(), in, actor)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/rentals/%d", result.RentalID))
	h.respond(c, http.StatusCreated, result.RentalID)
}

// @Summary List rentals
// @Description List rentals newest first with keyset pagination
// @Tags rentals
// @Produce json
// @Security SessionToken
// @Param status query string false "Status filter"
// @Param employeeID query int false "Employee filter"
// @Param q query string false "Search rental number, purpose or project code"
// @Param limit query int false "Max items (default 50)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.RentalListResponse
// @Failure 400 {object} httperr.Response
// @Router /rentals [get]
func (h *RentalHandler) List(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}
	views, next, err := h.q.List(c.Request.Context(), filter, cursor, limit)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp, err := resdto.FromRentalViews(views, next)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get rental
// @Description Get a rental with its line items. Active rentals past their end date are promoted to Overdue.
// @Tags rentals
// @Produce json
// @Security SessionToken
// @Param id path int true "Rental ID"
// @Success 200 {object} resdto.RentalResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /rentals/{id} [get]
func (h *RentalHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.respond(c, http.StatusOK, id)
}

// @Summary Approve or reject a reservation
// @Tags rentals
// @Accept json
// @Produce json
// @Security SessionToken
// @Param id path int true "Rental ID"
// @Param request body reqdto.DecisionRequest true "Decision"
// @Success 200 {object} resdto.DecisionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /rentals/{id}/decision [post]
func (h *RentalHandler) Decide(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor, ok := principal(c)
	if !ok {
		return
	}
	var req reqdto.DecisionRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	result, err := h.cmds.Decide(c.Request.Context(), id, in, actor)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	view, err := h.q.Get(c.Request.Context(), result.RentalID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp, err := resdto.NewDecisionResponse(view, result)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Mark items for rental
// @Description Record the pickup of line items. A reserved rental becomes active with its first pickup.
// @Tags rentals
// @Accept json
// @Produce json
// @Security SessionToken
// @Param id path int true "Rental ID"
// @Param request body reqdto.MarkItemsRequest true "Picked items"
// @Success 200 {object} resdto.RentalResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /rentals/{id}/mark-items [post]
func (h *RentalHandler) MarkItems(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor, ok := principal(c)
	if !ok {
		return
	}
	var req reqdto.MarkItemsRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.cmds.MarkItems(c.Request.Context(), id, req.ToMarks(), actor); err != nil {
		httperr.Abort(c, err)
		return
	}
	h.respond(c, http.StatusOK, id)
}

// @Summary Receive marked items
// @Description Record partial returns. The rental completes once no line has open quantity.
// @Tags rentals
// @Accept json
// @Produce json
// @Security SessionToken
// @Param id path int true "Rental ID"
// @Param request body reqdto.ReceiveItemsRequest true "Received items"
// @Success 200 {object} resdto.ReceiveResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /rentals/{id}/receive-items [post]
func (h *RentalHandler) ReceiveItems(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor, ok := principal(c)
	if !ok {
		return
	}
	var req reqdto.ReceiveItemsRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.cmds.ReceiveItems(c.Request.Context(), id, req.ToMarks(), actor)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp, ok := h.load(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resdto.ReceiveResponse{RentalResponse: resp, Completed: result.Completed})
}

// @Summary Extend rental
// @Description Move the end date of an active rental after certification and overlap checks
// @Tags rentals
// @Accept json
// @Produce json
// @Security SessionToken
// @Param id path int true "Rental ID"
// @Param request body reqdto.ExtendRequest true "New end date"
// @Success 200 {object} resdto.RentalResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /rentals/{id}/extend [post]
func (h *RentalHandler) Extend(c *gin.Context) {
	h.extend(c, h.cmds.Extend)
}

// @Summary Force-extend rental
// @Description Move the end date without certification or overlap checks
// @Tags rentals
// @Accept json
// @Produce json
// @Security SessionToken
// @Param id path int true "Rental ID"
// @Param request body reqdto.ExtendRequest true "New end date"
// @Success 200 {object} resdto.RentalResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /rentals/{id}/force-extend [post]
func (h *RentalHandler) ForceExtend(c *gin.Context) {
	h.extend(c, h.cmds.ForceExtend)
}

// @Summary Cancel rental
// @Description Cancel an offer or a reservation
// @Tags rentals
// @Produce json
// @Security SessionToken
// @Param id path int true "Rental ID"
// @Success 200 {object} resdto.RentalResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /rentals/{id}/cancel [post]
func (h *RentalHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor, ok := principal(c)
	if !ok {
		return
	}
	if _, err := h.cmds.Cancel(c.Request.Context(), id, actor); err != nil {
		httperr.Abort(c, err)
		return
	}
	h.respond(c, http.StatusOK, id)
}

// @Summary Return rental
// @Tags rentals
// @Accept json
// @Produce json
// @Security SessionToken
// @Param id path int true "Rental ID"
// @Param request body reqdto.ReturnRequest true "Return condition"
// @Success 200 {object} resdto.RentalResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /rentals/{id}/return [post]
func (h *RentalHandler) Return(c *gin.Context) {
	h.closeOut(c, h.cmds.Return)
}

// @Summary Force-return rental
// @Description Return a rental from any non-terminal state
// @Tags rentals
// @Accept json
// @Produce json
// @Security SessionToken
// @Param id path int true "Rental ID"
// @Param request body reqdto.ReturnRequest true "Return condition"
// @Success 200 {object} resdto.RentalResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /rentals/{id}/force-return [post]
func (h *RentalHandler) ForceReturn(c *gin.Context) {
	h.closeOut(c, h.cmds.ForceReturn)
}

// @Summary Mark rental lost
// @Description Close the rental as lost and record the loss amount
// @Tags rentals
// @Produce json
// @Security SessionToken
// @Param id path int true "Rental ID"
// @Success 200 {object} resdto.RentalResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /rentals/{id}/lost [post]
func (h *RentalHandler) MarkLost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor, ok := principal(c)
	if !ok {
		return
	}
	if _, err := h.cmds.MarkLost(c.Request.Context(), id, actor); err != nil {
		httperr.Abort(c, err)
		return
	}
	h.respond(c, http.StatusOK, id)
}

// @Summary Export rentals
// @Description Download the filtered rental list as a spreadsheet
// @Tags rentals
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security SessionToken
// @Param status query string false "Status filter"
// @Param employeeID query int false "Employee filter"
// @Param q query string false "Search"
// @Success 200 {file} binary
// @Router /rentals/export [get]
func (h *RentalHandler) Export(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}
	file, err := h.q.Export(c.Request.Context(), filter)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// @Summary Get offer
// @Tags offers
// @Produce json
// @Security SessionToken
// @Param number path string true "Offer number"
// @Success 200 {object} resdto.RentalResponse
// @Failure 404 {object} httperr.Response
// @Router /offers/{number} [get]
func (h *RentalHandler) GetOffer(c *gin.Context) {
	view, err := h.q.GetOffer(c.Request.Context(), c.Param("number"))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp, err := resdto.FromRentalView(view)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Check out offer
// @Description Convert an offer into a reservation and close the offer
// @Tags offers
// @Accept json
// @Produce json
// @Security SessionToken
// @Param number path string true "Offer number"
// @Param request body reqdto.CheckoutOfferRequest true "Reservation details"
// @Success 201 {object} resdto.RentalResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /offers/{number}/checkout [post]
func (h *RentalHandler) CheckoutOffer(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}
	var req reqdto.CheckoutOfferRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	result, err := h.cmds.CheckoutOffer(c.Request.Context(), c.Param("number"), in, actor)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/rentals/%d", result.RentalID))
	h.respond(c, http.StatusCreated, result.RentalID)
}

// @Summary Tool availability
// @Description Free instances of a tool for a date range, ranked for allocation
// @Tags availability
// @Produce json
// @Security SessionToken
// @Param toolID query int true "Tool ID"
// @Param startDate query string true "Start date (YYYY-MM-DD)"
// @Param endDate query string true "End date (YYYY-MM-DD)"
// @Param quantity query int false "Requested quantity (default 1)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /availability [get]
func (h *RentalHandler) Availability(c *gin.Context) {
	toolID, ok := queryInt(c, "toolID")
	if !ok {
		return
	}
	if toolID <= 0 {
		httperr.Abort(c, errs.Wrap(ErrInvalidID, "toolID"))
		return
	}
	quantity, ok := queryInt(c, "quantity")
	if !ok {
		return
	}
	start, err := clock.ParseDate(c.Query("startDate"))
	if err != nil {
		httperr.Abort(c, errs.Wrap(reqdto.ErrInvalidDate, "startDate"))
		return
	}
	end, err := clock.ParseDate(c.Query("endDate"))
	if err != nil {
		httperr.Abort(c, errs.Wrap(reqdto.ErrInvalidDate, "endDate"))
		return
	}
	view, err := h.q.Availability(c.Request.Context(), queries.AvailabilityInput{
		ToolID:    int64(toolID),
		StartDate: start,
		EndDate:   end,
		Quantity:  quantity,
	})
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp, err := resdto.FromAvailabilityView(view)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Search project codes
// @Tags projects
// @Produce json
// @Security SessionToken
// @Param q query string false "Prefix or fragment"
// @Param limit query int false "Max items (default 10)"
// @Success 200 {array} resdto.ProjectResponse
// @Router /projects/search [get]
func (h *RentalHandler) SearchProjects(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	views, err := h.q.SearchProjects(c.Request.Context(), strings.TrimSpace(c.Query("q")), limit)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromProjectViews(views))
}

// @Summary Kiosk lend
// @Description Self-service lending: verifies the employee PIN, reserves and hands out the items at once
// @Tags kiosk
// @Accept json
// @Produce json
// @Param request body reqdto.KioskLendRequest true "Kiosk lend request"
// @Success 201 {object} resdto.KioskLendResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /kiosk/lend [post]
func (h *RentalHandler) KioskLend(c *gin.Context) {
	var req reqdto.KioskLendRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	result, err := h.cmds.KioskLend(c.Request.Context(), in)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	view, err := h.q.Get(c.Request.Context(), result.RentalID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp, err := resdto.NewKioskLendResponse(view, result)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

type extendFunc func(ctx context.Context, rentalID int64, newEnd time.Time, actor auth.Principal) (*commands.RentalResult, error)

func (h *RentalHandler) extend(c *gin.Context, run extendFunc) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor, ok := principal(c)
	if !ok {
		return
	}
	var req reqdto.ExtendRequest
	if !bindJSON(c, &req) {
		return
	}
	newEnd, err := req.ToDate()
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	if _, err := run(c.Request.Context(), id, newEnd, actor); err != nil {
		httperr.Abort(c, err)
		return
	}
	h.respond(c, http.StatusOK, id)
}

type closeOutFunc func(ctx context.Context, rentalID int64, in commands.ReturnInput, actor auth.Principal) (*commands.RentalResult, error)

func (h *RentalHandler) closeOut(c *gin.Context, run closeOutFunc) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor, ok := principal(c)
	if !ok {
		return
	}
	var req reqdto.ReturnRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := run(c.Request.Context(), id, req.ToInput(), actor); err != nil {
		httperr.Abort(c, err)
		return
	}
	h.respond(c, http.StatusOK, id)
}

// load reads the rental back after a command so clients see the committed state.
func (h *RentalHandler) load(c *gin.Context, id int64) (*resdto.RentalResponse, bool) {
	view, err := h.q.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err)
		return nil, false
	}
	resp, err := resdto.FromRentalView(view)
	if err != nil {
		httperr.Abort(c, err)
		return nil, false
	}
	return resp, true
}

func (h *RentalHandler) respond(c *gin.Context, status int, id int64) {
	if resp, ok := h.load(c, id); ok {
		c.JSON(status, resp)
	}
}

func listFilter(c *gin.Context) (queries.ListFilter, bool) {
	filter := queries.ListFilter{
		Status: strings.TrimSpace(c.Query("status")),
		Query:  strings.TrimSpace(c.Query("q")),
	}
	employeeID, ok := queryInt(c, "employeeID")
	if !ok {
		return filter, false
	}
	if employeeID > 0 {
		id := int64(employeeID)
		filter.EmployeeID = &id
	}
	return filter, true
}
