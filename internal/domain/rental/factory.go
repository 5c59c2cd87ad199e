package rental

import (
	"strings"
	"time"

	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/pkg/errs"
	"tool-rental/internal/pkg/ptr"

	"github.com/shopspring/decimal"
)

const (
	notesOffer     = "OFFER: not reserved"
	notesRequested = "REQUESTED: awaiting approval"
)

// LineRequest is one requested line of a new rental.
type LineRequest struct {
	ToolID         int64
	Quantity       int
	InstanceID     *int64
	AssignmentMode string
	// DailyCost overrides the tool's current rate, e.g. when converting an offer.
	DailyCost *decimal.Decimal
}

type CreateParams struct {
	Number      string
	EmployeeID  int64
	Purpose     string
	ProjectCode *string
	Status      Status
	StartDate   time.Time
	EndDate     time.Time
	Notes       string
	Lines       []LineRequest
}

// ResolveCreateStatus normalizes the requested initial status. Only Offer and
// Reserved are accepted; empty means Reserved.
func ResolveCreateStatus(raw string) (Status, error) {
	status := NormalizeStatus(raw)
	if status != StatusOffer && status != StatusReserved {
		return "", errs.Wrapf(ErrInvalidCreateStatus, "got %q", raw)
	}
	return status, nil
}

// New builds a rental whose lines are all unassigned requests.
func New(p CreateParams, tools map[int64]*inventory.Tool, actor *int64, now time.Time) (*Rental, error) {
	if _, err := inventory.NewPeriod(p.StartDate, p.EndDate); err != nil {
		return nil, err
	}
	status, err := ResolveCreateStatus(string(p.Status))
	if err != nil {
		return nil, err
	}

	state, notes := LinePendingApproval, notesRequested
	if status == StatusOffer {
		state, notes = LineOffer, notesOffer
	}

	r := &Rental{
		Number:      p.Number,
		EmployeeID:  p.EmployeeID,
		Purpose:     strings.TrimSpace(p.Purpose),
		ProjectCode: p.ProjectCode,
		Status:      status,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Notes:       strings.TrimSpace(p.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, req := range p.Lines {
		tool, ok := tools[req.ToolID]
		if !ok || tool == nil {
			return nil, errs.Wrapf(ErrToolNotFound, "tool %d", req.ToolID)
		}
		mode, err := resolveAssignmentMode(req.AssignmentMode, req.InstanceID)
		if err != nil {
			return nil, err
		}
		qty := req.Quantity
		if qty < 1 {
			qty = 1
		}
		daily := ptr.Or(req.DailyCost, tool.DailyRentalCost)

		item := &LineItem{
			ToolID:              tool.ID,
			PreferredInstanceID: req.InstanceID,
			AssignmentMode:      mode,
			Quantity:            qty,
			DailyCost:           daily,
			CheckoutNotes:       notes,
		}
		extra := Extra{"assignmentMode": string(mode), "requestedQuantity": qty}
		if req.InstanceID != nil {
			extra["requestedInstanceID"] = *req.InstanceID
		}
		item.Mark(state, now, actor, extra)
		r.addLine(item)
	}

	r.Recalculate()
	return r, nil
}

func resolveAssignmentMode(raw string, instanceID *int64) (AssignmentMode, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		if instanceID != nil {
			return AssignManual, nil
		}
		return AssignAuto, nil
	}
	mode := AssignmentMode(raw)
	if !mode.IsValid() {
		return "", errs.Wrapf(ErrInvalidAssignmentMode, "got %q", raw)
	}
	return mode, nil
}
