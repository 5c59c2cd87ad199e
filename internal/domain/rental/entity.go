package rental

import (
	"strings"
	"time"

	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/pkg/clock"

	"github.com/shopspring/decimal"
)

type AssignmentMode string

const (
	AssignAuto   AssignmentMode = "auto"
	AssignManual AssignmentMode = "manual"
)

func (m AssignmentMode) IsValid() bool {
	return m == AssignAuto || m == AssignManual
}

// Loss is recorded when a rental is marked lost.
type Loss struct {
	Amount       decimal.Decimal
	Reason       string
	CalculatedAt time.Time
}

// Rental is the reservation header together with its line items.
type Rental struct {
	ID                int64
	Number            string
	EmployeeID        int64
	Purpose           string
	ProjectCode       *string
	Status            Status
	StartDate         time.Time
	EndDate           time.Time
	ActualStart       *time.Time
	ActualEnd         *time.Time
	TotalCost         decimal.Decimal
	ApprovedBy        *int64
	ApprovalDate      *time.Time
	CheckoutCondition *string
	ReturnCondition   *string
	Notes             string
	Loss              *Loss
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Items             []*LineItem
}

// LineItem is one demand or assignment record of a rental.
type LineItem struct {
	ID                  int64
	RentalID            int64
	ToolID              int64
	InstanceID          *int64
	PreferredInstanceID *int64
	AssignmentMode      AssignmentMode
	Quantity            int
	DailyCost           decimal.Decimal
	TotalCost           decimal.Decimal
	CheckoutNotes       string
	Deficit             bool
	Lifecycle           Lifecycle
}

// InstanceChange is an instance status update produced by an operation.
type InstanceChange struct {
	InstanceID int64
	Status     inventory.InstanceStatus
}

// Effects are the inventory side effects an operation asks the caller to persist.
type Effects struct {
	Instances []InstanceChange
	// ReleaseIfHeld lists instances to set Available when currently Reserved or Rented.
	ReleaseIfHeld []int64
	// ToolsAvailable lists tool ids whose own status is reset to Available.
	ToolsAvailable []int64
}

func (e *Effects) set(instanceID int64, status inventory.InstanceStatus) {
	e.Instances = append(e.Instances, InstanceChange{InstanceID: instanceID, Status: status})
}

func (e *Effects) merge(other Effects) {
	e.Instances = append(e.Instances, other.Instances...)
	e.ReleaseIfHeld = append(e.ReleaseIfHeld, other.ReleaseIfHeld...)
	e.ToolsAvailable = append(e.ToolsAvailable, other.ToolsAvailable...)
}

func (l *LineItem) IsBound() bool {
	return l.InstanceID != nil
}

// Mark appends a lifecycle event.
func (l *LineItem) Mark(state LineState, at time.Time, operator *int64, extra Extra) {
	l.Lifecycle.Append(state, at, operator, extra)
}

func (l *LineItem) State() LineState {
	return l.Lifecycle.State
}

// IsInvoiceable reports whether the line's units are out with the borrower.
func (l *LineItem) IsInvoiceable() bool {
	return l.Lifecycle.State == LinePickedUp
}

// Period returns the rental date range.
func (r *Rental) Period() inventory.Period {
	return inventory.Period{Start: r.StartDate, End: r.EndDate}
}

func (r *Rental) Line(id int64) *LineItem {
	for _, item := range r.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// Refresh promotes an Active rental past its end date to Overdue.
// It reports whether the status changed.
func (r *Rental) Refresh(today time.Time) bool {
	if NormalizeStatus(string(r.Status)) == StatusActive && r.EndDate.Before(today) {
		r.Status = StatusOverdue
		return true
	}
	return false
}

// TransitionTo moves the rental along the transition table. Moving to the
// current status is a no-op.
func (r *Rental) TransitionTo(target Status) error {
	from := NormalizeStatus(string(r.Status))
	to := NormalizeStatus(string(target))
	if from == to {
		r.Status = to
		return nil
	}
	if !CanTransition(from, to) {
		return invalidTransition(from, to)
	}
	r.Status = to
	return nil
}

func (r *Rental) current() Status {
	return NormalizeStatus(string(r.Status))
}

func (r *Rental) statusIn(statuses ...Status) bool {
	cur := r.current()
	for _, s := range statuses {
		if cur == s {
			return true
		}
	}
	return false
}

// HasOpenQuantity reports whether any line still carries quantity that has not
// come back. Returned split lines keep their quantity for billing and do not count.
func (r *Rental) HasOpenQuantity() bool {
	for _, item := range r.Items {
		if item.Quantity > 0 && item.State() != LineReturned {
			return true
		}
	}
	return false
}

func (r *Rental) HasDeficit() bool {
	return r.DeficitQuantity() > 0
}

func (r *Rental) DeficitQuantity() int {
	total := 0
	for _, item := range r.Items {
		if item.Deficit && item.Quantity > 0 {
			total += item.Quantity
		}
	}
	return total
}

func (r *Rental) InvoiceableQuantity() int {
	total := 0
	for _, item := range r.Items {
		if item.IsInvoiceable() {
			total += item.Quantity
		}
	}
	return total
}

// BoundInstanceIDs returns instance ids of lines that still hold their instance.
func (r *Rental) BoundInstanceIDs() []int64 {
	var ids []int64
	for _, item := range r.Items {
		if item.IsBound() && item.Quantity > 0 {
			ids = append(ids, *item.InstanceID)
		}
	}
	return ids
}

func (r *Rental) appendNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	r.Notes = strings.TrimSpace(r.Notes + "\n" + note)
}

func (r *Rental) addLine(item *LineItem) *LineItem {
	item.RentalID = r.ID
	r.Items = append(r.Items, item)
	return item
}

func today(now time.Time) time.Time {
	return clock.DateOf(now)
}
