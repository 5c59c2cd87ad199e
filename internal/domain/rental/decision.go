package rental

import (
	"fmt"
	"strings"
	"time"

	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const (
	CancelReason = "Cancelled by warehouse dispatcher"

	notesAutoReserved = "AUTO RESERVED ON APPROVAL"
)

type ShortageActionKind string

const (
	ShortageReplacement ShortageActionKind = "replacement"
	ShortageProcure     ShortageActionKind = "procure"
	ShortageExclude     ShortageActionKind = "exclude"
)

func (k ShortageActionKind) IsValid() bool {
	switch k {
	case ShortageReplacement, ShortageProcure, ShortageExclude:
		return true
	default:
		return false
	}
}

// ShortageAction is the approver's instruction for one request line.
type ShortageAction struct {
	LineID  int64
	Action  ShortageActionKind
	Owner   string
	DueDate string
	Notes   string
}

// Demand is the outstanding requested quantity for one tool.
type Demand struct {
	ToolID    int64
	Quantity  int
	DailyCost decimal.Decimal
	Preferred []int64
	lines     []*LineItem
}

// Allocation summarizes an approval.
type Allocation struct {
	ReservedCount int
	ShortageCount int
}

// Reject closes a reserved rental and asks for its held instances to be released.
func (r *Rental) Reject(reason string, actor *int64, now time.Time) (Effects, error) {
	var fx Effects
	if r.current() != StatusReserved {
		return fx, ErrNotPendingDecision
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fx, ErrMissingReason
	}
	if err := r.TransitionTo(StatusClosed); err != nil {
		return fx, err
	}
	r.appendNote("Rejected: " + reason)
	r.UpdatedAt = now
	fx.ReleaseIfHeld = append(fx.ReleaseIfHeld, r.BoundInstanceIDs()...)
	return fx, nil
}

// Cancel rejects a reserved rental with the dispatcher reason or closes an offer.
// rejected reports which of the two happened.
func (r *Rental) Cancel(actor *int64, now time.Time) (fx Effects, rejected bool, err error) {
	switch r.current() {
	case StatusReserved:
		fx, err = r.Reject(CancelReason, actor, now)
		return fx, err == nil, err
	case StatusOffer:
		if err := r.TransitionTo(StatusClosed); err != nil {
			return fx, false, err
		}
		r.UpdatedAt = now
		return fx, false, nil
	default:
		return fx, false, errs.Wrapf(ErrNotCancellable, "rental is %s", r.current())
	}
}

// ApplyShortageActions records the approver's shortage handling on request lines.
// Actions for unknown lines are ignored.
func (r *Rental) ApplyShortageActions(actions []ShortageAction, actor *int64, now time.Time) error {
	if r.current() != StatusReserved {
		return ErrNotPendingDecision
	}
	for _, a := range actions {
		if !a.Action.IsValid() {
			return errs.Wrapf(ErrInvalidShortageAction, "line %d: %q", a.LineID, a.Action)
		}
	}
	for _, a := range actions {
		item := r.Line(a.LineID)
		if item == nil {
			continue
		}
		extra := Extra{
			"shortageAction":  string(a.Action),
			"shortageOwner":   a.Owner,
			"shortageDueDate": a.DueDate,
			"shortageNotes":   a.Notes,
		}
		if a.Action == ShortageExclude {
			item.Quantity = 0
			item.Mark(LineExcluded, now, actor, extra)
			continue
		}
		item.Mark(LineShortageActionSet, now, actor, extra)
	}
	return nil
}

// OutstandingDemand groups unassigned lines that still request quantity by tool,
// in order of first appearance.
func (r *Rental) OutstandingDemand() []Demand {
	var order []int64
	byTool := make(map[int64]*Demand)
	for _, item := range r.Items {
		if item.IsBound() || item.Quantity <= 0 || item.State().IsOut() {
			continue
		}
		d, ok := byTool[item.ToolID]
		if !ok {
			d = &Demand{ToolID: item.ToolID, DailyCost: item.DailyCost}
			byTool[item.ToolID] = d
			order = append(order, item.ToolID)
		}
		d.Quantity += item.Quantity
		d.lines = append(d.lines, item)
		if item.PreferredInstanceID != nil {
			d.Preferred = append(d.Preferred, *item.PreferredInstanceID)
		}
	}
	out := make([]Demand, 0, len(order))
	for _, toolID := range order {
		out = append(out, *byTool[toolID])
	}
	return out
}

// Allocate binds instances to the outstanding demand. candidates holds, per tool,
// the available instance ids in ranked order; preferred instances present in the
// list are taken first. Unmet quantity becomes one deficit line per tool and the
// request lines are superseded.
func (r *Rental) Allocate(candidates map[int64][]int64, actor *int64, now time.Time) (Allocation, Effects) {
	var (
		result Allocation
		fx     Effects
	)
	taken := make(map[int64]struct{})

	for _, d := range r.OutstandingDemand() {
		picked := pickInstances(candidates[d.ToolID], d.Preferred, d.Quantity, taken)
		for _, id := range picked {
			instanceID := id
			item := r.addLine(&LineItem{
				ToolID:         d.ToolID,
				InstanceID:     &instanceID,
				AssignmentMode: AssignAuto,
				Quantity:       1,
				DailyCost:      d.DailyCost,
				CheckoutNotes:  notesAutoReserved,
			})
			item.Mark(LineReserved, now, actor, Extra{"reservedAt": now.UTC().Format(time.RFC3339)})
			fx.set(instanceID, inventory.InstanceReserved)
			result.ReservedCount++
		}

		if deficit := d.Quantity - len(picked); deficit > 0 {
			item := r.addLine(&LineItem{
				ToolID:         d.ToolID,
				AssignmentMode: AssignAuto,
				Quantity:       deficit,
				DailyCost:      d.DailyCost,
				CheckoutNotes:  fmt.Sprintf("SHORTAGE: %d unit(s) not available at approval", deficit),
				Deficit:        true,
			})
			item.Mark(LinePendingPickup, now, actor, Extra{"deficit": true, "approvedWithShortage": true})
			result.ShortageCount += deficit
		}

		for _, line := range d.lines {
			line.Quantity = 0
			line.Mark(LineSuperseded, now, actor, Extra{"supersededByApproval": true})
		}
	}

	r.Recalculate()
	r.UpdatedAt = now
	return result, fx
}

func pickInstances(ranked, preferred []int64, want int, taken map[int64]struct{}) []int64 {
	available := make(map[int64]struct{}, len(ranked))
	for _, id := range ranked {
		available[id] = struct{}{}
	}
	picked := make([]int64, 0, want)
	take := func(id int64) {
		if len(picked) >= want {
			return
		}
		if _, ok := available[id]; !ok {
			return
		}
		if _, used := taken[id]; used {
			return
		}
		taken[id] = struct{}{}
		picked = append(picked, id)
	}
	for _, id := range preferred {
		take(id)
	}
	for _, id := range ranked {
		take(id)
	}
	return picked
}

// Approve stamps approval metadata. The rental stays Reserved until pickup.
func (r *Rental) Approve(approver *int64, now time.Time) error {
	if r.current() != StatusReserved {
		return ErrNotPendingDecision
	}
	if r.ApprovalDate == nil {
		d := today(now)
		r.ApprovalDate = &d
	}
	r.ApprovedBy = approver
	r.UpdatedAt = now
	return nil
}
