package rental

import (
	"fmt"
	"time"

	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/pkg/errs"
)

// PickMark is the warehouse input for one line at pickup.
type PickMark struct {
	LineID         int64
	PickedQuantity int
	InstanceIDs    []int64
	Notes          string
	SerialInput    string
}

// InstanceCheck validates an instance chosen at pickup for a tool.
type InstanceCheck func(toolID, instanceID int64) error

type pickPlan struct {
	line      *LineItem
	quantity  int
	instances []int64
	mark      PickMark
}

// MarkItems hands units of the given lines to the borrower. Either every mark
// is applied or, on error, none is.
func (r *Rental) MarkItems(marks []PickMark, check InstanceCheck, actor *int64, now time.Time) (Effects, error) {
	var fx Effects
	if !r.statusIn(StatusReserved, StatusActive, StatusOverdue) {
		return fx, errs.Wrapf(ErrNotPickable, "rental is %s", r.current())
	}
	if len(marks) == 0 {
		return fx, ErrNoItems
	}

	plans, err := r.planPickup(marks, check)
	if err != nil {
		return fx, err
	}

	pickedAt := now.UTC().Format(time.RFC3339)
	for _, p := range plans {
		line := p.line
		if line.IsBound() {
			line.Mark(LinePickedUp, now, actor, Extra{
				"pickedAt":    pickedAt,
				"notes":       p.mark.Notes,
				"serialInput": p.mark.SerialInput,
			})
			fx.set(*line.InstanceID, inventory.InstanceInRental)
			continue
		}

		for _, id := range p.instances {
			instanceID := id
			item := r.addLine(&LineItem{
				ToolID:         line.ToolID,
				InstanceID:     &instanceID,
				AssignmentMode: AssignManual,
				Quantity:       1,
				DailyCost:      line.DailyCost,
				CheckoutNotes:  fmt.Sprintf("ASSIGNED FROM LINE %d", line.ID),
			})
			item.Mark(LinePickedUp, now, actor, Extra{
				"pickedAt":           pickedAt,
				"sourceRentalItemID": line.ID,
				"notes":              p.mark.Notes,
			})
			fx.set(instanceID, inventory.InstanceInRental)
		}

		if untracked := p.quantity - len(p.instances); untracked > 0 {
			item := r.addLine(&LineItem{
				ToolID:         line.ToolID,
				AssignmentMode: line.AssignmentMode,
				Quantity:       untracked,
				DailyCost:      line.DailyCost,
				CheckoutNotes:  fmt.Sprintf("PICKED WITHOUT INSTANCE ID FROM LINE %d", line.ID),
			})
			item.Mark(LinePickedUp, now, actor, Extra{
				"pickedAt":           pickedAt,
				"sourceRentalItemID": line.ID,
				"notes":              p.mark.Notes,
			})
		}

		line.Quantity -= p.quantity
		state := LinePendingPickup
		if line.Quantity == 0 {
			state = LineFulfilled
		}
		line.Mark(state, now, actor, Extra{"remainingQuantity": line.Quantity})
	}

	if len(plans) > 0 && r.current() == StatusReserved {
		if err := r.TransitionTo(StatusActive); err != nil {
			return fx, err
		}
		if r.ActualStart == nil {
			d := today(now)
			r.ActualStart = &d
		}
	}

	r.Recalculate()
	r.UpdatedAt = now
	return fx, nil
}

func (r *Rental) planPickup(marks []PickMark, check InstanceCheck) ([]pickPlan, error) {
	used := make(map[int64]struct{})
	consumed := make(map[int64]int)
	plans := make([]pickPlan, 0, len(marks))

	for _, m := range marks {
		line := r.Line(m.LineID)
		if line == nil {
			return nil, errs.Wrapf(ErrLineNotFound, "line %d", m.LineID)
		}
		remaining := line.Quantity - consumed[line.ID]
		if remaining <= 0 || line.State().IsOut() {
			return nil, errs.Wrapf(ErrNoRemainingQuantity, "line %d", line.ID)
		}

		qty := m.PickedQuantity
		if qty < 0 {
			qty = 0
		}
		if qty == 0 && len(m.InstanceIDs) > 0 {
			qty = len(m.InstanceIDs)
		}
		if qty <= 0 {
			return nil, errs.Wrapf(ErrInvalidPickedQuantity, "line %d", line.ID)
		}

		if line.IsBound() {
			if qty != 1 {
				return nil, errs.Wrapf(ErrBoundLineQuantity, "line %d", line.ID)
			}
			if _, dup := used[*line.InstanceID]; dup {
				return nil, errs.Wrapf(ErrDuplicateInstance, "instance %d", *line.InstanceID)
			}
			used[*line.InstanceID] = struct{}{}
			consumed[line.ID] += qty
			plans = append(plans, pickPlan{line: line, quantity: qty, mark: m})
			continue
		}

		if qty > remaining {
			return nil, errs.Wrapf(ErrQuantityExceedsRemaining, "line %d: picked %d, remaining %d", line.ID, qty, remaining)
		}
		seen := make(map[int64]struct{}, len(m.InstanceIDs))
		for _, id := range m.InstanceIDs {
			if _, dup := seen[id]; dup {
				return nil, errs.Wrapf(ErrDuplicateInstance, "instance %d on line %d", id, line.ID)
			}
			seen[id] = struct{}{}
		}
		if len(m.InstanceIDs) > qty {
			return nil, errs.Wrapf(ErrTooManyInstanceIDs, "line %d", line.ID)
		}
		for _, id := range m.InstanceIDs {
			if _, dup := used[id]; dup {
				return nil, errs.Wrapf(ErrDuplicateInstance, "instance %d", id)
			}
			used[id] = struct{}{}
			if check != nil {
				if err := check(line.ToolID, id); err != nil {
					return nil, err
				}
			}
		}
		consumed[line.ID] += qty
		plans = append(plans, pickPlan{line: line, quantity: qty, instances: m.InstanceIDs, mark: m})
	}
	return plans, nil
}
