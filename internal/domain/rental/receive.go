package rental

import (
	"fmt"
	"time"

	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/pkg/errs"
)

const receivedAllNote = "Returned via marked items"

// ReceiveMark is the warehouse input for one line at return.
type ReceiveMark struct {
	LineID      int64
	Returned    int
	NotReturned int
	Condition   string
	Notes       string
}

type receivePlan struct {
	line        *LineItem
	returned    int
	notReturned int
	mark        ReceiveMark
}

// ReceiveItems books partial returns. When no line keeps open quantity
// afterwards the rental completes through the full return path and completed is true.
func (r *Rental) ReceiveItems(marks []ReceiveMark, actor *int64, now time.Time) (fx Effects, completed bool, err error) {
	if !r.statusIn(StatusActive, StatusOverdue) {
		return fx, false, errs.Wrapf(ErrNotReceivable, "rental is %s", r.current())
	}
	if len(marks) == 0 {
		return fx, false, ErrNoItems
	}

	plans, err := r.planReceive(marks)
	if err != nil {
		return fx, false, err
	}

	receivedAt := now.UTC().Format(time.RFC3339)
	for _, p := range plans {
		line := p.line
		if line.IsBound() {
			if p.returned == 1 {
				fx.set(*line.InstanceID, inventory.InstanceAvailable)
				line.Quantity = 0
				line.Mark(LineReturned, now, actor, Extra{
					"receivedAt": receivedAt,
					"condition":  p.mark.Condition,
					"notes":      p.mark.Notes,
				})
			} else {
				line.Mark(LineNotReturned, now, actor, Extra{
					"receivedAt": receivedAt,
					"notes":      p.mark.Notes,
				})
			}
			continue
		}

		if p.returned > 0 {
			item := r.addLine(&LineItem{
				ToolID:         line.ToolID,
				AssignmentMode: line.AssignmentMode,
				Quantity:       p.returned,
				DailyCost:      line.DailyCost,
				CheckoutNotes:  fmt.Sprintf("RETURNED FROM LINE %d", line.ID),
			})
			item.Mark(LineReturned, now, actor, Extra{
				"receivedAt":         receivedAt,
				"sourceRentalItemID": line.ID,
				"condition":          p.mark.Condition,
				"notes":              p.mark.Notes,
			})
		}
		if p.notReturned > 0 {
			item := r.addLine(&LineItem{
				ToolID:         line.ToolID,
				AssignmentMode: line.AssignmentMode,
				Quantity:       p.notReturned,
				DailyCost:      line.DailyCost,
				CheckoutNotes:  fmt.Sprintf("NOT RETURNED FROM LINE %d", line.ID),
			})
			item.Mark(LineNotReturned, now, actor, Extra{
				"receivedAt":         receivedAt,
				"sourceRentalItemID": line.ID,
				"notes":              p.mark.Notes,
			})
		}

		line.Quantity -= p.returned + p.notReturned
		var state LineState
		switch {
		case line.Quantity > 0:
			state = LinePendingPickup
		case p.notReturned > 0:
			state = LineNotReturned
		default:
			state = LineReturned
		}
		line.Mark(state, now, actor, Extra{"remainingQuantity": line.Quantity})
	}

	if !r.HasOpenQuantity() {
		fx.merge(r.applyReturn("", receivedAllNote, now))
		completed = true
	}

	r.Recalculate()
	r.UpdatedAt = now
	return fx, completed, nil
}

func (r *Rental) planReceive(marks []ReceiveMark) ([]receivePlan, error) {
	consumed := make(map[int64]int)
	plans := make([]receivePlan, 0, len(marks))
	for _, m := range marks {
		line := r.Line(m.LineID)
		if line == nil {
			return nil, errs.Wrapf(ErrLineNotFound, "line %d", m.LineID)
		}
		remaining := line.Quantity - consumed[line.ID]
		if remaining <= 0 || line.State() == LineReturned {
			return nil, errs.Wrapf(ErrNoRemainingQuantity, "line %d", line.ID)
		}
		returned, notReturned := max(0, m.Returned), max(0, m.NotReturned)
		total := returned + notReturned
		if total <= 0 {
			return nil, errs.Wrapf(ErrInvalidReceiveQty, "line %d", line.ID)
		}
		if total > remaining {
			return nil, errs.Wrapf(ErrQuantityExceedsRemaining, "line %d: received %d, remaining %d", line.ID, total, remaining)
		}
		consumed[line.ID] += total
		plans = append(plans, receivePlan{line: line, returned: returned, notReturned: notReturned, mark: m})
	}
	return plans, nil
}
