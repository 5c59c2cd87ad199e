package rental

import (
	"strings"
	"time"

	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const (
	ForcedReturnCondition = "Forced Return"
	LossReasonNotReturned = "Not returned"
)

// Extend moves the end date of an active rental after checking that every held
// instance stays certified and unbooked through the new end. On error the rental
// is unchanged.
func (r *Rental) Extend(newEnd time.Time, instances map[int64]*inventory.Instance, bookings []Booking, now time.Time) error {
	if r.current() != StatusActive {
		return errs.Wrapf(ErrNotExtendable, "rental is %s", r.current())
	}
	period, err := inventory.NewPeriod(r.StartDate, newEnd)
	if err != nil {
		return err
	}

	for _, id := range r.BoundInstanceIDs() {
		inst, ok := instances[id]
		if !ok || inst == nil {
			return errs.Wrapf(ErrInvalidInstance, "instance %d", id)
		}
		if !inst.CertifiedThrough(period.End) {
			return errs.Wrapf(ErrCertificationExpired, "instance %s", inst.SerialNumber)
		}
		if _, busy := BusyInstances(period, bookings, r.ID)[id]; busy {
			return errs.Wrapf(ErrScheduleConflict, "instance %s", inst.SerialNumber)
		}
	}

	r.EndDate = newEnd
	r.Recalculate()
	r.UpdatedAt = now
	return nil
}

// ForceExtend moves the end date without availability checks. An overdue rental
// whose new end is today or later becomes active again.
func (r *Rental) ForceExtend(newEnd time.Time, now time.Time) error {
	if r.current().IsTerminal() {
		return errs.Wrapf(ErrTerminal, "rental is %s", r.current())
	}
	if _, err := inventory.NewPeriod(r.StartDate, newEnd); err != nil {
		return err
	}
	r.EndDate = newEnd
	if r.current() == StatusOverdue && !newEnd.Before(today(now)) {
		if err := r.TransitionTo(StatusActive); err != nil {
			return err
		}
	}
	r.Recalculate()
	r.UpdatedAt = now
	return nil
}

// Return completes an active or overdue rental.
func (r *Rental) Return(condition, notes string, now time.Time) (Effects, error) {
	if !r.statusIn(StatusActive, StatusOverdue) {
		return Effects{}, errs.Wrapf(ErrNotReturnable, "rental is %s", r.current())
	}
	return r.applyReturn(condition, notes, now), nil
}

// ForceReturn completes any rental that is not closed yet.
func (r *Rental) ForceReturn(condition, notes string, now time.Time) (Effects, error) {
	if r.current().IsTerminal() {
		return Effects{}, errs.Wrapf(ErrTerminal, "rental is %s", r.current())
	}
	if strings.TrimSpace(condition) == "" {
		condition = ForcedReturnCondition
	}
	return r.applyReturn(condition, notes, now), nil
}

func (r *Rental) applyReturn(condition, notes string, now time.Time) Effects {
	var fx Effects
	r.Status = StatusReturned
	d := today(now)
	r.ActualEnd = &d
	if c := strings.TrimSpace(condition); c != "" {
		r.ReturnCondition = &c
	}
	r.appendNote(notes)

	seenTools := make(map[int64]struct{})
	for _, item := range r.Items {
		if item.IsBound() {
			// a bound line received earlier no longer holds its instance
			if item.Quantity > 0 {
				fx.set(*item.InstanceID, inventory.InstanceAvailable)
			}
			continue
		}
		if _, ok := seenTools[item.ToolID]; ok {
			continue
		}
		seenTools[item.ToolID] = struct{}{}
		fx.ToolsAvailable = append(fx.ToolsAvailable, item.ToolID)
	}
	r.UpdatedAt = now
	return fx
}

// MarkLost writes off a rental that is not closed yet and returns the loss.
// Instances are left as they are.
func (r *Rental) MarkLost(tools map[int64]*inventory.Tool, now time.Time) (decimal.Decimal, error) {
	if r.current().IsTerminal() {
		return decimal.Zero, errs.Wrapf(ErrTerminal, "rental is %s", r.current())
	}
	amount := r.AssessLoss(tools)
	r.Status = StatusLost
	r.Loss = &Loss{
		Amount:       amount,
		Reason:       LossReasonNotReturned,
		CalculatedAt: now,
	}
	r.UpdatedAt = now
	return amount, nil
}

// Activate hands every reserved bound line to the borrower at once, as at the kiosk.
// It returns the lines that were picked up.
func (r *Rental) Activate(approver *int64, actor *int64, now time.Time) (Effects, []*LineItem, error) {
	var fx Effects
	if r.current() != StatusReserved {
		return fx, nil, errs.Wrapf(ErrNotActivatable, "rental is %s", r.current())
	}
	if err := r.TransitionTo(StatusActive); err != nil {
		return fx, nil, err
	}
	d := today(now)
	r.ApprovedBy = approver
	if r.ApprovalDate == nil {
		r.ApprovalDate = &d
	}
	if r.ActualStart == nil {
		r.ActualStart = &d
	}

	pickedAt := now.UTC().Format(time.RFC3339)
	var picked []*LineItem
	for _, item := range r.Items {
		if !item.IsBound() || item.Quantity <= 0 || item.State() != LineReserved {
			continue
		}
		item.Mark(LinePickedUp, now, actor, Extra{"pickedAt": pickedAt, "kiosk": true})
		fx.set(*item.InstanceID, inventory.InstanceInRental)
		picked = append(picked, item)
	}
	r.Recalculate()
	r.UpdatedAt = now
	return fx, picked, nil
}
