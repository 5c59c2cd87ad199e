package rental

import (
	"sort"
	"time"

	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/pkg/errs"
)

// Booking is a line item that references an instance, seen together with its rental.
type Booking struct {
	RentalID   int64
	InstanceID int64
	Status     Status
	Start      time.Time
	End        time.Time
}

// Blocks reports whether the booking makes its instance unavailable during period.
func (b Booking) Blocks(period inventory.Period) bool {
	return NormalizeStatus(string(b.Status)).IsBlocking() && period.Overlaps(b.Start, b.End)
}

// BusyInstances returns the instances held by blocking rentals overlapping period.
// Bookings of excludeRentalID are ignored.
func BusyInstances(period inventory.Period, bookings []Booking, excludeRentalID int64) map[int64]struct{} {
	busy := make(map[int64]struct{})
	for _, b := range bookings {
		if excludeRentalID != 0 && b.RentalID == excludeRentalID {
			continue
		}
		if b.Blocks(period) {
			busy[b.InstanceID] = struct{}{}
		}
	}
	return busy
}

// AvailableInstances filters candidates of one tool down to those free for period:
// status Available, not busy, not excluded and certified through the period end.
// The result is ordered by serial number.
func AvailableInstances(
	candidates []*inventory.Instance,
	period inventory.Period,
	bookings []Booking,
	exclude []int64,
) []*inventory.Instance {
	busy := BusyInstances(period, bookings, 0)
	for _, id := range exclude {
		busy[id] = struct{}{}
	}

	out := make([]*inventory.Instance, 0, len(candidates))
	for _, inst := range candidates {
		if inst == nil || inst.Status != inventory.InstanceAvailable {
			continue
		}
		if _, taken := busy[inst.ID]; taken {
			continue
		}
		if !inst.CertifiedThrough(period.End) {
			continue
		}
		out = append(out, inst)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SerialNumber < out[j].SerialNumber
	})
	return out
}

// ValidateInstance checks an explicitly chosen instance for toolID and period.
// Bookings of rentalID itself do not count as conflicts.
func ValidateInstance(
	inst *inventory.Instance,
	toolID int64,
	period inventory.Period,
	bookings []Booking,
	rentalID int64,
) error {
	if inst == nil || inst.ToolID != toolID {
		return ErrInvalidInstance
	}
	if inst.Status != inventory.InstanceAvailable {
		return errs.Wrapf(ErrInstanceUnavailable, "instance %s is %s", inst.SerialNumber, inst.Status)
	}
	if !inst.CertifiedThrough(period.End) {
		return errs.Wrapf(ErrCertificationExpired, "instance %s", inst.SerialNumber)
	}
	if _, busy := BusyInstances(period, bookings, rentalID)[inst.ID]; busy {
		return errs.Wrapf(ErrScheduleConflict, "instance %s", inst.SerialNumber)
	}
	return nil
}
