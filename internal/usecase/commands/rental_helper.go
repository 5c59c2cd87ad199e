package commands

import (
	"context"
	"strconv"
	"strings"
	"time"

	"tool-rental/internal/domain/auth"
	"tool-rental/internal/domain/employee"
	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/domain/rental"
	"tool-rental/internal/domain/user"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/errs"
	"tool-rental/internal/pkg/password"
	"tool-rental/internal/usecase/shared"
)

// withRental loads and locks one rental, applies the overdue promotion and runs
// fn. The rental is saved when fn succeeds; otherwise nothing is written.
func (uc *rentalCommandsImpl) withRental(
	ctx context.Context,
	id int64,
	fn func(ctx context.Context, tx shared.Tx, r *rental.Rental, now time.Time) error,
) (*rental.Rental, error) {
	var loaded *rental.Rental
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := tx.Rentals().FindByID(ctx, id)
		if err != nil {
			return notFound(err, rental.ErrRentalNotFound)
		}
		now := uc.clock.Now()
		r.Refresh(clock.DateOf(now))

		if err := fn(ctx, tx, r, now); err != nil {
			return err
		}
		if err := tx.Rentals().Save(ctx, r); err != nil {
			return err
		}
		loaded = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

// candidates resolves, per tool with outstanding demand, the instances free for
// the rental period ranked busiest first.
func candidates(ctx context.Context, tx shared.Tx, r *rental.Rental) (map[int64][]int64, error) {
	demand := r.OutstandingDemand()
	out := make(map[int64][]int64, len(demand))
	period := r.Period()

	for _, d := range demand {
		instances, err := tx.Inventory().InstancesByTool(ctx, d.ToolID)
		if err != nil {
			return nil, err
		}
		if len(instances) == 0 {
			continue
		}
		ids := make([]int64, 0, len(instances))
		for _, inst := range instances {
			ids = append(ids, inst.ID)
		}
		bookings, err := tx.Rentals().Bookings(ctx, ids)
		if err != nil {
			return nil, err
		}

		free := rental.AvailableInstances(instances, period, bookings, nil)
		freeIDs := make([]int64, 0, len(free))
		for _, inst := range free {
			freeIDs = append(freeIDs, inst.ID)
		}
		usage, err := tx.Rentals().Usage(ctx, freeIDs)
		if err != nil {
			return nil, err
		}
		out[d.ToolID] = inventory.Rank(freeIDs, inventory.UsageDays(usage))
	}
	return out, nil
}

func applyEffects(ctx context.Context, tx shared.Tx, fx rental.Effects) error {
	inv := tx.Inventory()
	for _, change := range fx.Instances {
		if err := inv.SetInstanceStatus(ctx, change.InstanceID, change.Status); err != nil {
			return err
		}
	}
	if len(fx.ReleaseIfHeld) > 0 {
		if err := inv.ReleaseIfHeld(ctx, fx.ReleaseIfHeld); err != nil {
			return err
		}
	}
	if len(fx.ToolsAvailable) > 0 {
		if err := inv.SetToolsAvailable(ctx, fx.ToolsAvailable); err != nil {
			return err
		}
	}
	return nil
}

func audit(ctx context.Context, tx shared.Tx, rentalID int64, action, details string, actor *int64, now time.Time) error {
	return tx.Audit().Append(ctx, shared.AuditEntry{
		EntityType: shared.AuditEntityRental,
		EntityID:   rentalID,
		Action:     action,
		Details:    details,
		UserID:     actor,
		CreatedAt:  now,
	})
}

func toolsOf(ctx context.Context, tx shared.Tx, r *rental.Rental) (map[int64]*inventory.Tool, error) {
	seen := make(map[int64]struct{}, len(r.Items))
	ids := make([]int64, 0, len(r.Items))
	for _, item := range r.Items {
		if _, ok := seen[item.ToolID]; ok {
			continue
		}
		seen[item.ToolID] = struct{}{}
		ids = append(ids, item.ToolID)
	}
	return tx.Inventory().ToolsByIDs(ctx, ids)
}

func toolIDsOf(lines []rental.LineRequest) []int64 {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ToolID]; ok {
			continue
		}
		seen[l.ToolID] = struct{}{}
		ids = append(ids, l.ToolID)
	}
	return ids
}

// nextNumber assigns an offer number or the next sequential reservation number.
func (uc *rentalCommandsImpl) nextNumber(ctx context.Context, tx shared.Tx, status rental.Status, now time.Time) (string, error) {
	if status == rental.StatusOffer {
		today := clock.DateOf(now)
		existing, err := tx.Rentals().OfferNumbers(ctx, rental.OfferYearPrefix(today))
		if err != nil {
			return "", err
		}
		return rental.NextOfferNumber(today, existing), nil
	}
	prefix := uc.cfg.ReservationPrefix
	if prefix == "" {
		prefix = rental.DefaultReservationPrefix
	}
	last, err := tx.Rentals().LastReservationNumber(ctx, prefix)
	if err != nil {
		return "", err
	}
	return rental.NextReservationNumber(prefix, last), nil
}

// requireEmployee looks the employee up in the directory. Directory outages are
// returned as they are so callers see a service-unavailable error.
func requireEmployee(ctx context.Context, dir shared.EmployeeDirectory, id int64) (employee.Employee, error) {
	if id <= 0 {
		return employee.Employee{}, ErrEmployeeNotFound
	}
	entries, err := dir.Employees(ctx, false)
	if err != nil {
		return employee.Employee{}, err
	}
	for _, e := range entries {
		if e.ID() == id {
			return e, nil
		}
	}
	return employee.Employee{}, errs.Wrapf(ErrEmployeeNotFound, "employee %d", id)
}

// verifyPIN checks pin against the stored hash, or the default PIN when none is set.
func verifyPIN(account *user.Account, pin, defaultPIN string) bool {
	pin = strings.TrimSpace(pin)
	if len(pin) < password.MinLength {
		return false
	}
	if account == nil {
		return defaultPIN != "" && pin == defaultPIN
	}
	return checkPIN(account, pin, defaultPIN)
}

func notFound(err, sentinel error) error {
	if errs.Is(err, errs.ErrNotFound) {
		return sentinel
	}
	return err
}

func actorID(p auth.Principal) *int64 {
	if p.EmployeeID <= 0 {
		return nil
	}
	id := p.EmployeeID
	return &id
}

func actorLabel(actor *int64) string {
	if actor == nil {
		return "system"
	}
	return strconv.FormatInt(*actor, 10)
}
