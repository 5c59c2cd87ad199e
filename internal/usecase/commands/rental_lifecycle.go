package commands

import (
	"context"
	"fmt"
	"time"

	"tool-rental/internal/domain/auth"
	"tool-rental/internal/domain/rental"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/metrics"
	"tool-rental/internal/usecase/shared"
)

func (uc *rentalCommandsImpl) MarkItems(ctx context.Context, rentalID int64, marks []rental.PickMark, actor auth.Principal) (*RentalResult, error) {
	operator := actorID(actor)
	r, err := uc.withRental(ctx, rentalID, func(ctx context.Context, tx shared.Tx, r *rental.Rental, now time.Time) error {
		check, err := instanceCheck(ctx, tx, r, marks)
		if err != nil {
			return err
		}
		fx, err := r.MarkItems(marks, check, operator, now)
		if err != nil {
			return err
		}
		if err := applyEffects(ctx, tx, fx); err != nil {
			return err
		}
		return audit(ctx, tx, r.ID, "MarkItemsForRental", fmt.Sprintf("%d line(s) picked up", len(marks)), operator, now)
	})
	if err != nil {
		return nil, err
	}
	metrics.IncRentalAction("mark_items")
	uc.logger.Info("rental items picked up", "rental_id", r.ID, "lines", len(marks), "status", r.Status)
	res := resultOf(r)
	return &res, nil
}

// instanceCheck preloads the explicitly chosen instances and their bookings so
// the domain can validate each choice without further queries.
func instanceCheck(ctx context.Context, tx shared.Tx, r *rental.Rental, marks []rental.PickMark) (rental.InstanceCheck, error) {
	var ids []int64
	for _, m := range marks {
		ids = append(ids, m.InstanceIDs...)
	}
	if len(ids) == 0 {
		return func(int64, int64) error { return rental.ErrInvalidInstance }, nil
	}
	instances, err := tx.Inventory().InstancesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	bookings, err := tx.Rentals().Bookings(ctx, ids)
	if err != nil {
		return nil, err
	}
	period := r.Period()
	return func(toolID, instanceID int64) error {
		return rental.ValidateInstance(instances[instanceID], toolID, period, bookings, r.ID)
	}, nil
}

func (uc *rentalCommandsImpl) ReceiveItems(ctx context.Context, rentalID int64, marks []rental.ReceiveMark, actor auth.Principal) (*ReceiveResult, error) {
	operator := actorID(actor)
	result := &ReceiveResult{}
	r, err := uc.withRental(ctx, rentalID, func(ctx context.Context, tx shared.Tx, r *rental.Rental, now time.Time) error {
		fx, completed, err := r.ReceiveItems(marks, operator, now)
		if err != nil {
			return err
		}
		if err := applyEffects(ctx, tx, fx); err != nil {
			return err
		}
		result.Completed = completed
		details := fmt.Sprintf("%d line(s) received", len(marks))
		if completed {
			details += "; rental returned"
		}
		return audit(ctx, tx, r.ID, "ReceiveMarkedItems", details, operator, now)
	})
	if err != nil {
		return nil, err
	}
	metrics.IncRentalAction("receive_items")
	uc.logger.Info("rental items received", "rental_id", r.ID, "completed", result.Completed)
	result.RentalResult = resultOf(r)
	return result, nil
}

func (uc *rentalCommandsImpl) Extend(ctx context.Context, rentalID int64, newEnd time.Time, actor auth.Principal) (*RentalResult, error) {
	operator := actorID(actor)
	r, err := uc.withRental(ctx, rentalID, func(ctx context.Context, tx shared.Tx, r *rental.Rental, now time.Time) error {
		ids := r.BoundInstanceIDs()
		instances, err := tx.Inventory().InstancesByIDs(ctx, ids)
		if err != nil {
			return err
		}
		bookings, err := tx.Rentals().Bookings(ctx, ids)
		if err != nil {
			return err
		}
		if err := r.Extend(newEnd, instances, bookings, now); err != nil {
			return err
		}
		return audit(ctx, tx, r.ID, "Extend", fmt.Sprintf("Extended to %s", clock.FormatDate(newEnd)), operator, now)
	})
	if err != nil {
		return nil, err
	}
	metrics.IncRentalAction("extend")
	uc.logger.Info("rental extended", "rental_id", r.ID, "end_date", clock.FormatDate(newEnd))
	res := resultOf(r)
	return &res, nil
}

func (uc *rentalCommandsImpl) ForceExtend(ctx context.Context, rentalID int64, newEnd time.Time, actor auth.Principal) (*RentalResult, error) {
	operator := actorID(actor)
	r, err := uc.withRental(ctx, rentalID, func(ctx context.Context, tx shared.Tx, r *rental.Rental, now time.Time) error {
		if err := r.ForceExtend(newEnd, now); err != nil {
			return err
		}
		return audit(ctx, tx, r.ID, "ForceExtend", fmt.Sprintf("Force extended to %s", clock.FormatDate(newEnd)), operator, now)
	})
	if err != nil {
		return nil, err
	}
	metrics.IncRentalAction("force_extend")
	uc.logger.Warn("rental force extended", "rental_id", r.ID, "end_date", clock.FormatDate(newEnd), "actor", actorLabel(operator))
	res := resultOf(r)
	return &res, nil
}

func (uc *rentalCommandsImpl) Cancel(ctx context.Context, rentalID int64, actor auth.Principal) (*RentalResult, error) {
	operator := actorID(actor)
	var rejected bool
	r, err := uc.withRental(ctx, rentalID, func(ctx context.Context, tx shared.Tx, r *rental.Rental, now time.Time) error {
		fx, wasReserved, err := r.Cancel(operator, now)
		if err != nil {
			return err
		}
		rejected = wasReserved
		if err := applyEffects(ctx, tx, fx); err != nil {
			return err
		}
		if rejected {
			if err := tx.Notifications().Enqueue(ctx, shared.Notification{
				RentalID:  r.ID,
				Type:      shared.NotificationReservationRejected,
				Payload:   fmt.Sprintf("Reservation %s rejected: %s", r.Number, rental.CancelReason),
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}
		return audit(ctx, tx, r.ID, "Cancel", "Rental closed", operator, now)
	})
	if err != nil {
		return nil, err
	}
	metrics.IncRentalAction("cancel")
	if rejected {
		metrics.AddNotificationsEnqueued(shared.NotificationReservationRejected, 1)
	}
	uc.logger.Info("rental cancelled", "rental_id", r.ID, "was_reserved", rejected)
	res := resultOf(r)
	return &res, nil
}

func (uc *rentalCommandsImpl) Return(ctx context.Context, rentalID int64, in ReturnInput, actor auth.Principal) (*RentalResult, error) {
	return uc.closeOut(ctx, rentalID, actor, "return", "Return", "Rental returned",
		func(r *rental.Rental, now time.Time) (rental.Effects, error) {
			return r.Return(in.Condition, in.Notes, now)
		})
}

func (uc *rentalCommandsImpl) ForceReturn(ctx context.Context, rentalID int64, in ReturnInput, actor auth.Principal) (*RentalResult, error) {
	return uc.closeOut(ctx, rentalID, actor, "force_return", "ForceReturn", "Rental force returned",
		func(r *rental.Rental, now time.Time) (rental.Effects, error) {
			return r.ForceReturn(in.Condition, in.Notes, now)
		})
}

func (uc *rentalCommandsImpl) closeOut(
	ctx context.Context,
	rentalID int64,
	actor auth.Principal,
	metric, action, details string,
	apply func(r *rental.Rental, now time.Time) (rental.Effects, error),
) (*RentalResult, error) {
	operator := actorID(actor)
	r, err := uc.withRental(ctx, rentalID, func(ctx context.Context, tx shared.Tx, r *rental.Rental, now time.Time) error {
		fx, err := apply(r, now)
		if err != nil {
			return err
		}
		if err := applyEffects(ctx, tx, fx); err != nil {
			return err
		}
		return audit(ctx, tx, r.ID, action, details, operator, now)
	})
	if err != nil {
		return nil, err
	}
	metrics.IncRentalAction(metric)
	uc.logger.Info("rental closed out", "rental_id", r.ID, "action", metric, "status", r.Status)
	res := resultOf(r)
	return &res, nil
}

func (uc *rentalCommandsImpl) MarkLost(ctx context.Context, rentalID int64, actor auth.Principal) (*LossResult, error) {
	operator := actorID(actor)
	result := &LossResult{}
	r, err := uc.withRental(ctx, rentalID, func(ctx context.Context, tx shared.Tx, r *rental.Rental, now time.Time) error {
		tools, err := toolsOf(ctx, tx, r)
		if err != nil {
			return err
		}
		amount, err := r.MarkLost(tools, now)
		if err != nil {
			return err
		}
		result.Amount = amount
		return audit(ctx, tx, r.ID, "MarkLost", fmt.Sprintf("Loss %s", amount.StringFixed(2)), operator, now)
	})
	if err != nil {
		return nil, err
	}
	metrics.IncRentalAction("mark_lost")
	uc.logger.Warn("rental marked lost", "rental_id", r.ID, "amount", result.Amount.StringFixed(2))
	result.RentalResult = resultOf(r)
	return result, nil
}

func (uc *rentalCommandsImpl) PromoteOverdue(ctx context.Context) (int64, error) {
	var promoted int64
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Rentals().PromoteOverdue(ctx, clock.DateOf(uc.clock.Now()))
		if err != nil {
			return err
		}
		promoted = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	if promoted > 0 {
		uc.logger.Info("rentals promoted to overdue", "count", promoted)
	}
	return promoted, nil
}
