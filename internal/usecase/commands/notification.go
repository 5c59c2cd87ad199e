package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tool-rental/internal/domain/rental"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/config"
	"tool-rental/internal/pkg/metrics"
	"tool-rental/internal/usecase/shared"
)

type NotificationCommands interface {
	// Sweep enqueues due-soon and overdue reminders and reports how many were created.
	Sweep(ctx context.Context) (int, error)
}

type notificationCommandsImpl struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	logger *slog.Logger
	cfg    config.RentalConfig
}

func NewNotificationCommands(uow shared.UnitOfWork, clk clock.Clock, logger *slog.Logger, cfg config.RentalConfig) NotificationCommands {
	return &notificationCommandsImpl{uow: uow, clock: clk, logger: logger, cfg: cfg}
}

func (uc *notificationCommandsImpl) Sweep(ctx context.Context) (int, error) {
	created := map[string]int{}
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		today := clock.DateOf(now)
		if _, err := tx.Rentals().PromoteOverdue(ctx, today); err != nil {
			return err
		}
		due, err := tx.Rentals().DueBy(ctx, today.AddDate(0, 0, uc.cfg.DueSoonDays))
		if err != nil {
			return err
		}
		for _, r := range due {
			n := reminderFor(r, today)
			n.CreatedAt = now
			inserted, err := tx.Notifications().EnqueueOnce(ctx, n, today)
			if err != nil {
				return err
			}
			if inserted {
				created[n.Type]++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	total := 0
	for kind, n := range created {
		metrics.AddNotificationsEnqueued(kind, n)
		total += n
	}
	uc.logger.Info("notification sweep finished", "created", total)
	return total, nil
}

func reminderFor(r *rental.Rental, today time.Time) shared.Notification {
	end := clock.FormatDate(r.EndDate)
	if r.Status == rental.StatusOverdue || r.EndDate.Before(today) {
		return shared.Notification{
			RentalID: r.ID,
			Type:     shared.NotificationOverdue,
			Payload:  fmt.Sprintf("Rental %s overdue %s", r.Number, end),
		}
	}
	return shared.Notification{
		RentalID: r.ID,
		Type:     shared.NotificationDueSoon,
		Payload:  fmt.Sprintf("Rental %s due %s", r.Number, end),
	}
}
