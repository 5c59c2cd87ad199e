package queries

import (
	"context"

	"tool-rental/internal/usecase/shared"
)

const maxPendingNotifications = 500

type NotificationQueries interface {
	Pending(ctx context.Context, limit int) ([]shared.Notification, error)
}

type notificationQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewNotificationQueries(uow shared.UnitOfWork) NotificationQueries {
	return &notificationQueriesImpl{uow: uow}
}

func (q *notificationQueriesImpl) Pending(ctx context.Context, limit int) ([]shared.Notification, error) {
	if limit <= 0 || limit > maxPendingNotifications {
		limit = maxPendingNotifications
	}
	var out []shared.Notification
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		out, err = tx.Notifications().Pending(ctx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
