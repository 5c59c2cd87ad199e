package repository

import (
	"context"
	"time"

	"tool-rental/internal/infra"
	"tool-rental/internal/infra/db"
	"tool-rental/internal/pkg/pgconv"
	"tool-rental/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgtype"
)

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

func (r *NotificationRepository) Enqueue(ctx context.Context, n shared.Notification) error {
	_, err := r.db.Exec(ctx, `INSERT INTO notification_queue (rental_id, notification_type, payload, created_at)
	VALUES ($1, $2, $3, $4)`, rentalRef(n.RentalID), n.Type, n.Payload, n.CreatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue notification", err)
	}
	return nil
}

func (r *NotificationRepository) EnqueueOnce(ctx context.Context, n shared.Notification, day time.Time) (bool, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	tag, err := r.db.Exec(ctx, `INSERT INTO notification_queue (rental_id, notification_type, payload, created_at)
	SELECT $1, $2, $3, $4
	WHERE NOT EXISTS (
		SELECT 1 FROM notification_queue
		WHERE rental_id = $1 AND notification_type = $2 AND created_at >= $5 AND created_at < $6
	)`, rentalRef(n.RentalID), n.Type, n.Payload, n.CreatedAt, start, start.AddDate(0, 0, 1))
	if err != nil {
		return false, infra.WrapRepoErr("failed to enqueue notification", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *NotificationRepository) Pending(ctx context.Context, limit int) ([]shared.Notification, error) {
	rows, err := r.db.Query(ctx, `SELECT id, rental_id, notification_type, payload, created_at, sent_at
	FROM notification_queue WHERE sent_at IS NULL ORDER BY created_at, id LIMIT $1`, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load pending notifications", err)
	}
	defer rows.Close()

	var out []shared.Notification
	for rows.Next() {
		var (
			n        shared.Notification
			rentalID pgtype.Int8
			sentAt   pgtype.Timestamptz
		)
		if err := rows.Scan(&n.ID, &rentalID, &n.Type, &n.Payload, &n.CreatedAt, &sentAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification", err)
		}
		n.RentalID = rentalID.Int64
		n.SentAt = pgconv.TimePtrFromPgtype(sentAt)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate notifications", err)
	}
	return out, nil
}

func rentalRef(id int64) pgtype.Int8 {
	return pgtype.Int8{Int64: id, Valid: id > 0}
}
