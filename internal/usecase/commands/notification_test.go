//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"tool-rental/internal/domain/rental"
	"tool-rental/internal/pkg/config"
	"tool-rental/internal/usecase/commands"
	"tool-rental/internal/usecase/shared"
	"tool-rental/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNotificationSweep(t *testing.T) {
	h := newHarness(t)
	today := builder.Date(2026, time.March, 1)

	dueSoon := storedRental(rental.StatusActive)
	dueSoon.ID, dueSoon.Number, dueSoon.EndDate = 1, "RNT-001", builder.Date(2026, 3, 4)
	overdue := storedRental(rental.StatusOverdue)
	overdue.ID, overdue.Number, overdue.EndDate = 2, "RNT-002", builder.Date(2026, 2, 20)
	already := storedRental(rental.StatusActive)
	already.ID, already.Number, already.EndDate = 3, "RNT-003", builder.Date(2026, 3, 8)

	h.rentals.EXPECT().PromoteOverdue(gomock.Any(), today).Return(int64(0), nil)
	h.rentals.EXPECT().DueBy(gomock.Any(), builder.Date(2026, 3, 8)).
		Return([]*rental.Rental{overdue, dueSoon, already}, nil)

	var payloads []string
	h.notifications.EXPECT().EnqueueOnce(gomock.Any(), gomock.Any(), today).
		DoAndReturn(func(_ context.Context, n shared.Notification, _ time.Time) (bool, error) {
			payloads = append(payloads, n.Type+": "+n.Payload)
			return n.RentalID != 3, nil
		}).Times(3)

	sweep := commands.NewNotificationCommands(h.uow, h.clock, h.logger, config.RentalConfig{DueSoonDays: 7})
	created, err := sweep.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, []string{
		"Overdue: Rental RNT-002 overdue 2026-02-20",
		"DueSoon: Rental RNT-001 due 2026-03-04",
		"DueSoon: Rental RNT-003 due 2026-03-08",
	}, payloads)
}
