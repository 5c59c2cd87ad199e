//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/domain/rental"
	"tool-rental/internal/domain/user"
	"tool-rental/internal/pkg/config"
	"tool-rental/internal/pkg/errs"
	"tool-rental/internal/usecase/commands"
	"tool-rental/internal/usecase/shared"
	"tool-rental/tests/common/builder"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRentalCommands(h *harness) commands.RentalCommands {
	return commands.NewRentalCommands(
		h.uow,
		h.directory,
		h.clock,
		h.logger,
		config.RentalConfig{ReservationPrefix: "RNT-", DueSoonDays: 7},
		config.AuthConfig{DefaultPIN: "1234"},
	)
}

func createInput() commands.CreateRentalInput {
	return commands.CreateRentalInput{
		Purpose:   "Site work",
		Status:    "Reserved",
		StartDate: builder.Date(2026, time.March, 2),
		EndDate:   builder.Date(2026, time.March, 5),
		Lines:     []rental.LineRequest{{ToolID: 1, Quantity: 2}},
	}
}

func storedRental(status rental.Status, items ...*rental.LineItem) *rental.Rental {
	return &rental.Rental{
		ID:         10,
		Number:     "RNT-010",
		EmployeeID: 4711,
		Status:     status,
		StartDate:  builder.Date(2026, time.March, 2),
		EndDate:    builder.Date(2026, time.March, 5),
		Items:      items,
	}
}

func TestCreateRental(t *testing.T) {
	t.Run("numbers and stores a reservation for the actor", func(t *testing.T) {
		h := newHarness(t)
		h.expectDirectory("4711")
		h.inventory.EXPECT().ToolsByIDs(gomock.Any(), []int64{1}).
			Return(map[int64]*inventory.Tool{1: builder.NewTool(1, "12.50")}, nil)
		h.rentals.EXPECT().LastReservationNumber(gomock.Any(), "RNT-").Return("RNT-007", nil)
		h.rentals.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r *rental.Rental) (int64, error) {
				assert.Equal(t, "RNT-008", r.Number)
				assert.Equal(t, int64(4711), r.EmployeeID)
				assert.True(t, decimal.RequireFromString("75").Equal(r.TotalCost))
				return 42, nil
			})

		res, err := newRentalCommands(h).Create(context.Background(), createInput(), principal(4711, checkoutOnly))
		require.NoError(t, err)
		assert.Equal(t, int64(42), res.RentalID)
		assert.Equal(t, "RNT-008", res.Number)
		assert.Equal(t, rental.StatusReserved, res.Status)
	})

	t.Run("other employees need the manage rentals right", func(t *testing.T) {
		h := newHarness(t)
		in := createInput()
		other := int64(99)
		in.EmployeeID = &other

		_, err := newRentalCommands(h).Create(context.Background(), in, principal(4711, checkoutOnly))
		require.ErrorIs(t, err, commands.ErrForeignEmployee)
		assert.Equal(t, errs.KindForbidden, errs.KindOf(err))
	})

	t.Run("employee must exist in the directory", func(t *testing.T) {
		h := newHarness(t)
		h.expectDirectory("1000")

		_, err := newRentalCommands(h).Create(context.Background(), createInput(), principal(4711, checkoutOnly))
		require.ErrorIs(t, err, commands.ErrEmployeeNotFound)
	})

	t.Run("directory outage is reported as unavailable", func(t *testing.T) {
		h := newHarness(t)
		outage := errs.Mark(errs.New("directory down"), errs.ErrServiceUnavailable)
		h.directory.EXPECT().Employees(gomock.Any(), false).Return(nil, outage)

		_, err := newRentalCommands(h).Create(context.Background(), createInput(), principal(4711, checkoutOnly))
		require.Error(t, err)
		assert.Equal(t, errs.KindServiceUnavailable, errs.KindOf(err))
	})

	t.Run("local admin may create for themselves without a directory entry", func(t *testing.T) {
		h := newHarness(t)
		h.inventory.EXPECT().ToolsByIDs(gomock.Any(), gomock.Any()).
			Return(map[int64]*inventory.Tool{1: builder.NewTool(1, "10")}, nil)
		h.rentals.EXPECT().LastReservationNumber(gomock.Any(), "RNT-").Return("", nil)
		h.rentals.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(1), nil)

		admin := principal(999999, user.AllRights())
		admin.IsLocalAdmin = true
		res, err := newRentalCommands(h).Create(context.Background(), createInput(), admin)
		require.NoError(t, err)
		assert.Equal(t, "RNT-001", res.Number)
	})
}

func TestDecideRental(t *testing.T) {
	t.Run("reject releases held instances and notifies", func(t *testing.T) {
		h := newHarness(t)
		r := storedRental(rental.StatusReserved, builder.BoundLine(1, 1, 501, "10"))
		h.rentals.EXPECT().FindByID(gomock.Any(), int64(10)).Return(r, nil)
		h.inventory.EXPECT().ReleaseIfHeld(gomock.Any(), []int64{501}).Return(nil)
		h.notifications.EXPECT().Enqueue(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n shared.Notification) error {
				assert.Equal(t, shared.NotificationReservationRejected, n.Type)
				assert.Equal(t, "Reservation RNT-010 rejected: no budget", n.Payload)
				return nil
			})
		h.rentals.EXPECT().Save(gomock.Any(), r).Return(nil)

		res, err := newRentalCommands(h).Decide(context.Background(), 10,
			commands.DecisionInput{Decision: "reject", Reason: "no budget"}, principal(1, manager))
		require.NoError(t, err)
		assert.Equal(t, rental.StatusClosed, res.Status)
	})

	t.Run("reject without a reason changes nothing", func(t *testing.T) {
		h := newHarness(t)
		r := storedRental(rental.StatusReserved, builder.BoundLine(1, 1, 501, "10"))
		h.rentals.EXPECT().FindByID(gomock.Any(), int64(10)).Return(r, nil)
		h.rentals.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

		_, err := newRentalCommands(h).Decide(context.Background(), 10,
			commands.DecisionInput{Decision: "reject"}, principal(1, manager))
		require.ErrorIs(t, err, rental.ErrMissingReason)
	})

	t.Run("approve allocates the busiest free instances and records the shortage", func(t *testing.T) {
		h := newHarness(t)
		r := storedRental(rental.StatusReserved,
			builder.UnboundLine(1, 1, 3, rental.LinePendingApproval, "10"))
		h.rentals.EXPECT().FindByID(gomock.Any(), int64(10)).Return(r, nil)

		instances := []*inventory.Instance{
			builder.NewInstance(501, 1, "SN-501"),
			builder.NewInstance(502, 1, "SN-502"),
		}
		h.inventory.EXPECT().InstancesByTool(gomock.Any(), int64(1)).Return(instances, nil)
		h.rentals.EXPECT().Bookings(gomock.Any(), []int64{501, 502}).Return(nil, nil)
		h.rentals.EXPECT().Usage(gomock.Any(), []int64{501, 502}).Return([]inventory.Usage{
			{InstanceID: 502, Start: builder.Date(2025, time.May, 1), End: builder.Date(2025, time.May, 11)},
		}, nil)
		h.inventory.EXPECT().SetInstanceStatus(gomock.Any(), int64(502), inventory.InstanceReserved).Return(nil)
		h.inventory.EXPECT().SetInstanceStatus(gomock.Any(), int64(501), inventory.InstanceReserved).Return(nil)
		h.notifications.EXPECT().Enqueue(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n shared.Notification) error {
				assert.Equal(t, "Reservation RNT-010 approved. Reserved=2 shortage=1", n.Payload)
				return nil
			})
		h.rentals.EXPECT().Save(gomock.Any(), r).Return(nil)

		res, err := newRentalCommands(h).Decide(context.Background(), 10,
			commands.DecisionInput{Decision: "Approve"}, principal(1, manager))
		require.NoError(t, err)
		assert.Equal(t, 2, res.ReservedCount)
		assert.Equal(t, 1, res.ShortageCount)
		assert.Equal(t, rental.StatusReserved, res.Status)
		assert.Equal(t, 1, r.DeficitQuantity())
	})

	t.Run("unknown decision", func(t *testing.T) {
		h := newHarness(t)
		_, err := newRentalCommands(h).Decide(context.Background(), 10,
			commands.DecisionInput{Decision: "maybe"}, principal(1, manager))
		require.ErrorIs(t, err, rental.ErrInvalidDecision)
	})

	t.Run("missing rental", func(t *testing.T) {
		h := newHarness(t)
		notFound := errs.Mark(errs.New("no rows"), errs.ErrNotFound)
		h.rentals.EXPECT().FindByID(gomock.Any(), int64(10)).Return(nil, notFound)

		_, err := newRentalCommands(h).Decide(context.Background(), 10,
			commands.DecisionInput{Decision: "approve"}, principal(1, manager))
		require.ErrorIs(t, err, rental.ErrRentalNotFound)
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	})
}

func TestCheckoutOffer(t *testing.T) {
	t.Run("only offers can be checked out", func(t *testing.T) {
		h := newHarness(t)
		h.rentals.EXPECT().FindByNumber(gomock.Any(), "260001").
			Return(storedRental(rental.StatusReserved), nil)

		_, err := newRentalCommands(h).CheckoutOffer(context.Background(), " 260001 ",
			commands.CheckoutOfferInput{StartDate: builder.Date(2026, 3, 2), EndDate: builder.Date(2026, 3, 3)},
			principal(4711, checkoutOnly))
		require.ErrorIs(t, err, rental.ErrOfferNotFound)
	})

	t.Run("converts the offer into a reservation and closes it", func(t *testing.T) {
		h := newHarness(t)
		offer := storedRental(rental.StatusOffer, builder.UnboundLine(1, 1, 2, rental.LineOffer, "9"))
		offer.Number = "260001"
		h.rentals.EXPECT().FindByNumber(gomock.Any(), "260001").Return(offer, nil)
		h.inventory.EXPECT().ToolsByIDs(gomock.Any(), []int64{1}).
			Return(map[int64]*inventory.Tool{1: builder.NewTool(1, "12.50")}, nil)
		h.rentals.EXPECT().LastReservationNumber(gomock.Any(), "RNT-").Return("RNT-010", nil)
		h.rentals.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r *rental.Rental) (int64, error) {
				assert.Equal(t, rental.StatusReserved, r.Status)
				assert.Equal(t, "Checked out from offer 260001", r.Notes)
				require.Len(t, r.Items, 1)
				assert.True(t, decimal.RequireFromString("9").Equal(r.Items[0].DailyCost))
				return 11, nil
			})
		h.rentals.EXPECT().Save(gomock.Any(), offer).Return(nil)

		res, err := newRentalCommands(h).CheckoutOffer(context.Background(), "260001",
			commands.CheckoutOfferInput{StartDate: builder.Date(2026, 3, 2), EndDate: builder.Date(2026, 3, 4)},
			principal(4711, checkoutOnly))
		require.NoError(t, err)
		assert.Equal(t, "RNT-011", res.Number)
		assert.Equal(t, rental.StatusClosed, offer.Status)
	})
}

func TestExtendRental(t *testing.T) {
	t.Run("conflicting booking leaves the rental untouched", func(t *testing.T) {
		h := newHarness(t)
		r := storedRental(rental.StatusActive, builder.BoundLine(1, 1, 501, "10"))
		h.rentals.EXPECT().FindByID(gomock.Any(), int64(10)).Return(r, nil)
		h.inventory.EXPECT().InstancesByIDs(gomock.Any(), []int64{501}).
			Return(map[int64]*inventory.Instance{501: builder.NewInstance(501, 1, "SN-501")}, nil)
		h.rentals.EXPECT().Bookings(gomock.Any(), []int64{501}).Return([]rental.Booking{
			{RentalID: 77, InstanceID: 501, Status: rental.StatusReserved,
				Start: builder.Date(2026, 3, 6), End: builder.Date(2026, 3, 9)},
		}, nil)
		h.rentals.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

		_, err := newRentalCommands(h).Extend(context.Background(), 10, builder.Date(2026, 3, 7), principal(1, manager))
		require.ErrorIs(t, err, rental.ErrScheduleConflict)
		assert.Equal(t, errs.KindScheduleConflict, errs.KindOf(err))
		assert.Equal(t, builder.Date(2026, 3, 5), r.EndDate)
	})
}

func TestMarkLost(t *testing.T) {
	h := newHarness(t)
	r := storedRental(rental.StatusActive, builder.BoundLine(1, 1, 501, "10"))
	tool := builder.NewTool(1, "10")
	tool.CurrentValue = decimal.NewNullDecimal(decimal.NewFromInt(100))
	h.rentals.EXPECT().FindByID(gomock.Any(), int64(10)).Return(r, nil)
	h.inventory.EXPECT().ToolsByIDs(gomock.Any(), []int64{1}).Return(map[int64]*inventory.Tool{1: tool}, nil)
	h.rentals.EXPECT().Save(gomock.Any(), r).Return(nil)

	res, err := newRentalCommands(h).MarkLost(context.Background(), 10, principal(1, manager))
	require.NoError(t, err)
	assert.Equal(t, rental.StatusLost, res.Status)
	assert.Equal(t, "70", res.Amount.String())
}

func TestKioskLend(t *testing.T) {
	input := func() commands.KioskLendInput {
		return commands.KioskLendInput{
			EmployeeID: 4711,
			PIN:        "1234",
			StartDate:  builder.Date(2026, 3, 1),
			EndDate:    builder.Date(2026, 3, 3),
			Lines:      []rental.LineRequest{{ToolID: 1, Quantity: 1}},
		}
	}

	t.Run("wrong pin is rejected before anything is written", func(t *testing.T) {
		h := newHarness(t)
		h.expectDirectory("4711")
		h.users.EXPECT().FindByEmployeeID(gomock.Any(), int64(4711)).Return(nil, errs.Mark(errs.New("none"), errs.ErrNotFound))
		h.rentals.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		in := input()
		in.PIN = "9999"
		_, err := newRentalCommands(h).KioskLend(context.Background(), in)
		require.ErrorIs(t, err, commands.ErrInvalidPIN)
	})

	t.Run("short pin", func(t *testing.T) {
		h := newHarness(t)
		h.expectDirectory("4711")
		in := input()
		in.PIN = "12"
		_, err := newRentalCommands(h).KioskLend(context.Background(), in)
		require.ErrorIs(t, err, commands.ErrPINTooShort)
	})

	t.Run("lends allocated instances immediately", func(t *testing.T) {
		h := newHarness(t)
		h.expectDirectory("4711")
		h.users.EXPECT().FindByEmployeeID(gomock.Any(), int64(4711)).Return(nil, errs.Mark(errs.New("none"), errs.ErrNotFound))
		h.inventory.EXPECT().ToolsByIDs(gomock.Any(), []int64{1}).
			Return(map[int64]*inventory.Tool{1: builder.NewTool(1, "10")}, nil)
		h.rentals.EXPECT().LastReservationNumber(gomock.Any(), "RNT-").Return("RNT-001", nil)
		h.rentals.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(5), nil)
		h.inventory.EXPECT().InstancesByTool(gomock.Any(), int64(1)).
			Return([]*inventory.Instance{builder.NewInstance(501, 1, "SN-501")}, nil)
		h.rentals.EXPECT().Bookings(gomock.Any(), []int64{501}).Return(nil, nil)
		h.rentals.EXPECT().Usage(gomock.Any(), []int64{501}).Return(nil, nil)
		h.rentals.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		gomock.InOrder(
			h.inventory.EXPECT().SetInstanceStatus(gomock.Any(), int64(501), inventory.InstanceReserved).Return(nil),
			h.inventory.EXPECT().SetInstanceStatus(gomock.Any(), int64(501), inventory.InstanceInRental).Return(nil),
		)

		res, err := newRentalCommands(h).KioskLend(context.Background(), input())
		require.NoError(t, err)
		assert.Equal(t, rental.StatusActive, res.Status)
		require.Len(t, res.PickupItems, 1)
		assert.Equal(t, int64(501), res.PickupItems[0].InstanceID)
		assert.Zero(t, res.ShortageQty)
	})
}
