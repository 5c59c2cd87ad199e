//go:build unit

package queries_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"tool-rental/internal/domain/employee"
	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/domain/rental"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/errs"
	"tool-rental/internal/usecase/queries"
	"tool-rental/internal/usecase/shared"
	"tool-rental/tests/common/builder"
	sharedmock "tool-rental/tests/mock/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	uow       *sharedmock.MockUnitOfWork
	tx        *sharedmock.MockTx
	rentals   *sharedmock.MockRentalRepository
	inventory *sharedmock.MockInventoryRepository
	audit     *sharedmock.MockAuditRepository
	directory *sharedmock.MockEmployeeDirectory
	exporter  *sharedmock.MockRentalExporter
	clock     *clock.MockClock
	q         queries.RentalQueries
}

func newFixture(t *testing.T, now time.Time) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		uow:       sharedmock.NewMockUnitOfWork(ctrl),
		tx:        sharedmock.NewMockTx(ctrl),
		rentals:   sharedmock.NewMockRentalRepository(ctrl),
		inventory: sharedmock.NewMockInventoryRepository(ctrl),
		audit:     sharedmock.NewMockAuditRepository(ctrl),
		directory: sharedmock.NewMockEmployeeDirectory(ctrl),
		exporter:  sharedmock.NewMockRentalExporter(ctrl),
		clock:     clock.NewMockClock(now),
	}
	run := func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
		return fn(ctx, f.tx)
	}
	f.uow.EXPECT().Within(gomock.Any(), gomock.Any()).DoAndReturn(run).AnyTimes()
	f.uow.EXPECT().WithinReadOnly(gomock.Any(), gomock.Any()).DoAndReturn(run).AnyTimes()
	f.tx.EXPECT().Rentals().Return(f.rentals).AnyTimes()
	f.tx.EXPECT().Inventory().Return(f.inventory).AnyTimes()
	f.tx.EXPECT().Audit().Return(f.audit).AnyTimes()

	jane, _ := employee.NewEmployee("4711", "Jane Doe", "JD", "", "")
	f.directory.EXPECT().Index(gomock.Any()).Return(map[int64]employee.Employee{4711: jane}).AnyTimes()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.q = queries.NewRentalQueries(f.uow, f.directory, f.exporter, f.clock, logger)
	return f
}

func activeRental() *rental.Rental {
	approver := int64(12)
	return &rental.Rental{
		ID:         10,
		Number:     "RNT-010",
		EmployeeID: 4711,
		Status:     rental.StatusActive,
		StartDate:  builder.Date(2026, time.March, 2),
		EndDate:    builder.Date(2026, time.March, 5),
		ApprovedBy: &approver,
		Items:      []*rental.LineItem{builder.BoundLine(1, 1, 501, "10")},
	}
}

func (f *fixture) expectCatalog() {
	f.inventory.EXPECT().ToolsByIDs(gomock.Any(), []int64{1}).
		Return(map[int64]*inventory.Tool{1: builder.NewTool(1, "10")}, nil)
	f.inventory.EXPECT().InstancesByIDs(gomock.Any(), []int64{501}).
		Return(map[int64]*inventory.Instance{501: builder.NewInstance(501, 1, "SN-501")}, nil)
}

func TestGetRental(t *testing.T) {
	t.Run("reading past the end date persists the overdue promotion", func(t *testing.T) {
		f := newFixture(t, time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC))
		r := activeRental()
		f.rentals.EXPECT().FindByID(gomock.Any(), int64(10)).Return(r, nil)
		f.rentals.EXPECT().Save(gomock.Any(), r).Return(nil).Times(1)
		f.audit.EXPECT().Append(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e shared.AuditEntry) error {
				assert.Equal(t, shared.AuditEntityRental, e.EntityType)
				assert.Equal(t, int64(10), e.EntityID)
				assert.Equal(t, "MarkOverdue", e.Action)
				assert.Nil(t, e.UserID)
				return nil
			}).Times(1)
		f.expectCatalog()

		v, err := f.q.Get(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, string(rental.StatusOverdue), v.Status)
		assert.Equal(t, "JD - Jane Doe", v.EmployeeDisplay)
		assert.Equal(t, "Employee #12", v.ApprovedByDisplay)
		require.Len(t, v.Items, 1)
		assert.Equal(t, "SN-501", v.Items[0].SerialNumber)
		assert.True(t, v.Items[0].IsAllocated)
	})

	t.Run("repeated reads promote once", func(t *testing.T) {
		f := newFixture(t, time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC))
		r := activeRental()
		f.rentals.EXPECT().FindByID(gomock.Any(), int64(10)).Return(r, nil).Times(2)
		f.rentals.EXPECT().Save(gomock.Any(), r).Return(nil).Times(1)
		f.audit.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		f.inventory.EXPECT().ToolsByIDs(gomock.Any(), []int64{1}).
			Return(map[int64]*inventory.Tool{1: builder.NewTool(1, "10")}, nil).Times(2)
		f.inventory.EXPECT().InstancesByIDs(gomock.Any(), []int64{501}).
			Return(map[int64]*inventory.Instance{501: builder.NewInstance(501, 1, "SN-501")}, nil).Times(2)

		first, err := f.q.Get(context.Background(), 10)
		require.NoError(t, err)
		second, err := f.q.Get(context.Background(), 10)
		require.NoError(t, err)

		assert.Equal(t, string(rental.StatusOverdue), first.Status)
		assert.Equal(t, string(rental.StatusOverdue), second.Status)
	})

	t.Run("reading within the period writes nothing", func(t *testing.T) {
		f := newFixture(t, time.Date(2026, time.March, 4, 8, 0, 0, 0, time.UTC))
		f.rentals.EXPECT().FindByID(gomock.Any(), int64(10)).Return(activeRental(), nil)
		f.rentals.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)
		f.expectCatalog()

		v, err := f.q.Get(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, string(rental.StatusActive), v.Status)
	})

	t.Run("missing rental", func(t *testing.T) {
		f := newFixture(t, time.Date(2026, time.March, 4, 8, 0, 0, 0, time.UTC))
		f.rentals.EXPECT().FindByID(gomock.Any(), int64(10)).Return(nil, errs.Mark(errs.New("no rows"), errs.ErrNotFound))

		_, err := f.q.Get(context.Background(), 10)
		require.ErrorIs(t, err, rental.ErrRentalNotFound)
	})
}

func TestListRentals(t *testing.T) {
	f := newFixture(t, time.Date(2026, time.March, 4, 8, 0, 0, 0, time.UTC))
	f.rentals.EXPECT().PromoteOverdue(gomock.Any(), builder.Date(2026, 3, 4)).Return(int64(0), nil)
	f.rentals.EXPECT().List(gomock.Any(), shared.RentalFilter{Status: "Active", AfterID: 30, Limit: 3}).
		Return([]*rental.Rental{
			{ID: 29, Number: "RNT-029", EmployeeID: 4711, Status: rental.StatusActive},
			{ID: 28, Number: "RNT-028", EmployeeID: 4711, Status: rental.StatusActive},
			{ID: 27, Number: "RNT-027", EmployeeID: 4711, Status: rental.StatusActive},
		}, nil)
	f.inventory.EXPECT().ToolsByIDs(gomock.Any(), gomock.Any()).Return(map[int64]*inventory.Tool{}, nil)
	f.inventory.EXPECT().InstancesByIDs(gomock.Any(), gomock.Any()).Return(map[int64]*inventory.Instance{}, nil)

	views, next, err := f.q.List(context.Background(), queries.ListFilter{Status: "Active"},
		&queries.Cursor{After: queries.EncodeAfterCursor(30)}, 2)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.NotNil(t, next)
	afterID, err := queries.DecodeAfterCursor(next.After)
	require.NoError(t, err)
	assert.Equal(t, int64(28), afterID)
}

func TestAvailability(t *testing.T) {
	f := newFixture(t, time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC))
	expired := builder.NewInstance(503, 1, "SN-503")
	expired.RequiresCertification = true
	f.inventory.EXPECT().ToolsByIDs(gomock.Any(), []int64{1}).
		Return(map[int64]*inventory.Tool{1: builder.NewTool(1, "10")}, nil)
	f.inventory.EXPECT().InstancesByTool(gomock.Any(), int64(1)).Return([]*inventory.Instance{
		builder.NewInstance(501, 1, "SN-501"),
		builder.NewInstance(502, 1, "SN-502"),
		expired,
	}, nil)
	f.rentals.EXPECT().Bookings(gomock.Any(), []int64{501, 502, 503}).Return([]rental.Booking{
		{RentalID: 5, InstanceID: 501, Status: rental.StatusActive, Start: builder.Date(2026, 3, 1), End: builder.Date(2026, 3, 3)},
	}, nil)
	f.rentals.EXPECT().Usage(gomock.Any(), []int64{502}).Return(nil, nil)

	v, err := f.q.Availability(context.Background(), queries.AvailabilityInput{
		ToolID:    1,
		StartDate: builder.Date(2026, 3, 2),
		EndDate:   builder.Date(2026, 3, 4),
		Quantity:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{502}, v.AvailableInstanceIDs)
	assert.Equal(t, 1, v.AvailableCount)
	assert.Equal(t, 2, v.Deficit)
}

func TestAvailabilityValidation(t *testing.T) {
	f := newFixture(t, time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC))
	_, err := f.q.Availability(context.Background(), queries.AvailabilityInput{
		ToolID:    1,
		StartDate: builder.Date(2026, 3, 4),
		EndDate:   builder.Date(2026, 3, 2),
	})
	require.ErrorIs(t, err, inventory.ErrInvalidPeriod)

	_, err = f.q.Availability(context.Background(), queries.AvailabilityInput{
		ToolID:    1,
		StartDate: builder.Date(2026, 3, 2),
		EndDate:   builder.Date(2026, 3, 4),
		Quantity:  -1,
	})
	require.ErrorIs(t, err, queries.ErrInvalidQuantity)
}

func TestExport(t *testing.T) {
	f := newFixture(t, time.Date(2026, time.March, 4, 8, 0, 0, 0, time.UTC))
	f.rentals.EXPECT().PromoteOverdue(gomock.Any(), gomock.Any()).Return(int64(0), nil)
	f.rentals.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*rental.Rental{activeRental()}, nil)
	f.exporter.EXPECT().Render(gomock.Any()).DoAndReturn(func(rows []shared.ExportRow) ([]byte, error) {
		require.Len(t, rows, 1)
		assert.Equal(t, "JD - Jane Doe", rows[0].Employee)
		assert.Equal(t, 1, rows[0].ItemCount)
		return []byte("xlsx"), nil
	})
	f.exporter.EXPECT().FileExtension().Return("xlsx")
	f.exporter.EXPECT().ContentType().Return("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	file, err := f.q.Export(context.Background(), queries.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, "rentals-2026-03-04.xlsx", file.Name)
	assert.Equal(t, []byte("xlsx"), file.Content)
}

func TestCursorRoundTrip(t *testing.T) {
	id, err := queries.DecodeAfterCursor(queries.EncodeAfterCursor(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	id, err = queries.DecodeAfterCursor("17")
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)

	_, err = queries.DecodeAfterCursor("not-a-cursor")
	require.ErrorIs(t, err, queries.ErrInvalidCursor)
}
