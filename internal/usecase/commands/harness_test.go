//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"tool-rental/internal/domain/auth"
	"tool-rental/internal/domain/employee"
	"tool-rental/internal/domain/user"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/usecase/shared"
	sharedmock "tool-rental/tests/mock/shared"

	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

type harness struct {
	uow           *sharedmock.MockUnitOfWork
	tx            *sharedmock.MockTx
	rentals       *sharedmock.MockRentalRepository
	inventory     *sharedmock.MockInventoryRepository
	audit         *sharedmock.MockAuditRepository
	notifications *sharedmock.MockNotificationRepository
	users         *sharedmock.MockUserRepository
	directory     *sharedmock.MockEmployeeDirectory
	clock         *clock.MockClock
	logger        *slog.Logger
}

// newHarness wires a unit of work whose transactions run fn directly against
// the repository mocks. Audit appends are accepted by default.
func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &harness{
		uow:           sharedmock.NewMockUnitOfWork(ctrl),
		tx:            sharedmock.NewMockTx(ctrl),
		rentals:       sharedmock.NewMockRentalRepository(ctrl),
		inventory:     sharedmock.NewMockInventoryRepository(ctrl),
		audit:         sharedmock.NewMockAuditRepository(ctrl),
		notifications: sharedmock.NewMockNotificationRepository(ctrl),
		users:         sharedmock.NewMockUserRepository(ctrl),
		directory:     sharedmock.NewMockEmployeeDirectory(ctrl),
		clock:         clock.NewMockClock(testNow),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	run := func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
		return fn(ctx, h.tx)
	}
	h.uow.EXPECT().Within(gomock.Any(), gomock.Any()).DoAndReturn(run).AnyTimes()
	h.uow.EXPECT().WithinReadOnly(gomock.Any(), gomock.Any()).DoAndReturn(run).AnyTimes()

	h.tx.EXPECT().Rentals().Return(h.rentals).AnyTimes()
	h.tx.EXPECT().Inventory().Return(h.inventory).AnyTimes()
	h.tx.EXPECT().Audit().Return(h.audit).AnyTimes()
	h.tx.EXPECT().Notifications().Return(h.notifications).AnyTimes()
	h.tx.EXPECT().Users().Return(h.users).AnyTimes()

	h.audit.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	return h
}

// expectDirectory makes the directory list the given employee numbers.
func (h *harness) expectDirectory(numbers ...string) {
	entries := make([]employee.Employee, 0, len(numbers))
	for _, n := range numbers {
		e, _ := employee.NewEmployee(n, "Employee "+n, "E"+n, "", "")
		entries = append(entries, e)
	}
	h.directory.EXPECT().Employees(gomock.Any(), false).Return(entries, nil).AnyTimes()
	index := make(map[int64]employee.Employee, len(entries))
	for _, e := range entries {
		index[e.ID()] = e
	}
	h.directory.EXPECT().Index(gomock.Any()).Return(index).AnyTimes()
}

func principal(id int64, rights user.Rights) auth.Principal {
	return auth.Principal{
		EmployeeID: id,
		Role:       user.RoleUser,
		Rights:     rights,
	}
}

var (
	checkoutOnly = user.Rights{Checkout: true}
	manager      = user.AllRights()
)
