package shared

import (
	"context"
	"time"

	"tool-rental/internal/domain/employee"
	"tool-rental/internal/domain/inventory"
	"tool-rental/internal/domain/rental"
	"tool-rental/internal/domain/user"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Rentals() RentalRepository
	Inventory() InventoryRepository
	Audit() AuditRepository
	Notifications() NotificationRepository
	Users() UserRepository
}

type RentalRepository interface {
	// FindByID loads the rental with its items and locks the header row.
	FindByID(ctx context.Context, id int64) (*rental.Rental, error)
	FindByNumber(ctx context.Context, number string) (*rental.Rental, error)
	List(ctx context.Context, filter RentalFilter) ([]*rental.Rental, error)
	Create(ctx context.Context, r *rental.Rental) (int64, error)
	// Save updates the header and existing items and inserts items without an id.
	Save(ctx context.Context, r *rental.Rental) error
	LastReservationNumber(ctx context.Context, prefix string) (string, error)
	OfferNumbers(ctx context.Context, yearPrefix string) ([]string, error)
	// Bookings returns every line item referencing one of instanceIDs, with its rental.
	Bookings(ctx context.Context, instanceIDs []int64) ([]rental.Booking, error)
	// Usage returns the historical bookings of instanceIDs on non-offer rentals.
	Usage(ctx context.Context, instanceIDs []int64) ([]inventory.Usage, error)
	// PromoteOverdue marks every Active rental ending before today as Overdue.
	PromoteOverdue(ctx context.Context, today time.Time) (int64, error)
	// DueBy lists Active and Overdue rentals ending on or before until.
	DueBy(ctx context.Context, until time.Time) ([]*rental.Rental, error)
	SearchProjectCodes(ctx context.Context, query string, limit int) ([]string, error)
}

type InventoryRepository interface {
	ToolsByIDs(ctx context.Context, ids []int64) (map[int64]*inventory.Tool, error)
	InstancesByTool(ctx context.Context, toolID int64) ([]*inventory.Instance, error)
	InstancesByIDs(ctx context.Context, ids []int64) (map[int64]*inventory.Instance, error)
	SetInstanceStatus(ctx context.Context, id int64, status inventory.InstanceStatus) error
	// ReleaseIfHeld sets instances Available when they are Reserved, Rented or In Rental.
	ReleaseIfHeld(ctx context.Context, ids []int64) error
	SetToolsAvailable(ctx context.Context, toolIDs []int64) error
}

type AuditRepository interface {
	Append(ctx context.Context, entry AuditEntry) error
}

type NotificationRepository interface {
	Enqueue(ctx context.Context, n Notification) error
	// EnqueueOnce skips the insert when a notification of the same type for the
	// same rental was created on day. It reports whether a row was inserted.
	EnqueueOnce(ctx context.Context, n Notification, day time.Time) (bool, error)
	Pending(ctx context.Context, limit int) ([]Notification, error)
}

type UserRepository interface {
	FindByEmployeeID(ctx context.Context, employeeID int64) (*user.Account, error)
	List(ctx context.Context) ([]*user.Account, error)
	Save(ctx context.Context, a *user.Account) error
	Delete(ctx context.Context, employeeID int64) error
}

// EmployeeDirectory is the external employee directory behind a TTL cache.
type EmployeeDirectory interface {
	Employees(ctx context.Context, forceRefresh bool) ([]employee.Employee, error)
	// Index returns the entries keyed by employee id. Outages yield the last known entries.
	Index(ctx context.Context) map[int64]employee.Employee
	Status() DirectoryStatus
}

// RentalExporter renders rental rows as a downloadable document.
type RentalExporter interface {
	Render(rows []ExportRow) ([]byte, error)
	ContentType() string
	FileExtension() string
}
