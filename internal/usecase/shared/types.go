package shared

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AuditEntityRental = "Rental"
	AuditEntityAuth   = "Auth"
	AuditEntityUser   = "User"
)

type AuditEntry struct {
	EntityType string
	EntityID   int64
	Action     string
	Details    string
	UserID     *int64
	CreatedAt  time.Time
}

const (
	NotificationReservationApproved = "ReservationApproved"
	NotificationReservationRejected = "ReservationRejected"
	NotificationDueSoon             = "DueSoon"
	NotificationOverdue             = "Overdue"
)

type Notification struct {
	ID        int64      `json:"id"`
	RentalID  int64      `json:"rentalID"`
	Type      string     `json:"type"`
	Payload   string     `json:"payload"`
	CreatedAt time.Time  `json:"createdAt"`
	SentAt    *time.Time `json:"sentAt,omitempty"`
}

type RentalFilter struct {
	Status     string
	EmployeeID *int64
	Query      string
	// AfterID continues a listing ordered by id descending.
	AfterID int64
	Limit   int
}

type DirectoryStatus struct {
	Configured            bool       `json:"configured"`
	CacheCount            int        `json:"cacheCount"`
	CacheExpiresInSeconds int        `json:"cacheExpiresInSeconds"`
	LastError             string     `json:"lastError,omitempty"`
	LastRefreshAt         *time.Time `json:"lastRefreshAt,omitempty"`
}

// ExportRow is one rental line of a spreadsheet export.
type ExportRow struct {
	RentalNumber    string
	Status          string
	Employee        string
	Purpose         string
	ProjectCode     string
	StartDate       time.Time
	EndDate         time.Time
	ItemCount       int
	DeficitQuantity int
	TotalCost       decimal.Decimal
	ApprovedBy      string
	CreatedAt       time.Time
}
