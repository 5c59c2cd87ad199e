package inventory

import "time"

type InstanceStatus string

const (
	InstanceAvailable   InstanceStatus = "Available"
	InstanceReserved    InstanceStatus = "Reserved"
	InstanceInRental    InstanceStatus = "In Rental"
	InstanceRented      InstanceStatus = "Rented"
	InstanceMaintenance InstanceStatus = "Maintenance"
	InstanceRetired     InstanceStatus = "Retired"
)

// IsHeld reports whether the status marks the instance as held by a rental.
func (s InstanceStatus) IsHeld() bool {
	return s == InstanceReserved || s == InstanceRented || s == InstanceInRental
}

// Instance is one physical, individually tracked unit of a tool.
type Instance struct {
	ID                    int64
	ToolID                int64
	SerialNumber          string
	InstanceNumber        int
	Status                InstanceStatus
	Condition             string
	WarehouseID           *int64
	LocationCode          string
	RequiresCertification bool
	LastCalibration       *time.Time
	NextCalibration       *time.Time
}

// CertifiedThrough reports whether the instance may be used up to and including end.
func (i *Instance) CertifiedThrough(end time.Time) bool {
	if !i.RequiresCertification {
		return true
	}
	return i.NextCalibration != nil && !i.NextCalibration.Before(end)
}
