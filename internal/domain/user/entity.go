package user

import (
	"time"
)

// Account is the access record of an employee: role, rights and PIN.
type Account struct {
	employeeID   int64
	role         Role
	rights       Rights
	pinHash      *string
	pinUpdatedAt *time.Time
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewAccount(employeeID int64, role Role, rights Rights, now time.Time) (*Account, error) {
	if employeeID <= 0 {
		return nil, ErrInvalidEmployeeID
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	return &Account{
		employeeID: employeeID,
		role:       role,
		rights:     rights,
		isActive:   true,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructAccount(
	employeeID int64,
	role Role,
	rights Rights,
	pinHash *string,
	pinUpdatedAt *time.Time,
	isActive bool,
	createdAt, updatedAt time.Time,
) *Account {
	return &Account{
		employeeID:   employeeID,
		role:         role,
		rights:       rights,
		pinHash:      pinHash,
		pinUpdatedAt: pinUpdatedAt,
		isActive:     isActive,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (a *Account) EmployeeID() int64        { return a.employeeID }
func (a *Account) Role() Role               { return a.role }
func (a *Account) Rights() Rights           { return a.rights }
func (a *Account) PINHash() *string         { return a.pinHash }
func (a *Account) PINUpdatedAt() *time.Time { return a.pinUpdatedAt }
func (a *Account) HasCustomPIN() bool       { return a.pinHash != nil && *a.pinHash != "" }
func (a *Account) IsActive() bool           { return a.isActive }
func (a *Account) CreatedAt() time.Time     { return a.createdAt }
func (a *Account) UpdatedAt() time.Time     { return a.updatedAt }

func (a *Account) ChangeAccess(role Role, rights Rights, now time.Time) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}
	a.role = role
	a.rights = rights
	a.updatedAt = now
	return nil
}

func (a *Account) SetPINHash(hash string, now time.Time) {
	a.pinHash = &hash
	a.pinUpdatedAt = &now
	a.updatedAt = now
}

func (a *Account) SetActive(active bool, now time.Time) {
	a.isActive = active
	a.updatedAt = now
}

// ResetPIN drops the personal PIN so the default PIN applies again.
func (a *Account) ResetPIN(now time.Time) {
	a.pinHash = nil
	a.pinUpdatedAt = &now
	a.updatedAt = now
}
