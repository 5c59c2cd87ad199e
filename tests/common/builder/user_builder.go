//go:build unit || e2e

package builder

import (
	"strconv"
	"time"

	"tool-rental/internal/domain/employee"
	"tool-rental/internal/domain/user"
	"tool-rental/internal/usecase/queries"
)

type UserBuilder struct {
	EmployeeID int64
	Name       string
	Initials   string
	Role       user.Role
	Rights     user.Rights
	PINHash    *string
	IsActive   bool
	Now        time.Time
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		EmployeeID: 4711,
		Name:       "Jane Doe",
		Initials:   "JD",
		Role:       user.RoleUser,
		Rights:     user.BaselineRights(user.RoleUser),
		IsActive:   true,
		Now:        time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

func (u *UserBuilder) WithRole(role user.Role) *UserBuilder {
	u.Role = role
	u.Rights = user.BaselineRights(role)
	return u
}

func (u *UserBuilder) WithPINHash(hash string) *UserBuilder {
	u.PINHash = &hash
	return u
}

func (u *UserBuilder) AsInactive() *UserBuilder {
	u.IsActive = false
	return u
}

// Build methods
func (u *UserBuilder) BuildDomain() *user.Account {
	var pinUpdatedAt *time.Time
	if u.PINHash != nil {
		at := u.Now
		pinUpdatedAt = &at
	}
	return user.ReconstructAccount(u.EmployeeID, u.Role, u.Rights, u.PINHash, pinUpdatedAt, u.IsActive, u.Now, u.Now)
}

func (u *UserBuilder) BuildEmployee() employee.Employee {
	e, _ := employee.NewEmployee(strconv.FormatInt(u.EmployeeID, 10), u.Name, u.Initials, "", "")
	return e
}

func (u *UserBuilder) BuildView() *queries.UserView {
	e := u.BuildEmployee()
	return &queries.UserView{
		EmployeeID:     u.EmployeeID,
		EmployeeNumber: e.Number,
		Name:           e.Name,
		Initials:       e.Initials,
		DisplayName:    e.DisplayName,
		Role:           string(u.Role),
		Rights:         u.Rights,
		HasAccess:      true,
		HasCustomPIN:   u.PINHash != nil,
		IsActive:       u.IsActive,
		InDirectory:    true,
	}
}
