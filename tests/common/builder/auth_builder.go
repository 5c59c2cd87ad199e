//go:build unit || e2e

package builder

import (
	reqdto "tool-rental/internal/handler/dto/request"
)

type AuthBuilder struct {
	Username   string
	Password   string
	EmployeeID int64
	PinCode    string
}

// NewAuthBuilder starts from an employee PIN login.
func NewAuthBuilder() *AuthBuilder {
	return &AuthBuilder{
		EmployeeID: 4711,
		PinCode:    "1234",
	}
}

// AsAdmin switches to the local admin username and password.
func (a *AuthBuilder) AsAdmin(username, password string) *AuthBuilder {
	a.Username, a.Password = username, password
	a.EmployeeID, a.PinCode = 0, ""
	return a
}

func (a *AuthBuilder) BuildDTO() reqdto.LoginRequest {
	return reqdto.LoginRequest{
		Username:   a.Username,
		Password:   a.Password,
		EmployeeID: a.EmployeeID,
		PinCode:    a.PinCode,
	}
}
